// Package handlers contains the HTTP endpoint implementations.
package handlers

import "github.com/gofiber/fiber/v2"

// Responder writes response bodies. The concrete implementation wraps them
// in the encryption envelope; handlers never serialize responses themselves.
type Responder interface {
	Send(c *fiber.Ctx, status int, data any) error
}
