package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/create", cfg.Tickets.Create)
	tickets.Get("/my-tickets", cfg.Tickets.MyTickets)
	tickets.Get("/view/:ticketNumber", cfg.Tickets.Get)
	tickets.Put("/edit/:ticketNumber", cfg.Tickets.Update)
	tickets.Get("/all", auth.RequireAdminOrSuperAdmin(), cfg.Tickets.ListAll)
	tickets.Get("/analytics", auth.RequireAdminOrSuperAdmin(), cfg.Tickets.Analytics)
	tickets.Delete("/delete/:ticketNumber", auth.RequireAdminOrSuperAdmin(), cfg.Tickets.Delete)
	tickets.Post("/check-stale-tickets", auth.RequireAdminOrSuperAdmin(), cfg.Tickets.CheckStale)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/profile/me", cfg.Users.Profile)
	users.Put("/profile/me", cfg.Users.UpdateProfile)
	users.Get("/all", auth.RequireAdminOrSuperAdmin(), cfg.Users.List)
	users.Get("/:id", auth.RequireAdminOrSuperAdmin(), cfg.Users.Get)
	users.Put("/:id", auth.RequireAdminOrSuperAdmin(), cfg.Users.Update)
	users.Delete("/:id", auth.RequireAdminOrSuperAdmin(), cfg.Users.Delete)
	users.Put("/:id/approval", auth.RequireSuperAdmin(), cfg.Users.SetApproval)
}
