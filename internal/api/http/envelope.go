package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/cryptobox"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// envelopeKey is the single JSON key carrying ciphertext on the wire.
const envelopeKey = "payload"

type envelope struct {
	Payload string `json:"payload"`
}

// extractCiphertext reports whether the raw body is an encryption envelope:
// a JSON object with exactly one key, "payload", whose value is a string.
// Anything else is treated as a plain body and passed through untouched.
func extractCiphertext(body []byte) (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", false
	}
	raw, ok := fields[envelopeKey]
	if !ok || len(fields) != 1 {
		return "", false
	}
	var ciphertext string
	if err := json.Unmarshal(raw, &ciphertext); err != nil {
		return "", false
	}
	return ciphertext, true
}

// DecryptPayload returns a middleware that transparently unwraps encrypted
// request bodies before they reach handlers. Bodies without an envelope
// continue unchanged. A body that looks like an envelope but fails to
// decrypt, or decrypts to something that is not JSON, is rejected so a
// half-decrypted request never reaches a handler.
func DecryptPayload(codec *cryptobox.Codec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) == 0 {
			return c.Next()
		}

		ciphertext, ok := extractCiphertext(body)
		if !ok {
			return c.Next()
		}

		plaintext, err := codec.Decrypt(ciphertext)
		if err != nil {
			return apperrors.NewInvalidEnvelope(err)
		}
		if !json.Valid([]byte(plaintext)) {
			return apperrors.NewInvalidEnvelope(cryptobox.ErrDecrypt)
		}

		c.Request().SetBodyRaw([]byte(plaintext))
		c.Request().Header.SetContentType(fiber.MIMEApplicationJSON)
		return c.Next()
	}
}

// Responder serializes handler results and wraps them in the encryption
// envelope. Handlers send every response through it so the wire format
// stays uniform for success and error bodies alike.
type Responder struct {
	codec *cryptobox.Codec
}

// NewResponder builds a Responder over the shared codec.
func NewResponder(codec *cryptobox.Codec) *Responder {
	return &Responder{codec: codec}
}

// Send marshals data to JSON, encrypts it and writes the envelope with the
// given status code.
func (r *Responder) Send(c *fiber.Ctx, status int, data any) error {
	plain, err := json.Marshal(data)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.Status(status).JSON(envelope{Payload: r.codec.Encrypt(string(plain))})
}
