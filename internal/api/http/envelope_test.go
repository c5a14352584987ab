package http

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/cryptobox"
	"github.com/spec-kit/helpdesk/internal/observability"
)

func newTestCodec(t *testing.T) *cryptobox.Codec {
	t.Helper()
	codec, err := cryptobox.New(
		[]byte("0123456789abcdef0123456789abcdef"),
		[]byte("1234567890123456"))
	require.NoError(t, err)
	return codec
}

// newTestApp wires the middleware chain the way the server does and attaches
// an echo endpoint that reports the body the handler actually received.
func newTestApp(t *testing.T, codec *cryptobox.Codec) (*fiber.App, *Responder) {
	t.Helper()
	responder := NewResponder(codec)
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), responder, 5*time.Second)
	app.Use(DecryptPayload(codec))

	app.Post("/echo", func(c *fiber.Ctx) error {
		var body map[string]any
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return err
		}
		return responder.Send(c, nethttp.StatusOK, fiber.Map{"received": body})
	})
	return app, responder
}

func decryptResponse(t *testing.T, codec *cryptobox.Codec, resp *nethttp.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env struct {
		Payload string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &env), "response body %q is not an envelope", raw)
	require.NotEmpty(t, env.Payload)

	plain, err := codec.Decrypt(env.Payload)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(plain), &body))
	return body
}

func TestDecryptPayloadUnwrapsEnvelope(t *testing.T) {
	codec := newTestCodec(t)
	app, _ := newTestApp(t, codec)

	ciphertext := codec.Encrypt(`{"status":"Open","problemStatement":"printer jam"}`)
	body, err := json.Marshal(map[string]string{"payload": ciphertext})
	require.NoError(t, err)

	req := httptest.NewRequest(nethttp.MethodPost, "/echo", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	got := decryptResponse(t, codec, resp)
	received, ok := got["received"].(map[string]any)
	require.True(t, ok, "handler did not receive the decrypted object: %v", got)
	assert.Equal(t, "Open", received["status"])
	assert.Equal(t, "printer jam", received["problemStatement"])
}

func TestDecryptPayloadPassesPlainBodiesThrough(t *testing.T) {
	codec := newTestCodec(t)
	app, _ := newTestApp(t, codec)

	req := httptest.NewRequest(nethttp.MethodPost, "/echo", strings.NewReader(`{"status":"Open"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	got := decryptResponse(t, codec, resp)
	received := got["received"].(map[string]any)
	assert.Equal(t, "Open", received["status"])
}

func TestDecryptPayloadIgnoresMultiKeyObjects(t *testing.T) {
	codec := newTestCodec(t)
	app, _ := newTestApp(t, codec)

	// An object that merely contains a payload field alongside others is a
	// plain body, not an envelope.
	req := httptest.NewRequest(nethttp.MethodPost, "/echo",
		strings.NewReader(`{"payload":"not-ciphertext","other":1}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	got := decryptResponse(t, codec, resp)
	received := got["received"].(map[string]any)
	assert.Equal(t, "not-ciphertext", received["payload"])
}

func TestDecryptPayloadRejectsBadCiphertext(t *testing.T) {
	codec := newTestCodec(t)
	app, _ := newTestApp(t, codec)

	tests := []struct {
		name string
		body string
	}{
		{"not base64", `{"payload":"!!!"}`},
		{"wrong key material", `{"payload":"AAAAAAAAAAAAAAAAAAAAAA=="}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(nethttp.MethodPost, "/echo", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

			got := decryptResponse(t, codec, resp)
			errBody, ok := got["error"].(map[string]any)
			require.True(t, ok, "error body missing: %v", got)
			assert.Equal(t, "INVALID_ENVELOPE", errBody["code"])
		})
	}
}

func TestResponderEnvelopesBody(t *testing.T) {
	codec := newTestCodec(t)
	responder := NewResponder(codec)

	app := fiber.New()
	app.Get("/thing", func(c *fiber.Ctx) error {
		return responder.Send(c, nethttp.StatusCreated, fiber.Map{"ticketNumber": "TKT-0042"})
	})

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/thing", nil))
	require.NoError(t, err)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	got := decryptResponse(t, codec, resp)
	assert.Equal(t, "TKT-0042", got["ticketNumber"])
}
