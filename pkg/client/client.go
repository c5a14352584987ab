// Package client provides an HTTP transport speaking the encrypted payload
// envelope, for CLI tooling and integration tests against the API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spec-kit/helpdesk/internal/cryptobox"
)

type envelope struct {
	Payload string `json:"payload"`
}

// Transport is an http.RoundTripper that encrypts request bodies into the
// payload envelope and decrypts enveloped response bodies. Responses
// without a payload key pass through untouched.
type Transport struct {
	Codec *cryptobox.Codec
	// Token, when set, supplies the bearer token attached to each request.
	Token func() string
	// Base is the underlying transport; nil means http.DefaultTransport.
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	if req.Body != nil && req.Body != http.NoBody {
		plain, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		if len(plain) > 0 {
			wrapped, err := json.Marshal(envelope{Payload: t.Codec.Encrypt(string(plain))})
			if err != nil {
				return nil, fmt.Errorf("wrap request body: %w", err)
			}
			out.Body = io.NopCloser(bytes.NewReader(wrapped))
			out.ContentLength = int64(len(wrapped))
			out.Header.Set("Content-Type", "application/json")
		}
	}

	if t.Token != nil {
		if token := t.Token(); token != "" {
			out.Header.Set("Authorization", "Bearer "+token)
		}
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	resp, err := base.RoundTrip(out)
	if err != nil {
		return nil, err
	}
	return t.unwrapResponse(resp)
}

// unwrapResponse replaces an enveloped body with its plaintext. A body that
// is not an envelope is restored verbatim.
func (t *Transport) unwrapResponse(resp *http.Response) (*http.Response, error) {
	if resp.Body == nil {
		return resp, nil
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Payload == "" {
		resp.Body = io.NopCloser(bytes.NewReader(raw))
		return resp, nil
	}

	plain, err := t.Codec.Decrypt(env.Payload)
	if err != nil {
		return nil, fmt.Errorf("decrypt response: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader([]byte(plain)))
	resp.ContentLength = int64(len(plain))
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

// New returns an http.Client using the enveloping transport.
func New(codec *cryptobox.Codec, token func() string) *http.Client {
	return &http.Client{Transport: &Transport{Codec: codec, Token: token}}
}
