package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk/internal/cryptobox"
)

func newTestCodec(t *testing.T) *cryptobox.Codec {
	t.Helper()
	codec, err := cryptobox.New(
		[]byte("0123456789abcdef0123456789abcdef"),
		[]byte("1234567890123456"))
	if err != nil {
		t.Fatalf("cryptobox.New() error: %v", err)
	}
	return codec
}

func TestTransportEncryptsRequestAndDecryptsResponse(t *testing.T) {
	codec := newTestCodec(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil || env.Payload == "" {
			t.Fatalf("request body %q is not an envelope", raw)
		}
		plain, err := codec.Decrypt(env.Payload)
		if err != nil {
			t.Fatalf("decrypt request: %v", err)
		}
		if plain != `{"employeeID":"E-1001"}` {
			t.Errorf("decrypted request = %q", plain)
		}

		w.Header().Set("Content-Type", "application/json")
		body, _ := json.Marshal(envelope{Payload: codec.Encrypt(`{"message":"ok"}`)})
		w.Write(body)
	}))
	defer server.Close()

	httpClient := New(codec, func() string { return "tok-123" })
	resp, err := httpClient.Post(server.URL+"/api/auth/login", "application/json",
		strings.NewReader(`{"employeeID":"E-1001"}`))
	if err != nil {
		t.Fatalf("Post() error: %v", err)
	}
	defer resp.Body.Close()

	got, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if string(got) != `{"message":"ok"}` {
		t.Errorf("response body = %q, want decrypted JSON", got)
	}
}

func TestTransportPassesPlainResponsesThrough(t *testing.T) {
	codec := newTestCodec(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"alive"}`))
	}))
	defer server.Close()

	httpClient := New(codec, nil)
	resp, err := httpClient.Get(server.URL + "/health/live")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	defer resp.Body.Close()

	got, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if string(got) != `{"status":"alive"}` {
		t.Errorf("response body = %q, want passthrough", got)
	}
}

func TestTransportSkipsEmptyBodies(t *testing.T) {
	codec := newTestCodec(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if len(raw) != 0 {
			t.Errorf("expected empty body, got %q", raw)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	httpClient := New(codec, nil)
	resp, err := httpClient.Get(server.URL + "/api/tickets/my-tickets")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	resp.Body.Close()
}

func TestTransportFailsOnUndecryptablePayload(t *testing.T) {
	codec := newTestCodec(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"payload":"!!!not-ciphertext!!!"}`))
	}))
	defer server.Close()

	httpClient := New(codec, nil)
	_, err := httpClient.Get(server.URL + "/api/tickets/all")
	if err == nil {
		t.Fatal("expected error for undecryptable response payload")
	}
}
