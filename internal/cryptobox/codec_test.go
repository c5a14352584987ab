package cryptobox

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

var (
	testKey = []byte("0123456789abcdef0123456789abcdef")
	testIV  = []byte("1234567890123456")
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := New(testKey, testIV)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return codec
}

func TestNewRejectsBadLengths(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
		iv   []byte
	}{
		{"short key", []byte("too-short"), testIV},
		{"long key", append(testKey, 'x'), testIV},
		{"short iv", testKey, []byte("short")},
		{"long iv", testKey, append(testIV, 'x')},
		{"nil key", nil, testIV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.key, tt.iv); err == nil {
				t.Error("expected constructor error")
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	tests := []struct {
		name      string
		plaintext string
	}{
		{"empty", ""},
		{"short", "hi"},
		{"json object", `{"employeeID":"E-1001","password":"secret"}`},
		{"exact block size", strings.Repeat("a", 16)},
		{"multi block", strings.Repeat("payload", 100)},
		{"unicode", "tickets ouverts: café, naïve, 標準"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext := codec.Encrypt(tt.plaintext)
			if _, err := base64.StdEncoding.DecodeString(ciphertext); err != nil {
				t.Fatalf("ciphertext is not base64: %v", err)
			}
			got, err := codec.Decrypt(ciphertext)
			if err != nil {
				t.Fatalf("Decrypt() error: %v", err)
			}
			if got != tt.plaintext {
				t.Errorf("round trip = %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestEncryptIsDeterministic(t *testing.T) {
	codec := newTestCodec(t)
	a := codec.Encrypt(`{"status":"Open"}`)
	b := codec.Encrypt(`{"status":"Open"}`)
	if a != b {
		t.Errorf("same plaintext produced different ciphertexts: %q vs %q", a, b)
	}
}

func TestDecryptRejectsMalformedInput(t *testing.T) {
	codec := newTestCodec(t)
	tests := []struct {
		name       string
		ciphertext string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"empty", ""},
		{"not a block multiple", base64.StdEncoding.EncodeToString([]byte("abc"))},
		{"garbage block", base64.StdEncoding.EncodeToString(make([]byte, 16))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Decrypt(tt.ciphertext)
			if err == nil {
				t.Fatal("expected decrypt error")
			}
			if !errors.Is(err, ErrDecrypt) {
				t.Errorf("error %v does not wrap ErrDecrypt", err)
			}
		})
	}
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	codec := newTestCodec(t)
	other, err := New([]byte("ffffffffffffffffffffffffffffffff"), testIV)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ciphertext := codec.Encrypt(`{"ticketNumber":"TKT-0007"}`)
	got, err := other.Decrypt(ciphertext)
	if err == nil && got == `{"ticketNumber":"TKT-0007"}` {
		t.Error("wrong key recovered the plaintext")
	}
}
