// Package cryptobox implements the symmetric payload envelope shared with
// the frontend: AES-256-CBC with PKCS#7 padding, a fixed IV, and base64
// ciphertext. The static IV makes encryption deterministic, which is a known
// weakness kept deliberately for wire compatibility with the existing peer.
package cryptobox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrDecrypt is returned for any ciphertext that cannot be recovered:
// malformed base64, wrong block length, or invalid padding. Callers treat it
// as "could not authenticate/parse payload" and must not crash on it.
var ErrDecrypt = errors.New("cryptobox: cannot decrypt payload")

// Codec performs the reversible plaintext/ciphertext transformation. It is
// safe for concurrent use; the cipher block and IV are fixed at construction.
type Codec struct {
	block cipher.Block
	iv    []byte
}

// New builds a Codec from a 32-byte key and a 16-byte IV. Length errors are
// reported here so the process fails at startup, not per request.
func New(key, iv []byte) (*Codec, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("cryptobox: key must be 32 bytes, got %d", len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("cryptobox: iv must be %d bytes, got %d", aes.BlockSize, len(iv))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &Codec{block: block, iv: append([]byte(nil), iv...)}, nil
}

// Encrypt converts a UTF-8 plaintext into base64 ciphertext. With the fixed
// IV the output is deterministic: identical plaintexts yield identical
// ciphertexts.
func (c *Codec) Encrypt(plaintext string) string {
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out)
}

// Decrypt is the inverse of Encrypt.
func (c *Codec) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d not a block multiple", ErrDecrypt, len(raw))
	}
	plain := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(plain, raw)
	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: invalid padded length %d", ErrDecrypt, len(data))
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("%w: invalid padding byte %d", ErrDecrypt, n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: inconsistent padding", ErrDecrypt)
		}
	}
	return data[:len(data)-n], nil
}
