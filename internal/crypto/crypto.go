// Package crypto protects single sensitive fields (currently the phone
// number) with aes-256-cbc. Ciphertext is stored as hex(iv):hex(payload) so
// the column stays a plain text type.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const KeyLength = 32

var (
	ErrBadFormat  = errors.New("invalid encrypted data format")
	ErrBadPadding = errors.New("invalid padding")
)

// FieldCipher holds the process-wide key. Construct once at startup and
// inject; business logic never reads key material from the environment.
type FieldCipher struct {
	key []byte
}

func New(key []byte) (*FieldCipher, error) {
	if len(key) != KeyLength {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeyLength, len(key))
	}
	return &FieldCipher{key: append([]byte(nil), key...)}, nil
}

// Encrypt draws a fresh random IV per call, so equal plaintexts produce
// different ciphertexts.
func (c *FieldCipher) Encrypt(plain string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}
	padded := pad([]byte(plain), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Inputs without exactly one separator are
// rejected before any cipher work.
func (c *FieldCipher) Decrypt(enc string) (string, error) {
	parts := strings.Split(enc, ":")
	if len(parts) != 2 {
		return "", ErrBadFormat
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", ErrBadFormat
	}
	payload, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", ErrBadFormat
	}
	if len(iv) != aes.BlockSize || len(payload) == 0 || len(payload)%aes.BlockSize != 0 {
		return "", ErrBadFormat
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	out := make([]byte, len(payload))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, payload)
	return unpad(out, aes.BlockSize)
}

// pkcs#7
func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, size int) (string, error) {
	if len(b) == 0 {
		return "", ErrBadPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return "", ErrBadPadding
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return "", ErrBadPadding
		}
	}
	return string(b[:len(b)-n]), nil
}
