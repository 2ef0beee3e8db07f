package security

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"
	"math/big"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	signingKeyInfo   = "askesis bearer token signing key v1"
	signingKeyLength = 32

	secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// SecretLength is the length of secrets produced by GenerateSecret.
	SecretLength = 48
)

var errEmptySecret = errors.New("secret must not be empty")

// DeriveSigningKey expands the configured auth secret into the HS256 key used
// for bearer tokens, so the raw secret never signs anything directly.
func DeriveSigningKey(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errEmptySecret
	}

	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(signingKeyInfo))
	key := make([]byte, signingKeyLength)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// GenerateSecret returns a random alphanumeric value long enough to pass
// config validation.
func GenerateSecret() (string, error) {
	limit := big.NewInt(int64(len(secretAlphabet)))
	value := make([]byte, SecretLength)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = secretAlphabet[position.Int64()]
	}
	return string(value), nil
}
