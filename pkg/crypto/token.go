package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

const (
	// TokenBytes is the entropy of an opaque token. 32 bytes = 64 hex chars.
	TokenBytes = 32
)

// GenerateToken produces an opaque bearer token: random bytes from a
// cryptographically secure source, hex encoded. The same format is used for
// session tokens and password-reset tokens; the two spaces are distinguished
// only by which table stores them.
func GenerateToken() (string, error) {
	bytes := make([]byte, TokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// TokensMatch compares two tokens without short-circuiting.
func TokensMatch(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
