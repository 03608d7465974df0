package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PasswordHasher hashes passwords for storage and verifies candidates.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Verify reports whether password matches the stored value. A malformed
	// stored value verifies false rather than returning an error.
	Verify(password, stored string) bool
}

// Ensure PBKDF2 implements PasswordHasher
var _ PasswordHasher = (*PBKDF2)(nil)

// PBKDF2 derives password digests with PBKDF2-SHA256. Stored values are
// hex(salt) + ":" + hex(digest); hex encoding guarantees the delimiter
// never appears inside either component.
type PBKDF2 struct {
	Iterations int
	SaltLength int // Length of random salt in bytes. Ignored during Verify()
	KeyLength  int // Length of derived digest in bytes
}

// NewPBKDF2 returns a hasher with the fixed production parameters.
func NewPBKDF2() *PBKDF2 {
	return &PBKDF2{
		Iterations: 120_000,
		SaltLength: 16,
		KeyLength:  32,
	}
}

func (p *PBKDF2) Hash(password string) (string, error) {
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, p.Iterations, p.KeyLength, sha256.New)

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

func (p *PBKDF2) Verify(password, stored string) bool {
	saltHex, digestHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	digest, err := hex.DecodeString(digestHex)
	if err != nil || len(digest) == 0 {
		return false
	}

	computed := pbkdf2.Key([]byte(password), salt, p.Iterations, len(digest), sha256.New)

	return subtle.ConstantTimeCompare(computed, digest) == 1
}
