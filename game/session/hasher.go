package session

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher derives one-way password verifiers
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// BcryptHasher implements PasswordHasher with salted bcrypt hashes.
// Passwords are reduced with SHA-256 first so inputs longer than bcrypt's
// 72 byte limit are accepted and fully significant.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher creates a hasher, falling back to bcrypt.DefaultCost for
// out-of-range costs
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches a hash produced by Hash
func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
}

// prehash yields a 44 byte base64 digest, below bcrypt's input limit
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
