// Package hash provides the bcrypt-backed password hasher.
package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt hashes passwords with a per-call random salt.
type Bcrypt struct {
	cost int
}

// NewBcrypt returns a hasher using bcrypt's default cost.
func NewBcrypt() *Bcrypt {
	return &Bcrypt{cost: bcrypt.DefaultCost}
}

// Hash returns a salted hash of plaintext. Each call salts independently, so
// repeated hashes of the same input differ.
func (b *Bcrypt) Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Compare reports whether plaintext matches the stored hash.
func (b *Bcrypt) Compare(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
