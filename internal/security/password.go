// Package security wraps password hashing so callers never touch the
// hash library directly. Hashing happens exactly once, immediately
// before a changed secret is persisted; callers pass plaintext.
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Raising the cost invalidates no existing hashes; bcrypt embeds the
// cost per record.
const bcryptCost = 10

// HashPassword returns the one-way hash of plaintext with a per-record
// salt embedded in the output.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether candidate matches the stored hash.
// Comparison happens inside bcrypt; plaintexts are never compared.
func VerifyPassword(candidate, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
