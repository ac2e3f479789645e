package security_test

import (
	"strings"
	"testing"

	"github.com/ErlanBelekov/rbac-admin/internal/security"
)

func TestHashPassword_NeverStoresPlaintext(t *testing.T) {
	const plaintext = "Secret123"

	hash, err := security.HashPassword(plaintext)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == plaintext {
		t.Fatal("hash equals the plaintext")
	}
	if strings.Contains(hash, plaintext) {
		t.Fatal("hash contains the plaintext")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("hash %q is not in bcrypt format", hash)
	}
}

func TestVerifyPassword_OnlyOriginalPlaintextMatches(t *testing.T) {
	hash, err := security.HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !security.VerifyPassword("Secret123", hash) {
		t.Error("correct password rejected")
	}
	if security.VerifyPassword("secret123", hash) {
		t.Error("wrong-case password accepted")
	}
	if security.VerifyPassword("", hash) {
		t.Error("empty password accepted")
	}
}

func TestHashPassword_SaltPerRecord(t *testing.T) {
	h1, err := security.HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	h2, err := security.HashPassword("Secret123")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical (no per-record salt)")
	}
}
