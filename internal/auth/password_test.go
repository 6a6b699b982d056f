package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_VerifyRoundtrip(t *testing.T) {
	passwords := []string{"kodingwithkudos", "correct horse battery staple", "päss wörd"}

	for _, p := range passwords {
		digest, err := HashPassword(p)
		if err != nil {
			t.Fatalf("HashPassword(%q) failed: %v", p, err)
		}
		if !VerifyPassword(p, digest) {
			t.Errorf("VerifyPassword failed for its own hash of %q", p)
		}
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	digest, err := HashPassword("right-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if VerifyPassword("wrong-password", digest) {
		t.Error("VerifyPassword accepted a wrong password")
	}
	if VerifyPassword("", digest) {
		t.Error("VerifyPassword accepted an empty password")
	}
}

func TestHashPassword_SaltedOutput(t *testing.T) {
	first, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	second, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if first == second {
		t.Error("Expected distinct digests for the same password (embedded salt)")
	}
	if !strings.HasPrefix(first, "$2") {
		t.Errorf("Expected a bcrypt digest, got %q", first)
	}
}
