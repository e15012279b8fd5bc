package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$scrypt$") {
		t.Fatalf("hash = %q, want PHC scrypt format", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword(wrong): %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("samepassword")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical, salts not random")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	malformed := []string{
		"",
		"plaintext",
		"$bcrypt$ln=15,r=8,p=1$c2FsdA$aGFzaA",
		"$scrypt$ln=15,r=8,p=1$c2FsdA",        // missing hash section
		"$scrypt$ln=nope,r=8,p=1$c2FsdA$aGFzaA", // bad params
		"$scrypt$ln=15,r=8,p=1$!!$aGFzaA",       // bad salt encoding
		"$scrypt$ln=99,r=8,p=1$c2FsdA$aGFzaA",   // cost out of range
	}
	for _, stored := range malformed {
		if _, err := VerifyPassword(stored, "whatever"); err == nil {
			t.Errorf("VerifyPassword(%q) = nil error, want malformed-hash error", stored)
		}
	}
}
