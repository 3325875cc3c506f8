package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/washday/laundry-backend/pkg/config"
	"github.com/washday/laundry-backend/pkg/security"
)

func testConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("fresh-laundry", testConfig())
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected hash encoding %q", hash)
	}

	ok, err := security.VerifyPassword("fresh-laundry", hash)
	if err != nil || !ok {
		t.Fatalf("VerifyPassword failed for the correct password: ok=%v err=%v", ok, err)
	}

	ok, err = security.VerifyPassword("stale-laundry", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := security.HashPassword("", testConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	for _, encoded := range []string{"not-a-hash", "$bcrypt$v=1$m=1$a$b", "$argon2id$v=19$m=x,t=1,p=1$AAAA$AAAA"} {
		if _, err := security.VerifyPassword("irrelevant", encoded); !errors.Is(err, security.ErrInvalidHash) {
			t.Fatalf("expected ErrInvalidHash for %q, got %v", encoded, err)
		}
	}
}

func TestCheckPasswordPolicy(t *testing.T) {
	confirm := "secret1"
	if err := security.CheckPasswordPolicy("secret1", &confirm, 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := security.CheckPasswordPolicy("abc", nil, 6); !errors.Is(err, security.ErrPasswordTooShort) {
		t.Fatalf("expected too short, got %v", err)
	}
	other := "secret2"
	if err := security.CheckPasswordPolicy("secret1", &other, 6); !errors.Is(err, security.ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := security.GenerateTempPassword(security.TempPasswordLength)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(pw) != security.TempPasswordLength {
		t.Fatalf("expected %d chars, got %d", security.TempPasswordLength, len(pw))
	}
	if strings.ContainsAny(pw, "0O1lI") {
		t.Fatalf("temp password contains ambiguous characters: %q", pw)
	}
	if _, err := security.GenerateTempPassword(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}
