package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokens("test-secret", 0)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	signed, err := tokens.Issue(42, "alice@example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.AccountID != 42 {
		t.Errorf("AccountID = %d, want 42", claims.AccountID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("missing iat/exp claims")
	}
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != DefaultTokenTTL {
		t.Errorf("ttl = %v, want %v", ttl, DefaultTokenTTL)
	}
}

func TestEmptySecretRejected(t *testing.T) {
	if _, err := NewTokens("", time.Hour); !errors.Is(err, ErrNoSecret) {
		t.Errorf("NewTokens(\"\") = %v, want ErrNoSecret", err)
	}
}

func TestExpiredTokenDistinctFromInvalid(t *testing.T) {
	tokens, err := NewTokens("test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	signed, err := tokens.Issue(1, "a@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := tokens.Verify(signed); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify(expired) = %v, want ErrTokenExpired", err)
	}
}

func TestWrongSecretIsInvalid(t *testing.T) {
	issuer, _ := NewTokens("secret-a", time.Hour)
	verifier, _ := NewTokens("secret-b", time.Hour)

	signed, err := issuer.Issue(1, "a@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Verify(wrong secret) = %v, want ErrTokenInvalid", err)
	}
}

func TestGarbageTokenIsInvalid(t *testing.T) {
	tokens, _ := NewTokens("test-secret", time.Hour)

	for _, tok := range []string{"not-a-jwt", "a.b.c"} {
		if _, err := tokens.Verify(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Verify(%q) = %v, want ErrTokenInvalid", tok, err)
		}
	}

	if _, err := tokens.Verify(""); !errors.Is(err, ErrTokenMissing) {
		t.Errorf("Verify(\"\") = %v, want ErrTokenMissing", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(hash, "s3cret!"); err != nil {
		t.Errorf("ComparePassword(correct) = %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Error("ComparePassword(wrong) succeeded")
	}

	// Hashes are salted: hashing twice must not produce the same digest.
	again, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if string(hash) == string(again) {
		t.Error("two hashes of the same password are identical")
	}
}
