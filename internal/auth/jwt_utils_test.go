package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidate(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, claims, err := issuer.GenerateToken("user-1", "tenant")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if claims.ID == "" {
		t.Fatalf("token id must be set")
	}

	got, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got.UserID != "user-1" || got.Role != "tenant" || got.ID != claims.ID {
		t.Fatalf("unexpected claims %+v", got)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := issuer.GenerateToken("user-1", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsOtherSecretAndAlgorithm(t *testing.T) {
	token, _, _ := NewTokenIssuer("a", time.Hour).GenerateToken("user-1", "admin")
	if _, err := NewTokenIssuer("b", time.Hour).ValidateToken(token); err == nil {
		t.Fatalf("token signed with another secret must fail")
	}

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := NewTokenIssuer("a", time.Hour).ValidateToken(raw); err == nil {
		t.Fatalf("alg none must be rejected")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "hunter22") || CheckPassword(hash, "wrong") {
		t.Fatalf("password check mismatch")
	}
}
