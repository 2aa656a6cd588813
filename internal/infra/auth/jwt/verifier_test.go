package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "super-secret-signing-key"

func signToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func TestVerify(t *testing.T) {
	v := NewVerifier(testSecret, "")

	token := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	sub, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sub != "user-123" {
		t.Errorf("sub = %q, want user-123", sub)
	}
}

func TestVerifyRejections(t *testing.T) {
	v := NewVerifier(testSecret, "")
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, "other-secret", jwt.MapClaims{"sub": "u", "exp": future})},
		{"wrong algorithm", signToken(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{"sub": "u", "exp": future})},
		{"expired", signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"no subject", signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{"exp": future})},
		{"garbage", "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(context.Background(), tt.token); err == nil {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestVerifyAudience(t *testing.T) {
	v := NewVerifier(testSecret, "authenticated")
	future := time.Now().Add(time.Hour).Unix()

	good := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "user-1", "aud": "authenticated", "exp": future,
	})
	if _, err := v.Verify(context.Background(), good); err != nil {
		t.Errorf("Verify with matching audience: %v", err)
	}

	bad := signToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "user-1", "aud": "other", "exp": future,
	})
	if _, err := v.Verify(context.Background(), bad); err == nil {
		t.Error("expected audience mismatch to fail")
	}
}
