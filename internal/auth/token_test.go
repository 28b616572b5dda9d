package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-signing-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerifyExtractsIdentity(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "user-123",
		"email": "person@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]any{
			"full_name":  "Ada Lovelace",
			"avatar_url": "https://cdn.example.com/a.png",
		},
	})

	identity, err := verifier.Verify(tokenStr)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.ID != "user-123" {
		t.Errorf("ID = %q", identity.ID)
	}
	if identity.Email != "person@example.com" {
		t.Errorf("Email = %q", identity.Email)
	}
	if identity.FullName != "Ada Lovelace" {
		t.Errorf("FullName = %q", identity.FullName)
	}
	if identity.AvatarURL != "https://cdn.example.com/a.png" {
		t.Errorf("AvatarURL = %q", identity.AvatarURL)
	}
}

func TestVerifyMetadataFallbackKeys(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-456",
		"exp": time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]any{
			"name":    "Fallback Name",
			"picture": "https://cdn.example.com/p.png",
		},
	})

	identity, err := verifier.Verify(tokenStr)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if identity.FullName != "Fallback Name" {
		t.Errorf("FullName = %q, want fallback key", identity.FullName)
	}
	if identity.AvatarURL != "https://cdn.example.com/p.png" {
		t.Errorf("AvatarURL = %q, want fallback key", identity.AvatarURL)
	}
}

func TestVerifyRejections(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	cases := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", signToken(t, "other-secret", jwt.MapClaims{
			"sub": "user-1", "exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"expired", signToken(t, testSecret, jwt.MapClaims{
			"sub": "user-1", "exp": time.Now().Add(-time.Hour).Unix(),
		})},
		{"missing subject", signToken(t, testSecret, jwt.MapClaims{
			"email": "x@example.com", "exp": time.Now().Add(time.Hour).Unix(),
		})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := verifier.Verify(tc.token); err == nil {
				t.Error("expected verification to fail")
			}
		})
	}
}
