package token

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc, err := New("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	signed, err := svc.Issue("user-1", "t1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q, want %q", claims.Subject, "user-1")
	}
	if claims.Username != "t1" {
		t.Fatalf("username = %q, want %q", claims.Username, "t1")
	}
}

func TestVerifyMissingToken(t *testing.T) {
	svc, err := New("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	for _, raw := range []string{"", "   "} {
		if _, err := svc.Verify(raw); !errors.Is(err, ErrMissingToken) {
			t.Fatalf("Verify(%q) = %v, want ErrMissingToken", raw, err)
		}
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signer, err := New("secret-a", time.Minute)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	verifier, err := New("secret-b", time.Minute)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	signed, err := signer.Issue("user-1", "t1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	svc, err := New("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.Verify("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpiredTokenWithValidSignature(t *testing.T) {
	svc, err := New("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	// Sign with the same secret but an expiry beyond the verification leeway.
	past := time.Now().UTC().Add(-2 * time.Hour)
	claims := Claims{
		Username: "t1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    defaultIssuer,
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(past),
			NotBefore: jwt.NewNumericDate(past),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Verify(signed); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("Verify = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyRejectsUnexpectedSigningMethod(t *testing.T) {
	svc, err := New("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "user-1",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Verify(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify = %v, want ErrInvalidToken", err)
	}
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New("  ", time.Minute); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
