package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.GenerateToken(42)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	id, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected user 42, got %d", id)
	}
}

func TestExpiryIsOneTTLAfterIssue(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager("secret", time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateToken(7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims := &gojwt.RegisteredClaims{}
	if _, _, err := gojwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("parse unverified: %v", err)
	}
	if !claims.ExpiresAt.Time.Equal(issued.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %s", claims.ExpiresAt.Time)
	}
	if claims.Subject != "7" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager("secret", time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateToken(7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	m.now = func() time.Time { return issued.Add(61 * time.Minute) }
	if _, err := m.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	m := NewManager("secret", time.Hour)
	token, err := m.GenerateToken(7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parts := strings.Split(token, ".")
	forged, err := NewManager("other-secret", time.Hour).GenerateToken(8)
	if err != nil {
		t.Fatalf("generate forged: %v", err)
	}
	// valid header and signature from the real token, payload from another
	tampered := parts[0] + "." + strings.Split(forged, ".")[1] + "." + parts[2]

	if _, err := m.ParseToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected tampered token to be rejected, got %v", err)
	}
	if _, err := m.ParseToken(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token signed with another secret to be rejected, got %v", err)
	}
}

func TestUnsignedTokenRejected(t *testing.T) {
	m := NewManager("secret", time.Hour)
	claims := gojwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := m.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected none-alg token to be rejected, got %v", err)
	}
}

func TestTokenWithoutUsableSubjectRejected(t *testing.T) {
	m := NewManager("secret", time.Hour)
	claims := gojwt.RegisteredClaims{
		Subject:   "64b1f0c2e4a1b2c3d4e5f601",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid subject to be rejected, got %v", err)
	}
}

func TestTokenWithoutExpiryRejected(t *testing.T) {
	m := NewManager("secret", time.Hour)
	claims := gojwt.RegisteredClaims{Subject: "7"}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}
}
