package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func newTestService(ttl time.Duration) *TokenService {
	return NewTokenService(Config{Secret: testSecret, TTL: ttl})
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := newTestService(time.Hour)
	tok, err := svc.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != 42 {
		t.Fatalf("user id = %d, want 42", got)
	}
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)
	tok, err := svc.Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Verify(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	svc := newTestService(time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		if _, err := svc.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q) err = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	other := NewTokenService(Config{Secret: "other-secret", TTL: time.Hour})
	tok, err := other.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	svc := newTestService(time.Hour)
	if _, err := svc.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_RejectsForeignAlg(t *testing.T) {
	claims := Claims{
		UserID: 5,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	svc := newTestService(time.Hour)
	if _, err := svc.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken for HS512 token", err)
	}
}

func TestVerify_RejectsMissingUserID(t *testing.T) {
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	svc := newTestService(time.Hour)
	if _, err := svc.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken for absent userId claim", err)
	}
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	svc := NewTokenService(Config{Secret: testSecret})
	if svc.ttl != defaultTokenTTL {
		t.Fatalf("ttl = %v, want %v", svc.ttl, defaultTokenTTL)
	}
}
