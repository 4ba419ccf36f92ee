package admin

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"muin/internal/domain"
)

func newAuth(t *testing.T, password string) *Authenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	a, err := NewAuthenticator("test-secret", string(hash), "ops@muin", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	a := newAuth(t, "correct horse")

	tok, exp, err := a.Login("correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatal("expiry in the past")
	}
	claims, err := a.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "ops@muin" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	a := newAuth(t, "correct horse")
	for _, pw := range []string{"", "wrong", "correct horse "} {
		if _, _, err := a.Login(pw); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("password %q: err = %v", pw, err)
		}
	}
}

func TestLoginWithoutConfiguredHash(t *testing.T) {
	a, _ := NewAuthenticator("s", "", "", 0)
	if _, _, err := a.Login("anything"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v", err)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	a := newAuth(t, "pw-123456")
	good, _, _ := a.Sign("admin")

	other, _ := NewAuthenticator("another-secret", "", "", time.Hour)
	forged, _, _ := other.Sign("admin")

	nonAdmin := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             "viewer",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	viewer, _ := nonAdmin.SignedString([]byte("test-secret"))

	noneAlg := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}})
	unsigned, _ := noneAlg.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"forged":    forged,
		"viewer":    viewer,
		"none alg":  unsigned,
		"garbage":   "abc.def.ghi",
		"truncated": good[:len(good)-4],
	}
	for name, tok := range tests {
		if _, err := a.Verify(tok); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	a := newAuth(t, "pw-123456")
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a.SetClock(func() time.Time { return now })
	tok, _, _ := a.Sign("admin")

	now = now.Add(2 * time.Hour)
	if _, err := a.Verify(tok); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("err = %v", err)
	}
}

func TestHashPassword(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatal("expected length error")
	}
	hash, err := HashPassword("long enough password")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("not a bcrypt hash: %q", hash)
	}
}
