// Package admin holds the operator surface: token issuance and the console
// operations behind it.
package admin

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"muin/internal/domain"
)

const roleAdmin = "admin"

// Claims is the payload of an admin token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator checks the admin password and signs/verifies HS256 tokens.
type Authenticator struct {
	secret   []byte
	passHash []byte
	actor    string
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthenticator(secret, passHash, actor string, ttl time.Duration) (*Authenticator, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("admin token secret is required")
	}
	if actor == "" {
		actor = roleAdmin
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Authenticator{
		secret:   []byte(secret),
		passHash: []byte(strings.TrimSpace(passHash)),
		actor:    actor,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// SetClock overrides the time source.
func (a *Authenticator) SetClock(now func() time.Time) {
	a.now = now
}

// HashPassword returns the bcrypt hash stored in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login exchanges the admin password for a signed token.
func (a *Authenticator) Login(password string) (string, time.Time, error) {
	if len(a.passHash) == 0 || password == "" {
		return "", time.Time{}, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(a.passHash, []byte(password)); err != nil {
		return "", time.Time{}, domain.ErrUnauthorized
	}
	return a.Sign(a.actor)
}

// Sign issues a token for subject without a password check. Used by the
// operator CLI which already holds the secret.
func (a *Authenticator) Sign(subject string) (string, time.Time, error) {
	now := a.now()
	exp := now.Add(a.ttl)
	claims := Claims{
		Role: roleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign admin token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses tok and returns its claims when it is a valid admin token.
func (a *Authenticator) Verify(tok string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tok, &Claims{}, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || c.Role != roleAdmin || c.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return c, nil
}
