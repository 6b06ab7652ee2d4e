package token

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers every verification failure: bad signature, expiry,
// malformed claims. Callers get no finer detail to avoid leaking validation
// internals to clients.
var ErrInvalidToken = errors.New("token: invalid or expired token")

// Verifier checks a bearer token and yields the subject user id.
type Verifier interface {
	Verify(token string) (uuid.UUID, error)
}

// Issuer mints a bearer token for a user id.
type Issuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// JWT issues and verifies HS256 access tokens whose subject claim carries the
// user id.
type JWT struct {
	secret []byte
	ttl    time.Duration
}

// NewJWT constructs a JWT codec with the given signing secret and lifetime.
func NewJWT(secret string, ttl time.Duration) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("token: empty signing secret")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWT{secret: []byte(secret), ttl: ttl}, nil
}

// NewJWTFromEnv reads JWT_SECRET and optional JWT_TTL (Go duration string).
func NewJWTFromEnv() (*JWT, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return nil, errors.New("token: JWT_SECRET environment variable is not set")
	}
	ttl := time.Hour
	if v := strings.TrimSpace(os.Getenv("JWT_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("token: parse JWT_TTL: %w", err)
		}
		ttl = d
	}
	return NewJWT(secret, ttl)
}

var (
	_ Verifier = (*JWT)(nil)
	_ Issuer   = (*JWT)(nil)
)

func (j *JWT) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

func (j *JWT) Verify(tokenString string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
