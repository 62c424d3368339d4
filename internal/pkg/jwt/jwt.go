package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims represents the JWT claims
type Claims struct {
	jwt.RegisteredClaims
}

// Username returns the token subject.
func (c *Claims) Username() string {
	return c.Subject
}

// Config holds the signing key material and token lifetime. It is built once
// at startup and never mutated, so a single Codec can be shared freely across
// request handlers.
type Config struct {
	Secret []byte
	TTL    time.Duration
}

// Codec mints and verifies signed bearer tokens.
type Codec struct {
	cfg Config
}

// NewCodec creates a token codec from the given config.
func NewCodec(cfg Config) *Codec {
	return &Codec{cfg: cfg}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.cfg.TTL
}

// Mint produces a signed token for the given subject with issued-at now and
// expiry now+TTL. The JTI makes every minted token unique, so the literal
// token string can serve as a revocation key even when the same user logs in
// twice within the same second.
func (c *Codec) Mint(subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.TTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.cfg.Secret)
}

// Verify checks signature and expiry and returns the claims.
//
// Any malformed or tampered token yields ErrTokenInvalid; a structurally
// valid token past its expiry yields ErrTokenExpired. A token whose expiry
// equals the current instant is already expired.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return c.cfg.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}
	if !time.Now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}
