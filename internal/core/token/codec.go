// Package token implements the signing and verification of identity
// assertions. A Codec is a pure function of (secret, ttl): issuing and
// verifying share the same symmetric key and no server-side state, so any
// process holding the secret can validate a token minted by any other.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/microstore/auth-platform/internal/core/domain"
)

// minKeyBytes is the minimum decoded key size for HS256 (256 bits).
const minKeyBytes = 32

// Verification failures. The HTTP layer collapses all three into a single
// unauthorized response; the distinction exists for logging and metrics only.
var (
	ErrExpired   = errors.New("token expired")
	ErrMalformed = errors.New("token malformed")
	ErrInvalid   = errors.New("token signature invalid")
)

// Claims is the typed payload embedded in every issued token.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed tokens. It is immutable after
// construction and safe for concurrent use.
type Codec struct {
	key []byte
	ttl time.Duration
}

// NewCodec decodes the base64 signing secret and validates its size. An
// undersized or malformed secret is a startup configuration error; callers
// must not fall back to a weaker key.
func NewCodec(encodedSecret string, ttl time.Duration) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(encodedSecret)
	if err != nil {
		return nil, fmt.Errorf("token: signing secret is not valid base64: %w", err)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("token: signing secret must be at least 256 bits (32 bytes), got %d bytes", len(key))
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{key: key, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue mints a token for the given user. Output is deterministic for
// identical user fields and now; two calls at different timestamps produce
// distinct strings because iat/exp are part of the signed payload.
func (c *Codec) Issue(user *domain.User, now time.Time) (string, error) {
	claims := Claims{
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string against the codec's secret at
// the given instant. It returns the embedded claims on success, or exactly
// one of ErrExpired, ErrMalformed, ErrInvalid. Expiry dominates: an expired
// token is reported as expired even when its signature checks out.
func (c *Codec) Verify(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		default:
			return nil, ErrInvalid
		}
	}

	if claims.Username == "" || claims.Subject == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}
