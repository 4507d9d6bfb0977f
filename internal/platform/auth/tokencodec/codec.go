// Package tokencodec issues and verifies the HS256 bearer tokens handed out at
// login. It has no store dependency: a token that verifies here still has to be
// re-resolved against the credential store before a request is admitted.
package tokencodec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eco7/eco7-api/internal/domain"
	platformclock "github.com/eco7/eco7-api/internal/platform/clock"
	clockport "github.com/eco7/eco7-api/internal/ports/out/clock"
)

// Claims is the verified content of a token.
type Claims struct {
	SubjectID domain.SubjectID
	Email     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a shared secret.
// It is safe for concurrent use.
type Codec struct {
	secret []byte
	issuer string
	clk    clockport.Clock

	newTokenID func() string
}

type Option func(*Codec)

// WithIssuer sets the `iss` claim on issued tokens and requires it on verify.
func WithIssuer(iss string) Option {
	return func(c *Codec) {
		c.issuer = iss
	}
}

// WithClock replaces the wall clock used for iat, exp and expiry checks.
func WithClock(clk clockport.Clock) Option {
	return func(c *Codec) {
		if clk != nil {
			c.clk = clk
		}
	}
}

func New(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	c := &Codec{
		secret:     append([]byte(nil), secret...),
		clk:        platformclock.NewSystemClock(),
		newTokenID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs {sub, email, iat, exp, jti} and returns the token with its expiry.
// The expiry is truncated to whole seconds, as encoded in the token.
func (c *Codec) Issue(subject domain.SubjectID, email string, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, ErrEmptySubject
	}
	if ttl <= 0 {
		return "", time.Time{}, ErrInvalidTTL
	}

	now := c.clk.Now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(subject),
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        c.newTokenID(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time.UTC(), nil
}

// Verify checks signature, algorithm and expiry and returns the claims.
func (c *Codec) Verify(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.clk.Now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	parsed, err := jwt.NewParser(opts...).ParseWithClaims(token, &tokenClaims{}, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if parsed != nil && parsed.Method != nil && parsed.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return Claims{}, fmt.Errorf("%w : %w", ErrMalformed, err)
		}
		return Claims{}, mapJWTError(err)
	}

	tc, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrMalformed
	}
	if tc.Subject == "" {
		return Claims{}, fmt.Errorf("%w : missing sub", ErrMalformed)
	}

	out := Claims{
		SubjectID: domain.SubjectID(tc.Subject),
		Email:     tc.Email,
		TokenID:   tc.ID,
		ExpiresAt: tc.ExpiresAt.Time.UTC(),
	}
	if tc.IssuedAt != nil {
		out.IssuedAt = tc.IssuedAt.Time.UTC()
	}
	return out, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w : %w", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w : %w", ErrExpired, err)
	default:
		// jwt.ErrTokenMalformed, ErrTokenUnverifiable and claim failures.
		return fmt.Errorf("%w : %w", ErrMalformed, err)
	}
}
