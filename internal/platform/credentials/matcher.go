// Package credentials turns login secrets into stored values and compares them.
package credentials

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	KindBcrypt = "bcrypt"
	// KindPlain stores the secret as-is. Only for local fixtures.
	KindPlain = "plain"

	// MaxSecretBytes is the longest secret bcrypt accepts.
	MaxSecretBytes = 72
)

var ErrSecretTooLong = errors.New("secret exceeds 72 bytes")

// Matcher hashes secrets at registration and verifies them at login.
type Matcher interface {
	Hash(secret string) (string, error)
	// Matches reports whether secret corresponds to the stored value.
	Matches(stored, secret string) bool
}

// New returns the matcher for kind. An empty kind selects bcrypt.
func New(kind string, bcryptCost int) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindBcrypt:
		return NewBcrypt(bcryptCost)
	case KindPlain:
		return Plain{}, nil
	default:
		return nil, fmt.Errorf("unknown secret matcher %q (expected %s|%s)", kind, KindBcrypt, KindPlain)
	}
}

type Bcrypt struct {
	cost int
}

// NewBcrypt returns a bcrypt matcher. A zero cost selects bcrypt.DefaultCost.
func NewBcrypt(cost int) (Bcrypt, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return Bcrypt{}, fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cost)
	}
	return Bcrypt{cost: cost}, nil
}

func (b Bcrypt) Hash(secret string) (string, error) {
	if len(secret) > MaxSecretBytes {
		return "", ErrSecretTooLong
	}
	out, err := bcrypt.GenerateFromPassword([]byte(secret), b.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Matches rejects secrets longer than MaxSecretBytes, since bcrypt would
// otherwise compare only their prefix.
func (Bcrypt) Matches(stored, secret string) bool {
	if len(secret) > MaxSecretBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
}

type Plain struct{}

func (Plain) Hash(secret string) (string, error) { return secret, nil }

func (Plain) Matches(stored, secret string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(secret)) == 1
}
