package authn

import (
	"time"

	"github.com/eco7/eco7-api/internal/domain"
)

type RegisterInput struct {
	Email       string
	Secret      string
	DisplayName *string
}

type LoginInput struct {
	Email  string
	Secret string
}

// Session is the result of a successful registration or login.
type Session struct {
	Identity  domain.Identity
	Token     string
	ExpiresAt time.Time
}

// TokenIssuer signs bearer tokens for authenticated identities.
type TokenIssuer interface {
	Issue(subject domain.SubjectID, email string, ttl time.Duration) (string, time.Time, error)
}
