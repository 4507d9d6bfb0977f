package identityrepo

import (
	"context"
	"time"

	"github.com/eco7/eco7-api/internal/domain"
)

// Identity is the persistence shape used by the credential store.
// Unlike domain.Identity it carries the stored secret, so it must not leave the
// application layer.
type Identity struct {
	SubjectID domain.SubjectID
	// Email is stored normalized (trimmed, lower-cased).
	Email       string
	DisplayName *string
	// Secret is whatever the configured secret matcher produced at registration.
	Secret        string
	Authenticated bool

	CreatedAt time.Time
}

// Repository is the credential store.
//
// Email uniqueness is case-insensitive and enforced by the implementation:
// Create must return ErrEmailTaken when a concurrent writer won the race.
type Repository interface {
	Create(ctx context.Context, id Identity) error

	GetByID(ctx context.Context, subject domain.SubjectID) (Identity, error)
	GetByEmail(ctx context.Context, email string) (Identity, error)

	// MarkAuthenticated sets the authenticated flag after a successful login.
	MarkAuthenticated(ctx context.Context, subject domain.SubjectID) error

	Delete(ctx context.Context, subject domain.SubjectID) error
}
