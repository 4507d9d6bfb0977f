package identityrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/eco7/eco7-api/internal/adapters/postgres"
	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/ports/out/identityrepo"
)

// Repo is a Postgres implementation of identityrepo.Repository.
// Email uniqueness is enforced by the users_email_lower_unique index.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectIdentity = `
	SELECT subject_id, email, name, credential_secret, is_authenticated, created_at
	FROM users
`

func (r *Repo) Create(ctx context.Context, id identityrepo.Identity) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	sid, err := uuid.Parse(string(id.SubjectID))
	if err != nil {
		return fmt.Errorf("%w: %v", identityrepo.ErrInvalidSubject, err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (
			subject_id,
			email,
			name,
			credential_secret,
			is_authenticated,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`,
		sid,
		domain.NormalizeEmail(id.Email),
		id.DisplayName,
		id.Secret,
		id.Authenticated,
		id.CreatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			switch pe.ConstraintName {
			case "users_email_lower_unique":
				return identityrepo.ErrEmailTaken
			case "users_pkey":
				return identityrepo.ErrAlreadyExists
			}
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, subject domain.SubjectID) (identityrepo.Identity, error) {
	if r.pool == nil {
		return identityrepo.Identity{}, errors.New("nil postgres pool")
	}
	sid, err := uuid.Parse(string(subject))
	if err != nil {
		return identityrepo.Identity{}, identityrepo.ErrNotFound
	}
	return scanIdentity(r.pool.QueryRow(ctx, selectIdentity+` WHERE subject_id = $1`, sid))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (identityrepo.Identity, error) {
	if r.pool == nil {
		return identityrepo.Identity{}, errors.New("nil postgres pool")
	}
	return scanIdentity(r.pool.QueryRow(ctx, selectIdentity+` WHERE LOWER(email) = $1`, domain.NormalizeEmail(email)))
}

func (r *Repo) MarkAuthenticated(ctx context.Context, subject domain.SubjectID) error {
	return r.execOne(ctx, `UPDATE users SET is_authenticated = true WHERE subject_id = $1`, subject)
}

func (r *Repo) Delete(ctx context.Context, subject domain.SubjectID) error {
	return r.execOne(ctx, `DELETE FROM users WHERE subject_id = $1`, subject)
}

func (r *Repo) execOne(ctx context.Context, sql string, subject domain.SubjectID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	sid, err := uuid.Parse(string(subject))
	if err != nil {
		return identityrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, sql, sid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return identityrepo.ErrNotFound
	}
	return nil
}

func scanIdentity(row pgx.Row) (identityrepo.Identity, error) {
	var (
		sid           uuid.UUID
		email         string
		name          *string
		secret        string
		authenticated bool
		createdAt     time.Time
	)
	if err := row.Scan(&sid, &email, &name, &secret, &authenticated, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identityrepo.Identity{}, identityrepo.ErrNotFound
		}
		return identityrepo.Identity{}, err
	}
	return identityrepo.Identity{
		SubjectID:     domain.SubjectID(sid.String()),
		Email:         email,
		DisplayName:   name,
		Secret:        secret,
		Authenticated: authenticated,
		CreatedAt:     createdAt.UTC(),
	}, nil
}
