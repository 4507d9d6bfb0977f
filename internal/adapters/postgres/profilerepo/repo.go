package profilerepo

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
	"github.com/eco7/eco7-api/internal/ports/out/profilerepo"
)

// Repo is a Postgres implementation of profilerepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectProfile = `
	SELECT profile_id, user_id, eco_goals, content_preferences, challenge_levels, avatar_url, created_at, updated_at
	FROM profiles
`

func (r *Repo) CreateProfile(ctx context.Context, p domain.Profile) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return fmt.Errorf("invalid profile id: %w", err)
	}
	uid, err := uuid.Parse(string(p.UserID))
	if err != nil {
		return profilerepo.ErrUnknownUser
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO profiles (
			profile_id,
			user_id,
			eco_goals,
			content_preferences,
			challenge_levels,
			avatar_url,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		id,
		uid,
		p.EcoGoals,
		p.ContentPreferences,
		p.ChallengeLevels,
		p.AvatarURL,
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	return translateWriteError(err)
}

func (r *Repo) SaveProfile(ctx context.Context, p domain.Profile) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return profilerepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET eco_goals = $2,
		    content_preferences = $3,
		    challenge_levels = $4,
		    avatar_url = $5,
		    updated_at = $6
		WHERE profile_id = $1
	`,
		id,
		p.EcoGoals,
		p.ContentPreferences,
		p.ChallengeLevels,
		p.AvatarURL,
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return profilerepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetProfileByID(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	if r.pool == nil {
		return domain.Profile{}, errors.New("nil postgres pool")
	}
	pid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	return scanProfile(r.pool.QueryRow(ctx, selectProfile+` WHERE profile_id = $1`, pid))
}

func (r *Repo) GetProfileByUser(ctx context.Context, user domain.SubjectID) (domain.Profile, error) {
	if r.pool == nil {
		return domain.Profile{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(user))
	if err != nil {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	return scanProfile(r.pool.QueryRow(ctx, selectProfile+` WHERE user_id = $1`, uid))
}

func (r *Repo) CreateDashboard(ctx context.Context, d domain.Dashboard) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(d.ID))
	if err != nil {
		return fmt.Errorf("invalid dashboard id: %w", err)
	}
	uid, err := uuid.Parse(string(d.UserID))
	if err != nil {
		return profilerepo.ErrUnknownUser
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO dashboards (dashboard_id, user_id, achievements, ongoing_challenges, suggestions)
		VALUES ($1, $2, $3, $4, $5)
	`, id, uid, d.Achievements, d.OngoingChallenges, d.Suggestions)
	return translateWriteError(err)
}

func (r *Repo) GetDashboardByUser(ctx context.Context, user domain.SubjectID) (domain.Dashboard, error) {
	if r.pool == nil {
		return domain.Dashboard{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(user))
	if err != nil {
		return domain.Dashboard{}, profilerepo.ErrNotFound
	}
	var (
		id  uuid.UUID
		own uuid.UUID
		d   domain.Dashboard
	)
	err = r.pool.QueryRow(ctx, `
		SELECT dashboard_id, user_id, achievements, ongoing_challenges, suggestions
		FROM dashboards
		WHERE user_id = $1
	`, uid).Scan(&id, &own, &d.Achievements, &d.OngoingChallenges, &d.Suggestions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Dashboard{}, profilerepo.ErrNotFound
		}
		return domain.Dashboard{}, err
	}
	d.ID = domain.DashboardID(id.String())
	d.UserID = domain.SubjectID(own.String())
	return d, nil
}

func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if postgres.IsUniqueViolation(err, "") {
		return profilerepo.ErrAlreadyExists
	}
	if postgres.IsForeignKeyViolation(err) {
		return profilerepo.ErrUnknownUser
	}
	return err
}

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var (
		id        uuid.UUID
		uid       uuid.UUID
		p         domain.Profile
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(
		&id,
		&uid,
		&p.EcoGoals,
		&p.ContentPreferences,
		&p.ChallengeLevels,
		&p.AvatarURL,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Profile{}, profilerepo.ErrNotFound
		}
		return domain.Profile{}, err
	}
	p.ID = domain.ProfileID(id.String())
	p.UserID = domain.SubjectID(uid.String())
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}
