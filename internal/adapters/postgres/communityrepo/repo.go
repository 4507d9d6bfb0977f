package communityrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/eco7/eco7-api/internal/adapters/postgres"
	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/ports/out/communityrepo"
)

// Repo is a Postgres implementation of communityrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// where accumulates AND-ed predicates with positional arguments.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.clauses, " AND ")
}

// ownerFilter adds an owner predicate. It returns false when the owner
// cannot match any row.
func (w *where) ownerFilter(column string, owner domain.SubjectID) bool {
	if owner == "" {
		return true
	}
	uid, err := uuid.Parse(string(owner))
	if err != nil {
		return false
	}
	w.add(column+" = $%d", uid)
	return true
}

func (w *where) titleFilter(column, contains string) {
	if strings.TrimSpace(contains) == "" {
		return
	}
	w.add(column+` ILIKE $%d ESCAPE '\'`, postgres.LikePattern(contains))
}

func (r *Repo) CreateThread(ctx context.Context, t domain.ForumThread) error {
	id, uid, err := r.parseIDs(string(t.ID), t.UserID)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO forums (forum_id, user_id, title, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, uid, t.Title, t.Content, t.CreatedAt.UTC())
	return translateWriteError(err)
}

func (r *Repo) ListThreads(ctx context.Context, f communityrepo.ThreadFilter) ([]domain.ForumThread, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	var w where
	if !w.ownerFilter("user_id", f.UserID) {
		return []domain.ForumThread{}, nil
	}
	w.titleFilter("title", f.TitleContains)

	rows, err := r.pool.Query(ctx, `
		SELECT forum_id, user_id, title, content, created_at
		FROM forums
		`+w.String()+`
		ORDER BY created_at DESC, forum_id ASC
	`, w.args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ForumThread, error) {
		var (
			id, uid uuid.UUID
			t       domain.ForumThread
		)
		if err := row.Scan(&id, &uid, &t.Title, &t.Content, &t.CreatedAt); err != nil {
			return domain.ForumThread{}, err
		}
		t.ID = domain.ThreadID(id.String())
		t.UserID = domain.SubjectID(uid.String())
		t.CreatedAt = t.CreatedAt.UTC()
		return t, nil
	})
}

func (r *Repo) CreateEvent(ctx context.Context, e domain.Event) error {
	id, uid, err := r.parseIDs(string(e.ID), e.OrganizerID)
	if err != nil {
		return err
	}
	var when *time.Time
	if e.DateTime != nil {
		t := e.DateTime.UTC()
		when = &t
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO events (event_id, organizer_id, title, description, location, date_time, rsvp, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, uid, e.Title, e.Description, e.Location, when, e.RSVP, e.CreatedAt.UTC())
	return translateWriteError(err)
}

func (r *Repo) ListEvents(ctx context.Context, f communityrepo.EventFilter) ([]domain.Event, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	var w where
	if !w.ownerFilter("organizer_id", f.OrganizerID) {
		return []domain.Event{}, nil
	}
	w.titleFilter("title", f.TitleContains)

	rows, err := r.pool.Query(ctx, `
		SELECT event_id, organizer_id, title, description, location, date_time, rsvp, created_at
		FROM events
		`+w.String()+`
		ORDER BY created_at DESC, event_id ASC
	`, w.args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Event, error) {
		var (
			id, uid uuid.UUID
			e       domain.Event
		)
		if err := row.Scan(&id, &uid, &e.Title, &e.Description, &e.Location, &e.DateTime, &e.RSVP, &e.CreatedAt); err != nil {
			return domain.Event{}, err
		}
		e.ID = domain.EventID(id.String())
		e.OrganizerID = domain.SubjectID(uid.String())
		e.CreatedAt = e.CreatedAt.UTC()
		if e.DateTime != nil {
			t := e.DateTime.UTC()
			e.DateTime = &t
		}
		return e, nil
	})
}

func (r *Repo) CreateChallenge(ctx context.Context, c domain.Challenge) error {
	id, uid, err := r.parseIDs(string(c.ID), c.UserID)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO challenges (challenge_id, user_id, title, description, frequency, points_awarded, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, uid, c.Title, c.Description, c.Frequency, c.PointsAwarded, c.CreatedAt.UTC())
	return translateWriteError(err)
}

func (r *Repo) ListChallenges(ctx context.Context, f communityrepo.ChallengeFilter) ([]domain.Challenge, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	var w where
	if !w.ownerFilter("user_id", f.UserID) {
		return []domain.Challenge{}, nil
	}
	w.titleFilter("title", f.TitleContains)

	rows, err := r.pool.Query(ctx, `
		SELECT challenge_id, user_id, title, description, frequency, points_awarded, created_at
		FROM challenges
		`+w.String()+`
		ORDER BY created_at DESC, challenge_id ASC
	`, w.args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Challenge, error) {
		var (
			id, uid uuid.UUID
			c       domain.Challenge
		)
		if err := row.Scan(&id, &uid, &c.Title, &c.Description, &c.Frequency, &c.PointsAwarded, &c.CreatedAt); err != nil {
			return domain.Challenge{}, err
		}
		c.ID = domain.ChallengeID(id.String())
		c.UserID = domain.SubjectID(uid.String())
		c.CreatedAt = c.CreatedAt.UTC()
		return c, nil
	})
}

func (r *Repo) CreateResource(ctx context.Context, res domain.Resource) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(res.ID))
	if err != nil {
		return fmt.Errorf("invalid resource id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO resources (resource_id, title, content, category, posted_on)
		VALUES ($1, $2, $3, $4, $5)
	`, id, res.Title, res.Content, res.Category, utcDate(res.PostedOn))
	return translateWriteError(err)
}

func (r *Repo) ListResources(ctx context.Context, f communityrepo.ResourceFilter) ([]domain.Resource, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	var w where
	w.titleFilter("category", f.CategoryContains)
	if f.PostedOn != nil {
		w.add("posted_on = $%d", utcDate(*f.PostedOn))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT resource_id, title, content, category, posted_on
		FROM resources
		`+w.String()+`
		ORDER BY posted_on DESC, resource_id ASC
	`, w.args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Resource, error) {
		var (
			id  uuid.UUID
			res domain.Resource
		)
		if err := row.Scan(&id, &res.Title, &res.Content, &res.Category, &res.PostedOn); err != nil {
			return domain.Resource{}, err
		}
		res.ID = domain.ResourceID(id.String())
		res.PostedOn = utcDate(res.PostedOn)
		return res, nil
	})
}

func (r *Repo) CreatePartnership(ctx context.Context, p domain.Partnership) error {
	id, uid, err := r.parseIDs(string(p.ID), p.UserID)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO partnerships (partnership_id, user_id, organization_name, description, website_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, uid, p.OrganizationName, p.Description, p.WebsiteURL, p.CreatedAt.UTC())
	return translateWriteError(err)
}

func (r *Repo) ListPartnerships(ctx context.Context) ([]domain.Partnership, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT partnership_id, user_id, organization_name, description, website_url, created_at
		FROM partnerships
		ORDER BY created_at DESC, partnership_id ASC
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Partnership, error) {
		var (
			id, uid uuid.UUID
			p       domain.Partnership
		)
		if err := row.Scan(&id, &uid, &p.OrganizationName, &p.Description, &p.WebsiteURL, &p.CreatedAt); err != nil {
			return domain.Partnership{}, err
		}
		p.ID = domain.PartnershipID(id.String())
		p.UserID = domain.SubjectID(uid.String())
		p.CreatedAt = p.CreatedAt.UTC()
		return p, nil
	})
}

func (r *Repo) parseIDs(recordID string, owner domain.SubjectID) (uuid.UUID, uuid.UUID, error) {
	if r.pool == nil {
		return uuid.Nil, uuid.Nil, errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(recordID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid record id: %w", err)
	}
	uid, err := uuid.Parse(string(owner))
	if err != nil {
		return uuid.Nil, uuid.Nil, communityrepo.ErrUnknownUser
	}
	return id, uid, nil
}

func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if postgres.IsUniqueViolation(err, "") {
		return communityrepo.ErrAlreadyExists
	}
	if postgres.IsForeignKeyViolation(err) {
		return communityrepo.ErrUnknownUser
	}
	return err
}
