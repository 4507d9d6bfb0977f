package activityrepo

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
	"github.com/eco7/eco7-api/internal/ports/out/activityrepo"
)

// Repo is a Postgres implementation of activityrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) CreateFootprint(ctx context.Context, f domain.CarbonFootprint) error {
	id, uid, err := r.parseIDs(string(f.ID), f.UserID)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO carbon_footprints (
			footprint_id,
			user_id,
			daily_activities,
			calculated_footprint,
			activity_breakdown,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, id, uid, f.DailyActivities, f.CalculatedFootprint, f.ActivityBreakdown, f.CreatedAt.UTC())
	return translateWriteError(err)
}

func (r *Repo) ListFootprintsByUser(ctx context.Context, user domain.SubjectID) ([]domain.CarbonFootprint, error) {
	rows, ok, err := r.queryByUser(ctx, `
		SELECT footprint_id, user_id, daily_activities, calculated_footprint, activity_breakdown, created_at
		FROM carbon_footprints
		WHERE user_id = $1
		ORDER BY created_at DESC, footprint_id ASC
	`, user)
	if err != nil || !ok {
		return []domain.CarbonFootprint{}, err
	}
	defer rows.Close()

	out := make([]domain.CarbonFootprint, 0)
	for rows.Next() {
		var (
			id, uid   uuid.UUID
			f         domain.CarbonFootprint
			createdAt time.Time
		)
		if err := rows.Scan(&id, &uid, &f.DailyActivities, &f.CalculatedFootprint, &f.ActivityBreakdown, &createdAt); err != nil {
			return nil, err
		}
		f.ID = domain.FootprintID(id.String())
		f.UserID = domain.SubjectID(uid.String())
		f.CreatedAt = createdAt.UTC()
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repo) CreateReport(ctx context.Context, rep domain.WeeklyReport) error {
	id, uid, err := r.parseIDs(string(rep.ID), rep.UserID)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO weekly_reports (report_id, user_id, performance_summary, suggestions, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, uid, rep.PerformanceSummary, rep.Suggestions, rep.CreatedAt.UTC())
	return translateWriteError(err)
}

func (r *Repo) ListReportsByUser(ctx context.Context, user domain.SubjectID) ([]domain.WeeklyReport, error) {
	rows, ok, err := r.queryByUser(ctx, `
		SELECT report_id, user_id, performance_summary, suggestions, created_at
		FROM weekly_reports
		WHERE user_id = $1
		ORDER BY created_at DESC, report_id ASC
	`, user)
	if err != nil || !ok {
		return []domain.WeeklyReport{}, err
	}
	defer rows.Close()

	out := make([]domain.WeeklyReport, 0)
	for rows.Next() {
		var (
			id, uid   uuid.UUID
			rep       domain.WeeklyReport
			createdAt time.Time
		)
		if err := rows.Scan(&id, &uid, &rep.PerformanceSummary, &rep.Suggestions, &createdAt); err != nil {
			return nil, err
		}
		rep.ID = domain.ReportID(id.String())
		rep.UserID = domain.SubjectID(uid.String())
		rep.CreatedAt = createdAt.UTC()
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *Repo) CreateNotification(ctx context.Context, n domain.Notification) error {
	id, uid, err := r.parseIDs(string(n.ID), n.UserID)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications (notification_id, user_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, uid, n.Content, n.IsRead, n.CreatedAt.UTC())
	return translateWriteError(err)
}

func (r *Repo) ListNotificationsByUser(ctx context.Context, user domain.SubjectID) ([]domain.Notification, error) {
	rows, ok, err := r.queryByUser(ctx, `
		SELECT notification_id, user_id, content, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, notification_id ASC
	`, user)
	if err != nil || !ok {
		return []domain.Notification{}, err
	}
	defer rows.Close()

	out := make([]domain.Notification, 0)
	for rows.Next() {
		var (
			id, uid   uuid.UUID
			n         domain.Notification
			createdAt time.Time
		)
		if err := rows.Scan(&id, &uid, &n.Content, &n.IsRead, &createdAt); err != nil {
			return nil, err
		}
		n.ID = domain.NotificationID(id.String())
		n.UserID = domain.SubjectID(uid.String())
		n.CreatedAt = createdAt.UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repo) parseIDs(recordID string, user domain.SubjectID) (uuid.UUID, uuid.UUID, error) {
	if r.pool == nil {
		return uuid.Nil, uuid.Nil, errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(recordID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid record id: %w", err)
	}
	uid, err := uuid.Parse(string(user))
	if err != nil {
		return uuid.Nil, uuid.Nil, activityrepo.ErrUnknownUser
	}
	return id, uid, nil
}

// queryByUser returns ok=false when user cannot match any row.
func (r *Repo) queryByUser(ctx context.Context, sql string, user domain.SubjectID) (pgx.Rows, bool, error) {
	if r.pool == nil {
		return nil, false, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(user))
	if err != nil {
		return nil, false, nil
	}
	rows, err := r.pool.Query(ctx, sql, uid)
	if err != nil {
		return nil, false, err
	}
	return rows, true, nil
}

func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if postgres.IsUniqueViolation(err, "") {
		return activityrepo.ErrAlreadyExists
	}
	if postgres.IsForeignKeyViolation(err) {
		return activityrepo.ErrUnknownUser
	}
	return err
}
