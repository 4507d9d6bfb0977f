package activityrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/ports/out/activityrepo"
)

// Repo is an in-memory implementation of activityrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	footprints    map[domain.FootprintID]domain.CarbonFootprint
	reports       map[domain.ReportID]domain.WeeklyReport
	notifications map[domain.NotificationID]domain.Notification
}

func NewRepo() *Repo {
	return &Repo{
		footprints:    make(map[domain.FootprintID]domain.CarbonFootprint),
		reports:       make(map[domain.ReportID]domain.WeeklyReport),
		notifications: make(map[domain.NotificationID]domain.Notification),
	}
}

func (r *Repo) CreateFootprint(ctx context.Context, f domain.CarbonFootprint) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.footprints[f.ID]; ok || f.ID == "" {
		return activityrepo.ErrAlreadyExists
	}
	r.footprints[f.ID] = cloneFootprint(f)
	return nil
}

func (r *Repo) ListFootprintsByUser(ctx context.Context, user domain.SubjectID) ([]domain.CarbonFootprint, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CarbonFootprint, 0)
	for _, f := range r.footprints {
		if f.UserID == user {
			out = append(out, cloneFootprint(f))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt.UnixNano(), out[j].CreatedAt.UnixNano(), string(out[i].ID), string(out[j].ID))
	})
	return out, nil
}

func (r *Repo) CreateReport(ctx context.Context, rep domain.WeeklyReport) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[rep.ID]; ok || rep.ID == "" {
		return activityrepo.ErrAlreadyExists
	}
	r.reports[rep.ID] = cloneReport(rep)
	return nil
}

func (r *Repo) ListReportsByUser(ctx context.Context, user domain.SubjectID) ([]domain.WeeklyReport, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.WeeklyReport, 0)
	for _, rep := range r.reports {
		if rep.UserID == user {
			out = append(out, cloneReport(rep))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt.UnixNano(), out[j].CreatedAt.UnixNano(), string(out[i].ID), string(out[j].ID))
	})
	return out, nil
}

func (r *Repo) CreateNotification(ctx context.Context, n domain.Notification) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notifications[n.ID]; ok || n.ID == "" {
		return activityrepo.ErrAlreadyExists
	}
	r.notifications[n.ID] = n
	return nil
}

func (r *Repo) ListNotificationsByUser(ctx context.Context, user domain.SubjectID) ([]domain.Notification, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Notification, 0)
	for _, n := range r.notifications {
		if n.UserID == user {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt.UnixNano(), out[j].CreatedAt.UnixNano(), string(out[i].ID), string(out[j].ID))
	})
	return out, nil
}

func newerFirst(ti, tj int64, idi, idj string) bool {
	if ti == tj {
		return idi < idj
	}
	return ti > tj
}

func cloneFootprint(f domain.CarbonFootprint) domain.CarbonFootprint {
	out := f
	out.DailyActivities = cloneStringPtr(f.DailyActivities)
	out.ActivityBreakdown = cloneStringPtr(f.ActivityBreakdown)
	if f.CalculatedFootprint != nil {
		v := *f.CalculatedFootprint
		out.CalculatedFootprint = &v
	}
	return out
}

func cloneReport(r domain.WeeklyReport) domain.WeeklyReport {
	out := r
	out.PerformanceSummary = cloneStringPtr(r.PerformanceSummary)
	out.Suggestions = cloneStringPtr(r.Suggestions)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
