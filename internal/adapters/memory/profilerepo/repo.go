package profilerepo

import (
	"context"
	"sync"

	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/ports/out/profilerepo"
)

// Repo is an in-memory implementation of profilerepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	profiles      map[domain.ProfileID]domain.Profile
	profileByUser map[domain.SubjectID]domain.ProfileID
	dashboards    map[domain.SubjectID]domain.Dashboard
}

func NewRepo() *Repo {
	return &Repo{
		profiles:      make(map[domain.ProfileID]domain.Profile),
		profileByUser: make(map[domain.SubjectID]domain.ProfileID),
		dashboards:    make(map[domain.SubjectID]domain.Dashboard),
	}
}

func (r *Repo) CreateProfile(ctx context.Context, p domain.Profile) error {
	_ = ctx
	if p.ID == "" {
		return profilerepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.ID]; ok {
		return profilerepo.ErrAlreadyExists
	}
	if _, ok := r.profileByUser[p.UserID]; ok {
		return profilerepo.ErrAlreadyExists
	}
	r.profiles[p.ID] = cloneProfile(p)
	r.profileByUser[p.UserID] = p.ID
	return nil
}

func (r *Repo) SaveProfile(ctx context.Context, p domain.Profile) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.profiles[p.ID]
	if !ok {
		return profilerepo.ErrNotFound
	}
	// Ownership is immutable.
	p.UserID = existing.UserID
	p.CreatedAt = existing.CreatedAt
	r.profiles[p.ID] = cloneProfile(p)
	return nil
}

func (r *Repo) GetProfileByID(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (r *Repo) GetProfileByUser(ctx context.Context, user domain.SubjectID) (domain.Profile, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.profileByUser[user]
	if !ok {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	p, ok := r.profiles[id]
	if !ok {
		return domain.Profile{}, profilerepo.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (r *Repo) CreateDashboard(ctx context.Context, d domain.Dashboard) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dashboards[d.UserID]; ok {
		return profilerepo.ErrAlreadyExists
	}
	r.dashboards[d.UserID] = cloneDashboard(d)
	return nil
}

func (r *Repo) GetDashboardByUser(ctx context.Context, user domain.SubjectID) (domain.Dashboard, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dashboards[user]
	if !ok {
		return domain.Dashboard{}, profilerepo.ErrNotFound
	}
	return cloneDashboard(d), nil
}

func cloneProfile(p domain.Profile) domain.Profile {
	out := p
	out.EcoGoals = cloneStringPtr(p.EcoGoals)
	out.ContentPreferences = cloneStringPtr(p.ContentPreferences)
	out.ChallengeLevels = cloneStringPtr(p.ChallengeLevels)
	out.AvatarURL = cloneStringPtr(p.AvatarURL)
	return out
}

func cloneDashboard(d domain.Dashboard) domain.Dashboard {
	out := d
	out.Achievements = cloneStringPtr(d.Achievements)
	out.OngoingChallenges = cloneStringPtr(d.OngoingChallenges)
	out.Suggestions = cloneStringPtr(d.Suggestions)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
