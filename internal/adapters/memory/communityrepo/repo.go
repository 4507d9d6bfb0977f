package communityrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/ports/out/communityrepo"
)

// Repo is an in-memory implementation of communityrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	threads      map[domain.ThreadID]domain.ForumThread
	events       map[domain.EventID]domain.Event
	challenges   map[domain.ChallengeID]domain.Challenge
	resources    map[domain.ResourceID]domain.Resource
	partnerships map[domain.PartnershipID]domain.Partnership
}

func NewRepo() *Repo {
	return &Repo{
		threads:      make(map[domain.ThreadID]domain.ForumThread),
		events:       make(map[domain.EventID]domain.Event),
		challenges:   make(map[domain.ChallengeID]domain.Challenge),
		resources:    make(map[domain.ResourceID]domain.Resource),
		partnerships: make(map[domain.PartnershipID]domain.Partnership),
	}
}

func (r *Repo) CreateThread(ctx context.Context, t domain.ForumThread) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.threads[t.ID]; ok || t.ID == "" {
		return communityrepo.ErrAlreadyExists
	}
	r.threads[t.ID] = t
	return nil
}

func (r *Repo) ListThreads(ctx context.Context, f communityrepo.ThreadFilter) ([]domain.ForumThread, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ForumThread, 0)
	for _, t := range r.threads {
		if !containsFold(t.Title, f.TitleContains) {
			continue
		}
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, string(out[i].ID), string(out[j].ID))
	})
	return out, nil
}

func (r *Repo) CreateEvent(ctx context.Context, e domain.Event) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[e.ID]; ok || e.ID == "" {
		return communityrepo.ErrAlreadyExists
	}
	r.events[e.ID] = cloneEvent(e)
	return nil
}

func (r *Repo) ListEvents(ctx context.Context, f communityrepo.EventFilter) ([]domain.Event, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Event, 0)
	for _, e := range r.events {
		if !containsFold(e.Title, f.TitleContains) {
			continue
		}
		if f.OrganizerID != "" && e.OrganizerID != f.OrganizerID {
			continue
		}
		out = append(out, cloneEvent(e))
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, string(out[i].ID), string(out[j].ID))
	})
	return out, nil
}

func (r *Repo) CreateChallenge(ctx context.Context, c domain.Challenge) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.challenges[c.ID]; ok || c.ID == "" {
		return communityrepo.ErrAlreadyExists
	}
	r.challenges[c.ID] = cloneChallenge(c)
	return nil
}

func (r *Repo) ListChallenges(ctx context.Context, f communityrepo.ChallengeFilter) ([]domain.Challenge, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Challenge, 0)
	for _, c := range r.challenges {
		if !containsFold(c.Title, f.TitleContains) {
			continue
		}
		if f.UserID != "" && c.UserID != f.UserID {
			continue
		}
		out = append(out, cloneChallenge(c))
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, string(out[i].ID), string(out[j].ID))
	})
	return out, nil
}

func (r *Repo) CreateResource(ctx context.Context, res domain.Resource) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resources[res.ID]; ok || res.ID == "" {
		return communityrepo.ErrAlreadyExists
	}
	r.resources[res.ID] = cloneResource(res)
	return nil
}

func (r *Repo) ListResources(ctx context.Context, f communityrepo.ResourceFilter) ([]domain.Resource, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Resource, 0)
	for _, res := range r.resources {
		if f.CategoryContains != "" && (res.Category == nil || !containsFold(*res.Category, f.CategoryContains)) {
			continue
		}
		if f.PostedOn != nil && !sameDate(res.PostedOn, *f.PostedOn) {
			continue
		}
		out = append(out, cloneResource(res))
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].PostedOn, out[j].PostedOn, string(out[i].ID), string(out[j].ID))
	})
	return out, nil
}

func (r *Repo) CreatePartnership(ctx context.Context, p domain.Partnership) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.partnerships[p.ID]; ok || p.ID == "" {
		return communityrepo.ErrAlreadyExists
	}
	r.partnerships[p.ID] = clonePartnership(p)
	return nil
}

func (r *Repo) ListPartnerships(ctx context.Context) ([]domain.Partnership, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Partnership, 0, len(r.partnerships))
	for _, p := range r.partnerships {
		out = append(out, clonePartnership(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, string(out[i].ID), string(out[j].ID))
	})
	return out, nil
}

func containsFold(hay, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(hay), strings.ToLower(needle))
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func newerFirst(ti, tj time.Time, idi, idj string) bool {
	if ti.Equal(tj) {
		return idi < idj
	}
	return ti.After(tj)
}

func cloneEvent(e domain.Event) domain.Event {
	out := e
	out.Description = cloneStringPtr(e.Description)
	out.Location = cloneStringPtr(e.Location)
	out.RSVP = cloneStringPtr(e.RSVP)
	if e.DateTime != nil {
		v := *e.DateTime
		out.DateTime = &v
	}
	return out
}

func cloneChallenge(c domain.Challenge) domain.Challenge {
	out := c
	out.Description = cloneStringPtr(c.Description)
	out.Frequency = cloneStringPtr(c.Frequency)
	if c.PointsAwarded != nil {
		v := *c.PointsAwarded
		out.PointsAwarded = &v
	}
	return out
}

func cloneResource(r domain.Resource) domain.Resource {
	out := r
	out.Content = cloneStringPtr(r.Content)
	out.Category = cloneStringPtr(r.Category)
	return out
}

func clonePartnership(p domain.Partnership) domain.Partnership {
	out := p
	out.Description = cloneStringPtr(p.Description)
	out.WebsiteURL = cloneStringPtr(p.WebsiteURL)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
