package identityrepo

import (
	"context"
	"sync"

	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/ports/out/identityrepo"
)

// Repo is an in-memory implementation of identityrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID      map[domain.SubjectID]identityrepo.Identity
	idByEmail map[string]domain.SubjectID
}

func NewRepo() *Repo {
	return &Repo{
		byID:      make(map[domain.SubjectID]identityrepo.Identity),
		idByEmail: make(map[string]domain.SubjectID),
	}
}

func (r *Repo) Create(ctx context.Context, id identityrepo.Identity) error {
	_ = ctx
	if id.SubjectID == "" {
		return identityrepo.ErrInvalidSubject
	}
	email := domain.NormalizeEmail(id.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id.SubjectID]; ok {
		return identityrepo.ErrAlreadyExists
	}
	if _, ok := r.idByEmail[email]; ok {
		return identityrepo.ErrEmailTaken
	}

	id.Email = email
	r.byID[id.SubjectID] = cloneIdentity(id)
	r.idByEmail[email] = id.SubjectID
	return nil
}

func (r *Repo) GetByID(ctx context.Context, subject domain.SubjectID) (identityrepo.Identity, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byID[subject]
	if !ok {
		return identityrepo.Identity{}, identityrepo.ErrNotFound
	}
	return cloneIdentity(id), nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (identityrepo.Identity, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	subject, ok := r.idByEmail[domain.NormalizeEmail(email)]
	if !ok {
		return identityrepo.Identity{}, identityrepo.ErrNotFound
	}
	id, ok := r.byID[subject]
	if !ok {
		return identityrepo.Identity{}, identityrepo.ErrNotFound
	}
	return cloneIdentity(id), nil
}

func (r *Repo) MarkAuthenticated(ctx context.Context, subject domain.SubjectID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byID[subject]
	if !ok {
		return identityrepo.ErrNotFound
	}
	id.Authenticated = true
	r.byID[subject] = id
	return nil
}

func (r *Repo) Delete(ctx context.Context, subject domain.SubjectID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byID[subject]
	if !ok {
		return identityrepo.ErrNotFound
	}
	delete(r.byID, subject)
	delete(r.idByEmail, id.Email)
	return nil
}

func cloneIdentity(id identityrepo.Identity) identityrepo.Identity {
	out := id
	if id.DisplayName != nil {
		v := *id.DisplayName
		out.DisplayName = &v
	}
	return out
}
