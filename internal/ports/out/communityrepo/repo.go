package communityrepo

import (
	"context"
	"time"

	"github.com/eco7/eco7-api/internal/domain"
)

// ThreadFilter narrows ListThreads. Zero values match everything.
// TitleContains is a case-insensitive substring match.
type ThreadFilter struct {
	TitleContains string
	UserID        domain.SubjectID
}

type EventFilter struct {
	TitleContains string
	OrganizerID   domain.SubjectID
}

type ChallengeFilter struct {
	TitleContains string
	UserID        domain.SubjectID
}

// ResourceFilter narrows ListResources. PostedOn matches by UTC calendar date.
type ResourceFilter struct {
	CategoryContains string
	PostedOn         *time.Time
}

// Repository stores the shared community content.
//
// Result ordering expectations:
// - threads, events, challenges and partnerships: CreatedAt descending, then ID ascending
// - resources: PostedOn descending, then ID ascending
type Repository interface {
	CreateThread(ctx context.Context, t domain.ForumThread) error
	ListThreads(ctx context.Context, f ThreadFilter) ([]domain.ForumThread, error)

	CreateEvent(ctx context.Context, e domain.Event) error
	ListEvents(ctx context.Context, f EventFilter) ([]domain.Event, error)

	CreateChallenge(ctx context.Context, c domain.Challenge) error
	ListChallenges(ctx context.Context, f ChallengeFilter) ([]domain.Challenge, error)

	CreateResource(ctx context.Context, r domain.Resource) error
	ListResources(ctx context.Context, f ResourceFilter) ([]domain.Resource, error)

	CreatePartnership(ctx context.Context, p domain.Partnership) error
	ListPartnerships(ctx context.Context) ([]domain.Partnership, error)
}
