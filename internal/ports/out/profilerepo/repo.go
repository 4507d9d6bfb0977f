package profilerepo

import (
	"context"

	"github.com/eco7/eco7-api/internal/domain"
)

// Repository stores per-user profiles and dashboards.
// Each user has at most one of each; creating a second returns ErrAlreadyExists.
type Repository interface {
	CreateProfile(ctx context.Context, p domain.Profile) error
	SaveProfile(ctx context.Context, p domain.Profile) error
	GetProfileByID(ctx context.Context, id domain.ProfileID) (domain.Profile, error)
	GetProfileByUser(ctx context.Context, user domain.SubjectID) (domain.Profile, error)

	CreateDashboard(ctx context.Context, d domain.Dashboard) error
	GetDashboardByUser(ctx context.Context, user domain.SubjectID) (domain.Dashboard, error)
}
