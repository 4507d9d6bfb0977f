package profiles

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"

	"github.com/eco7/eco7-api/internal/domain"
	clockport "github.com/eco7/eco7-api/internal/ports/out/clock"
	"github.com/eco7/eco7-api/internal/ports/out/profilerepo"
)

type Service struct {
	repo profilerepo.Repository
	clk  clockport.Clock

	newProfileID   func() domain.ProfileID
	newDashboardID func() domain.DashboardID
}

func NewService(repo profilerepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newProfileID: func() domain.ProfileID {
			return domain.ProfileID(uuid.NewString())
		},
		newDashboardID: func() domain.DashboardID {
			return domain.DashboardID(uuid.NewString())
		},
	}
}

// UpsertMyProfile creates the caller's profile or replaces all of its fields.
func (s *Service) UpsertMyProfile(ctx context.Context, subject domain.SubjectID, in UpsertProfileInput) (domain.Profile, error) {
	avatar := blankToNil(in.AvatarURL)
	if avatar != nil {
		if err := validateAvatarURL(*avatar); err != nil {
			return domain.Profile{}, err
		}
	}

	existing, err := s.repo.GetProfileByUser(ctx, subject)
	switch {
	case err == nil:
		return s.replace(ctx, existing, in, avatar)
	case !errors.Is(err, profilerepo.ErrNotFound):
		return domain.Profile{}, err
	}

	now := s.clk.Now().UTC()
	p := domain.Profile{
		ID:                 s.newProfileID(),
		UserID:             subject,
		EcoGoals:           blankToNil(in.EcoGoals),
		ContentPreferences: blankToNil(in.ContentPreferences),
		ChallengeLevels:    blankToNil(in.ChallengeLevels),
		AvatarURL:          avatar,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.CreateProfile(ctx, p); err != nil {
		switch {
		case errors.Is(err, profilerepo.ErrAlreadyExists):
			// Lost a race with a concurrent upsert for the same user.
			existing, gerr := s.repo.GetProfileByUser(ctx, subject)
			if gerr != nil {
				return domain.Profile{}, gerr
			}
			return s.replace(ctx, existing, in, avatar)
		case errors.Is(err, profilerepo.ErrUnknownUser):
			return domain.Profile{}, userNotFound()
		}
		return domain.Profile{}, err
	}
	return p, nil
}

func (s *Service) replace(ctx context.Context, p domain.Profile, in UpsertProfileInput, avatar *string) (domain.Profile, error) {
	p.EcoGoals = blankToNil(in.EcoGoals)
	p.ContentPreferences = blankToNil(in.ContentPreferences)
	p.ChallengeLevels = blankToNil(in.ChallengeLevels)
	p.AvatarURL = avatar
	p.UpdatedAt = s.clk.Now().UTC()
	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

func (s *Service) GetProfile(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	p, err := s.repo.GetProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.Profile{}, profileNotFound()
		}
		return domain.Profile{}, err
	}
	return p, nil
}

// PatchProfile applies the specified fields. Only the owner may patch a profile.
func (s *Service) PatchProfile(ctx context.Context, subject domain.SubjectID, id domain.ProfileID, in PatchProfileInput) (domain.Profile, error) {
	if in.empty() {
		return domain.Profile{}, &Error{
			Status:  400,
			Code:    "NO_UPDATE_FIELDS",
			Message: "No valid fields to update",
		}
	}
	if in.AvatarURL.IsSpecified() && !in.AvatarURL.IsNull() {
		if err := validateAvatarURL(in.AvatarURL.Value()); err != nil {
			return domain.Profile{}, err
		}
	}

	p, err := s.repo.GetProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.Profile{}, profileNotFound()
		}
		return domain.Profile{}, err
	}
	if p.UserID != subject {
		return domain.Profile{}, &Error{
			Status:  403,
			Code:    "FORBIDDEN",
			Message: "Only the profile owner can update it",
		}
	}

	applyField(&p.EcoGoals, in.EcoGoals)
	applyField(&p.ContentPreferences, in.ContentPreferences)
	applyField(&p.ChallengeLevels, in.ChallengeLevels)
	applyField(&p.AvatarURL, in.AvatarURL)
	p.UpdatedAt = s.clk.Now().UTC()

	if err := s.repo.SaveProfile(ctx, p); err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return domain.Profile{}, profileNotFound()
		}
		return domain.Profile{}, err
	}
	return p, nil
}

// GetOrCreateMyDashboard returns the caller's dashboard, creating it with default content on first read.
func (s *Service) GetOrCreateMyDashboard(ctx context.Context, subject domain.SubjectID) (domain.Dashboard, error) {
	d, err := s.repo.GetDashboardByUser(ctx, subject)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, profilerepo.ErrNotFound) {
		return domain.Dashboard{}, err
	}

	achievements := domain.DefaultDashboardAchievements
	ongoing := domain.DefaultDashboardOngoingChallenges
	suggestions := domain.DefaultDashboardSuggestions
	d = domain.Dashboard{
		ID:                s.newDashboardID(),
		UserID:            subject,
		Achievements:      &achievements,
		OngoingChallenges: &ongoing,
		Suggestions:       &suggestions,
	}
	if err := s.repo.CreateDashboard(ctx, d); err != nil {
		switch {
		case errors.Is(err, profilerepo.ErrAlreadyExists):
			return s.repo.GetDashboardByUser(ctx, subject)
		case errors.Is(err, profilerepo.ErrUnknownUser):
			return domain.Dashboard{}, userNotFound()
		}
		return domain.Dashboard{}, err
	}
	return d, nil
}

func applyField(dst **string, o Optional[string]) {
	if !o.IsSpecified() {
		return
	}
	if o.IsNull() {
		*dst = nil
		return
	}
	v := o.Value()
	*dst = &v
}

func blankToNil(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}

func validateAvatarURL(raw string) error {
	if err := validation.Validate(raw, is.URL); err != nil {
		return &Error{
			Status:  400,
			Code:    "VALIDATION_ERROR",
			Message: "Invalid input data",
			Details: map[string]any{"avatar_url": err.Error()},
		}
	}
	return nil
}
