// Package community manages the shared content: forum threads, events,
// challenges, educational resources and partnership listings.
package community

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"

	"github.com/eco7/eco7-api/internal/domain"
	clockport "github.com/eco7/eco7-api/internal/ports/out/clock"
	"github.com/eco7/eco7-api/internal/ports/out/communityrepo"
)

const maxTitleRunes = 255

type Service struct {
	repo communityrepo.Repository
	clk  clockport.Clock

	newID func() string
}

func NewService(repo communityrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo:  repo,
		clk:   clk,
		newID: uuid.NewString,
	}
}

func (s *Service) CreateThread(ctx context.Context, subject domain.SubjectID, in ThreadInput) (domain.ForumThread, error) {
	in.Title = domain.NormalizeHumanName(in.Title)
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, maxTitleRunes)),
		validation.Field(&in.Content, validation.Required),
	); err != nil {
		return domain.ForumThread{}, validationError(err)
	}

	t := domain.ForumThread{
		ID:        domain.ThreadID(s.newID()),
		UserID:    subject,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: s.clk.Now().UTC(),
	}
	if err := s.repo.CreateThread(ctx, t); err != nil {
		return domain.ForumThread{}, translateWriteError(err)
	}
	return t, nil
}

func (s *Service) ListThreads(ctx context.Context, f communityrepo.ThreadFilter) ([]domain.ForumThread, error) {
	return s.repo.ListThreads(ctx, f)
}

func (s *Service) CreateEvent(ctx context.Context, subject domain.SubjectID, in EventInput) (domain.Event, error) {
	in.Title = domain.NormalizeHumanName(in.Title)
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, maxTitleRunes)),
	); err != nil {
		return domain.Event{}, validationError(err)
	}

	e := domain.Event{
		ID:          domain.EventID(s.newID()),
		OrganizerID: subject,
		Title:       in.Title,
		Description: blankToNil(in.Description),
		Location:    blankToNil(in.Location),
		RSVP:        blankToNil(in.RSVP),
		CreatedAt:   s.clk.Now().UTC(),
	}
	if in.DateTime != nil && !in.DateTime.IsZero() {
		when := in.DateTime.UTC()
		e.DateTime = &when
	}
	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return domain.Event{}, translateWriteError(err)
	}
	return e, nil
}

func (s *Service) ListEvents(ctx context.Context, f communityrepo.EventFilter) ([]domain.Event, error) {
	return s.repo.ListEvents(ctx, f)
}

func (s *Service) CreateChallenge(ctx context.Context, subject domain.SubjectID, in ChallengeInput) (domain.Challenge, error) {
	in.Title = domain.NormalizeHumanName(in.Title)
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, maxTitleRunes)),
		validation.Field(&in.PointsAwarded, validation.Min(0)),
	); err != nil {
		return domain.Challenge{}, validationError(err)
	}

	c := domain.Challenge{
		ID:          domain.ChallengeID(s.newID()),
		UserID:      subject,
		Title:       in.Title,
		Description: blankToNil(in.Description),
		Frequency:   blankToNil(in.Frequency),
		CreatedAt:   s.clk.Now().UTC(),
	}
	if in.PointsAwarded != nil {
		v := *in.PointsAwarded
		c.PointsAwarded = &v
	}
	if err := s.repo.CreateChallenge(ctx, c); err != nil {
		return domain.Challenge{}, translateWriteError(err)
	}
	return c, nil
}

func (s *Service) ListChallenges(ctx context.Context, f communityrepo.ChallengeFilter) ([]domain.Challenge, error) {
	return s.repo.ListChallenges(ctx, f)
}

// PublishResource adds an educational resource to the catalog.
func (s *Service) PublishResource(ctx context.Context, in ResourceInput) (domain.Resource, error) {
	in.Title = domain.NormalizeHumanName(in.Title)
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, maxTitleRunes)),
		validation.Field(&in.Content, validation.NilOrNotEmpty),
		validation.Field(&in.Category, validation.NilOrNotEmpty),
	); err != nil {
		return domain.Resource{}, validationError(err)
	}

	postedOn := s.clk.Now()
	if in.PostedOn != nil && !in.PostedOn.IsZero() {
		postedOn = *in.PostedOn
	}
	r := domain.Resource{
		ID:       domain.ResourceID(s.newID()),
		Title:    in.Title,
		Content:  blankToNil(in.Content),
		Category: blankToNil(in.Category),
		PostedOn: calendarDate(postedOn),
	}
	if err := s.repo.CreateResource(ctx, r); err != nil {
		return domain.Resource{}, translateWriteError(err)
	}
	return r, nil
}

func (s *Service) ListResources(ctx context.Context, f communityrepo.ResourceFilter) ([]domain.Resource, error) {
	return s.repo.ListResources(ctx, f)
}

// SeedResources publishes the given catalog when no resources exist yet.
// It returns the number of resources published.
func (s *Service) SeedResources(ctx context.Context, catalog []ResourceInput) (int, error) {
	existing, err := s.repo.ListResources(ctx, communityrepo.ResourceFilter{})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, in := range catalog {
		if _, err := s.PublishResource(ctx, in); err != nil {
			return i, err
		}
	}
	return len(catalog), nil
}

func (s *Service) CreatePartnership(ctx context.Context, subject domain.SubjectID, in PartnershipInput) (domain.Partnership, error) {
	in.OrganizationName = domain.NormalizeHumanName(in.OrganizationName)
	if err := validation.ValidateStruct(&in,
		validation.Field(&in.OrganizationName, validation.Required, validation.Length(1, maxTitleRunes)),
		validation.Field(&in.WebsiteURL, validation.NilOrNotEmpty, is.URL),
	); err != nil {
		return domain.Partnership{}, validationError(err)
	}

	p := domain.Partnership{
		ID:               domain.PartnershipID(s.newID()),
		UserID:           subject,
		OrganizationName: in.OrganizationName,
		Description:      blankToNil(in.Description),
		WebsiteURL:       blankToNil(in.WebsiteURL),
		CreatedAt:        s.clk.Now().UTC(),
	}
	if err := s.repo.CreatePartnership(ctx, p); err != nil {
		return domain.Partnership{}, translateWriteError(err)
	}
	return p, nil
}

func (s *Service) ListPartnerships(ctx context.Context) ([]domain.Partnership, error) {
	return s.repo.ListPartnerships(ctx)
}

func validationError(err error) *Error {
	details := map[string]any{}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			details[field] = ferr.Error()
		}
	} else {
		details["error"] = err.Error()
	}
	return &Error{
		Status:  400,
		Code:    "VALIDATION_ERROR",
		Message: "Invalid input data",
		Details: details,
	}
}

func translateWriteError(err error) error {
	if errors.Is(err, communityrepo.ErrUnknownUser) {
		return userNotFound()
	}
	return err
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func blankToNil(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}
