// Package authn registers identities and exchanges credentials for tokens.
package authn

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"

	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/platform/credentials"
	clockport "github.com/eco7/eco7-api/internal/ports/out/clock"
	"github.com/eco7/eco7-api/internal/ports/out/identityrepo"
)

// DefaultTokenTTL is used when NewService receives a non-positive ttl.
const DefaultTokenTTL = 7 * 24 * time.Hour

const maxDisplayNameRunes = 200

type Service struct {
	repo    identityrepo.Repository
	matcher credentials.Matcher
	tokens  TokenIssuer
	clk     clockport.Clock

	tokenTTL time.Duration

	newSubjectID func() domain.SubjectID
}

func NewService(repo identityrepo.Repository, matcher credentials.Matcher, tokens TokenIssuer, clk clockport.Clock, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		repo:     repo,
		matcher:  matcher,
		tokens:   tokens,
		clk:      clk,
		tokenTTL: tokenTTL,
		newSubjectID: func() domain.SubjectID {
			return domain.SubjectID(uuid.NewString())
		},
	}
}

type registerFields struct {
	Email       string `json:"email"`
	Secret      string `json:"password"`
	DisplayName string `json:"name"`
}

func (f registerFields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&f.Secret, validation.Required, validation.By(secretFitsMatcher)),
		validation.Field(&f.DisplayName, validation.Length(0, maxDisplayNameRunes)),
	)
}

func secretFitsMatcher(value interface{}) error {
	s, _ := value.(string)
	if len(s) > credentials.MaxSecretBytes {
		return fmt.Errorf("must be at most %d bytes", credentials.MaxSecretBytes)
	}
	return nil
}

// Register creates a new identity and returns a session for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := domain.NormalizeEmail(in.Email)
	var displayName *string
	if in.DisplayName != nil {
		if n := domain.NormalizeHumanName(*in.DisplayName); n != "" {
			displayName = &n
		}
	}

	fields := registerFields{Email: email, Secret: in.Secret}
	if displayName != nil {
		fields.DisplayName = *displayName
	}
	if err := fields.Validate(); err != nil {
		return Session{}, &Error{
			Status:  400,
			Code:    "VALIDATION_ERROR",
			Message: "Invalid registration data",
			Details: validationDetails(err),
		}
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Session{}, userAlreadyExists()
	} else if !errors.Is(err, identityrepo.ErrNotFound) {
		return Session{}, err
	}

	stored, err := s.matcher.Hash(in.Secret)
	if err != nil {
		return Session{}, fmt.Errorf("hash secret: %w", err)
	}

	rec := identityrepo.Identity{
		SubjectID:     s.newSubjectID(),
		Email:         email,
		DisplayName:   displayName,
		Secret:        stored,
		Authenticated: true,
		CreatedAt:     s.clk.Now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, identityrepo.ErrEmailTaken) {
			return Session{}, userAlreadyExists()
		}
		return Session{}, err
	}

	return s.newSession(rec)
}

// Login verifies credentials. Unknown emails and wrong secrets produce the same error.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Secret == "" {
		return Session{}, &Error{
			Status:  400,
			Code:    "MISSING_CREDENTIALS",
			Message: "Email and password are required",
		}
	}

	rec, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, identityrepo.ErrNotFound) {
			return Session{}, invalidCredentials()
		}
		return Session{}, err
	}
	if !s.matcher.Matches(rec.Secret, in.Secret) {
		return Session{}, invalidCredentials()
	}

	if err := s.repo.MarkAuthenticated(ctx, rec.SubjectID); err != nil {
		if errors.Is(err, identityrepo.ErrNotFound) {
			return Session{}, invalidCredentials()
		}
		return Session{}, err
	}
	rec.Authenticated = true

	return s.newSession(rec)
}

// GetIdentity returns the public view of an identity.
func (s *Service) GetIdentity(ctx context.Context, subject domain.SubjectID) (domain.Identity, error) {
	rec, err := s.repo.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, identityrepo.ErrNotFound) {
			return domain.Identity{}, &Error{
				Status:  404,
				Code:    "USER_NOT_FOUND",
				Message: "User not found",
			}
		}
		return domain.Identity{}, err
	}
	return ToDomain(rec), nil
}

func (s *Service) newSession(rec identityrepo.Identity) (Session, error) {
	token, expiresAt, err := s.tokens.Issue(rec.SubjectID, rec.Email, s.tokenTTL)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{
		Identity:  ToDomain(rec),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ToDomain drops the stored secret.
func ToDomain(rec identityrepo.Identity) domain.Identity {
	out := domain.Identity{
		SubjectID:     rec.SubjectID,
		Email:         rec.Email,
		Authenticated: rec.Authenticated,
		CreatedAt:     rec.CreatedAt,
	}
	if rec.DisplayName != nil {
		v := *rec.DisplayName
		out.DisplayName = &v
	}
	return out
}

func validationDetails(err error) map[string]any {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return map[string]any{"error": err.Error()}
	}
	out := make(map[string]any, len(verrs))
	for field, ferr := range verrs {
		out[field] = ferr.Error()
	}
	return out
}
