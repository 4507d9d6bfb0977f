// Package activity records carbon footprints, weekly reports and notifications for a user.
package activity

import (
	"context"
	"errors"
	"fmt"
	"math"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/ports/out/activityrepo"
	clockport "github.com/eco7/eco7-api/internal/ports/out/clock"
)

const maxActivitiesRunes = 10000

// ReportReadyNotification is stored for the user whenever a weekly report is created.
const ReportReadyNotification = "Your weekly eco report is ready"

type Service struct {
	repo    activityrepo.Repository
	clk     clockport.Clock
	reports ReportGenerator

	newID func() string
}

func NewService(repo activityrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo:    repo,
		clk:     clk,
		reports: NewReportGenerator(),
		newID:   uuid.NewString,
	}
}

// WithReportGenerator replaces the canned report picker.
func (s *Service) WithReportGenerator(g ReportGenerator) *Service {
	s.reports = g
	return s
}

// RecordFootprint stores a footprint entry. When the client gives activities
// but no (or a zero) footprint, the footprint and breakdown are estimated.
func (s *Service) RecordFootprint(ctx context.Context, subject domain.SubjectID, in FootprintInput) (domain.CarbonFootprint, error) {
	activities := blankToNil(in.DailyActivities)
	if err := validateFootprint(activities, in.CalculatedFootprint); err != nil {
		return domain.CarbonFootprint{}, err
	}

	footprint := in.CalculatedFootprint
	breakdown := blankToNil(in.ActivityBreakdown)
	if (footprint == nil || *footprint == 0) && activities != nil {
		total, raw, err := CalculateFootprint(*activities)
		if err != nil {
			return domain.CarbonFootprint{}, fmt.Errorf("calculate footprint: %w", err)
		}
		footprint = &total
		breakdown = &raw
	}
	if footprint != nil && *footprint == 0 {
		footprint = nil
	}

	f := domain.CarbonFootprint{
		ID:                  domain.FootprintID(s.newID()),
		UserID:              subject,
		DailyActivities:     activities,
		CalculatedFootprint: cloneFloatPtr(footprint),
		ActivityBreakdown:   breakdown,
		CreatedAt:           s.clk.Now().UTC(),
	}
	if err := s.repo.CreateFootprint(ctx, f); err != nil {
		return domain.CarbonFootprint{}, translateWriteError(err)
	}
	return f, nil
}

func (s *Service) ListFootprints(ctx context.Context, subject domain.SubjectID) ([]domain.CarbonFootprint, error) {
	return s.repo.ListFootprintsByUser(ctx, subject)
}

// CreateWeeklyReport stores a report, generating whichever text fields were
// left empty, and notifies the user.
func (s *Service) CreateWeeklyReport(ctx context.Context, subject domain.SubjectID, in WeeklyReportInput) (domain.WeeklyReport, error) {
	summary := blankToNil(in.PerformanceSummary)
	if summary == nil {
		v := s.reports.Summary()
		summary = &v
	}
	suggestions := blankToNil(in.Suggestions)
	if suggestions == nil {
		v := s.reports.Suggestion()
		suggestions = &v
	}

	r := domain.WeeklyReport{
		ID:                 domain.ReportID(s.newID()),
		UserID:             subject,
		PerformanceSummary: summary,
		Suggestions:        suggestions,
		CreatedAt:          s.clk.Now().UTC(),
	}
	if err := s.repo.CreateReport(ctx, r); err != nil {
		return domain.WeeklyReport{}, translateWriteError(err)
	}
	if _, err := s.Notify(ctx, subject, ReportReadyNotification); err != nil {
		return domain.WeeklyReport{}, err
	}
	return r, nil
}

func (s *Service) ListWeeklyReports(ctx context.Context, subject domain.SubjectID) ([]domain.WeeklyReport, error) {
	return s.repo.ListReportsByUser(ctx, subject)
}

// Notify stores an unread notification for subject.
func (s *Service) Notify(ctx context.Context, subject domain.SubjectID, content string) (domain.Notification, error) {
	if err := validation.Validate(content, validation.Required); err != nil {
		return domain.Notification{}, &Error{
			Status:  400,
			Code:    "VALIDATION_ERROR",
			Message: "Invalid input data",
			Details: map[string]any{"content": err.Error()},
		}
	}
	n := domain.Notification{
		ID:        domain.NotificationID(s.newID()),
		UserID:    subject,
		Content:   content,
		CreatedAt: s.clk.Now().UTC(),
	}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return domain.Notification{}, translateWriteError(err)
	}
	return n, nil
}

func (s *Service) ListNotifications(ctx context.Context, subject domain.SubjectID) ([]domain.Notification, error) {
	return s.repo.ListNotificationsByUser(ctx, subject)
}

func validateFootprint(activities *string, footprint *float64) error {
	details := map[string]any{}
	if activities != nil {
		if err := validation.Validate(*activities, validation.Length(0, maxActivitiesRunes)); err != nil {
			details["daily_activities"] = err.Error()
		}
	}
	if footprint != nil {
		if math.IsNaN(*footprint) || math.IsInf(*footprint, 0) {
			details["calculated_footprint"] = "must be a finite number"
		} else if err := validation.Validate(*footprint, validation.Min(0.0)); err != nil {
			details["calculated_footprint"] = err.Error()
		}
	}
	if len(details) == 0 {
		return nil
	}
	return &Error{
		Status:  400,
		Code:    "VALIDATION_ERROR",
		Message: "Invalid input data",
		Details: details,
	}
}

func translateWriteError(err error) error {
	if errors.Is(err, activityrepo.ErrUnknownUser) {
		return userNotFound()
	}
	return err
}

func blankToNil(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
