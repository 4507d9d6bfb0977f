package activityrepo

import (
	"context"

	"github.com/eco7/eco7-api/internal/domain"
)

// Repository stores per-user activity: footprints, weekly reports and notifications.
//
// List methods return the user's records ordered by CreatedAt descending, ties
// broken by ID ascending.
type Repository interface {
	CreateFootprint(ctx context.Context, f domain.CarbonFootprint) error
	ListFootprintsByUser(ctx context.Context, user domain.SubjectID) ([]domain.CarbonFootprint, error)

	CreateReport(ctx context.Context, r domain.WeeklyReport) error
	ListReportsByUser(ctx context.Context, user domain.SubjectID) ([]domain.WeeklyReport, error)

	CreateNotification(ctx context.Context, n domain.Notification) error
	ListNotificationsByUser(ctx context.Context, user domain.SubjectID) ([]domain.Notification, error)
}
