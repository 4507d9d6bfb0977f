package domain

import "time"

// CarbonFootprint is a logged set of daily activities and the estimate derived from them.
type CarbonFootprint struct {
	ID     FootprintID
	UserID SubjectID

	DailyActivities     *string
	CalculatedFootprint *float64
	// ActivityBreakdown is a JSON object of category to kg CO2, kept as text.
	ActivityBreakdown *string

	CreatedAt time.Time
}

// WeeklyReport summarizes a user's recent performance.
type WeeklyReport struct {
	ID     ReportID
	UserID SubjectID

	PerformanceSummary *string
	Suggestions        *string

	CreatedAt time.Time
}

// Notification is a message addressed to one user.
type Notification struct {
	ID     NotificationID
	UserID SubjectID

	Content string
	IsRead  bool

	CreatedAt time.Time
}
