package domain

import "time"

// Profile holds a user's sustainability preferences. A user has at most one.
type Profile struct {
	ID     ProfileID
	UserID SubjectID

	EcoGoals           *string
	ContentPreferences *string
	ChallengeLevels    *string
	AvatarURL          *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Dashboard is the per-user landing summary, created with defaults on first read.
type Dashboard struct {
	ID     DashboardID
	UserID SubjectID

	Achievements      *string
	OngoingChallenges *string
	Suggestions       *string
}

const (
	DefaultDashboardAchievements      = "Welcome to Eco7!"
	DefaultDashboardOngoingChallenges = "Start with our beginner challenges"
	DefaultDashboardSuggestions       = "Try reducing plastic use this week"
)
