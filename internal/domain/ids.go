package domain

// SubjectID identifies a registered identity. It is the token `sub` claim and
// the owner key for every per-user record.
type SubjectID string

// ProfileID is an internal identifier for a profile record.
type ProfileID string

// DashboardID is an internal identifier for a dashboard record.
type DashboardID string

// FootprintID is an internal identifier for a carbon footprint entry.
type FootprintID string

// ReportID is an internal identifier for a weekly report.
type ReportID string

// NotificationID is an internal identifier for a notification.
type NotificationID string

// ThreadID is an internal identifier for a forum thread.
type ThreadID string

// EventID is an internal identifier for a community event.
type EventID string

// ChallengeID is an internal identifier for a challenge.
type ChallengeID string

// ResourceID is an internal identifier for an educational resource.
type ResourceID string

// PartnershipID is an internal identifier for a partnership listing.
type PartnershipID string
