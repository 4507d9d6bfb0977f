package domain

import "time"

// ForumThread is a discussion thread started by a user.
type ForumThread struct {
	ID     ThreadID
	UserID SubjectID

	Title   string
	Content string

	CreatedAt time.Time
}

// Event is a community event with an organizer.
type Event struct {
	ID          EventID
	OrganizerID SubjectID

	Title       string
	Description *string
	Location    *string
	DateTime    *time.Time
	RSVP        *string

	CreatedAt time.Time
}

// Challenge is a sustainability challenge users can take on.
type Challenge struct {
	ID     ChallengeID
	UserID SubjectID

	Title         string
	Description   *string
	Frequency     *string
	PointsAwarded *int

	CreatedAt time.Time
}

// Resource is an educational article. PostedOn is a calendar date (UTC midnight).
type Resource struct {
	ID ResourceID

	Title    string
	Content  *string
	Category *string
	PostedOn time.Time
}

// Partnership is an organization listing submitted by a user.
type Partnership struct {
	ID     PartnershipID
	UserID SubjectID

	OrganizationName string
	Description      *string
	WebsiteURL       *string

	CreatedAt time.Time
}
