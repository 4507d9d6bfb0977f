package community

import "time"

type ThreadInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type EventInput struct {
	Title       string `json:"title"`
	Description *string
	Location    *string
	DateTime    *time.Time
	RSVP        *string
}

type ChallengeInput struct {
	Title         string `json:"title"`
	Description   *string
	Frequency     *string
	PointsAwarded *int `json:"points_awarded"`
}

// ResourceInput publishes a resource. A nil PostedOn means today.
type ResourceInput struct {
	Title    string  `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	PostedOn *time.Time
}

type PartnershipInput struct {
	OrganizationName string `json:"organization_name"`
	Description      *string
	WebsiteURL       *string `json:"website_url"`
}
