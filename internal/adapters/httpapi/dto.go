package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/eco7/eco7-api/internal/app/authn"
	"github.com/eco7/eco7-api/internal/app/profiles"
	"github.com/eco7/eco7-api/internal/domain"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Auth

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// PasswordHash is the legacy name of Password, used when Password is empty.
	PasswordHash string  `json:"password_hash"`
	Name         *string `json:"name"`
}

type loginRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	PasswordHash string `json:"password_hash"`
}

func secretFrom(password, legacy string) string {
	if password != "" {
		return password
	}
	return legacy
}

type userResponse struct {
	SubjectID     string    `json:"subject_id"`
	Email         string    `json:"email"`
	Name          *string   `json:"name"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
}

type sessionResponse struct {
	userResponse
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type meResponse struct {
	SubjectID string    `json:"subject_id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func userFromDomain(id domain.Identity) userResponse {
	return userResponse{
		SubjectID:     string(id.SubjectID),
		Email:         id.Email,
		Name:          id.DisplayName,
		Authenticated: id.Authenticated,
		CreatedAt:     id.CreatedAt,
	}
}

func sessionFromApp(s authn.Session) sessionResponse {
	return sessionResponse{
		userResponse: userFromDomain(s.Identity),
		Token:        s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Profiles

type upsertProfileRequest struct {
	UserID             *string `json:"user_id"`
	EcoGoals           *string `json:"eco_goals"`
	ContentPreferences *string `json:"content_preferences"`
	ChallengeLevels    *string `json:"challenge_levels"`
	AvatarURL          *string `json:"avatar_url"`
}

// patchProfileRequest distinguishes omitted fields from explicit nulls.
type patchProfileRequest struct {
	UserID             *string                   `json:"user_id,omitempty"`
	EcoGoals           nullable.Nullable[string] `json:"eco_goals,omitempty"`
	ContentPreferences nullable.Nullable[string] `json:"content_preferences,omitempty"`
	ChallengeLevels    nullable.Nullable[string] `json:"challenge_levels,omitempty"`
	AvatarURL          nullable.Nullable[string] `json:"avatar_url,omitempty"`
}

func patchProfileInputFromRequest(b patchProfileRequest) profiles.PatchProfileInput {
	return profiles.PatchProfileInput{
		EcoGoals:           optionalStringFromNullable(b.EcoGoals),
		ContentPreferences: optionalStringFromNullable(b.ContentPreferences),
		ChallengeLevels:    optionalStringFromNullable(b.ChallengeLevels),
		AvatarURL:          optionalStringFromNullable(b.AvatarURL),
	}
}

func optionalStringFromNullable(n nullable.Nullable[string]) profiles.Optional[string] {
	if !n.IsSpecified() {
		return profiles.Unspecified[string]()
	}
	if n.IsNull() {
		return profiles.Null[string]()
	}
	v, err := n.Get()
	if err != nil {
		return profiles.Unspecified[string]()
	}
	return profiles.Some(v)
}

type profileResponse struct {
	ProfileID          string    `json:"profile_id"`
	UserID             string    `json:"user_id"`
	EcoGoals           *string   `json:"eco_goals"`
	ContentPreferences *string   `json:"content_preferences"`
	ChallengeLevels    *string   `json:"challenge_levels"`
	AvatarURL          *string   `json:"avatar_url"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func profileFromDomain(p domain.Profile) profileResponse {
	return profileResponse{
		ProfileID:          string(p.ID),
		UserID:             string(p.UserID),
		EcoGoals:           p.EcoGoals,
		ContentPreferences: p.ContentPreferences,
		ChallengeLevels:    p.ChallengeLevels,
		AvatarURL:          p.AvatarURL,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

type dashboardResponse struct {
	DashboardID       string  `json:"dashboard_id"`
	UserID            string  `json:"user_id"`
	Achievements      *string `json:"achievements"`
	OngoingChallenges *string `json:"ongoing_challenges"`
	Suggestions       *string `json:"suggestions"`
}

func dashboardFromDomain(d domain.Dashboard) dashboardResponse {
	return dashboardResponse{
		DashboardID:       string(d.ID),
		UserID:            string(d.UserID),
		Achievements:      d.Achievements,
		OngoingChallenges: d.OngoingChallenges,
		Suggestions:       d.Suggestions,
	}
}

// Activity

type footprintRequest struct {
	UserID              *string  `json:"user_id"`
	DailyActivities     *string  `json:"daily_activities"`
	CalculatedFootprint *float64 `json:"calculated_footprint"`
	ActivityBreakdown   *string  `json:"activity_breakdown"`
}

type footprintResponse struct {
	FootprintID         string    `json:"footprint_id"`
	UserID              string    `json:"user_id"`
	DailyActivities     *string   `json:"daily_activities"`
	CalculatedFootprint *float64  `json:"calculated_footprint"`
	ActivityBreakdown   *string   `json:"activity_breakdown"`
	CreatedAt           time.Time `json:"created_at"`
}

func footprintFromDomain(f domain.CarbonFootprint) footprintResponse {
	return footprintResponse{
		FootprintID:         string(f.ID),
		UserID:              string(f.UserID),
		DailyActivities:     f.DailyActivities,
		CalculatedFootprint: f.CalculatedFootprint,
		ActivityBreakdown:   f.ActivityBreakdown,
		CreatedAt:           f.CreatedAt,
	}
}

type weeklyReportRequest struct {
	UserID             *string `json:"user_id"`
	PerformanceSummary *string `json:"performance_summary"`
	Suggestions        *string `json:"suggestions"`
}

type weeklyReportResponse struct {
	ReportID           string    `json:"report_id"`
	UserID             string    `json:"user_id"`
	PerformanceSummary *string   `json:"performance_summary"`
	Suggestions        *string   `json:"suggestions"`
	CreatedAt          time.Time `json:"created_at"`
}

func weeklyReportFromDomain(r domain.WeeklyReport) weeklyReportResponse {
	return weeklyReportResponse{
		ReportID:           string(r.ID),
		UserID:             string(r.UserID),
		PerformanceSummary: r.PerformanceSummary,
		Suggestions:        r.Suggestions,
		CreatedAt:          r.CreatedAt,
	}
}

type notificationResponse struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

func notificationFromDomain(n domain.Notification) notificationResponse {
	return notificationResponse{
		NotificationID: string(n.ID),
		UserID:         string(n.UserID),
		Content:        n.Content,
		IsRead:         n.IsRead,
		CreatedAt:      n.CreatedAt,
	}
}

// Community

type threadRequest struct {
	UserID  *string `json:"user_id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
}

type threadResponse struct {
	ForumID   string    `json:"forum_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func threadFromDomain(t domain.ForumThread) threadResponse {
	return threadResponse{
		ForumID:   string(t.ID),
		UserID:    string(t.UserID),
		Title:     t.Title,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
}

type eventRequest struct {
	OrganizerID *string    `json:"organizer_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	DateTime    *time.Time `json:"date_time"`
	RSVP        *string    `json:"rsvp"`
}

type eventResponse struct {
	EventID     string     `json:"event_id"`
	OrganizerID string     `json:"organizer_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	DateTime    *time.Time `json:"date_time"`
	RSVP        *string    `json:"rsvp"`
	CreatedAt   time.Time  `json:"created_at"`
}

func eventFromDomain(e domain.Event) eventResponse {
	return eventResponse{
		EventID:     string(e.ID),
		OrganizerID: string(e.OrganizerID),
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		DateTime:    e.DateTime,
		RSVP:        e.RSVP,
		CreatedAt:   e.CreatedAt,
	}
}

type challengeRequest struct {
	UserID        *string `json:"user_id"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	Frequency     *string `json:"frequency"`
	PointsAwarded *int    `json:"points_awarded"`
}

type challengeResponse struct {
	ChallengeID   string    `json:"challenge_id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	Frequency     *string   `json:"frequency"`
	PointsAwarded *int      `json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
}

func challengeFromDomain(c domain.Challenge) challengeResponse {
	return challengeResponse{
		ChallengeID:   string(c.ID),
		UserID:        string(c.UserID),
		Title:         c.Title,
		Description:   c.Description,
		Frequency:     c.Frequency,
		PointsAwarded: c.PointsAwarded,
		CreatedAt:     c.CreatedAt,
	}
}

type resourceResponse struct {
	ResourceID string             `json:"resource_id"`
	Title      string             `json:"title"`
	Content    *string            `json:"content"`
	Category   *string            `json:"category"`
	PostedOn   openapi_types.Date `json:"posted_on"`
}

func resourceFromDomain(r domain.Resource) resourceResponse {
	return resourceResponse{
		ResourceID: string(r.ID),
		Title:      r.Title,
		Content:    r.Content,
		Category:   r.Category,
		PostedOn:   openapi_types.Date{Time: r.PostedOn},
	}
}

type partnershipRequest struct {
	UserID           *string `json:"user_id"`
	OrganizationName string  `json:"organization_name"`
	Description      *string `json:"description"`
	WebsiteURL       *string `json:"website_url"`
}

type partnershipResponse struct {
	PartnershipID    string    `json:"partnership_id"`
	UserID           string    `json:"user_id"`
	OrganizationName string    `json:"organization_name"`
	Description      *string   `json:"description"`
	WebsiteURL       *string   `json:"website_url"`
	CreatedAt        time.Time `json:"created_at"`
}

func partnershipFromDomain(p domain.Partnership) partnershipResponse {
	return partnershipResponse{
		PartnershipID:    string(p.ID),
		UserID:           string(p.UserID),
		OrganizationName: p.OrganizationName,
		Description:      p.Description,
		WebsiteURL:       p.WebsiteURL,
		CreatedAt:        p.CreatedAt,
	}
}

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
