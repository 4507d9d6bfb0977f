package httpapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[healthResponse](t, rec)
	require.Equal(t, "ok", got.Status)
	require.Equal(t, "2024-05-10T12:00:00.000Z", got.Timestamp)

	rec = a.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestUnknownRoute_404Envelope(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/nope", "", nil)
	er := requireError(t, rec, http.StatusNotFound, "NOT_FOUND")
	require.NotEmpty(t, er.RequestID)
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    " Alice@Example.com ",
		"password": "pw1",
		"name":     "Alice",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reg := decodeBody[sessionResponse](t, rec)
	require.Equal(t, "alice@example.com", reg.Email)
	require.NotEmpty(t, reg.Token)
	require.True(t, reg.Authenticated)
	require.NotContains(t, rec.Body.String(), "pw1")

	rec = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decodeBody[sessionResponse](t, rec)
	require.Equal(t, reg.SubjectID, login.SubjectID)

	rec = a.do(t, http.MethodGet, "/api/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decodeBody[meResponse](t, rec)
	require.Equal(t, reg.SubjectID, me.SubjectID)
	require.Equal(t, "Alice", *me.Name)
}

func TestAuth_RegisterAcceptsLegacySecretField(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":         "legacy@example.com",
		"password_hash": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email":         "legacy@example.com",
		"password_hash": "pw1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAuth_RegisterDuplicate_409(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	_ = a.register(t, "alice@example.com", "pw1")

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    "ALICE@example.com",
		"password": "different",
	})
	requireError(t, rec, http.StatusConflict, "USER_ALREADY_EXISTS")
}

func TestAuth_RegisterValidation_400(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    "not-an-email",
		"password": "",
	})
	er := requireError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	require.Contains(t, er.Details, "email")
	require.Contains(t, er.Details, "password")
}

func TestAuth_RegisterBadJSON_400(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", nil)
	er := requireError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	require.Equal(t, "missing request body", er.Details["body"])
}

func TestAuth_LoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	_ = a.register(t, "alice@example.com", "pw1")

	wrong := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "alice@example.com", "password": "nope"})
	unknown := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "bob@example.com", "password": "nope"})

	e1 := requireError(t, wrong, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	e2 := requireError(t, unknown, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	require.Equal(t, e1.Message, e2.Message)
}

func TestAuth_LoginMissingCredentials_400(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "alice@example.com"})
	requireError(t, rec, http.StatusBadRequest, "MISSING_CREDENTIALS")
}

func TestUsers_GetPublicView(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	reg := a.register(t, "alice@example.com", "pw1")

	rec := a.do(t, http.MethodGet, "/api/users/"+reg.SubjectID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "token")
	got := decodeBody[userResponse](t, rec)
	require.Equal(t, reg.SubjectID, got.SubjectID)

	rec = a.do(t, http.MethodGet, "/api/users/00000000-0000-0000-0000-000000000000", "", nil)
	requireError(t, rec, http.StatusNotFound, "USER_NOT_FOUND")
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/users/me"},
		{http.MethodPost, "/api/profiles"},
		{http.MethodGet, "/api/dashboards"},
		{http.MethodGet, "/api/carbon-footprints"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodPost, "/api/forums"},
	} {
		rec := a.do(t, tc.method, tc.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s status=%d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestProfiles_UpsertGetPatch(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	alice := a.register(t, "alice@example.com", "pw1")

	rec := a.do(t, http.MethodPost, "/api/profiles", alice.Token, map[string]any{
		"eco_goals":        "less plastic",
		"challenge_levels": "beginner",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decodeBody[profileResponse](t, rec)
	require.Equal(t, alice.SubjectID, p.UserID)

	rec = a.do(t, http.MethodGet, "/api/profiles/"+p.ProfileID, alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPatch, "/api/profiles/"+p.ProfileID, alice.Token, map[string]any{
		"eco_goals":        "zero waste",
		"challenge_levels": nil,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	patched := decodeBody[profileResponse](t, rec)
	require.Equal(t, "zero waste", *patched.EcoGoals)
	require.Nil(t, patched.ChallengeLevels)

	rec = a.do(t, http.MethodPatch, "/api/profiles/"+p.ProfileID, alice.Token, map[string]any{})
	requireError(t, rec, http.StatusBadRequest, "NO_UPDATE_FIELDS")

	rec = a.do(t, http.MethodGet, "/api/profiles/missing", alice.Token, nil)
	requireError(t, rec, http.StatusNotFound, "PROFILE_NOT_FOUND")
}

func TestProfiles_PatchByNonOwner_403(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	alice := a.register(t, "alice@example.com", "pw1")
	bob := a.register(t, "bob@example.com", "pw2")

	rec := a.do(t, http.MethodPost, "/api/profiles", alice.Token, map[string]any{"eco_goals": "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[profileResponse](t, rec)

	rec = a.do(t, http.MethodPatch, "/api/profiles/"+p.ProfileID, bob.Token, map[string]any{"eco_goals": "mine now"})
	requireError(t, rec, http.StatusForbidden, "FORBIDDEN")
}

func TestProfiles_PatchIdempotentReplayAndConflictOnReuse(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	alice := a.register(t, "alice@example.com", "pw1")

	rec := a.do(t, http.MethodPost, "/api/profiles", alice.Token, map[string]any{"eco_goals": "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[profileResponse](t, rec)
	path := "/api/profiles/" + p.ProfileID

	first := a.do(t, http.MethodPatch, path, alice.Token, map[string]any{"eco_goals": "first"}, idempotencyKeyHeader, "k-1")
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())

	// A later change made without the key must not leak into the replay.
	other := a.do(t, http.MethodPatch, path, alice.Token, map[string]any{"eco_goals": "second"})
	require.Equal(t, http.StatusOK, other.Code)

	replay := a.do(t, http.MethodPatch, path, alice.Token, map[string]any{"eco_goals": "first"}, idempotencyKeyHeader, "k-1")
	require.Equal(t, http.StatusOK, replay.Code)
	require.Equal(t, "true", replay.Header().Get("Idempotent-Replayed"))
	require.JSONEq(t, first.Body.String(), replay.Body.String())

	reuse := a.do(t, http.MethodPatch, path, alice.Token, map[string]any{"eco_goals": "changed"}, idempotencyKeyHeader, "k-1")
	requireError(t, reuse, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE")
}

func TestDashboard_GetOrCreate(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	alice := a.register(t, "alice@example.com", "pw1")

	rec := a.do(t, http.MethodGet, "/api/dashboards", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decodeBody[dashboardResponse](t, rec)
	require.NotNil(t, first.Achievements)

	rec = a.do(t, http.MethodGet, "/api/dashboards", alice.Token, nil)
	second := decodeBody[dashboardResponse](t, rec)
	require.Equal(t, first.DashboardID, second.DashboardID)
}

func TestActivity_FootprintEstimateAndList(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	alice := a.register(t, "alice@example.com", "pw1")

	rec := a.do(t, http.MethodPost, "/api/carbon-footprints", alice.Token, map[string]any{
		"daily_activities": "Drove the car, ate meat",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	f := decodeBody[footprintResponse](t, rec)
	require.NotNil(t, f.CalculatedFootprint)
	require.InDelta(t, 600.0, *f.CalculatedFootprint, 0.001)
	require.NotNil(t, f.ActivityBreakdown)

	rec = a.do(t, http.MethodGet, "/api/carbon-footprints", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]footprintResponse](t, rec)
	require.Len(t, list, 1)
}

func TestActivity_RejectsOtherUsersID_403(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	alice := a.register(t, "alice@example.com", "pw1")
	bob := a.register(t, "bob@example.com", "pw2")

	rec := a.do(t, http.MethodPost, "/api/carbon-footprints", alice.Token, map[string]any{
		"user_id":              bob.SubjectID,
		"calculated_footprint": 3.5,
	})
	requireError(t, rec, http.StatusForbidden, "FORBIDDEN")

	rec = a.do(t, http.MethodGet, "/api/weekly-reports?user_id="+bob.SubjectID, alice.Token, nil)
	requireError(t, rec, http.StatusForbidden, "FORBIDDEN")
}

func TestActivity_WeeklyReportNotifies(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	alice := a.register(t, "alice@example.com", "pw1")

	rec := a.do(t, http.MethodPost, "/api/weekly-reports", alice.Token, map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rep := decodeBody[weeklyReportResponse](t, rec)
	require.NotNil(t, rep.PerformanceSummary)
	require.NotNil(t, rep.Suggestions)

	rec = a.do(t, http.MethodGet, "/api/notifications", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	notes := decodeBody[[]notificationResponse](t, rec)
	require.Len(t, notes, 1)
	require.False(t, notes[0].IsRead)
}

func TestCommunity_CreateAndFilter(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	alice := a.register(t, "alice@example.com", "pw1")
	bob := a.register(t, "bob@example.com", "pw2")

	for _, c := range []struct {
		token, title string
	}{
		{alice.Token, "Composting tips"},
		{bob.Token, "Bike commuting"},
		{alice.Token, "Solar at home"},
	} {
		rec := a.do(t, http.MethodPost, "/api/forums", c.token, map[string]any{"title": c.title, "content": "..."})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := a.do(t, http.MethodGet, "/api/forums?title=COMPOST", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeBody[[]threadResponse](t, rec), 1)

	rec = a.do(t, http.MethodGet, "/api/forums?user_id="+alice.SubjectID, "", nil)
	require.Len(t, decodeBody[[]threadResponse](t, rec), 2)

	rec = a.do(t, http.MethodPost, "/api/forums", alice.Token, map[string]any{"title": "   ", "content": "x"})
	er := requireError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	require.Contains(t, er.Details, "title")

	rec = a.do(t, http.MethodPost, "/api/challenges", alice.Token, map[string]any{"title": "No car week", "points_awarded": -1})
	requireError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = a.do(t, http.MethodPost, "/api/partnerships", alice.Token, map[string]any{
		"organization_name": "Green Co",
		"website_url":       "https://green.example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(t, http.MethodGet, "/api/partnerships", "", nil)
	require.Len(t, decodeBody[[]partnershipResponse](t, rec), 1)
}

func TestCommunity_EventOrganizerMismatch_403(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	alice := a.register(t, "alice@example.com", "pw1")

	rec := a.do(t, http.MethodPost, "/api/events", alice.Token, map[string]any{
		"organizer_id": "someone-else",
		"title":        "Beach cleanup",
	})
	requireError(t, rec, http.StatusForbidden, "FORBIDDEN")

	rec = a.do(t, http.MethodPost, "/api/events", alice.Token, map[string]any{
		"title":     "Beach cleanup",
		"date_time": "2024-06-01T09:00:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = a.do(t, http.MethodGet, "/api/events?organizer_id="+alice.SubjectID, "", nil)
	events := decodeBody[[]eventResponse](t, rec)
	require.Len(t, events, 1)
	require.Equal(t, alice.SubjectID, events[0].OrganizerID)
}

func TestCommunity_ResourcesPostedOnFilter(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/resources?posted_on=10-05-2024", "", nil)
	er := requireError(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	require.Contains(t, er.Details, "posted_on")

	rec = a.do(t, http.MethodGet, "/api/resources?posted_on=2024-05-10&category=energy", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeBody[[]resourceResponse](t, rec))
	require.True(t, strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "["))
}
