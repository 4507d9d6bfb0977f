package contracttest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eco7/eco7-api/internal/domain"
	activityrepoport "github.com/eco7/eco7-api/internal/ports/out/activityrepo"
	communityrepoport "github.com/eco7/eco7-api/internal/ports/out/communityrepo"
	idempotencyport "github.com/eco7/eco7-api/internal/ports/out/idempotency"
	identityrepoport "github.com/eco7/eco7-api/internal/ports/out/identityrepo"
	profilerepoport "github.com/eco7/eco7-api/internal/ports/out/profilerepo"
)

type CleanupFunc = func()

type IdentityRepoFactory func(t *testing.T) (identityrepoport.Repository, CleanupFunc)
type ProfileRepoFactory func(t *testing.T) (profilerepoport.Repository, CleanupFunc)
type ActivityRepoFactory func(t *testing.T) (activityrepoport.Repository, CleanupFunc)
type CommunityRepoFactory func(t *testing.T) (communityrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uuid.NewString()),
		Subject:  domain.SubjectID(uuid.NewString()),
		Method:   "PATCH",
		Route:    "/api/profiles/{profile_id}",
		BodyHash: "",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Any fingerprint component distinguishes records.
	other := fp
	other.BodyHash = "different"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get other body hash: ok=%v err=%v", ok, err)
	}
	other = fp
	other.Subject = domain.SubjectID(uuid.NewString())
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get other subject: ok=%v err=%v", ok, err)
	}
}

func uniqueEmail(prefix string) string {
	return prefix + "+" + uuid.NewString()[:8] + "@example.com"
}

// seedIdentity creates an identity that owns records in the other suites.
func seedIdentity(t *testing.T, repo identityrepoport.Repository) domain.SubjectID {
	t.Helper()
	id := domain.SubjectID(uuid.NewString())
	if err := repo.Create(context.Background(), identityrepoport.Identity{
		SubjectID:     id,
		Email:         uniqueEmail("owner"),
		Secret:        "secret",
		Authenticated: true,
		CreatedAt:     time.Unix(1000, 0).UTC(),
	}); err != nil {
		t.Fatalf("seed identity: %v", err)
	}
	return id
}

func RunIdentityRepo(t *testing.T, newRepo IdentityRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	email := uniqueEmail("alice")
	name := "Alice"
	aID := domain.SubjectID(uuid.NewString())
	if err := repo.Create(ctx, identityrepoport.Identity{
		SubjectID:   aID,
		Email:       "  " + strings.ToUpper(email) + " ",
		DisplayName: &name,
		Secret:      "stored-secret",
		CreatedAt:   now,
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}

	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != email {
		t.Fatalf("Email=%q, want normalized %q", got.Email, email)
	}
	if got.Secret != "stored-secret" || got.DisplayName == nil || *got.DisplayName != "Alice" || got.Authenticated {
		t.Fatalf("unexpected identity: %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt=%v, want %v", got.CreatedAt, now)
	}

	byEmail, err := repo.GetByEmail(ctx, strings.ToUpper(email))
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.SubjectID != aID {
		t.Fatalf("GetByEmail subject=%q, want %q", byEmail.SubjectID, aID)
	}

	// Email uniqueness is case-insensitive.
	err = repo.Create(ctx, identityrepoport.Identity{
		SubjectID: domain.SubjectID(uuid.NewString()),
		Email:     strings.ToUpper(email[:1]) + email[1:],
		Secret:    "x",
		CreatedAt: now,
	})
	if !errors.Is(err, identityrepoport.ErrEmailTaken) {
		t.Fatalf("duplicate email err=%v, want ErrEmailTaken", err)
	}

	// Subject uniqueness.
	err = repo.Create(ctx, identityrepoport.Identity{
		SubjectID: aID,
		Email:     uniqueEmail("alice-two"),
		Secret:    "x",
		CreatedAt: now,
	})
	if !errors.Is(err, identityrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate subject err=%v, want ErrAlreadyExists", err)
	}

	err = repo.Create(ctx, identityrepoport.Identity{
		Email:     uniqueEmail("no-subject"),
		Secret:    "x",
		CreatedAt: now,
	})
	if !errors.Is(err, identityrepoport.ErrInvalidSubject) {
		t.Fatalf("empty subject err=%v, want ErrInvalidSubject", err)
	}

	if _, err := repo.GetByID(ctx, domain.SubjectID(uuid.NewString())); !errors.Is(err, identityrepoport.ErrNotFound) {
		t.Fatalf("GetByID unknown err=%v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID(ctx, "not-a-uuid"); !errors.Is(err, identityrepoport.ErrNotFound) {
		t.Fatalf("GetByID malformed err=%v, want ErrNotFound", err)
	}
	if _, err := repo.GetByEmail(ctx, uniqueEmail("nobody")); !errors.Is(err, identityrepoport.ErrNotFound) {
		t.Fatalf("GetByEmail unknown err=%v, want ErrNotFound", err)
	}

	if err := repo.MarkAuthenticated(ctx, aID); err != nil {
		t.Fatalf("MarkAuthenticated: %v", err)
	}
	if got, _ := repo.GetByID(ctx, aID); !got.Authenticated {
		t.Fatalf("expected authenticated after MarkAuthenticated")
	}
	if err := repo.MarkAuthenticated(ctx, domain.SubjectID(uuid.NewString())); !errors.Is(err, identityrepoport.ErrNotFound) {
		t.Fatalf("MarkAuthenticated unknown err=%v, want ErrNotFound", err)
	}

	// Delete frees the email.
	if err := repo.Delete(ctx, aID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, aID); !errors.Is(err, identityrepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete err=%v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, aID); !errors.Is(err, identityrepoport.ErrNotFound) {
		t.Fatalf("Delete twice err=%v, want ErrNotFound", err)
	}
	if err := repo.Create(ctx, identityrepoport.Identity{
		SubjectID: domain.SubjectID(uuid.NewString()),
		Email:     email,
		Secret:    "x",
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("Create after delete: %v", err)
	}
}

func RunProfileRepo(t *testing.T, newIdentities IdentityRepoFactory, newRepo ProfileRepoFactory) {
	t.Helper()
	ctx := context.Background()

	identities, iCleanup := newIdentities(t)
	if iCleanup != nil {
		t.Cleanup(iCleanup)
	}
	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	u1 := seedIdentity(t, identities)
	u2 := seedIdentity(t, identities)
	now := time.Unix(2000, 0).UTC()
	goals := "plant trees"

	p1 := domain.Profile{
		ID:        domain.ProfileID(uuid.NewString()),
		UserID:    u1,
		EcoGoals:  &goals,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.CreateProfile(ctx, p1); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	dup := p1
	dup.ID = domain.ProfileID(uuid.NewString())
	if err := repo.CreateProfile(ctx, dup); !errors.Is(err, profilerepoport.ErrAlreadyExists) {
		t.Fatalf("second profile for user err=%v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetProfileByID(ctx, p1.ID)
	if err != nil {
		t.Fatalf("GetProfileByID: %v", err)
	}
	if got.UserID != u1 || got.EcoGoals == nil || *got.EcoGoals != goals || got.AvatarURL != nil {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if byUser, err := repo.GetProfileByUser(ctx, u1); err != nil || byUser.ID != p1.ID {
		t.Fatalf("GetProfileByUser: id=%q err=%v", byUser.ID, err)
	}
	if _, err := repo.GetProfileByUser(ctx, u2); !errors.Is(err, profilerepoport.ErrNotFound) {
		t.Fatalf("GetProfileByUser without profile err=%v, want ErrNotFound", err)
	}
	if _, err := repo.GetProfileByID(ctx, domain.ProfileID(uuid.NewString())); !errors.Is(err, profilerepoport.ErrNotFound) {
		t.Fatalf("GetProfileByID unknown err=%v, want ErrNotFound", err)
	}

	avatar := "https://example.com/a.png"
	got.EcoGoals = nil
	got.AvatarURL = &avatar
	got.UpdatedAt = now.Add(time.Hour)
	if err := repo.SaveProfile(ctx, got); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	saved, _ := repo.GetProfileByID(ctx, p1.ID)
	if saved.EcoGoals != nil || saved.AvatarURL == nil || *saved.AvatarURL != avatar || !saved.UpdatedAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected saved profile: %+v", saved)
	}
	missing := got
	missing.ID = domain.ProfileID(uuid.NewString())
	if err := repo.SaveProfile(ctx, missing); !errors.Is(err, profilerepoport.ErrNotFound) {
		t.Fatalf("SaveProfile unknown err=%v, want ErrNotFound", err)
	}

	if _, err := repo.GetDashboardByUser(ctx, u1); !errors.Is(err, profilerepoport.ErrNotFound) {
		t.Fatalf("GetDashboardByUser before create err=%v, want ErrNotFound", err)
	}
	ach := domain.DefaultDashboardAchievements
	d := domain.Dashboard{ID: domain.DashboardID(uuid.NewString()), UserID: u1, Achievements: &ach}
	if err := repo.CreateDashboard(ctx, d); err != nil {
		t.Fatalf("CreateDashboard: %v", err)
	}
	gotD, err := repo.GetDashboardByUser(ctx, u1)
	if err != nil || gotD.ID != d.ID || gotD.Achievements == nil || *gotD.Achievements != ach {
		t.Fatalf("GetDashboardByUser: %+v err=%v", gotD, err)
	}
	d2 := d
	d2.ID = domain.DashboardID(uuid.NewString())
	if err := repo.CreateDashboard(ctx, d2); !errors.Is(err, profilerepoport.ErrAlreadyExists) {
		t.Fatalf("second dashboard err=%v, want ErrAlreadyExists", err)
	}
}

func RunActivityRepo(t *testing.T, newIdentities IdentityRepoFactory, newRepo ActivityRepoFactory) {
	t.Helper()
	ctx := context.Background()

	identities, iCleanup := newIdentities(t)
	if iCleanup != nil {
		t.Cleanup(iCleanup)
	}
	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	u1 := seedIdentity(t, identities)
	u2 := seedIdentity(t, identities)
	t1 := time.Unix(3000, 0).UTC()
	t2 := t1.Add(time.Minute)

	amount := 450.5
	breakdown := `{"transportation":450}`
	acts := "drove the car"
	f1 := domain.CarbonFootprint{ID: domain.FootprintID(uuid.NewString()), UserID: u1, DailyActivities: &acts, CalculatedFootprint: &amount, ActivityBreakdown: &breakdown, CreatedAt: t1}
	f2 := domain.CarbonFootprint{ID: domain.FootprintID(uuid.NewString()), UserID: u1, CreatedAt: t2}
	fOther := domain.CarbonFootprint{ID: domain.FootprintID(uuid.NewString()), UserID: u2, CreatedAt: t2}
	for _, f := range []domain.CarbonFootprint{f1, f2, fOther} {
		if err := repo.CreateFootprint(ctx, f); err != nil {
			t.Fatalf("CreateFootprint: %v", err)
		}
	}
	if err := repo.CreateFootprint(ctx, f1); !errors.Is(err, activityrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate footprint err=%v, want ErrAlreadyExists", err)
	}
	fs, err := repo.ListFootprintsByUser(ctx, u1)
	if err != nil {
		t.Fatalf("ListFootprintsByUser: %v", err)
	}
	if len(fs) != 2 || fs[0].ID != f2.ID || fs[1].ID != f1.ID {
		t.Fatalf("unexpected footprints: %#v", fs)
	}
	if fs[1].CalculatedFootprint == nil || *fs[1].CalculatedFootprint != amount || fs[1].ActivityBreakdown == nil || *fs[1].ActivityBreakdown != breakdown {
		t.Fatalf("footprint fields not preserved: %+v", fs[1])
	}

	summary := "Great progress"
	r1 := domain.WeeklyReport{ID: domain.ReportID(uuid.NewString()), UserID: u1, PerformanceSummary: &summary, CreatedAt: t2}
	r2 := domain.WeeklyReport{ID: domain.ReportID(uuid.NewString()), UserID: u1, CreatedAt: t1}
	for _, r := range []domain.WeeklyReport{r1, r2} {
		if err := repo.CreateReport(ctx, r); err != nil {
			t.Fatalf("CreateReport: %v", err)
		}
	}
	rs, err := repo.ListReportsByUser(ctx, u1)
	if err != nil {
		t.Fatalf("ListReportsByUser: %v", err)
	}
	if len(rs) != 2 || rs[0].ID != r1.ID || rs[0].PerformanceSummary == nil || *rs[0].PerformanceSummary != summary {
		t.Fatalf("unexpected reports: %#v", rs)
	}
	if rs, _ := repo.ListReportsByUser(ctx, u2); len(rs) != 0 {
		t.Fatalf("reports leaked across users: %#v", rs)
	}

	n1 := domain.Notification{ID: domain.NotificationID(uuid.NewString()), UserID: u2, Content: "hello", CreatedAt: t1}
	if err := repo.CreateNotification(ctx, n1); err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}
	ns, err := repo.ListNotificationsByUser(ctx, u2)
	if err != nil {
		t.Fatalf("ListNotificationsByUser: %v", err)
	}
	if len(ns) != 1 || ns[0].Content != "hello" || ns[0].IsRead {
		t.Fatalf("unexpected notifications: %#v", ns)
	}
	if ns, _ := repo.ListNotificationsByUser(ctx, u1); len(ns) != 0 {
		t.Fatalf("notifications leaked across users: %#v", ns)
	}
}

func RunCommunityRepo(t *testing.T, newIdentities IdentityRepoFactory, newRepo CommunityRepoFactory) {
	t.Helper()
	ctx := context.Background()

	identities, iCleanup := newIdentities(t)
	if iCleanup != nil {
		t.Cleanup(iCleanup)
	}
	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	u1 := seedIdentity(t, identities)
	u2 := seedIdentity(t, identities)
	tok := uuid.NewString()[:8]
	t1 := time.Unix(4000, 0).UTC()
	t2 := t1.Add(time.Minute)

	// Threads: case-insensitive title filter, owner filter, newest first.
	th1 := domain.ForumThread{ID: domain.ThreadID(uuid.NewString()), UserID: u1, Title: "Solar panels " + tok, Content: "a", CreatedAt: t1}
	th2 := domain.ForumThread{ID: domain.ThreadID(uuid.NewString()), UserID: u1, Title: "More solar " + tok, Content: "b", CreatedAt: t2}
	th3 := domain.ForumThread{ID: domain.ThreadID(uuid.NewString()), UserID: u2, Title: "Wind " + tok, Content: "c", CreatedAt: t2}
	for _, th := range []domain.ForumThread{th1, th2, th3} {
		if err := repo.CreateThread(ctx, th); err != nil {
			t.Fatalf("CreateThread: %v", err)
		}
	}
	if err := repo.CreateThread(ctx, th1); !errors.Is(err, communityrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate thread err=%v, want ErrAlreadyExists", err)
	}
	ths, err := repo.ListThreads(ctx, communityrepoport.ThreadFilter{TitleContains: "SOLAR"})
	if err != nil {
		t.Fatalf("ListThreads: %v", err)
	}
	if !containsThreadsInOrder(ths, th2.ID, th1.ID) || containsThread(ths, th3.ID) {
		t.Fatalf("unexpected title-filtered threads: %#v", ths)
	}
	ths, err = repo.ListThreads(ctx, communityrepoport.ThreadFilter{UserID: u2})
	if err != nil || len(ths) != 1 || ths[0].ID != th3.ID {
		t.Fatalf("owner-filtered threads: %#v err=%v", ths, err)
	}
	ths, err = repo.ListThreads(ctx, communityrepoport.ThreadFilter{TitleContains: "wind " + strings.ToUpper(tok), UserID: u1})
	if err != nil || len(ths) != 0 {
		t.Fatalf("combined filter threads: %#v err=%v", ths, err)
	}

	// Events.
	when := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	loc := "Park"
	ev1 := domain.Event{ID: domain.EventID(uuid.NewString()), OrganizerID: u1, Title: "Cleanup " + tok, Location: &loc, DateTime: &when, CreatedAt: t1}
	ev2 := domain.Event{ID: domain.EventID(uuid.NewString()), OrganizerID: u2, Title: "Swap " + tok, CreatedAt: t2}
	for _, ev := range []domain.Event{ev1, ev2} {
		if err := repo.CreateEvent(ctx, ev); err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}
	evs, err := repo.ListEvents(ctx, communityrepoport.EventFilter{OrganizerID: u1})
	if err != nil || len(evs) != 1 || evs[0].ID != ev1.ID {
		t.Fatalf("ListEvents by organizer: %#v err=%v", evs, err)
	}
	if evs[0].DateTime == nil || !evs[0].DateTime.Equal(when) || evs[0].Location == nil || *evs[0].Location != loc || evs[0].Description != nil {
		t.Fatalf("event fields not preserved: %+v", evs[0])
	}
	evs, err = repo.ListEvents(ctx, communityrepoport.EventFilter{TitleContains: "swap " + tok})
	if err != nil || len(evs) != 1 || evs[0].ID != ev2.ID {
		t.Fatalf("ListEvents by title: %#v err=%v", evs, err)
	}

	// Challenges.
	pts := 50
	ch := domain.Challenge{ID: domain.ChallengeID(uuid.NewString()), UserID: u2, Title: "No plastic " + tok, PointsAwarded: &pts, CreatedAt: t1}
	if err := repo.CreateChallenge(ctx, ch); err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	chs, err := repo.ListChallenges(ctx, communityrepoport.ChallengeFilter{TitleContains: "PLASTIC " + strings.ToUpper(tok), UserID: u2})
	if err != nil || len(chs) != 1 || chs[0].PointsAwarded == nil || *chs[0].PointsAwarded != pts {
		t.Fatalf("ListChallenges: %#v err=%v", chs, err)
	}

	// Resources: category substring and calendar-date filter, newest posted first.
	cat1 := "Energy-" + tok
	cat2 := "home energy-" + tok
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	res1 := domain.Resource{ID: domain.ResourceID(uuid.NewString()), Title: "Insulation", Category: &cat1, PostedOn: d1}
	res2 := domain.Resource{ID: domain.ResourceID(uuid.NewString()), Title: "Heat pumps", Category: &cat2, PostedOn: d2}
	for _, res := range []domain.Resource{res1, res2} {
		if err := repo.CreateResource(ctx, res); err != nil {
			t.Fatalf("CreateResource: %v", err)
		}
	}
	ress, err := repo.ListResources(ctx, communityrepoport.ResourceFilter{CategoryContains: "ENERGY-" + strings.ToUpper(tok)})
	if err != nil || len(ress) != 2 || ress[0].ID != res2.ID || ress[1].ID != res1.ID {
		t.Fatalf("ListResources by category: %#v err=%v", ress, err)
	}
	onDay := d1.Add(15 * time.Hour)
	ress, err = repo.ListResources(ctx, communityrepoport.ResourceFilter{CategoryContains: tok, PostedOn: &onDay})
	if err != nil || len(ress) != 1 || ress[0].ID != res1.ID || !ress[0].PostedOn.Equal(d1) {
		t.Fatalf("ListResources by date: %#v err=%v", ress, err)
	}

	// Partnerships: unfiltered, newest first.
	site := "https://green.example.com"
	p1 := domain.Partnership{ID: domain.PartnershipID(uuid.NewString()), UserID: u1, OrganizationName: "Green " + tok, WebsiteURL: &site, CreatedAt: t1}
	p2 := domain.Partnership{ID: domain.PartnershipID(uuid.NewString()), UserID: u2, OrganizationName: "Blue " + tok, CreatedAt: t2}
	for _, p := range []domain.Partnership{p1, p2} {
		if err := repo.CreatePartnership(ctx, p); err != nil {
			t.Fatalf("CreatePartnership: %v", err)
		}
	}
	ps, err := repo.ListPartnerships(ctx)
	if err != nil {
		t.Fatalf("ListPartnerships: %v", err)
	}
	i1, i2 := -1, -1
	for i, p := range ps {
		switch p.ID {
		case p1.ID:
			i1 = i
			if p.WebsiteURL == nil || *p.WebsiteURL != site {
				t.Fatalf("partnership fields not preserved: %+v", p)
			}
		case p2.ID:
			i2 = i
		}
	}
	if i1 < 0 || i2 < 0 || i2 > i1 {
		t.Fatalf("unexpected partnership ordering: p1=%d p2=%d", i1, i2)
	}
}

func containsThread(ts []domain.ForumThread, id domain.ThreadID) bool {
	for _, th := range ts {
		if th.ID == id {
			return true
		}
	}
	return false
}

func containsThreadsInOrder(ts []domain.ForumThread, ids ...domain.ThreadID) bool {
	next := 0
	for _, th := range ts {
		if next < len(ids) && th.ID == ids[next] {
			next++
		}
	}
	return next == len(ids)
}
