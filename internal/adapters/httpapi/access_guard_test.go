package httpapi

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	memclock "github.com/eco7/eco7-api/internal/adapters/memory/clock"
	memidentityrepo "github.com/eco7/eco7-api/internal/adapters/memory/identityrepo"
	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/platform/auth/tokencodec"
	"github.com/eco7/eco7-api/internal/ports/out/identityrepo"
)

type guardFixture struct {
	guarded    http.Handler
	codec      *tokencodec.Codec
	identities *memidentityrepo.Repo
	clk        *memclock.ManualClock
	seen       *RequestIdentity
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	clk := memclock.NewManualClock(time.Unix(1700000000, 0).UTC())
	codec, err := tokencodec.New([]byte("guard-test-secret"), tokencodec.WithClock(clk))
	require.NoError(t, err)

	f := &guardFixture{codec: codec, identities: memidentityrepo.NewRepo(), clk: clk}
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := RequestIdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		f.seen = &id
		w.WriteHeader(http.StatusNoContent)
	})
	f.guarded = NewAccessGuard(codec, f.identities, log.New(io.Discard, "", 0))(probe)
	return f
}

func (f *guardFixture) seed(t *testing.T, subject domain.SubjectID, email string) string {
	t.Helper()
	name := "Alice"
	require.NoError(t, f.identities.Create(context.Background(), identityrepo.Identity{
		SubjectID:   subject,
		Email:       email,
		DisplayName: &name,
		Secret:      "stored-secret",
		CreatedAt:   f.clk.Now(),
	}))
	tok, _, err := f.codec.Issue(subject, email, time.Hour)
	require.NoError(t, err)
	return tok
}

func (f *guardFixture) serve(authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	f.guarded.ServeHTTP(rec, req)
	return rec
}

func TestAccessGuard_AdmitsValidToken(t *testing.T) {
	t.Parallel()
	f := newGuardFixture(t)
	tok := f.seed(t, "sub-1", "alice@example.com")

	rec := f.serve("Bearer " + tok)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	require.NotNil(t, f.seen)
	require.Equal(t, domain.SubjectID("sub-1"), f.seen.SubjectID)
	require.Equal(t, "alice@example.com", f.seen.Email)
	require.Equal(t, "Alice", *f.seen.DisplayName)
}

func TestAccessGuard_SchemeIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	f := newGuardFixture(t)
	tok := f.seed(t, "sub-1", "alice@example.com")

	rec := f.serve("bearer " + tok)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
}

func TestAccessGuard_MissingToken_401(t *testing.T) {
	t.Parallel()
	f := newGuardFixture(t)

	for _, authz := range []string{"", "Basic dXNlcjpwYXNz", "Bearer ", "Token abc"} {
		rec := f.serve(authz)
		requireError(t, rec, http.StatusUnauthorized, "TOKEN_MISSING")
	}
	require.Nil(t, f.seen)
}

func TestAccessGuard_InvalidToken_403(t *testing.T) {
	t.Parallel()
	f := newGuardFixture(t)
	_ = f.seed(t, "sub-1", "alice@example.com")

	other, err := tokencodec.New([]byte("some-other-secret"), tokencodec.WithClock(f.clk))
	require.NoError(t, err)
	forged, _, err := other.Issue("sub-1", "alice@example.com", time.Hour)
	require.NoError(t, err)

	for name, authz := range map[string]string{
		"garbage":   "Bearer not-a-jwt",
		"forged":    "Bearer " + forged,
		"truncated": "Bearer " + forged[:len(forged)-4],
	} {
		rec := f.serve(authz)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: status=%d body=%s", name, rec.Code, rec.Body.String())
		}
		requireError(t, rec, http.StatusForbidden, "TOKEN_INVALID")
	}
}

func TestAccessGuard_ExpiredToken_403(t *testing.T) {
	t.Parallel()
	f := newGuardFixture(t)
	tok := f.seed(t, "sub-1", "alice@example.com")

	f.clk.Advance(2 * time.Hour)

	rec := f.serve("Bearer " + tok)
	requireError(t, rec, http.StatusForbidden, "TOKEN_INVALID")
}

func TestAccessGuard_DeletedIdentity_401(t *testing.T) {
	t.Parallel()
	f := newGuardFixture(t)
	tok := f.seed(t, "sub-1", "alice@example.com")

	require.NoError(t, f.identities.Delete(context.Background(), "sub-1"))

	rec := f.serve("Bearer " + tok)
	requireError(t, rec, http.StatusUnauthorized, "USER_NOT_FOUND")
	require.Nil(t, f.seen)
}

func TestAccessGuard_UsesStoreNotClaims(t *testing.T) {
	t.Parallel()
	f := newGuardFixture(t)
	_ = f.seed(t, "sub-1", "alice@example.com")

	// Token carries a stale email; the admitted identity comes from the store.
	tok, _, err := f.codec.Issue("sub-1", "old@example.com", time.Hour)
	require.NoError(t, err)

	rec := f.serve("Bearer " + tok)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "alice@example.com", f.seen.Email)
}
