package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memactivityrepo "github.com/eco7/eco7-api/internal/adapters/memory/activityrepo"
	memclock "github.com/eco7/eco7-api/internal/adapters/memory/clock"
	memcommunityrepo "github.com/eco7/eco7-api/internal/adapters/memory/communityrepo"
	memidempotency "github.com/eco7/eco7-api/internal/adapters/memory/idempotency"
	memidentityrepo "github.com/eco7/eco7-api/internal/adapters/memory/identityrepo"
	memprofilerepo "github.com/eco7/eco7-api/internal/adapters/memory/profilerepo"
	"github.com/eco7/eco7-api/internal/app/activity"
	"github.com/eco7/eco7-api/internal/app/authn"
	"github.com/eco7/eco7-api/internal/app/community"
	"github.com/eco7/eco7-api/internal/app/profiles"
	"github.com/eco7/eco7-api/internal/platform/auth/tokencodec"
	"github.com/eco7/eco7-api/internal/platform/credentials"
)

type testAPI struct {
	handler    http.Handler
	codec      *tokencodec.Codec
	identities *memidentityrepo.Repo
	clk        *memclock.ManualClock
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC))
	codec, err := tokencodec.New([]byte("httpapi-test-secret"), tokencodec.WithClock(clk))
	if err != nil {
		t.Fatalf("tokencodec.New err=%v", err)
	}
	matcher, err := credentials.NewBcrypt(4)
	if err != nil {
		t.Fatalf("NewBcrypt err=%v", err)
	}

	identities := memidentityrepo.NewRepo()
	authSvc := authn.NewService(identities, matcher, codec, clk, time.Hour)
	profilesSvc := profiles.NewService(memprofilerepo.NewRepo(), clk)
	activitySvc := activity.NewService(memactivityrepo.NewRepo(), clk)
	communitySvc := community.NewService(memcommunityrepo.NewRepo(), clk)

	quiet := log.New(io.Discard, "", 0)
	api := NewServer(authSvc, profilesSvc, activitySvc, communitySvc, memidempotency.NewStore(),
		WithClock(clk),
		WithLogger(quiet),
	)
	h := NewRouter(api, RouterOptions{
		Guard:  NewAccessGuard(codec, identities, quiet),
		Logger: quiet,
	})
	return testAPI{handler: h, codec: codec, identities: identities, clk: clk}
}

func (a testAPI) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// register creates an account and returns its session.
func (a testAPI) register(t *testing.T, email, password string) sessionResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register status=%d body=%s", rec.Code, rec.Body.String())
	}
	return decodeBody[sessionResponse](t, rec)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, rec.Body.String())
	}
	return out
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) ErrorResponse {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", rec.Code, wantStatus, rec.Body.String())
	}
	er := decodeBody[ErrorResponse](t, rec)
	if er.Success || er.ErrorCode != wantCode {
		t.Fatalf("error_code=%q success=%v want=%q body=%s", er.ErrorCode, er.Success, wantCode, rec.Body.String())
	}
	if er.Timestamp == "" {
		t.Fatalf("expected timestamp in error body")
	}
	return er
}
