package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eco7/eco7-api/internal/adapters/httpapi"
	memactivityrepo "github.com/eco7/eco7-api/internal/adapters/memory/activityrepo"
	memclock "github.com/eco7/eco7-api/internal/adapters/memory/clock"
	memcommunityrepo "github.com/eco7/eco7-api/internal/adapters/memory/communityrepo"
	memidempotency "github.com/eco7/eco7-api/internal/adapters/memory/idempotency"
	memidentityrepo "github.com/eco7/eco7-api/internal/adapters/memory/identityrepo"
	memprofilerepo "github.com/eco7/eco7-api/internal/adapters/memory/profilerepo"
	pgactivityrepo "github.com/eco7/eco7-api/internal/adapters/postgres/activityrepo"
	pgcommunityrepo "github.com/eco7/eco7-api/internal/adapters/postgres/communityrepo"
	pgidempotency "github.com/eco7/eco7-api/internal/adapters/postgres/idempotency"
	pgidentityrepo "github.com/eco7/eco7-api/internal/adapters/postgres/identityrepo"
	pgprofilerepo "github.com/eco7/eco7-api/internal/adapters/postgres/profilerepo"
	postgres_testutil "github.com/eco7/eco7-api/internal/adapters/postgres/testutil"
	"github.com/eco7/eco7-api/internal/app/activity"
	"github.com/eco7/eco7-api/internal/app/authn"
	"github.com/eco7/eco7-api/internal/app/community"
	"github.com/eco7/eco7-api/internal/app/profiles"
	"github.com/eco7/eco7-api/internal/platform/auth/tokencodec"
	"github.com/eco7/eco7-api/internal/platform/credentials"
	activityrepoport "github.com/eco7/eco7-api/internal/ports/out/activityrepo"
	communityrepoport "github.com/eco7/eco7-api/internal/ports/out/communityrepo"
	idempotencyport "github.com/eco7/eco7-api/internal/ports/out/idempotency"
	identityrepoport "github.com/eco7/eco7-api/internal/ports/out/identityrepo"
	profilerepoport "github.com/eco7/eco7-api/internal/ports/out/profilerepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
	clk     *memclock.ManualClock
	repo    identityrepoport.Repository
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	// Tokens are issued and verified against this clock; it starts at wall time
	// so rows written to Postgres carry realistic timestamps.
	clk := memclock.NewManualClock(time.Now().UTC().Truncate(time.Second))

	var (
		identityRepo  identityrepoport.Repository
		profileRepo   profilerepoport.Repository
		activityRepo  activityrepoport.Repository
		communityRepo communityrepoport.Repository
		idemStore     idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		identityRepo = pgidentityrepo.NewRepo(pool)
		profileRepo = pgprofilerepo.NewRepo(pool)
		activityRepo = pgactivityrepo.NewRepo(pool)
		communityRepo = pgcommunityrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	case backendMemory:
		identityRepo = memidentityrepo.NewRepo()
		profileRepo = memprofilerepo.NewRepo()
		activityRepo = memactivityrepo.NewRepo()
		communityRepo = memcommunityrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	codec, err := tokencodec.New([]byte("itest-secret"), tokencodec.WithIssuer("itest"), tokencodec.WithClock(clk))
	if err != nil {
		t.Fatalf("tokencodec.New: %v", err)
	}
	matcher, err := credentials.NewBcrypt(4)
	if err != nil {
		t.Fatalf("NewBcrypt: %v", err)
	}

	quiet := log.New(io.Discard, "", 0)
	api := httpapi.NewServer(
		authn.NewService(identityRepo, matcher, codec, clk, authn.DefaultTokenTTL),
		profiles.NewService(profileRepo, clk),
		activity.NewService(activityRepo, clk),
		community.NewService(communityRepo, clk),
		idemStore,
		httpapi.WithClock(clk),
		httpapi.WithLogger(quiet),
	)
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		Guard:  httpapi.NewAccessGuard(codec, identityRepo, quiet),
		Logger: quiet,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		clk:     clk,
		repo:    identityRepo,
	}
}

// uniqueEmail keeps tests independent when they share a database.
func uniqueEmail(local string) string {
	return local + "+" + uuid.NewString()[:8] + "@example.com"
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, token string, body any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
	RequestID string `json:"request_id"`
}

type session struct {
	SubjectID     string `json:"subject_id"`
	Email         string `json:"email"`
	Token         string `json:"token"`
	Authenticated bool   `json:"authenticated"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", status, wantStatus, string(body))
	}
	got := mustUnmarshal[errorResponse](t, body)
	if got.ErrorCode != wantCode {
		t.Fatalf("error_code=%q want=%q body=%s", got.ErrorCode, wantCode, string(body))
	}
	if got.Success {
		t.Fatalf("expected success=false body=%s", string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
