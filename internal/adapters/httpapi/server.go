package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/eco7/eco7-api/internal/app/activity"
	"github.com/eco7/eco7-api/internal/app/authn"
	"github.com/eco7/eco7-api/internal/app/community"
	"github.com/eco7/eco7-api/internal/app/profiles"
	"github.com/eco7/eco7-api/internal/domain"
	platformclock "github.com/eco7/eco7-api/internal/platform/clock"
	clockport "github.com/eco7/eco7-api/internal/ports/out/clock"
	"github.com/eco7/eco7-api/internal/ports/out/idempotency"
)

const maxBodyBytes = 5 << 20

// Server holds the handlers for every /api route.
type Server struct {
	Auth      *authn.Service
	Profiles  *profiles.Service
	Activity  *activity.Service
	Community *community.Service
	Idem      idempotency.Store

	clk                clockport.Clock
	logger             *log.Logger
	exposeErrorDetails bool
}

type ServerOption func(*Server)

func WithClock(clk clockport.Clock) ServerOption {
	return func(s *Server) {
		if clk != nil {
			s.clk = clk
		}
	}
}

func WithLogger(l *log.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithErrorDetails includes the cause of 500 responses in the error body. Development only.
func WithErrorDetails(expose bool) ServerOption {
	return func(s *Server) {
		s.exposeErrorDetails = expose
	}
}

func NewServer(authSvc *authn.Service, profilesSvc *profiles.Service, activitySvc *activity.Service, communitySvc *community.Service, idem idempotency.Store, opts ...ServerOption) *Server {
	s := &Server{
		Auth:      authSvc,
		Profiles:  profilesSvc,
		Activity:  activitySvc,
		Community: communitySvc,
		Idem:      idem,
		clk:       platformclock.NewSystemClock(),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: s.clk.Now().UTC().Format(timestampLayout),
	})
}

// caller returns the admitted identity or writes a 401.
func (s *Server) caller(w http.ResponseWriter, r *http.Request) (RequestIdentity, bool) {
	me, ok := RequestIdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "TOKEN_MISSING", "Access token required", nil)
		return RequestIdentity{}, false
	}
	return me, true
}

// ensureSelf rejects a client-supplied user id that is not the caller's.
func ensureSelf(w http.ResponseWriter, r *http.Request, me RequestIdentity, claimed *string) bool {
	if claimed == nil || *claimed == "" || domain.SubjectID(*claimed) == me.SubjectID {
		return true
	}
	writeError(w, r, http.StatusForbidden, "FORBIDDEN", "Cannot act on behalf of another user", nil)
	return false
}

// decodeJSON reads a JSON body into dst, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		details := map[string]any{"body": "invalid JSON body"}
		if errors.Is(err, io.EOF) {
			details = map[string]any{"body": "missing request body"}
		}
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input data", details)
		return false
	}
	return true
}

func (s *Server) now() time.Time {
	return s.clk.Now().UTC()
}
