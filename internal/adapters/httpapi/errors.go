package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/eco7/eco7-api/internal/app/activity"
	"github.com/eco7/eco7-api/internal/app/authn"
	"github.com/eco7/eco7-api/internal/app/community"
	"github.com/eco7/eco7-api/internal/app/profiles"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	ErrorCode string         `json:"error_code"`
	Timestamp string         `json:"timestamp"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	er := ErrorResponse{
		Success:   false,
		Message:   message,
		ErrorCode: code,
		Timestamp: time.Now().UTC().Format(timestampLayout),
		Details:   details,
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		er.RequestID = rid
	}
	writeJSON(w, status, er)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// appError is the common shape of the application-layer errors.
type appError struct {
	status  int
	code    string
	message string
	details map[string]any
}

func asAppError(err error) (appError, bool) {
	if ae := (*authn.Error)(nil); errors.As(err, &ae) {
		return appError{ae.Status, ae.Code, ae.Message, ae.Details}, true
	}
	if ae := (*profiles.Error)(nil); errors.As(err, &ae) {
		return appError{ae.Status, ae.Code, ae.Message, ae.Details}, true
	}
	if ae := (*activity.Error)(nil); errors.As(err, &ae) {
		return appError{ae.Status, ae.Code, ae.Message, ae.Details}, true
	}
	if ae := (*community.Error)(nil); errors.As(err, &ae) {
		return appError{ae.Status, ae.Code, ae.Message, ae.Details}, true
	}
	return appError{}, false
}

// writeServiceError maps application errors to their status and code.
// Anything else is a 500 whose cause is only exposed when error details are enabled.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ae, ok := asAppError(err); ok {
		writeError(w, r, ae.status, ae.code, ae.message, ae.details)
		return
	}
	s.logger.Printf("request_id=%s %s %s: internal error: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
	var details map[string]any
	if s.exposeErrorDetails {
		details = map[string]any{"error": err.Error()}
	}
	writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", details)
}
