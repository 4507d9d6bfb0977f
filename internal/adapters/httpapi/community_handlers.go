package httpapi

import (
	"net/http"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/eco7/eco7-api/internal/app/community"
	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/ports/out/communityrepo"
)

// queryParam returns a trimmed query value, or nil when absent or blank.
func queryParam(r *http.Request, name string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil
	}
	return &v
}

func queryString(r *http.Request, name string) string {
	if v := queryParam(r, name); v != nil {
		return *v
	}
	return ""
}

func (s *Server) CreateThread(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	var body threadRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if !ensureSelf(w, r, me, body.UserID) {
		return
	}
	t, err := s.Community.CreateThread(r.Context(), me.SubjectID, community.ThreadInput{
		Title:   body.Title,
		Content: body.Content,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, threadFromDomain(t))
}

func (s *Server) ListThreads(w http.ResponseWriter, r *http.Request) {
	out, err := s.Community.ListThreads(r.Context(), communityrepo.ThreadFilter{
		TitleContains: queryString(r, "title"),
		UserID:        domain.SubjectID(queryString(r, "user_id")),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(out, threadFromDomain))
}

func (s *Server) CreateEvent(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	var body eventRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if !ensureSelf(w, r, me, body.OrganizerID) {
		return
	}
	e, err := s.Community.CreateEvent(r.Context(), me.SubjectID, community.EventInput{
		Title:       body.Title,
		Description: body.Description,
		Location:    body.Location,
		DateTime:    body.DateTime,
		RSVP:        body.RSVP,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eventFromDomain(e))
}

func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	out, err := s.Community.ListEvents(r.Context(), communityrepo.EventFilter{
		TitleContains: queryString(r, "title"),
		OrganizerID:   domain.SubjectID(queryString(r, "organizer_id")),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(out, eventFromDomain))
}

func (s *Server) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	var body challengeRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if !ensureSelf(w, r, me, body.UserID) {
		return
	}
	c, err := s.Community.CreateChallenge(r.Context(), me.SubjectID, community.ChallengeInput{
		Title:         body.Title,
		Description:   body.Description,
		Frequency:     body.Frequency,
		PointsAwarded: body.PointsAwarded,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, challengeFromDomain(c))
}

func (s *Server) ListChallenges(w http.ResponseWriter, r *http.Request) {
	out, err := s.Community.ListChallenges(r.Context(), communityrepo.ChallengeFilter{
		TitleContains: queryString(r, "title"),
		UserID:        domain.SubjectID(queryString(r, "user_id")),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(out, challengeFromDomain))
}

func (s *Server) ListResources(w http.ResponseWriter, r *http.Request) {
	f := communityrepo.ResourceFilter{CategoryContains: queryString(r, "category")}
	if raw := queryParam(r, "posted_on"); raw != nil {
		var d openapi_types.Date
		if err := d.UnmarshalText([]byte(*raw)); err != nil {
			writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input data", map[string]any{
				"posted_on": "must be a date in YYYY-MM-DD format",
			})
			return
		}
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		f.PostedOn = &day
	}
	out, err := s.Community.ListResources(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(out, resourceFromDomain))
}

func (s *Server) CreatePartnership(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	var body partnershipRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if !ensureSelf(w, r, me, body.UserID) {
		return
	}
	p, err := s.Community.CreatePartnership(r.Context(), me.SubjectID, community.PartnershipInput{
		OrganizationName: body.OrganizationName,
		Description:      body.Description,
		WebsiteURL:       body.WebsiteURL,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, partnershipFromDomain(p))
}

func (s *Server) ListPartnerships(w http.ResponseWriter, r *http.Request) {
	out, err := s.Community.ListPartnerships(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(out, partnershipFromDomain))
}
