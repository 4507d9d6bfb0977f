package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eco7/eco7-api/internal/app/profiles"
	"github.com/eco7/eco7-api/internal/domain"
)

const patchProfileRoute = "PATCH /api/profiles/{profile_id}"

func (s *Server) UpsertMyProfile(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	var body upsertProfileRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if !ensureSelf(w, r, me, body.UserID) {
		return
	}
	p, err := s.Profiles.UpsertMyProfile(r.Context(), me.SubjectID, profiles.UpsertProfileInput{
		EcoGoals:           body.EcoGoals,
		ContentPreferences: body.ContentPreferences,
		ChallengeLevels:    body.ChallengeLevels,
		AvatarURL:          body.AvatarURL,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileFromDomain(p))
}

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.caller(w, r); !ok {
		return
	}
	p, err := s.Profiles.GetProfile(r.Context(), domain.ProfileID(chi.URLParam(r, "profile_id")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileFromDomain(p))
}

func (s *Server) PatchProfile(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	var body patchProfileRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if !ensureSelf(w, r, me, body.UserID) {
		return
	}
	profileID := chi.URLParam(r, "profile_id")

	bodyHash, err := hashPatchProfileBody(profileID, body)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	call, proceed := s.beginIdempotent(w, r, me.SubjectID, patchProfileRoute, bodyHash)
	if !proceed {
		return
	}

	p, err := s.Profiles.PatchProfile(r.Context(), me.SubjectID, domain.ProfileID(profileID), patchProfileInputFromRequest(body))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := profileFromDomain(p)
	s.finishIdempotent(r, call, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) GetMyDashboard(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	if !ensureSelf(w, r, me, queryParam(r, "user_id")) {
		return
	}
	d, err := s.Profiles.GetOrCreateMyDashboard(r.Context(), me.SubjectID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardFromDomain(d))
}
