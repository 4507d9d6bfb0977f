package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eco7/eco7-api/internal/app/authn"
	"github.com/eco7/eco7-api/internal/domain"
)

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	sess, err := s.Auth.Register(r.Context(), authn.RegisterInput{
		Email:       body.Email,
		Secret:      secretFrom(body.Password, body.PasswordHash),
		DisplayName: body.Name,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionFromApp(sess))
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	sess, err := s.Auth.Login(r.Context(), authn.LoginInput{
		Email:  body.Email,
		Secret: secretFrom(body.Password, body.PasswordHash),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionFromApp(sess))
}

func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		SubjectID: string(me.SubjectID),
		Email:     me.Email,
		Name:      me.DisplayName,
		CreatedAt: me.CreatedAt,
	})
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := s.Auth.GetIdentity(r.Context(), domain.SubjectID(chi.URLParam(r, "user_id")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userFromDomain(id))
}
