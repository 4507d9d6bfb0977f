package httpapi

import (
	"net/http"

	"github.com/eco7/eco7-api/internal/app/activity"
)

func (s *Server) RecordFootprint(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	var body footprintRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if !ensureSelf(w, r, me, body.UserID) {
		return
	}
	f, err := s.Activity.RecordFootprint(r.Context(), me.SubjectID, activity.FootprintInput{
		DailyActivities:     body.DailyActivities,
		CalculatedFootprint: body.CalculatedFootprint,
		ActivityBreakdown:   body.ActivityBreakdown,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, footprintFromDomain(f))
}

func (s *Server) ListFootprints(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	if !ensureSelf(w, r, me, queryParam(r, "user_id")) {
		return
	}
	out, err := s.Activity.ListFootprints(r.Context(), me.SubjectID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(out, footprintFromDomain))
}

func (s *Server) CreateWeeklyReport(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	var body weeklyReportRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if !ensureSelf(w, r, me, body.UserID) {
		return
	}
	rep, err := s.Activity.CreateWeeklyReport(r.Context(), me.SubjectID, activity.WeeklyReportInput{
		PerformanceSummary: body.PerformanceSummary,
		Suggestions:        body.Suggestions,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weeklyReportFromDomain(rep))
}

func (s *Server) ListWeeklyReports(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	if !ensureSelf(w, r, me, queryParam(r, "user_id")) {
		return
	}
	out, err := s.Activity.ListWeeklyReports(r.Context(), me.SubjectID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(out, weeklyReportFromDomain))
}

func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	me, ok := s.caller(w, r)
	if !ok {
		return
	}
	if !ensureSelf(w, r, me, queryParam(r, "user_id")) {
		return
	}
	out, err := s.Activity.ListNotifications(r.Context(), me.SubjectID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(out, notificationFromDomain))
}
