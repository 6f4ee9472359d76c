package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/apperr"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// InsightsResponse is the body of GET /session/insights.
type InsightsResponse struct {
	SessionID         string            `json:"sessionId"`
	Version           int               `json:"version"`
	Validation        validation.Result `json:"validation"`
	CompletenessScore int               `json:"completenessScore"`
	ReviewStale       bool              `json:"reviewStale"`
}

// handleCreateSession creates a session. Manual sessions go through the
// manual intake path; other modes store the given document as is.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req types.CreateSessionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	var (
		sess *types.Session
		err  error
	)
	if req.Mode == types.ModeManual {
		sess, err = s.deps.Intake.Manual(r.Context(), req.StructuredData)
	} else {
		sess, err = s.deps.Sessions.Create(r.Context(), req.Mode, nil, req.StructuredData)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromQuery(w, r, "Missing sessionId")
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, sess)
}

// handleUpdateSession replaces structuredData. A positive expectedVersion
// turns on the version check.
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateSessionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	sess, err := s.deps.Sessions.ReplaceStructuredData(r.Context(), req.SessionID, req.StructuredData, req.ExpectedVersion)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess)
}

func (s *Server) handlePatchPresentation(w http.ResponseWriter, r *http.Request) {
	var req types.PresentationRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	sess, err := s.deps.Sessions.PatchPresentation(r.Context(), req.SessionID, req.Presentation)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess)
}

// handleSessionInsights reports advisory validation, the completeness score
// and whether the stored review predates the last edit.
func (s *Server) handleSessionInsights(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromQuery(w, r, "Missing sessionId")
	if !ok {
		return
	}

	data := resume.Normalize(sess.StructuredData)
	s.jsonResponse(w, http.StatusOK, InsightsResponse{
		SessionID:         sess.ID.String(),
		Version:           sess.Version,
		Validation:        validation.ValidateResumeData(data),
		CompletenessScore: validation.CalculateCompletenessScore(resume.ScoringView(sess.StructuredData)),
		ReviewStale:       session.IsReviewStale(sess),
	})
}

// sessionFromQuery loads the session named by ?sessionId=. On failure the
// error response is already written.
func (s *Server) sessionFromQuery(w http.ResponseWriter, r *http.Request, missing string) (*types.Session, bool) {
	id := r.URL.Query().Get("sessionId")
	if id == "" {
		s.writeError(w, apperr.Validation(missing))
		return nil, false
	}
	sess, err := s.deps.Sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}
