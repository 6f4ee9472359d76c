package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

// ResultResponse wraps the output of a stateless rewrite.
type ResultResponse[T any] struct {
	Result T `json:"result"`
}

// SessionIDResponse is returned by every intake route.
type SessionIDResponse struct {
	SessionID string `json:"sessionId"`
}

// handleChat returns the interviewer's next turn.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	turn, err := s.deps.Intake.NextQuestion(ctx, req.Messages)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, turn)
}

func (s *Server) handleBuildFromQA(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	sess, err := s.deps.Intake.FromConversation(ctx, req.Messages)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SessionIDResponse{SessionID: sess.ID.String()})
}

func (s *Server) handleExperienceRewrite(w http.ResponseWriter, r *http.Request) {
	var req types.ExperienceRewriteRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	bullets, err := s.deps.Rewriter.RewriteExperience(ctx, req.JobDescription, req.Bullets, req.Instruction)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ResultResponse[[]string]{Result: bullets})
}

// handleSummaryWrite accepts an empty current summary; the model then
// drafts one from scratch.
func (s *Server) handleSummaryWrite(w http.ResponseWriter, r *http.Request) {
	var req types.SummaryWriteRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	summary, err := s.deps.Rewriter.WriteSummary(ctx, req.CurrentSummary, req.Instruction)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ResultResponse[string]{Result: summary})
}

func (s *Server) handleGenericRewrite(w http.ResponseWriter, r *http.Request) {
	var req types.GenericRewriteRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	text, err := s.deps.Rewriter.RewriteGeneric(ctx, req.Text, req.Instruction)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ResultResponse[string]{Result: text})
}

func (s *Server) handleGenerateSkills(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateSkillsRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	skills, err := s.deps.Rewriter.GenerateSkills(ctx, req.StructuredData)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ResultResponse[[]string]{Result: skills})
}

// handleReviewResume reviews the stored document and persists the review
// under structuredData.review. The response is the review as stored.
func (s *Server) handleReviewResume(w http.ResponseWriter, r *http.Request) {
	var req types.ReviewRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	sess, err := s.deps.Sessions.Get(ctx, req.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	review, err := s.deps.Rewriter.ReviewResume(ctx, sess.StructuredData)
	if err != nil {
		s.writeError(w, err)
		return
	}
	updated, err := s.deps.Sessions.PatchReview(ctx, req.SessionID, review)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if stored := resume.ParseReview(updated.StructuredData.Object("review")); stored != nil {
		review = *stored
	}
	s.jsonResponse(w, http.StatusOK, review)
}
