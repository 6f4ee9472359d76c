package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/apperr"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

// ItemResponse is the body returned by the item edit routes.
type ItemResponse struct {
	ItemID  string         `json:"itemId,omitempty"`
	Session *types.Session `json:"session"`
}

// handleItem adds (POST), replaces (PUT) or removes (DELETE) one entry of a
// list section.
func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	var req types.SectionItemRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	edit := resume.ItemEdit{Section: req.Section, ID: req.ItemID, Item: req.Item}
	switch r.Method {
	case http.MethodPost:
		edit.Op = resume.OpAdd
	case http.MethodPut:
		edit.Op = resume.OpUpdate
	default:
		edit.Op = resume.OpRemove
	}
	if edit.Op != resume.OpAdd && edit.ID == "" {
		s.writeError(w, apperr.Validation("itemId is required"))
		return
	}
	if edit.Op != resume.OpRemove && len(edit.Item) == 0 {
		s.writeError(w, apperr.Validation("item is required"))
		return
	}

	var itemID string
	sess, err := s.deps.Sessions.Edit(r.Context(), req.SessionID, req.ExpectedVersion, func(ed *resume.Editor) error {
		id, err := ed.ApplyItem(edit)
		itemID = id
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	status := http.StatusOK
	if edit.Op == resume.OpAdd {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, ItemResponse{ItemID: itemID, Session: sess})
}

func (s *Server) handleReorderItems(w http.ResponseWriter, r *http.Request) {
	var req types.ReorderRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	sess, err := s.deps.Sessions.Edit(r.Context(), req.SessionID, req.ExpectedVersion, func(ed *resume.Editor) error {
		return ed.Reorder(req.Section, req.From, req.To)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess)
}

func (s *Server) handleUpdateSummary(w http.ResponseWriter, r *http.Request) {
	var req types.SummaryRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	sess, err := s.deps.Sessions.Edit(r.Context(), req.SessionID, req.ExpectedVersion, func(ed *resume.Editor) error {
		ed.UpdateSummary(req.Summary)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess)
}
