package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

const htmlContentType = "text/html; charset=utf-8"

// handlePreviewSession renders a stored session. ?templateId= overrides the
// stored template without saving it.
func (s *Server) handlePreviewSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromQuery(w, r, "Session ID is required")
	if !ok {
		return
	}

	var override *types.PresentationPatch
	if id := r.URL.Query().Get("templateId"); id != "" {
		override = &types.PresentationPatch{TemplateID: &id}
	}

	html, err := rendering.RenderDocument(sess.StructuredData, override)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.htmlResponse(w, html)
}

// handlePreviewDocument renders an unsaved document.
func (s *Server) handlePreviewDocument(w http.ResponseWriter, r *http.Request) {
	var req types.PreviewRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	html, err := rendering.RenderDocument(req.StructuredData, req.Presentation)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.htmlResponse(w, html)
}

func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromQuery(w, r, "Session ID is required")
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	out, err := s.deps.Exporter.PDF(ctx, export.Key(sess), sess.StructuredData)
	if err != nil {
		log.Printf("[export] PDF for session %s failed: %v", sess.ID, err)
		s.writeError(w, err)
		return
	}
	s.attachment(w, export.PDFContentType, export.PDFFileName, out)
}

func (s *Server) handleDownloadDOCX(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFromQuery(w, r, "Session ID is required")
	if !ok {
		return
	}

	out, err := s.deps.Exporter.DOCX(sess.StructuredData)
	if err != nil {
		log.Printf("[export] DOCX for session %s failed: %v", sess.ID, err)
		s.writeError(w, err)
		return
	}
	s.attachment(w, export.DOCXContentType, export.DOCXFileName, out)
}

func (s *Server) htmlResponse(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		log.Printf("[server] error writing preview: %v", err)
	}
}

func (s *Server) attachment(w http.ResponseWriter, contentType, fileName string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Printf("[server] error writing %s: %v", fileName, err)
	}
}
