package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/jonathan/resume-builder/internal/apperr"
	"github.com/jonathan/resume-builder/internal/extract"
	"github.com/jonathan/resume-builder/internal/intake"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// multipartMemory is how much of an upload is held in memory before the
// multipart reader spills to disk.
const multipartMemory = 8 << 20

func (s *Server) handleGenerateFromPrompt(w http.ResponseWriter, r *http.Request) {
	var req types.PromptRequest
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

	sess, err := s.deps.Intake.FromPrompt(ctx, req.Prompt)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SessionIDResponse{SessionID: sess.ID.String()})
}

func (s *Server) handleLinkedInImport(w http.ResponseWriter, r *http.Request) {
	var req types.LinkedInRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	// URL checks, including the empty case, live in the intake adapter.
	sess, err := s.deps.Intake.FromLinkedIn(ctx, req.URL)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SessionIDResponse{SessionID: sess.ID.String()})
}

// handleUploadResume accepts a multipart "file" field. Size and type are
// checked before the contents are read.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.opts.MaxUploadBytes {
		s.writeError(w, apperr.Validation("File size exceeds 5MB limit"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, &apperr.ValidationError{Message: "File size exceeds 5MB limit", Cause: err})
			return
		}
		s.writeError(w, &apperr.ValidationError{Message: "File is required", Cause: err})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, &apperr.ValidationError{Message: "File is required", Cause: err})
		return
	}
	defer func() { _ = file.Close() }()

	mimeType := uploadMIMEType(header.Header.Get("Content-Type"), header.Filename)
	check := validation.ValidateFileUpload(header.Size, mimeType)
	if !check.IsValid {
		s.writeError(w, apperr.Validation(check.FirstError()))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, &apperr.ValidationError{Message: "Could not read uploaded file", Cause: err})
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	sess, err := s.deps.Intake.FromUpload(ctx, intake.Upload{
		Data:     data,
		Size:     header.Size,
		MIMEType: mimeType,
		FileName: filepath.Base(header.Filename),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SessionIDResponse{SessionID: sess.ID.String()})
}

// uploadMIMEType trusts the part's declared type when it is one we accept,
// and otherwise falls back to the file extension. Browsers often send
// application/octet-stream for DOCX.
func uploadMIMEType(declared, fileName string) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && validation.IsAllowedUploadType(mediaType) {
		return mediaType
	}
	if byExt, err := extract.MIMEFromExt(fileName); err == nil {
		return byExt
	}
	return declared
}
