package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/resume-builder/internal/apperr"
)

// CodeRateLimited is the code of a 429 response.
const CodeRateLimited = "RATE_LIMITED"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	StatusCode int    `json:"statusCode"`
}

// NewErrorResponse maps err onto the taxonomy. Errors outside it report
// 500 with a generic message.
func NewErrorResponse(err error) ErrorResponse {
	if errors.Is(err, context.DeadlineExceeded) {
		err = &apperr.AIError{Message: "Request timed out", Cause: err}
	}
	return ErrorResponse{
		Error:      apperr.UserMessage(err),
		Code:       apperr.Code(err),
		StatusCode: apperr.HTTPStatus(err),
	}
}

// writeError logs err and writes its mapped response.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := NewErrorResponse(err)
	if resp.StatusCode >= http.StatusInternalServerError {
		log.Printf("[server] %s: %v", resp.Code, err)
	}
	s.jsonResponse(w, resp.StatusCode, resp)
}

// decodeJSON reads a bounded JSON body into v.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return &apperr.ValidationError{Message: "Request body is too large", Cause: err}
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required")
		default:
			return &apperr.ValidationError{Message: "Invalid JSON body", Cause: err}
		}
	}
	return nil
}
