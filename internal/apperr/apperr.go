// Package apperr defines the error taxonomy shared by every HTTP boundary.
// Each error type maps to one status code and one machine-readable code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in API error bodies.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNetwork    = "NETWORK_ERROR"
	CodeAI         = "AI_ERROR"
	CodeSession    = "SESSION_ERROR"
	CodeConflict   = "CONFLICT_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

// InternalMessage is the message shown for errors outside the taxonomy.
const InternalMessage = "An unexpected error occurred"

// ValidationError indicates bad or missing request fields.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NetworkError indicates an external fetch or service was unreachable.
type NetworkError struct {
	Message string
	Cause   error
}

func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("network error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("network error: %s", e.Message)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// AIError indicates the language model call failed or returned unusable output.
type AIError struct {
	Message string
	Cause   error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ai error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("ai error: %s", e.Message)
}

func (e *AIError) Unwrap() error {
	return e.Cause
}

// SessionError indicates an unknown session id.
type SessionError struct {
	SessionID string
	Message   string
}

func (e *SessionError) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("session error: %s (id=%s)", e.Message, e.SessionID)
	}
	return fmt.Sprintf("session error: %s", e.Message)
}

// ConflictError indicates a write was rejected because the stored version moved.
type ConflictError struct {
	SessionID       string
	ExpectedVersion int
	ActualVersion   int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session %s was modified: expected version %d, found %d",
		e.SessionID, e.ExpectedVersion, e.ActualVersion)
}

// Validation is shorthand for a ValidationError without a cause.
func Validation(msg string) error {
	return &ValidationError{Message: msg}
}

// SessionNotFound returns the error used for every unknown session lookup.
func SessionNotFound(id string) error {
	return &SessionError{SessionID: id, Message: "Session not found"}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		ne *NetworkError
		ae *AIError
		se *SessionError
		ce *ConflictError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &se):
		return http.StatusNotFound
	case errors.As(err, &ce):
		return http.StatusConflict
	case errors.As(err, &ne):
		return http.StatusServiceUnavailable
	case errors.As(err, &ae):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the machine-readable code for an error.
func Code(err error) string {
	var (
		ve *ValidationError
		ne *NetworkError
		ae *AIError
		se *SessionError
		ce *ConflictError
	)
	switch {
	case errors.As(err, &ve):
		return CodeValidation
	case errors.As(err, &se):
		return CodeSession
	case errors.As(err, &ce):
		return CodeConflict
	case errors.As(err, &ne):
		return CodeNetwork
	case errors.As(err, &ae):
		return CodeAI
	default:
		return CodeInternal
	}
}

// UserMessage returns the message safe to show a caller. Errors outside the
// taxonomy never leak their text.
func UserMessage(err error) string {
	var (
		ve *ValidationError
		ne *NetworkError
		ae *AIError
		se *SessionError
		ce *ConflictError
	)
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &se):
		return se.Message
	case errors.As(err, &ce):
		return "Session was modified by another request"
	case errors.As(err, &ne):
		return ne.Message
	case errors.As(err, &ae):
		return ae.Message
	default:
		return InternalMessage
	}
}
