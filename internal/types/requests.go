package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/apperr"
)

var validate = validator.New()

// CreateSessionRequest is the body of POST /session.
type CreateSessionRequest struct {
	Mode           Mode     `json:"mode" validate:"required,oneof=manual upload prompt linkedin chatbot"`
	StructuredData Document `json:"structuredData,omitempty"`
}

// UpdateSessionRequest is the body of PATCH /session. ExpectedVersion is
// optional; zero skips the version check.
type UpdateSessionRequest struct {
	SessionID       string   `json:"sessionId" validate:"required,uuid"`
	StructuredData  Document `json:"structuredData" validate:"required"`
	ExpectedVersion int      `json:"expectedVersion,omitempty" validate:"min=0"`
}

// PresentationRequest is the body of PATCH /session/presentation.
type PresentationRequest struct {
	SessionID    string             `json:"sessionId" validate:"required,uuid"`
	Presentation *PresentationPatch `json:"presentation" validate:"required"`
}

// SectionItemRequest is the body of POST, PUT and DELETE /session/items.
// ItemID names the entry for updates and removals; Item is the entry body
// for additions and updates.
type SectionItemRequest struct {
	SessionID       string          `json:"sessionId" validate:"required,uuid"`
	Section         string          `json:"section" validate:"required,oneof=experience education skills links customSections"`
	ItemID          string          `json:"itemId,omitempty"`
	Item            json.RawMessage `json:"item,omitempty"`
	ExpectedVersion int             `json:"expectedVersion,omitempty" validate:"min=0"`
}

// ReorderRequest is the body of POST /session/items/reorder.
type ReorderRequest struct {
	SessionID       string `json:"sessionId" validate:"required,uuid"`
	Section         string `json:"section" validate:"required,oneof=experience education"`
	From            int    `json:"from" validate:"min=0"`
	To              int    `json:"to" validate:"min=0"`
	ExpectedVersion int    `json:"expectedVersion,omitempty" validate:"min=0"`
}

// SummaryRequest is the body of PUT /session/summary.
type SummaryRequest struct {
	SessionID       string `json:"sessionId" validate:"required,uuid"`
	Summary         string `json:"summary"`
	ExpectedVersion int    `json:"expectedVersion,omitempty" validate:"min=0"`
}

// ChatMessage is one turn of a guided interview.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

// ChatRequest is the body of /ai/chat and /ai/buildResumeFromQA.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

// PromptRequest is the body of /generateFromPrompt.
type PromptRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// LinkedInRequest is the body of /linkedinImport.
type LinkedInRequest struct {
	URL string `json:"url" validate:"required"`
}

// ExperienceRewriteRequest is the body of /ai/experienceRewrite.
type ExperienceRewriteRequest struct {
	JobDescription string   `json:"jobDescription"`
	Bullets        []string `json:"bullets" validate:"required,min=1"`
	Instruction    string   `json:"instruction,omitempty"`
}

// SummaryWriteRequest is the body of /ai/summaryWrite.
type SummaryWriteRequest struct {
	CurrentSummary string `json:"currentSummary"`
	Instruction    string `json:"instruction,omitempty"`
}

// GenericRewriteRequest is the body of /ai/genericRewrite.
type GenericRewriteRequest struct {
	Text        string `json:"text" validate:"required"`
	Instruction string `json:"instruction,omitempty"`
}

// GenerateSkillsRequest is the body of /ai/generateSkills.
type GenerateSkillsRequest struct {
	StructuredData Document `json:"structuredData" validate:"required"`
}

// ReviewRequest is the body of /ai/reviewResume.
type ReviewRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// PreviewRequest is the body of POST /preview.
type PreviewRequest struct {
	StructuredData Document           `json:"structuredData" validate:"required"`
	Presentation   *PresentationPatch `json:"presentation,omitempty"`
}

// Validate validates the CreateSessionRequest using the validator.
func (r *CreateSessionRequest) Validate() error {
	if r.Mode == "" {
		return apperr.Validation("Mode is required")
	}
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "Mode must be one of manual, upload, prompt, linkedin, chatbot", Cause: err}
	}
	return nil
}

// Validate validates the UpdateSessionRequest using the validator.
func (r *UpdateSessionRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "Missing sessionId or structuredData", Cause: err}
	}
	return nil
}

// Validate validates the PresentationRequest using the validator.
func (r *PresentationRequest) Validate() error {
	if r.SessionID == "" || r.Presentation == nil {
		return apperr.Validation("Missing sessionId or presentation data")
	}
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "Invalid presentation settings", Cause: err}
	}
	return nil
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "Messages are required", Cause: err}
	}
	return nil
}

// Validate validates the PromptRequest using the validator.
func (r *PromptRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "Prompt is required", Cause: err}
	}
	return nil
}

// Validate validates the LinkedInRequest using the validator.
func (r *LinkedInRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "URL is required", Cause: err}
	}
	return nil
}

// Validate validates the ExperienceRewriteRequest using the validator.
func (r *ExperienceRewriteRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "Bullets are required", Cause: err}
	}
	return nil
}

// Validate validates the GenericRewriteRequest using the validator.
func (r *GenericRewriteRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "Text is required", Cause: err}
	}
	return nil
}

// Validate validates the GenerateSkillsRequest using the validator.
func (r *GenerateSkillsRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "structuredData is required", Cause: err}
	}
	return nil
}

// Validate validates the ReviewRequest using the validator.
func (r *ReviewRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "Session ID is required", Cause: err}
	}
	return nil
}

// Validate validates the PreviewRequest using the validator.
func (r *PreviewRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "structuredData is required", Cause: err}
	}
	return nil
}

// Validate validates the SectionItemRequest using the validator. Item
// presence is checked by the handler, since it depends on the method.
func (r *SectionItemRequest) Validate() error {
	if r.SessionID == "" {
		return apperr.Validation("Missing sessionId")
	}
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "Section must be one of experience, education, skills, links, customSections", Cause: err}
	}
	return nil
}

// Validate validates the ReorderRequest using the validator.
func (r *ReorderRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "Reorder needs sessionId, a section of experience or education and non-negative indexes", Cause: err}
	}
	return nil
}

// Validate validates the SummaryRequest using the validator.
func (r *SummaryRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: "Missing sessionId", Cause: err}
	}
	return nil
}
