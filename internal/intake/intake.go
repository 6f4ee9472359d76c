// Package intake turns raw career information from each entry path into a
// structured resume session.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-builder/internal/apperr"
	"github.com/jonathan/resume-builder/internal/extract"
	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

// Limits applied to external content before it reaches the model.
const (
	MaxProfileTextLength = 10000
	MaxStoredHTMLLength  = 1000
	MaxUploadTextLength  = 20000
)

// SessionCreator persists a new session.
type SessionCreator interface {
	Create(ctx context.Context, mode types.Mode, rawData, initial types.Document) (*types.Session, error)
}

// PageFetcher retrieves a public profile page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Page, error)
}

// Service runs the intake adapters.
type Service struct {
	llm      llm.Client
	sessions SessionCreator
	pages    PageFetcher
	extract  func(ctx context.Context, data []byte, mimeType, fileName string) (string, error)
}

// New creates an intake service.
func New(client llm.Client, sessions SessionCreator, pages PageFetcher) *Service {
	return &Service{
		llm:      client,
		sessions: sessions,
		pages:    pages,
		extract:  extract.FromBytes,
	}
}

// Upload is a received resume file.
type Upload struct {
	Data     []byte
	Size     int64
	MIMEType string
	FileName string
}

// Manual creates a session from a document the user typed in. No model
// call is made.
func (s *Service) Manual(ctx context.Context, doc types.Document) (*types.Session, error) {
	return s.sessions.Create(ctx, types.ModeManual, nil, doc)
}

// FromUpload validates and extracts an uploaded file, then structures it.
func (s *Service) FromUpload(ctx context.Context, up Upload) (*types.Session, error) {
	check := validation.ValidateFileUpload(up.Size, up.MIMEType)
	if !check.IsValid {
		return nil, apperr.Validation(check.FirstError())
	}
	for _, w := range check.Warnings {
		log.Printf("[intake] upload %q: %s", up.FileName, w)
	}

	text, err := s.extract(ctx, up.Data, up.MIMEType, up.FileName)
	if err != nil {
		var unsupported *extract.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			return nil, &apperr.ValidationError{Message: "File type must be PDF or DOCX", Cause: err}
		}
		if errors.Is(err, extract.ErrTooLarge) {
			return nil, &apperr.ValidationError{Message: "File content is too large to process", Cause: err}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &apperr.ValidationError{Message: "Could not extract text from file", Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("Could not extract text from file")
	}
	text = fetch.Truncate(text, MaxUploadTextLength)

	input := "Resume Text:\n" + validation.ScreenExternalContent("upload "+up.FileName, "resume text", text)
	doc, err := s.structure(ctx, "upload", nil, input, "Failed to upload resume")
	if err != nil {
		return nil, err
	}
	raw := types.Document{"text": text}
	if up.FileName != "" {
		raw["fileName"] = up.FileName
	}
	return s.sessions.Create(ctx, types.ModeUpload, raw, doc)
}

// FromPrompt structures a free-text career description.
func (s *Service) FromPrompt(ctx context.Context, prompt string) (*types.Session, error) {
	check := validation.ValidatePrompt(prompt)
	if !check.IsValid {
		return nil, apperr.Validation(check.FirstError())
	}
	for _, w := range check.Warnings {
		log.Printf("[intake] prompt: %s", w)
	}

	doc, err := s.structure(ctx, "prompt", nil, prompt, "Failed to generate resume")
	if err != nil {
		return nil, err
	}
	return s.sessions.Create(ctx, types.ModePrompt, types.Document{"prompt": prompt}, doc)
}

// FromLinkedIn fetches a public profile and structures it. A failed fetch
// is reported as a network error; no placeholder content is substituted.
func (s *Service) FromLinkedIn(ctx context.Context, profileURL string) (*types.Session, error) {
	profileURL = strings.TrimSpace(profileURL)
	check := validation.ValidateLinkedInURL(profileURL)
	if !check.IsValid {
		return nil, apperr.Validation(check.FirstError())
	}

	page, err := s.pages.Fetch(ctx, profileURL)
	if err != nil {
		log.Printf("[intake] linkedin fetch failed for %s: %v", profileURL, err)
		return nil, &apperr.NetworkError{Message: "Could not access LinkedIn profile", Cause: err}
	}

	content := profileContent(page)
	if content == "" {
		return nil, &apperr.NetworkError{Message: "LinkedIn profile returned no readable content"}
	}

	input := "Profile Text:\n" + validation.ScreenExternalContent(profileURL, "profile text", content)
	doc, err := s.structure(ctx, "linkedin", map[string]string{"URL": profileURL}, input, "Failed to import from LinkedIn")
	if err != nil {
		return nil, err
	}
	raw := types.Document{
		"url":  profileURL,
		"html": fetch.Truncate(page.HTML, MaxStoredHTMLLength),
	}
	return s.sessions.Create(ctx, types.ModeLinkedIn, raw, doc)
}

// profileContent prefers the page's structured Person block, then its
// markdown, then plain text. The result is capped at MaxProfileTextLength.
func profileContent(page *fetch.Page) string {
	var parts []string
	if page.JSONLD != "" {
		parts = append(parts, "Structured profile data:\n"+page.JSONLD)
	}
	switch {
	case strings.TrimSpace(page.Markdown) != "":
		parts = append(parts, page.Markdown)
	case strings.TrimSpace(page.Text) != "":
		parts = append(parts, page.Text)
	}
	return fetch.Truncate(strings.TrimSpace(strings.Join(parts, "\n\n")), MaxProfileTextLength)
}

// structure asks the model for a resume document. The output must decode
// to a single object; schema drift is logged and tolerated.
func (s *Service) structure(ctx context.Context, mode string, data map[string]string, input, failure string) (types.Document, error) {
	description := prompts.Render(prompts.IntakeFile, mode, data)
	prompt := llm.BuildExtractionPrompt(llm.ResumeDocumentSchema(description), input)

	raw, err := s.llm.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &apperr.AIError{Message: failure, Cause: err}
	}
	obj, err := llm.ParseObject(raw)
	if err != nil {
		return nil, &apperr.AIError{Message: failure, Cause: err}
	}

	if err := schemas.Validate(schemas.ResumeDocument, obj); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			log.Printf("[intake] %s output drifted from resume schema: %s", mode, strings.Join(ve.Fields(), "; "))
		} else {
			log.Printf("[intake] resume schema check skipped: %v", err)
		}
	}
	return types.Document(obj), nil
}

// transcript renders chat messages one per line as "role: content".
func transcript(messages []types.ChatMessage) string {
	var sb strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&sb, "%s: %s\n", m.Role, strings.TrimSpace(m.Content))
	}
	return strings.TrimRight(sb.String(), "\n")
}
