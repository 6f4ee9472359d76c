// Package rewriting provides the stateless AI helpers that polish resume
// copy and critique a whole resume.
package rewriting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/apperr"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// Default instructions used when the caller supplies none.
const (
	DefaultExperienceInstruction = "Make them result-oriented and quantifiable."
	DefaultSummaryInstruction    = "Improve clarity and impact."
	DefaultGenericInstruction    = "Improve professional tone."
)

// MaxSkillsInputLength caps the serialized document sent for skill suggestions.
const MaxSkillsInputLength = 3000

// Failure messages shown to callers.
const (
	GenerationFailed = "AI generation failed"
	ReviewFailed     = "Failed to generate review"
	NoReviewData     = "No resume data found to review"
)

// Service wraps an llm.Client with the rewrite and review prompts.
type Service struct {
	llm llm.Client
}

// New creates a rewriting service.
func New(client llm.Client) *Service {
	return &Service{llm: client}
}

// RewriteExperience returns improved versions of bullets. Weak results are
// logged, not rejected.
func (s *Service) RewriteExperience(ctx context.Context, jobDescription string, bullets []string, instruction string) ([]string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		jobDescription = "N/A"
	}
	prompt := prompts.Render(prompts.RewriteFile, "experience", map[string]string{
		"JobDescription": jobDescription,
		"Bullets":        strings.Join(bullets, "\n"),
		"Instruction":    orDefault(instruction, DefaultExperienceInstruction),
	})

	obj, err := s.generateObject(ctx, prompt, llm.TierStandard, schemas.Bullets)
	if err != nil {
		return nil, err
	}
	out := stringSlice(obj["bullets"])
	logWeakBullets(bullets, out)
	return out, nil
}

// WriteSummary rewrites a professional summary.
func (s *Service) WriteSummary(ctx context.Context, current, instruction string) (string, error) {
	prompt := prompts.Render(prompts.RewriteFile, "summary", map[string]string{
		"CurrentSummary": current,
		"Instruction":    orDefault(instruction, DefaultSummaryInstruction),
	})
	out, err := s.generateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	if found := FindCliches(out, DefaultCliches); len(found) > 0 {
		log.Printf("[rewrite] summary still contains filler: %s", strings.Join(found, ", "))
	}
	return out, nil
}

// RewriteGeneric rewrites an arbitrary piece of resume text.
func (s *Service) RewriteGeneric(ctx context.Context, text, instruction string) (string, error) {
	prompt := prompts.Render(prompts.RewriteFile, "generic", map[string]string{
		"Text":        text,
		"Instruction": orDefault(instruction, DefaultGenericInstruction),
	})
	return s.generateText(ctx, prompt)
}

// GenerateSkills suggests skills for a resume document. Only the first
// MaxSkillsInputLength characters of the serialized document are sent.
func (s *Service) GenerateSkills(ctx context.Context, doc types.Document) ([]string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize resume data: %w", err)
	}
	prompt := prompts.Render(prompts.RewriteFile, "skills", map[string]string{
		"ResumeData": truncateRunes(string(raw), MaxSkillsInputLength),
	})

	obj, err := s.generateObject(ctx, prompt, llm.TierLite, schemas.Skills)
	if err != nil {
		return nil, err
	}
	return stringSlice(obj["skills"]), nil
}

// ReviewResume critiques doc. The result is strictly checked against the
// review schema; CreatedAt is left for the caller to stamp.
func (s *Service) ReviewResume(ctx context.Context, doc types.Document) (types.Review, error) {
	if len(doc) == 0 {
		return types.Review{}, apperr.Validation(NoReviewData)
	}
	input := doc.Clone()
	delete(input, "review")
	pretty, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return types.Review{}, fmt.Errorf("failed to serialize resume data: %w", err)
	}

	description := prompts.Render(prompts.ReviewFile, "review", nil)
	prompt := llm.BuildExtractionPrompt(llm.ReviewSchema(description), string(pretty))

	obj, err := s.generateObjectFailing(ctx, prompt, llm.TierAdvanced, schemas.Review, ReviewFailed)
	if err != nil {
		return types.Review{}, err
	}

	score, _ := obj["overallScore"].(float64)
	return types.Review{
		OverallScore:  int(math.Round(score)),
		SummaryRating: strings.TrimSpace(fmt.Sprint(obj["summaryRating"])),
		Strengths:     stringSlice(obj["strengths"]),
		WeakAreas:     stringSlice(obj["weakAreas"]),
		QuickTips:     stringSlice(obj["quickTips"]),
	}, nil
}

func (s *Service) generateText(ctx context.Context, prompt string) (string, error) {
	out, err := s.llm.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", &apperr.AIError{Message: GenerationFailed, Cause: err}
	}
	out = strings.Trim(strings.TrimSpace(out), `"`)
	if out == "" {
		return "", &apperr.AIError{Message: GenerationFailed, Cause: errors.New("empty response")}
	}
	return out, nil
}

func (s *Service) generateObject(ctx context.Context, prompt string, tier llm.ModelTier, schema string) (map[string]any, error) {
	return s.generateObjectFailing(ctx, prompt, tier, schema, GenerationFailed)
}

// generateObjectFailing runs a JSON-mode call whose result must satisfy schema.
func (s *Service) generateObjectFailing(ctx context.Context, prompt string, tier llm.ModelTier, schema, failure string) (map[string]any, error) {
	raw, err := s.llm.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return nil, &apperr.AIError{Message: failure, Cause: err}
	}
	obj, err := llm.ParseObject(raw)
	if err != nil {
		return nil, &apperr.AIError{Message: failure, Cause: err}
	}
	if err := schemas.Validate(schema, obj); err != nil {
		return nil, &apperr.AIError{Message: failure, Cause: err}
	}
	return obj, nil
}

// logWeakBullets reports rewritten bullets that fail the style heuristics.
func logWeakBullets(originals, rewritten []string) {
	weak := 0
	for i, b := range rewritten {
		original := 0
		if i < len(originals) {
			original = len(strings.TrimSpace(originals[i]))
		}
		if !ValidateStyle(b, nil, original).Passed() {
			weak++
		}
	}
	if weak > 0 {
		log.Printf("[rewrite] %d/%d rewritten bullets failed style checks", weak, len(rewritten))
	}
}

func stringSlice(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
