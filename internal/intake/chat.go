package intake

import (
	"context"
	"errors"
	"strings"

	"github.com/jonathan/resume-builder/internal/apperr"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/prompts"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

// ChatTurn is the interviewer's reply to the conversation so far.
type ChatTurn struct {
	Finished bool   `json:"finished"`
	Message  string `json:"message"`
}

// NextQuestion asks the interviewer model for its next question, or for
// the signal that enough has been collected.
func (s *Service) NextQuestion(ctx context.Context, messages []types.ChatMessage) (*ChatTurn, error) {
	if len(messages) == 0 {
		return nil, apperr.Validation("Messages are required")
	}

	prompt := prompts.Render(prompts.ChatFile, "interview", map[string]string{
		"Transcript": transcript(messages),
	})
	raw, err := s.llm.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &apperr.AIError{Message: "Chat failed", Cause: err}
	}
	obj, err := llm.ParseObject(raw)
	if err != nil {
		return nil, &apperr.AIError{Message: "Chat failed", Cause: err}
	}
	if err := schemas.Validate(schemas.ChatTurn, obj); err != nil {
		return nil, &apperr.AIError{Message: "Chat failed", Cause: err}
	}

	turn := &ChatTurn{}
	turn.Finished, _ = obj["finished"].(bool)
	turn.Message, _ = obj["message"].(string)
	turn.Message = strings.TrimSpace(turn.Message)
	if !turn.Finished && turn.Message == "" {
		return nil, &apperr.AIError{Message: "Chat failed", Cause: errors.New("interviewer returned no question")}
	}
	return turn, nil
}

// FromConversation structures a finished interview into a session.
func (s *Service) FromConversation(ctx context.Context, messages []types.ChatMessage) (*types.Session, error) {
	if len(messages) == 0 {
		return nil, apperr.Validation("Messages are required")
	}

	doc, err := s.structure(ctx, "chatbot", nil, transcript(messages), "Failed to build resume")
	if err != nil {
		return nil, err
	}

	stored := make([]any, 0, len(messages))
	for _, m := range messages {
		stored = append(stored, map[string]any{"role": m.Role, "content": m.Content})
	}
	return s.sessions.Create(ctx, types.ModeChatbot, types.Document{"messages": stored}, doc)
}
