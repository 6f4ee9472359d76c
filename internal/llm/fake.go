package llm

import (
	"context"
	"sync"
)

// FakeClient is a scriptable Client for tests. Responses are returned in
// order; once exhausted the last one repeats. Prompts are recorded.
type FakeClient struct {
	mu        sync.Mutex
	Responses []string
	Errors    []error
	Prompts   []string
	Tiers     []ModelTier
	calls     int
}

// NewFakeClient returns a fake answering with responses in order.
func NewFakeClient(responses ...string) *FakeClient {
	return &FakeClient{Responses: responses}
}

func (f *FakeClient) next(prompt string, tier ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls
	f.calls++
	f.Prompts = append(f.Prompts, prompt)
	f.Tiers = append(f.Tiers, tier)

	if i < len(f.Errors) && f.Errors[i] != nil {
		return "", f.Errors[i]
	}
	if len(f.Responses) == 0 {
		return "", nil
	}
	if i >= len(f.Responses) {
		i = len(f.Responses) - 1
	}
	return f.Responses[i], nil
}

// GenerateContent returns the next scripted response.
func (f *FakeClient) GenerateContent(_ context.Context, prompt string, tier ModelTier) (string, error) {
	return f.next(prompt, tier)
}

// GenerateJSON returns the next scripted response with fences removed.
func (f *FakeClient) GenerateJSON(_ context.Context, prompt string, tier ModelTier) (string, error) {
	out, err := f.next(prompt, tier)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(out), nil
}

// GetModel returns a fixed name.
func (f *FakeClient) GetModel(ModelTier) string { return "fake-model" }

// Close is a no-op.
func (f *FakeClient) Close() error { return nil }

// Calls returns how many generation calls were made.
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LastPrompt returns the most recent prompt, or "".
func (f *FakeClient) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Prompts) == 0 {
		return ""
	}
	return f.Prompts[len(f.Prompts)-1]
}
