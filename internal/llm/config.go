// Package llm wraps the text-generation provider behind a small interface
// so intake, rewriting and review code can be tested with a fake.
package llm

import "time"

// ModelTier selects a model by how much reasoning a call needs.
type ModelTier string

const (
	// TierLite handles short rewrites and chat turns.
	TierLite ModelTier = "lite"
	// TierStandard handles structured extraction into resume documents.
	TierStandard ModelTier = "standard"
	// TierAdvanced handles whole-resume review.
	TierAdvanced ModelTier = "advanced"
)

// Provider names a text-generation backend.
type Provider string

// ProviderGemini is the Google Gemini provider, the only one implemented.
const ProviderGemini Provider = "gemini"

// Config holds the provider, per-tier model names and retry policy.
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32

	// MaxAttempts and RetryDelay drive RetryingClient. Attempt n waits
	// RetryDelay*n before retrying.
	MaxAttempts int
	RetryDelay  time.Duration
}

// DefaultConfig returns the Gemini configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.1,
		MaxAttempts: 3,
		RetryDelay:  time.Second,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	for _, fallback := range []ModelTier{TierStandard, TierLite} {
		if model, ok := c.Models[fallback]; ok && model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c with tier mapped to model.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return &out
}
