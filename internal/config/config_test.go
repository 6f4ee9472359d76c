package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/llm"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, int64(2), cfg.PDFConcurrency)
	assert.Equal(t, 60*time.Second, cfg.PDFTimeout)
	assert.Equal(t, 3, cfg.LLMRetryAttempts)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, 300, cfg.RateLimitDefaultLimit)
	assert.Equal(t, time.Hour, cfg.RateLimitAIWindow)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
port: 9090
database_url: sqlite:///tmp/resume.db
gemini_api_key: key-from-file
use_browser: true
pdf_concurrency: 4
pdf_timeout: 90s
rate_limit_whitelist: "127.0.0.1, 10.0.0.2"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "sqlite:///tmp/resume.db", cfg.DatabaseURL)
	assert.Equal(t, "key-from-file", cfg.GeminiAPIKey)
	assert.True(t, cfg.UseBrowser)
	assert.Equal(t, int64(4), cfg.PDFConcurrency)
	assert.Equal(t, 90*time.Second, cfg.PDFTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"port": 7000, "database_url": "memory://"}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "memory://", cfg.DatabaseURL)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "port: 9090\ndatabase_url: memory://\n")
	t.Setenv("PORT", "9191")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("RATE_LIMIT_AI_LIMIT", "5")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, "env-key", cfg.GeminiAPIKey)
	assert.Equal(t, 5, cfg.RateLimitAILimit)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "port: [unterminated")

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	cfg.DatabaseURL = "memory://"
	cfg.GeminiAPIKey = "key"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing database", func(c *Config) { c.DatabaseURL = "" }, "database_url"},
		{"missing api key", func(c *Config) { c.GeminiAPIKey = "" }, "gemini_api_key"},
		{"bad port", func(c *Config) { c.Port = 0 }, "port"},
		{"zero pdf concurrency", func(c *Config) { c.PDFConcurrency = 0 }, "pdf_concurrency"},
		{"zero retries", func(c *Config) { c.LLMRetryAttempts = 0 }, "llm_retry_attempts"},
		{"zero default limit", func(c *Config) { c.RateLimitDefaultLimit = 0 }, "default rate limit"},
		{"zero ai limit", func(c *Config) { c.RateLimitAILimit = -1 }, "AI rate limit"},
		{"limits ignored when disabled", func(c *Config) {
			c.RateLimitEnabled = false
			c.RateLimitAILimit = 0
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateOffline_AllowsMissingKey(t *testing.T) {
	cfg := validConfig(t)
	cfg.GeminiAPIKey = ""
	assert.NoError(t, cfg.ValidateOffline())
	assert.Error(t, cfg.Validate())
}

func TestBuilders(t *testing.T) {
	cfg := validConfig(t)
	cfg.LLMRetryAttempts = 5
	cfg.LLMRetryDelay = 2 * time.Second
	cfg.ChromePath = "/usr/bin/chromium"
	cfg.RateLimitBlacklist = "1.2.3.4"
	cfg.RateLimitAILimit = 30

	lc := cfg.LLMConfig()
	assert.Equal(t, 5, lc.MaxAttempts)
	assert.Equal(t, 2*time.Second, lc.RetryDelay)
	assert.NotEmpty(t, lc.GetModel(llm.TierStandard))

	pc := cfg.PageFetcher()
	assert.Equal(t, "/usr/bin/chromium", pc.ChromePath)
	assert.Equal(t, 10*time.Minute, pc.CacheTTL)

	rl := cfg.RateLimit()
	assert.True(t, rl.Blacklist["1.2.3.4"])
	require.NotEmpty(t, rl.EndpointConfigs)
	assert.Equal(t, 30, rl.EndpointConfigs[0].Limit)
	assert.Equal(t, 3, rl.EndpointConfigs[0].Burst)
}
