// Package config loads service configuration from defaults, an optional
// YAML or JSON file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
)

// Config represents the service configuration. Every key can be set in the
// config file or through the upper-cased environment variable of the same
// name (database_url -> DATABASE_URL).
type Config struct {
	// Server
	Port           int           `mapstructure:"port"`
	DatabaseURL    string        `mapstructure:"database_url"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// Model
	GeminiAPIKey     string        `mapstructure:"gemini_api_key"`
	LLMRetryAttempts int           `mapstructure:"llm_retry_attempts"`
	LLMRetryDelay    time.Duration `mapstructure:"llm_retry_delay"`

	// Fetching and printing
	UseBrowser     bool          `mapstructure:"use_browser"`
	ChromePath     string        `mapstructure:"chrome_path"`
	BrowserTimeout time.Duration `mapstructure:"browser_timeout"`
	FetchCacheTTL  time.Duration `mapstructure:"fetch_cache_ttl"`
	PDFConcurrency int64         `mapstructure:"pdf_concurrency"`
	PDFTimeout     time.Duration `mapstructure:"pdf_timeout"`

	// Rate limiting
	RateLimitEnabled         bool          `mapstructure:"rate_limit_enabled"`
	RateLimitDefaultLimit    int           `mapstructure:"rate_limit_default_limit"`
	RateLimitDefaultWindow   time.Duration `mapstructure:"rate_limit_default_window"`
	RateLimitCleanupInterval time.Duration `mapstructure:"rate_limit_cleanup_interval"`
	RateLimitWhitelist       string        `mapstructure:"rate_limit_whitelist"` // comma-separated client ids
	RateLimitBlacklist       string        `mapstructure:"rate_limit_blacklist"`
	RateLimitAILimit         int           `mapstructure:"rate_limit_ai_limit"`
	RateLimitAIWindow        time.Duration `mapstructure:"rate_limit_ai_window"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("database_url", "")
	v.SetDefault("max_upload_bytes", 10<<20)
	v.SetDefault("request_timeout", 2*time.Minute)

	v.SetDefault("gemini_api_key", "")
	v.SetDefault("llm_retry_attempts", 3)
	v.SetDefault("llm_retry_delay", time.Second)

	v.SetDefault("use_browser", false)
	v.SetDefault("chrome_path", "")
	v.SetDefault("browser_timeout", fetch.DefaultTimeout)
	v.SetDefault("fetch_cache_ttl", 10*time.Minute)
	v.SetDefault("pdf_concurrency", 2)
	v.SetDefault("pdf_timeout", 60*time.Second)

	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_default_limit", 300)
	v.SetDefault("rate_limit_default_window", time.Minute)
	v.SetDefault("rate_limit_cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit_whitelist", "")
	v.SetDefault("rate_limit_blacklist", "")
	v.SetDefault("rate_limit_ai_limit", 60)
	v.SetDefault("rate_limit_ai_window", time.Hour)
}

// LoadConfig loads configuration. An empty path skips the file and uses
// defaults plus environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that required values are present and limits are positive.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: 'gemini_api_key' is required")
	}
	return c.validateLimits()
}

// ValidateOffline is Validate without the model key, for commands that
// never call the model.
func (c *Config) ValidateOffline() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	return c.validateLimits()
}

func (c *Config) validateLimits() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be positive")
	}
	if c.PDFConcurrency <= 0 {
		return fmt.Errorf("config error: 'pdf_concurrency' must be positive")
	}
	if c.LLMRetryAttempts <= 0 {
		return fmt.Errorf("config error: 'llm_retry_attempts' must be positive")
	}
	if c.RateLimitEnabled {
		if c.RateLimitDefaultLimit <= 0 || c.RateLimitDefaultWindow <= 0 {
			return fmt.Errorf("config error: default rate limit and window must be positive")
		}
		if c.RateLimitAILimit <= 0 || c.RateLimitAIWindow <= 0 {
			return fmt.Errorf("config error: AI rate limit and window must be positive")
		}
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LLMConfig returns the model configuration with the retry policy applied.
func (c *Config) LLMConfig() *llm.Config {
	lc := llm.DefaultConfig()
	lc.MaxAttempts = c.LLMRetryAttempts
	lc.RetryDelay = c.LLMRetryDelay
	return lc
}

// PageFetcher returns the profile fetcher configuration.
func (c *Config) PageFetcher() fetch.PageFetcherConfig {
	pc := fetch.DefaultPageFetcherConfig()
	pc.UseBrowser = c.UseBrowser
	pc.ChromePath = c.ChromePath
	pc.CacheTTL = c.FetchCacheTTL
	if c.BrowserTimeout > 0 {
		pc.BrowserTimeout = c.BrowserTimeout
	}
	return pc
}

// RateLimit returns the limiter configuration.
func (c *Config) RateLimit() *ratelimit.Config {
	return &ratelimit.Config{
		Enabled:         c.RateLimitEnabled,
		DefaultLimit:    c.RateLimitDefaultLimit,
		DefaultWindow:   c.RateLimitDefaultWindow,
		CleanupInterval: c.RateLimitCleanupInterval,
		IdleTimeout:     time.Hour,
		Whitelist:       ratelimit.ParseList(c.RateLimitWhitelist),
		Blacklist:       ratelimit.ParseList(c.RateLimitBlacklist),
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(c.RateLimitAILimit, c.RateLimitAIWindow),
	}
}
