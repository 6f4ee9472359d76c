package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTimeout     time.Duration // buckets unused this long are dropped
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the limits used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    300,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(60, time.Hour),
	}
}

// DefaultEndpointConfigs returns the strict tier for model-backed and
// export endpoints. aiLimit requests per aiWindow are allowed for each.
func DefaultEndpointConfigs(aiLimit int, aiWindow time.Duration) []EndpointConfig {
	burst := aiLimit / 10
	if burst < 1 {
		burst = 1
	}
	strict := func(method, path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: method, Limit: aiLimit, Window: aiWindow, Burst: burst}
	}
	return []EndpointConfig{
		// Tier 1: model calls (strictest limits)
		strict("POST", "/ai/"),
		strict("POST", "/generateFromPrompt"),
		strict("POST", "/linkedinImport"),
		strict("POST", "/uploadResume"),

		// Tier 2: headless browser exports
		strict("GET", "/download/pdf"),

		// Tier 3: everything else uses the default limit
		// Tier 4: health check (unlimited) is handled in the matcher
	}
}

// ParseList parses a comma-separated list of client ids into a set.
func ParseList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
