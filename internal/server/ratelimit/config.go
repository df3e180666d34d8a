package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit of one endpoint. A Path ending in "/" matches
// every path below it.
type EndpointConfig struct {
	Path   string        // Endpoint path, or a prefix when it ends in "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment
// variables.
func LoadConfig() *Config {
	// A disabled limiter allows every request
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(getEnvInt("RATE_LIMIT_PARSE_PER_MINUTE", 30)),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. Document parsing is
// the expensive call; saves are moderate; reads fall back to the default.
func DefaultEndpointConfigs(parsePerMinute int) []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: Document parsing (strictest limits)
		{Path: "/api/parse", Method: "POST", Limit: parsePerMinute, Window: time.Minute, Burst: 5},
		{Path: "/api/parse/stream", Method: "POST", Limit: parsePerMinute, Window: time.Minute, Burst: 5},
		// Tier 2: Writes (moderate limits)
		{Path: "/api/resume", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/resume/version", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/validate", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
		// Tier 3: Reads (more lenient) - handled by default limit
		// Tier 4: Health check (unlimited) - handled by special case in matcher
	}
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
