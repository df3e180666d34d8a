package ratelimit

import "strings"

// MatchEndpoint returns the limit for method+path, or nil when the default
// applies. Exact paths win over prefixes; GET /health is unlimited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	// Special case: health check endpoint is unlimited
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Path: path, Method: method} // Limit 0
	}

	// Try exact match first
	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}

	// Try prefix match (for paths ending with "/"), longest prefix wins
	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method || !strings.HasSuffix(c.Path, "/") || !strings.HasPrefix(path, c.Path) {
			continue
		}
		if best == nil || len(c.Path) > len(best.Path) {
			best = c
		}
	}
	// nil if no match found
	return best
}
