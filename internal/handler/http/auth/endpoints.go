package auth

import "strings"

// DefaultPublicEndpoints are reachable without a token. Entries ending in
// '/' match by prefix.
var DefaultPublicEndpoints = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
	"/swagger/",
	"/auth/token",
	"/contact",
	"/contact/details",
}

// IsPublicEndpoint reports whether path is listed in endpoints.
//
//	IsPublicEndpoint("/health", DefaultPublicEndpoints)             // true
//	IsPublicEndpoint("/health/detail", DefaultPublicEndpoints)      // false
//	IsPublicEndpoint("/swagger/index.html", DefaultPublicEndpoints) // true
//	IsPublicEndpoint("/admin/submissions", DefaultPublicEndpoints)  // false
func IsPublicEndpoint(path string, endpoints []string) bool {
	for _, endpoint := range endpoints {
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}
		if path == endpoint || path == endpoint+"/" {
			return true
		}
	}
	return false
}
