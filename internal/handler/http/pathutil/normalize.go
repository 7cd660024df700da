// Package pathutil extracts IDs from URL paths and folds them into route
// templates for metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps a dynamic route to its template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/admin/submissions/[^/]+$`), Template: "/admin/submissions/:id"},
}

// NormalizePath replaces IDs in path with placeholders so metric label
// cardinality stays bounded. The query string and a trailing slash are
// dropped; unknown paths are returned as-is.
//
//	NormalizePath("/admin/submissions/6b1f") // "/admin/submissions/:id"
//	NormalizePath("/contact")                // "/contact"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
