package pathutil

import (
	"errors"
	"strings"
)

// ErrInvalidID is returned when the ID segment of a path is missing or
// malformed.
var ErrInvalidID = errors.New("invalid id")

const maxIDLength = 128

// ExtractID returns the single path segment that follows prefix.
//
//	id, err := ExtractID("/admin/submissions/4f7c...", "/admin/submissions/")
func ExtractID(path, prefix string) (string, error) {
	if !strings.HasPrefix(path, prefix) {
		return "", ErrInvalidID
	}
	id := strings.TrimSuffix(strings.TrimPrefix(path, prefix), "/")
	if id == "" || len(id) > maxIDLength || strings.ContainsAny(id, "/ \t\r\n") {
		return "", ErrInvalidID
	}
	return id, nil
}
