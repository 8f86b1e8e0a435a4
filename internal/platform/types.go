package platform

import (
	"strings"
)

// ListOptions controls window listing.
type ListOptions struct {
	PID int    // Filter by PID
	App string // Filter by process name (case-insensitive)
}

// FocusOptions specifies what to focus.
type FocusOptions struct {
	App    string
	Window string
	PID    int
}

// ParseKeys splits a combo such as "ctrl+s" or "alt + tab" into its keys.
// Key names are lowercased; empty segments are dropped.
func ParseKeys(combo string) []string {
	var keys []string
	for _, k := range strings.Split(combo, "+") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// FormatKeys is the inverse of ParseKeys.
func FormatKeys(keys []string) string {
	return strings.Join(keys, "+")
}

// TitleMatches reports whether title contains substr, ignoring case.
func TitleMatches(title, substr string) bool {
	if substr == "" {
		return false
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(substr))
}
