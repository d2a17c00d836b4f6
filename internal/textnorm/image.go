package textnorm

import (
	"strings"

	"mvdan.cc/xurls/v2"
)

var strictURL = xurls.Strict()

// NormalizeImagePath returns fallback for empty input, keeps http(s) URLs
// unchanged and otherwise makes the path site-absolute.
func NormalizeImagePath(value, fallback string) string {
	path := strings.TrimSpace(value)
	if path == "" {
		return fallback
	}
	if IsWebURL(path) {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

// IsWebURL reports whether text is exactly one http or https URL.
func IsWebURL(text string) bool {
	lower := strings.ToLower(text)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	return strictURL.FindString(text) == text
}
