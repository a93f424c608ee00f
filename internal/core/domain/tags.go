package domain

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)

// SanitizeTag replaces every character outside [A-Za-z0-9], spaces
// included, with an underscore. The result is safe inside an org tag list.
func SanitizeTag(raw string) string {
	return nonAlnum.ReplaceAllString(raw, "_")
}

// SanitizeHeader replaces underscores with spaces for headings.
// It is not the inverse of SanitizeTag and the two must not be composed.
func SanitizeHeader(raw string) string {
	return strings.ReplaceAll(raw, "_", " ")
}
