// Package slug generates URL-friendly identifiers from display names.
// This is part of the platform layer and contains no business logic.
package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlphaNumRegex = regexp.MustCompile(`[^a-z0-9 -]+`)
	dashRunRegex     = regexp.MustCompile(`-{2,}`)
)

// Make turns a title into a lowercase, dash-separated slug.
// Example: "Advanced Go  Programming!" -> "advanced-go-programming".
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonAlphaNumRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "-")
	s = dashRunRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
