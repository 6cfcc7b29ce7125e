package post

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL-friendly slug.
// "My First Post!" -> "my-first-post"
func Slugify(text string) string {
	text = strings.ToLower(text)
	text = nonAlphanumeric.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}
