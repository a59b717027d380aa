package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug turns a display name into a URL-safe identifier. It is
// idempotent and never fails; punctuation-only input yields "".
//
// The admin frontend previews slugs with the same algorithm, so any change
// here must keep the two outputs bit-for-bit identical.
func GenerateSlug(name string) string {
	// Decompose accents, then drop the combining marks
	t := norm.NFD.String(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	s := strings.ToLower(b.String())
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
