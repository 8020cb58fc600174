package util

import (
	"strings"
	"unicode"
)

// Slugify converts a title into a URL-safe slug: lowercase, with runs of
// non-alphanumeric characters collapsed into single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
