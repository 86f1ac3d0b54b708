// internal/utils/slug.go
package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugMaxLength is the longest slug Slugify produces.
const SlugMaxLength = 80

// Slugify lowercases value, folds accented letters to ASCII, collapses every
// run of characters outside [a-z0-9] into one hyphen and trims hyphens from
// both ends. The result is at most SlugMaxLength bytes and never ends in a
// hyphen, so Slugify(Slugify(x)) == Slugify(x).
func Slugify(value string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		value,
	)
	if err != nil {
		folded = value
	}
	folded = strings.ToLower(strings.TrimSpace(folded))

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	slug := b.String()
	if len(slug) > SlugMaxLength {
		slug = strings.TrimRight(slug[:SlugMaxLength], "-")
	}
	return slug
}
