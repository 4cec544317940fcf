// Package textutil holds the slug and label helpers shared by the
// directory pages and the import tool.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Slugify converts a display name to a URL-safe slug.
//
//	Slugify("Fine Dining")        // "fine-dining"
//	Slugify("Café & Bakery 24x7") // "caf-bakery-24x7"
//
// Letters and digits are kept (lowercased, ASCII only), every other run of
// characters becomes a single hyphen, and leading/trailing hyphens are trimmed.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '/' || r == '&' || r == '.' || r == ',':
			pendingDash = true
		}
	}
	return b.String()
}

// Humanize turns a raw URL segment into a display label: hyphens become
// spaces and the first letter of every word is upper-cased. The rest of each
// word is left as typed.
//
//	Humanize("fine-dining") // "Fine Dining"
func Humanize(segment string) string {
	words := strings.Split(segment, "-")
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		out = append(out, string(unicode.ToUpper(r))+w[size:])
	}
	return strings.Join(out, " ")
}
