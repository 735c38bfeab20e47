package indicator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Geography kinds written by the normalizer.
const (
	KindNational = "National"
	KindState    = "State"
	KindDistrict = "District"
)

// FromSlug turns a hyphenated location slug into the display form stored in
// geographyName: "uttar-pradesh" becomes "Uttar Pradesh". Only the leading
// character of each part is upper-cased; the rest is kept as given.
func FromSlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, p := range parts {
		parts[i] = upperFirst(p)
	}
	return strings.Join(parts, " ")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
