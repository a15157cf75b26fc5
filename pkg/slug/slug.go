package slug

import (
	"strings"
	"unicode"
)

var transliterations = map[rune]string{
	'ç': "c", 'ğ': "g", 'ı': "i", 'ö': "o", 'ş': "s", 'ü': "u",
	'à': "a", 'á': "a", 'â': "a", 'ä': "a", 'ã': "a", 'å': "a",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o",
	'ù': "u", 'ú': "u", 'û': "u",
	'ñ': "n", 'ß': "ss", 'æ': "ae", 'ø': "o", 'œ': "oe",
}

// Code turns a human label into a catalog code: lower-case ASCII letters and
// digits, with every other run of characters collapsed into one underscore.
//
// Examples:
//   - "Kadın Giyim" → "kadin_giyim"
//   - "Main Color" → "main_color"
//   - "  Size (EU) " → "size_eu"
func Code(label string) string {
	return build(label, '_')
}

// Generate creates a URL-friendly, hyphen-separated slug from the given name.
func Generate(name string) string {
	return build(name, '-')
}

func build(s string, sep byte) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false

	for _, r := range strings.ToLower(s) {
		if unicode.Is(unicode.Mn, r) {
			// Combining marks, e.g. the dot left by lower-casing "İ".
			continue
		}
		var chunk string
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			chunk = string(r)
		default:
			chunk = transliterations[r]
		}
		if chunk == "" {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte(sep)
			pending = false
		}
		b.WriteString(chunk)
	}
	return b.String()
}
