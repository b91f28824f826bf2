package frame

import (
	"net/url"
	"strings"
)

// legacyEscapePassthrough is the exact ECMAScript-1 escape() passthrough
// set. Modern percent-encoders (net/url's QueryEscape/PathEscape) use a
// different set and must not be substituted here.
const legacyEscapePassthrough = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789@*_+-./"

const hexDigits = "0123456789abcdef"

// legacyEscape re-implements ECMAScript-1's escape(): every byte in the
// passthrough set is copied verbatim; every other byte becomes "%" followed
// by its lowercase two-digit hex value. text is treated as a sequence of
// raw byte values (0..255) held one-per-rune, matching how the frame
// decoder reconstructs it from the message trailer.
func legacyEscape(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r <= 0xFF && strings.ContainsRune(legacyEscapePassthrough, r) {
			b.WriteRune(r)
			continue
		}
		v := r
		if v < 0 || v > 0xFF {
			// Not expected for frame-derived input (always 0..255); a wider
			// code point is reduced to its low byte.
			v = v & 0xFF
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[(v>>4)&0xF])
		b.WriteByte(hexDigits[v&0xF])
	}
	return b.String()
}

// legacyUnescape percent-decodes text the way Python's urllib.parse.unquote
// does: '+' is left as a literal plus, not turned into a space. This is the
// other half of the escape-then-unquote round trip that reconstructs UTF-8
// text from the legacy-escaped byte sequence.
func legacyUnescape(text string) (string, error) {
	return url.PathUnescape(text)
}
