// Package names cleans up player-supplied names before they are encoded,
// stored or shown.
package names

import "github.com/nosborn/idcodec/pkg/ident"

// Normalize reduces name to the form the encoder accepts: at most
// ident.MaxNameLen bytes, letters lowercased, anything outside a-z and 0-9
// turned into a blank and surrounding blanks removed.
func Normalize(name string) string {
	if len(name) > ident.MaxNameLen {
		name = name[:ident.MaxNameLen]
	}

	norm := make([]byte, 0, len(name))
	for _, ch := range []byte(name) {
		ch = toLower(ch)
		if isLower(ch) || isDigit(ch) {
			norm = append(norm, ch)
		} else {
			norm = append(norm, ' ')
		}
	}

	start, end := 0, len(norm)
	for start < end && norm[start] == ' ' {
		start++
	}
	for end > start && norm[end-1] == ' ' {
		end--
	}
	return string(norm[start:end])
}

// Format returns at most maxLen bytes of s with every byte that isn't an
// ASCII letter or digit replaced by an underscore.
func Format(s string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	if len(s) > maxLen {
		s = s[:maxLen]
	}

	formatted := []byte(s)
	for i, ch := range formatted {
		if !isUpper(ch) && !isLower(ch) && !isDigit(ch) {
			formatted[i] = '_'
		}
	}
	return string(formatted)
}

// Key returns the case-insensitive form of name used when reporting it:
// uppercase letters folded, other printable characters kept and blanks and
// control characters dropped.
func Key(name string) string {
	var key []byte
	for _, ch := range []byte(name) {
		if isUpper(ch) {
			key = append(key, toLower(ch))
		} else if isGraph(ch) {
			key = append(key, ch)
		}
	}
	return string(key)
}

func isUpper(b byte) bool {
	return b-'A' < 26
}

func isLower(b byte) bool {
	return b-'a' < 26
}

func isDigit(b byte) bool {
	return b-'0' < 10
}

func isGraph(b byte) bool {
	return b-0x21 < 0x5e
}

func toLower(b byte) byte {
	if isUpper(b) {
		return b | 32
	}
	return b
}
