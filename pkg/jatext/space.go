package jatext

import (
	"strings"
	"unicode"
)

// IsWhitespace reports whether r is a Unicode White_Space rune. This covers
// the no-break spaces (U+00A0, U+2007, U+202F) and the ideographic space.
func IsWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

// IsAllWhitespace reports whether s consists only of whitespace. The empty
// string qualifies.
func IsAllWhitespace(s string) bool {
	for _, r := range s {
		if !IsWhitespace(r) {
			return false
		}
	}
	return true
}

// NormalizeSpace collapses whitespace runs to a single ASCII space and trims
// both ends without touching any other rune.
func NormalizeSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	state := stateLeading
	for _, r := range s {
		if IsWhitespace(r) {
			if state == stateToken {
				state = stateGap
			}
			continue
		}
		if state == stateGap {
			b.WriteByte(' ')
		}
		state = stateToken
		b.WriteRune(r)
	}
	return b.String()
}

// RemoveSpace drops every whitespace rune from s.
func RemoveSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if IsWhitespace(r) {
			return -1
		}
		return r
	}, s)
}

// FamilyName returns the part of a "family given" name before the first
// whitespace, e.g. "ヤマダ タロウ" -> "ヤマダ".
func FamilyName(name string) string {
	if i := strings.IndexFunc(name, IsWhitespace); i >= 0 {
		return name[:i]
	}
	return name
}
