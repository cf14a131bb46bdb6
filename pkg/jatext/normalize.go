// Package jatext normalizes and classifies mixed Japanese/ASCII text.
//
// Every function in this package is pure and safe for concurrent use. The
// canonical form produced by Normalize is what gets stored, compared and
// searched; normalizing a canonical string again is a no-op.
package jatext

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

const (
	dakuten    = '゛'
	handakuten = '゜'
	longVowel  = 'ー'
	middleDot  = '・'
)

// scanState is the whitespace-collapsing state of the normalizer.
type scanState int

const (
	stateLeading scanState = iota // nothing emitted yet
	stateToken                    // inside a run of non-whitespace
	stateGap                      // whitespace seen after a token
)

// NormalizeChar folds a single rune: full-width ASCII becomes half-width,
// half-width katakana becomes full-width, and everything not in the table is
// returned unchanged.
func NormalizeChar(r rune) rune {
	if c, ok := charTable[r]; ok {
		return c
	}
	return r
}

// Normalize returns the canonical form of text.
//
//   - whitespace runs collapse to one ASCII space, leading and trailing
//     whitespace is dropped
//   - every rune goes through NormalizeChar
//   - a sound mark following a base kana fuses with it ("フ゜" -> "プ")
//   - a long-vowel mark right after an ASCII digit becomes '-' ("３８９ー" -> "389-")
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	out := make([]rune, 0, len(text))
	state := stateLeading
	for _, r := range text {
		if IsWhitespace(r) {
			if state == stateToken {
				state = stateGap
			}
			continue
		}
		if state == stateGap {
			out = append(out, ' ')
		}
		state = stateToken
		out = appendCanonical(out, NormalizeChar(r))
	}
	return string(out)
}

// NormalizeOptional is Normalize for nullable values: nil stays nil.
func NormalizeOptional(text *string) *string {
	if text == nil {
		return nil
	}
	s := Normalize(*text)
	return &s
}

// appendCanonical appends an already folded rune, looking back at the last
// emitted rune to fuse sound marks and fix digit-adjacent long-vowel marks.
func appendCanonical(out []rune, ch rune) []rune {
	n := len(out)
	if n == 0 {
		return append(out, ch)
	}
	prev := out[n-1]
	switch ch {
	case dakuten:
		if voiced, ok := dakutenTable[prev]; ok {
			out, ch = out[:n-1], voiced
		}
	case handakuten:
		if semiVoiced, ok := handakutenTable[prev]; ok {
			out, ch = out[:n-1], semiVoiced
		}
	case longVowel:
		if isASCIIDigit(prev) {
			ch = '-'
		}
	}
	return append(out, ch)
}

// CharFolder returns a streaming transformer applying NormalizeChar to every
// rune. It does not collapse whitespace or fuse sound marks; Normalize of its
// output equals Normalize of its input.
func CharFolder() transform.Transformer {
	return runes.Map(NormalizeChar)
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
