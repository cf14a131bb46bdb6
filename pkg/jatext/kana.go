package jatext

import "strings"

// kanaOffset is the distance between a hiragana letter and its katakana
// counterpart.
const kanaOffset = 'ア' - 'あ'

func isShiftableHiragana(r rune) bool {
	return (r >= 'ぁ' && r <= 'ゖ') || r == 'ゝ' || r == 'ゞ'
}

func isShiftableKatakana(r rune) bool {
	return (r >= 'ァ' && r <= 'ヶ') || r == 'ヽ' || r == 'ヾ'
}

// HiraganaToKatakana converts the hiragana letters of s to katakana and
// normalizes the result, so "う゛ぃ" becomes "ヴィ". Sound marks, ー and ・
// pass through.
func HiraganaToKatakana(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isShiftableHiragana(r) {
			r += kanaOffset
		}
		b.WriteRune(r)
	}
	return Normalize(b.String())
}

// KatakanaToHiragana normalizes s and converts its katakana letters to
// hiragana. Hiragana has no voiced う, so ヴ becomes the two runes "う゛".
// The conversion is not the inverse of HiraganaToKatakana.
func KatakanaToHiragana(s string) string {
	n := Normalize(s)
	var b strings.Builder
	b.Grow(len(n))
	for _, r := range n {
		switch {
		case r == 'ヴ':
			b.WriteString("う゛")
		case isShiftableKatakana(r):
			b.WriteRune(r - kanaOffset)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
