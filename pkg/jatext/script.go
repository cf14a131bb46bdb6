package jatext

import "unicode"

// Script is the routing class of a piece of text.
type Script string

const (
	ScriptEmpty    Script = "empty"
	ScriptDigit    Script = "digit"
	ScriptRoman    Script = "roman"
	ScriptHiragana Script = "hiragana"
	ScriptKatakana Script = "katakana"
	ScriptJapanese Script = "japanese"
	ScriptMixed    Script = "mixed"
)

// Classify returns the narrowest script class that the normalized text
// belongs to, checked in the order digit, roman, hiragana, katakana, japanese.
func Classify(s string) Script {
	n := Normalize(s)
	switch {
	case n == "":
		return ScriptEmpty
	case IsAllDigit(n):
		return ScriptDigit
	case IsAllRomanLetterOrSpace(n):
		return ScriptRoman
	case IsAllHiragana(n):
		return ScriptHiragana
	case IsAllKatakana(n):
		return ScriptKatakana
	case IsAllJapanese(n):
		return ScriptJapanese
	default:
		return ScriptMixed
	}
}

// IsKatakana reports whether r, once folded by NormalizeChar, lies in the
// Katakana block. ー and ・ are katakana; so is half-width ｱ.
func IsKatakana(r rune) bool {
	r = NormalizeChar(r)
	return r >= 0x30A0 && r <= 0x30FF
}

// IsHiragana reports whether r lies in the Hiragana block.
func IsHiragana(r rune) bool {
	return r >= 0x3040 && r <= 0x309F
}

// IsKanji reports whether r is a CJK ideograph (unified, extension A or
// compatibility) or the iteration mark 々.
func IsKanji(r rune) bool {
	return (r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		r == '々'
}

func isRomanLetter(r rune) bool {
	return unicode.IsLetter(r) && unicode.Is(unicode.Latin, r)
}

// The IsAll* predicates scan the normalized form of s. The empty string
// satisfies all of them.

// IsAllDigit reports whether s consists of ASCII digits only.
func IsAllDigit(s string) bool {
	return allOf(s, isASCIIDigit)
}

// IsAllRomanLetter reports whether s consists of Latin letters only.
func IsAllRomanLetter(s string) bool {
	return allOf(s, isRomanLetter)
}

// IsAllRomanLetterOrSpace is IsAllRomanLetter that also accepts spaces.
func IsAllRomanLetterOrSpace(s string) bool {
	return allOf(s, func(r rune) bool {
		return isRomanLetter(r) || r == ' '
	})
}

// IsAllHiragana reports whether s is hiragana, allowing the long-vowel mark.
func IsAllHiragana(s string) bool {
	return allOf(s, func(r rune) bool {
		return IsHiragana(r) || r == longVowel
	})
}

// IsAllKatakana reports whether s is katakana only.
func IsAllKatakana(s string) bool {
	return allOf(s, IsKatakana)
}

// IsAllKatakanaOrSpace is IsAllKatakana that also accepts spaces, as in a
// katakana reading of a full name.
func IsAllKatakanaOrSpace(s string) bool {
	return allOf(s, func(r rune) bool {
		return IsKatakana(r) || r == ' '
	})
}

// IsAllJapanese reports whether s contains only kana, kanji, ー, ・ and spaces.
func IsAllJapanese(s string) bool {
	return allOf(s, func(r rune) bool {
		return r == longVowel || r == middleDot || r == ' ' ||
			IsHiragana(r) || IsKatakana(r) || IsKanji(r)
	})
}

func allOf(s string, pred func(rune) bool) bool {
	for _, r := range Normalize(s) {
		if !pred(r) {
			return false
		}
	}
	return true
}
