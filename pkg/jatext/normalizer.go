package jatext

import (
	"slices"

	"golang.org/x/text/cases"
)

// Normalizer transforms text before it is stored or compared.
type Normalizer func(string) string

// NormalizeKatakana returns the canonical form with hiragana turned into
// katakana, the form used for reading columns.
func NormalizeKatakana(s string) string {
	return HiraganaToKatakana(s)
}

// NormalizeHiragana returns the canonical form with katakana turned into
// hiragana.
func NormalizeHiragana(s string) string {
	return KatakanaToHiragana(s)
}

// NormalizeFold returns the canonical form case-folded, for caseless
// comparison of romanized text.
func NormalizeFold(s string) string {
	return cases.Fold().String(Normalize(s))
}

// NormalizeNone returns the text unchanged.
func NormalizeNone(s string) string {
	return s
}

// GetNormalizer returns the normalizer for the given mode.
// Default is canonical.
func GetNormalizer(mode string) Normalizer {
	switch mode {
	case "katakana":
		return NormalizeKatakana
	case "hiragana":
		return NormalizeHiragana
	case "fold":
		return NormalizeFold
	case "none":
		return NormalizeNone
	default:
		return Normalize
	}
}

// NormalizerModes lists the modes accepted by GetNormalizer.
var NormalizerModes = []string{"canonical", "katakana", "hiragana", "fold", "none"}

// IsNormalizerMode reports whether mode names one of NormalizerModes.
func IsNormalizerMode(mode string) bool {
	return slices.Contains(NormalizerModes, mode)
}
