package identifier

import "regexp"

// compiledPattern is a single named regex with an optional checksum validator.
type compiledPattern struct {
	kind      Kind
	re        *regexp.Regexp
	validator func(string) bool
}

// detectors are tried in order; the first match wins.
var detectors = []compiledPattern{
	{kind: KindISBN13, re: regexp.MustCompile(`^[0-9][0-9 -]{11,}[0-9]$`), validator: IsValidISBN13},
	{kind: KindISBN10, re: regexp.MustCompile(`^[0-9][0-9 -]{7,}[0-9X]$`), validator: IsValidISBN10},
	{kind: KindBookID, re: bookIDPattern},
}

// Detect reports which kind of identifier s spells, if any.
func Detect(s string) (Kind, bool) {
	cleaned := prepareBookID(s)
	for _, p := range detectors {
		if !p.re.MatchString(cleaned) {
			continue
		}
		if p.validator != nil && !p.validator(cleaned) {
			continue
		}
		return p.kind, true
	}
	return "", false
}
