// Package classify builds a report of what a piece of text is: its canonical
// form, script class, the scripts it mixes, any identifier it spells and the
// glossary entries it matches.
package classify

import (
	"unicode"

	"github.com/tomokiyo/pjsbookshelf/pkg/glossary"
	"github.com/tomokiyo/pjsbookshelf/pkg/identifier"
	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
)

// Trait names a kind of character found in the normalized text.
const (
	TraitDigit    = "digit"
	TraitRoman    = "roman"
	TraitHiragana = "hiragana"
	TraitKatakana = "katakana"
	TraitKanji    = "kanji"
	TraitSpace    = "space"
	TraitOther    = "other"
)

var traitOrder = []string{TraitDigit, TraitRoman, TraitHiragana, TraitKatakana, TraitKanji, TraitSpace, TraitOther}

// Glossary looks terms up in curated lists. *glossary.Registry implements it.
type Glossary interface {
	Lookup(term string, opts *glossary.Options) []glossary.Match
}

// Result is the classification report for one text.
type Result struct {
	Text       string                 `json:"text"`
	Normalized string                 `json:"normalized"`
	Changed    bool                   `json:"changed"`
	Script     jatext.Script          `json:"script"`
	Traits     []string               `json:"traits"`
	Identifier *identifier.Identifier `json:"identifier,omitempty"`
	Matches    []glossary.Match       `json:"matches"`
}

// Classifier produces Results. The zero value works without a glossary.
type Classifier struct {
	glossary Glossary
}

// New returns a Classifier. g may be nil.
func New(g Glossary) *Classifier {
	return &Classifier{glossary: g}
}

// Classify reports on text. opts filters the glossaries consulted.
func (c *Classifier) Classify(text string, opts *glossary.Options) *Result {
	n := jatext.Normalize(text)
	res := &Result{
		Text:       text,
		Normalized: n,
		Changed:    n != text,
		Script:     jatext.Classify(n),
		Traits:     traits(n),
		Matches:    []glossary.Match{},
	}
	if id, err := identifier.Parse(n); err == nil {
		res.Identifier = &id
	}
	if c.glossary != nil && n != "" {
		res.Matches = c.glossary.Lookup(n, opts)
	}
	return res
}

// traits lists the character kinds present in the normalized text s.
func traits(s string) []string {
	seen := make(map[string]bool, len(traitOrder))
	for _, r := range s {
		seen[traitOf(r)] = true
	}
	out := make([]string, 0, len(seen))
	for _, t := range traitOrder {
		if seen[t] {
			out = append(out, t)
		}
	}
	return out
}

func traitOf(r rune) string {
	switch {
	case r >= '0' && r <= '9':
		return TraitDigit
	case unicode.Is(unicode.Latin, r):
		return TraitRoman
	case jatext.IsHiragana(r):
		return TraitHiragana
	case jatext.IsKatakana(r):
		return TraitKatakana
	case jatext.IsKanji(r):
		return TraitKanji
	case jatext.IsWhitespace(r):
		return TraitSpace
	default:
		return TraitOther
	}
}
