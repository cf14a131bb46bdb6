package glossary

import (
	"regexp"

	"github.com/pkg/errors"

	"github.com/tomokiyo/pjsbookshelf/pkg/identifier"
	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
)

type compiledPattern struct {
	name      string
	re        *regexp.Regexp
	validator func(string) bool
}

type patternMatcher struct {
	patterns []compiledPattern
}

// validators are the check-digit checks a pattern may require on top of its
// regex.
var validators = map[string]func(string) bool{
	"isbn":    identifier.IsValidISBN,
	"isbn13":  identifier.IsValidISBN13,
	"isbn10":  identifier.IsValidISBN10,
	"book_id": identifier.IsBookID,
}

func compilePatterns(rules []PatternRule) (*patternMatcher, error) {
	if len(rules) == 0 {
		return nil, errors.New("no patterns defined")
	}

	pm := &patternMatcher{patterns: make([]compiledPattern, 0, len(rules))}
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Regex)
		if err != nil {
			return nil, errors.Wrapf(err, "pattern %q", rule.Name)
		}
		cp := compiledPattern{name: rule.Name, re: re}
		if rule.Validator != "" {
			v, ok := validators[rule.Validator]
			if !ok {
				return nil, errors.Errorf("pattern %q: unknown validator %q", rule.Name, rule.Validator)
			}
			cp.validator = v
		}
		pm.patterns = append(pm.patterns, cp)
	}
	return pm, nil
}

// match returns the name of the first pattern the canonical form of term
// satisfies.
func (pm *patternMatcher) match(term string) (string, bool) {
	cleaned := jatext.Normalize(term)
	for _, p := range pm.patterns {
		if !p.re.MatchString(cleaned) {
			continue
		}
		if p.validator != nil && !p.validator(cleaned) {
			continue
		}
		return p.name, true
	}
	return "", false
}
