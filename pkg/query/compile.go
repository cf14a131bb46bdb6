package query

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/tomokiyo/pjsbookshelf/pkg/identifier"
	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
)

// AuthorPrefix routes a token to the authors field.
const AuthorPrefix = "author:"

// Target selects the record set a search box queries.
type Target string

const (
	TargetBooks   Target = "books"
	TargetMembers Target = "members"
)

// CompileFor compiles raw against the given target.
func CompileFor(target Target, raw string) (CompiledQuery, error) {
	switch target {
	case TargetBooks, "":
		return Compile(raw), nil
	case TargetMembers:
		return CompileMember(raw), nil
	default:
		return CompiledQuery{}, errors.Errorf("unknown query target %q", target)
	}
}

// Compile turns a book search box into predicates.
//
// A query that is a valid ISBN matches the isbn column exactly, as typed
// after normalization. A book ID matches the id column exactly in canonical
// form. Anything else is split on spaces and every token becomes a LIKE
// predicate: "author:" tokens on authors, kana tokens on kana_title
// (hiragana converted to katakana), the rest on title.
func Compile(raw string) CompiledQuery {
	q := jatext.Normalize(raw)
	if identifier.IsValidISBN(q) {
		return single(FieldISBN, q, Exact)
	}
	if id, err := identifier.NormalizeBookID(q); err == nil {
		return single(FieldID, id, Exact)
	}

	tokens := strings.Fields(q)
	if len(tokens) == 0 {
		return CompiledQuery{}
	}
	cq := CompiledQuery{Predicates: make([]Predicate, 0, len(tokens))}
	for _, token := range tokens {
		cq.Predicates = append(cq.Predicates, compileToken(token))
	}
	return cq
}

func compileToken(token string) Predicate {
	field := FieldTitle
	switch {
	case strings.HasPrefix(token, AuthorPrefix):
		field = FieldAuthors
		token = strings.TrimPrefix(token, AuthorPrefix)
	case jatext.IsAllHiragana(token):
		field = FieldKanaTitle
		token = jatext.HiraganaToKatakana(token)
	case jatext.IsAllKatakana(token):
		field = FieldKanaTitle
	}
	return Predicate{Field: field, Pattern: contains(token), Match: Contains}
}

func contains(s string) string {
	return "%" + s + "%"
}
