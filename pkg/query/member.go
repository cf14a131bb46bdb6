package query

import (
	"strings"

	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
)

// CompileMember turns a member search box into a single predicate: digits
// look up the member ID, roman letters match the romanized name without
// regard to case, kana match the katakana reading and anything else the
// name.
func CompileMember(raw string) CompiledQuery {
	q := jatext.Normalize(raw)
	switch {
	case q == "":
		return CompiledQuery{}
	case jatext.IsAllDigit(q):
		return single(FieldMemberID, q, Exact)
	case jatext.IsAllRomanLetter(q):
		return single(FieldRomaji, contains(strings.ToLower(q)), ContainsFold)
	case jatext.IsAllHiragana(q):
		return single(FieldKatakana, contains(jatext.HiraganaToKatakana(q)), Contains)
	case jatext.IsAllKatakana(q):
		return single(FieldKatakana, contains(q), Contains)
	default:
		return single(FieldName, contains(q), Contains)
	}
}
