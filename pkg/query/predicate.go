// Package query compiles free-text search boxes into ordered field
// predicates. It never renders SQL; see package lookup for that.
package query

import (
	"strconv"

	"github.com/pkg/errors"
)

// Field is a searchable record field.
type Field int

const (
	FieldTitle Field = iota
	FieldKanaTitle
	FieldAuthors
	FieldISBN
	FieldID

	// Member record fields.
	FieldMemberID
	FieldRomaji
	FieldKatakana
	FieldName
)

var fieldNames = [...]string{
	FieldTitle:     "title",
	FieldKanaTitle: "kana_title",
	FieldAuthors:   "authors",
	FieldISBN:      "isbn",
	FieldID:        "id",
	FieldMemberID:  "member_id",
	FieldRomaji:    "romaji",
	FieldKatakana:  "katakana",
	FieldName:      "name",
}

var fieldColumns = [...]string{
	FieldTitle:     "title",
	FieldKanaTitle: "kana_title",
	FieldAuthors:   "authors",
	FieldISBN:      "isbn",
	FieldID:        "id",
	FieldMemberID:  "id",
	FieldRomaji:    "romaji",
	FieldKatakana:  "katakana",
	FieldName:      "name",
}

func (f Field) valid() bool {
	return f >= 0 && int(f) < len(fieldNames)
}

func (f Field) String() string {
	if !f.valid() {
		return "Field(" + strconv.Itoa(int(f)) + ")"
	}
	return fieldNames[f]
}

// Column is the database column the field is stored in.
func (f Field) Column() string {
	if !f.valid() {
		return ""
	}
	return fieldColumns[f]
}

func (f Field) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, errors.Errorf("unknown field %d", int(f))
	}
	return []byte(fieldNames[f]), nil
}

// MatchKind says how a predicate pattern is compared with the column.
type MatchKind int

const (
	// Exact compares for equality.
	Exact MatchKind = iota
	// Contains is a LIKE match; the pattern carries the % wildcards.
	Contains
	// ContainsFold is Contains against the lower-cased column. The pattern
	// is already lower-case.
	ContainsFold
)

var matchNames = [...]string{
	Exact:        "exact",
	Contains:     "contains",
	ContainsFold: "contains_fold",
}

func (m MatchKind) String() string {
	if m < 0 || int(m) >= len(matchNames) {
		return "MatchKind(" + strconv.Itoa(int(m)) + ")"
	}
	return matchNames[m]
}

func (m MatchKind) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(matchNames) {
		return nil, errors.Errorf("unknown match kind %d", int(m))
	}
	return []byte(matchNames[m]), nil
}

// Predicate is one field condition of a compiled query.
type Predicate struct {
	Field   Field     `json:"field"`
	Pattern string    `json:"pattern"`
	Match   MatchKind `json:"match"`
}

// Arg is the bind argument for the predicate's placeholder. Member IDs bind
// as integers.
func (p Predicate) Arg() any {
	if p.Field == FieldMemberID {
		if n, err := strconv.ParseInt(p.Pattern, 10, 64); err == nil {
			return n
		}
	}
	return p.Pattern
}

// CompiledQuery is an ordered conjunction of predicates. A query without
// predicates matches nothing; callers must special-case it.
type CompiledQuery struct {
	Predicates []Predicate `json:"predicates"`
}

func single(field Field, pattern string, match MatchKind) CompiledQuery {
	return CompiledQuery{Predicates: []Predicate{{Field: field, Pattern: pattern, Match: match}}}
}

// IsEmpty reports whether the query has no predicates.
func (q CompiledQuery) IsEmpty() bool {
	return len(q.Predicates) == 0
}

// Args returns the bind arguments, one per predicate, in predicate order.
func (q CompiledQuery) Args() []any {
	args := make([]any, len(q.Predicates))
	for i, p := range q.Predicates {
		args[i] = p.Arg()
	}
	return args
}
