// Package lookup renders compiled queries into parameterized WHERE clauses.
// It builds SQL text only from fixed column names; every pattern travels as
// a bind argument.
package lookup

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/tomokiyo/pjsbookshelf/pkg/query"
)

// Placeholder is the bind parameter syntax of the target database.
type Placeholder int

const (
	// Question renders "?" (SQLite, MySQL).
	Question Placeholder = iota
	// Dollar renders "$1", "$2", ... (PostgreSQL).
	Dollar
)

// ParsePlaceholder maps a config value to a Placeholder.
func ParsePlaceholder(s string) (Placeholder, error) {
	switch strings.ToLower(s) {
	case "", "question", "?":
		return Question, nil
	case "dollar", "$":
		return Dollar, nil
	}
	return Question, errors.Errorf("unknown placeholder style %q", s)
}

// condition renders one predicate around an already rendered column and
// placeholder.
func condition(p query.Predicate, column, param string) string {
	switch p.Match {
	case query.Exact:
		return column + " = " + param
	case query.ContainsFold:
		return "LOWER(" + column + ") LIKE " + param
	default:
		return column + " LIKE " + param
	}
}

// Where renders q as "cond AND cond ..." with one placeholder per
// predicate, and returns the matching arguments in the same order. An empty
// query renders as an empty clause.
func Where(q query.CompiledQuery, style Placeholder) (string, []any) {
	if q.IsEmpty() {
		return "", nil
	}
	conds := make([]string, len(q.Predicates))
	for i, p := range q.Predicates {
		param := "?"
		if style == Dollar {
			param = "$" + strconv.Itoa(i+1)
		}
		conds[i] = condition(p, p.Field.Column(), param)
	}
	return strings.Join(conds, " AND "), q.Args()
}

// NamedWhere renders q for pgx with named arguments @p1, @p2, ...
func NamedWhere(q query.CompiledQuery) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	if q.IsEmpty() {
		return "", args
	}
	conds := make([]string, len(q.Predicates))
	for i, p := range q.Predicates {
		name := "p" + strconv.Itoa(i+1)
		conds[i] = condition(p, p.Field.Column(), "@"+name)
		args[name] = p.Arg()
	}
	return strings.Join(conds, " AND "), args
}

// Apply adds the predicates of q to a bun select. An empty query selects
// nothing.
func Apply(sel *bun.SelectQuery, q query.CompiledQuery) *bun.SelectQuery {
	if q.IsEmpty() {
		return sel.Where("1 = 0")
	}
	for _, p := range q.Predicates {
		sel = sel.Where(condition(p, "?", "?"), bun.Ident(p.Field.Column()), p.Arg())
	}
	return sel
}
