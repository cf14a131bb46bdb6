// Package csvnorm normalizes book and member register exports cell by cell
// and canonicalizes their identifier columns.
package csvnorm

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tomokiyo/pjsbookshelf/pkg/glossary"
	"github.com/tomokiyo/pjsbookshelf/pkg/identifier"
	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
)

// Options select the input format and the columns to check. Column names
// need a header row, and Run refuses them without one. An empty name
// disables the check.
type Options struct {
	Encoding       string
	Delimiter      string
	Header         bool
	BookIDColumn   string
	ISBNColumn     string
	KatakanaColumn string
}

// Problem is a cell that could not be canonicalized. It is written through
// in normalized form.
type Problem struct {
	Line   int    `json:"line"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Report summarizes a run.
type Report struct {
	Rows     int       `json:"rows"`
	Skipped  int       `json:"skipped"`
	Problems []Problem `json:"problems"`
	// LastIDs is the highest canonical book ID seen per category letter.
	LastIDs map[string]string `json:"last_ids,omitempty"`
}

type column struct {
	name  string
	index int
	check func(string) (string, string)
}

// Run reads CSV from r, normalizes every cell and writes UTF-8 CSV to w.
// Blank lines and lines whose first cell starts with '#' are dropped.
func Run(r io.Reader, w io.Writer, opts Options) (*Report, error) {
	if !opts.Header && (opts.BookIDColumn != "" || opts.ISBNColumn != "" || opts.KatakanaColumn != "") {
		return nil, errors.New("column checks need a header row")
	}
	cr, err := glossary.NewCSVReader(r, opts.Encoding, opts.Delimiter)
	if err != nil {
		return nil, err
	}
	cr.FieldsPerRecord = -1
	cw := csv.NewWriter(w)

	report := &Report{Problems: []Problem{}}
	lastIDs := map[byte]string{}
	var checks []column

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		line, _ := cr.FieldPos(0)

		for i := range record {
			record[i] = jatext.Normalize(record[i])
		}

		if checks == nil && opts.Header {
			checks, err = resolveColumns(record, opts, lastIDs)
			if err != nil {
				return nil, err
			}
			if err := cw.Write(record); err != nil {
				return nil, errors.WithStack(err)
			}
			continue
		}
		if isSkipped(record) {
			report.Skipped++
			continue
		}

		for _, c := range checks {
			if c.index >= len(record) || record[c.index] == "" {
				continue
			}
			value, reason := c.check(record[c.index])
			if reason != "" {
				report.Problems = append(report.Problems, Problem{Line: line, Column: c.name, Value: record[c.index], Reason: reason})
				continue
			}
			record[c.index] = value
		}

		if err := cw.Write(record); err != nil {
			return nil, errors.WithStack(err)
		}
		report.Rows++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, errors.WithStack(err)
	}

	if len(lastIDs) > 0 {
		report.LastIDs = make(map[string]string, len(lastIDs))
		for cat, id := range lastIDs {
			report.LastIDs[string(cat)] = id
		}
	}
	return report, nil
}

func isSkipped(record []string) bool {
	if len(record) == 0 || strings.HasPrefix(record[0], "#") {
		return true
	}
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}

func resolveColumns(header []string, opts Options, lastIDs map[byte]string) ([]column, error) {
	checks := []column{}
	add := func(name string, check func(string) (string, string)) error {
		if name == "" {
			return nil
		}
		for i, h := range header {
			if h == name {
				checks = append(checks, column{name: name, index: i, check: check})
				return nil
			}
		}
		return errors.Errorf("column %q not found in header %v", name, header)
	}

	if err := add(opts.BookIDColumn, func(v string) (string, string) {
		id, err := identifier.NormalizeBookID(v)
		if err != nil {
			return "", "not a book ID"
		}
		if prev, ok := lastIDs[id[0]]; !ok || laterBookID(id, prev) {
			lastIDs[id[0]] = id
		}
		return id, ""
	}); err != nil {
		return nil, err
	}
	if err := add(opts.ISBNColumn, func(v string) (string, string) {
		isbn, err := identifier.NormalizeISBN(v)
		if err != nil {
			return "", "not an ISBN-13"
		}
		return isbn, ""
	}); err != nil {
		return nil, err
	}
	if err := add(opts.KatakanaColumn, func(v string) (string, string) {
		if !jatext.IsAllKatakanaOrSpace(v) {
			return "", "not katakana"
		}
		return v, ""
	}); err != nil {
		return nil, err
	}
	return checks, nil
}

// laterBookID compares canonical IDs of one category by their number, then
// sub-number.
func laterBookID(a, b string) bool {
	pa, sa := bookIDNumbers(a)
	pb, sb := bookIDNumbers(b)
	if pa != pb {
		return pa > pb
	}
	return sa > sb
}

func bookIDNumbers(id string) (primary, sub int) {
	p, s, _ := strings.Cut(id[1:], "-")
	primary, _ = strconv.Atoi(p)
	sub, _ = strconv.Atoi(s)
	return primary, sub
}
