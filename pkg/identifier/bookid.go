package identifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
)

// bookIDPattern is the book ID grammar: a category letter, a number and an
// optional sub-number.
var bookIDPattern = regexp.MustCompile(`^([A-Z])(\d{1,5})(?:-(\d{1,5}))?$`)

const (
	maxPrimary = 99999

	// MaxRangeSize bounds BookIDRange.
	MaxRangeSize = 1000
)

// prepareBookID normalizes s and upper-cases a leading ASCII letter.
func prepareBookID(s string) string {
	n := jatext.Normalize(s)
	if n != "" && n[0] >= 'a' && n[0] <= 'z' {
		n = strings.ToUpper(n[:1]) + n[1:]
	}
	return n
}

// IsBookID reports whether s, once normalized, is a book ID such as "A001"
// or "d1-4".
func IsBookID(s string) bool {
	return bookIDPattern.MatchString(prepareBookID(s))
}

type bookID struct {
	category  byte
	primary   int
	secondary int
	hasSub    bool
}

func parseBookID(s string) (bookID, error) {
	m := bookIDPattern.FindStringSubmatch(prepareBookID(s))
	if m == nil {
		return bookID{}, errors.Wrapf(ErrInvalidIdentifier, "%q is not a book ID", s)
	}
	// The grammar bounds both numbers to five digits, so Atoi cannot fail.
	id := bookID{category: m[1][0]}
	id.primary, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		id.secondary, _ = strconv.Atoi(m[3])
		id.hasSub = true
	}
	return id, nil
}

func (id bookID) String() string {
	if id.hasSub {
		return fmt.Sprintf("%c%03d-%02d", id.category, id.primary, id.secondary)
	}
	return fmt.Sprintf("%c%03d", id.category, id.primary)
}

// NormalizeBookID returns the canonical spelling of a book ID: upper-case
// category, number zero-padded to at least three digits, sub-number to at
// least two ("g1-4" -> "G001-04", "A1283-128" -> "A1283-128").
func NormalizeBookID(s string) (string, error) {
	id, err := parseBookID(s)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// BookIDRange returns n consecutive canonical book IDs starting at first,
// as printed on a barcode sheet. A sub-number on first is ignored.
func BookIDRange(first string, n int) ([]string, error) {
	if n < 1 || n > MaxRangeSize {
		return nil, errors.Errorf("range size %d out of bounds [1, %d]", n, MaxRangeSize)
	}
	start, err := parseBookID(first)
	if err != nil {
		return nil, err
	}
	if start.primary+n-1 > maxPrimary {
		return nil, errors.Wrapf(ErrInvalidIdentifier, "range of %d from %q exceeds %c%d", n, first, start.category, maxPrimary)
	}
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, bookID{category: start.category, primary: start.primary + i}.String())
	}
	return ids, nil
}

// RejectedLine is an input line that ParseBookIDList could not read.
type RejectedLine struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

// ParseBookIDList reads one book ID per line. Blank lines are skipped; lines
// that are not book IDs are returned in rejected with their 1-based number.
func ParseBookIDList(text string) (ids []string, rejected []RejectedLine) {
	for i, line := range strings.Split(text, "\n") {
		if jatext.IsAllWhitespace(line) {
			continue
		}
		id, err := NormalizeBookID(line)
		if err != nil {
			rejected = append(rejected, RejectedLine{Line: i + 1, Text: jatext.NormalizeSpace(line)})
			continue
		}
		ids = append(ids, id)
	}
	return ids, rejected
}
