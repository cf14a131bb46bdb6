// Package identifier validates and canonicalizes the identifiers used by the
// library: ISBN-10, ISBN-13 and shelf book IDs such as "A001-01".
package identifier

import (
	"github.com/pkg/errors"

	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
)

// ErrInvalidIdentifier is returned, wrapped, whenever a value fails ISBN or
// book ID validation. Test for it with errors.Is.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Kind names an identifier family.
type Kind string

const (
	KindISBN13 Kind = "isbn13"
	KindISBN10 Kind = "isbn10"
	KindBookID Kind = "book_id"
)

// Identifier is a validated identifier in canonical form. The zero value is
// not a valid identifier; use Parse, ParseISBN or ParseBookID.
type Identifier struct {
	Kind      Kind   `json:"kind"`
	Canonical string `json:"canonical"`
}

func (id Identifier) String() string {
	return id.Canonical
}

// ParseISBN validates s as an ISBN-13 or ISBN-10 and returns it with hyphens
// and spaces removed.
func ParseISBN(s string) (Identifier, error) {
	n := jatext.Normalize(s)
	switch {
	case IsValidISBN13(n):
		return Identifier{Kind: KindISBN13, Canonical: isbnChars(n)}, nil
	case IsValidISBN10(n):
		return Identifier{Kind: KindISBN10, Canonical: isbnChars(n)}, nil
	}
	return Identifier{}, errors.Wrapf(ErrInvalidIdentifier, "%q is not an ISBN", s)
}

// ParseBookID validates s as a book ID and returns its canonical form.
func ParseBookID(s string) (Identifier, error) {
	canonical, err := NormalizeBookID(s)
	if err != nil {
		return Identifier{}, err
	}
	return Identifier{Kind: KindBookID, Canonical: canonical}, nil
}

// Parse recognizes any supported identifier.
func Parse(s string) (Identifier, error) {
	kind, ok := Detect(s)
	if !ok {
		return Identifier{}, errors.Wrapf(ErrInvalidIdentifier, "%q is neither an ISBN nor a book ID", s)
	}
	if kind == KindBookID {
		return ParseBookID(s)
	}
	return ParseISBN(s)
}
