package identifier

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
)

const (
	isbn13Length = 13
	isbn10Length = 10

	// checkX stands for the ISBN-10 check character 'X'.
	checkX = 10
)

// isbnDigits scans s, skipping hyphens and whitespace, and returns exactly
// size digit values. When allowX is set, 'X' is accepted as the last
// character and yields checkX.
func isbnDigits(s string, size int, allowX bool) ([]int, bool) {
	digits := make([]int, 0, size)
	for _, r := range s {
		switch {
		case r == '-' || jatext.IsWhitespace(r):
		case r >= '0' && r <= '9':
			if len(digits) == size {
				return nil, false
			}
			digits = append(digits, int(r-'0'))
		case r == 'X' && allowX && len(digits) == size-1:
			digits = append(digits, checkX)
		default:
			return nil, false
		}
	}
	return digits, len(digits) == size
}

func isbn13Check(digits []int) int {
	sum := 0
	for i, d := range digits[:12] {
		if i%2 == 0 {
			sum += d
		} else {
			sum += 3 * d
		}
	}
	return (10 - sum%10) % 10
}

func isbn10Check(digits []int) int {
	sum := 0
	for i, d := range digits[:9] {
		sum += d * (10 - i)
	}
	return (11 - sum%11) % 11
}

// IsValidISBN13 reports whether s holds 13 digits, optionally separated by
// hyphens or whitespace, with a correct check digit.
func IsValidISBN13(s string) bool {
	digits, ok := isbnDigits(s, isbn13Length, false)
	return ok && isbn13Check(digits) == digits[12]
}

// IsValidISBN10 reports whether s is a valid ISBN-10. The check character
// may be an upper-case 'X'.
func IsValidISBN10(s string) bool {
	digits, ok := isbnDigits(s, isbn10Length, true)
	return ok && isbn10Check(digits) == digits[9]
}

// IsValidISBN reports whether s is a valid ISBN-13 or ISBN-10.
func IsValidISBN(s string) bool {
	return IsValidISBN13(s) || IsValidISBN10(s)
}

// NormalizeISBN returns the 13 digits of a valid ISBN-13. ISBN-10 input is
// rejected: stored ISBNs are always ISBN-13. Use ToISBN13 to convert.
func NormalizeISBN(s string) (string, error) {
	n := jatext.Normalize(s)
	if !IsValidISBN13(n) {
		return "", errors.Wrapf(ErrInvalidIdentifier, "%q is not an ISBN-13", s)
	}
	return isbnChars(n), nil
}

// ToISBN13 returns the canonical ISBN-13 for a valid ISBN-13 or ISBN-10.
// An ISBN-10 gets the 978 prefix and a recomputed check digit.
func ToISBN13(s string) (string, error) {
	n := jatext.Normalize(s)
	if IsValidISBN13(n) {
		return isbnChars(n), nil
	}
	digits, ok := isbnDigits(n, isbn10Length, true)
	if !ok || isbn10Check(digits) != digits[9] {
		return "", errors.Wrapf(ErrInvalidIdentifier, "%q is not an ISBN", s)
	}
	converted := append([]int{9, 7, 8}, digits[:9]...)
	converted = append(converted, 0)
	converted[12] = isbn13Check(converted)

	var b strings.Builder
	b.Grow(isbn13Length)
	for _, d := range converted {
		b.WriteString(strconv.Itoa(d))
	}
	return b.String(), nil
}

// isbnChars keeps the digits and the check letter of an already validated
// ISBN.
func isbnChars(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == 'X' {
			return r
		}
		return -1
	}, s)
}
