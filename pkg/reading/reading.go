// Package reading derives katakana readings (furigana) for titles and names
// with the kagome morphological analyzer and the IPA dictionary.
package reading

import (
	"strings"
	"sync"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
	"github.com/pkg/errors"

	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
)

// Overrides supplies curated readings that win over the analyzer, such as
// author names the IPA dictionary reads wrongly.
type Overrides interface {
	Reading(term string) (string, bool)
}

// Option configures a Reader.
type Option func(*Reader)

// WithOverrides makes the Reader consult o before tokenizing.
func WithOverrides(o Overrides) Option {
	return func(r *Reader) {
		r.overrides = o
	}
}

// Reader produces katakana readings. A Reader is safe for concurrent use.
type Reader struct {
	tok       *tokenizer.Tokenizer
	overrides Overrides
}

// The IPA dictionary takes a moment and a fair amount of memory to load.
// Every Reader in the process shares one tokenizer.
var (
	ipaOnce sync.Once
	ipaTok  *tokenizer.Tokenizer
	ipaErr  error
)

func ipaTokenizer() (*tokenizer.Tokenizer, error) {
	ipaOnce.Do(func() {
		ipaTok, ipaErr = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		ipaErr = errors.Wrap(ipaErr, "failed to load IPA dictionary")
	})
	return ipaTok, ipaErr
}

// New returns a Reader backed by the shared IPA tokenizer, loading it on
// first use.
func New(opts ...Option) (*Reader, error) {
	tok, err := ipaTokenizer()
	if err != nil {
		return nil, err
	}
	r := &Reader{tok: tok}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// WithOverrides returns a copy of r that shares its tokenizer and consults o.
func (r *Reader) WithOverrides(o Overrides) *Reader {
	return &Reader{tok: r.tok, overrides: o}
}

func (r *Reader) override(term string) (string, bool) {
	if r.overrides == nil {
		return "", false
	}
	return r.overrides.Reading(term)
}

// Katakana returns the canonical katakana reading of text. An override for
// the whole text wins, then overrides for single tokens. Words nobody has a
// reading for keep their surface form, so "Java入門" reads "Javaニュウモン".
func (r *Reader) Katakana(text string) string {
	n := jatext.Normalize(text)
	if n == "" {
		return ""
	}
	if reading, ok := r.override(n); ok {
		return jatext.HiraganaToKatakana(reading)
	}
	var b strings.Builder
	b.Grow(len(n) * 2)
	for _, t := range r.tok.Tokenize(n) {
		if reading, ok := r.override(t.Surface); ok {
			b.WriteString(reading)
			continue
		}
		if reading, ok := t.Reading(); ok && reading != "" && reading != "*" {
			b.WriteString(reading)
			continue
		}
		b.WriteString(t.Surface)
	}
	return jatext.HiraganaToKatakana(b.String())
}

// Tokens returns the surface forms kagome splits text into, after
// normalization. Useful for explaining a reading.
func (r *Reader) Tokens(text string) []string {
	n := jatext.Normalize(text)
	if n == "" {
		return nil
	}
	toks := r.tok.Tokenize(n)
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Surface)
	}
	return out
}
