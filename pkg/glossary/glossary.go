// Package glossary loads curated term lists (author names, publishers,
// series titles) with their readings, and matches normalized text against
// them.
//
// Each glossary lives in its own directory with a manifest.yaml and either a
// data.gob cache, a CSV data file, or a list of identifier patterns.
package glossary

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/tomokiyo/pjsbookshelf/pkg/jatext"
)

// PatternKey is the metadata key holding the name of the pattern that
// matched, for pattern glossaries.
const PatternKey = "pattern"

// Entry is the metadata stored for one glossary term.
type Entry struct {
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Dictionary is one loaded glossary, keyed by normalized term.
type Dictionary struct {
	Manifest *Manifest        `json:"manifest"`
	Entries  map[string]*Entry `json:"-"`

	// Collisions counts CSV rows whose normalized key repeated an earlier
	// row. The later row wins.
	Collisions int `json:"-"`

	normalize jatext.Normalizer
	patterns  *patternMatcher
}

func newDictionary(m *Manifest) *Dictionary {
	return &Dictionary{
		Manifest:  m,
		Entries:   make(map[string]*Entry),
		normalize: jatext.GetNormalizer(m.CSV.Normalize),
	}
}

// LoadDictionary loads the glossary in dir. Pattern glossaries compile their
// regexes; data glossaries read data.gob when present and the CSV otherwise.
func LoadDictionary(dir string) (*Dictionary, error) {
	m, err := LoadManifest(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	d := newDictionary(m)

	cache := filepath.Join(dir, GobFile)
	switch {
	case m.isPattern():
		d.patterns, err = compilePatterns(m.Patterns)
	case fileExists(cache):
		err = d.loadGob(cache)
	default:
		err = d.loadCSV(filepath.Join(dir, m.DataFile))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "glossary %s", m.ID)
	}
	return d, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Classify matches term against the patterns of a pattern glossary, or looks
// it up in a data glossary.
func (d *Dictionary) Classify(term string) (*Entry, bool) {
	if d.patterns == nil {
		return d.Lookup(term)
	}
	name, ok := d.patterns.match(term)
	if !ok {
		return nil, false
	}
	return &Entry{Metadata: map[string]string{PatternKey: name}}, true
}

// Lookup finds term after applying the glossary's normalizer.
func (d *Dictionary) Lookup(term string) (*Entry, bool) {
	e, ok := d.Entries[d.normalize(term)]
	return e, ok
}

// NewCSVReader wraps r in a CSV reader that decodes the named encoding.
// A UTF-8 byte order mark is dropped.
func NewCSVReader(r io.Reader, encoding, delimiter string) (*csv.Reader, error) {
	decoder := unicode.BOMOverride(transform.Nop)
	if !isUTF8(encoding) {
		e, err := htmlindex.Get(encoding)
		if err != nil {
			return nil, errors.Wrapf(err, "unsupported encoding %q", encoding)
		}
		decoder = e.NewDecoder()
	}

	cr := csv.NewReader(transform.NewReader(r, decoder))
	if delimiter != "" {
		cr.Comma = []rune(delimiter)[0]
	}
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return cr, nil
}

func isUTF8(enc string) bool {
	switch strings.ToLower(strings.ReplaceAll(enc, "-", "")) {
	case "", "utf8":
		return true
	}
	return false
}

// layout locates the key and metadata columns of a CSV glossary.
type layout struct {
	key  int
	meta map[string]int
}

func newLayout(m *Manifest, header []string) (layout, error) {
	l := layout{meta: make(map[string]int, len(m.Columns))}
	if col := m.CSV.KeyColumn; col != "" && header != nil {
		l.key = columnIndex(header, col)
		if l.key < 0 {
			return l, errors.Errorf("key column %q not in header %v", col, header)
		}
	}
	for _, c := range m.Columns {
		if i := columnIndex(header, c.Column); i >= 0 {
			l.meta[c.Name] = i
		}
	}
	return l, nil
}

// entry builds the entry for a record. Metadata values are stored in
// canonical form.
func (l layout) entry(record []string) *Entry {
	e := &Entry{}
	if len(l.meta) == 0 {
		return e
	}
	e.Metadata = make(map[string]string, len(l.meta))
	for name, i := range l.meta {
		if i < len(record) {
			e.Metadata[name] = jatext.Normalize(record[i])
		}
	}
	return e
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

func (d *Dictionary) loadCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open data file")
	}
	defer f.Close()

	format := d.Manifest.CSV
	r, err := NewCSVReader(f, format.Encoding, format.Delimiter)
	if err != nil {
		return err
	}

	var header []string
	if format.HasHeader {
		if header, err = r.Read(); err != nil {
			return errors.Wrap(err, "read header")
		}
	}
	l, err := newLayout(d.Manifest, header)
	if err != nil {
		return err
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read row")
		}
		if l.key >= len(record) {
			continue
		}
		key := d.normalize(record[l.key])
		if key == "" {
			continue
		}
		if _, dup := d.Entries[key]; dup {
			d.Collisions++
		}
		d.Entries[key] = l.entry(record)
	}
}
