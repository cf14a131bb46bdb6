package glossary

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// GobFile is the precompiled entry cache. When present it is loaded instead
// of the CSV data file.
const GobFile = "data.gob"

// gobCache is the on-disk cache. Normalize records the normalizer mode the
// keys were built with.
type gobCache struct {
	Normalize string
	Entries   map[string]*Entry
}

func (d *Dictionary) loadGob(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open gob file")
	}
	defer f.Close()

	var c gobCache
	if err := gob.NewDecoder(f).Decode(&c); err != nil {
		return errors.Wrap(err, "decode gob")
	}
	if d.Manifest != nil && c.Normalize != d.Manifest.CSV.Normalize {
		return errors.Errorf("stale cache %s: keys normalized with %q, manifest wants %q", path, c.Normalize, d.Manifest.CSV.Normalize)
	}
	d.Entries = c.Entries
	if d.Entries == nil {
		d.Entries = make(map[string]*Entry)
	}
	return nil
}

// SaveGob writes the entries of d to path. The file is replaced atomically so
// a concurrent reload never sees a partial cache.
func SaveGob(d *Dictionary, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".data-*.gob")
	if err != nil {
		return errors.Wrap(err, "create gob file")
	}
	defer os.Remove(tmp.Name())

	c := gobCache{Normalize: d.Manifest.CSV.Normalize, Entries: d.Entries}
	if err := gob.NewEncoder(tmp).Encode(&c); err != nil {
		tmp.Close()
		return errors.Wrap(err, "encode gob")
	}
	if err := tmp.Close(); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.Rename(tmp.Name(), path))
}
