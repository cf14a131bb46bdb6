package glossary

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// ReadingKey is the metadata column holding a term's katakana reading.
const ReadingKey = "reading"

// Registry holds all loaded glossaries.
type Registry struct {
	mu    sync.RWMutex
	dicts map[string]*Dictionary
	dir   string
}

// NewRegistry creates an empty registry rooted at dir. Each subdirectory of
// dir that carries a manifest.yaml is one glossary.
func NewRegistry(dir string) *Registry {
	return &Registry{
		dicts: make(map[string]*Dictionary),
		dir:   dir,
	}
}

// Load scans the directory and loads every glossary. On error the previously
// loaded set is kept.
func (r *Registry) Load() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return errors.Wrapf(err, "read glossary dir %s", r.dir)
	}

	loaded := make(map[string]*Dictionary)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.dir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, ManifestFile)); err != nil {
			continue
		}
		d, err := LoadDictionary(dir)
		if err != nil {
			return errors.Wrapf(err, "load glossary %s", entry.Name())
		}
		loaded[d.Manifest.ID] = d
	}

	r.mu.Lock()
	r.dicts = loaded
	r.mu.Unlock()
	return nil
}

// Reload re-reads every glossary from disk.
func (r *Registry) Reload() error {
	return r.Load()
}

// Match is one glossary hit.
type Match struct {
	DictID     string            `json:"dict_id"`
	EntityType string            `json:"entity_type"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Options filter which glossaries a lookup consults. Empty slices mean all.
type Options struct {
	Types []string
	Dicts []string
}

func (o *Options) allows(m *Manifest) bool {
	if o == nil {
		return true
	}
	if len(o.Types) > 0 && !slices.Contains(o.Types, m.EntityType) {
		return false
	}
	if len(o.Dicts) > 0 && !slices.Contains(o.Dicts, m.ID) {
		return false
	}
	return true
}

// Lookup matches term against every allowed glossary, in glossary ID order.
// The result is never nil.
func (r *Registry) Lookup(term string, opts *Options) []Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := []Match{}
	for _, id := range r.sortedIDs() {
		d := r.dicts[id]
		if !opts.allows(d.Manifest) {
			continue
		}
		entry, ok := d.Classify(term)
		if !ok {
			continue
		}
		matches = append(matches, Match{
			DictID:     d.Manifest.ID,
			EntityType: d.Manifest.EntityType,
			Metadata:   entry.Metadata,
		})
	}
	return matches
}

// Reading returns the reading recorded for term by the first glossary, in ID
// order, that has one.
func (r *Registry) Reading(term string) (string, bool) {
	for _, m := range r.Lookup(term, nil) {
		if reading := m.Metadata[ReadingKey]; reading != "" {
			return reading, true
		}
	}
	return "", false
}

// DictInfo is the public metadata for a loaded glossary.
type DictInfo struct {
	ID         string `json:"id"`
	Version    string `json:"version"`
	EntityType string `json:"entity_type"`
	Source     string `json:"source"`
	SourceURL  string `json:"source_url,omitempty"`
	License    string `json:"license"`
	Entries    int    `json:"entries"`
}

// ListDicts returns metadata for all loaded glossaries, sorted by ID.
func (r *Registry) ListDicts() []DictInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]DictInfo, 0, len(r.dicts))
	for _, id := range r.sortedIDs() {
		infos = append(infos, r.dicts[id].info())
	}
	return infos
}

// Dict returns the metadata of the glossary with the given ID.
func (r *Registry) Dict(id string) (DictInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.dicts[id]
	if !ok {
		return DictInfo{}, false
	}
	return d.info(), true
}

func (d *Dictionary) info() DictInfo {
	return DictInfo{
		ID:         d.Manifest.ID,
		Version:    d.Manifest.Version,
		EntityType: d.Manifest.EntityType,
		Source:     d.Manifest.Source,
		SourceURL:  d.Manifest.SourceURL,
		License:    d.Manifest.License,
		Entries:    len(d.Entries),
	}
}

// DictCount returns the number of loaded glossaries.
func (r *Registry) DictCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dicts)
}

// TotalEntries returns the number of entries across all glossaries.
func (r *Registry) TotalEntries() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, d := range r.dicts {
		total += len(d.Entries)
	}
	return total
}

// callers hold r.mu.
func (r *Registry) sortedIDs() []string {
	ids := make([]string, 0, len(r.dicts))
	for id := range r.dicts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
