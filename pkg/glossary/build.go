package glossary

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the manifest name inside a glossary directory.
const ManifestFile = "manifest.yaml"

// WriteManifest validates m and writes it as YAML to dir/manifest.yaml,
// creating dir.
func WriteManifest(dir string, m *Manifest) error {
	if err := manifestValidator.Struct(m); err != nil {
		return errors.Wrap(err, "invalid manifest")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WithStack(err)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}
	return errors.WithStack(os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644))
}

// Compile reads the CSV data file of the glossary in dir and writes its
// entries to the gob cache, replacing any previous cache.
func Compile(dir string) (*Dictionary, error) {
	m, err := LoadManifest(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	if m.isPattern() {
		return nil, errors.Errorf("glossary %s is pattern based and has no data to compile", m.ID)
	}
	d := newDictionary(m)
	if err := d.loadCSV(filepath.Join(dir, m.DataFile)); err != nil {
		return nil, errors.Wrapf(err, "glossary %s", m.ID)
	}
	if err := SaveGob(d, filepath.Join(dir, GobFile)); err != nil {
		return nil, errors.Wrapf(err, "glossary %s", m.ID)
	}
	return d, nil
}
