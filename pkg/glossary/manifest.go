package glossary

import (
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Glossary methods. An empty method means csv.
const (
	MethodCSV     = "csv"
	MethodPattern = "pattern"
)

// Manifest is the manifest.yaml of a glossary directory.
type Manifest struct {
	ID         string `yaml:"id" json:"id" validate:"required"`
	Version    string `yaml:"version" json:"version"`
	EntityType string `yaml:"entity_type" json:"entity_type" validate:"required"`
	Source     string `yaml:"source" json:"source"`
	SourceURL  string `yaml:"source_url" json:"source_url,omitempty"`
	License    string `yaml:"license" json:"license"`
	DataFile   string `yaml:"data_file" json:"data_file" default:"data.csv"`
	Method     string `yaml:"method" json:"method,omitempty" validate:"omitempty,oneof=csv pattern"`

	CSV      CSVFormat       `yaml:"format" json:"-"`
	Columns  []ColumnMapping `yaml:"metadata_columns" json:"-" validate:"dive"`
	Patterns []PatternRule   `yaml:"patterns" json:"patterns,omitempty" validate:"dive"`
}

// PatternRule is one named regex of a pattern glossary. Validator, when set,
// names an identifier check the match must also pass.
type PatternRule struct {
	Name      string `yaml:"name" json:"name" validate:"required"`
	Regex     string `yaml:"regex" json:"regex" validate:"required"`
	Validator string `yaml:"validator,omitempty" json:"validator,omitempty"`
}

type CSVFormat struct {
	Delimiter string `yaml:"delimiter" default:","`
	Encoding  string `yaml:"encoding" default:"utf-8"`
	HasHeader bool   `yaml:"has_header"`
	KeyColumn string `yaml:"key_column"`
	Normalize string `yaml:"normalize" default:"canonical" validate:"oneof=canonical katakana hiragana fold none"`
}

// ColumnMapping copies CSV column Column into entry metadata under Name.
type ColumnMapping struct {
	Name   string `yaml:"name" validate:"required"`
	Column string `yaml:"column" validate:"required"`
}

func (m *Manifest) isPattern() bool {
	return m.Method == MethodPattern
}

var manifestValidator = validator.New()

// LoadManifest reads the manifest at path, fills defaults and validates it.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read manifest %s", path)
	}
	m := &Manifest{}
	if err := defaults.Set(m); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, errors.Wrapf(err, "parse manifest %s", path)
	}
	if err := manifestValidator.Struct(m); err != nil {
		return nil, errors.Wrapf(err, "invalid manifest %s", path)
	}
	return m, nil
}
