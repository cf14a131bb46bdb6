// Package config loads the pjstext configuration from a YAML file, with
// environment variable overrides.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// EnvPrefix prefixes the environment overrides: PJSTEXT_MAX_BATCH sets
// max_batch.
const EnvPrefix = "PJSTEXT_"

type Config struct {
	Addr            string        `koanf:"addr" default:":8421" validate:"required"`
	GlossaryDir     string        `koanf:"glossary_dir" default:"glossaries"`
	MaxBatch        int           `koanf:"max_batch" default:"100" validate:"gte=1,lte=10000"`
	MaxQueryLength  int           `koanf:"max_query_length" default:"256" validate:"gte=1"`
	CSVEncoding     string        `koanf:"csv_encoding" default:"utf-8"`
	ReadingEnabled  bool          `koanf:"reading_enabled" default:"true"`
	Placeholder     string        `koanf:"placeholder" default:"question" validate:"oneof=question dollar"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" default:"10s"`
}

func envKey(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
}

// Load reads the config at path, then the PJSTEXT_* environment. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", path)
			}
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
