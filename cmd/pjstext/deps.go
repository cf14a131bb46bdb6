package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/tomokiyo/pjsbookshelf/pkg/api"
	"github.com/tomokiyo/pjsbookshelf/pkg/config"
	"github.com/tomokiyo/pjsbookshelf/pkg/glossary"
	"github.com/tomokiyo/pjsbookshelf/pkg/lookup"
	"github.com/tomokiyo/pjsbookshelf/pkg/reading"
)

// loadGlossaries loads the configured glossary directory. A missing
// directory gives an empty registry.
func loadGlossaries(cfg *config.Config) (*glossary.Registry, error) {
	reg := glossary.NewRegistry(cfg.GlossaryDir)
	if _, err := os.Stat(cfg.GlossaryDir); os.IsNotExist(err) {
		return reg, nil
	}
	if err := reg.Load(); err != nil {
		return nil, err
	}
	return reg, nil
}

func newReader(cfg *config.Config, reg *glossary.Registry) (*reading.Reader, error) {
	if !cfg.ReadingEnabled {
		return nil, nil
	}
	return reading.New(reading.WithOverrides(reg))
}

func buildDeps(cfg *config.Config) (api.Deps, error) {
	reg, err := loadGlossaries(cfg)
	if err != nil {
		return api.Deps{}, err
	}
	reader, err := newReader(cfg, reg)
	if err != nil {
		return api.Deps{}, err
	}
	style, err := lookup.ParsePlaceholder(cfg.Placeholder)
	if err != nil {
		return api.Deps{}, errors.WithStack(err)
	}
	return api.Deps{
		Glossary:       reg,
		Reader:         reader,
		MaxBatch:       cfg.MaxBatch,
		MaxQueryLength: cfg.MaxQueryLength,
		Placeholder:    style,
	}, nil
}
