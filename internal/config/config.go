// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides configuration loading, defaults and validation
// for the owlsim batch runner.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kortschak/owlsim"
)

// Default values applied to unset fields.
const (
	DefaultCacheSize = 0
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultStore     = "owlsim.db"
)

var (
	// ErrConfigFileNotFound is returned when the named configuration
	// file does not exist.
	ErrConfigFileNotFound = errors.New("config: file not found")

	// ErrConfigParse is returned when the configuration cannot be
	// parsed.
	ErrConfigParse = errors.New("config: parse error")

	// ErrConfigValidation is returned when the configuration holds
	// invalid values.
	ErrConfigValidation = errors.New("config: validation failed")
)

// Config is the runner configuration.
type Config struct {
	// Ontology is the path of the N-Triples ontology to load.
	// Paths ending in .gz are decompressed.
	Ontology string `mapstructure:"ontology"`

	// Output is the path the output ontology holding synthesized
	// classes is written to. Empty means standard output.
	Output string `mapstructure:"output"`

	// Store is the path of the result database.
	Store string `mapstructure:"store"`

	// Workers is the number of concurrent comparisons. Zero
	// means GOMAXPROCS.
	Workers int `mapstructure:"workers"`

	CacheSize int `mapstructure:"cache_size"`

	IgnoreSubClassesOf []string `mapstructure:"ignore_subclasses_of"`
	UpperLevel         []string `mapstructure:"upper_level"`

	Enrichment EnrichmentConfig `mapstructure:"enrichment"`

	Log LogConfig `mapstructure:"log"`
}

// EnrichmentConfig holds enrichment result cutoffs.
type EnrichmentConfig struct {
	PValueCorrectedCutoff             *float64 `mapstructure:"p_value_corrected_cutoff"`
	AttributeInformationContentCutoff *float64 `mapstructure:"attribute_ic_cutoff"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `mapstructure:"level"`

	// Format is json or console.
	Format string `mapstructure:"format"`

	OutputPaths []string `mapstructure:"output_paths"`
}

// ApplyDefaults fills zero-value fields in cfg with defaults.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Store == "" {
		cfg.Store = DefaultStore
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Validate returns an error wrapping ErrConfigValidation if cfg holds an
// invalid value.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative: %d", ErrConfigValidation, cfg.Workers)
	case cfg.CacheSize < 0:
		return fmt.Errorf("%w: cache_size must not be negative: %d", ErrConfigValidation, cfg.CacheSize)
	}
	if p := cfg.Enrichment.PValueCorrectedCutoff; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("%w: p_value_corrected_cutoff out of range: %g", ErrConfigValidation, *p)
	}
	if ic := cfg.Enrichment.AttributeInformationContentCutoff; ic != nil && *ic < 0 {
		return fmt.Errorf("%w: attribute_ic_cutoff must not be negative: %g", ErrConfigValidation, *ic)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level: %q", ErrConfigValidation, cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: unknown log format: %q", ErrConfigValidation, cfg.Log.Format)
	}
	return nil
}

// Options returns the engine options described by cfg. The caller sets
// the output sink.
func (cfg *Config) Options(log *zap.Logger) owlsim.Options {
	opts := owlsim.Options{
		IgnoreSubClassesOf: iris(cfg.IgnoreSubClassesOf),
		UpperLevel:         iris(cfg.UpperLevel),
		CacheSize:          cfg.CacheSize,
		Logger:             log,
	}
	e := cfg.Enrichment
	if e.PValueCorrectedCutoff != nil || e.AttributeInformationContentCutoff != nil {
		opts.Enrichment = &owlsim.EnrichmentConfig{
			PValueCorrectedCutoff:             e.PValueCorrectedCutoff,
			AttributeInformationContentCutoff: e.AttributeInformationContentCutoff,
		}
	}
	return opts
}

func iris(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	r := make([]string, len(s))
	for i, v := range s {
		r[i] = IRI(v)
	}
	return r
}

// IRI returns v in angle bracketed term form, adding the brackets if they
// are missing.
func IRI(v string) string {
	if len(v) >= 2 && v[0] == '<' && v[len(v)-1] == '>' {
		return v
	}
	return "<" + v + ">"
}
