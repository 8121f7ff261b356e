// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "owlsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
ontology: hp.nt.gz
workers: 4
cache_size: 1000
ignore_subclasses_of:
  - http://purl.obolibrary.org/obo/HP_0000005
upper_level:
  - <http://purl.obolibrary.org/obo/HP_0000118>
enrichment:
  p_value_corrected_cutoff: 0.05
log:
  level: debug
  format: console
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hp.nt.gz", cfg.Ontology)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 1000, cfg.CacheSize)
	assert.Equal(t, DefaultStore, cfg.Store)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	require.NotNil(t, cfg.Enrichment.PValueCorrectedCutoff)
	assert.Equal(t, 0.05, *cfg.Enrichment.PValueCorrectedCutoff)
	assert.Nil(t, cfg.Enrichment.AttributeInformationContentCutoff)

	opts := cfg.Options(zap.NewNop())
	assert.Equal(t, []string{"<http://purl.obolibrary.org/obo/HP_0000005>"}, opts.IgnoreSubClassesOf)
	assert.Equal(t, []string{"<http://purl.obolibrary.org/obo/HP_0000118>"}, opts.UpperLevel)
	assert.Equal(t, 1000, opts.CacheSize)
	require.NotNil(t, opts.Enrichment)
	assert.Equal(t, 0.05, *opts.Enrichment.PValueCorrectedCutoff)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultStore, cfg.Store)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Nil(t, cfg.Options(nil).Enrichment)
}

func TestLoadEnvironment(t *testing.T) {
	path := writeConfig(t, "workers: 4\n")
	t.Setenv("OWLSIM_WORKERS", "8")
	t.Setenv("OWLSIM_LOG_LEVEL", "warn")
	t.Setenv("OWLSIM_ENRICHMENT_ATTRIBUTE_IC_CUTOFF", "2.5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
	require.NotNil(t, cfg.Enrichment.AttributeInformationContentCutoff)
	assert.Equal(t, 2.5, *cfg.Enrichment.AttributeInformationContentCutoff)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfigFileNotFound)

	_, err = Load(writeConfig(t, "workers: [1, 2\n"))
	assert.ErrorIs(t, err, ErrConfigParse)

	for _, content := range []string{
		"workers: -1\n",
		"cache_size: -1\n",
		"enrichment:\n  p_value_corrected_cutoff: 2\n",
		"enrichment:\n  attribute_ic_cutoff: -1\n",
		"log:\n  level: verbose\n",
		"log:\n  format: xml\n",
	} {
		_, err = Load(writeConfig(t, content))
		assert.ErrorIs(t, err, ErrConfigValidation, "content: %q", content)
	}
}

func TestIRI(t *testing.T) {
	assert.Equal(t, "<ex:a>", IRI("ex:a"))
	assert.Equal(t, "<ex:a>", IRI("<ex:a>"))
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := NewLogger(LogConfig{Level: "debug", Format: format, OutputPaths: []string{filepath.Join(t.TempDir(), "log")}})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zap.DebugLevel))
	}
	assert.Equal(t, zap.InfoLevel, parseLevel("bogus"))
}
