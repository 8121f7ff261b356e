// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for all settings.
const envPrefix = "OWLSIM"

// keys are the settings that may be given by environment variable without
// appearing in a configuration file.
var keys = []string{
	"ontology",
	"output",
	"store",
	"workers",
	"cache_size",
	"ignore_subclasses_of",
	"upper_level",
	"enrichment.p_value_corrected_cutoff",
	"enrichment.attribute_ic_cutoff",
	"log.level",
	"log.format",
	"log.output_paths",
}

// newViper returns a Viper reading YAML with OWLSIM_ environment
// overrides, mapping nested keys like "log.level" to OWLSIM_LOG_LEVEL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, k := range keys {
		// BindEnv only fails when given no key.
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the YAML file at path, merges OWLSIM_* environment overrides,
// applies defaults and validates the result. If path is empty only the
// environment is used.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		err := v.ReadInConfig()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %q", ErrConfigFileNotFound, path)
			}
			return nil, fmt.Errorf("%w: %q: %v", ErrConfigParse, path, err)
		}
	}
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	err := v.Unmarshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	ApplyDefaults(cfg)
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
