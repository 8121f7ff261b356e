// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kortschak/owlsim"
	"github.com/kortschak/owlsim/internal/config"
	"github.com/kortschak/owlsim/internal/store"
)

var (
	configPath   string
	ontologyPath string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "owlsim",
	Short: "owlsim: ontology based semantic similarity and enrichment",
	Long: "Compute information content based similarity between annotated elements,\n" +
		"hypergeometric class enrichment and lowest common subsumer classes.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&ontologyPath, "ontology", "o", "", "N-Triples ontology, overrides the configuration")

	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(enrichCmd)
	rootCmd.AddCommand(lcsCmd)
}

func setup(*cobra.Command, []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if ontologyPath != "" {
		cfg.Ontology = ontologyPath
	}
	log, err = config.NewLogger(cfg.Log)
	return err
}

// loadOntology reads the N-Triples ontology at path, decompressing it if
// the path ends in .gz.
func loadOntology(path string) (*owlsim.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return owlsim.ReadGraph(r)
}

// newEngine loads the configured ontology and returns an engine over it
// with its attribute element index built, and the output ontology
// receiving synthesized classes.
func newEngine() (*owlsim.Sim, *owlsim.Graph, error) {
	if cfg.Ontology == "" {
		return nil, nil, errors.New("no ontology given")
	}
	g, err := loadOntology(cfg.Ontology)
	if err != nil {
		return nil, nil, err
	}
	log.Info("loaded ontology",
		zap.String("path", cfg.Ontology),
		zap.Int("classes", len(g.Classes())),
		zap.Int("individuals", len(g.Individuals())),
	)
	out := owlsim.NewGraphFor(g)
	opts := cfg.Options(log)
	opts.Output = out
	s := owlsim.New(g, g, opts)
	err = s.CreateElementAttributeMapFromOntology()
	if err != nil {
		return nil, nil, err
	}
	return s, out, nil
}

func openStore() (*store.Store, error) {
	return store.Open(cfg.Store)
}

func iris(args []string) []string {
	r := make([]string, len(args))
	for i, a := range args {
		r[i] = config.IRI(a)
	}
	return r
}
