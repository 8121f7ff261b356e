// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kortschak/owlsim"
)

var runName string

var enrichCmd = &cobra.Command{
	Use:   "enrich POPULATION SAMPLE_SET [ENRICHED_PARENT]",
	Short: "Test classes for enrichment",
	Long: "With two arguments, test SAMPLE_SET for enrichment against every subclass\n" +
		"of POPULATION. With three, test every subclass of SAMPLE_SET against every\n" +
		"subclass of ENRICHED_PARENT, applying the configured cutoffs.",
	Args: cobra.RangeArgs(2, 3),
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().StringVar(&runName, "run", "", "name results are stored under, defaults to the arguments")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	s, _, err := newEngine()
	if err != nil {
		return err
	}
	classes := iris(args)
	var results []owlsim.EnrichmentResult
	if len(classes) == 2 {
		results, err = s.Enrichment(cmd.Context(), classes[0], classes[1])
	} else {
		results, err = s.AllByAllEnrichment(cmd.Context(), classes[0], classes[1], classes[2])
	}
	if err != nil {
		return err
	}

	name := runName
	if name == "" {
		name = strings.Join(classes, " ")
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	err = db.PutEnrichment(name, results)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for _, r := range results {
		err = enc.Encode(r)
		if err != nil {
			return err
		}
	}
	return nil
}
