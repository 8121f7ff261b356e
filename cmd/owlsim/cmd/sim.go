// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var workers int

var simCmd = &cobra.Command{
	Use:   "sim [element...]",
	Short: "Compare every pair of elements",
	Long: "Compute Jaccard, maximum information content and best match average\n" +
		"similarity for every pair of the given elements, or of all elements.",
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent comparisons, overrides the configuration")
}

func runSim(cmd *cobra.Command, args []string) error {
	s, _, err := newEngine()
	if err != nil {
		return err
	}
	if workers == 0 {
		workers = cfg.Workers
	}
	var elements []string
	if len(args) != 0 {
		elements = iris(args)
	}
	results, err := s.AllByAllSimilarity(cmd.Context(), elements, workers)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	err = db.PutSimilarity(results...)
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
