// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var lcsCmd = &cobra.Command{
	Use:   "lcs [class...]",
	Short: "Synthesize lowest common subsumer classes",
	Long: "Compute the lowest common subsumer class of every pair of the given\n" +
		"classes, or of all attribute classes, and write the synthesized classes\n" +
		"as N-Triples.",
	RunE: runLCS,
}

func runLCS(cmd *cobra.Command, args []string) error {
	s, out, err := newEngine()
	if err != nil {
		return err
	}
	var classes []string
	if len(args) != 0 {
		classes = iris(args)
	}
	err = s.GenerateLowestCommonSubsumers(cmd.Context(), classes, classes)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	n, err := out.WriteTo(w)
	if err != nil {
		return err
	}
	log.Info("wrote output ontology", zap.String("path", cfg.Output), zap.Int64("bytes", n))
	return nil
}
