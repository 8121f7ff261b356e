// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The owlsim command computes semantic similarity and enrichment over an
// N-Triples ontology and stores the results.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/kortschak/owlsim/cmd/owlsim/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
