// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// ErrInvalidDistribution is returned when hypergeometric parameters are
// inconsistent, for example when a sample is larger than its population.
var ErrInvalidDistribution = errors.New("owlsim: invalid hypergeometric distribution")

// hypergeometric is the distribution of the number of successes in draws
// taken without replacement from a population holding successes.
type hypergeometric struct {
	population int
	successes  int
	draws      int
}

func newHypergeometric(population, successes, draws int) (hypergeometric, error) {
	if population < 0 || successes < 0 || draws < 0 || successes > population || draws > population {
		return hypergeometric{}, fmt.Errorf("%w: population=%d successes=%d draws=%d",
			ErrInvalidDistribution, population, successes, draws)
	}
	return hypergeometric{population: population, successes: successes, draws: draws}, nil
}

// support returns the inclusive range of values with non-zero probability.
func (h hypergeometric) support() (lo, hi int) {
	return max(0, h.draws+h.successes-h.population), min(h.successes, h.draws)
}

func (h hypergeometric) logProb(x int) float64 {
	lo, hi := h.support()
	if x < lo || x > hi {
		return math.Inf(-1)
	}
	return combin.LogGeneralizedBinomial(float64(h.successes), float64(x)) +
		combin.LogGeneralizedBinomial(float64(h.population-h.successes), float64(h.draws-x)) -
		combin.LogGeneralizedBinomial(float64(h.population), float64(h.draws))
}

// prob returns P(X = x).
func (h hypergeometric) prob(x int) float64 {
	return math.Exp(h.logProb(x))
}

// cumulativeProbability returns P(x0 <= X <= x1).
func (h hypergeometric) cumulativeProbability(x0, x1 int) float64 {
	lo, hi := h.support()
	x0 = max(x0, lo)
	x1 = min(x1, hi)
	var p float64
	for x := x0; x <= x1; x++ {
		p += h.prob(x)
	}
	return math.Min(p, 1)
}
