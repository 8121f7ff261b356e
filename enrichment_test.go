// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHypergeometric(t *testing.T) {
	h, err := newHypergeometric(20, 5, 4)
	require.NoError(t, err)

	// C(15,4)/C(20,4)
	assert.InDelta(t, 1365.0/4845.0, h.prob(0), 1e-12)
	assert.InDelta(t, 1.0, h.cumulativeProbability(0, 4), 1e-12)
	assert.InDelta(t, 1-1365.0/4845.0, h.cumulativeProbability(1, 4), 1e-12)
	assert.Equal(t, 0.0, h.prob(5))

	lo, hi := h.support()
	assert.Equal(t, []int{0, 4}, []int{lo, hi})

	h, err = newHypergeometric(10, 8, 5)
	require.NoError(t, err)
	lo, hi = h.support()
	assert.Equal(t, []int{3, 5}, []int{lo, hi})

	_, err = newHypergeometric(10, 11, 5)
	assert.ErrorIs(t, err, ErrInvalidDistribution)
	_, err = newHypergeometric(10, 5, -1)
	assert.ErrorIs(t, err, ErrInvalidDistribution)
}

// enrichmentOntology returns a population of 100 elements of Pop: 90 of O
// and 10 having both S and E.
func enrichmentOntology() *builder {
	b := newBuilder().
		class("Pop").
		class("O", "Pop").
		class("S", "Pop").
		class("E", "Pop")
	for i := 0; i < 90; i++ {
		b.element(fmt.Sprintf("o%02d", i), "O")
	}
	for i := 0; i < 10; i++ {
		b.element(fmt.Sprintf("s%02d", i), "S", "E")
	}
	return b
}

func TestPairwiseEnrichmentFullContainment(t *testing.T) {
	s := newTestSim(t, enrichmentOntology().g, nil, Options{})

	r, err := s.PairwiseEnrichment(iri("Pop"), iri("S"), iri("E"))
	require.NoError(t, err)

	// 1/C(100,10)
	want := 1 / 17310309456440.0
	assert.InEpsilon(t, want, r.PValue, 1e-6)
	assert.Less(t, r.PValue, 1e-10)

	cf, err := s.correctionFactor(iri("Pop"))
	require.NoError(t, err)
	assert.Equal(t, 3, cf)
	assert.LessOrEqual(t, r.PValueCorrected, r.PValue*float64(cf)*(1+1e-12))
}

func TestCorrectionFactorFloor(t *testing.T) {
	// No subclass of Pop has more than one element.
	g := newBuilder().
		class("Pop").
		class("S", "Pop").
		class("E", "Pop").
		element("e1", "S", "E").
		g
	s := newTestSim(t, g, nil, Options{})

	cf, err := s.correctionFactor(iri("Pop"))
	require.NoError(t, err)
	assert.Equal(t, 1, cf)

	r, err := s.PairwiseEnrichment(iri("Pop"), iri("S"), iri("E"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r.PValue, 1e-12)
	assert.Equal(t, r.PValue, r.PValueCorrected)
}

func TestAllByAllEnrichment(t *testing.T) {
	pCutoff := 0.05
	for _, test := range []struct {
		name string
		cfg  *EnrichmentConfig
		want [][2]string
	}{
		{
			name: "unfiltered",
			want: [][2]string{
				{"E", "S"}, {"E", "O"},
				{"O", "E"}, {"O", "S"},
				{"S", "E"}, {"S", "O"},
			},
		},
		{
			name: "p-value cutoff",
			cfg:  &EnrichmentConfig{PValueCorrectedCutoff: &pCutoff},
			want: [][2]string{{"E", "S"}, {"S", "E"}},
		},
		{
			name: "information content cutoff",
			cfg:  &EnrichmentConfig{AttributeInformationContentCutoff: ptr(4.0)},
		},
		{
			name: "both cutoffs",
			cfg: &EnrichmentConfig{
				PValueCorrectedCutoff:             &pCutoff,
				AttributeInformationContentCutoff: ptr(3.0),
			},
			want: [][2]string{{"E", "S"}, {"S", "E"}},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			s := newTestSim(t, enrichmentOntology().g, nil, Options{Enrichment: test.cfg})
			results, err := s.AllByAllEnrichment(context.Background(), iri("Pop"), iri("Pop"), iri("Pop"))
			require.NoError(t, err)

			var got [][2]string
			for _, r := range results {
				got = append(got, [2]string{short(r.SampleSetClass), short(r.EnrichedClass)})
			}
			assert.Equal(t, test.want, got)

			for i := 1; i < len(results); i++ {
				if results[i].SampleSetClass == results[i-1].SampleSetClass {
					assert.LessOrEqual(t, results[i-1].PValue, results[i].PValue)
				}
			}
		})
	}
}

func TestAllByAllEnrichmentSkipsRelatedClasses(t *testing.T) {
	b := enrichmentOntology().class("S2", "S")
	s := newTestSim(t, b.g, nil, Options{})
	results, err := s.AllByAllEnrichment(context.Background(), iri("Pop"), iri("Pop"), iri("Pop"))
	require.NoError(t, err)
	for _, r := range results {
		pair := [2]string{short(r.SampleSetClass), short(r.EnrichedClass)}
		assert.NotEqual(t, [2]string{"S", "S2"}, pair)
		assert.NotEqual(t, [2]string{"S2", "S"}, pair)
	}
}

func TestEnrichment(t *testing.T) {
	s := newTestSim(t, enrichmentOntology().g, nil, Options{})
	results, err := s.Enrichment(context.Background(), iri("Pop"), iri("S"))
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, iri("E"), results[0].EnrichedClass)
	assert.Equal(t, iri("S"), results[1].EnrichedClass)
	assert.Equal(t, iri("O"), results[2].EnrichedClass)
	assert.InDelta(t, 1.0, results[2].PValue, 1e-12)
	assert.False(t, math.IsNaN(results[0].PValue))
}

func TestEnrichmentCancelled(t *testing.T) {
	s := newTestSim(t, enrichmentOntology().g, nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.AllByAllEnrichment(ctx, iri("Pop"), iri("Pop"), iri("Pop"))
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Enrichment(ctx, iri("Pop"), iri("S"))
	assert.ErrorIs(t, err, context.Canceled)
}

func ptr[T any](v T) *T { return &v }

func short(iri string) string { return localName(iri) }
