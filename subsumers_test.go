// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReflexiveSubsumers(t *testing.T) {
	s := newTestSim(t, scenarioOne().g, nil, Options{})

	rs, err := s.ReflexiveSubsumers(Class(iri("B")))
	require.NoError(t, err)
	assert.Equal(t, []string{iri("A"), iri("B"), thing}, rs.Representatives())

	// The returned set is a copy.
	delete(rs, iri("A"))
	rs, err = s.ReflexiveSubsumers(Class(iri("B")))
	require.NoError(t, err)
	assert.True(t, rs.Has(iri("A")))
}

func TestSubsumerSymmetryAndReflexivity(t *testing.T) {
	s := newTestSim(t, scenarioOne().g, nil, Options{})
	classes := []string{iri("A"), iri("B"), iri("C"), thing}
	for _, a := range classes {
		rs, err := s.ReflexiveSubsumers(Class(a))
		require.NoError(t, err)
		assert.True(t, rs.HasClass(a), "%s not in own subsumers", a)

		j, err := s.AttributeJaccardSimilarity(Class(a), Class(a))
		require.NoError(t, err)
		assert.Equal(t, 1.0, j)

		for _, b := range classes {
			ab, err := s.CommonSubsumers(Class(a), Class(b))
			require.NoError(t, err)
			ba, err := s.CommonSubsumers(Class(b), Class(a))
			require.NoError(t, err)
			assert.Equal(t, ab.Representatives(), ba.Representatives())

			jab, err := s.AttributeJaccardSimilarity(Class(a), Class(b))
			require.NoError(t, err)
			jba, err := s.AttributeJaccardSimilarity(Class(b), Class(a))
			require.NoError(t, err)
			assert.Equal(t, jab, jba)
		}
	}
}

func TestLowestCommonSubsumersValidity(t *testing.T) {
	g := newBuilder().
		class("X", "c").
		class("c", "b").
		class("b", "a").
		class("a").
		class("Z", "b").
		class("W", "w").
		class("w").
		class("L1", "X", "W").
		class("L2", "X", "W", "Z").
		g
	s := New(g, g, Options{})
	classes := g.Classes()
	for _, a := range classes {
		for _, b := range classes {
			cs, err := s.CommonSubsumers(Class(a), Class(b))
			require.NoError(t, err)
			lcs, err := s.LowestCommonSubsumers(Class(a), Class(b))
			require.NoError(t, err)
			require.NotEmpty(t, lcs)
			for x := range lcs {
				assert.True(t, cs.Has(x), "%s not a common subsumer of %s and %s", x, a, b)
				rs, err := s.ReflexiveSubsumers(Class(x))
				require.NoError(t, err)
				for y := range lcs {
					if x != y {
						assert.False(t, rs.Has(y), "%s and %s are related in lcs(%s, %s)", x, y, a, b)
					}
				}
			}
		}
	}

	lcs, err := s.LowestCommonSubsumers(Class(iri("L1")), Class(iri("L2")))
	require.NoError(t, err)
	assert.Equal(t, []string{iri("W"), iri("X")}, lcs.Representatives())
}

func TestScenarioOneLowestCommonSubsumers(t *testing.T) {
	s := newTestSim(t, scenarioOne().g, nil, Options{})

	lcs, err := s.LowestCommonSubsumers(Class(iri("B")), Class(iri("B")))
	require.NoError(t, err)
	assert.Equal(t, []string{iri("B")}, lcs.Representatives())

	cs, err := s.ElementCommonSubsumers(iri("e1"), iri("e2"))
	require.NoError(t, err)
	assert.Equal(t, []string{iri("A"), iri("B"), thing}, cs.Representatives())

	j, err := s.ElementJaccardSimilarity(iri("e1"), iri("e2"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, j)

	j, err = s.ElementJaccardSimilarity(iri("e1"), iri("e5"))
	require.NoError(t, err)
	assert.Equal(t, 0.25, j)
}

func TestCachedOperationsAreIdempotent(t *testing.T) {
	g := scenarioOne().g
	r := &countingReasoner{Reasoner: g}
	s := newTestSim(t, g, r, Options{})
	a, b := Class(iri("B")), Class(iri("C"))

	for _, test := range []struct {
		name string
		call func() (any, error)
	}{
		{name: "reflexive subsumers", call: func() (any, error) { return s.ReflexiveSubsumers(a) }},
		{name: "lowest common subsumers", call: func() (any, error) { return s.LowestCommonSubsumers(a, b) }},
		{name: "lowest common subsumer ic", call: func() (any, error) { return s.LowestCommonSubsumerIC(a, b) }},
	} {
		t.Run(test.name, func(t *testing.T) {
			first, err := test.call()
			require.NoError(t, err)
			n := r.calls.Load()
			second, err := test.call()
			require.NoError(t, err)
			assert.Equal(t, first, second)
			assert.Equal(t, n, r.calls.Load(), "unexpected oracle queries")
		})
	}
}

func TestCachedSizeBound(t *testing.T) {
	g := scenarioOne().g
	s := newTestSim(t, g, nil, Options{CacheSize: 2})
	for _, c := range []string{"A", "B", "C"} {
		_, err := s.ReflexiveSubsumers(Class(iri(c)))
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, s.superclasses.len(), 2)
}

func TestReasonerErrorsPropagate(t *testing.T) {
	g := scenarioOne().g
	errBoom := errors.New("boom")
	s := newTestSim(t, g, failingReasoner{Reasoner: g, err: errBoom}, Options{})

	_, err := s.ReflexiveSubsumers(Class(iri("A")))
	assert.ErrorIs(t, err, errBoom)

	_, err = s.LowestCommonSubsumerIC(Class(iri("A")), Class(iri("B")))
	assert.ErrorIs(t, err, errBoom)

	_, err = s.SimilarityMaxIC(iri("e1"), iri("e2"))
	assert.ErrorIs(t, err, errBoom)
}

func TestUnresolvableExpression(t *testing.T) {
	s := newTestSim(t, scenarioOne().g, nil, Options{})
	_, err := s.ReflexiveSubsumers(Some(iri("part_of"), Class(iri("A"))))
	assert.ErrorIs(t, err, ErrUnresolvable)
}

func TestOntologyChangeResetsCaches(t *testing.T) {
	b := scenarioOne()
	s := newTestSim(t, b.g, nil, Options{})

	rs, err := s.ReflexiveSubsumers(Class(iri("B")))
	require.NoError(t, err)
	assert.False(t, rs.Has(iri("D")))

	b.class("D").class("A", "D")

	rs, err = s.ReflexiveSubsumers(Class(iri("B")))
	require.NoError(t, err)
	assert.True(t, rs.Has(iri("D")))
}

func TestReset(t *testing.T) {
	g := scenarioOne().g
	r := &countingReasoner{Reasoner: g}
	s := newTestSim(t, g, r, Options{})

	_, err := s.ReflexiveSubsumers(Class(iri("B")))
	require.NoError(t, err)
	s.SetCorpusSize(100)

	s.Reset()
	assert.Equal(t, 8, s.CorpusSize())
	n := r.calls.Load()
	_, err = s.ReflexiveSubsumers(Class(iri("B")))
	require.NoError(t, err)
	assert.Greater(t, r.calls.Load(), n)
}
