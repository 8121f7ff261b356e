// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// lcsOntology returns an ontology where X has six reflexive subsumers,
// Z has five and is similar to X, W has four and is dissimilar to X and Y
// has two. Each pair of leaves has a pair of these as lowest common
// subsumers.
func lcsOntology() *builder {
	return newBuilder().
		class("d").
		class("a", "d").
		class("b", "a").
		class("c", "b").
		class("X", "c").
		class("Z", "b").
		class("w3").
		class("w2", "w3").
		class("W", "w2").
		class("Y").
		class("XW1", "X", "W").
		class("XW2", "X", "W").
		class("XZ1", "X", "Z").
		class("XZ2", "X", "Z").
		class("XY1", "X", "Y").
		class("XY2", "X", "Y")
}

// upperLevelOntology returns an ontology where the leaves L1 and L2 have
// lowest common subsumers X with five reflexive subsumers and U with six,
// with an attribute Jaccard similarity of 4/7 between them.
func upperLevelOntology() *builder {
	return newBuilder().
		class("r").
		class("a", "r").
		class("b", "a").
		class("u2").
		class("U", "b", "u2").
		class("X", "b").
		class("L1", "X", "U").
		class("L2", "X", "U")
}

func TestLowestCommonSubsumerShortcuts(t *testing.T) {
	g := lcsOntology().g
	s := New(g, g, Options{})
	for _, test := range []struct {
		a, b, want string
	}{
		{a: "X", b: "X", want: "X"},
		{a: "X", b: "c", want: "c"},
		{a: "c", b: "X", want: "c"},
		{a: "X", b: "Z", want: "b"},
	} {
		got, ok, err := s.LowestCommonSubsumer(Class(iri(test.a)), Class(iri(test.b)))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, Class(iri(test.want)), got, "unexpected lcs for %s %s", test.a, test.b)
	}
}

func TestLowestCommonSubsumerSynthesis(t *testing.T) {
	for _, test := range []struct {
		name string
		ont  func() *builder
		a, b string
		opts Options
		want ClassExpression
	}{
		{
			name: "redundant",
			a:    "XZ1", b: "XZ2",
			want: Class(iri("X")),
		},
		{
			name: "too few ancestors",
			a:    "XY1", b: "XY2",
			want: Class(iri("X")),
		},
		{
			name: "intersection",
			a:    "XW1", b: "XW2",
			want: Intersection(Class(iri("W")), Class(iri("X"))),
		},
		{
			name: "upper level fallback",
			a:    "XW1", b: "XW2",
			opts: Options{UpperLevel: []string{iri("X"), iri("W")}},
			want: Class(iri("X")),
		},
		{
			name: "upper level",
			a:    "XW1", b: "XW2",
			opts: Options{UpperLevel: []string{iri("W")}},
			want: Class(iri("X")),
		},
		{
			// X is similar to the upper level class U, which has more
			// ancestors, but U is not a candidate once excluded.
			name: "redundant with upper level",
			ont:  upperLevelOntology,
			a:    "L1", b: "L2",
			opts: Options{UpperLevel: []string{iri("U")}},
			want: Class(iri("X")),
		},
		{
			name: "redundant with upper level unfiltered",
			ont:  upperLevelOntology,
			a:    "L1", b: "L2",
			want: Class(iri("U")),
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			ont := test.ont
			if ont == nil {
				ont = lcsOntology
			}
			g := ont().g
			s := New(g, g, test.opts)
			got, ok, err := s.LowestCommonSubsumer(Class(iri(test.a)), Class(iri(test.b)))
			require.NoError(t, err)
			assert.True(t, ok)
			assert.True(t, test.want.Equal(got), "unexpected lcs: got:%s want:%s", got, test.want)
		})
	}
}

func TestLowestCommonSubsumerClass(t *testing.T) {
	g := lcsOntology().
		label("W", "walking").
		label("X", "xeric").
		g
	out := NewGraphFor(g)
	s := New(g, g, Options{Output: out})

	c, ok, err := s.LowestCommonSubsumerClass(Class(iri("XW1")), Class(iri("XW2")))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<ex:W-X>", c)

	l, ok := out.Label(c)
	assert.True(t, ok)
	assert.Equal(t, "walking and xeric", l)

	eq, err := out.EquivalentClasses(Intersection(Class(iri("X")), Class(iri("W"))))
	require.NoError(t, err)
	assert.Equal(t, []string{c}, eq.Classes())

	// Repeated and reversed requests are served from the cache.
	v := out.Version()
	again, ok, err := s.LowestCommonSubsumerClass(Class(iri("XW2")), Class(iri("XW1")))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, c, again)
	assert.Equal(t, v, out.Version())

	// Named lowest common subsumers are returned without emission.
	c, ok, err = s.LowestCommonSubsumerClass(Class(iri("XZ1")), Class(iri("XZ2")))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, iri("X"), c)
	assert.Equal(t, v, out.Version())
}

func TestLowestCommonSubsumerClassLabels(t *testing.T) {
	for _, test := range []struct {
		name      string
		b         *builder
		wantLabel string
		labelled  bool
	}{
		{
			name: "unlabelled",
			b:    lcsOntology(),
		},
		{
			name:      "partially labelled",
			b:         lcsOntology().label("W", "walking"),
			wantLabel: "walking and ?<ex:X>",
			labelled:  true,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			out := NewGraphFor(test.b.g)
			s := New(test.b.g, test.b.g, Options{Output: out})
			c, ok, err := s.LowestCommonSubsumerClass(Class(iri("XW1")), Class(iri("XW2")))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, []string{c}, out.Classes()[:1])

			l, ok := out.Label(c)
			assert.Equal(t, test.labelled, ok)
			assert.Equal(t, test.wantLabel, l)
		})
	}
}

func TestLowestCommonSubsumerClassNoOutput(t *testing.T) {
	g := lcsOntology().g
	s := New(g, g, Options{})
	c, ok, err := s.LowestCommonSubsumerClass(Class(iri("XW1")), Class(iri("XW2")))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<ex:W-X>", c)
}

func TestLocalName(t *testing.T) {
	for _, test := range []struct {
		iri, want string
	}{
		{iri: "<ex:X>", want: "X"},
		{iri: "<http://purl.obolibrary.org/obo/HP_0000118>", want: "HP_0000118"},
		{iri: "<http://example.org/onto#Thing>", want: "Thing"},
		{iri: "<plain>", want: "plain"},
	} {
		assert.Equal(t, test.want, localName(test.iri))
	}
}

func TestOutputSharingSource(t *testing.T) {
	const msg = "output is the source ontology, synthesized classes will reset caches"
	g := lcsOntology().g

	core, logs := observer.New(zap.WarnLevel)
	New(g, g, Options{Output: NewGraphFor(g), Logger: zap.New(core)})
	assert.Equal(t, 0, logs.FilterMessage(msg).Len())

	New(g, g, Options{Output: g, Logger: zap.New(core)})
	assert.Equal(t, 1, logs.FilterMessage(msg).Len())

	// Synthesis into the source still emits each class once.
	s := New(g, g, Options{Output: g})
	c, ok, err := s.LowestCommonSubsumerClass(Class(iri("XW1")), Class(iri("XW2")))
	require.NoError(t, err)
	require.True(t, ok)
	v := g.Version()
	again, ok, err := s.LowestCommonSubsumerClass(Class(iri("XW1")), Class(iri("XW2")))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, c, again)
	assert.Equal(t, v, g.Version())
}
