// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const thing = "<owl:Thing>"

func iri(name string) string { return "<ex:" + name + ">" }

// builder builds locally namespaced test ontologies.
type builder struct {
	g *Graph
}

func newBuilder() *builder { return &builder{g: NewGraph()} }

func (b *builder) class(name string, parents ...string) *builder {
	v := localVocabulary
	b.g.add(iri(name), v.typ, v.class)
	for _, p := range parents {
		b.g.add(iri(name), v.subClassOf, iri(p))
	}
	return b
}

func (b *builder) equivalent(name, other string) *builder {
	b.g.add(iri(name), localVocabulary.equivalentClass, iri(other))
	return b
}

func (b *builder) element(name string, types ...string) *builder {
	v := localVocabulary
	b.g.add(iri(name), v.typ, v.namedIndividual)
	for _, t := range types {
		b.g.add(iri(name), v.typ, iri(t))
	}
	return b
}

func (b *builder) label(name, label string) *builder {
	err := b.g.AddAxioms(Axiom{Kind: LabelAnnotation, Class: iri(name), Label: label})
	if err != nil {
		panic(err)
	}
	return b
}

// scenarioOne returns an ontology with A, B subclass of A and C, and eight
// elements: two of B, two of A and four of C. IC(A) is 1 and IC(B) is 2.
func scenarioOne() *builder {
	b := newBuilder().
		class("A").
		class("B", "A").
		class("C").
		element("e1", "B").
		element("e2", "B").
		element("e3", "A").
		element("e4", "A")
	for i := 5; i <= 8; i++ {
		b.element(fmt.Sprintf("e%d", i), "C")
	}
	return b
}

func newTestSim(t *testing.T, g *Graph, r Reasoner, opts Options) *Sim {
	t.Helper()
	if r == nil {
		r = g
	}
	s := New(g, r, opts)
	require.NoError(t, s.CreateElementAttributeMapFromOntology())
	return s
}

// countingReasoner counts queries made to the wrapped reasoner.
type countingReasoner struct {
	Reasoner
	calls atomic.Int64
}

func (r *countingReasoner) SuperClasses(ce ClassExpression, direct bool) ([]Node, error) {
	r.calls.Add(1)
	return r.Reasoner.SuperClasses(ce, direct)
}

func (r *countingReasoner) SubClasses(ce ClassExpression, direct bool) ([]Node, error) {
	r.calls.Add(1)
	return r.Reasoner.SubClasses(ce, direct)
}

func (r *countingReasoner) EquivalentClasses(ce ClassExpression) (Node, error) {
	r.calls.Add(1)
	return r.Reasoner.EquivalentClasses(ce)
}

func (r *countingReasoner) Types(individual string, direct bool) ([]Node, error) {
	r.calls.Add(1)
	return r.Reasoner.Types(individual, direct)
}

// failingReasoner fails all class queries while answering type queries
// from the wrapped reasoner.
type failingReasoner struct {
	Reasoner
	err error
}

func (r failingReasoner) SuperClasses(ClassExpression, bool) ([]Node, error) {
	return nil, r.err
}

func (r failingReasoner) SubClasses(ClassExpression, bool) ([]Node, error) {
	return nil, r.err
}

func (r failingReasoner) EquivalentClasses(ClassExpression) (Node, error) {
	return Node{}, r.err
}
