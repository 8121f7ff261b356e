// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import "errors"

// ErrUnresolvable is returned by a Reasoner that cannot classify a class
// expression.
var ErrUnresolvable = errors.New("owlsim: class expression cannot be classified")

// Reasoner is the classification oracle used by the similarity engine.
// Returned nodes are maximal sets of equivalent named classes.
type Reasoner interface {
	// SuperClasses returns the named superclasses of ce, excluding
	// the node equivalent to ce. If direct is true, only the most
	// specific superclasses are returned.
	SuperClasses(ce ClassExpression, direct bool) ([]Node, error)

	// SubClasses returns the named subclasses of ce, excluding the
	// node equivalent to ce.
	SubClasses(ce ClassExpression, direct bool) ([]Node, error)

	// EquivalentClasses returns the node of named classes equivalent
	// to ce. The node is empty if there are none.
	EquivalentClasses(ce ClassExpression) (Node, error)

	// Types returns the named types of the individual.
	Types(individual string, direct bool) ([]Node, error)
}

// Ontology is a fixed ontology snapshot.
type Ontology interface {
	// Individuals returns the named individuals in the ontology.
	Individuals() []string

	// Classes returns the named classes in the ontology signature.
	Classes() []string

	// Label returns the label of the entity with the given IRI.
	Label(iri string) (string, bool)

	// Thing and Nothing return the IRIs of the top and bottom classes.
	Thing() string
	Nothing() string

	// Version returns a value that changes whenever the ontology
	// is mutated.
	Version() uint64
}

// AxiomKind is the kind of an emitted axiom.
type AxiomKind int

const (
	Declaration AxiomKind = iota
	EquivalentClasses
	LabelAnnotation
)

// Axiom is an axiom emitted into an output ontology.
type Axiom struct {
	Kind AxiomKind

	// Class is the subject class of the axiom.
	Class string

	// Equivalent is the expression equivalent to Class for an
	// EquivalentClasses axiom.
	Equivalent ClassExpression

	// Label is the literal text of a LabelAnnotation.
	Label string
}

// AxiomSink is the mutation surface of an output ontology.
type AxiomSink interface {
	AddAxioms(axioms ...Axiom) error
}

func flatten(nodes []Node) []string {
	var classes []string
	for _, n := range nodes {
		classes = append(classes, n.Classes()...)
	}
	return classes
}
