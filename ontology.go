// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

func isIRI(v string) bool   { return strings.HasPrefix(v, "<") }
func isBlank(v string) bool { return strings.HasPrefix(v, "_:") }

// Individuals returns the named individuals of the ontology in sorted
// order. An individual is an IRI subject typed as owl:NamedIndividual or
// as an instance of a class.
func (g *Graph) Individuals() []string {
	return g.taxonomy().individuals
}

// Classes returns the named classes of the ontology in sorted order,
// excluding owl:Thing.
func (g *Graph) Classes() []string {
	t := g.taxonomy()
	classes := make([]string, 0, len(t.classes))
	for _, c := range t.classes {
		if c != t.vocab.thing {
			classes = append(classes, c)
		}
	}
	return classes
}

// Label returns the first literal rdfs:label of the entity.
func (g *Graph) Label(iri string) (string, bool) {
	for _, o := range g.objects(iri, g.vocab().label) {
		text, _, kind, err := rdf.Term{Value: o}.Parts()
		if err == nil && kind == rdf.Literal {
			return text, true
		}
	}
	return "", false
}

// Thing returns the IRI of owl:Thing in the graph's namespacing.
func (g *Graph) Thing() string { return g.vocab().thing }

// Nothing returns the IRI of owl:Nothing in the graph's namespacing.
func (g *Graph) Nothing() string { return g.vocab().nothing }

// AddAxioms adds the statements expressing the axioms to the graph.
// Axioms already present are not added again. Intersections are written
// as owl:intersectionOf RDF lists and may only hold named classes.
func (g *Graph) AddAxioms(axioms ...Axiom) error {
	for _, ax := range axioms {
		v := g.vocab()
		if !isIRI(ax.Class) {
			return fmt.Errorf("owlsim: axiom subject is not an IRI: %q", ax.Class)
		}
		switch ax.Kind {
		case Declaration:
			if !g.has(ax.Class, v.typ, v.class) {
				g.add(ax.Class, v.typ, v.class)
			}
		case EquivalentClasses:
			err := g.addEquivalence(ax.Class, ax.Equivalent)
			if err != nil {
				return err
			}
		case LabelAnnotation:
			lit, err := rdf.NewLiteralTerm(ax.Label, "")
			if err != nil {
				return fmt.Errorf("owlsim: invalid label for %s: %w", ax.Class, err)
			}
			if !g.has(ax.Class, v.label, lit.Value) {
				g.add(ax.Class, v.label, lit.Value)
			}
		default:
			return fmt.Errorf("owlsim: unknown axiom kind: %d", ax.Kind)
		}
	}
	return nil
}

func (g *Graph) addEquivalence(c string, x ClassExpression) error {
	v := g.vocab()
	switch x.Kind {
	case NamedClass:
		if !g.has(c, v.equivalentClass, x.IRI) {
			g.add(c, v.equivalentClass, x.IRI)
		}
		return nil
	case IntersectionOf:
		ops := make([]string, 0, len(x.Operands))
		for _, op := range x.Operands {
			if !op.IsNamed() {
				return fmt.Errorf("owlsim: cannot write intersection with anonymous operand: %s", x)
			}
			ops = append(ops, op.IRI)
		}
		if len(ops) == 0 {
			return fmt.Errorf("owlsim: empty intersection for %s", c)
		}
		for _, o := range g.objects(c, v.equivalentClass) {
			if isBlank(o) {
				// Already defined.
				return nil
			}
		}
		sort.Strings(ops)
		head := g.newBlank()
		g.add(c, v.equivalentClass, head)
		list := g.newBlank()
		g.add(head, v.intersectionOf, list)
		for i, op := range ops {
			g.add(list, v.first, op)
			next := v.nil
			if i < len(ops)-1 {
				next = g.newBlank()
			}
			g.add(list, v.rest, next)
			list = next
		}
		return nil
	default:
		return fmt.Errorf("owlsim: unsupported equivalent class expression: %s", x)
	}
}

// newBlank returns a blank node label not yet used in the graph.
func (g *Graph) newBlank() string {
	for {
		g.blanks++
		b := fmt.Sprintf("_:owlsim%d", g.blanks)
		if _, exists := g.termIDs[b]; !exists {
			return b
		}
	}
}

// intersectionOperands returns the named members of the owl:intersectionOf
// list hanging from the blank node b. It returns false if b is not an
// intersection of named classes.
func (g *Graph) intersectionOperands(b string, v vocabulary) ([]string, bool) {
	heads := g.objects(b, v.intersectionOf)
	if len(heads) != 1 {
		return nil, false
	}
	var ops []string
	seen := make(map[string]bool)
	for list := heads[0]; list != v.nil; {
		if seen[list] {
			return nil, false
		}
		seen[list] = true
		first := g.objects(list, v.first)
		rest := g.objects(list, v.rest)
		if len(first) != 1 || len(rest) != 1 || !isIRI(first[0]) {
			return nil, false
		}
		ops = append(ops, first[0])
		list = rest[0]
	}
	if len(ops) == 0 {
		return nil, false
	}
	sort.Strings(ops)
	return ops, true
}
