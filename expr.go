// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"sort"
	"strings"
)

// ExprKind is the kind of a class expression.
type ExprKind int

const (
	NamedClass ExprKind = iota
	IntersectionOf
	SomeValuesFrom
)

// ClassExpression is a named class or a boolean or existential combination
// of class expressions. IRIs are held in the rdf.Term Value form, for
// example "<obo:HP_0000001>".
type ClassExpression struct {
	Kind ExprKind

	// IRI is the class IRI for a NamedClass.
	IRI string

	// Property is the object property of a SomeValuesFrom
	// restriction.
	Property string

	// Operands holds the conjuncts of an IntersectionOf and
	// the single filler of a SomeValuesFrom.
	Operands []ClassExpression
}

// Class returns the named class expression for iri.
func Class(iri string) ClassExpression {
	return ClassExpression{Kind: NamedClass, IRI: iri}
}

// Intersection returns the intersection of the given operands.
func Intersection(operands ...ClassExpression) ClassExpression {
	return ClassExpression{Kind: IntersectionOf, Operands: operands}
}

// Some returns the existential restriction of property to filler.
func Some(property string, filler ClassExpression) ClassExpression {
	return ClassExpression{Kind: SomeValuesFrom, Property: property, Operands: []ClassExpression{filler}}
}

// IsNamed returns whether c is a named class.
func (c ClassExpression) IsNamed() bool { return c.Kind == NamedClass }

// Key returns a canonical string for c. Two expressions with equal keys
// are the same expression; intersection operand order is not significant.
func (c ClassExpression) Key() string {
	switch c.Kind {
	case NamedClass:
		return c.IRI
	case IntersectionOf:
		keys := make([]string, len(c.Operands))
		for i, op := range c.Operands {
			keys[i] = op.Key()
		}
		sort.Strings(keys)
		return "ObjectIntersectionOf(" + strings.Join(keys, " ") + ")"
	case SomeValuesFrom:
		var filler string
		if len(c.Operands) != 0 {
			filler = c.Operands[0].Key()
		}
		return "ObjectSomeValuesFrom(" + c.Property + " " + filler + ")"
	default:
		panic("owlsim: invalid class expression kind")
	}
}

func (c ClassExpression) String() string { return c.Key() }

// Equal returns whether c and d are the same expression.
func (c ClassExpression) Equal(d ClassExpression) bool { return c.Key() == d.Key() }

// Node is a set of mutually equivalent named classes.
type Node struct {
	classes []string
}

// NewNode returns a Node holding the given class IRIs.
func NewNode(iris ...string) Node {
	if len(iris) == 0 {
		return Node{}
	}
	c := append([]string(nil), iris...)
	sort.Strings(c)
	n := 0
	for i, s := range c {
		if i == 0 || s != c[n-1] {
			c[n] = s
			n++
		}
	}
	return Node{classes: c[:n]}
}

// Representative returns the representative class of the node, the
// lexicographically smallest member. It returns "" for an empty node.
func (n Node) Representative() string {
	if len(n.classes) == 0 {
		return ""
	}
	return n.classes[0]
}

// Classes returns the classes in the node in sorted order.
func (n Node) Classes() []string { return n.classes }

// Contains returns whether iri is a member of n.
func (n Node) Contains(iri string) bool {
	i := sort.SearchStrings(n.classes, iri)
	return i < len(n.classes) && n.classes[i] == iri
}

// IsEmpty returns whether n has no members.
func (n Node) IsEmpty() bool { return len(n.classes) == 0 }

// NodeSet is a set of nodes keyed by their representative.
type NodeSet map[string]Node

// NewNodeSet returns a set holding the non-empty nodes given.
func NewNodeSet(nodes ...Node) NodeSet {
	s := make(NodeSet, len(nodes))
	for _, n := range nodes {
		s.Add(n)
	}
	return s
}

// Add adds n to s if it is not empty.
func (s NodeSet) Add(n Node) {
	if n.IsEmpty() {
		return
	}
	s[n.Representative()] = n
}

// Has returns whether s holds the node represented by rep.
func (s NodeSet) Has(rep string) bool {
	_, ok := s[rep]
	return ok
}

// HasClass returns whether any node in s contains iri.
func (s NodeSet) HasClass(iri string) bool {
	if n, ok := s[iri]; ok && n.Contains(iri) {
		return true
	}
	for _, n := range s {
		if n.Contains(iri) {
			return true
		}
	}
	return false
}

// Clone returns a copy of s.
func (s NodeSet) Clone() NodeSet {
	c := make(NodeSet, len(s))
	for k, n := range s {
		c[k] = n
	}
	return c
}

// Intersect returns a new set holding the nodes in both s and t.
func (s NodeSet) Intersect(t NodeSet) NodeSet {
	if len(t) < len(s) {
		s, t = t, s
	}
	r := make(NodeSet)
	for k, n := range s {
		if _, ok := t[k]; ok {
			r[k] = n
		}
	}
	return r
}

// Union returns a new set holding the nodes in either s or t.
func (s NodeSet) Union(t NodeSet) NodeSet {
	r := s.Clone()
	for k, n := range t {
		r[k] = n
	}
	return r
}

// Subtract returns a new set holding the nodes in s that are not in t.
func (s NodeSet) Subtract(t NodeSet) NodeSet {
	r := make(NodeSet)
	for k, n := range s {
		if _, ok := t[k]; !ok {
			r[k] = n
		}
	}
	return r
}

// Sorted returns the nodes of s ordered by representative.
func (s NodeSet) Sorted() []Node {
	nodes := make([]Node, 0, len(s))
	for _, n := range s {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Representative() < nodes[j].Representative()
	})
	return nodes
}

// Representatives returns the sorted representatives of s.
func (s NodeSet) Representatives() []string {
	reps := make([]string, 0, len(s))
	for k := range s {
		reps = append(reps, k)
	}
	sort.Strings(reps)
	return reps
}

// Flatten returns every class of every node in s in sorted order.
func (s NodeSet) Flatten() []string {
	var classes []string
	for _, n := range s {
		classes = append(classes, n.classes...)
	}
	sort.Strings(classes)
	return classes
}
