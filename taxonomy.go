// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"
)

// taxonomy is the classified state of a Graph at a given version.
type taxonomy struct {
	version uint64
	vocab   vocabulary

	classes []string
	node    map[string]Node

	// anc and desc are the reflexive named ancestors and
	// descendants of each class. Every class has owl:Thing
	// as an ancestor.
	anc  map[string]map[string]bool
	desc map[string]map[string]bool

	// defs holds the sorted operands of classes defined as
	// intersections and defined maps intersection keys back
	// to the defined class.
	defs    map[string][]string
	defined map[string]string

	individuals []string
	asserted    map[string][]string
}

// taxonomy returns the classification of the current graph, building it
// if the graph has changed since the last classification.
func (g *Graph) taxonomy() *taxonomy {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tax == nil || g.tax.version != g.version {
		g.tax = g.classify()
	}
	return g.tax
}

func (g *Graph) classify() *taxonomy {
	v := g.vocab()
	t := &taxonomy{
		version:  g.version,
		vocab:    v,
		node:     make(map[string]Node),
		anc:      make(map[string]map[string]bool),
		desc:     make(map[string]map[string]bool),
		defs:     make(map[string][]string),
		defined:  make(map[string]string),
		asserted: make(map[string][]string),
	}

	isClass := map[string]bool{v.thing: true}
	var sub, equiv [][2]string
	typed := make(map[string][]string)
	it := g.AllStatements()
	for it.Next() {
		s := it.Statement()
		subj, obj := s.Subject.Value, s.Object.Value
		switch s.Predicate.Value {
		case v.subClassOf:
			if isIRI(subj) && isIRI(obj) {
				isClass[subj] = true
				isClass[obj] = true
				sub = append(sub, [2]string{subj, obj})
			}
		case v.equivalentClass:
			switch {
			case isIRI(subj) && isIRI(obj):
				isClass[subj] = true
				isClass[obj] = true
				equiv = append(equiv, [2]string{subj, obj})
			case isIRI(subj) && isBlank(obj):
				ops, ok := g.intersectionOperands(obj, v)
				if !ok {
					continue
				}
				isClass[subj] = true
				for _, op := range ops {
					isClass[op] = true
				}
				t.defs[subj] = ops
				t.defined[intersectionOfNamed(ops).Key()] = subj
			}
		case v.typ:
			if !isIRI(subj) {
				continue
			}
			if obj == v.class {
				isClass[subj] = true
				continue
			}
			typed[subj] = append(typed[subj], obj)
			if isIRI(obj) && !v.isBuiltin(obj) {
				isClass[obj] = true
			}
		}
	}

	for subj, types := range typed {
		if isClass[subj] {
			continue
		}
		var isIndividual bool
		for _, typ := range types {
			switch {
			case typ == v.namedIndividual:
				isIndividual = true
			case isClass[typ]:
				isIndividual = true
				t.asserted[subj] = append(t.asserted[subj], typ)
			}
		}
		if isIndividual {
			t.individuals = append(t.individuals, subj)
			sort.Strings(t.asserted[subj])
		}
	}
	sort.Strings(t.individuals)

	for c := range isClass {
		t.classes = append(t.classes, c)
	}
	sort.Strings(t.classes)

	// Build the class hierarchy with edges from subclass to superclass.
	hier := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(t.classes))
	for i, c := range t.classes {
		ids[c] = int64(i)
		hier.AddNode(simple.Node(i))
	}
	setEdge := func(a, b string) {
		if a != b {
			hier.SetEdge(simple.Edge{F: simple.Node(ids[a]), T: simple.Node(ids[b])})
		}
	}
	for _, e := range sub {
		setEdge(e[0], e[1])
	}
	for _, e := range equiv {
		setEdge(e[0], e[1])
		setEdge(e[1], e[0])
	}
	for c, ops := range t.defs {
		for _, op := range ops {
			setEdge(c, op)
		}
	}
	for _, c := range t.classes {
		setEdge(c, v.thing)
	}

	// Equivalence nodes are the strongly connected components
	// of the hierarchy.
	for _, scc := range topo.TarjanSCC(hier) {
		members := make([]string, len(scc))
		for i, n := range scc {
			members[i] = t.classes[n.ID()]
		}
		n := NewNode(members...)
		for _, m := range members {
			t.node[m] = n
		}
	}

	var bf traverse.BreadthFirst
	for _, c := range t.classes {
		a := make(map[string]bool)
		bf.Walk(hier, hier.Node(ids[c]), func(n graph.Node, _ int) bool {
			a[t.classes[n.ID()]] = true
			return false
		})
		bf.Reset()
		t.anc[c] = a
	}

	// Classes subsumed by every operand of a defined class are
	// subsumed by the defined class.
	if len(t.defs) != 0 {
		for changed := true; changed; {
			changed = false
			for _, c := range t.classes {
				if t.saturate(t.anc[c]) {
					changed = true
				}
			}
		}
		for d := range t.defs {
			var members []string
			for a := range t.anc[d] {
				if t.anc[a][d] {
					members = append(members, a)
				}
			}
			n := NewNode(members...)
			for _, m := range n.Classes() {
				t.node[m] = n
			}
		}
	}

	for c, a := range t.anc {
		for p := range a {
			d, ok := t.desc[p]
			if !ok {
				d = make(map[string]bool)
				t.desc[p] = d
			}
			d[c] = true
		}
	}

	return t
}

func intersectionOfNamed(iris []string) ClassExpression {
	ops := make([]ClassExpression, len(iris))
	for i, c := range iris {
		ops[i] = Class(c)
	}
	return Intersection(ops...)
}

// saturate adds to the closure a every defined class whose operands are
// all in a, together with its ancestors. It returns whether a changed.
func (t *taxonomy) saturate(a map[string]bool) bool {
	var changed bool
	for more := true; more; {
		more = false
		for d, ops := range t.defs {
			if a[d] {
				continue
			}
			all := true
			for _, op := range ops {
				if !a[op] {
					all = false
					break
				}
			}
			if !all {
				continue
			}
			a[d] = true
			for p := range t.anc[d] {
				a[p] = true
			}
			more = true
			changed = true
		}
	}
	return changed
}

// closure returns the reflexive named superclasses of ce and the node of
// named classes equivalent to ce.
func (t *taxonomy) closure(ce ClassExpression) (map[string]bool, Node, error) {
	switch ce.Kind {
	case NamedClass:
		a, ok := t.anc[ce.IRI]
		if !ok {
			return nil, Node{}, fmt.Errorf("%w: unknown class %s", ErrUnresolvable, ce.IRI)
		}
		return a, t.node[ce.IRI], nil
	case IntersectionOf:
		u := map[string]bool{t.vocab.thing: true}
		for _, op := range ce.Operands {
			a, _, err := t.closure(op)
			if err != nil {
				return nil, Node{}, err
			}
			for c := range a {
				u[c] = true
			}
		}
		t.saturate(u)
		var self Node
		if d, ok := t.defined[ce.Key()]; ok {
			self = t.node[d]
		}
		return u, self, nil
	default:
		return nil, Node{}, fmt.Errorf("%w: %s", ErrUnresolvable, ce)
	}
}

// subsumed returns the reflexive named subclasses of ce and the node of
// named classes equivalent to ce.
func (t *taxonomy) subsumed(ce ClassExpression) (map[string]bool, Node, error) {
	switch ce.Kind {
	case NamedClass:
		d, ok := t.desc[ce.IRI]
		if !ok {
			return nil, Node{}, fmt.Errorf("%w: unknown class %s", ErrUnresolvable, ce.IRI)
		}
		return d, t.node[ce.IRI], nil
	case IntersectionOf:
		var u map[string]bool
		for _, op := range ce.Operands {
			d, _, err := t.subsumed(op)
			if err != nil {
				return nil, Node{}, err
			}
			if u == nil {
				u = make(map[string]bool, len(d))
				for c := range d {
					u[c] = true
				}
				continue
			}
			for c := range u {
				if !d[c] {
					delete(u, c)
				}
			}
		}
		var self Node
		if d, ok := t.defined[ce.Key()]; ok {
			self = t.node[d]
		}
		return u, self, nil
	default:
		return nil, Node{}, fmt.Errorf("%w: %s", ErrUnresolvable, ce)
	}
}

// nodesOf returns the sorted nodes of the classes in set, excluding the
// members of exclude.
func (t *taxonomy) nodesOf(set map[string]bool, exclude Node) []Node {
	ns := make(NodeSet)
	for c := range set {
		if exclude.Contains(c) {
			continue
		}
		ns.Add(t.node[c])
	}
	return ns.Sorted()
}

// mostSpecific returns the nodes that are not strict superclasses of any
// other node in nodes.
func (t *taxonomy) mostSpecific(nodes []Node) []Node {
	var direct []Node
	for _, n := range nodes {
		isDirect := true
		for _, m := range nodes {
			if m.Representative() == n.Representative() {
				continue
			}
			if t.anc[m.Representative()][n.Representative()] {
				isDirect = false
				break
			}
		}
		if isDirect {
			direct = append(direct, n)
		}
	}
	return direct
}

// mostGeneral returns the nodes that are not strict subclasses of any
// other node in nodes.
func (t *taxonomy) mostGeneral(nodes []Node) []Node {
	var direct []Node
	for _, n := range nodes {
		isDirect := true
		for _, m := range nodes {
			if m.Representative() == n.Representative() {
				continue
			}
			if t.anc[n.Representative()][m.Representative()] {
				isDirect = false
				break
			}
		}
		if isDirect {
			direct = append(direct, n)
		}
	}
	return direct
}

// SuperClasses implements the Reasoner interface.
func (g *Graph) SuperClasses(ce ClassExpression, direct bool) ([]Node, error) {
	t := g.taxonomy()
	set, self, err := t.closure(ce)
	if err != nil {
		return nil, err
	}
	nodes := t.nodesOf(set, self)
	if direct {
		nodes = t.mostSpecific(nodes)
	}
	return nodes, nil
}

// SubClasses implements the Reasoner interface. owl:Nothing is never
// returned.
func (g *Graph) SubClasses(ce ClassExpression, direct bool) ([]Node, error) {
	t := g.taxonomy()
	set, self, err := t.subsumed(ce)
	if err != nil {
		return nil, err
	}
	nodes := t.nodesOf(set, self)
	if direct {
		nodes = t.mostGeneral(nodes)
	}
	return nodes, nil
}

// EquivalentClasses implements the Reasoner interface.
func (g *Graph) EquivalentClasses(ce ClassExpression) (Node, error) {
	_, self, err := g.taxonomy().closure(ce)
	return self, err
}

// Types implements the Reasoner interface.
func (g *Graph) Types(individual string, direct bool) ([]Node, error) {
	t := g.taxonomy()
	i := sort.SearchStrings(t.individuals, individual)
	if i == len(t.individuals) || t.individuals[i] != individual {
		return nil, fmt.Errorf("%w: unknown individual %s", ErrUnresolvable, individual)
	}
	set := map[string]bool{t.vocab.thing: true}
	for _, c := range t.asserted[individual] {
		for a := range t.anc[c] {
			set[a] = true
		}
	}
	t.saturate(set)
	nodes := t.nodesOf(set, Node{})
	if direct {
		nodes = t.mostSpecific(nodes)
	}
	return nodes, nil
}
