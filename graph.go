// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Copyright ©2014 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package owlsim computes semantic similarity, information content and
// enrichment for elements annotated with classes from an ontology.
package owlsim

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/formats/rdf"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/set/uid"
)

// Graph is an ontology held as a multigraph of RDF statements. It
// implements Ontology, Reasoner and AxiomSink. Reasoning is by
// reachability over subClassOf and equivalentClass statements and
// intersection definitions; it is not a DL reasoner.
//
// Mutating a Graph is not safe for concurrent use. Once built, a Graph
// may be queried concurrently.
type Graph struct {
	nodes map[int64]graph.Node
	from  map[int64]map[int64]map[int64]graph.Line
	to    map[int64]map[int64]map[int64]graph.Line
	pred  map[int64]map[*rdf.Statement]bool

	termIDs map[string]int64
	ids     *uid.Set

	namespace int
	version   uint64
	blanks    int

	mu  sync.Mutex
	tax *taxonomy
}

const (
	local   = iota - 1
	unknown //nolint:deadcode,unused,varcheck
	global
)

// vocabulary holds the term values of the RDF/OWL vocabulary in one
// of the two namespacing styles.
type vocabulary struct {
	typ, subClassOf, equivalentClass, label string
	intersectionOf, first, rest, nil        string
	class, namedIndividual, thing, nothing  string

	// builtins are prefixes of vocabulary terms that are
	// never treated as classes or individuals.
	builtins []string
}

var (
	localVocabulary = vocabulary{
		typ:             "<rdf:type>",
		subClassOf:      "<rdfs:subClassOf>",
		equivalentClass: "<owl:equivalentClass>",
		label:           "<rdfs:label>",
		intersectionOf:  "<owl:intersectionOf>",
		first:           "<rdf:first>",
		rest:            "<rdf:rest>",
		nil:             "<rdf:nil>",
		class:           "<owl:Class>",
		namedIndividual: "<owl:NamedIndividual>",
		thing:           "<owl:Thing>",
		nothing:         "<owl:Nothing>",
		builtins:        []string{"<owl:", "<rdf:", "<rdfs:"},
	}
	globalVocabulary = vocabulary{
		typ:             "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>",
		subClassOf:      "<http://www.w3.org/2000/01/rdf-schema#subClassOf>",
		equivalentClass: "<http://www.w3.org/2002/07/owl#equivalentClass>",
		label:           "<http://www.w3.org/2000/01/rdf-schema#label>",
		intersectionOf:  "<http://www.w3.org/2002/07/owl#intersectionOf>",
		first:           "<http://www.w3.org/1999/02/22-rdf-syntax-ns#first>",
		rest:            "<http://www.w3.org/1999/02/22-rdf-syntax-ns#rest>",
		nil:             "<http://www.w3.org/1999/02/22-rdf-syntax-ns#nil>",
		class:           "<http://www.w3.org/2002/07/owl#Class>",
		namedIndividual: "<http://www.w3.org/2002/07/owl#NamedIndividual>",
		thing:           "<http://www.w3.org/2002/07/owl#Thing>",
		nothing:         "<http://www.w3.org/2002/07/owl#Nothing>",
		builtins: []string{
			"<http://www.w3.org/2002/07/owl#",
			"<http://www.w3.org/1999/02/22-rdf-syntax-ns#",
			"<http://www.w3.org/2000/01/rdf-schema#",
		},
	}
)

func (v vocabulary) isBuiltin(iri string) bool {
	if iri == v.thing {
		return false
	}
	for _, p := range v.builtins {
		if strings.HasPrefix(iri, p) {
			return true
		}
	}
	return false
}

// vocab returns the vocabulary matching the graph's namespacing. Empty
// graphs use the local form.
func (g *Graph) vocab() vocabulary {
	if g.namespace == global {
		return globalVocabulary
	}
	return localVocabulary
}

// NewGraph returns a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[int64]graph.Node),
		from:  make(map[int64]map[int64]map[int64]graph.Line),
		to:    make(map[int64]map[int64]map[int64]graph.Line),
		pred:  make(map[int64]map[*rdf.Statement]bool),

		termIDs: make(map[string]int64),
		ids:     uid.NewSet(),
	}
}

// NewGraphFor returns a new empty Graph using the same IRI namespacing as
// src, suitable as the output ontology for an engine over src.
func NewGraphFor(src *Graph) *Graph {
	g := NewGraph()
	g.namespace = src.namespace
	return g
}

// ReadGraph returns a Graph holding the N-Triples statements read from r.
func ReadGraph(r io.Reader) (g *Graph, err error) {
	g = NewGraph()
	defer func() {
		if v := recover(); v != nil {
			g = nil
			switch v := v.(type) {
			case error:
				err = v
			default:
				err = fmt.Errorf("owlsim: %v", v)
			}
		}
	}()
	dec := rdf.NewDecoder(r)
	for {
		s, err := dec.Unmarshal()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("owlsim: error during decoding: %w", err)
		}
		s.Subject.UID = 0
		s.Predicate.UID = 0
		s.Object.UID = 0
		g.AddStatement(s)
	}
	return g, nil
}

// addNode adds n to the graph. It panics if the added node ID matches an
// existing node ID.
func (g *Graph) addNode(n graph.Node) {
	if _, exists := g.nodes[n.ID()]; exists {
		panic(fmt.Sprintf("owlsim: node ID collision: %d", n.ID()))
	}
	g.nodes[n.ID()] = n
	g.ids.Use(n.ID())
}

// AddStatement adds s to the graph. It panics if rdf.Term UIDs in the
// statement are not consistent with existing terms in the graph. If the UID
// fields of the terms in s are zero, they will be set to values consistent
// with the rest of the graph on return. Predicate IRIs must either all be
// globally namespaced or all use the qualified name prefix, otherwise
// AddStatement will panic.
func (g *Graph) AddStatement(s *rdf.Statement) {
	text, _, kind, err := s.Predicate.Parts()
	if err != nil {
		panic(fmt.Errorf("owlsim: error extracting predicate: %w", err))
	}
	if kind != rdf.IRI {
		panic(fmt.Errorf("owlsim: predicate is not an IRI: %s", s.Predicate.Value))
	}
	if strings.HasPrefix(text, "http:") {
		if g.namespace == local {
			panic(fmt.Errorf("owlsim: adding predicate with global IRI to locally namespaced graph: %s", s.Predicate.Value))
		}
		g.namespace = global
	} else {
		if g.namespace == global {
			panic(fmt.Errorf("owlsim: adding predicate with local IRI to globally namespaced graph: %s", s.Predicate.Value))
		}
		g.namespace = local
	}

	_, _, kind, err = s.Subject.Parts()
	if err != nil {
		panic(fmt.Errorf("owlsim: error extracting subject: %w", err))
	}
	switch kind {
	case rdf.IRI, rdf.Blank:
	default:
		panic(fmt.Errorf("owlsim: subject is not an IRI or blank node: %s", s.Subject.Value))
	}

	_, _, kind, err = s.Object.Parts()
	if err != nil {
		panic(fmt.Errorf("owlsim: error extracting object: %w", err))
	}
	if kind == rdf.Invalid {
		panic(fmt.Errorf("owlsim: object is not a valid term: %s", s.Object.Value))
	}

	g.addTerm(&s.Subject)
	g.addTerm(&s.Predicate)
	g.addTerm(&s.Object)
	statements, ok := g.pred[s.Predicate.UID]
	if !ok {
		statements = make(map[*rdf.Statement]bool)
		g.pred[s.Predicate.UID] = statements
	}
	statements[s] = true
	g.setLine(s)

	g.version++
}

// addTerm adds t to the graph. It panics if the added node ID matches an existing node ID.
func (g *Graph) addTerm(t *rdf.Term) {
	if t.UID == 0 {
		id, ok := g.termIDs[t.Value]
		if ok {
			t.UID = id
			return
		}
		id = g.ids.NewID()
		g.ids.Use(id)
		t.UID = id
		g.termIDs[t.Value] = id
		return
	}

	id, ok := g.termIDs[t.Value]
	if !ok {
		g.termIDs[t.Value] = t.UID
	} else if id != t.UID {
		panic(fmt.Sprintf("owlsim: term ID collision: term:%s new ID:%d old ID:%d", t.Value, t.UID, id))
	}
}

// add adds the statement made from the three term values.
func (g *Graph) add(s, p, o string) {
	g.AddStatement(&rdf.Statement{
		Subject:   rdf.Term{Value: s},
		Predicate: rdf.Term{Value: p},
		Object:    rdf.Term{Value: o},
	})
}

// has returns whether the graph holds a statement with the three term values.
func (g *Graph) has(s, p, o string) bool {
	sid, ok := g.termIDs[s]
	if !ok {
		return false
	}
	oid, ok := g.termIDs[o]
	if !ok {
		return false
	}
	for _, l := range g.from[sid][oid] {
		if l.(*rdf.Statement).Predicate.Value == p {
			return true
		}
	}
	return false
}

// Version returns the number of statements added to the graph over its
// lifetime. It implements the Ontology interface.
func (g *Graph) Version() uint64 { return g.version }

// AllStatements returns an iterator of the statements that make up the graph.
func (g *Graph) AllStatements() *Statements {
	return &Statements{eit: g.Edges()}
}

// WriteTo writes the statements of the graph to w as N-Triples.
func (g *Graph) WriteTo(w io.Writer) (int64, error) {
	var n int64
	it := g.AllStatements()
	for it.Next() {
		c, err := fmt.Fprintln(w, it.Statement())
		n += int64(c)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Edge returns the edge from u to v if such an edge exists and nil otherwise.
// The node v must be directly reachable from u as defined by the From method.
// The returned graph.Edge is a multi.Edge if an edge exists.
func (g *Graph) Edge(uid, vid int64) graph.Edge {
	l := g.Lines(uid, vid)
	if l == nil {
		return nil
	}
	return multi.Edge{F: g.Node(uid), T: g.Node(vid), Lines: l}
}

// Edges returns all the edges in the graph. Each edge in the returned slice
// is a multi.Edge.
func (g *Graph) Edges() graph.Edges {
	if len(g.nodes) == 0 {
		return graph.Empty
	}
	var edges []graph.Edge
	for _, u := range g.nodes {
		for _, e := range g.from[u.ID()] {
			var lines []graph.Line
			for _, l := range e {
				lines = append(lines, l)
			}
			if len(lines) != 0 {
				edges = append(edges, multi.Edge{
					F:     g.Node(u.ID()),
					T:     g.Node(lines[0].To().ID()),
					Lines: iterator.NewOrderedLines(lines),
				})
			}
		}
	}
	if len(edges) == 0 {
		return graph.Empty
	}
	return iterator.NewOrderedEdges(edges)
}

// From returns all nodes in g that can be reached directly from n.
//
// The returned graph.Nodes is only valid until the next mutation of
// the receiver.
func (g *Graph) From(id int64) graph.Nodes {
	if len(g.from[id]) == 0 {
		return graph.Empty
	}
	return iterator.NewNodesByLines(g.nodes, g.from[id])
}

// HasEdgeBetween returns whether an edge exists between nodes x and y without
// considering direction.
func (g *Graph) HasEdgeBetween(xid, yid int64) bool {
	if _, ok := g.from[xid][yid]; ok {
		return true
	}
	_, ok := g.from[yid][xid]
	return ok
}

// HasEdgeFromTo returns whether an edge exists in the graph from u to v.
func (g *Graph) HasEdgeFromTo(uid, vid int64) bool {
	_, ok := g.from[uid][vid]
	return ok
}

// Lines returns the lines from u to v if such any such lines exists and nil otherwise.
// The node v must be directly reachable from u as defined by the From method.
func (g *Graph) Lines(uid, vid int64) graph.Lines {
	edge := g.from[uid][vid]
	if len(edge) == 0 {
		return graph.Empty
	}
	var lines []graph.Line
	for _, l := range edge {
		lines = append(lines, l)
	}
	return iterator.NewOrderedLines(lines)
}

// Node returns the node with the given ID if it exists in the graph,
// and nil otherwise.
func (g *Graph) Node(id int64) graph.Node {
	return g.nodes[id]
}

// TermFor returns the rdf.Term for the given text. The text must be
// an exact match for the rdf.Term's Value field.
func (g *Graph) TermFor(text string) (term rdf.Term, ok bool) {
	id, ok := g.termIDs[text]
	if !ok {
		return
	}
	n, ok := g.nodes[id]
	if !ok {
		var s map[*rdf.Statement]bool
		s, ok = g.pred[id]
		if !ok {
			return
		}
		for k := range s {
			return k.Predicate, true
		}
	}
	return n.(rdf.Term), true
}

// Nodes returns all the nodes in the graph.
//
// The returned graph.Nodes is only valid until the next mutation of
// the receiver.
func (g *Graph) Nodes() graph.Nodes {
	if len(g.nodes) == 0 {
		return graph.Empty
	}
	return iterator.NewNodes(g.nodes)
}

// setLine adds l, a line from one node to another. If the nodes do not exist,
// they are added, and are set to the nodes of the line otherwise.
func (g *Graph) setLine(l graph.Line) {
	var (
		from = l.From()
		fid  = from.ID()
		to   = l.To()
		tid  = to.ID()
		lid  = l.ID()
	)

	if _, ok := g.nodes[fid]; !ok {
		g.addNode(from)
	} else {
		g.nodes[fid] = from
	}
	if _, ok := g.nodes[tid]; !ok {
		g.addNode(to)
	} else {
		g.nodes[tid] = to
	}

	switch {
	case g.from[fid] == nil:
		g.from[fid] = map[int64]map[int64]graph.Line{tid: {lid: l}}
	case g.from[fid][tid] == nil:
		g.from[fid][tid] = map[int64]graph.Line{lid: l}
	default:
		g.from[fid][tid][lid] = l
	}
	switch {
	case g.to[tid] == nil:
		g.to[tid] = map[int64]map[int64]graph.Line{fid: {lid: l}}
	case g.to[tid][fid] == nil:
		g.to[tid][fid] = map[int64]graph.Line{lid: l}
	default:
		g.to[tid][fid][lid] = l
	}

	g.ids.Use(lid)
}

// To returns all nodes in g that can reach directly to n.
//
// The returned graph.Nodes is only valid until the next mutation of
// the receiver.
func (g *Graph) To(id int64) graph.Nodes {
	if len(g.to[id]) == 0 {
		return graph.Empty
	}
	return iterator.NewNodesByLines(g.nodes, g.to[id])
}

// Statements is an RDF statement iterator.
type Statements struct {
	eit graph.Edges
	lit graph.Lines
}

// Next returns whether the iterator holds any additional statements.
func (s *Statements) Next() bool {
	if s.lit != nil && s.lit.Next() {
		return true
	}
	if s.eit == nil || !s.eit.Next() {
		return false
	}
	s.lit = s.eit.Edge().(multi.Edge).Lines
	return s.lit.Next()
}

// Statement returns the current statement.
func (s *Statements) Statement() *rdf.Statement {
	return s.lit.Line().(*rdf.Statement)
}

// ConnectedByAny is a helper function to for simplifying graph traversal
// conditions.
func ConnectedByAny(e graph.Edge, with func(*rdf.Statement) bool) bool {
	it, ok := e.(multi.Edge)
	if !ok {
		return false
	}
	for it.Next() {
		s, ok := it.Line().(*rdf.Statement)
		if !ok {
			continue
		}
		ok = with(s)
		if ok {
			return true
		}
	}
	return false
}
