// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"sort"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

// Query represents a step in a graph query.
type Query struct {
	g *Graph

	terms []rdf.Term
}

// Query returns a query of the receiver starting from the given nodes.
// Queries may not be mixed between distinct graphs.
func (g *Graph) Query(from ...rdf.Term) Query {
	return Query{g: g, terms: from}
}

// Out returns a query holding nodes reachable out from the receiver's
// starting nodes via statements that satisfy fn.
func (q Query) Out(fn func(s *rdf.Statement) bool) Query {
	r := Query{g: q.g}
	for _, s := range q.terms {
		it := q.g.From(s.ID())
		for it.Next() {
			if ConnectedByAny(q.g.Edge(s.ID(), it.Node().ID()), fn) {
				r.terms = append(r.terms, it.Node().(rdf.Term))
			}
		}
	}
	return r
}

// Unique returns a copy of the receiver that contains only one instance
// of each term.
func (q Query) Unique() Query {
	sort.Sort(byID(q.terms))
	r := Query{g: q.g}
	for i, t := range q.terms {
		if i == 0 || t.UID != q.terms[i-1].UID {
			r.terms = append(r.terms, t)
		}
	}
	return r
}

// Values returns the sorted values of the terms held by the query.
func (q Query) Values() []string {
	v := make([]string, len(q.terms))
	for i, t := range q.terms {
		v[i] = t.Value
	}
	sort.Strings(v)
	return v
}

// predicate returns a statement filter accepting statements with the
// given predicate value.
func predicate(p string) func(*rdf.Statement) bool {
	return func(s *rdf.Statement) bool {
		return s.Predicate.Value == p
	}
}

// objects returns the values of the objects of statements with the given
// subject and predicate.
func (g *Graph) objects(subject, pred string) []string {
	t, ok := g.TermFor(subject)
	if !ok {
		return nil
	}
	return g.Query(t).Out(predicate(pred)).Unique().Values()
}

type byID []rdf.Term

func (n byID) Len() int           { return len(n) }
func (n byID) Less(i, j int) bool { return n[i].ID() < n[j].ID() }
func (n byID) Swap(i, j int)      { n[i], n[j] = n[j], n[i] }
