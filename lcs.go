// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	// minGroupingAncestors is the number of reflexive subsumers
	// a candidate needs to be used as an intersection operand.
	minGroupingAncestors = 3

	// redundantJaccard is the attribute Jaccard similarity above
	// which a candidate is redundant with a more specific one.
	redundantJaccard = 0.5
)

type lcsClass struct {
	iri string
	ok  bool
}

// LowestCommonSubsumer returns a single class expression standing for the
// lowest common subsumers of a and b. When a and b are equal or one
// subsumes the other, the more general is returned. A single lowest
// common subsumer is returned as is, otherwise the candidates are reduced
// to an intersection of informative, non-redundant classes. The returned
// bool is false if no expression could be formed.
func (s *Sim) LowestCommonSubsumer(a, b ClassExpression) (ClassExpression, bool, error) {
	s.sync()
	if a.Equal(b) {
		return a, true, nil
	}
	if a.IsNamed() && b.IsNamed() {
		ra, err := s.reflexiveSubsumers(a)
		if err != nil {
			return ClassExpression{}, false, err
		}
		if ra.HasClass(b.IRI) {
			return b, true, nil
		}
		rb, err := s.reflexiveSubsumers(b)
		if err != nil {
			return ClassExpression{}, false, err
		}
		if rb.HasClass(a.IRI) {
			return a, true, nil
		}
	}
	lcs, err := s.lowestCommonSubsumers(a, b)
	if err != nil {
		return ClassExpression{}, false, err
	}
	if len(lcs) == 1 {
		return Class(lcs.Representatives()[0]), true, nil
	}
	return s.synthesize(lcs)
}

// synthesize reduces a set of candidate lowest common subsumers to a
// single expression. Upper level classes, classes with fewer than three
// reflexive subsumers and classes highly similar to a more specific
// candidate are dropped. If all candidates are dropped, the candidate
// with the most reflexive subsumers is used.
func (s *Sim) synthesize(candidates NodeSet) (ClassExpression, bool, error) {
	reps := candidates.Representatives()
	ancestors := make(map[string]int, len(reps))
	for _, c := range reps {
		rs, err := s.reflexiveSubsumers(Class(c))
		if err != nil {
			return ClassExpression{}, false, err
		}
		ancestors[c] = len(rs)
	}

	var (
		remaining []string
		best      string
		most      int
	)
	for _, c := range reps {
		n := ancestors[c]
		if n > most {
			best, most = c, n
		}
		if s.upperLevel[c] {
			s.log.Debug("skipping upper level class", zap.String("class", c))
			continue
		}
		if n < minGroupingAncestors {
			s.log.Debug("skipping class with too few ancestors",
				zap.String("class", c),
				zap.Int("ancestors", n),
			)
			continue
		}
		remaining = append(remaining, c)
	}

	// Redundancy is judged only among candidates that survive
	// the upper level and ancestor floor filters.
	var ops []string
	for _, c := range remaining {
		redundant, err := s.redundant(c, remaining, ancestors)
		if err != nil {
			return ClassExpression{}, false, err
		}
		if redundant {
			continue
		}
		ops = append(ops, c)
	}

	switch len(ops) {
	case 0:
		if best == "" {
			return ClassExpression{}, false, nil
		}
		return Class(best), true, nil
	case 1:
		return Class(ops[0]), true, nil
	default:
		return intersectionOfNamed(ops), true, nil
	}
}

// redundant returns whether c has an attribute Jaccard similarity above
// redundantJaccard with a candidate that has more ancestors, or as many
// ancestors and a smaller IRI.
func (s *Sim) redundant(c string, candidates []string, ancestors map[string]int) (bool, error) {
	n := ancestors[c]
	for _, d := range candidates {
		m := ancestors[d]
		if !(n < m || (n == m && c > d)) {
			continue
		}
		j, err := s.AttributeJaccardSimilarity(Class(c), Class(d))
		if err != nil {
			return false, err
		}
		if j > redundantJaccard {
			s.log.Debug("skipping redundant class",
				zap.String("class", c),
				zap.String("similar", d),
				zap.Float64("jaccard", j),
			)
			return true, nil
		}
	}
	return false, nil
}

// LowestCommonSubsumerClass returns a named class standing for the lowest
// common subsumer of a and b. When the lowest common subsumer is an
// intersection, a new class equivalent to it is declared in the output
// ontology with a label built from the labels of the operands. The
// returned bool is false if no class could be formed.
func (s *Sim) LowestCommonSubsumerClass(a, b ClassExpression) (string, bool, error) {
	s.sync()
	key := exprPair(a, b)
	if v, ok := s.lcsClass.get(key); ok {
		return v.iri, v.ok, nil
	}
	x, ok, err := s.LowestCommonSubsumer(a, b)
	if err != nil {
		return "", false, err
	}
	var r lcsClass
	if ok {
		switch x.Kind {
		case NamedClass:
			r = lcsClass{iri: x.IRI, ok: true}
		case IntersectionOf:
			iri, err := s.makeClass(key, x)
			if err != nil {
				return "", false, err
			}
			r = lcsClass{iri: iri, ok: true}
		default:
			s.log.Warn("cannot name lowest common subsumer", zap.Stringer("expression", x))
		}
	}
	s.lcsClass.put(key, r)
	return r.iri, r.ok, nil
}

// makeClass declares a class equivalent to the intersection x in the
// output ontology and returns its IRI. The IRI extends the IRI of the
// first operand with the local names of the remaining operands.
func (s *Sim) makeClass(key PairKey, x ClassExpression) (string, error) {
	s.emit.Lock()
	defer s.emit.Unlock()
	if v, ok := s.lcsClass.get(key); ok {
		return v.iri, nil
	}

	ops := make([]string, 0, len(x.Operands))
	for _, op := range x.Operands {
		if !op.IsNamed() {
			return "", fmt.Errorf("owlsim: cannot name intersection with anonymous operand: %s", x)
		}
		ops = append(ops, op.IRI)
	}
	sort.Strings(ops)

	var (
		iri      string
		label    strings.Builder
		labelled bool
	)
	for i, op := range ops {
		if i == 0 {
			iri = op
		} else {
			iri = strings.TrimSuffix(iri, ">") + "-" + localName(op) + ">"
			label.WriteString(" and ")
		}
		if l, ok := s.ontology.Label(op); ok {
			label.WriteString(l)
			labelled = true
		} else {
			label.WriteString("?" + op)
		}
	}

	axioms := []Axiom{
		{Kind: Declaration, Class: iri},
		{Kind: EquivalentClasses, Class: iri, Equivalent: intersectionOfNamed(ops)},
	}
	if labelled {
		axioms = append(axioms, Axiom{Kind: LabelAnnotation, Class: iri, Label: label.String()})
	}
	if s.output == nil {
		s.log.Warn("no output ontology for synthesized class", zap.String("class", iri))
	} else if err := s.output.AddAxioms(axioms...); err != nil {
		return "", fmt.Errorf("owlsim: adding class %s: %w", iri, err)
	}
	s.log.Info("synthesized lowest common subsumer class",
		zap.String("class", iri),
		zap.String("label", label.String()),
		zap.Stringer("expression", x),
	)
	return iri, nil
}

// localName returns the part of an IRI after the last '/', '#' or ':'.
func localName(iri string) string {
	iri = strings.TrimSuffix(strings.TrimPrefix(iri, "<"), ">")
	if i := strings.LastIndexAny(iri, "/#:"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}
