// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"fmt"

	"go.uber.org/zap"
)

// ReflexiveSubsumers returns the named superclasses of ce together with
// the node equivalent to ce. The returned set may be modified by the
// caller.
func (s *Sim) ReflexiveSubsumers(ce ClassExpression) (NodeSet, error) {
	s.sync()
	rs, err := s.reflexiveSubsumers(ce)
	if err != nil {
		return nil, err
	}
	return rs.Clone(), nil
}

// reflexiveSubsumers returns the cached reflexive subsumer set for ce. The
// returned set must not be modified.
func (s *Sim) reflexiveSubsumers(ce ClassExpression) (NodeSet, error) {
	key := ce.Key()
	if v, ok := s.superclasses.get(key); ok {
		return v, nil
	}
	if !ce.IsNamed() {
		s.log.Debug("classifying anonymous expression", zap.Stringer("expression", ce))
	}
	sup, err := s.reasoner.SuperClasses(ce, false)
	if err != nil {
		return nil, fmt.Errorf("owlsim: superclasses of %s: %w", ce, err)
	}
	eq, err := s.reasoner.EquivalentClasses(ce)
	if err != nil {
		return nil, fmt.Errorf("owlsim: equivalents of %s: %w", ce, err)
	}
	rs := NewNodeSet(sup...)
	rs.Add(eq)
	s.superclasses.put(key, rs)
	return rs, nil
}

// CommonSubsumers returns the nodes subsuming both a and b.
func (s *Sim) CommonSubsumers(a, b ClassExpression) (NodeSet, error) {
	s.sync()
	cs, err := s.commonSubsumersOf(a, b)
	if err != nil {
		return nil, err
	}
	return cs.Clone(), nil
}

func (s *Sim) commonSubsumersOf(a, b ClassExpression) (NodeSet, error) {
	key := exprPair(a, b)
	if v, ok := s.commonSubsumers.get(key); ok {
		return v, nil
	}
	ra, err := s.reflexiveSubsumers(a)
	if err != nil {
		return nil, err
	}
	rb, err := s.reflexiveSubsumers(b)
	if err != nil {
		return nil, err
	}
	cs := ra.Intersect(rb)
	s.commonSubsumers.put(key, cs)
	return cs, nil
}

// LowestCommonSubsumers returns the common subsumers of a and b that do
// not strictly subsume another common subsumer.
func (s *Sim) LowestCommonSubsumers(a, b ClassExpression) (NodeSet, error) {
	s.sync()
	lcs, err := s.lowestCommonSubsumers(a, b)
	if err != nil {
		return nil, err
	}
	return lcs.Clone(), nil
}

func (s *Sim) lowestCommonSubsumers(a, b ClassExpression) (NodeSet, error) {
	key := exprPair(a, b)
	if v, ok := s.lcs.get(key); ok {
		return v, nil
	}
	cs, err := s.commonSubsumersOf(a, b)
	if err != nil {
		return nil, err
	}
	redundant := make(NodeSet)
	for rep := range cs {
		rs, err := s.reflexiveSubsumers(Class(rep))
		if err != nil {
			return nil, err
		}
		for k, n := range rs {
			if k != rep {
				redundant[k] = n
			}
		}
	}
	lcs := cs.Subtract(redundant)
	if len(lcs) == 0 {
		s.log.Warn("no lowest common subsumers",
			zap.Stringer("a", a),
			zap.Stringer("b", b),
		)
	}
	s.lcs.put(key, lcs)
	return lcs, nil
}

// ElementCommonSubsumers returns the nodes that are inferred attributes of
// both elements.
func (s *Sim) ElementCommonSubsumers(i, j string) (NodeSet, error) {
	s.sync()
	ai, err := s.InferredAttributes(i)
	if err != nil {
		return nil, err
	}
	aj, err := s.InferredAttributes(j)
	if err != nil {
		return nil, err
	}
	return ai.Intersect(aj), nil
}
