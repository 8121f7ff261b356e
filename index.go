// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// AttributeElementIndex is a bidirectional mapping between elements and
// their direct attribute classes.
type AttributeElementIndex struct {
	mu         sync.RWMutex
	attributes map[string][]string
	elements   map[string]map[string]bool
}

// NewAttributeElementIndex returns a new empty index.
func NewAttributeElementIndex() *AttributeElementIndex {
	return &AttributeElementIndex{
		attributes: make(map[string][]string),
		elements:   make(map[string]map[string]bool),
	}
}

// Add records the attributes of element, replacing any previously held.
func (x *AttributeElementIndex) Add(element string, attributes []string) {
	set := setOf(attributes)
	attrs := make([]string, 0, len(set))
	for a := range set {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, a := range x.attributes[element] {
		delete(x.elements[a], element)
		if len(x.elements[a]) == 0 {
			delete(x.elements, a)
		}
	}
	x.attributes[element] = attrs
	for _, a := range attrs {
		e, ok := x.elements[a]
		if !ok {
			e = make(map[string]bool)
			x.elements[a] = e
		}
		e[element] = true
	}
}

// Has returns whether element is held by the index.
func (x *AttributeElementIndex) Has(element string) bool {
	x.mu.RLock()
	_, ok := x.attributes[element]
	x.mu.RUnlock()
	return ok
}

// Len returns the number of elements in the index.
func (x *AttributeElementIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.attributes)
}

// AttributesFor returns the sorted direct attributes of element.
func (x *AttributeElementIndex) AttributesFor(element string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return append([]string(nil), x.attributes[element]...)
}

// ElementsWith returns the elements directly annotated with attribute.
func (x *AttributeElementIndex) ElementsWith(attribute string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return sortedKeys(x.elements[attribute])
}

// Elements returns all elements in sorted order.
func (x *AttributeElementIndex) Elements() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	e := make([]string, 0, len(x.attributes))
	for k := range x.attributes {
		e = append(e, k)
	}
	sort.Strings(e)
	return e
}

// Attributes returns all attributes used by any element in sorted order.
func (x *AttributeElementIndex) Attributes() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	a := make([]string, 0, len(x.elements))
	for k := range x.elements {
		a = append(a, k)
	}
	sort.Strings(a)
	return a
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	k := make([]string, 0, len(m))
	for v := range m {
		k = append(k, v)
	}
	sort.Strings(k)
	return k
}

// CreateElementAttributeMapFromOntology populates the attribute element
// index from the direct inferred types of every individual in the
// ontology. Types that are subclasses of an ignored class are dropped.
func (s *Sim) CreateElementAttributeMapFromOntology() error {
	s.sync()
	individuals := s.ontology.Individuals()
	for _, e := range individuals {
		nodes, err := s.reasoner.Types(e, true)
		if err != nil {
			return fmt.Errorf("owlsim: types of %s: %w", e, err)
		}
		err = s.AddElement(e, flatten(nodes)...)
		if err != nil {
			return err
		}
	}
	s.log.Info("built attribute element index",
		zap.Int("elements", len(individuals)),
		zap.Int("attributes", len(s.index.Attributes())),
	)
	return nil
}

// AddElement adds the element to the index with the given attributes.
// Attributes that are subclasses of an ignored class are dropped.
func (s *Sim) AddElement(element string, attributes ...string) error {
	kept := make([]string, 0, len(attributes))
	for _, c := range attributes {
		ignore, err := s.ignored(c)
		if err != nil {
			return err
		}
		if ignore {
			s.log.Debug("ignoring attribute", zap.String("element", element), zap.String("class", c))
			continue
		}
		kept = append(kept, c)
	}
	s.index.Add(element, kept)

	// Counts and the corpus size depend on the index.
	s.mu.Lock()
	s.counts = nil
	s.corpusSizeSet = false
	s.mu.Unlock()
	s.inferred.purge()
	s.ic.purge()
	s.lcsIC.purge()
	s.correction.purge()
	return nil
}

func (s *Sim) ignored(c string) (bool, error) {
	if len(s.ignoreSubClassesOf) == 0 {
		return false, nil
	}
	sup, err := s.reasoner.SuperClasses(Class(c), false)
	if err != nil {
		return false, fmt.Errorf("owlsim: superclasses of %s: %w", c, err)
	}
	for _, n := range sup {
		for _, a := range n.Classes() {
			if s.ignoreSubClassesOf[a] {
				return true, nil
			}
		}
	}
	return false, nil
}

// AllElements returns the elements of the index in sorted order.
func (s *Sim) AllElements() []string {
	return s.index.Elements()
}

// AllAttributeClasses returns the classes used as attributes by the
// index, or all named classes of the ontology if the index is empty.
func (s *Sim) AllAttributeClasses() []string {
	if s.index.Len() == 0 {
		return s.ontology.Classes()
	}
	return s.index.Attributes()
}

// AttributesForElement returns the direct attributes of element.
func (s *Sim) AttributesForElement(element string) ([]string, error) {
	if !s.index.Has(element) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElement, element)
	}
	return s.index.AttributesFor(element), nil
}

// InferredAttributes returns the union of the reflexive subsumers of the
// direct attributes of element.
func (s *Sim) InferredAttributes(element string) (NodeSet, error) {
	s.sync()
	if v, ok := s.inferred.get(element); ok {
		return v.Clone(), nil
	}
	atts, err := s.AttributesForElement(element)
	if err != nil {
		return nil, err
	}
	inf := make(NodeSet)
	for _, c := range atts {
		rs, err := s.reflexiveSubsumers(Class(c))
		if err != nil {
			return nil, err
		}
		inf = inf.Union(rs)
	}
	s.inferred.put(element, inf)
	return inf.Clone(), nil
}

// ElementsForAttribute returns the elements having c, or any class it
// subsumes, as a direct attribute.
func (s *Sim) ElementsForAttribute(c string) ([]string, error) {
	subs, err := s.reasoner.SubClasses(Class(c), false)
	if err != nil {
		return nil, fmt.Errorf("owlsim: subclasses of %s: %w", c, err)
	}
	eq, err := s.reasoner.EquivalentClasses(Class(c))
	if err != nil {
		return nil, fmt.Errorf("owlsim: equivalents of %s: %w", c, err)
	}
	classes := append(flatten(subs), eq.Classes()...)
	classes = append(classes, c)

	elements := make(map[string]bool)
	for _, sc := range classes {
		for _, e := range s.index.ElementsWith(sc) {
			elements[e] = true
		}
	}
	return sortedKeys(elements), nil
}
