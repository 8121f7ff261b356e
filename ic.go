// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"math"

	"go.uber.org/zap"
)

// CorpusSize returns the number of elements in the corpus. Unless set by
// SetCorpusSize, this is the number of elements in the index at the time
// of the first call.
func (s *Sim) CorpusSize() int {
	s.sync()
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.corpusSizeSet {
		s.corpusSize = s.index.Len()
		s.corpusSizeSet = true
		s.log.Info("set corpus size", zap.Int("size", s.corpusSize))
	}
	return s.corpusSize
}

// SetCorpusSize overrides the corpus size used for information content.
func (s *Sim) SetCorpusSize(n int) {
	s.sync()
	s.mu.Lock()
	s.corpusSize = n
	s.corpusSizeSet = true
	s.mu.Unlock()
	s.ic.purge()
	s.lcsIC.purge()
}

// elementCounts returns the number of elements having each class as an
// inferred attribute, computing the table in a single pass over the index
// on first use.
func (s *Sim) elementCounts() (map[string]int, error) {
	s.mu.Lock()
	counts := s.counts
	s.mu.Unlock()
	if counts != nil {
		return counts, nil
	}

	counts = make(map[string]int)
	for _, e := range s.index.Elements() {
		inf, err := s.InferredAttributes(e)
		if err != nil {
			return nil, err
		}
		for _, n := range inf {
			for _, c := range n.Classes() {
				counts[c]++
			}
		}
	}

	s.mu.Lock()
	if s.counts == nil {
		s.counts = counts
	} else {
		counts = s.counts
	}
	s.mu.Unlock()
	s.log.Info("computed element counts", zap.Int("classes", len(counts)))
	return counts, nil
}

// NumElementsForAttribute returns the number of elements having c as an
// inferred attribute. If the count cannot be determined the corpus size
// is returned.
func (s *Sim) NumElementsForAttribute(c string) (int, error) {
	s.sync()
	counts, err := s.elementCounts()
	if err != nil {
		return 0, err
	}
	if n, ok := counts[c]; ok {
		return n, nil
	}
	elements, err := s.ElementsForAttribute(c)
	if err != nil {
		s.log.Error("cannot count elements for attribute",
			zap.String("class", c),
			zap.Error(err),
		)
		return s.CorpusSize(), nil
	}
	return len(elements), nil
}

// InformationContent returns the information content of c, -log2 of the
// fraction of the corpus having c as an inferred attribute. The returned
// bool is false when no element has c, in which case the information
// content is undefined.
func (s *Sim) InformationContent(c string) (float64, bool, error) {
	s.sync()
	if v, ok := s.ic.get(c); ok {
		return v, true, nil
	}
	freq, err := s.NumElementsForAttribute(c)
	if err != nil {
		return 0, false, err
	}
	if freq == 0 {
		return 0, false, nil
	}
	ic := math.Log2(float64(s.CorpusSize()) / float64(freq))
	s.ic.put(c, ic)
	return ic, true, nil
}
