// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"fmt"

	"go.uber.org/zap"
)

// nearTie is the score difference within which attributes are reported
// alongside the best scoring attribute.
const nearTie = 0.001

// ScoreAttribute is a score with the class that provides it.
type ScoreAttribute struct {
	Score     float64 `json:"score"`
	Attribute string  `json:"attribute"`
}

func (s ScoreAttribute) String() string {
	return fmt.Sprintf("%s %g", s.Attribute, s.Score)
}

// ScoreAttributes is a score with the set of classes providing it.
type ScoreAttributes struct {
	Score      float64  `json:"score"`
	Attributes []string `json:"attributes,omitempty"`
}

func jaccard(a, b NodeSet) float64 {
	union := len(a.Union(b))
	if union == 0 {
		return 0
	}
	return float64(len(a.Intersect(b))) / float64(union)
}

// AttributeJaccardSimilarity returns the Jaccard index of the reflexive
// subsumer sets of a and b.
func (s *Sim) AttributeJaccardSimilarity(a, b ClassExpression) (float64, error) {
	s.sync()
	ra, err := s.reflexiveSubsumers(a)
	if err != nil {
		return 0, err
	}
	rb, err := s.reflexiveSubsumers(b)
	if err != nil {
		return 0, err
	}
	return jaccard(ra, rb), nil
}

// ElementJaccardSimilarity returns the Jaccard index of the inferred
// attribute sets of elements i and j.
func (s *Sim) ElementJaccardSimilarity(i, j string) (float64, error) {
	s.sync()
	ai, err := s.InferredAttributes(i)
	if err != nil {
		return 0, err
	}
	aj, err := s.InferredAttributes(j)
	if err != nil {
		return 0, err
	}
	return jaccard(ai, aj), nil
}

// LowestCommonSubsumerIC returns the lowest common subsumer of a and b
// with the greatest information content. Ties are broken in favour of the
// lexicographically smallest class. If no lowest common subsumer has a
// defined information content the result is owl:Thing with a score of
// zero.
func (s *Sim) LowestCommonSubsumerIC(a, b ClassExpression) (ScoreAttribute, error) {
	s.sync()
	key := exprPair(a, b)
	if v, ok := s.lcsIC.get(key); ok {
		return v, nil
	}
	lcs, err := s.lowestCommonSubsumers(a, b)
	if err != nil {
		return ScoreAttribute{}, err
	}
	best := ScoreAttribute{Attribute: s.ontology.Thing()}
	var found bool
	for _, rep := range lcs.Representatives() {
		ic, ok, err := s.InformationContent(rep)
		if err != nil {
			return ScoreAttribute{}, err
		}
		if !ok {
			continue
		}
		if !found || ic > best.Score {
			best = ScoreAttribute{Score: ic, Attribute: rep}
			found = true
		}
	}
	s.lcsIC.put(key, best)
	return best, nil
}

// SimilarityMaxIC returns the greatest information content of any common
// subsumer of elements i and j, with every common subsumer scoring within
// 0.001 of it.
func (s *Sim) SimilarityMaxIC(i, j string) (ScoreAttributes, error) {
	s.sync()
	cs, err := s.ElementCommonSubsumers(i, j)
	if err != nil {
		return ScoreAttributes{}, err
	}
	var scores []ScoreAttribute
	var best float64
	for _, rep := range cs.Representatives() {
		ic, ok, err := s.InformationContent(rep)
		if err != nil {
			return ScoreAttributes{}, err
		}
		if !ok {
			continue
		}
		scores = append(scores, ScoreAttribute{Score: ic, Attribute: rep})
		if ic > best {
			best = ic
		}
	}
	return nearBest(best, scores), nil
}

// nearBest returns best with the attributes of scores within nearTie of
// it in sorted order.
func nearBest(best float64, scores []ScoreAttribute) ScoreAttributes {
	near := make(map[string]bool)
	for _, sa := range scores {
		if best-sa.Score < nearTie {
			near[sa.Attribute] = true
		}
	}
	return ScoreAttributes{Score: best, Attributes: sortedKeys(near)}
}

// SimilarityBestMatchAverageAsym returns the mean over the attributes of
// i of the best lowest common subsumer information content against any
// attribute of j. The attributes providing each best match, and those
// within 0.001 of it, are returned.
func (s *Sim) SimilarityBestMatchAverageAsym(i, j string) (ScoreAttributes, error) {
	s.sync()
	ai, err := s.AttributesForElement(i)
	if err != nil {
		return ScoreAttributes{}, err
	}
	aj, err := s.AttributesForElement(j)
	if err != nil {
		return ScoreAttributes{}, err
	}
	if len(ai) == 0 {
		s.log.Debug("element has no attributes", zap.String("element", i))
		return ScoreAttributes{}, nil
	}
	var total float64
	atts := make(map[string]bool)
	for _, t1 := range ai {
		scores := make([]ScoreAttribute, 0, len(aj))
		var best float64
		for _, t2 := range aj {
			sa, err := s.LowestCommonSubsumerIC(Class(t1), Class(t2))
			if err != nil {
				return ScoreAttributes{}, err
			}
			scores = append(scores, sa)
			if sa.Score > best {
				best = sa.Score
			}
		}
		for _, a := range nearBest(best, scores).Attributes {
			atts[a] = true
		}
		total += best
	}
	return ScoreAttributes{
		Score:      total / float64(len(ai)),
		Attributes: sortedKeys(atts),
	}, nil
}

// SimilarityBestMatchAverage returns the mean of the two asymmetric best
// match average scores of i and j, with the union of their attributes.
func (s *Sim) SimilarityBestMatchAverage(i, j string) (ScoreAttributes, error) {
	ij, err := s.SimilarityBestMatchAverageAsym(i, j)
	if err != nil {
		return ScoreAttributes{}, err
	}
	ji, err := s.SimilarityBestMatchAverageAsym(j, i)
	if err != nil {
		return ScoreAttributes{}, err
	}
	atts := setOf(ij.Attributes)
	for _, a := range ji.Attributes {
		atts[a] = true
	}
	return ScoreAttributes{
		Score:      (ij.Score + ji.Score) / 2,
		Attributes: sortedKeys(atts),
	}, nil
}
