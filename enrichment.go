// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// EnrichmentResult is the result of testing a sample set class for
// enrichment in elements of an enriched class.
type EnrichmentResult struct {
	SampleSetClass  string  `json:"sample_set_class"`
	EnrichedClass   string  `json:"enriched_class"`
	PValue          float64 `json:"p_value"`
	PValueCorrected float64 `json:"p_value_corrected"`
}

func (r EnrichmentResult) String() string {
	return fmt.Sprintf("%s %s %g %g", r.SampleSetClass, r.EnrichedClass, r.PValue, r.PValueCorrected)
}

// PairwiseEnrichment returns the hypergeometric probability of the
// observed overlap between elements having sampleSet and elements having
// enriched, drawn from population. The corrected p-value is Bonferroni
// corrected by the number of subclasses of population with more than one
// element.
func (s *Sim) PairwiseEnrichment(population, sampleSet, enriched string) (EnrichmentResult, error) {
	s.sync()
	popSize, err := s.NumElementsForAttribute(population)
	if err != nil {
		return EnrichmentResult{}, err
	}
	sampleSize, err := s.NumElementsForAttribute(sampleSet)
	if err != nil {
		return EnrichmentResult{}, err
	}
	enrichedSize, err := s.NumElementsForAttribute(enriched)
	if err != nil {
		return EnrichmentResult{}, err
	}
	hg, err := newHypergeometric(popSize, sampleSize, enrichedSize)
	if err != nil {
		return EnrichmentResult{}, fmt.Errorf("owlsim: enrichment of %s in %s: %w", sampleSet, enriched, err)
	}

	sample, err := s.ElementsForAttribute(sampleSet)
	if err != nil {
		return EnrichmentResult{}, err
	}
	inEnriched, err := s.ElementsForAttribute(enriched)
	if err != nil {
		return EnrichmentResult{}, err
	}
	overlap := len(intersectStrings(sample, inEnriched))

	p := hg.cumulativeProbability(overlap, min(sampleSize, enrichedSize))
	cf, err := s.correctionFactor(population)
	if err != nil {
		return EnrichmentResult{}, err
	}
	return EnrichmentResult{
		SampleSetClass:  sampleSet,
		EnrichedClass:   enriched,
		PValue:          p,
		PValueCorrected: p * float64(cf),
	}, nil
}

// intersectStrings returns the elements common to the sorted slices a
// and b.
func intersectStrings(a, b []string) []string {
	var r []string
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			r = append(r, a[i])
			i++
			j++
		}
	}
	return r
}

// correctionFactor returns the number of subclasses of population with
// more than one element, or one if there are none.
func (s *Sim) correctionFactor(population string) (int, error) {
	if v, ok := s.correction.get(population); ok {
		return v, nil
	}
	subs, err := s.reasoner.SubClasses(Class(population), false)
	if err != nil {
		return 0, fmt.Errorf("owlsim: subclasses of %s: %w", population, err)
	}
	var n int
	for _, c := range flatten(subs) {
		num, err := s.NumElementsForAttribute(c)
		if err != nil {
			return 0, err
		}
		if num > 1 {
			n++
		}
	}
	n = max(n, 1)
	s.log.Info("computed correction factor",
		zap.String("population", population),
		zap.Int("factor", n),
	)
	s.correction.put(population, n)
	return n, nil
}

// AllByAllEnrichment tests every subclass of sampleSetParent for
// enrichment against every subclass of enrichedParent within population.
// Pairs that are equal or related by subsumption are skipped, and results
// are filtered by the enrichment cutoffs. Results are grouped by sample
// set class in sorted order and ordered by ascending p-value within each
// group.
func (s *Sim) AllByAllEnrichment(ctx context.Context, population, sampleSetParent, enrichedParent string) ([]EnrichmentResult, error) {
	s.sync()
	samples, err := s.reasoner.SubClasses(Class(sampleSetParent), false)
	if err != nil {
		return nil, fmt.Errorf("owlsim: subclasses of %s: %w", sampleSetParent, err)
	}
	enriched, err := s.reasoner.SubClasses(Class(enrichedParent), false)
	if err != nil {
		return nil, fmt.Errorf("owlsim: subclasses of %s: %w", enrichedParent, err)
	}
	nothing := s.ontology.Nothing()
	var results []EnrichmentResult
	for _, sample := range flatten(samples) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if sample == nothing {
			continue
		}
		s.log.Debug("testing sample set class", zap.String("class", sample))
		var group []EnrichmentResult
		for _, enr := range flatten(enriched) {
			if enr == nothing || enr == sample {
				continue
			}
			related, err := s.related(sample, enr)
			if err != nil {
				return nil, err
			}
			if related {
				continue
			}
			r, err := s.PairwiseEnrichment(population, sample, enr)
			if errors.Is(err, ErrInvalidDistribution) {
				s.log.Warn("skipping enrichment pair", zap.Error(err))
				continue
			}
			if err != nil {
				return nil, err
			}
			ok, err := s.accept(r)
			if err != nil {
				return nil, err
			}
			if ok {
				group = append(group, r)
			}
		}
		sort.SliceStable(group, func(i, j int) bool { return group[i].PValue < group[j].PValue })
		results = append(results, group...)
	}
	s.log.Info("completed enrichment analysis",
		zap.String("population", population),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// Enrichment tests sampleSet for enrichment against every subclass of
// population. Results are not filtered and are ordered by ascending
// p-value.
func (s *Sim) Enrichment(ctx context.Context, population, sampleSet string) ([]EnrichmentResult, error) {
	s.sync()
	subs, err := s.reasoner.SubClasses(Class(population), false)
	if err != nil {
		return nil, fmt.Errorf("owlsim: subclasses of %s: %w", population, err)
	}
	nothing := s.ontology.Nothing()
	var results []EnrichmentResult
	for _, enr := range flatten(subs) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if enr == nothing {
			continue
		}
		r, err := s.PairwiseEnrichment(population, sampleSet, enr)
		if errors.Is(err, ErrInvalidDistribution) {
			s.log.Warn("skipping enrichment pair", zap.Error(err))
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].PValue < results[j].PValue })
	return results, nil
}

// related returns whether either class subsumes the other.
func (s *Sim) related(a, b string) (bool, error) {
	ra, err := s.reflexiveSubsumers(Class(a))
	if err != nil {
		return false, err
	}
	if ra.HasClass(b) {
		return true, nil
	}
	rb, err := s.reflexiveSubsumers(Class(b))
	if err != nil {
		return false, err
	}
	return rb.HasClass(a), nil
}

// accept returns whether r passes the configured enrichment cutoffs.
func (s *Sim) accept(r EnrichmentResult) (bool, error) {
	cfg := s.enrichment
	if cfg == nil {
		return true, nil
	}
	if cfg.PValueCorrectedCutoff != nil && r.PValueCorrected > *cfg.PValueCorrectedCutoff {
		return false, nil
	}
	if cfg.AttributeInformationContentCutoff != nil {
		ic, ok, err := s.InformationContent(r.EnrichedClass)
		if err != nil {
			return false, err
		}
		if !ok || ic < *cfg.AttributeInformationContentCutoff {
			return false, nil
		}
	}
	return true, nil
}
