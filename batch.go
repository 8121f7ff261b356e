// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SimilarityResult holds the similarity scores of a pair of elements.
type SimilarityResult struct {
	A string `json:"a"`
	B string `json:"b"`

	Jaccard float64 `json:"jaccard"`

	MaxIC ScoreAttributes `json:"max_ic"`

	// BestMatchAB and BestMatchBA are the asymmetric best match
	// average scores from A to B and from B to A.
	BestMatchAB ScoreAttributes `json:"best_match_ab"`
	BestMatchBA ScoreAttributes `json:"best_match_ba"`
}

// BestMatchAverage returns the symmetric best match average score.
func (r SimilarityResult) BestMatchAverage() float64 {
	return (r.BestMatchAB.Score + r.BestMatchBA.Score) / 2
}

// Compare returns the similarity scores of elements a and b.
func (s *Sim) Compare(a, b string) (SimilarityResult, error) {
	r := SimilarityResult{A: a, B: b}
	var err error
	r.Jaccard, err = s.ElementJaccardSimilarity(a, b)
	if err != nil {
		return r, err
	}
	r.MaxIC, err = s.SimilarityMaxIC(a, b)
	if err != nil {
		return r, err
	}
	r.BestMatchAB, err = s.SimilarityBestMatchAverageAsym(a, b)
	if err != nil {
		return r, err
	}
	r.BestMatchBA, err = s.SimilarityBestMatchAverageAsym(b, a)
	return r, err
}

// AllByAllSimilarity compares every unordered pair of distinct elements
// using up to workers concurrent comparisons. If workers is not positive,
// GOMAXPROCS workers are used. If elements is empty, all elements of the
// index are compared. Results are ordered by the position of the pair in
// elements.
func (s *Sim) AllByAllSimilarity(ctx context.Context, elements []string, workers int) ([]SimilarityResult, error) {
	s.sync()
	if len(elements) == 0 {
		elements = s.AllElements()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := len(elements)
	results := make([]SimilarityResult, 0, n*(n-1)/2)
	for i, a := range elements {
		for _, b := range elements[i+1:] {
			results = append(results, SimilarityResult{A: a, B: b})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range results {
		i := i
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := s.Compare(results[i].A, results[i].B)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("completed all by all similarity",
		zap.Int("elements", n),
		zap.Int("pairs", len(results)),
	)
	return results, nil
}

// GenerateLowestCommonSubsumers computes the lowest common subsumer class
// of every class in set1 against every class in set2, declaring
// synthesized classes in the output ontology. If both sets are empty the
// attribute classes of the index are used for both.
func (s *Sim) GenerateLowestCommonSubsumers(ctx context.Context, set1, set2 []string) error {
	s.sync()
	if len(set1) == 0 && len(set2) == 0 {
		set1 = s.AllAttributeClasses()
		set2 = set1
	}
	var named int
	for _, a := range set1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, b := range set2 {
			_, ok, err := s.LowestCommonSubsumerClass(Class(a), Class(b))
			if err != nil {
				return err
			}
			if ok {
				named++
			}
		}
	}
	s.log.Info("generated lowest common subsumers",
		zap.Int("set1", len(set1)),
		zap.Int("set2", len(set2)),
		zap.Int("named", named),
	)
	return nil
}
