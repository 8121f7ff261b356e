// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrUnknownElement is returned when an element is not in the
// attribute element index.
var ErrUnknownElement = errors.New("owlsim: unknown element")

// EnrichmentConfig holds optional cutoffs applied to enrichment results.
// A nil cutoff is not applied.
type EnrichmentConfig struct {
	// PValueCorrectedCutoff drops results with a corrected
	// p-value above the cutoff.
	PValueCorrectedCutoff *float64

	// AttributeInformationContentCutoff drops results whose
	// enriched class has an information content below the
	// cutoff or no defined information content.
	AttributeInformationContentCutoff *float64
}

// Options holds the configuration of a Sim.
type Options struct {
	// IgnoreSubClassesOf lists classes whose subclasses are not
	// used as attributes, for example a taxonomic root.
	IgnoreSubClassesOf []string

	// UpperLevel lists classes never used as operands of
	// synthesized lowest common subsumer classes.
	UpperLevel []string

	// Enrichment holds result filtering cutoffs.
	Enrichment *EnrichmentConfig

	// CacheSize bounds each memoisation table. Zero or
	// negative values give unbounded tables.
	CacheSize int

	// Output receives axioms for synthesized classes. It should
	// be a graph separate from the ontology, such as one made by
	// NewGraphFor, since each write to the ontology changes its
	// version and resets every cache.
	Output AxiomSink

	// Logger is the destination for log messages. A nil
	// Logger discards messages.
	Logger *zap.Logger
}

// Sim is a semantic similarity and enrichment engine over a fixed
// ontology and reasoner. Caches are filled lazily and are reset when the
// ontology version changes. A Sim is safe for concurrent use provided the
// ontology and reasoner are.
type Sim struct {
	ontology Ontology
	reasoner Reasoner
	output   AxiomSink
	log      *zap.Logger

	ignoreSubClassesOf map[string]bool
	upperLevel         map[string]bool
	enrichment         *EnrichmentConfig

	index *AttributeElementIndex

	vmu     sync.Mutex
	version uint64

	mu            sync.Mutex
	corpusSize    int
	corpusSizeSet bool
	counts        map[string]int

	superclasses    *memo[string, NodeSet]
	commonSubsumers *memo[PairKey, NodeSet]
	lcs             *memo[PairKey, NodeSet]
	lcsIC           *memo[PairKey, ScoreAttribute]
	lcsClass        *memo[PairKey, lcsClass]
	ic              *memo[string, float64]
	inferred        *memo[string, NodeSet]
	correction      *memo[string, int]

	// emit serialises writes to the output ontology.
	emit sync.Mutex
}

// New returns a new Sim over the given ontology and reasoner.
func New(ont Ontology, r Reasoner, opts Options) *Sim {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Sim{
		ontology:   ont,
		reasoner:   r,
		output:     opts.Output,
		log:        log,
		enrichment: opts.Enrichment,

		ignoreSubClassesOf: setOf(opts.IgnoreSubClassesOf),
		upperLevel:         setOf(opts.UpperLevel),

		index:   NewAttributeElementIndex(),
		version: ont.Version(),

		superclasses:    newMemo[string, NodeSet](opts.CacheSize),
		commonSubsumers: newMemo[PairKey, NodeSet](opts.CacheSize),
		lcs:             newMemo[PairKey, NodeSet](opts.CacheSize),
		lcsIC:           newMemo[PairKey, ScoreAttribute](opts.CacheSize),
		lcsClass:        newMemo[PairKey, lcsClass](opts.CacheSize),
		ic:              newMemo[string, float64](opts.CacheSize),
		inferred:        newMemo[string, NodeSet](opts.CacheSize),
		correction:      newMemo[string, int](opts.CacheSize),
	}
	if sharesGraph(ont, opts.Output) {
		log.Warn("output is the source ontology, synthesized classes will reset caches")
	}
	return s
}

// sharesGraph returns whether out writes to the graph underlying ont.
func sharesGraph(ont Ontology, out AxiomSink) bool {
	g, ok := ont.(*Graph)
	if !ok {
		return false
	}
	o, ok := out.(*Graph)
	return ok && g == o
}

func setOf(s []string) map[string]bool {
	m := make(map[string]bool, len(s))
	for _, v := range s {
		m[v] = true
	}
	return m
}

// Index returns the attribute element index of the receiver.
func (s *Sim) Index() *AttributeElementIndex { return s.index }

// Reset discards all cached results, element counts and the corpus size.
// The attribute element index is retained.
func (s *Sim) Reset() {
	s.vmu.Lock()
	s.version = s.ontology.Version()
	s.vmu.Unlock()
	s.reset()
}

func (s *Sim) reset() {
	s.superclasses.purge()
	s.commonSubsumers.purge()
	s.lcs.purge()
	s.lcsIC.purge()
	s.lcsClass.purge()
	s.ic.purge()
	s.inferred.purge()
	s.correction.purge()

	s.mu.Lock()
	s.counts = nil
	s.corpusSize = 0
	s.corpusSizeSet = false
	s.mu.Unlock()
}

// sync resets the caches if the ontology has changed since they were
// filled.
func (s *Sim) sync() {
	v := s.ontology.Version()
	s.vmu.Lock()
	if v == s.version {
		s.vmu.Unlock()
		return
	}
	old := s.version
	s.version = v
	s.vmu.Unlock()
	s.log.Info("ontology changed, resetting caches",
		zap.Uint64("old_version", old),
		zap.Uint64("new_version", v),
	)
	s.reset()
}
