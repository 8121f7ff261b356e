// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store persists similarity and enrichment results in a bbolt
// database. Similarity results are keyed by element pair in the
// similarity bucket and enrichment runs are keyed by run name in the
// enrichment bucket. Values are JSON.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/kortschak/owlsim"
)

var (
	bucketSimilarity = []byte("similarity")
	bucketEnrichment = []byte("enrichment")
)

// Store is a result database.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketSimilarity, bucketEnrichment} {
			_, err := tx.CreateBucketIfNotExists(b)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func pairKey(a, b string) []byte {
	return []byte(a + "\x00" + b)
}

// PutSimilarity stores the results in a single transaction, replacing any
// earlier results for the same ordered pairs.
func (s *Store) PutSimilarity(results ...owlsim.SimilarityResult) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSimilarity)
		for _, r := range results {
			v, err := json.Marshal(r)
			if err != nil {
				return fmt.Errorf("store: marshal similarity: %w", err)
			}
			err = b.Put(pairKey(r.A, r.B), v)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Similarity returns the stored result for the pair a, b in either
// order. The returned result is oriented from a to b. The returned bool
// is false if no result is stored.
func (s *Store) Similarity(a, b string) (owlsim.SimilarityResult, bool, error) {
	var (
		r       owlsim.SimilarityResult
		found   bool
		swapped bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketSimilarity)
		v := bkt.Get(pairKey(a, b))
		if v == nil {
			v = bkt.Get(pairKey(b, a))
			swapped = true
		}
		if v == nil {
			return nil
		}
		found = true
		// Unmarshal copies out of the transaction's memory.
		return json.Unmarshal(v, &r)
	})
	if err != nil {
		return owlsim.SimilarityResult{}, false, fmt.Errorf("store: similarity of %s and %s: %w", a, b, err)
	}
	if found && swapped {
		r.A, r.B = r.B, r.A
		r.BestMatchAB, r.BestMatchBA = r.BestMatchBA, r.BestMatchAB
	}
	return r, found, nil
}

// Similarities calls fn for each stored similarity result in key order
// until fn returns a non-nil error.
func (s *Store) Similarities(fn func(owlsim.SimilarityResult) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSimilarity).ForEach(func(_, v []byte) error {
			var r owlsim.SimilarityResult
			err := json.Unmarshal(v, &r)
			if err != nil {
				return fmt.Errorf("store: unmarshal similarity: %w", err)
			}
			return fn(r)
		})
	})
}

// PutEnrichment stores the results of the named enrichment run,
// replacing any earlier run with the same name.
func (s *Store) PutEnrichment(run string, results []owlsim.EnrichmentResult) error {
	v, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("store: marshal enrichment: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEnrichment).Put([]byte(run), v)
	})
}

// Enrichment returns the results of the named enrichment run. It returns
// nil, nil if the run does not exist.
func (s *Store) Enrichment(run string) ([]owlsim.EnrichmentResult, error) {
	var results []owlsim.EnrichmentResult
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketEnrichment).Get([]byte(run))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &results)
	})
	if err != nil {
		return nil, fmt.Errorf("store: enrichment run %s: %w", run, err)
	}
	return results, nil
}

// Runs returns the names of stored enrichment runs in key order.
func (s *Store) Runs() ([]string, error) {
	var runs []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketEnrichment).ForEach(func(k, _ []byte) error {
			runs = append(runs, string(k))
			return nil
		})
	})
	return runs, err
}
