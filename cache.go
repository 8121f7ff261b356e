// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package owlsim

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// memo is a concurrency-safe memoisation table. When size is positive
// the table is a bounded LRU cache, otherwise it grows without limit.
type memo[K comparable, V any] struct {
	bounded *lru.Cache[K, V]

	mu  sync.RWMutex
	all map[K]V
}

func newMemo[K comparable, V any](size int) *memo[K, V] {
	if size > 0 {
		c, err := lru.New[K, V](size)
		if err != nil {
			// lru.New only fails for non-positive sizes.
			panic(err)
		}
		return &memo[K, V]{bounded: c}
	}
	return &memo[K, V]{all: make(map[K]V)}
}

func (m *memo[K, V]) get(k K) (V, bool) {
	if m.bounded != nil {
		return m.bounded.Get(k)
	}
	m.mu.RLock()
	v, ok := m.all[k]
	m.mu.RUnlock()
	return v, ok
}

func (m *memo[K, V]) put(k K, v V) {
	if m.bounded != nil {
		m.bounded.Add(k, v)
		return
	}
	m.mu.Lock()
	m.all[k] = v
	m.mu.Unlock()
}

func (m *memo[K, V]) len() int {
	if m.bounded != nil {
		return m.bounded.Len()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.all)
}

func (m *memo[K, V]) purge() {
	if m.bounded != nil {
		m.bounded.Purge()
		return
	}
	m.mu.Lock()
	m.all = make(map[K]V)
	m.mu.Unlock()
}
