package metta

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoTable is a named LRU cache of canonicalized expression to result
// list, backed by hashicorp/golang-lru (spec.md §4.9). The library
// doesn't expose an eviction count on its own, so an EvictCallback
// feeds evictions into a counter kept alongside it.
type MemoTable struct {
	name string
	cap  int

	cache *lru.Cache[string, []Term]

	mu        sync.Mutex
	hits      int64
	misses    int64
	evictions int64
}

// MemoStats reports the counters spec.md §4.9's memo-stats built-in
// surfaces.
type MemoStats struct {
	Entries       int
	Hits          int64
	Misses        int64
	Evictions     int64
	HitRatePercent float64
}

// NewMemoTable creates a named table with the given capacity. A
// non-positive capacity falls back to DefaultMemoCapacity.
func NewMemoTable(name string, capacity int) *MemoTable {
	if capacity <= 0 {
		capacity = DefaultMemoCapacity
	}
	mt := &MemoTable{name: name, cap: capacity}
	cache, _ := lru.NewWithEvict[string, []Term](capacity, func(key string, value []Term) {
		atomic.AddInt64(&mt.evictions, 1)
	})
	mt.cache = cache
	return mt
}

// Name returns the table's name.
func (mt *MemoTable) Name() string { return mt.name }

// Get looks up a canonicalized key, recording a hit or miss.
func (mt *MemoTable) Get(key string) ([]Term, bool) {
	results, ok := mt.cache.Get(key)
	if ok {
		atomic.AddInt64(&mt.hits, 1)
	} else {
		atomic.AddInt64(&mt.misses, 1)
	}
	return results, ok
}

// Put stores results under key, evicting the least-recently-used entry
// if the table is at capacity.
func (mt *MemoTable) Put(key string, results []Term) {
	mt.cache.Add(key, results)
}

// Clear empties the table without resetting its hit/miss/eviction
// counters — clear-memo! drops cached answers, not the table's
// reporting history.
func (mt *MemoTable) Clear() {
	mt.cache.Purge()
}

// Stats returns the current counters.
func (mt *MemoTable) Stats() MemoStats {
	hits := atomic.LoadInt64(&mt.hits)
	misses := atomic.LoadInt64(&mt.misses)
	var rate float64
	if total := hits + misses; total > 0 {
		rate = 100 * float64(hits) / float64(total)
	}
	return MemoStats{
		Entries:        mt.cache.Len(),
		Hits:           hits,
		Misses:         misses,
		Evictions:      atomic.LoadInt64(&mt.evictions),
		HitRatePercent: rate,
	}
}
