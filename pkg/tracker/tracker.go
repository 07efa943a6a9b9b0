// Package tracker keeps process-wide usage counters per named source,
// e.g. the profile cache or an API endpoint.
package tracker

import (
	"sync"
	"sync/atomic"
)

// Tracker tracks usage statistics per source.
type Tracker struct {
	mu    sync.RWMutex
	stats map[string]*SourceStats
}

// SourceStats holds metrics for a specific source.
// Fields are accessed atomically.
type SourceStats struct {
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Success     int64 `json:"success"`
	Failures    int64 `json:"failures"`
}

// HitRate is the cache hit percentage, 0 when the cache was never queried.
func (s SourceStats) HitRate() int64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return s.CacheHits * 100 / total
}

// New creates a new Tracker.
func New() *Tracker {
	return &Tracker{
		stats: make(map[string]*SourceStats),
	}
}

// getStats returns the stats object for a source, creating it if needed.
func (t *Tracker) getStats(source string) *SourceStats {
	t.mu.RLock()
	s, ok := t.stats[source]
	t.mu.RUnlock()
	if ok {
		return s
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Double check
	if s, ok = t.stats[source]; ok {
		return s
	}
	s = &SourceStats{}
	t.stats[source] = s
	return s
}

// TrackCacheHit increments the cache hit counter.
func (t *Tracker) TrackCacheHit(source string) {
	atomic.AddInt64(&t.getStats(source).CacheHits, 1)
}

func (t *Tracker) TrackCacheMiss(source string) {
	atomic.AddInt64(&t.getStats(source).CacheMisses, 1)
}

func (t *Tracker) TrackSuccess(source string) {
	atomic.AddInt64(&t.getStats(source).Success, 1)
}

func (t *Tracker) TrackFailure(source string) {
	atomic.AddInt64(&t.getStats(source).Failures, 1)
}

// Snapshot returns a copy of the current stats.
func (t *Tracker) Snapshot() map[string]SourceStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]SourceStats, len(t.stats))
	for k, v := range t.stats {
		result[k] = SourceStats{
			CacheHits:   atomic.LoadInt64(&v.CacheHits),
			CacheMisses: atomic.LoadInt64(&v.CacheMisses),
			Success:     atomic.LoadInt64(&v.Success),
			Failures:    atomic.LoadInt64(&v.Failures),
		}
	}
	return result
}

// Reset zeroes every counter but keeps the known sources.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, v := range t.stats {
		atomic.StoreInt64(&v.CacheHits, 0)
		atomic.StoreInt64(&v.CacheMisses, 0)
		atomic.StoreInt64(&v.Success, 0)
		atomic.StoreInt64(&v.Failures, 0)
	}
}
