package api

import (
	"net/http"
	"runtime"
	"sync"
	"time"

	"aeroprofile/pkg/tracker"
)

// StatsHandler reports usage counters and process diagnostics.
type StatsHandler struct {
	tracker *tracker.Tracker
	started time.Time

	mu     sync.Mutex
	maxMem uint64
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(t *tracker.Tracker) *StatsHandler {
	return &StatsHandler{
		tracker: t,
		started: time.Now(),
	}
}

type SourceStatsDTO struct {
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Success     int64 `json:"success"`
	Failures    int64 `json:"failures"`
	HitRate     int64 `json:"hit_rate"`
}

type Diagnostics struct {
	UptimeSec   float64 `json:"uptime_sec"`
	Goroutines  int     `json:"goroutines"`
	MemoryMB    uint64  `json:"memory_mb"`
	MemoryMaxMB uint64  `json:"memory_max_mb"`
}

type StatsResponse struct {
	Diagnostics Diagnostics               `json:"diagnostics"`
	Sources     map[string]SourceStatsDTO `json:"sources"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshot := h.tracker.Snapshot()

	resp := StatsResponse{
		Diagnostics: h.gatherDiagnostics(),
		Sources:     make(map[string]SourceStatsDTO, len(snapshot)),
	}
	for source, stats := range snapshot {
		resp.Sources[source] = SourceStatsDTO{
			CacheHits:   stats.CacheHits,
			CacheMisses: stats.CacheMisses,
			Success:     stats.Success,
			Failures:    stats.Failures,
			HitRate:     stats.HitRate(),
		}
	}

	writeJSON(w, resp)
}

func (h *StatsHandler) gatherDiagnostics() Diagnostics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	h.mu.Lock()
	if m.Alloc > h.maxMem {
		h.maxMem = m.Alloc
	}
	maxMem := h.maxMem
	h.mu.Unlock()

	return Diagnostics{
		UptimeSec:   time.Since(h.started).Seconds(),
		Goroutines:  runtime.NumGoroutine(),
		MemoryMB:    bToMb(m.Alloc),
		MemoryMaxMB: bToMb(maxMem),
	}
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
