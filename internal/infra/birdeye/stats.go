package birdeye

import "sync/atomic"

// Stats tracks request counters for one client instance. Atomic counters so
// concurrent sync tasks sharing a client never race; used for operational
// visibility only, never for control flow.
type Stats struct {
	total     atomic.Uint64
	succeeded atomic.Uint64
	failed    atomic.Uint64
	cacheHits atomic.Uint64
}

func (s *Stats) request()  { s.total.Add(1) }
func (s *Stats) success()  { s.succeeded.Add(1) }
func (s *Stats) failure()  { s.failed.Add(1) }
func (s *Stats) cacheHit() { s.cacheHits.Add(1) }

// StatsSnapshot is a point-in-time view of the counters.
type StatsSnapshot struct {
	TotalRequests      uint64  `json:"total_requests"`
	SuccessfulRequests uint64  `json:"successful_requests"`
	FailedRequests     uint64  `json:"failed_requests"`
	CacheHits          uint64  `json:"cache_hits"`
	SuccessRate        float64 `json:"success_rate"`
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		TotalRequests:      s.total.Load(),
		SuccessfulRequests: s.succeeded.Load(),
		FailedRequests:     s.failed.Load(),
		CacheHits:          s.cacheHits.Load(),
	}
	if snap.TotalRequests > 0 {
		snap.SuccessRate = float64(snap.SuccessfulRequests) / float64(snap.TotalRequests) * 100
	}
	return snap
}
