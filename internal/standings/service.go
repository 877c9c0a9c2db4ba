package standings

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thecooltechguy/smash-leaderboard/internal/metrics"
	"github.com/thecooltechguy/smash-leaderboard/internal/smash"
	"golang.org/x/sync/singleflight"
)

// SnapshotSource supplies the data the aggregation runs over. The store
// implements it; tests swap in a fake.
type SnapshotSource interface {
	Snapshot() (*smash.Snapshot, error)
}

// Service memoizes the standings computation. Concurrent cache misses share a
// single in-flight computation via singleflight instead of each re-running the
// full aggregation. Invalidate drops the cached result; a result computed from
// a snapshot taken before an invalidation is never cached past it.
type Service struct {
	source  SnapshotSource
	metrics metrics.Metrics

	group singleflight.Group

	mu     sync.Mutex
	cached *Result
	gen    uint64
}

// NewService creates a cached standings service over the given source.
func NewService(source SnapshotSource, metrics metrics.Metrics) *Service {
	return &Service{
		source:  source,
		metrics: metrics,
	}
}

// Get returns the current standings, computing them on a cache miss.
func (s *Service) Get() (*Result, error) {
	s.mu.Lock()
	cached := s.cached
	s.mu.Unlock()

	if cached != nil {
		s.metrics.IncStandingsCacheHits()
		return cached, nil
	}

	v, err, shared := s.group.Do("standings", func() (any, error) {
		// Re-check under the flight: a caller that lost the race to a
		// just-finished computation should not trigger another one.
		s.mu.Lock()
		cached, gen := s.cached, s.gen
		s.mu.Unlock()
		if cached != nil {
			s.metrics.IncStandingsCacheHits()
			return cached, nil
		}
		return s.compute(gen)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug("Standings request joined an in-flight computation")
	}
	return v.(*Result), nil
}

// ForPlayer returns a single player's standing record, or nil when the player
// has no row (unknown id).
func (s *Service) ForPlayer(playerID string) (*PlayerStanding, error) {
	result, err := s.Get()
	if err != nil {
		return nil, err
	}
	for i := range result.Leaderboard {
		if result.Leaderboard[i].PlayerID == playerID {
			return &result.Leaderboard[i], nil
		}
	}
	return nil, nil
}

// Invalidate drops the cached result. The next Get recomputes.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.gen++
	s.mu.Unlock()
	s.metrics.IncStandingsInvalidations()
	log.Debug("Standings cache invalidated")
}

func (s *Service) compute(gen uint64) (*Result, error) {
	start := time.Now()
	snap, err := s.source.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("loading standings snapshot: %w", err)
	}
	result, err := Compute(snap)
	if err != nil {
		return nil, fmt.Errorf("computing standings: %w", err)
	}

	s.metrics.IncStandingsComputations()
	s.metrics.ObserveComputeDuration(time.Since(start).Seconds())
	log.Info("Computed standings",
		"players", len(result.Leaderboard),
		"unranked", len(result.Unranked),
		"duration_ms", time.Since(start).Milliseconds())

	s.mu.Lock()
	// Only cache when no invalidation arrived while we were computing; the
	// snapshot we read may predate it.
	if s.gen == gen {
		s.cached = result
	}
	s.mu.Unlock()
	return result, nil
}
