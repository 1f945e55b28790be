package aggregate

import (
	"sync"

	"github.com/openfra/fra-atlas/internal/model"
)

// Store holds the latest committed claim collection behind a generation
// guard. Refresh runs are not cancellable once started, so two can overlap;
// the guard makes sure a slow old run can never overwrite a newer result.
type Store struct {
	mu        sync.RWMutex
	issued    int64
	committed int64
	claims    []model.Claim
	snapshot  model.RunSnapshot
}

func NewStore() *Store {
	return &Store{}
}

// Begin issues the next run generation. Call once per refresh, before
// fetching starts.
func (s *Store) Begin() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit installs a run's results. It returns false without touching the
// store when a newer generation has already committed.
func (s *Store) Commit(generation int64, claims []model.Claim, snapshot model.RunSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation <= s.committed {
		return false
	}
	s.committed = generation
	snapshot.Generation = generation
	s.claims = claims
	s.snapshot = snapshot
	return true
}

// Claims returns the committed collection. Callers must treat it as
// read-only; filters and exports copy what they keep.
func (s *Store) Claims() []model.Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims
}

// Snapshot returns run metadata for the committed generation
func (s *Store) Snapshot() model.RunSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Generation returns the last committed generation, zero before any run
func (s *Store) Generation() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

// Empty reports whether any run has committed yet
func (s *Store) Empty() bool {
	return s.Generation() == 0
}
