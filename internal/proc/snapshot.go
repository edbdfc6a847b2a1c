package proc

import (
	"context"
	"sync"
	"time"

	"github.com/pranshuparmar/witr/pkg/model"
)

// DefaultMaxAge is how long a Snapshot is considered fresh.
const DefaultMaxAge = 2 * time.Second

// Snapshot is one read of host-wide state shared by every process in an
// inspection: boot time and the decoded connection table. It is never
// refreshed behind the caller's back; the owner checks Stale and calls
// Refresh.
type Snapshot struct {
	provider Provider
	maxAge   time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	takenAt  time.Time
	bootTime time.Time
	table    map[model.SocketID]model.SocketInfo
}

// NewSnapshot returns an empty snapshot over provider. It is stale until
// the first Refresh.
func NewSnapshot(provider Provider, maxAge time.Duration) *Snapshot {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Snapshot{
		provider: provider,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Refresh re-reads the host state.
func (s *Snapshot) Refresh(ctx context.Context) {
	table := s.provider.ConnectionTable(ctx)
	boot := s.provider.BootTime(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
	s.bootTime = boot
	s.takenAt = s.now()
}

// Stale reports whether the snapshot is older than its max age.
func (s *Snapshot) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.takenAt.IsZero() || s.now().Sub(s.takenAt) > s.maxAge
}

// RefreshIfStale refreshes only when Stale is true.
func (s *Snapshot) RefreshIfStale(ctx context.Context) {
	if s.Stale() {
		s.Refresh(ctx)
	}
}

// Table returns the decoded connection table. Callers must not modify it.
func (s *Snapshot) Table() map[model.SocketID]model.SocketInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// BootTime returns the host boot time, zero if unknown.
func (s *Snapshot) BootTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bootTime
}

// TakenAt returns when the snapshot was last refreshed.
func (s *Snapshot) TakenAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.takenAt
}

// MaxAge returns the staleness bound.
func (s *Snapshot) MaxAge() time.Duration {
	return s.maxAge
}
