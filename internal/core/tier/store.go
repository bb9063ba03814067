// Package tier holds the process-wide plan-limit and usage state. Only
// the operations here may mutate it; views read snapshots.
package tier

import (
	"context"
	"log"
	"sync"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

// Fetcher retrieves the caller's tier from the metadata endpoint.
type Fetcher func(ctx context.Context, token string) (*models.Tier, error)

// Store is the single source of truth for tier limits and consumption
// counters. The cached value starts nil and is only ever replaced by a
// non-nil tier; a stale-but-present tier beats a cleared one.
type Store struct {
	mu       sync.Mutex
	tier     *models.Tier
	inFlight bool
	fetch    Fetcher
}

func NewStore(fetch Fetcher) *Store {
	return &Store{fetch: fetch}
}

// Tier returns a copy of the cached tier, or nil if none has been fetched.
func (s *Store) Tier() *models.Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tier == nil {
		return nil
	}
	t := *s.tier
	return &t
}

// FetchIfNeeded fetches the tier once. It is a no-op when a tier is
// already cached, and idempotent under rapid repeated calls: the in-flight
// flag is taken under the lock before the fetch starts, so concurrent
// callers never issue duplicate requests.
func (s *Store) FetchIfNeeded(ctx context.Context, token string) error {
	s.mu.Lock()
	if s.tier != nil || s.inFlight {
		s.mu.Unlock()
		return nil
	}
	s.inFlight = true
	s.mu.Unlock()

	tier, err := s.fetch(ctx, token)

	s.mu.Lock()
	s.inFlight = false
	if err == nil && tier != nil {
		s.tier = tier
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("tier fetch failed: %v", err)
		return err
	}
	return nil
}

// Refresh unconditionally fetches and overwrites the cached tier. Used
// once per sign-in. A failed refresh leaves the previous value untouched.
func (s *Store) Refresh(ctx context.Context, token string) error {
	tier, err := s.fetch(ctx, token)
	if err != nil {
		log.Printf("tier refresh failed: %v", err)
		return err
	}
	s.UpdateIfNotNull(tier)
	return nil
}

// UpdateIfNotNull replaces the cached tier only when the new value is
// non-nil. Mutating server calls return tier metadata through here.
func (s *Store) UpdateIfNotNull(t *models.Tier) {
	if t == nil {
		return
	}
	s.mu.Lock()
	tier := *t
	s.tier = &tier
	s.mu.Unlock()
}
