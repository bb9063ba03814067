package query

import (
	"context"
	"sync"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

// HistoryCache is the per-project list of completed queries, fetched
// lazily and invalidated explicitly. It starts stale so the first view
// always fetches.
type HistoryCache struct {
	mu      sync.Mutex
	stale   bool
	entries []models.Query
	fetch   func(ctx context.Context) ([]models.Query, *models.Tier, error)
	merge   func(*models.Tier)
}

// NewHistoryCache builds a cache around a fetch function (already guarded
// by the caller) and a tier-merge hook applied to returned metadata.
func NewHistoryCache(
	fetch func(ctx context.Context) ([]models.Query, *models.Tier, error),
	merge func(*models.Tier),
) *HistoryCache {
	return &HistoryCache{stale: true, fetch: fetch, merge: merge}
}

// EnsureFresh returns the cached entries, fetching first only when the
// cache is stale. A failed fetch leaves the stale flag set so the next
// view retries.
func (h *HistoryCache) EnsureFresh(ctx context.Context) ([]models.Query, error) {
	h.mu.Lock()
	if !h.stale {
		entries := append([]models.Query{}, h.entries...)
		h.mu.Unlock()
		return entries, nil
	}
	h.mu.Unlock()

	entries, t, err := h.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if h.merge != nil {
		h.merge(t)
	}

	h.mu.Lock()
	h.entries = entries
	h.stale = false
	result := append([]models.Query{}, h.entries...)
	h.mu.Unlock()
	return result, nil
}

// MarkStale forces a refetch on the next view. Called after any mutating
// action.
func (h *HistoryCache) MarkStale() {
	h.mu.Lock()
	h.stale = true
	h.mu.Unlock()
}

func (h *HistoryCache) Stale() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stale
}
