package tier

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

func TestFetchIfNeededFetchesOnce(t *testing.T) {
	var calls int32
	s := NewStore(func(ctx context.Context, token string) (*models.Tier, error) {
		atomic.AddInt32(&calls, 1)
		return &models.Tier{Name: "Free"}, nil
	})

	if err := s.FetchIfNeeded(context.Background(), "tok"); err != nil {
		t.Fatalf("FetchIfNeeded: %v", err)
	}
	if err := s.FetchIfNeeded(context.Background(), "tok"); err != nil {
		t.Fatalf("FetchIfNeeded: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetch called %d times, want 1", n)
	}
	if got := s.Tier(); got == nil || got.Name != "Free" {
		t.Errorf("tier = %+v", got)
	}
}

func TestFetchIfNeededSingleFlight(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	s := NewStore(func(ctx context.Context, token string) (*models.Tier, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &models.Tier{Name: "Free"}, nil
	})

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.FetchIfNeeded(context.Background(), "tok")
		}()
	}
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetch called %d times under concurrency, want 1", n)
	}
}

func TestFetchFailureLeavesCacheAndAllowsRetry(t *testing.T) {
	var calls int32
	s := NewStore(func(ctx context.Context, token string) (*models.Tier, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("boom")
		}
		return &models.Tier{Name: "Free"}, nil
	})

	if err := s.FetchIfNeeded(context.Background(), "tok"); err == nil {
		t.Fatal("expected first fetch to fail")
	}
	if s.Tier() != nil {
		t.Error("failed fetch must leave cache empty")
	}

	if err := s.FetchIfNeeded(context.Background(), "tok"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := s.Tier(); got == nil || got.Name != "Free" {
		t.Errorf("tier after retry = %+v", got)
	}
}

func TestRefreshOverwrites(t *testing.T) {
	tiers := []*models.Tier{{Name: "Free"}, {Name: "Pro"}}
	var idx int32
	s := NewStore(func(ctx context.Context, token string) (*models.Tier, error) {
		return tiers[atomic.AddInt32(&idx, 1)-1], nil
	})

	_ = s.FetchIfNeeded(context.Background(), "tok")
	if err := s.Refresh(context.Background(), "tok"); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := s.Tier(); got == nil || got.Name != "Pro" {
		t.Errorf("tier after refresh = %+v", got)
	}
}

func TestRefreshFailureKeepsPrevious(t *testing.T) {
	var calls int32
	s := NewStore(func(ctx context.Context, token string) (*models.Tier, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return &models.Tier{Name: "Free"}, nil
		}
		return nil, errors.New("boom")
	})

	_ = s.FetchIfNeeded(context.Background(), "tok")
	if err := s.Refresh(context.Background(), "tok"); err == nil {
		t.Fatal("expected refresh failure")
	}
	if got := s.Tier(); got == nil || got.Name != "Free" {
		t.Errorf("tier after failed refresh = %+v", got)
	}
}

func TestUpdateIfNotNull(t *testing.T) {
	s := NewStore(nil)

	s.UpdateIfNotNull(nil)
	if s.Tier() != nil {
		t.Error("nil update must not populate the cache")
	}

	s.UpdateIfNotNull(&models.Tier{Name: "Free"})
	s.UpdateIfNotNull(nil)
	if got := s.Tier(); got == nil || got.Name != "Free" {
		t.Errorf("nil update must not clear the cache, tier = %+v", got)
	}

	s.UpdateIfNotNull(&models.Tier{Name: "Pro"})
	if got := s.Tier(); got == nil || got.Name != "Pro" {
		t.Errorf("non-nil update must replace, tier = %+v", got)
	}
}

func TestTierReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.UpdateIfNotNull(&models.Tier{Name: "Free"})

	got := s.Tier()
	got.Name = "mutated"
	if s.Tier().Name != "Free" {
		t.Error("Tier() must return a copy, not interior state")
	}
}
