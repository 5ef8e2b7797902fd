package cacheinfra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campusops/go-entity-cache/cache"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := cache.DefaultConfig()
	cfg.TTL = time.Minute
	cfg.EarlyRefresh = nil
	svc, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := cache.DefaultConfig()
	cfg.Capacity = 0

	_, err := New(cfg, zerolog.Nop())
	if err == nil {
		t.Fatal("New() accepted a zero capacity")
	}
	var cfgErr *cache.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("New() error = %T, want *cache.ConfigError", err)
	}
	if cfgErr.Field != "Capacity" {
		t.Errorf("ConfigError.Field = %q, want Capacity", cfgErr.Field)
	}
}

func TestGetOrFetchCachesResult(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		got, err := svc.GetOrFetch(ctx, "class::FetchByID::E1", fetch)
		if err != nil {
			t.Fatalf("GetOrFetch() error = %v", err)
		}
		if got != "value" {
			t.Fatalf("GetOrFetch() = %v", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetch ran %d times, want 1", calls)
	}
}

func TestDeleteForcesRefetch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	if _, err := svc.GetOrFetch(ctx, "key", fetch); err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}
	if err := svc.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, err := svc.GetOrFetch(ctx, "key", fetch)
	if err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}
	if got != 2 {
		t.Errorf("GetOrFetch() after delete = %v, want refetched value", got)
	}
}

func TestDeletePrefixRemovesOnlyMatchingKeys(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	seed := func(key string) {
		if _, err := svc.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
			return key, nil
		}); err != nil {
			t.Fatalf("seed %q: %v", key, err)
		}
	}
	seed("class::FetchByGroup::branch_id::B1")
	seed("class::Search::struct:{}")
	seed("enrollment::FetchByGroup::class_id::C1")

	if err := svc.DeletePrefix(ctx, "class"+cache.KeySeparator); err != nil {
		t.Fatalf("DeletePrefix() error = %v", err)
	}

	refetched := 0
	check := func(key string) {
		if _, err := svc.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
			refetched++
			return key, nil
		}); err != nil {
			t.Fatalf("check %q: %v", key, err)
		}
	}
	check("class::FetchByGroup::branch_id::B1")
	check("class::Search::struct:{}")
	check("enrollment::FetchByGroup::class_id::C1")

	if refetched != 2 {
		t.Errorf("refetched %d keys, want the 2 under the class prefix", refetched)
	}
}
