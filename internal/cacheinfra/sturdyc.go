// Package cacheinfra adapts the sturdyc in-memory cache to the cache.Service
// contract used by the entity stores.
package cacheinfra

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/viccon/sturdyc"

	"github.com/campusops/go-entity-cache/cache"
)

// Service wraps a sturdyc client providing read-through query caching.
// sturdyc deduplicates concurrent fetches for the same key, which is the
// stampede protection the list/search paths rely on.
type Service struct {
	client *sturdyc.Client[any]
	log    zerolog.Logger
}

var _ cache.Service = (*Service)(nil)

// New creates a sturdyc-backed cache service from the provided configuration.
//
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly to the
// sturdyc constructor; the remaining knobs map to sturdyc options.
func New(cfg cache.Config, log zerolog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options []sturdyc.Option
	if cfg.EarlyRefresh != nil {
		options = append(options, sturdyc.WithEarlyRefreshes(
			cfg.EarlyRefresh.MinAsyncRefreshTime,
			cfg.EarlyRefresh.MaxAsyncRefreshTime,
			cfg.EarlyRefresh.SyncRefreshTime,
			cfg.EarlyRefresh.RetryBaseDelay,
		))
	}
	if cfg.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}
	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		options...,
	)

	return &Service{client: client, log: log}, nil
}

// GetOrFetch implements cache.Service.
func (s *Service) GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	return s.client.GetOrFetch(ctx, key, fetch)
}

// Delete implements cache.Service.
func (s *Service) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// DeletePrefix implements cache.Service. It scans the full key set; prefix
// invalidation after a write is rare compared to reads, so the scan cost is
// acceptable for an in-process cache.
func (s *Service) DeletePrefix(ctx context.Context, prefix string) error {
	removed := 0
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug().Str("prefix", prefix).Int("removed", removed).Msg("query cache invalidated")
	}
	return nil
}
