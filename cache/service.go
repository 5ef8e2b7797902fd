package cache

import "context"

// KeySerializer builds a cache key from an operation name + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(op string, args ...any) string
}

// FetchFn is the function signature Service expects when fetching from the
// source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Service exposes the read-through query caching operations the entity
// stores need. It is exported so that consumers can provide alternate cache
// backends.
type Service interface {
	// GetOrFetch returns the cached value for key, or runs fetch and caches
	// the result.
	GetOrFetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error)

	// Delete removes a single entry.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every entry whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// GetOrFetch is a type-safe wrapper that provides generic support for Service.
func GetOrFetch[T any](ctx context.Context, service Service, key string, fetch FetchFn[T]) (T, error) {
	result, err := service.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
