package entitycache

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/campusops/go-entity-cache/cache"
)

// Option configures a Store at construction time.
type Option[T Entity] func(*Store[T])

// WithLogger attaches a structured logger. The default logger discards
// everything.
func WithLogger[T Entity](log zerolog.Logger) Option[T] {
	return func(s *Store[T]) {
		s.log = log
	}
}

// WithQueryCache enables read-through caching of list, search, and count
// results. keys may be nil to use the default serializer.
func WithQueryCache[T Entity](service cache.Service, keys cache.KeySerializer) Option[T] {
	return func(s *Store[T]) {
		s.queries = service
		if keys != nil {
			s.keys = keys
		}
	}
}

// WithValidator replaces the input validation applied before create and
// update calls. The default runs the record's own Validate method when it
// implements validation.Validatable, and accepts everything otherwise.
func WithValidator[T Entity](fn func(record T) error) Option[T] {
	return func(s *Store[T]) {
		s.validate = fn
	}
}

func defaultValidate[T Entity](record T) error {
	if v, ok := any(record).(validation.Validatable); ok {
		return v.Validate()
	}
	return nil
}

// FetchOption adjusts a single fetch invocation.
type FetchOption func(*fetchOptions)

type fetchOptions struct {
	forceRefresh bool
}

// ForceRefresh bypasses the cache-hit short-circuit and re-issues the gateway
// call, overwriting the cached value on success.
func ForceRefresh() FetchOption {
	return func(o *fetchOptions) {
		o.forceRefresh = true
	}
}

func applyFetchOptions(opts []FetchOption) fetchOptions {
	var options fetchOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
