// Package di provides the composition root for the entity cache stack. A
// Container is constructed once at application start and passed by reference
// to consumers; there are no package-level singletons.
package di

import (
	"github.com/rs/zerolog"

	"github.com/campusops/go-entity-cache/cache"
	"github.com/campusops/go-entity-cache/entitycache"
	"github.com/campusops/go-entity-cache/gateway"
	"github.com/campusops/go-entity-cache/internal/cacheinfra"
)

// Container manages the shared query cache, key serializer, and logger that
// every entity store in one application session uses.
type Container struct {
	queries cache.Service
	keys    cache.KeySerializer
	config  cache.Config
	log     zerolog.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger handed to every component the container builds.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Container) {
		c.log = log
	}
}

// NewContainer creates a container with the provided query cache
// configuration.
func NewContainer(config cache.Config, opts ...Option) (*Container, error) {
	c := &Container{
		config: config,
		keys:   cache.NewDefaultKeySerializer(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	queries, err := cacheinfra.New(config, c.log)
	if err != nil {
		return nil, err
	}
	c.queries = queries
	return c, nil
}

// NewContainerWithDefaults creates a container using the default query cache
// configuration.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// QueryCache returns the shared query cache service.
func (c *Container) QueryCache() cache.Service { return c.queries }

// KeySerializer returns the shared key serializer.
func (c *Container) KeySerializer() cache.KeySerializer { return c.keys }

// Config returns a copy of the query cache configuration.
func (c *Container) Config() cache.Config { return c.config }

// Logger returns the container's logger.
func (c *Container) Logger() zerolog.Logger { return c.log }

// NewStore builds an entity store wired to the container's query cache,
// serializer, and logger. Per-store options are applied after the wiring so
// they can override it.
//
// Since Go methods cannot have type parameters, this is a package-level
// function: NewStore[Class](container, "class", gw, specs).
func NewStore[T entitycache.Entity](c *Container, name string, gw gateway.Gateway[T], specs []entitycache.IndexSpec[T], opts ...entitycache.Option[T]) *entitycache.Store[T] {
	base := []entitycache.Option[T]{
		entitycache.WithQueryCache[T](c.queries, c.keys),
		entitycache.WithLogger[T](c.log),
	}
	return entitycache.New(name, gw, specs, append(base, opts...)...)
}
