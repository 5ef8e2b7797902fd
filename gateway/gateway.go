package gateway

import (
	"context"
	"errors"
)

// ErrNotFound is returned by gateway implementations when the requested
// record does not exist on the remote side.
var ErrNotFound = errors.New("record not found")

// Gateway is the remote CRUD surface an entity cache sits in front of.
// Implementations own wire encoding, authentication, and any retry/backoff
// against the backing database; callers treat every operation as an opaque
// request/response boundary and every failure as a plain error.
//
// Identifiers are assigned by the gateway on Create. Callers must never
// synthesize ids client-side.
type Gateway[T any] interface {
	// FetchByID returns the record for id, or ErrNotFound.
	FetchByID(ctx context.Context, id string) (T, error)

	// List returns records matching the filter, sort, and pagination
	// parameters. A zero Limit means no pagination.
	List(ctx context.Context, params ListParams) (Page[T], error)

	// Count returns the number of records matching the filter.
	Count(ctx context.Context, params ListParams) (int, error)

	// Create persists a new record and returns it with its assigned id.
	Create(ctx context.Context, input T) (T, error)

	// Update overwrites the stored record and returns the stored value.
	Update(ctx context.Context, input T) (T, error)

	// Delete removes the record for id. The response carries no body.
	Delete(ctx context.Context, id string) error
}
