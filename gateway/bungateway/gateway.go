// Package bungateway implements the gateway contract on a SQL database
// through uptrace/bun. It is the one concrete Remote Gateway shipped with
// this module; id assignment, encoding, and error normalization all happen
// here, never in the cache core.
package bungateway

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"

	"github.com/campusops/go-entity-cache/gateway"
)

// ModelHandlers supplies the per-type accessors the generic gateway needs:
// how to read and assign the primary key. NewID may be nil, in which case
// ids are random UUIDs.
type ModelHandlers[T any] struct {
	GetID func(record T) string
	SetID func(record *T, id string)
	NewID func() string
}

// Gateway is a bun-backed gateway.Gateway implementation for one table.
type Gateway[T any] struct {
	db       *bun.DB
	handlers ModelHandlers[T]
	log      zerolog.Logger
}

var _ gateway.Gateway[struct{}] = (*Gateway[struct{}])(nil)

// Option configures a Gateway.
type Option[T any] func(*Gateway[T])

// WithLogger attaches a structured logger.
func WithLogger[T any](log zerolog.Logger) Option[T] {
	return func(g *Gateway[T]) {
		g.log = log
	}
}

// New creates a gateway over db for the model type T.
func New[T any](db *bun.DB, handlers ModelHandlers[T], opts ...Option[T]) *Gateway[T] {
	if handlers.NewID == nil {
		handlers.NewID = uuid.NewString
	}
	g := &Gateway[T]{db: db, handlers: handlers, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FetchByID implements gateway.Gateway.
func (g *Gateway[T]) FetchByID(ctx context.Context, id string) (T, error) {
	var record T
	err := g.db.NewSelect().Model(&record).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record, errors.Wrapf(gateway.ErrNotFound, "fetch %q", id)
		}
		return record, errors.Wrap(err, "fetch record")
	}
	return record, nil
}

// List implements gateway.Gateway.
func (g *Gateway[T]) List(ctx context.Context, params gateway.ListParams) (gateway.Page[T], error) {
	var records []T
	q := g.db.NewSelect().Model(&records)
	q = applyFilter(q, params.Filter)

	if params.SortBy != "" {
		if params.Order == gateway.SortDesc {
			q = q.OrderExpr("? DESC", bun.Ident(params.SortBy))
		} else {
			q = q.OrderExpr("? ASC", bun.Ident(params.SortBy))
		}
	} else {
		q = q.OrderExpr("? ASC", bun.Ident("id"))
	}

	page := params.Page
	if params.Limit > 0 {
		if page < 1 {
			page = 1
		}
		q = q.Limit(params.Limit).Offset((page - 1) * params.Limit)
	}

	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return gateway.Page[T]{}, errors.Wrap(err, "list records")
	}
	return gateway.NewPage(records, total, page, params.Limit), nil
}

// Count implements gateway.Gateway.
func (g *Gateway[T]) Count(ctx context.Context, params gateway.ListParams) (int, error) {
	q := g.db.NewSelect().Model((*T)(nil))
	q = applyFilter(q, params.Filter)
	count, err := q.Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "count records")
	}
	return count, nil
}

// Create implements gateway.Gateway. The gateway assigns the id when the
// input carries none.
func (g *Gateway[T]) Create(ctx context.Context, input T) (T, error) {
	if g.handlers.GetID(input) == "" {
		g.handlers.SetID(&input, g.handlers.NewID())
	}
	if _, err := g.db.NewInsert().Model(&input).Exec(ctx); err != nil {
		return input, errors.Wrap(err, "insert record")
	}
	g.log.Debug().Str("id", g.handlers.GetID(input)).Msg("record inserted")
	return input, nil
}

// Update implements gateway.Gateway.
func (g *Gateway[T]) Update(ctx context.Context, input T) (T, error) {
	res, err := g.db.NewUpdate().Model(&input).WherePK().Exec(ctx)
	if err != nil {
		return input, errors.Wrap(err, "update record")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return input, errors.Wrapf(gateway.ErrNotFound, "update %q", g.handlers.GetID(input))
	}
	return input, nil
}

// Delete implements gateway.Gateway.
func (g *Gateway[T]) Delete(ctx context.Context, id string) error {
	res, err := g.db.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "delete record")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return errors.Wrapf(gateway.ErrNotFound, "delete %q", id)
	}
	g.log.Debug().Str("id", id).Msg("record deleted")
	return nil
}

// applyFilter adds equality terms in sorted field order so generated SQL is
// deterministic.
func applyFilter(q *bun.SelectQuery, filter map[string]string) *bun.SelectQuery {
	fields := make([]string, 0, len(filter))
	for field := range filter {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		q = q.Where("? = ?", bun.Ident(field), filter[field])
	}
	return q
}
