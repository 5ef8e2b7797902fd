package entitycache

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/campusops/go-entity-cache/cache"
	"github.com/campusops/go-entity-cache/gateway"
)

// Store is a normalized, async-aware cache of server-backed entities. It
// composes the primary store, the secondary indexes declared by the entity's
// IndexSpecs, and a request tracker around a remote gateway, and is the only
// component allowed to mutate any of them.
//
// Reads via the selector surface (GetByID, GetByGroup, RequestStatus) are
// lock-free and never mutate. Writes happen only inside the commit step of a
// settled gateway call, serialized by a single writer lock; commit ordering
// (record before membership, membership removal before record removal) keeps
// index references resolvable at every observable point.
//
// Duplicate in-flight calls of the same kind are not deduplicated or
// cancelled: both complete, and the later settlement wins. The query cache,
// when enabled, deduplicates the list/search path underneath.
type Store[T Entity] struct {
	name     string
	gw       gateway.Gateway[T]
	specs    []IndexSpec[T]
	primary  *PrimaryStore[T]
	indexes  map[string]*GroupIndex
	tracker  *RequestTracker
	queries  cache.Service
	keys     cache.KeySerializer
	validate func(record T) error
	log      zerolog.Logger

	mu sync.Mutex // serializes commits
}

// New creates a store for one entity type. name namespaces query cache keys
// and log lines ("class", "enrollment", ...). specs declare the secondary
// index dimensions maintained for the type.
func New[T Entity](name string, gw gateway.Gateway[T], specs []IndexSpec[T], opts ...Option[T]) *Store[T] {
	if name == "" {
		name = "entity"
	}
	indexes := make(map[string]*GroupIndex, len(specs))
	for _, spec := range specs {
		indexes[spec.Name] = NewGroupIndex()
	}
	s := &Store[T]{
		name:     name,
		gw:       gw,
		specs:    specs,
		primary:  NewPrimaryStore[T](),
		indexes:  indexes,
		tracker:  NewRequestTracker(),
		keys:     cache.NewDefaultKeySerializer(),
		validate: defaultValidate[T],
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchByID returns the record for id. If the record is already cached and no
// ForceRefresh option is given, the gateway is not called. A failed refresh
// leaves any previously cached value in place.
func (s *Store[T]) FetchByID(ctx context.Context, id string, opts ...FetchOption) (T, error) {
	options := applyFetchOptions(opts)
	if !options.forceRefresh {
		if record, ok := s.primary.Get(id); ok {
			return record, nil
		}
	}

	s.tracker.Begin(OpFetchOne)
	record, err := run(ctx, func(ctx context.Context) (T, error) {
		record, err := s.gw.FetchByID(ctx, id)
		if err != nil {
			return record, err
		}
		s.commitRefresh(record)
		return record, nil
	})
	if err != nil {
		var zero T
		return zero, s.fail(OpFetchOne, err)
	}
	s.tracker.Succeed(OpFetchOne)
	return record, nil
}

// FetchByGroup returns every record belonging to one group of the named
// index, fetching from the gateway only when the group has not been cached or
// ForceRefresh is given. A successful fetch replaces the group's membership.
func (s *Store[T]) FetchByGroup(ctx context.Context, index, key string, opts ...FetchOption) ([]T, error) {
	idx, err := s.indexFor(OpFetchList, index)
	if err != nil {
		return nil, err
	}
	group := GroupKey{Index: index, Key: key}

	options := applyFetchOptions(opts)
	if !options.forceRefresh {
		if ids, ok := idx.ListMembers(group); ok {
			return s.resolve(ids), nil
		}
	}

	s.tracker.Begin(OpFetchList)
	records, err := run(ctx, func(ctx context.Context) ([]T, error) {
		records, err := s.listGroup(ctx, group, options.forceRefresh)
		if err != nil {
			return nil, err
		}
		s.commitGroup(group, records)
		return records, nil
	})
	if err != nil {
		return nil, s.fail(OpFetchList, err)
	}
	s.tracker.Succeed(OpFetchList)
	return records, nil
}

// Search forwards filter, sort, and pagination parameters to the gateway and
// commits the returned records. Group membership gains the returned records
// but is never replaced, since a search page is a partial view.
func (s *Store[T]) Search(ctx context.Context, params gateway.ListParams) (gateway.Page[T], error) {
	s.tracker.Begin(OpSearch)
	page, err := run(ctx, func(ctx context.Context) (gateway.Page[T], error) {
		page, err := s.searchRemote(ctx, params)
		if err != nil {
			return page, err
		}
		s.commitRecords(page.Items)
		return page, nil
	})
	if err != nil {
		return gateway.Page[T]{}, s.fail(OpSearch, err)
	}
	s.tracker.Succeed(OpSearch)
	return page, nil
}

// CountByGroup returns the remote count for one group of the named index,
// tracked under the stats op-kind.
func (s *Store[T]) CountByGroup(ctx context.Context, index, key string) (int, error) {
	if _, err := s.indexFor(OpStats, index); err != nil {
		return 0, err
	}

	s.tracker.Begin(OpStats)
	count, err := run(ctx, func(ctx context.Context) (int, error) {
		return s.countRemote(ctx, index, key)
	})
	if err != nil {
		return 0, s.fail(OpStats, err)
	}
	s.tracker.Succeed(OpStats)
	return count, nil
}

// Create validates the input, forwards it to the gateway, and commits the
// returned record into the primary store and every relevant index. Invalid
// input never reaches the gateway.
func (s *Store[T]) Create(ctx context.Context, input T) (T, error) {
	s.tracker.Begin(OpCreate)
	if err := s.validate(input); err != nil {
		var zero T
		return zero, s.invalid(OpCreate, err)
	}

	created, err := run(ctx, func(ctx context.Context) (T, error) {
		created, err := s.gw.Create(ctx, input)
		if err != nil {
			return created, err
		}
		s.commitUpsert(created)
		s.invalidateQueries(ctx)
		return created, nil
	})
	if err != nil {
		var zero T
		return zero, s.fail(OpCreate, err)
	}
	s.tracker.Succeed(OpCreate)
	return created, nil
}

// Update validates the input, forwards it to the gateway, and commits the
// returned record. When a grouping-key field changed, the old group
// membership is removed and the new one added in the same commit.
func (s *Store[T]) Update(ctx context.Context, input T) (T, error) {
	s.tracker.Begin(OpUpdate)
	if err := s.validate(input); err != nil {
		var zero T
		return zero, s.invalid(OpUpdate, err)
	}

	updated, err := run(ctx, func(ctx context.Context) (T, error) {
		updated, err := s.gw.Update(ctx, input)
		if err != nil {
			return updated, err
		}
		s.commitUpsert(updated)
		s.invalidateQueries(ctx)
		return updated, nil
	})
	if err != nil {
		var zero T
		return zero, s.fail(OpUpdate, err)
	}
	s.tracker.Succeed(OpUpdate)
	return updated, nil
}

// Remove deletes the record via the gateway, then purges it from the primary
// store and every index it was known to belong to. Memberships are looked up
// from the pre-delete record, since the delete response carries no body. A
// failed delete leaves all structures unchanged.
func (s *Store[T]) Remove(ctx context.Context, id string) error {
	s.tracker.Begin(OpDelete)
	_, err := run(ctx, func(ctx context.Context) (struct{}, error) {
		if err := s.gw.Delete(ctx, id); err != nil {
			return struct{}{}, err
		}
		s.commitDelete(id)
		s.invalidateQueries(ctx)
		return struct{}{}, nil
	})
	if err != nil {
		return s.fail(OpDelete, err)
	}
	s.tracker.Succeed(OpDelete)
	return nil
}

// GetByID reads the cached record for id. It never calls the gateway.
func (s *Store[T]) GetByID(id string) (T, bool) {
	return s.primary.Get(id)
}

// GetByGroup reads the cached records for one group of the named index in
// insertion order. Unknown indexes and never-fetched groups read as empty.
func (s *Store[T]) GetByGroup(index, key string) []T {
	idx, ok := s.indexes[index]
	if !ok {
		return nil
	}
	ids, ok := idx.ListMembers(GroupKey{Index: index, Key: key})
	if !ok {
		return nil
	}
	return s.resolve(ids)
}

// RequestStatus reads the loading/error state for one operation kind.
func (s *Store[T]) RequestStatus(kind OpKind) Status {
	return s.tracker.Status(kind)
}

// Len reports the number of cached records.
func (s *Store[T]) Len() int {
	return s.primary.Len()
}

func (s *Store[T]) indexFor(op OpKind, index string) (*GroupIndex, error) {
	idx, ok := s.indexes[index]
	if !ok {
		verr := &ValidationError{Fields: map[string]string{
			"index": fmt.Sprintf("unknown index %q", index),
		}}
		s.tracker.Fail(op, verr.Error())
		return nil, verr
	}
	return idx, nil
}

func (s *Store[T]) resolve(ids []string) []T {
	records := make([]T, 0, len(ids))
	for _, id := range ids {
		if record, ok := s.primary.Get(id); ok {
			records = append(records, record)
		}
	}
	return records
}

func (s *Store[T]) listGroup(ctx context.Context, group GroupKey, force bool) ([]T, error) {
	fetch := func(ctx context.Context) ([]T, error) {
		params := gateway.ListParams{}.WithFilter(group.Index, group.Key)
		page, err := s.gw.List(ctx, params)
		if err != nil {
			return nil, err
		}
		return page.Items, nil
	}
	if s.queries == nil {
		return fetch(ctx)
	}
	key := s.keys.SerializeKey(s.name, "FetchByGroup", group.Index, group.Key)
	if force {
		_ = s.queries.Delete(ctx, key)
	}
	return cache.GetOrFetch(ctx, s.queries, key, fetch)
}

func (s *Store[T]) searchRemote(ctx context.Context, params gateway.ListParams) (gateway.Page[T], error) {
	fetch := func(ctx context.Context) (gateway.Page[T], error) {
		return s.gw.List(ctx, params)
	}
	if s.queries == nil {
		return fetch(ctx)
	}
	key := s.keys.SerializeKey(s.name, "Search", params)
	return cache.GetOrFetch(ctx, s.queries, key, fetch)
}

func (s *Store[T]) countRemote(ctx context.Context, index, key string) (int, error) {
	params := gateway.ListParams{}.WithFilter(index, key)
	fetch := func(ctx context.Context) (int, error) {
		return s.gw.Count(ctx, params)
	}
	if s.queries == nil {
		return fetch(ctx)
	}
	return cache.GetOrFetch(ctx, s.queries, s.keys.SerializeKey(s.name, "Count", index, key), fetch)
}

// commitUpsert applies one mutated record to the primary store and the
// indexes, seeding its groups. The record lands before any membership change
// so readers never resolve a group member to a missing record.
func (s *Store[T]) commitUpsert(record T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(record, true)
}

// commitRefresh applies one fetched record. It refreshes groups that are
// already cached but never seeds new ones: a single-record fetch is not proof
// that any of its groups was fully fetched.
func (s *Store[T]) commitRefresh(record T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(record, false)
}

// commitRecords commits a partial result set (a search page). Records land in
// the primary store and refresh groups that are already cached, but never
// seed new groups: a page is not proof that a group was fully fetched.
func (s *Store[T]) commitRecords(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		s.upsertLocked(record, false)
	}
}

func (s *Store[T]) commitGroup(group GroupKey, records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(records))
	for _, record := range records {
		s.upsertLocked(record, true)
		ids = append(ids, record.EntityID())
	}
	s.indexes[group.Index].ReplaceGroup(group, ids)
}

func (s *Store[T]) upsertLocked(record T, seedGroups bool) {
	id := record.EntityID()
	previous, existed := s.primary.Get(id)
	s.primary.Put(record)

	next := groupKeysOf(s.specs, record)
	for _, key := range next {
		idx := s.indexes[key.Index]
		if seedGroups || idx.Known(key) {
			idx.AddMember(key, id)
		}
	}
	if existed {
		for _, key := range groupKeysOf(s.specs, previous) {
			if !containsGroup(next, key) {
				s.indexes[key.Index].RemoveMember(key, id)
			}
		}
	}
	s.log.Debug().Str("store", s.name).Str("id", id).Msg("record committed")
}

// commitDelete purges one record. Memberships go first so readers never
// resolve a group member to a removed record.
func (s *Store[T]) commitDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.primary.Get(id)
	if !ok {
		return
	}
	for _, key := range groupKeysOf(s.specs, record) {
		s.indexes[key.Index].RemoveMember(key, id)
	}
	s.primary.Remove(id)
	s.log.Debug().Str("store", s.name).Str("id", id).Msg("record purged")
}

func (s *Store[T]) invalidateQueries(ctx context.Context) {
	if s.queries == nil {
		return
	}
	_ = s.queries.DeletePrefix(ctx, s.name+cache.KeySeparator)
}

func (s *Store[T]) invalid(op OpKind, err error) error {
	verr := asValidationError(err)
	s.tracker.Fail(op, verr.Error())
	s.log.Debug().Str("store", s.name).Str("op", string(op)).Err(verr).Msg("input rejected")
	return verr
}

func (s *Store[T]) fail(op OpKind, err error) error {
	gerr := asGatewayError(op, err)
	s.tracker.Fail(op, gerr.Message)
	s.log.Warn().Str("store", s.name).Str("op", string(op)).Str("reason", gerr.Message).Msg("gateway call failed")
	return gerr
}

// run executes one pipeline step, converting a panic in the gateway call or
// the commit bookkeeping into an ordinary error so the tracker always reaches
// a settled state.
func run[R any](ctx context.Context, fn func(ctx context.Context) (R, error)) (out R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()
	return fn(ctx)
}
