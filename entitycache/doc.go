// Package entitycache implements a normalized, async-aware client cache for
// server-backed entities.
//
// # Overview
//
// A Store composes four pieces around a remote gateway:
//
//   - PrimaryStore: the canonical id → record mapping
//   - GroupIndex: per-dimension grouping-key → ordered id lists, holding
//     identifier references only
//   - RequestTracker: per-operation-kind loading/error flags
//   - the mutation pipeline: validate → gateway call → atomic commit
//
// The gateway (see the gateway package) is treated as a black-box async
// boundary; every operation it exposes returns either a value or a plain
// error. The store never mutates its structures outside the commit step of a
// settled call, and consumers never mutate them at all: they read through the
// selector surface (GetByID, GetByGroup, RequestStatus) and trigger work
// through the action methods (FetchByID, FetchByGroup, Create, Update,
// Remove, Search, CountByGroup).
//
// # Basic Usage
//
// Declare the entity's grouping dimensions once and build a store per entity
// type:
//
//	specs := []entitycache.IndexSpec[Class]{
//		{Name: "branch_id", Key: func(c Class) (string, bool) { return c.BranchID, c.BranchID != "" }},
//		{Name: "teacher_id", Key: func(c Class) (string, bool) { return c.TeacherID, c.TeacherID != "" }},
//	}
//	classes := entitycache.New("class", classGateway, specs)
//
//	created, err := classes.Create(ctx, Class{BranchID: "B1", Name: "Algebra"})
//	roster, err := classes.FetchByGroup(ctx, "branch_id", "B1")
//	cached, ok := classes.GetByID(created.EntityID())
//
// # Caching Behavior
//
// FetchByID and FetchByGroup short-circuit when the requested record or group
// is already cached; ForceRefresh always re-issues the gateway call and
// overwrites on success. A failed refresh keeps the stale value visible, so a
// consumer never regresses from showing data to showing nothing because a
// background refresh failed.
//
// Create, Update, and Remove are all-or-nothing: a failed gateway call leaves
// the primary store and every index byte-for-byte unchanged. Errors surface
// through the RequestTracker as settled {loading=false, error} states and as
// typed return values (*ValidationError, *GatewayError); nothing is thrown
// past the pipeline boundary.
//
// # Concurrency
//
// The store is safe for concurrent use. Selectors are lock-free; commits are
// serialized. Two overlapping calls of the same kind are neither queued nor
// cancelled: both run to completion and the later settlement wins. Callers
// needing stricter ordering should deduplicate in-flight requests themselves.
package entitycache
