package entitycache

import "github.com/puzpuzpuz/xsync/v3"

// GroupIndex maps grouping keys to ordered, duplicate-free id lists. It holds
// identifier references only, never record data, so a grouped view can never
// diverge from the canonical record in the primary store.
//
// Distinct groups are fully independent: removing an id from one group leaves
// every other group referencing the same id untouched. Per-group slices are
// copy-on-write so lock-free readers never observe a partially edited list.
type GroupIndex struct {
	groups *xsync.MapOf[GroupKey, []string]
}

// NewGroupIndex creates an empty index.
func NewGroupIndex() *GroupIndex {
	return &GroupIndex{groups: xsync.NewMapOf[GroupKey, []string]()}
}

// AddMember appends id to the group's list unless it is already a member.
func (x *GroupIndex) AddMember(key GroupKey, id string) {
	ids, _ := x.groups.Load(key)
	for _, existing := range ids {
		if existing == id {
			return
		}
	}
	next := make([]string, len(ids), len(ids)+1)
	copy(next, ids)
	x.groups.Store(key, append(next, id))
}

// RemoveMember removes id from the group's list, preserving the order of the
// remaining members. The group itself stays known even when emptied, so a
// fully fetched group that loses its last member still reads as cached.
func (x *GroupIndex) RemoveMember(key GroupKey, id string) {
	ids, ok := x.groups.Load(key)
	if !ok {
		return
	}
	next := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			next = append(next, existing)
		}
	}
	if len(next) == len(ids) {
		return
	}
	x.groups.Store(key, next)
}

// ListMembers returns a copy of the group's id list in insertion order.
// The second return reports whether the group has ever been populated,
// distinguishing a cached-empty group from a never-fetched one.
func (x *GroupIndex) ListMembers(key GroupKey) ([]string, bool) {
	ids, ok := x.groups.Load(key)
	if !ok {
		return nil, false
	}
	return append([]string(nil), ids...), true
}

// Known reports whether the group has ever been populated.
func (x *GroupIndex) Known(key GroupKey) bool {
	_, ok := x.groups.Load(key)
	return ok
}

// ReplaceGroup overwrites the group's membership, used when a full list fetch
// supersedes a previously cached group. Duplicate ids collapse to their first
// occurrence.
func (x *GroupIndex) ReplaceGroup(key GroupKey, ids []string) {
	next := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		next = append(next, id)
	}
	x.groups.Store(key, next)
}

// DropGroup forgets the group entirely, so the next group fetch goes back to
// the gateway.
func (x *GroupIndex) DropGroup(key GroupKey) {
	x.groups.Delete(key)
}
