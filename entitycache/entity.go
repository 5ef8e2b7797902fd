package entitycache

// Entity is the minimal contract a cached record must satisfy. The id is
// assigned by the remote gateway on creation and is immutable afterwards.
type Entity interface {
	EntityID() string
}

// GroupKey identifies one group within one secondary index dimension,
// e.g. {Index: "branch_id", Key: "B1"}.
type GroupKey struct {
	Index string
	Key   string
}

// IndexSpec declares one secondary index dimension for an entity type. Name
// doubles as the gateway filter field for group fetches (so it is usually the
// column name, "branch_id" rather than "branch"). Key extracts the grouping
// value from a record; ok=false means the record belongs to no group of this
// dimension.
type IndexSpec[T Entity] struct {
	Name string
	Key  func(record T) (key string, ok bool)
}

// groupKeysOf resolves every group the record belongs to across the given
// index dimensions.
func groupKeysOf[T Entity](specs []IndexSpec[T], record T) []GroupKey {
	keys := make([]GroupKey, 0, len(specs))
	for _, spec := range specs {
		if key, ok := spec.Key(record); ok {
			keys = append(keys, GroupKey{Index: spec.Name, Key: key})
		}
	}
	return keys
}

func containsGroup(keys []GroupKey, key GroupKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
