package entitycache

import "github.com/puzpuzpuz/xsync/v3"

// OpKind enumerates the request kinds tracked per entity store. The set is
// fixed so that UI subscriptions stay stable; callers never mint their own.
type OpKind string

const (
	OpFetchOne  OpKind = "fetch_one"
	OpFetchList OpKind = "fetch_list"
	OpCreate    OpKind = "create"
	OpUpdate    OpKind = "update"
	OpDelete    OpKind = "delete"
	OpSearch    OpKind = "search"
	OpStats     OpKind = "stats"
)

// OpKinds lists every tracked operation kind.
func OpKinds() []OpKind {
	return []OpKind{OpFetchOne, OpFetchList, OpCreate, OpUpdate, OpDelete, OpSearch, OpStats}
}

// Status is the request state for one operation kind. Loading and a non-empty
// Err are mutually exclusive at rest: beginning a new attempt clears the
// previous error.
type Status struct {
	Loading bool
	Err     string
}

// Failed reports whether the last settled attempt ended in an error.
func (s Status) Failed() bool { return !s.Loading && s.Err != "" }

// RequestTracker keeps per-operation-kind loading and error flags so that
// concurrent unrelated operations do not clobber each other's feedback.
// Overlapping attempts of the same kind settle last-write-wins; the tracker
// reflects the most recently settled call.
type RequestTracker struct {
	statuses *xsync.MapOf[OpKind, Status]
}

// NewRequestTracker creates a tracker with every kind idle.
func NewRequestTracker() *RequestTracker {
	return &RequestTracker{statuses: xsync.NewMapOf[OpKind, Status]()}
}

// Begin marks the kind as loading and clears any prior error.
func (t *RequestTracker) Begin(kind OpKind) {
	t.statuses.Store(kind, Status{Loading: true})
}

// Succeed marks the kind as settled without error.
func (t *RequestTracker) Succeed(kind OpKind) {
	t.statuses.Store(kind, Status{})
}

// Fail marks the kind as settled with the given error message.
func (t *RequestTracker) Fail(kind OpKind, message string) {
	t.statuses.Store(kind, Status{Err: message})
}

// Status returns the current state for the kind. Kinds that never ran read
// as idle.
func (t *RequestTracker) Status(kind OpKind) Status {
	status, _ := t.statuses.Load(kind)
	return status
}
