package entitycache

import "testing"

func TestTrackerLifecycle(t *testing.T) {
	tracker := NewRequestTracker()

	// untouched kinds read as idle
	if status := tracker.Status(OpSearch); status.Loading || status.Err != "" {
		t.Errorf("fresh tracker not idle: %+v", status)
	}

	tracker.Begin(OpCreate)
	if status := tracker.Status(OpCreate); !status.Loading || status.Err != "" {
		t.Errorf("after Begin: %+v, want loading with no error", status)
	}

	tracker.Fail(OpCreate, "boom")
	status := tracker.Status(OpCreate)
	if status.Loading || status.Err != "boom" || !status.Failed() {
		t.Errorf("after Fail: %+v", status)
	}

	// a new attempt clears the previous error
	tracker.Begin(OpCreate)
	if status := tracker.Status(OpCreate); !status.Loading || status.Err != "" {
		t.Errorf("Begin did not clear prior error: %+v", status)
	}

	tracker.Succeed(OpCreate)
	if status := tracker.Status(OpCreate); status.Loading || status.Err != "" {
		t.Errorf("after Succeed: %+v", status)
	}
}

func TestTrackerKindsAreIndependent(t *testing.T) {
	tracker := NewRequestTracker()
	tracker.Begin(OpFetchList)
	tracker.Fail(OpDelete, "denied")

	if status := tracker.Status(OpFetchList); !status.Loading {
		t.Errorf("fetch-list clobbered by delete: %+v", status)
	}
	if status := tracker.Status(OpDelete); status.Err != "denied" {
		t.Errorf("delete status lost: %+v", status)
	}
	if status := tracker.Status(OpUpdate); status.Loading || status.Err != "" {
		t.Errorf("untouched kind disturbed: %+v", status)
	}
}

func TestOpKindsIsComplete(t *testing.T) {
	kinds := OpKinds()
	if len(kinds) != 7 {
		t.Fatalf("expected 7 operation kinds, got %d", len(kinds))
	}
	seen := map[OpKind]bool{}
	for _, kind := range kinds {
		if seen[kind] {
			t.Errorf("duplicate kind %q", kind)
		}
		seen[kind] = true
	}
	for _, kind := range []OpKind{OpFetchOne, OpFetchList, OpCreate, OpUpdate, OpDelete, OpSearch, OpStats} {
		if !seen[kind] {
			t.Errorf("kind %q missing from OpKinds", kind)
		}
	}
}
