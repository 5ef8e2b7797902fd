package entitycache

import (
	"reflect"
	"testing"
)

func TestPrimaryStorePutIsIdempotent(t *testing.T) {
	s := NewPrimaryStore[testRecord]()
	record := testRecord{ID: "E1", Branch: "B1", Name: "X"}

	s.Put(record)
	once := map[string]testRecord{}
	s.Range(func(id string, r testRecord) bool {
		once[id] = r
		return true
	})

	s.Put(record)
	twice := map[string]testRecord{}
	s.Range(func(id string, r testRecord) bool {
		twice[id] = r
		return true
	})

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("putting the same record twice changed state: %+v vs %+v", once, twice)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestPrimaryStoreLatestWriteWins(t *testing.T) {
	s := NewPrimaryStore[testRecord]()
	s.Put(testRecord{ID: "E1", Name: "old"})
	s.Put(testRecord{ID: "E1", Name: "new"})

	got, ok := s.Get("E1")
	if !ok || got.Name != "new" {
		t.Errorf("Get(E1) = %+v, %v; want the latest write", got, ok)
	}
	if s.Len() != 1 {
		t.Errorf("two writes for one id produced %d entries", s.Len())
	}
}

func TestPrimaryStoreRemove(t *testing.T) {
	s := NewPrimaryStore[testRecord]()
	s.Put(testRecord{ID: "E1", Name: "X"})

	s.Remove("E1")
	if _, ok := s.Get("E1"); ok {
		t.Error("record still present after Remove")
	}

	// removing a missing id is a no-op
	s.Remove("E1")
	s.Remove("never-existed")
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}
