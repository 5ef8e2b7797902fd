package school

import (
	"context"
	"testing"

	"github.com/campusops/go-entity-cache/gateway"
)

type fakeDetailGateway struct {
	fetches int
	details map[string]ClassDetail
}

func (g *fakeDetailGateway) FetchByID(ctx context.Context, id string) (ClassDetail, error) {
	g.fetches++
	d, ok := g.details[id]
	if !ok {
		return ClassDetail{}, gateway.ErrNotFound
	}
	return d, nil
}

func (g *fakeDetailGateway) List(ctx context.Context, params gateway.ListParams) (gateway.Page[ClassDetail], error) {
	var items []ClassDetail
	for _, d := range g.details {
		if params.Filter["branch_id"] == d.Class.BranchID {
			items = append(items, d)
		}
	}
	return gateway.NewPage(items, len(items), 1, 0), nil
}

func (g *fakeDetailGateway) Count(ctx context.Context, params gateway.ListParams) (int, error) {
	return len(g.details), nil
}

func (g *fakeDetailGateway) Create(ctx context.Context, input ClassDetail) (ClassDetail, error) {
	return input, nil
}

func (g *fakeDetailGateway) Update(ctx context.Context, input ClassDetail) (ClassDetail, error) {
	return input, nil
}

func (g *fakeDetailGateway) Delete(ctx context.Context, id string) error {
	return nil
}

func TestClassDetailStoreCachesExpandedViews(t *testing.T) {
	gw := &fakeDetailGateway{details: map[string]ClassDetail{
		"c-101": {
			Class:   Class{ID: "c-101", BranchID: "b-north", TeacherID: "t-1", Name: "Algebra I"},
			Teacher: Teacher{ID: "t-1", Name: "R. Patel"},
			Branch:  Branch{ID: "b-north", Name: "North Campus"},
		},
	}}
	store := NewClassDetailStore(gw)
	ctx := context.Background()

	detail, err := store.FetchByID(ctx, "c-101")
	if err != nil {
		t.Fatalf("FetchByID() error = %v", err)
	}
	if detail.Teacher.Name != "R. Patel" || detail.Branch.Name != "North Campus" {
		t.Errorf("FetchByID() = %+v", detail)
	}

	if _, err := store.FetchByID(ctx, "c-101"); err != nil {
		t.Fatalf("cached FetchByID() error = %v", err)
	}
	if gw.fetches != 1 {
		t.Errorf("gateway fetches = %d, want 1", gw.fetches)
	}

	// details share the class id but group like plain classes
	members, err := store.FetchByGroup(ctx, "branch_id", "b-north")
	if err != nil {
		t.Fatalf("FetchByGroup() error = %v", err)
	}
	if len(members) != 1 || members[0].Class.ID != "c-101" {
		t.Errorf("FetchByGroup() = %+v", members)
	}
}
