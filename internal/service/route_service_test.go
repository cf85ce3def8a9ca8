package service

import (
	"context"
	"errors"
	"testing"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

type fakeRouteRepo struct {
	inserted []models.Route
	replaced map[string][]models.Waypoint
	deleted  []string
	failNext error
}

func (f *fakeRouteRepo) Insert(ctx context.Context, route models.Route) error {
	if err := f.takeErr(); err != nil {
		return err
	}
	f.inserted = append(f.inserted, route)
	return nil
}

func (f *fakeRouteRepo) ReplaceWaypoints(ctx context.Context, routeID string, waypoints []models.Waypoint) error {
	if err := f.takeErr(); err != nil {
		return err
	}
	if f.replaced == nil {
		f.replaced = make(map[string][]models.Waypoint)
	}
	f.replaced[routeID] = waypoints
	return nil
}

func (f *fakeRouteRepo) Delete(ctx context.Context, routeID string) error {
	if err := f.takeErr(); err != nil {
		return err
	}
	f.deleted = append(f.deleted, routeID)
	return nil
}

func (f *fakeRouteRepo) GetByID(ctx context.Context, routeID string) (*models.Route, error) {
	return &models.Route{ID: routeID, Waypoints: f.replaced[routeID]}, nil
}

func (f *fakeRouteRepo) ListByFloorPlan(ctx context.Context, floorPlanID string) ([]models.Route, error) {
	return f.inserted, nil
}

func (f *fakeRouteRepo) takeErr() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func validDraft() models.RouteDraft {
	return models.RouteDraft{
		FloorPlanID: "plan-1",
		Name:        "East stairwell",
		Type:        models.RoutePrimary,
		Waypoints: []models.Waypoint{
			{Order: 0, X: 10, Y: 10},
			{Order: 1, X: 50, Y: 50},
			{Order: 2, X: 90, Y: 10},
		},
	}
}

func TestCreateRoute(t *testing.T) {
	repo := &fakeRouteRepo{}
	svc := NewRouteService(repo)

	route, err := svc.CreateRoute(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if route.ID == "" {
		t.Error("route should be assigned an id")
	}
	if route.Color != models.RoutePrimary.DefaultColor() {
		t.Errorf("color %q, want type default", route.Color)
	}
	if !route.IsActive {
		t.Error("new routes start active")
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("inserted %d routes, want 1", len(repo.inserted))
	}
}

func TestCreateRouteEnforcesCommitInvariant(t *testing.T) {
	repo := &fakeRouteRepo{}
	svc := NewRouteService(repo)

	tests := []struct {
		name      string
		waypoints []models.Waypoint
	}{
		{"empty", nil},
		{"single", []models.Waypoint{{Order: 0, X: 10, Y: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			draft.Waypoints = tt.waypoints
			if _, err := svc.CreateRoute(context.Background(), draft); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if len(repo.inserted) != 0 {
				t.Error("no route below the waypoint floor may reach storage")
			}
		})
	}
}

func TestCreateRouteRejectsUnknownType(t *testing.T) {
	svc := NewRouteService(&fakeRouteRepo{})
	draft := validDraft()
	draft.Type = "scenic"

	if _, err := svc.CreateRoute(context.Background(), draft); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateRouteNormalizes(t *testing.T) {
	repo := &fakeRouteRepo{}
	svc := NewRouteService(repo)

	draft := validDraft()
	// Gapped, out-of-order, and out-of-bounds input.
	draft.Waypoints = []models.Waypoint{
		{Order: 7, X: 150, Y: 50},
		{Order: 2, X: 10, Y: -20},
		{Order: 4, X: 50, Y: 50},
	}

	route, err := svc.CreateRoute(context.Background(), draft)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	for i, wp := range route.Waypoints {
		if wp.Order != i {
			t.Errorf("order[%d] = %d, want %d", i, wp.Order, i)
		}
		if !wp.Position().InBounds() {
			t.Errorf("waypoint %d at %v is out of bounds", i, wp.Position())
		}
	}
	if route.Waypoints[0].X != 10 {
		t.Errorf("first waypoint x = %v, want the order-2 input first", route.Waypoints[0].X)
	}
}

func TestUpdateRouteWaypoints(t *testing.T) {
	repo := &fakeRouteRepo{}
	svc := NewRouteService(repo)

	wps := []models.Waypoint{{Order: 0, X: 1, Y: 1}, {Order: 3, X: 2, Y: 2}}
	route, err := svc.UpdateRouteWaypoints(context.Background(), "route-1", wps)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(route.Waypoints) != 2 || route.Waypoints[1].Order != 1 {
		t.Errorf("waypoints %+v, want renormalized orders", route.Waypoints)
	}

	if _, err := svc.UpdateRouteWaypoints(context.Background(), "route-1", wps[:1]); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for single waypoint, got %v", err)
	}
}
