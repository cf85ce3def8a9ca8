package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

// RouteRepo is the storage surface the route service needs.
type RouteRepo interface {
	Insert(ctx context.Context, route models.Route) error
	ReplaceWaypoints(ctx context.Context, routeID string, waypoints []models.Waypoint) error
	Delete(ctx context.Context, routeID string) error
	GetByID(ctx context.Context, routeID string) (*models.Route, error)
	ListByFloorPlan(ctx context.Context, floorPlanID string) ([]models.Route, error)
}

// RouteService handles business logic for evacuation routes. It enforces
// the commit invariant: no route ever reaches storage with fewer than two
// waypoints, and stored order values are always contiguous from zero.
type RouteService struct {
	repo RouteRepo
}

// NewRouteService creates a new route service
func NewRouteService(repo RouteRepo) *RouteService {
	return &RouteService{repo: repo}
}

// CreateRoute validates a drawing-finished draft and stores it.
func (s *RouteService) CreateRoute(ctx context.Context, draft models.RouteDraft) (*models.Route, error) {
	if draft.FloorPlanID == "" {
		return nil, fmt.Errorf("%w: floor plan id is required", ErrValidation)
	}
	if !draft.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown route type %q", ErrValidation, draft.Type)
	}
	wps, err := normalizeWaypoints(draft.Waypoints)
	if err != nil {
		return nil, err
	}

	color := draft.Color
	if color == "" {
		color = draft.Type.DefaultColor()
	}
	lineWidth := draft.LineWidth
	if lineWidth <= 0 {
		lineWidth = 2
	}

	route := models.Route{
		ID:          uuid.NewString(),
		FloorPlanID: draft.FloorPlanID,
		Name:        draft.Name,
		Type:        draft.Type,
		Waypoints:   wps,
		Color:       color,
		LineWidth:   lineWidth,
		IsActive:    true,
	}
	if err := s.repo.Insert(ctx, route); err != nil {
		return nil, fmt.Errorf("failed to create route: %w", err)
	}
	return &route, nil
}

// UpdateRouteWaypoints replaces a route's waypoint list.
func (s *RouteService) UpdateRouteWaypoints(ctx context.Context, routeID string, waypoints []models.Waypoint) (*models.Route, error) {
	wps, err := normalizeWaypoints(waypoints)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceWaypoints(ctx, routeID, wps); err != nil {
		return nil, fmt.Errorf("failed to update route waypoints: %w", err)
	}
	return s.repo.GetByID(ctx, routeID)
}

// DeleteRoute removes a route and its waypoints.
func (s *RouteService) DeleteRoute(ctx context.Context, routeID string) error {
	return s.repo.Delete(ctx, routeID)
}

// Get retrieves a route by id.
func (s *RouteService) Get(ctx context.Context, routeID string) (*models.Route, error) {
	return s.repo.GetByID(ctx, routeID)
}

// List retrieves the routes on a floor plan.
func (s *RouteService) List(ctx context.Context, floorPlanID string) ([]models.Route, error) {
	return s.repo.ListByFloorPlan(ctx, floorPlanID)
}

// normalizeWaypoints enforces the two-waypoint floor, clamps coordinates,
// and renormalizes order values to 0..n-1.
func normalizeWaypoints(waypoints []models.Waypoint) ([]models.Waypoint, error) {
	if len(waypoints) < models.MinRouteWaypoints {
		return nil, fmt.Errorf("%w: route requires at least %d waypoints", ErrValidation, models.MinRouteWaypoints)
	}
	wps := make([]models.Waypoint, len(waypoints))
	copy(wps, waypoints)
	for i := range wps {
		p := wps[i].Position().Clamp()
		wps[i].X, wps[i].Y = p.X, p.Y
	}
	models.RenormalizeOrders(wps)
	return wps, nil
}
