package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/emberops/floorplan-backend-go/internal/geometry"
	"github.com/emberops/floorplan-backend-go/internal/models"
)

var (
	// ErrMinWaypoints signals an edit that would take a route below the
	// two-waypoint floor, or an attempt to commit a drawing that short.
	ErrMinWaypoints = errors.New("route requires at least two waypoints")
	// ErrNotDrawing signals a drawing operation outside drawing state.
	ErrNotDrawing = errors.New("no route drawing in progress")
	// ErrNoSelection signals a selection-scoped edit with nothing selected.
	ErrNoSelection = errors.New("no selection")
)

// RoutePersister is the persistence collaborator the controller commits
// route edits through.
type RoutePersister interface {
	CreateRoute(ctx context.Context, draft models.RouteDraft) (*models.Route, error)
	UpdateRouteWaypoints(ctx context.Context, routeID string, waypoints []models.Waypoint) (*models.Route, error)
	DeleteRoute(ctx context.Context, routeID string) error
}

// RouteController drives multi-waypoint route drawing and editing for one
// floor plan. A route under construction lives only inside the controller:
// it is handed to the persistence collaborator as a single create request
// when the drawing is finished, and discarded wholesale on cancel, so a
// partial route is never committed.
//
// Edits to an existing route (waypoint move/delete, segment insertion) are
// optimistic: the local copy is mutated first and restored from a pre-edit
// snapshot if the persistence call fails.
type RouteController struct {
	persister   RoutePersister
	vp          geometry.Viewport
	floorPlanID string

	routes map[string]*models.Route

	drawing   bool
	draft     []models.Waypoint
	draftName string
	draftType models.RouteType

	cursor    models.Point
	hasCursor bool

	selectedRoute    string
	selectedWaypoint int
}

// NewRouteController returns a controller for the given floor plan.
func NewRouteController(floorPlanID string, vp geometry.Viewport, persister RoutePersister) *RouteController {
	return &RouteController{
		persister:        persister,
		vp:               vp,
		floorPlanID:      floorPlanID,
		routes:           make(map[string]*models.Route),
		selectedWaypoint: -1,
	}
}

// SetViewport updates the pixel container used for pointer conversion.
func (c *RouteController) SetViewport(vp geometry.Viewport) { c.vp = vp }

// LoadRoutes replaces the controller's working set, clearing any selection.
func (c *RouteController) LoadRoutes(routes []models.Route) {
	c.routes = make(map[string]*models.Route, len(routes))
	for i := range routes {
		r := routes[i]
		c.routes[r.ID] = &r
	}
	c.clearSelection()
}

// Route returns the controller's copy of a route.
func (c *RouteController) Route(id string) (*models.Route, bool) {
	r, ok := c.routes[id]
	return r, ok
}

// Drawing reports whether a route is being drawn.
func (c *RouteController) Drawing() bool { return c.drawing }

// Draft returns a copy of the accumulated waypoints of the drawing in
// progress, for preview rendering.
func (c *RouteController) Draft() []models.Waypoint {
	out := make([]models.Waypoint, len(c.draft))
	copy(out, c.draft)
	return out
}

// RubberBand returns the preview segment from the last committed waypoint
// to the live cursor. It exists only while drawing with at least one
// waypoint down and a known cursor; it is never part of the waypoint list.
func (c *RouteController) RubberBand() (from, to models.Point, ok bool) {
	if !c.drawing || len(c.draft) == 0 || !c.hasCursor {
		return models.Point{}, models.Point{}, false
	}
	last := c.draft[len(c.draft)-1]
	return last.Position(), c.cursor, true
}

// Selection returns the selected route id and waypoint index (-1 when no
// waypoint is selected).
func (c *RouteController) Selection() (routeID string, waypointIdx int) {
	return c.selectedRoute, c.selectedWaypoint
}

// StartDrawing enters drawing state for a new route, discarding any
// previous draft and clearing the current selection.
func (c *RouteController) StartDrawing(name string, routeType models.RouteType) {
	c.clearSelection()
	c.drawing = true
	c.draft = nil
	c.draftName = name
	c.draftType = routeType
	c.hasCursor = false
}

// PointerMove tracks the cursor for rubber-band preview while drawing.
func (c *RouteController) PointerMove(px, py float64) {
	if !c.drawing || !c.vp.Ready() {
		return
	}
	c.cursor = geometry.PixelToPercent(px, py, c.vp)
	c.hasCursor = true
}

// Click appends a waypoint at the clicked position while drawing. Order is
// the current draft length, so orders are contiguous from zero by
// construction.
func (c *RouteController) Click(px, py float64) {
	if !c.drawing || !c.vp.Ready() {
		return
	}
	p := geometry.PixelToPercent(px, py, c.vp)
	c.draft = append(c.draft, models.Waypoint{Order: len(c.draft), X: p.X, Y: p.Y})
}

// Finish commits the drawing as a route-create request. Refused as a local
// no-op (drawing continues) with fewer than two waypoints. On persistence
// failure the draft is kept so the same finish can be retried.
func (c *RouteController) Finish(ctx context.Context) (*models.Route, error) {
	if !c.drawing {
		return nil, ErrNotDrawing
	}
	if len(c.draft) < models.MinRouteWaypoints {
		return nil, ErrMinWaypoints
	}

	wps := make([]models.Waypoint, len(c.draft))
	copy(wps, c.draft)
	models.RenormalizeOrders(wps)

	route, err := c.persister.CreateRoute(ctx, models.RouteDraft{
		FloorPlanID: c.floorPlanID,
		Name:        c.draftName,
		Type:        c.draftType,
		Waypoints:   wps,
	})
	if err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}

	c.drawing = false
	c.draft = nil
	c.hasCursor = false
	c.routes[route.ID] = route
	return route, nil
}

// Cancel discards the drawing in progress and all accumulated waypoints.
func (c *RouteController) Cancel() {
	c.drawing = false
	c.draft = nil
	c.hasCursor = false
}

// KeyPress routes Enter to Finish, Escape to Cancel (or selection clear
// when not drawing), and Delete/Backspace to waypoint deletion.
func (c *RouteController) KeyPress(ctx context.Context, k Key) error {
	switch k {
	case KeyEnter:
		if c.drawing {
			_, err := c.Finish(ctx)
			return err
		}
	case KeyEscape:
		if c.drawing {
			c.Cancel()
			return nil
		}
		c.clearSelection()
	case KeyDelete, KeyBackspace:
		if !c.drawing && c.selectedWaypoint >= 0 {
			return c.DeleteSelectedWaypoint(ctx)
		}
	}
	return nil
}

// SelectRoute selects a route for editing, clearing any previous route and
// waypoint selection. Selecting while drawing is ignored.
func (c *RouteController) SelectRoute(id string) bool {
	if c.drawing {
		return false
	}
	if _, ok := c.routes[id]; !ok {
		return false
	}
	c.selectedRoute = id
	c.selectedWaypoint = -1
	return true
}

// SelectWaypoint selects a waypoint of the selected route by index.
func (c *RouteController) SelectWaypoint(idx int) bool {
	route, ok := c.selectedRouteRef()
	if !ok || idx < 0 || idx >= len(route.Waypoints) {
		return false
	}
	c.selectedWaypoint = idx
	return true
}

// DeleteSelectedWaypoint removes the selected waypoint, renormalizing the
// remaining orders. The deletion is refused, with the selection preserved,
// when it would leave the route below two waypoints. The removal is
// optimistic: a failed persistence call restores the pre-edit list.
func (c *RouteController) DeleteSelectedWaypoint(ctx context.Context) error {
	route, ok := c.selectedRouteRef()
	if !ok || c.selectedWaypoint < 0 {
		return ErrNoSelection
	}
	if len(route.Waypoints) <= models.MinRouteWaypoints {
		return ErrMinWaypoints
	}

	idx := c.selectedWaypoint
	snapshot := snapshotWaypoints(route.Waypoints)

	edit := pendingEdit{
		apply: func() {
			wps := append([]models.Waypoint{}, route.Waypoints[:idx]...)
			wps = append(wps, route.Waypoints[idx+1:]...)
			models.RenormalizeOrders(wps)
			route.Waypoints = wps
			c.selectedWaypoint = -1
		},
		compensate: func() {
			route.Waypoints = snapshot
			c.selectedWaypoint = idx
		},
	}
	return edit.run(func() error {
		return c.persistWaypoints(ctx, route)
	})
}

// ClickSegment inserts a waypoint into the selected route at the clicked
// position, on the segment nearest the click. Out-of-range segments are
// refused locally with no persistence call.
func (c *RouteController) ClickSegment(ctx context.Context, px, py float64) error {
	return c.InsertWaypointAt(ctx, px, py)
}

// InsertWaypointAt resolves the clicked pixel position to the nearest
// segment of the selected route and inserts a waypoint there, with the
// same optimistic apply / compensate contract as deletion.
func (c *RouteController) InsertWaypointAt(ctx context.Context, px, py float64) error {
	route, ok := c.selectedRouteRef()
	if !ok {
		return ErrNoSelection
	}
	if !c.vp.Ready() {
		return nil
	}

	p := geometry.PixelToPercent(px, py, c.vp)
	segIdx, _, _, err := geometry.NearestSegment(route.Waypoints, p)
	if err != nil {
		return err
	}
	inserted, err := geometry.InsertPointOnSegment(route.Waypoints, segIdx, p)
	if err != nil {
		return err
	}

	snapshot := snapshotWaypoints(route.Waypoints)
	edit := pendingEdit{
		apply:      func() { route.Waypoints = inserted },
		compensate: func() { route.Waypoints = snapshot },
	}
	return edit.run(func() error {
		return c.persistWaypoints(ctx, route)
	})
}

// MoveSelectedWaypoint commits a completed waypoint drag at p. Called once
// per drag, from the placement machine's drag-end hook.
func (c *RouteController) MoveSelectedWaypoint(ctx context.Context, p models.Point) error {
	route, ok := c.selectedRouteRef()
	if !ok || c.selectedWaypoint < 0 {
		return ErrNoSelection
	}

	idx := c.selectedWaypoint
	snapshot := snapshotWaypoints(route.Waypoints)
	p = p.Clamp()

	edit := pendingEdit{
		apply: func() {
			route.Waypoints[idx].X = p.X
			route.Waypoints[idx].Y = p.Y
		},
		compensate: func() { route.Waypoints = snapshot },
	}
	return edit.run(func() error {
		return c.persistWaypoints(ctx, route)
	})
}

// DeleteSelectedRoute removes the selected route entirely. The local copy
// is removed optimistically and restored if the delete call fails.
func (c *RouteController) DeleteSelectedRoute(ctx context.Context) error {
	route, ok := c.selectedRouteRef()
	if !ok {
		return ErrNoSelection
	}

	id := route.ID
	edit := pendingEdit{
		apply: func() {
			delete(c.routes, id)
			c.clearSelection()
		},
		compensate: func() {
			c.routes[id] = route
			c.selectedRoute = id
		},
	}
	return edit.run(func() error {
		if err := c.persister.DeleteRoute(ctx, id); err != nil {
			return fmt.Errorf("delete route: %w", err)
		}
		return nil
	})
}

func (c *RouteController) persistWaypoints(ctx context.Context, route *models.Route) error {
	updated, err := c.persister.UpdateRouteWaypoints(ctx, route.ID, route.Waypoints)
	if err != nil {
		return fmt.Errorf("update route waypoints: %w", err)
	}
	if updated != nil {
		route.Waypoints = updated.Waypoints
	}
	return nil
}

func (c *RouteController) selectedRouteRef() (*models.Route, bool) {
	if c.selectedRoute == "" {
		return nil, false
	}
	r, ok := c.routes[c.selectedRoute]
	return r, ok
}

func (c *RouteController) clearSelection() {
	c.selectedRoute = ""
	c.selectedWaypoint = -1
}

func snapshotWaypoints(wps []models.Waypoint) []models.Waypoint {
	out := make([]models.Waypoint, len(wps))
	copy(out, wps)
	return out
}
