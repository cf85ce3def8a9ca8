package models

import "sort"

// MinRouteWaypoints is the floor on committed route length. A route with
// fewer waypoints exists only transiently while it is being drawn.
const MinRouteWaypoints = 2

// RouteType classifies an evacuation route.
type RouteType string

const (
	RoutePrimary          RouteType = "primary"
	RouteSecondary        RouteType = "secondary"
	RouteAccessible       RouteType = "accessible"
	RouteEmergencyVehicle RouteType = "emergency_vehicle"
)

// Valid reports whether t is a known route type.
func (t RouteType) Valid() bool {
	switch t {
	case RoutePrimary, RouteSecondary, RouteAccessible, RouteEmergencyVehicle:
		return true
	}
	return false
}

// DefaultColor returns the line color used when a route does not carry an
// explicit one.
func (t RouteType) DefaultColor() string {
	switch t {
	case RoutePrimary:
		return "#16a34a"
	case RouteSecondary:
		return "#2563eb"
	case RouteAccessible:
		return "#9333ea"
	case RouteEmergencyVehicle:
		return "#dc2626"
	default:
		return "#6b7280"
	}
}

// Waypoint is one ordered point in a route's polyline. Order values are
// contiguous and zero-based within a route after every structural edit.
type Waypoint struct {
	Order int     `json:"order" db:"ord"`
	X     float64 `json:"x" db:"x"`
	Y     float64 `json:"y" db:"y"`
	Label string  `json:"label,omitempty" db:"label"`
}

// Position returns the waypoint's coordinates as a Point.
func (w Waypoint) Position() Point {
	return Point{X: w.X, Y: w.Y}
}

// Route is a named, typed evacuation path across a floor plan.
type Route struct {
	ID          string     `json:"id" db:"id"`
	FloorPlanID string     `json:"floorPlanId" db:"floor_plan_id"`
	Name        string     `json:"name" db:"name"`
	Type        RouteType  `json:"routeType" db:"route_type"`
	Waypoints   []Waypoint `json:"waypoints"`
	Color       string     `json:"color,omitempty" db:"color"`
	LineWidth   float64    `json:"lineWidth,omitempty" db:"line_width"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   string     `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt   string     `json:"updatedAt,omitempty" db:"updated_at"`
}

// RouteDraft is a route-create request handed to the persistence layer when
// a drawing is finished.
type RouteDraft struct {
	FloorPlanID string     `json:"floorPlanId"`
	Name        string     `json:"name"`
	Type        RouteType  `json:"routeType"`
	Waypoints   []Waypoint `json:"waypoints"`
	Color       string     `json:"color,omitempty"`
	LineWidth   float64    `json:"lineWidth,omitempty"`
}

// SortWaypoints orders waypoints in place by their Order field.
func SortWaypoints(wps []Waypoint) {
	sort.SliceStable(wps, func(i, j int) bool { return wps[i].Order < wps[j].Order })
}

// RenormalizeOrders sorts waypoints by Order and rewrites the Order fields
// to exactly 0..n-1, removing any gaps or duplicates a structural edit left
// behind.
func RenormalizeOrders(wps []Waypoint) {
	SortWaypoints(wps)
	for i := range wps {
		wps[i].Order = i
	}
}
