package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emberops/floorplan-backend-go/internal/database"
	"github.com/emberops/floorplan-backend-go/internal/models"
)

// RouteRepository handles database operations for routes and their waypoints
type RouteRepository struct {
	db *sql.DB
}

// NewRouteRepository creates a new route repository
func NewRouteRepository(db *sql.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Insert stores a route together with its waypoints in one transaction
func (r *RouteRepository) Insert(ctx context.Context, route models.Route) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO routes (id, floor_plan_id, name, route_type, color, line_width, is_active)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			route.ID, route.FloorPlanID, route.Name, string(route.Type), route.Color, route.LineWidth, route.IsActive)
		if err != nil {
			return fmt.Errorf("failed to insert route: %w", err)
		}
		return insertWaypoints(ctx, tx, route.ID, route.Waypoints)
	})
}

// ReplaceWaypoints swaps a route's waypoint list atomically
func (r *RouteRepository) ReplaceWaypoints(ctx context.Context, routeID string, waypoints []models.Waypoint) error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE routes SET updated_at = strftime('%Y-%m-%dT%H:%M:%SZ','now') WHERE id = ?`, routeID)
		if err != nil {
			return fmt.Errorf("failed to touch route: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read update result: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("route %s: %w", routeID, ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM route_waypoints WHERE route_id = ?`, routeID); err != nil {
			return fmt.Errorf("failed to clear waypoints: %w", err)
		}
		return insertWaypoints(ctx, tx, routeID, waypoints)
	})
}

// Delete removes a route; waypoints cascade
func (r *RouteRepository) Delete(ctx context.Context, routeID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, routeID)
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("route %s: %w", routeID, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a route with its waypoints in traversal order
func (r *RouteRepository) GetByID(ctx context.Context, routeID string) (*models.Route, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, floor_plan_id, name, route_type, color, line_width, is_active, created_at, updated_at
		 FROM routes WHERE id = ?`, routeID)

	var route models.Route
	var routeType string
	err := row.Scan(&route.ID, &route.FloorPlanID, &route.Name, &routeType, &route.Color,
		&route.LineWidth, &route.IsActive, &route.CreatedAt, &route.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("route %s: %w", routeID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query route: %w", err)
	}
	route.Type = models.RouteType(routeType)

	route.Waypoints, err = r.waypointsFor(ctx, routeID)
	if err != nil {
		return nil, err
	}
	return &route, nil
}

// ListByFloorPlan retrieves all routes on a floor plan with their waypoints
func (r *RouteRepository) ListByFloorPlan(ctx context.Context, floorPlanID string) ([]models.Route, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, floor_plan_id, name, route_type, color, line_width, is_active, created_at, updated_at
		 FROM routes WHERE floor_plan_id = ? ORDER BY created_at`, floorPlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []models.Route
	for rows.Next() {
		var route models.Route
		var routeType string
		if err := rows.Scan(&route.ID, &route.FloorPlanID, &route.Name, &routeType, &route.Color,
			&route.LineWidth, &route.IsActive, &route.CreatedAt, &route.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		route.Type = models.RouteType(routeType)
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range routes {
		routes[i].Waypoints, err = r.waypointsFor(ctx, routes[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return routes, nil
}

func (r *RouteRepository) waypointsFor(ctx context.Context, routeID string) ([]models.Waypoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ord, x, y, label FROM route_waypoints WHERE route_id = ? ORDER BY ord`, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query waypoints: %w", err)
	}
	defer rows.Close()

	var waypoints []models.Waypoint
	for rows.Next() {
		var wp models.Waypoint
		if err := rows.Scan(&wp.Order, &wp.X, &wp.Y, &wp.Label); err != nil {
			return nil, fmt.Errorf("failed to scan waypoint: %w", err)
		}
		waypoints = append(waypoints, wp)
	}
	return waypoints, rows.Err()
}

func insertWaypoints(ctx context.Context, tx *sql.Tx, routeID string, waypoints []models.Waypoint) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO route_waypoints (route_id, ord, x, y, label) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare waypoint insert: %w", err)
	}
	defer stmt.Close()

	for _, wp := range waypoints {
		if _, err := stmt.ExecContext(ctx, routeID, wp.Order, wp.X, wp.Y, wp.Label); err != nil {
			return fmt.Errorf("failed to insert waypoint %d: %w", wp.Order, err)
		}
	}
	return nil
}
