package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// FloorPlanRepository handles database operations for floor plans
type FloorPlanRepository struct {
	db *sql.DB
}

// NewFloorPlanRepository creates a new floor plan repository
func NewFloorPlanRepository(db *sql.DB) *FloorPlanRepository {
	return &FloorPlanRepository{db: db}
}

// Insert stores a new floor plan
func (r *FloorPlanRepository) Insert(ctx context.Context, plan models.FloorPlan) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO floor_plans (id, building_id, name, image_url, width, height, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.BuildingID, plan.Name, plan.ImageURL, plan.Width, plan.Height, plan.IsActive)
	if err != nil {
		return fmt.Errorf("failed to insert floor plan: %w", err)
	}
	return nil
}

// GetByID retrieves a floor plan by id
func (r *FloorPlanRepository) GetByID(ctx context.Context, id string) (*models.FloorPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, building_id, name, image_url, width, height, is_active, created_at, updated_at
		 FROM floor_plans WHERE id = ?`, id)

	var p models.FloorPlan
	err := row.Scan(&p.ID, &p.BuildingID, &p.Name, &p.ImageURL, &p.Width, &p.Height, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("floor plan %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query floor plan: %w", err)
	}
	return &p, nil
}

// ListByBuilding retrieves floor plans, optionally filtered by building
func (r *FloorPlanRepository) ListByBuilding(ctx context.Context, buildingID string) ([]models.FloorPlan, error) {
	query := `SELECT id, building_id, name, image_url, width, height, is_active, created_at, updated_at
		 FROM floor_plans`
	var args []interface{}
	if buildingID != "" {
		query += " WHERE building_id = ?"
		args = append(args, buildingID)
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query floor plans: %w", err)
	}
	defer rows.Close()

	var plans []models.FloorPlan
	for rows.Next() {
		var p models.FloorPlan
		if err := rows.Scan(&p.ID, &p.BuildingID, &p.Name, &p.ImageURL, &p.Width, &p.Height, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan floor plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
