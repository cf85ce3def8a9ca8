package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

// CheckpointRepository handles database operations for checkpoints
type CheckpointRepository struct {
	db *sql.DB
}

// NewCheckpointRepository creates a new checkpoint repository
func NewCheckpointRepository(db *sql.DB) *CheckpointRepository {
	return &CheckpointRepository{db: db}
}

// Insert stores a new checkpoint
func (r *CheckpointRepository) Insert(ctx context.Context, cp models.Checkpoint) error {
	equipment, err := json.Marshal(cp.Equipment)
	if err != nil {
		return fmt.Errorf("failed to encode equipment: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO checkpoints (id, floor_plan_id, checkpoint_type, name, x, y, capacity,
			responsible_person, equipment, contact_info, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cp.ID, cp.FloorPlanID, string(cp.Type), cp.Name, cp.X, cp.Y, cp.Capacity,
		cp.ResponsiblePerson, string(equipment), cp.ContactInfo, cp.IsActive)
	if err != nil {
		return fmt.Errorf("failed to insert checkpoint: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a checkpoint
func (r *CheckpointRepository) Update(ctx context.Context, cp models.Checkpoint) error {
	equipment, err := json.Marshal(cp.Equipment)
	if err != nil {
		return fmt.Errorf("failed to encode equipment: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE checkpoints SET name = ?, x = ?, y = ?, capacity = ?, responsible_person = ?,
			equipment = ?, contact_info = ?, is_active = ?,
			updated_at = strftime('%Y-%m-%dT%H:%M:%SZ','now')
		 WHERE id = ?`,
		cp.Name, cp.X, cp.Y, cp.Capacity, cp.ResponsiblePerson,
		string(equipment), cp.ContactInfo, cp.IsActive, cp.ID)
	if err != nil {
		return fmt.Errorf("failed to update checkpoint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("checkpoint %s: %w", cp.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a checkpoint
func (r *CheckpointRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("checkpoint %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a checkpoint by id
func (r *CheckpointRepository) GetByID(ctx context.Context, id string) (*models.Checkpoint, error) {
	row := r.db.QueryRowContext(ctx, checkpointSelect+` WHERE id = ?`, id)
	cp, err := scanCheckpoint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checkpoint %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query checkpoint: %w", err)
	}
	return cp, nil
}

// ListByFloorPlan retrieves all checkpoints on a floor plan
func (r *CheckpointRepository) ListByFloorPlan(ctx context.Context, floorPlanID string) ([]models.Checkpoint, error) {
	rows, err := r.db.QueryContext(ctx, checkpointSelect+` WHERE floor_plan_id = ? ORDER BY created_at`, floorPlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkpoints: %w", err)
	}
	defer rows.Close()

	var checkpoints []models.Checkpoint
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		checkpoints = append(checkpoints, *cp)
	}
	return checkpoints, rows.Err()
}

const checkpointSelect = `SELECT id, floor_plan_id, checkpoint_type, name, x, y, capacity,
	responsible_person, equipment, contact_info, is_active, created_at, updated_at
	FROM checkpoints`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCheckpoint(row rowScanner) (*models.Checkpoint, error) {
	var cp models.Checkpoint
	var cpType, equipment string
	if err := row.Scan(&cp.ID, &cp.FloorPlanID, &cpType, &cp.Name, &cp.X, &cp.Y, &cp.Capacity,
		&cp.ResponsiblePerson, &equipment, &cp.ContactInfo, &cp.IsActive, &cp.CreatedAt, &cp.UpdatedAt); err != nil {
		return nil, err
	}
	cp.Type = models.CheckpointType(cpType)
	if err := json.Unmarshal([]byte(equipment), &cp.Equipment); err != nil {
		return nil, fmt.Errorf("failed to decode equipment: %w", err)
	}
	return &cp, nil
}
