package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

// DeviceRepository handles database operations for device position records
type DeviceRepository struct {
	db *sql.DB
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db *sql.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Insert stores a new device position record
func (r *DeviceRepository) Insert(ctx context.Context, rec models.DevicePosition) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO device_positions (device_id, floor_plan_id, x, y, status, last_seen, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.DeviceID, rec.FloorPlanID, rec.X, rec.Y, string(rec.Status), rec.LastSeen, string(rec.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to insert device position: %w", err)
	}
	return nil
}

// UpdatePosition persists new coordinates for an existing device
func (r *DeviceRepository) UpdatePosition(ctx context.Context, deviceID string, x, y float64, floorPlanID string, ts models.Timestamp) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE device_positions SET x = ?, y = ?, timestamp = ?
		 WHERE device_id = ? AND floor_plan_id = ?`,
		x, y, string(ts), deviceID, floorPlanID)
	if err != nil {
		return fmt.Errorf("failed to update device position: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("device %s: %w", deviceID, ErrNotFound)
	}
	return nil
}

// UpsertRemote stores a record that arrived over the live channel,
// keeping whichever side carries the newer timestamp.
func (r *DeviceRepository) UpsertRemote(ctx context.Context, rec models.DevicePosition) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO device_positions (device_id, floor_plan_id, x, y, status, last_seen, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(device_id) DO UPDATE SET
			x = excluded.x, y = excluded.y, status = excluded.status,
			last_seen = excluded.last_seen, timestamp = excluded.timestamp
		 WHERE excluded.timestamp > device_positions.timestamp`,
		rec.DeviceID, rec.FloorPlanID, rec.X, rec.Y, string(rec.Status), rec.LastSeen, string(rec.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to upsert device position: %w", err)
	}
	return nil
}

// Delete removes a device position record
func (r *DeviceRepository) Delete(ctx context.Context, deviceID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM device_positions WHERE device_id = ?`, deviceID)
	if err != nil {
		return fmt.Errorf("failed to delete device position: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("device %s: %w", deviceID, ErrNotFound)
	}
	return nil
}

// GetByID retrieves one device position record
func (r *DeviceRepository) GetByID(ctx context.Context, deviceID string) (*models.DevicePosition, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT device_id, floor_plan_id, x, y, status, last_seen, timestamp
		 FROM device_positions WHERE device_id = ?`, deviceID)

	var rec models.DevicePosition
	var status, ts string
	err := row.Scan(&rec.DeviceID, &rec.FloorPlanID, &rec.X, &rec.Y, &status, &rec.LastSeen, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("device %s: %w", deviceID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query device position: %w", err)
	}
	rec.Status = models.DeviceStatus(status)
	rec.Timestamp = models.Timestamp(ts)
	return &rec, nil
}

// ListByFloorPlan retrieves all device position records on a floor plan
func (r *DeviceRepository) ListByFloorPlan(ctx context.Context, floorPlanID string) ([]models.DevicePosition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT device_id, floor_plan_id, x, y, status, last_seen, timestamp
		 FROM device_positions WHERE floor_plan_id = ? ORDER BY device_id`, floorPlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query device positions: %w", err)
	}
	defer rows.Close()

	var records []models.DevicePosition
	for rows.Next() {
		var rec models.DevicePosition
		var status, ts string
		if err := rows.Scan(&rec.DeviceID, &rec.FloorPlanID, &rec.X, &rec.Y, &status, &rec.LastSeen, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan device position: %w", err)
		}
		rec.Status = models.DeviceStatus(status)
		rec.Timestamp = models.Timestamp(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}
