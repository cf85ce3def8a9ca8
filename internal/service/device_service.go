package service

import (
	"context"
	"fmt"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

// DeviceRepo is the storage surface the device service needs.
type DeviceRepo interface {
	Insert(ctx context.Context, rec models.DevicePosition) error
	UpdatePosition(ctx context.Context, deviceID string, x, y float64, floorPlanID string, ts models.Timestamp) error
	UpsertRemote(ctx context.Context, rec models.DevicePosition) error
	Delete(ctx context.Context, deviceID string) error
	ListByFloorPlan(ctx context.Context, floorPlanID string) ([]models.DevicePosition, error)
}

// DeviceService persists device position records. It is the persistence
// collaborator behind the synchronization store: the store's optimistic
// writes land here, and a returned error triggers the store's rollback.
type DeviceService struct {
	repo  DeviceRepo
	clock *models.Clock
}

// NewDeviceService creates a new device service
func NewDeviceService(repo DeviceRepo) *DeviceService {
	return &DeviceService{repo: repo, clock: models.NewClock()}
}

// PersistPosition stores new coordinates for an existing device.
func (s *DeviceService) PersistPosition(ctx context.Context, deviceID string, x, y float64, floorPlanID string) error {
	p := models.Point{X: x, Y: y}
	if !p.InBounds() {
		return fmt.Errorf("%w: position out of range", ErrValidation)
	}
	return s.repo.UpdatePosition(ctx, deviceID, p.X, p.Y, floorPlanID, s.clock.Next())
}

// CreateDevicePosition stores a newly placed device marker.
func (s *DeviceService) CreateDevicePosition(ctx context.Context, rec models.DevicePosition) error {
	if rec.DeviceID == "" || rec.FloorPlanID == "" {
		return fmt.Errorf("%w: device id and floor plan id are required", ErrValidation)
	}
	if !rec.Position().InBounds() {
		return fmt.Errorf("%w: position out of range", ErrValidation)
	}
	if !rec.Status.Valid() {
		rec.Status = models.StatusOffline
	}
	return s.repo.Insert(ctx, rec)
}

// DeleteDevicePosition removes a device marker.
func (s *DeviceService) DeleteDevicePosition(ctx context.Context, deviceID string) error {
	return s.repo.Delete(ctx, deviceID)
}

// ListDevicePositions returns the snapshot the store loads from.
func (s *DeviceService) ListDevicePositions(ctx context.Context, floorPlanID string) ([]models.DevicePosition, error) {
	return s.repo.ListByFloorPlan(ctx, floorPlanID)
}

// PersistRemote writes a merged remote-origin record through the
// last-writer-wins upsert, so reloads observe live updates too.
func (s *DeviceService) PersistRemote(ctx context.Context, rec models.DevicePosition) error {
	return s.repo.UpsertRemote(ctx, rec)
}
