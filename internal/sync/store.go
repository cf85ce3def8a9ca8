// Package sync holds the authoritative in-memory table of device positions
// for a floor plan: optimistic local writes with compensating rollback,
// and last-writer-wins merging of remote-origin updates.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

// ErrUnknownDevice signals a mutation addressed to a device the store does
// not hold. Refused locally; no persistence call is issued.
var ErrUnknownDevice = errors.New("unknown device")

// ErrDeviceExists signals a placement for a device id the store already
// holds. Refused locally; no persistence call is issued.
var ErrDeviceExists = errors.New("device already exists")

// PositionPersister is the persistence collaborator position mutations are
// written through.
type PositionPersister interface {
	PersistPosition(ctx context.Context, deviceID string, x, y float64, floorPlanID string) error
	CreateDevicePosition(ctx context.Context, rec models.DevicePosition) error
	DeleteDevicePosition(ctx context.Context, deviceID string) error
	ListDevicePositions(ctx context.Context, floorPlanID string) ([]models.DevicePosition, error)
}

// Metadata carries the non-positional fields of a newly placed device.
type Metadata struct {
	Status   models.DeviceStatus
	LastSeen string
}

// Store maps device ids to their current position/status records for one
// floor plan. Writes are optimistic: the map is mutated first, the
// persistence call follows, and a failure rolls the entry back to the
// snapshot captured when the call was issued. Because the rollback is
// guarded by the timestamp stamped at issue time, a stale failure response
// can never clobber a newer optimistic value.
//
// The map is guarded by a mutex so each read-modify-write is a single
// atomic step; readers get copies and must treat them as snapshots.
type Store struct {
	mu          sync.RWMutex
	floorPlanID string
	positions   map[string]models.DevicePosition

	persister PositionPersister
	clock     *models.Clock

	lastErr error
}

// NewStore returns an empty store for the given floor plan.
func NewStore(floorPlanID string, persister PositionPersister) *Store {
	return &Store{
		floorPlanID: floorPlanID,
		positions:   make(map[string]models.DevicePosition),
		persister:   persister,
		clock:       models.NewClock(),
	}
}

// SetClock replaces the timestamp source. Used in tests.
func (s *Store) SetClock(c *models.Clock) { s.clock = c }

// FloorPlanID returns the floor plan this store is scoped to.
func (s *Store) FloorPlanID() string { return s.floorPlanID }

// LoadForFloorPlan replaces the entire map with a fresh snapshot from the
// persistence collaborator. A fetch failure leaves the map untouched; there
// is never a partial overwrite.
func (s *Store) LoadForFloorPlan(ctx context.Context) error {
	records, err := s.persister.ListDevicePositions(ctx, s.floorPlanID)
	if err != nil {
		wrapped := fmt.Errorf("load positions: %w", err)
		s.recordErr(wrapped)
		return wrapped
	}

	fresh := make(map[string]models.DevicePosition, len(records))
	for _, rec := range records {
		fresh[rec.DeviceID] = rec
	}

	s.mu.Lock()
	s.positions = fresh
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// UpdatePosition optimistically moves an existing device, then persists.
// On persistence failure the entry is rolled back to its pre-write record,
// unless a newer write has landed in the meantime.
func (s *Store) UpdatePosition(ctx context.Context, deviceID string, x, y float64) error {
	p := models.Point{X: x, Y: y}.Clamp()

	s.mu.Lock()
	prev, ok := s.positions[deviceID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	ts := s.clock.Next()
	next := prev
	next.X, next.Y = p.X, p.Y
	next.Timestamp = ts
	s.positions[deviceID] = next
	s.mu.Unlock()

	if err := s.persister.PersistPosition(ctx, deviceID, p.X, p.Y, s.floorPlanID); err != nil {
		s.rollbackTo(deviceID, prev, ts)
		wrapped := fmt.Errorf("persist position %s: %w", deviceID, err)
		s.recordErr(wrapped)
		return wrapped
	}
	return nil
}

// AddEntity optimistically places a new device. A duplicate id is refused
// before any map write, so an existing record is never at risk. Rollback on
// persistence failure removes the entry entirely: from the server's
// perspective it never existed.
func (s *Store) AddEntity(ctx context.Context, deviceID string, x, y float64, meta Metadata) error {
	p := models.Point{X: x, Y: y}.Clamp()
	status := meta.Status
	if !status.Valid() {
		status = models.StatusOffline
	}

	s.mu.Lock()
	if _, exists := s.positions[deviceID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDeviceExists, deviceID)
	}
	ts := s.clock.Next()
	rec := models.DevicePosition{
		DeviceID:    deviceID,
		FloorPlanID: s.floorPlanID,
		X:           p.X,
		Y:           p.Y,
		Status:      status,
		LastSeen:    meta.LastSeen,
		Timestamp:   ts,
	}
	s.positions[deviceID] = rec
	s.mu.Unlock()

	if err := s.persister.CreateDevicePosition(ctx, rec); err != nil {
		s.mu.Lock()
		if cur, ok := s.positions[deviceID]; ok && cur.Timestamp == ts {
			delete(s.positions, deviceID)
		}
		s.mu.Unlock()
		wrapped := fmt.Errorf("create device %s: %w", deviceID, err)
		s.recordErr(wrapped)
		return wrapped
	}
	return nil
}

// RemoveEntity optimistically deletes a device. On persistence failure the
// pre-removal record is restored verbatim, original timestamp included,
// unless a newer write has re-created the entry.
func (s *Store) RemoveEntity(ctx context.Context, deviceID string) error {
	s.mu.Lock()
	prev, ok := s.positions[deviceID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	delete(s.positions, deviceID)
	s.mu.Unlock()

	if err := s.persister.DeleteDevicePosition(ctx, deviceID); err != nil {
		s.mu.Lock()
		if _, exists := s.positions[deviceID]; !exists {
			s.positions[deviceID] = prev
		}
		s.mu.Unlock()
		wrapped := fmt.Errorf("delete device %s: %w", deviceID, err)
		s.recordErr(wrapped)
		return wrapped
	}
	return nil
}

// MergeOutcome reports what a last-writer-wins merge did with an incoming
// remote event, so ingestion points can distinguish a lost race from a
// device this store has never seen.
type MergeOutcome int

const (
	// MergeApplied means the event won and the record was updated.
	MergeApplied MergeOutcome = iota
	// MergeStale means the event lost to an equal or newer record.
	MergeStale
	// MergeUnknownDevice means the event addressed a device outside the
	// loaded snapshot.
	MergeUnknownDevice
	// MergeInvalidStatus means the event carried a status outside the enum.
	MergeInvalidStatus
)

func (o MergeOutcome) String() string {
	switch o {
	case MergeApplied:
		return "applied"
	case MergeStale:
		return "stale"
	case MergeUnknownDevice:
		return "unknown_device"
	case MergeInvalidStatus:
		return "invalid_status"
	default:
		return "unknown"
	}
}

// Applied reports whether the merge updated the record.
func (o MergeOutcome) Applied() bool { return o == MergeApplied }

// MergeRemoteUpdate applies a position update that originated outside this
// client. Last-writer-wins: the update is dropped unless its timestamp is
// strictly newer than the record's, ties keeping the existing record.
// Updates for devices not on this floor plan's snapshot are dropped; the
// load defines membership.
func (s *Store) MergeRemoteUpdate(deviceID string, x, y float64, ts models.Timestamp) MergeOutcome {
	p := models.Point{X: x, Y: y}.Clamp()

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.positions[deviceID]
	if !ok {
		return MergeUnknownDevice
	}
	if !ts.Newer(cur.Timestamp) {
		return MergeStale
	}
	cur.X, cur.Y = p.X, p.Y
	cur.Timestamp = ts
	s.positions[deviceID] = cur
	return MergeApplied
}

// MergeRemoteStatus applies a status update under the same last-writer-wins
// rule. LastSeen is refreshed only when the new status is online or alert.
func (s *Store) MergeRemoteStatus(deviceID string, status models.DeviceStatus, ts models.Timestamp) MergeOutcome {
	if !status.Valid() {
		return MergeInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.positions[deviceID]
	if !ok {
		return MergeUnknownDevice
	}
	if !ts.Newer(cur.Timestamp) {
		return MergeStale
	}
	cur.Status = status
	cur.Timestamp = ts
	if status == models.StatusOnline || status == models.StatusAlert {
		cur.LastSeen = string(ts)
	}
	s.positions[deviceID] = cur
	return MergeApplied
}

// Get returns a copy of one device's record.
func (s *Store) Get(deviceID string) (models.DevicePosition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.positions[deviceID]
	return rec, ok
}

// Snapshot returns a copy of the whole map for rendering. Callers must
// treat the records as immutable.
func (s *Store) Snapshot() map[string]models.DevicePosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.DevicePosition, len(s.positions))
	for id, rec := range s.positions {
		out[id] = rec
	}
	return out
}

// LastError returns the most recent persistence failure, for a retryable
// error indicator. Cleared by the next successful load.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// rollbackTo restores prev only while the entry still carries the
// timestamp issued for the failed write. If a newer optimistic write has
// replaced it, the stale failure must not clobber it.
func (s *Store) rollbackTo(deviceID string, prev models.DevicePosition, issued models.Timestamp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.positions[deviceID]; ok && cur.Timestamp == issued {
		s.positions[deviceID] = prev
	}
}

func (s *Store) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}
