package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

type fakePersister struct {
	listRecords []models.DevicePosition
	listErr     error

	persistErr error
	createErr  error
	deleteErr  error

	persistCalls int
	createCalls  int
	deleteCalls  int

	// onPersist runs inside PersistPosition, simulating interleaved edits
	// arriving while a call is in flight.
	onPersist func()
}

func (f *fakePersister) PersistPosition(ctx context.Context, deviceID string, x, y float64, floorPlanID string) error {
	f.persistCalls++
	if f.onPersist != nil {
		fn := f.onPersist
		f.onPersist = nil
		fn()
	}
	return f.persistErr
}

func (f *fakePersister) CreateDevicePosition(ctx context.Context, rec models.DevicePosition) error {
	f.createCalls++
	return f.createErr
}

func (f *fakePersister) DeleteDevicePosition(ctx context.Context, deviceID string) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakePersister) ListDevicePositions(ctx context.Context, floorPlanID string) ([]models.DevicePosition, error) {
	return f.listRecords, f.listErr
}

func seededStore(t *testing.T, fake *fakePersister, records ...models.DevicePosition) *Store {
	t.Helper()
	fake.listRecords = records
	st := NewStore("plan-1", fake)
	if err := st.LoadForFloorPlan(context.Background()); err != nil {
		t.Fatalf("seed load failed: %v", err)
	}
	return st
}

func record(id string, x, y float64, status models.DeviceStatus, ts string) models.DevicePosition {
	return models.DevicePosition{
		DeviceID:    id,
		FloorPlanID: "plan-1",
		X:           x,
		Y:           y,
		Status:      status,
		Timestamp:   models.Timestamp(ts),
	}
}

func TestLoadFailureLeavesMapUntouched(t *testing.T) {
	fake := &fakePersister{}
	st := seededStore(t, fake, record("d1", 20, 20, models.StatusOnline, "2024-01-01T00:00:00.000000000Z"))

	fake.listErr = errors.New("server unavailable")
	if err := st.LoadForFloorPlan(context.Background()); err == nil {
		t.Fatal("expected load error")
	}

	if rec, ok := st.Get("d1"); !ok || rec.X != 20 {
		t.Errorf("map should be untouched after failed load, got %+v (%v)", rec, ok)
	}
}

func TestUpdatePositionOptimistic(t *testing.T) {
	fake := &fakePersister{}
	st := seededStore(t, fake, record("d1", 10, 10, models.StatusOnline, "2024-01-01T00:00:00.000000000Z"))

	if err := st.UpdatePosition(context.Background(), "d1", 70, 80); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	rec, _ := st.Get("d1")
	if rec.X != 70 || rec.Y != 80 {
		t.Errorf("position (%v,%v), want (70,80)", rec.X, rec.Y)
	}
	if !rec.Timestamp.Newer("2024-01-01T00:00:00.000000000Z") {
		t.Error("optimistic write must stamp a fresh timestamp")
	}
	if fake.persistCalls != 1 {
		t.Errorf("persist calls %d, want 1", fake.persistCalls)
	}
}

func TestUpdatePositionRollback(t *testing.T) {
	fake := &fakePersister{}
	orig := record("d1", 10, 10, models.StatusOnline, "2024-01-01T00:00:00.000000000Z")
	st := seededStore(t, fake, orig)

	fake.persistErr = errors.New("server unavailable")
	if err := st.UpdatePosition(context.Background(), "d1", 70, 80); err == nil {
		t.Fatal("expected persistence error")
	}

	rec, _ := st.Get("d1")
	if rec != orig {
		t.Errorf("record %+v after rollback, want exact pre-write snapshot %+v", rec, orig)
	}
	if st.LastError() == nil {
		t.Error("failure should be recorded for the retry indicator")
	}
}

func TestStaleFailureDoesNotClobberNewerWrite(t *testing.T) {
	fake := &fakePersister{}
	st := seededStore(t, fake, record("d1", 10, 10, models.StatusOnline, "2024-01-01T00:00:00.000000000Z"))

	// The first update fails, but while its call is in flight a second
	// optimistic write lands. The stale failure must not roll back the
	// newer value.
	fake.onPersist = func() {
		fake.persistErr = nil
		if err := st.UpdatePosition(context.Background(), "d1", 90, 90); err != nil {
			t.Fatalf("interleaved update failed: %v", err)
		}
		fake.persistErr = errors.New("server unavailable")
	}
	fake.persistErr = errors.New("server unavailable")

	if err := st.UpdatePosition(context.Background(), "d1", 40, 40); err == nil {
		t.Fatal("expected persistence error")
	}

	rec, _ := st.Get("d1")
	if rec.X != 90 || rec.Y != 90 {
		t.Errorf("position (%v,%v) after stale failure, want newer (90,90)", rec.X, rec.Y)
	}
}

func TestUpdateUnknownDeviceRefusedLocally(t *testing.T) {
	fake := &fakePersister{}
	st := seededStore(t, fake)

	if err := st.UpdatePosition(context.Background(), "ghost", 1, 1); !errors.Is(err, ErrUnknownDevice) {
		t.Fatalf("expected ErrUnknownDevice, got %v", err)
	}
	if fake.persistCalls != 0 {
		t.Error("refused update must not reach persistence")
	}
}

func TestAddEntityRollbackRemovesEntry(t *testing.T) {
	fake := &fakePersister{}
	st := seededStore(t, fake)

	if err := st.AddEntity(context.Background(), "d9", 30, 30, Metadata{Status: models.StatusOnline}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, ok := st.Get("d9"); !ok {
		t.Fatal("added entity should be visible immediately")
	}

	fake.createErr = errors.New("server unavailable")
	if err := st.AddEntity(context.Background(), "d10", 40, 40, Metadata{}); err == nil {
		t.Fatal("expected persistence error")
	}
	if _, ok := st.Get("d10"); ok {
		t.Error("failed add must remove the entry entirely")
	}
}

func TestAddDuplicateDeviceRefusedLocally(t *testing.T) {
	fake := &fakePersister{createErr: errors.New("UNIQUE constraint failed")}
	st := seededStore(t, fake, record("d1", 10, 10, models.StatusOnline, "2024-01-01T00:00:00.000000000Z"))

	if err := st.AddEntity(context.Background(), "d1", 55, 55, Metadata{Status: models.StatusOnline}); !errors.Is(err, ErrDeviceExists) {
		t.Fatalf("expected ErrDeviceExists, got %v", err)
	}
	if fake.createCalls != 0 {
		t.Error("refused add must not reach persistence")
	}

	rec, ok := st.Get("d1")
	if !ok {
		t.Fatal("existing record must survive a refused add")
	}
	if rec.X != 10 || rec.Y != 10 {
		t.Errorf("existing record mutated to (%v,%v), want (10,10)", rec.X, rec.Y)
	}
}

func TestRemoveEntityRestoresVerbatim(t *testing.T) {
	fake := &fakePersister{}
	orig := record("d1", 10, 10, models.StatusAlert, "2024-01-01T00:00:00.000000000Z")
	orig.LastSeen = "2024-01-01T00:00:00Z"
	st := seededStore(t, fake, orig)

	fake.deleteErr = errors.New("server unavailable")
	if err := st.RemoveEntity(context.Background(), "d1"); err == nil {
		t.Fatal("expected persistence error")
	}

	rec, ok := st.Get("d1")
	if !ok {
		t.Fatal("record should be restored after failed delete")
	}
	if rec != orig {
		t.Errorf("restored %+v, want verbatim %+v (original timestamp included)", rec, orig)
	}

	fake.deleteErr = nil
	if err := st.RemoveEntity(context.Background(), "d1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := st.Get("d1"); ok {
		t.Error("record should be gone after successful delete")
	}
}

func TestMergeRemoteUpdateLastWriterWins(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		outcome  MergeOutcome
		wantX    float64
	}{
		{"older is dropped", "2023-12-31T23:59:59.000000000Z", MergeStale, 20},
		{"equal is dropped", "2024-01-01T00:00:00.000000000Z", MergeStale, 20},
		{"newer wins", "2024-01-01T00:00:01.000000000Z", MergeApplied, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePersister{}
			st := seededStore(t, fake, record("d1", 20, 20, models.StatusOffline, "2024-01-01T00:00:00.000000000Z"))

			outcome := st.MergeRemoteUpdate("d1", 30, 30, models.Timestamp(tt.incoming))
			if outcome != tt.outcome {
				t.Errorf("outcome = %v, want %v", outcome, tt.outcome)
			}
			rec, _ := st.Get("d1")
			if rec.X != tt.wantX {
				t.Errorf("x = %v, want %v", rec.X, tt.wantX)
			}
		})
	}
}

func TestMergeRemoteUpdateUnknownDeviceDropped(t *testing.T) {
	fake := &fakePersister{}
	st := seededStore(t, fake)

	if got := st.MergeRemoteUpdate("ghost", 1, 1, "2024-01-01T00:00:00.000000000Z"); got != MergeUnknownDevice {
		t.Errorf("outcome = %v, want MergeUnknownDevice", got)
	}
}

func TestMergeRemoteStatusLastSeen(t *testing.T) {
	tests := []struct {
		name         string
		status       models.DeviceStatus
		wantLastSeen bool
	}{
		{"online refreshes last seen", models.StatusOnline, true},
		{"alert refreshes last seen", models.StatusAlert, true},
		{"offline does not", models.StatusOffline, false},
		{"maintenance does not", models.StatusMaintenance, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePersister{}
			st := seededStore(t, fake, record("d1", 20, 20, models.StatusOnline, "2024-01-01T00:00:00.000000000Z"))

			ts := models.Timestamp("2024-01-01T00:00:05.000000000Z")
			if got := st.MergeRemoteStatus("d1", tt.status, ts); !got.Applied() {
				t.Fatalf("outcome = %v, want MergeApplied", got)
			}
			rec, _ := st.Get("d1")
			if rec.Status != tt.status {
				t.Errorf("status %s, want %s", rec.Status, tt.status)
			}
			refreshed := rec.LastSeen == string(ts)
			if refreshed != tt.wantLastSeen {
				t.Errorf("last seen refreshed = %v, want %v", refreshed, tt.wantLastSeen)
			}
		})
	}
}

func TestRemoteLosesToNewerLocalWrite(t *testing.T) {
	fake := &fakePersister{}
	st := seededStore(t, fake, record("d1", 10, 10, models.StatusOnline, "2024-01-01T00:00:00.000000000Z"))

	// The local optimistic write's timestamp is assigned at write time, so
	// a remote update stamped earlier loses even before the network call
	// confirms.
	if err := st.UpdatePosition(context.Background(), "d1", 50, 50); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	rec, _ := st.Get("d1")
	older := models.Timestamp("2024-01-01T00:00:00.000000001Z")
	if older.Newer(rec.Timestamp) {
		t.Skip("local clock produced an unexpectedly old stamp")
	}

	if got := st.MergeRemoteUpdate("d1", 1, 1, older); got != MergeStale {
		t.Errorf("outcome = %v, want MergeStale", got)
	}
	rec, _ = st.Get("d1")
	if rec.X != 50 {
		t.Errorf("x = %v, want 50", rec.X)
	}
}

func TestScenarioStaleRemotePush(t *testing.T) {
	fake := &fakePersister{}
	st := seededStore(t, fake, record("d1", 20, 20, models.StatusOffline, "2024-01-01T00:00:00.000000000Z"))

	st.MergeRemoteUpdate("d1", 30, 30, "2023-12-31T23:59:59.000000000Z")

	rec, _ := st.Get("d1")
	if rec.X != 20 || rec.Y != 20 {
		t.Errorf("store moved to (%v,%v), must remain at (20,20)", rec.X, rec.Y)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	fake := &fakePersister{}
	st := seededStore(t, fake, record("d1", 20, 20, models.StatusOnline, "2024-01-01T00:00:00.000000000Z"))

	snap := st.Snapshot()
	entry := snap["d1"]
	entry.X = 99
	snap["d1"] = entry

	rec, _ := st.Get("d1")
	if rec.X != 20 {
		t.Error("mutating a snapshot must not affect the store")
	}
}

func TestClockMonotonic(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := models.NewClockAt(func() time.Time { return now })

	a := clock.Next()
	b := clock.Next()
	if !b.Newer(a) {
		t.Errorf("stalled wall clock: %s should be newer than %s", b, a)
	}
}
