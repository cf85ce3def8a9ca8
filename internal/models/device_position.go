package models

// DeviceStatus is the operational state reported for an IoT device marker.
type DeviceStatus string

const (
	StatusOnline      DeviceStatus = "online"
	StatusOffline     DeviceStatus = "offline"
	StatusAlert       DeviceStatus = "alert"
	StatusMaintenance DeviceStatus = "maintenance"
	StatusError       DeviceStatus = "error"
)

// Valid reports whether s is one of the known device statuses.
func (s DeviceStatus) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusAlert, StatusMaintenance, StatusError:
		return true
	}
	return false
}

// DevicePosition is the synchronization store's record for one device
// marker: its percentage coordinates on a floor plan, its reported status,
// and the timestamp of the last write (local or remote) that touched it.
type DevicePosition struct {
	DeviceID    string       `json:"deviceId" db:"device_id"`
	FloorPlanID string       `json:"floorPlanId" db:"floor_plan_id"`
	X           float64      `json:"x" db:"x"`
	Y           float64      `json:"y" db:"y"`
	Status      DeviceStatus `json:"status" db:"status"`
	LastSeen    string       `json:"lastSeen,omitempty" db:"last_seen"`
	Timestamp   Timestamp    `json:"timestamp" db:"timestamp"`
}

// Position returns the record's coordinates as a Point.
func (d DevicePosition) Position() Point {
	return Point{X: d.X, Y: d.Y}
}
