package editor

// Key identifies a keyboard key the editing state machines react to.
type Key int

const (
	KeyNone Key = iota
	KeyEscape
	KeyEnter
	KeyDelete
	KeyBackspace
)

// String returns the key name for display.
func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "ESC"
	case KeyEnter:
		return "ENTER"
	case KeyDelete:
		return "DEL"
	case KeyBackspace:
		return "BACKSPACE"
	default:
		return "NONE"
	}
}

// EntityKind distinguishes the interactive entity families that share the
// placement and drag machinery.
type EntityKind string

const (
	KindDevice     EntityKind = "device"
	KindCheckpoint EntityKind = "checkpoint"
	KindWaypoint   EntityKind = "waypoint"
)

// DragTarget identifies the single entity currently being dragged.
type DragTarget struct {
	Kind EntityKind
	ID   string
	// Index addresses a waypoint within its route; unused for other kinds.
	Index int
}
