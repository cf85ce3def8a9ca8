package editor

import (
	"github.com/emberops/floorplan-backend-go/internal/geometry"
	"github.com/emberops/floorplan-backend-go/internal/models"
)

// Mode represents the placement machine's interaction state.
type Mode int

const (
	ModeIdle              Mode = iota // No interaction in progress
	ModeArmedForPlacement             // A type is chosen; next click places it
	ModeDragging                      // A marker follows the pointer
)

// String returns the mode name for display.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeArmedForPlacement:
		return "ARMED"
	case ModeDragging:
		return "DRAGGING"
	default:
		return "UNKNOWN"
	}
}

// PlacementMachine is the per-session interaction state machine shared by
// device markers, checkpoints, and route waypoints. Exactly one placement
// type may be armed and exactly one entity may be dragged at a time; the
// application root owns a single instance, which is what makes those
// invariants system-wide.
//
// All committed coordinates are grid-snapped (when enabled) and clamped to
// [0,100]. Pointer movement between down and up is visual-only: a drag
// fires a single commit on release.
type PlacementMachine struct {
	vp       geometry.Viewport
	gridSnap bool
	gridStep float64
	editing  bool

	mode        Mode
	armedKind   EntityKind
	armedType   string
	preview     models.Point
	hasPreview  bool
	dragTarget  DragTarget
	dragPos     models.Point
	hasDragPos  bool
	selection   DragTarget
	hasSelected bool

	// OnPlace is invoked once per placement click with the committed point.
	OnPlace func(kind EntityKind, subtype string, p models.Point)
	// OnDragEnd is invoked once per completed drag with the final point.
	OnDragEnd func(target DragTarget, p models.Point)
	// OnDeselect is invoked when arming or Escape clears the selection.
	OnDeselect func(previous DragTarget)
}

// NewPlacementMachine returns an idle machine for the given viewport with
// grid snapping enabled at the default step.
func NewPlacementMachine(vp geometry.Viewport) *PlacementMachine {
	return &PlacementMachine{
		vp:       vp,
		gridSnap: true,
		gridStep: geometry.DefaultGridStep,
	}
}

// SetViewport updates the pixel-space container the machine converts
// pointer positions against.
func (m *PlacementMachine) SetViewport(vp geometry.Viewport) { m.vp = vp }

// SetEditing enables or disables drag editing. Placement arming is
// controlled separately by the toolbar.
func (m *PlacementMachine) SetEditing(enabled bool) { m.editing = enabled }

// SetGridSnap toggles snap-to-grid for committed coordinates.
func (m *PlacementMachine) SetGridSnap(enabled bool) { m.gridSnap = enabled }

// Mode returns the current interaction state.
func (m *PlacementMachine) Mode() Mode { return m.mode }

// ArmedType returns the armed entity kind and subtype while in
// ArmedForPlacement.
func (m *PlacementMachine) ArmedType() (EntityKind, string, bool) {
	if m.mode != ModeArmedForPlacement {
		return "", "", false
	}
	return m.armedKind, m.armedType, true
}

// Preview returns the ghost-marker position while armed, if the pointer
// has produced one.
func (m *PlacementMachine) Preview() (models.Point, bool) {
	return m.preview, m.hasPreview && m.mode == ModeArmedForPlacement
}

// DragPreview returns the live position of the entity being dragged.
func (m *PlacementMachine) DragPreview() (models.Point, bool) {
	return m.dragPos, m.hasDragPos && m.mode == ModeDragging
}

// Selection returns the currently selected entity.
func (m *PlacementMachine) Selection() (DragTarget, bool) {
	return m.selection, m.hasSelected
}

// Arm enters ArmedForPlacement for the given type, replacing any
// previously armed type and clearing the current selection. Ignored while
// a drag is in progress.
func (m *PlacementMachine) Arm(kind EntityKind, subtype string) {
	if m.mode == ModeDragging {
		return
	}
	m.clearSelection()
	m.mode = ModeArmedForPlacement
	m.armedKind = kind
	m.armedType = subtype
	m.hasPreview = false
}

// Disarm leaves ArmedForPlacement without committing.
func (m *PlacementMachine) Disarm() {
	if m.mode != ModeArmedForPlacement {
		return
	}
	m.mode = ModeIdle
	m.armedKind = ""
	m.armedType = ""
	m.hasPreview = false
}

// Select marks an entity as selected, replacing any previous selection.
func (m *PlacementMachine) Select(target DragTarget) {
	m.selection = target
	m.hasSelected = true
}

// BeginDrag starts dragging the given marker from the current pointer
// position. Refused unless editing is enabled and the machine is idle, so
// at most one entity can ever be in the dragging state.
func (m *PlacementMachine) BeginDrag(target DragTarget, px, py float64) bool {
	if !m.editing || m.mode != ModeIdle || !m.vp.Ready() {
		return false
	}
	m.mode = ModeDragging
	m.dragTarget = target
	m.dragPos = m.commitPoint(px, py)
	m.hasDragPos = true
	return true
}

// PointerMove updates the armed ghost marker or the drag preview. It never
// commits anything.
func (m *PlacementMachine) PointerMove(px, py float64) {
	if !m.vp.Ready() {
		return
	}
	switch m.mode {
	case ModeArmedForPlacement:
		m.preview = m.commitPoint(px, py)
		m.hasPreview = true
	case ModeDragging:
		m.dragPos = m.commitPoint(px, py)
		m.hasDragPos = true
	}
}

// Click commits a placement at the clicked position while armed and
// returns the machine to Idle. Clicks in any other state are ignored here;
// selection and drag initiation are driven by the rendering layer's hit
// testing through Select and BeginDrag.
func (m *PlacementMachine) Click(px, py float64) {
	if m.mode != ModeArmedForPlacement || !m.vp.Ready() {
		return
	}
	kind, subtype := m.armedKind, m.armedType
	p := m.commitPoint(px, py)
	m.Disarm()
	if m.OnPlace != nil {
		m.OnPlace(kind, subtype, p)
	}
}

// PointerUp ends an in-progress drag, firing exactly one commit with the
// final position.
func (m *PlacementMachine) PointerUp(px, py float64) {
	if m.mode != ModeDragging {
		return
	}
	target := m.dragTarget
	p := m.dragPos
	if m.vp.Ready() {
		p = m.commitPoint(px, py)
	}
	m.mode = ModeIdle
	m.dragTarget = DragTarget{}
	m.hasDragPos = false
	if m.OnDragEnd != nil {
		m.OnDragEnd(target, p)
	}
}

// KeyPress handles Escape: it cancels an armed placement, or failing that
// clears the selection. An in-progress drag is never cancelled by key;
// only pointer-up ends it.
func (m *PlacementMachine) KeyPress(k Key) {
	if k != KeyEscape || m.mode == ModeDragging {
		return
	}
	if m.mode == ModeArmedForPlacement {
		m.Disarm()
		return
	}
	m.clearSelection()
}

func (m *PlacementMachine) clearSelection() {
	if !m.hasSelected {
		return
	}
	prev := m.selection
	m.selection = DragTarget{}
	m.hasSelected = false
	if m.OnDeselect != nil {
		m.OnDeselect(prev)
	}
}

// commitPoint converts a pointer position to a committed percentage
// coordinate under the current snap policy. The result is always clamped.
func (m *PlacementMachine) commitPoint(px, py float64) models.Point {
	p := geometry.PixelToPercent(px, py, m.vp)
	if m.gridSnap {
		return geometry.SnapToGrid(p, m.gridStep)
	}
	return p
}
