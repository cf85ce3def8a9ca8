package models

// CheckpointType classifies an emergency checkpoint marker.
type CheckpointType string

const (
	CheckpointAssemblyPoint   CheckpointType = "assembly_point"
	CheckpointFirstAid        CheckpointType = "first_aid"
	CheckpointTriageArea      CheckpointType = "triage_area"
	CheckpointCommandPost     CheckpointType = "command_post"
	CheckpointEquipmentCache  CheckpointType = "equipment_cache"
	CheckpointFireSuppression CheckpointType = "fire_suppression"
	CheckpointEmergencyExit   CheckpointType = "emergency_exit"
	CheckpointHazardZone      CheckpointType = "hazard_zone"
)

// Valid reports whether t is one of the eight known checkpoint types.
func (t CheckpointType) Valid() bool {
	switch t {
	case CheckpointAssemblyPoint, CheckpointFirstAid, CheckpointTriageArea,
		CheckpointCommandPost, CheckpointEquipmentCache, CheckpointFireSuppression,
		CheckpointEmergencyExit, CheckpointHazardZone:
		return true
	}
	return false
}

// EquipmentItem is one line of a checkpoint's equipment inventory.
type EquipmentItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Checkpoint is a single-point entity of a fixed type placed on a floor plan.
type Checkpoint struct {
	ID                string          `json:"id" db:"id"`
	FloorPlanID       string          `json:"floorPlanId" db:"floor_plan_id"`
	Type              CheckpointType  `json:"checkpointType" db:"checkpoint_type"`
	Name              string          `json:"name" db:"name"`
	X                 float64         `json:"x" db:"x"`
	Y                 float64         `json:"y" db:"y"`
	Capacity          int             `json:"capacity,omitempty" db:"capacity"`
	ResponsiblePerson string          `json:"responsiblePerson,omitempty" db:"responsible_person"`
	Equipment         []EquipmentItem `json:"equipment" db:"equipment"`
	ContactInfo       string          `json:"contactInfo,omitempty" db:"contact_info"`
	IsActive          bool            `json:"isActive" db:"is_active"`
	CreatedAt         string          `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt         string          `json:"updatedAt,omitempty" db:"updated_at"`
}

// Position returns the checkpoint's coordinates as a Point.
func (c Checkpoint) Position() Point {
	return Point{X: c.X, Y: c.Y}
}

// CheckpointDraft carries the fields accepted when placing a checkpoint.
type CheckpointDraft struct {
	FloorPlanID       string          `json:"floorPlanId"`
	Type              CheckpointType  `json:"checkpointType"`
	Name              string          `json:"name"`
	X                 float64         `json:"x"`
	Y                 float64         `json:"y"`
	Capacity          int             `json:"capacity,omitempty"`
	ResponsiblePerson string          `json:"responsiblePerson,omitempty"`
	Equipment         []EquipmentItem `json:"equipment,omitempty"`
	ContactInfo       string          `json:"contactInfo,omitempty"`
}

// CheckpointPatch carries the optional fields of a details-panel edit. Nil
// fields are left unchanged.
type CheckpointPatch struct {
	Name              *string         `json:"name,omitempty"`
	X                 *float64        `json:"x,omitempty"`
	Y                 *float64        `json:"y,omitempty"`
	Capacity          *int            `json:"capacity,omitempty"`
	ResponsiblePerson *string         `json:"responsiblePerson,omitempty"`
	Equipment         []EquipmentItem `json:"equipment,omitempty"`
	ContactInfo       *string         `json:"contactInfo,omitempty"`
	IsActive          *bool           `json:"isActive,omitempty"`
}
