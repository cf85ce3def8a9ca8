package models

// FloorPlan represents a single annotated floor-plan image. Width and Height
// are the intrinsic pixel dimensions of the bitmap; every placed entity
// references exactly one floor plan.
type FloorPlan struct {
	ID         string `json:"id" db:"id"`
	BuildingID string `json:"buildingId" db:"building_id"`
	Name       string `json:"name" db:"name"`
	ImageURL   string `json:"imageUrl" db:"image_url"`
	Width      int64  `json:"width" db:"width"`
	Height     int64  `json:"height" db:"height"`
	IsActive   bool   `json:"isActive" db:"is_active"`
	CreatedAt  string `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt  string `json:"updatedAt,omitempty" db:"updated_at"`
}

// FloorPlanDraft carries the fields accepted when creating a floor plan.
type FloorPlanDraft struct {
	BuildingID string `json:"buildingId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	ImageURL   string `json:"imageUrl"`
	Width      int64  `json:"width" binding:"required"`
	Height     int64  `json:"height" binding:"required"`
}
