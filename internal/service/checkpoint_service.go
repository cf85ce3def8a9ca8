package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

// CheckpointRepo is the storage surface the checkpoint service needs.
type CheckpointRepo interface {
	Insert(ctx context.Context, cp models.Checkpoint) error
	Update(ctx context.Context, cp models.Checkpoint) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Checkpoint, error)
	ListByFloorPlan(ctx context.Context, floorPlanID string) ([]models.Checkpoint, error)
}

// CheckpointService handles business logic for emergency checkpoints
type CheckpointService struct {
	repo CheckpointRepo
}

// NewCheckpointService creates a new checkpoint service
func NewCheckpointService(repo CheckpointRepo) *CheckpointService {
	return &CheckpointService{repo: repo}
}

// Create validates a placement-mode draft and stores the checkpoint.
func (s *CheckpointService) Create(ctx context.Context, draft models.CheckpointDraft) (*models.Checkpoint, error) {
	if draft.FloorPlanID == "" {
		return nil, fmt.Errorf("%w: floor plan id is required", ErrValidation)
	}
	if !draft.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown checkpoint type %q", ErrValidation, draft.Type)
	}

	p := models.Point{X: draft.X, Y: draft.Y}.Clamp()
	cp := models.Checkpoint{
		ID:                uuid.NewString(),
		FloorPlanID:       draft.FloorPlanID,
		Type:              draft.Type,
		Name:              draft.Name,
		X:                 p.X,
		Y:                 p.Y,
		Capacity:          draft.Capacity,
		ResponsiblePerson: draft.ResponsiblePerson,
		Equipment:         draft.Equipment,
		ContactInfo:       draft.ContactInfo,
		IsActive:          true,
	}
	if cp.Equipment == nil {
		cp.Equipment = []models.EquipmentItem{}
	}
	if err := s.repo.Insert(ctx, cp); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint: %w", err)
	}
	return &cp, nil
}

// Update applies a details-panel edit. Unset patch fields are left alone;
// the checkpoint's type is fixed at placement time.
func (s *CheckpointService) Update(ctx context.Context, id string, patch models.CheckpointPatch) (*models.Checkpoint, error) {
	cp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		cp.Name = *patch.Name
	}
	if patch.X != nil {
		cp.X = *patch.X
	}
	if patch.Y != nil {
		cp.Y = *patch.Y
	}
	p := cp.Position().Clamp()
	cp.X, cp.Y = p.X, p.Y
	if patch.Capacity != nil {
		cp.Capacity = *patch.Capacity
	}
	if patch.ResponsiblePerson != nil {
		cp.ResponsiblePerson = *patch.ResponsiblePerson
	}
	if patch.Equipment != nil {
		cp.Equipment = patch.Equipment
	}
	if patch.ContactInfo != nil {
		cp.ContactInfo = *patch.ContactInfo
	}
	if patch.IsActive != nil {
		cp.IsActive = *patch.IsActive
	}

	if err := s.repo.Update(ctx, *cp); err != nil {
		return nil, fmt.Errorf("failed to update checkpoint: %w", err)
	}
	return cp, nil
}

// Delete removes a checkpoint.
func (s *CheckpointService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Get retrieves a checkpoint by id.
func (s *CheckpointService) Get(ctx context.Context, id string) (*models.Checkpoint, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves the checkpoints on a floor plan.
func (s *CheckpointService) List(ctx context.Context, floorPlanID string) ([]models.Checkpoint, error) {
	return s.repo.ListByFloorPlan(ctx, floorPlanID)
}
