package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/emberops/floorplan-backend-go/internal/models"
)

// ErrValidation marks a request refused before any persistence call.
var ErrValidation = errors.New("validation failed")

// FloorPlanRepo is the storage surface the floor plan service needs.
type FloorPlanRepo interface {
	Insert(ctx context.Context, plan models.FloorPlan) error
	GetByID(ctx context.Context, id string) (*models.FloorPlan, error)
	ListByBuilding(ctx context.Context, buildingID string) ([]models.FloorPlan, error)
}

// FloorPlanService handles business logic for floor plans
type FloorPlanService struct {
	repo FloorPlanRepo
}

// NewFloorPlanService creates a new floor plan service
func NewFloorPlanService(repo FloorPlanRepo) *FloorPlanService {
	return &FloorPlanService{repo: repo}
}

// Create validates and stores a new floor plan. Intrinsic dimensions must
// be positive; placed entities are meaningless against a degenerate bitmap.
func (s *FloorPlanService) Create(ctx context.Context, draft models.FloorPlanDraft) (*models.FloorPlan, error) {
	if draft.Width <= 0 || draft.Height <= 0 {
		return nil, fmt.Errorf("%w: floor plan dimensions must be positive", ErrValidation)
	}
	if draft.BuildingID == "" || draft.Name == "" {
		return nil, fmt.Errorf("%w: building id and name are required", ErrValidation)
	}

	plan := models.FloorPlan{
		ID:         uuid.NewString(),
		BuildingID: draft.BuildingID,
		Name:       draft.Name,
		ImageURL:   draft.ImageURL,
		Width:      draft.Width,
		Height:     draft.Height,
		IsActive:   true,
	}
	if err := s.repo.Insert(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create floor plan: %w", err)
	}
	return &plan, nil
}

// Get retrieves a floor plan by id
func (s *FloorPlanService) Get(ctx context.Context, id string) (*models.FloorPlan, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves floor plans, optionally scoped to one building
func (s *FloorPlanService) List(ctx context.Context, buildingID string) ([]models.FloorPlan, error) {
	return s.repo.ListByBuilding(ctx, buildingID)
}
