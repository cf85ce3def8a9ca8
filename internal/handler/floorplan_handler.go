package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/emberops/floorplan-backend-go/internal/models"
	"github.com/emberops/floorplan-backend-go/internal/service"
	"github.com/emberops/floorplan-backend-go/pkg/response"
)

// FloorPlanHandler handles HTTP requests for floor plans
type FloorPlanHandler struct {
	floorPlanService *service.FloorPlanService
}

// NewFloorPlanHandler creates a new floor plan handler
func NewFloorPlanHandler(floorPlanService *service.FloorPlanService) *FloorPlanHandler {
	return &FloorPlanHandler{floorPlanService: floorPlanService}
}

// Create handles POST /api/v1/floorplans
func (h *FloorPlanHandler) Create(c *gin.Context) {
	var draft models.FloorPlanDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.BadRequest(c, "Invalid floor plan payload")
		return
	}

	plan, err := h.floorPlanService.Create(c.Request.Context(), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, plan)
}

// Get handles GET /api/v1/floorplans/:id
func (h *FloorPlanHandler) Get(c *gin.Context) {
	plan, err := h.floorPlanService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, plan)
}

// List handles GET /api/v1/floorplans
func (h *FloorPlanHandler) List(c *gin.Context) {
	plans, err := h.floorPlanService.List(c.Request.Context(), c.Query("buildingId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, plans)
}
