package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/emberops/floorplan-backend-go/internal/models"
	"github.com/emberops/floorplan-backend-go/internal/service"
	"github.com/emberops/floorplan-backend-go/pkg/response"
)

// CheckpointHandler handles HTTP requests for emergency checkpoints
type CheckpointHandler struct {
	checkpointService *service.CheckpointService
}

// NewCheckpointHandler creates a new checkpoint handler
func NewCheckpointHandler(checkpointService *service.CheckpointService) *CheckpointHandler {
	return &CheckpointHandler{checkpointService: checkpointService}
}

// Create handles POST /api/v1/checkpoints
func (h *CheckpointHandler) Create(c *gin.Context) {
	var draft models.CheckpointDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.BadRequest(c, "Invalid checkpoint payload")
		return
	}

	cp, err := h.checkpointService.Create(c.Request.Context(), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, cp)
}

// Update handles PATCH /api/v1/checkpoints/:id
func (h *CheckpointHandler) Update(c *gin.Context) {
	var patch models.CheckpointPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "Invalid checkpoint patch")
		return
	}

	cp, err := h.checkpointService.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, cp)
}

// Delete handles DELETE /api/v1/checkpoints/:id
func (h *CheckpointHandler) Delete(c *gin.Context) {
	if err := h.checkpointService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": c.Param("id")})
}

// Get handles GET /api/v1/checkpoints/:id
func (h *CheckpointHandler) Get(c *gin.Context) {
	cp, err := h.checkpointService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, cp)
}

// List handles GET /api/v1/floorplans/:id/checkpoints
func (h *CheckpointHandler) List(c *gin.Context) {
	checkpoints, err := h.checkpointService.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, checkpoints)
}
