package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/emberops/floorplan-backend-go/internal/models"
	syncstore "github.com/emberops/floorplan-backend-go/internal/sync"
	"github.com/emberops/floorplan-backend-go/pkg/response"
)

// DeviceHandler handles HTTP requests for device markers. All mutations go
// through the synchronization hub so the in-memory table and the database
// stay consistent under the optimistic-write contract.
type DeviceHandler struct {
	hub *syncstore.Hub
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(hub *syncstore.Hub) *DeviceHandler {
	return &DeviceHandler{hub: hub}
}

type positionRequest struct {
	FloorPlanID string  `json:"floorPlanId" binding:"required"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

type addDeviceRequest struct {
	DeviceID string  `json:"deviceId" binding:"required"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Status   string  `json:"status"`
}

// ListPositions handles GET /api/v1/floorplans/:id/devices
func (h *DeviceHandler) ListPositions(c *gin.Context) {
	store, err := h.hub.Store(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, store.Snapshot())
}

// UpdatePosition handles PUT /api/v1/devices/:id/position
func (h *DeviceHandler) UpdatePosition(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid position payload")
		return
	}

	store, err := h.hub.Store(c.Request.Context(), req.FloorPlanID)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := store.UpdatePosition(c.Request.Context(), c.Param("id"), req.X, req.Y); err != nil {
		writeError(c, err)
		return
	}
	rec, _ := store.Get(c.Param("id"))
	response.Success(c, rec)
}

// Add handles POST /api/v1/floorplans/:id/devices
func (h *DeviceHandler) Add(c *gin.Context) {
	var req addDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid device payload")
		return
	}

	store, err := h.hub.Store(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	meta := syncstore.Metadata{Status: models.DeviceStatus(req.Status)}
	if err := store.AddEntity(c.Request.Context(), req.DeviceID, req.X, req.Y, meta); err != nil {
		writeError(c, err)
		return
	}
	rec, _ := store.Get(req.DeviceID)
	response.Created(c, rec)
}

// Remove handles DELETE /api/v1/floorplans/:id/devices/:deviceId
func (h *DeviceHandler) Remove(c *gin.Context) {
	store, err := h.hub.Store(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := store.RemoveEntity(c.Request.Context(), c.Param("deviceId")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": c.Param("deviceId")})
}
