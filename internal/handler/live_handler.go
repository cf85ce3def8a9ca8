package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/emberops/floorplan-backend-go/internal/models"
	"github.com/emberops/floorplan-backend-go/internal/service"
	syncstore "github.com/emberops/floorplan-backend-go/internal/sync"
	"github.com/emberops/floorplan-backend-go/pkg/response"
)

// LiveHandler ingests out-of-band device updates pushed by other operators
// or device telemetry. Events arrive at any time and possibly out of causal
// order; the store's last-writer-wins merge decides whether each one lands.
// Payload field names follow the telemetry channel's snake_case convention.
type LiveHandler struct {
	hub           *syncstore.Hub
	deviceService *service.DeviceService
}

// NewLiveHandler creates a new live-update handler
func NewLiveHandler(hub *syncstore.Hub, deviceService *service.DeviceService) *LiveHandler {
	return &LiveHandler{hub: hub, deviceService: deviceService}
}

type livePositionEvent struct {
	DeviceID    string  `json:"device_id" binding:"required"`
	FloorPlanID string  `json:"floor_plan_id" binding:"required"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Timestamp   string  `json:"timestamp" binding:"required"`
}

type liveStatusEvent struct {
	DeviceID    string `json:"device_id" binding:"required"`
	FloorPlanID string `json:"floor_plan_id" binding:"required"`
	Status      string `json:"status" binding:"required"`
	Timestamp   string `json:"timestamp" binding:"required"`
}

// Position handles POST /api/v1/live/position
func (h *LiveHandler) Position(c *gin.Context) {
	var ev livePositionEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		response.BadRequest(c, "Invalid position event")
		return
	}

	store, err := h.hub.Store(c.Request.Context(), ev.FloorPlanID)
	if err != nil {
		writeError(c, err)
		return
	}

	outcome := store.MergeRemoteUpdate(ev.DeviceID, ev.X, ev.Y, models.Timestamp(ev.Timestamp))
	if outcome.Applied() {
		if rec, ok := store.Get(ev.DeviceID); ok {
			if err := h.deviceService.PersistRemote(c.Request.Context(), rec); err != nil {
				writeError(c, err)
				return
			}
		}
	}
	response.Success(c, gin.H{"merged": outcome.Applied(), "outcome": outcome.String()})
}

// Status handles POST /api/v1/live/status
func (h *LiveHandler) Status(c *gin.Context) {
	var ev liveStatusEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		response.BadRequest(c, "Invalid status event")
		return
	}

	status := models.DeviceStatus(ev.Status)
	if !status.Valid() {
		response.UnprocessableEntity(c, "Unknown device status")
		return
	}

	store, err := h.hub.Store(c.Request.Context(), ev.FloorPlanID)
	if err != nil {
		writeError(c, err)
		return
	}

	outcome := store.MergeRemoteStatus(ev.DeviceID, status, models.Timestamp(ev.Timestamp))
	if outcome.Applied() {
		if rec, ok := store.Get(ev.DeviceID); ok {
			if err := h.deviceService.PersistRemote(c.Request.Context(), rec); err != nil {
				writeError(c, err)
				return
			}
		}
	}
	response.Success(c, gin.H{"merged": outcome.Applied(), "outcome": outcome.String()})
}
