package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emberops/floorplan-backend-go/internal/geometry"
	"github.com/emberops/floorplan-backend-go/internal/models"
	"github.com/emberops/floorplan-backend-go/internal/service"
	"github.com/emberops/floorplan-backend-go/pkg/response"
)

// RouteHandler handles HTTP requests for evacuation routes
type RouteHandler struct {
	routeService *service.RouteService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeService *service.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// Create handles POST /api/v1/routes
func (h *RouteHandler) Create(c *gin.Context) {
	var draft models.RouteDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.BadRequest(c, "Invalid route payload")
		return
	}

	route, err := h.routeService.CreateRoute(c.Request.Context(), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, route)
}

type waypointsRequest struct {
	Waypoints []models.Waypoint `json:"waypoints" binding:"required"`
}

// UpdateWaypoints handles PUT /api/v1/routes/:id/waypoints
func (h *RouteHandler) UpdateWaypoints(c *gin.Context) {
	var req waypointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid waypoints payload")
		return
	}

	route, err := h.routeService.UpdateRouteWaypoints(c.Request.Context(), c.Param("id"), req.Waypoints)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, route)
}

// Delete handles DELETE /api/v1/routes/:id
func (h *RouteHandler) Delete(c *gin.Context) {
	if err := h.routeService.DeleteRoute(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": c.Param("id")})
}

// Get handles GET /api/v1/routes/:id
func (h *RouteHandler) Get(c *gin.Context) {
	route, err := h.routeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, route)
}

// List handles GET /api/v1/floorplans/:id/routes
func (h *RouteHandler) List(c *gin.Context) {
	routes, err := h.routeService.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, routes)
}

// Path handles GET /api/v1/routes/:id/path?width=&height=&smooth=
// It renders the route's waypoints into a path for the requested viewport.
func (h *RouteHandler) Path(c *gin.Context) {
	route, err := h.routeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	width, errW := strconv.ParseFloat(c.DefaultQuery("width", "0"), 64)
	height, errH := strconv.ParseFloat(c.DefaultQuery("height", "0"), 64)
	if errW != nil || errH != nil {
		response.BadRequest(c, "Invalid viewport dimensions")
		return
	}
	vp := geometry.Viewport{Width: width, Height: height}
	if !vp.Ready() {
		response.BadRequest(c, "Viewport dimensions must be positive")
		return
	}
	smooth, _ := strconv.ParseBool(c.DefaultQuery("smooth", "false"))

	spec := geometry.BuildPath(route.Waypoints, vp, smooth)
	response.Success(c, gin.H{
		"routeId":  route.ID,
		"commands": spec.Commands,
		"d":        spec.String(),
	})
}

// Arrows handles GET /api/v1/routes/:id/arrows
// It returns direction-arrow markers, one per route segment.
func (h *RouteHandler) Arrows(c *gin.Context) {
	route, err := h.routeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, geometry.SegmentMarkers(route.Waypoints))
}
