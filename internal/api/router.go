package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emberops/floorplan-backend-go/internal/config"
	"github.com/emberops/floorplan-backend-go/internal/handler"
	"github.com/emberops/floorplan-backend-go/internal/middleware"
)

// Handlers bundles the HTTP handlers the router wires up.
type Handlers struct {
	FloorPlans  *handler.FloorPlanHandler
	Devices     *handler.DeviceHandler
	Checkpoints *handler.CheckpointHandler
	Routes      *handler.RouteHandler
	Live        *handler.LiveHandler
}

// SetupRouter builds the gin engine with middleware and all API routes.
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Floorplan backend is running",
		})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateWindow))
	{
		floorplans := api.Group("/floorplans")
		{
			floorplans.POST("", h.FloorPlans.Create)
			floorplans.GET("", h.FloorPlans.List)
			floorplans.GET("/:id", h.FloorPlans.Get)

			floorplans.GET("/:id/devices", h.Devices.ListPositions)
			floorplans.POST("/:id/devices", h.Devices.Add)
			floorplans.DELETE("/:id/devices/:deviceId", h.Devices.Remove)

			floorplans.GET("/:id/checkpoints", h.Checkpoints.List)
			floorplans.GET("/:id/routes", h.Routes.List)
		}

		devices := api.Group("/devices")
		{
			devices.PUT("/:id/position", h.Devices.UpdatePosition)
		}

		checkpoints := api.Group("/checkpoints")
		{
			checkpoints.POST("", h.Checkpoints.Create)
			checkpoints.GET("/:id", h.Checkpoints.Get)
			checkpoints.PATCH("/:id", h.Checkpoints.Update)
			checkpoints.DELETE("/:id", h.Checkpoints.Delete)
		}

		routes := api.Group("/routes")
		{
			routes.POST("", h.Routes.Create)
			routes.GET("/:id", h.Routes.Get)
			routes.PUT("/:id/waypoints", h.Routes.UpdateWaypoints)
			routes.DELETE("/:id", h.Routes.Delete)
			routes.GET("/:id/path", h.Routes.Path)
			routes.GET("/:id/arrows", h.Routes.Arrows)
		}

		live := api.Group("/live")
		{
			live.POST("/position", h.Live.Position)
			live.POST("/status", h.Live.Status)
		}
	}

	return r
}
