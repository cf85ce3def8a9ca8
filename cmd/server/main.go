package main

import (
	"log"

	"github.com/emberops/floorplan-backend-go/internal/api"
	"github.com/emberops/floorplan-backend-go/internal/config"
	"github.com/emberops/floorplan-backend-go/internal/database"
	"github.com/emberops/floorplan-backend-go/internal/handler"
	"github.com/emberops/floorplan-backend-go/internal/repository"
	"github.com/emberops/floorplan-backend-go/internal/service"
	syncstore "github.com/emberops/floorplan-backend-go/internal/sync"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	floorPlanRepo := repository.NewFloorPlanRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	checkpointRepo := repository.NewCheckpointRepository(db)
	routeRepo := repository.NewRouteRepository(db)

	floorPlanService := service.NewFloorPlanService(floorPlanRepo)
	deviceService := service.NewDeviceService(deviceRepo)
	checkpointService := service.NewCheckpointService(checkpointRepo)
	routeService := service.NewRouteService(routeRepo)

	hub := syncstore.NewHub(deviceService)

	router := api.SetupRouter(cfg, api.Handlers{
		FloorPlans:  handler.NewFloorPlanHandler(floorPlanService),
		Devices:     handler.NewDeviceHandler(hub),
		Checkpoints: handler.NewCheckpointHandler(checkpointService),
		Routes:      handler.NewRouteHandler(routeService),
		Live:        handler.NewLiveHandler(hub, deviceService),
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
