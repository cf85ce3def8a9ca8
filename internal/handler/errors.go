package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/emberops/floorplan-backend-go/internal/repository"
	"github.com/emberops/floorplan-backend-go/internal/service"
	syncstore "github.com/emberops/floorplan-backend-go/internal/sync"
	"github.com/emberops/floorplan-backend-go/pkg/response"
)

// writeError maps the service error taxonomy onto HTTP statuses:
// validation refusals are 422, missing rows 404, duplicate ids 409,
// everything else a retryable 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, syncstore.ErrUnknownDevice):
		response.NotFound(c, err.Error())
	case errors.Is(err, syncstore.ErrDeviceExists):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}
