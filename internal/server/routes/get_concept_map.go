package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyatlas/backend/internal/server/middleware"
	"github.com/studyatlas/backend/pkg/graph"
	"github.com/studyatlas/backend/pkg/logger"
)

// GetConceptMapHandler returns the renderable concept graph for one class.
func GetConceptMapHandler(c echo.Context) error {
	type conceptMapParams struct {
		ClassID string `param:"id" validate:"required"`
	}

	params := new(conceptMapParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request"})
	}

	ctx := c.Request().Context()
	st := c.(*middleware.AppContext).App.Store

	snapshot, err := graph.BuildSnapshot(ctx, st, params.ClassID)
	if err != nil {
		logger.Error("Failed to build concept map", "class_id", params.ClassID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, snapshot)
}
