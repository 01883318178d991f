package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyatlas/backend/internal/server/middleware"
	"github.com/studyatlas/backend/pkg/graph"
	"github.com/studyatlas/backend/pkg/logger"
	"github.com/studyatlas/backend/pkg/store"
)

// MergeConceptsHandler folds one concept into another within a class.
func MergeConceptsHandler(c echo.Context) error {
	type mergeConceptsBody struct {
		ClassID        string `param:"id" validate:"required"`
		KeepConceptID  string `json:"keep_concept_id" validate:"required"`
		MergeConceptID string `json:"merge_concept_id" validate:"required"`
		Reason         string `json:"reason"`
	}

	type mergeConceptsResponse struct {
		Message string `json:"message"`
		OK      bool   `json:"ok"`
	}

	data := new(mergeConceptsBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, mergeConceptsResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, mergeConceptsResponse{Message: "Invalid request body"})
	}

	ctx := c.Request().Context()
	st := c.(*middleware.AppContext).App.Store

	err := graph.MergeConcepts(ctx, st, data.ClassID, data.KeepConceptID, data.MergeConceptID)
	switch {
	case errors.Is(err, graph.ErrSelfMerge):
		return c.JSON(http.StatusBadRequest, mergeConceptsResponse{Message: "Can't merge concept into itself"})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, mergeConceptsResponse{Message: "Concept not found"})
	case err != nil:
		logger.Error("Failed to merge concepts",
			"class_id", data.ClassID,
			"keep", data.KeepConceptID,
			"merge", data.MergeConceptID,
			"err", err)
		return c.JSON(http.StatusInternalServerError, mergeConceptsResponse{Message: "Internal server error"})
	}

	if data.Reason != "" {
		logger.Info("Concepts merged",
			"class_id", data.ClassID,
			"keep", data.KeepConceptID,
			"merge", data.MergeConceptID,
			"reason", data.Reason)
	}

	return c.JSON(http.StatusOK, mergeConceptsResponse{Message: "Concepts merged", OK: true})
}
