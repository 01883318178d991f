package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/studyatlas/backend/internal/server/middleware"
	"github.com/studyatlas/backend/pkg/common"
	"github.com/studyatlas/backend/pkg/logger"
)

// GetConceptsHandler lists a class's live concepts with their aliases,
// ordered as the store returns them.
func GetConceptsHandler(c echo.Context) error {
	type conceptsParams struct {
		ClassID string `param:"id" validate:"required"`
	}

	type conceptEntry struct {
		common.Concept
		Aliases []string `json:"aliases"`
	}

	type conceptsResponse struct {
		Message  string         `json:"message,omitempty"`
		Concepts []conceptEntry `json:"concepts"`
	}

	params := new(conceptsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, conceptsResponse{Message: "Invalid request"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, conceptsResponse{Message: "Invalid request"})
	}

	ctx := c.Request().Context()
	st := c.(*middleware.AppContext).App.Store

	concepts, err := st.ListConcepts(ctx, params.ClassID)
	if err != nil {
		logger.Error("Failed to list concepts", "class_id", params.ClassID, "err", err)
		return c.JSON(http.StatusInternalServerError, conceptsResponse{Message: "Internal server error"})
	}
	aliases, err := st.ListAliases(ctx, params.ClassID)
	if err != nil {
		logger.Error("Failed to list aliases", "class_id", params.ClassID, "err", err)
		return c.JSON(http.StatusInternalServerError, conceptsResponse{Message: "Internal server error"})
	}

	aliasNames := make(map[string][]string, len(concepts))
	for _, a := range aliases {
		aliasNames[a.ConceptID] = append(aliasNames[a.ConceptID], a.Alias)
	}

	out := make([]conceptEntry, 0, len(concepts))
	for _, concept := range concepts {
		if concept.MergedInto != "" {
			continue
		}
		names := aliasNames[concept.ID]
		if names == nil {
			names = []string{}
		}
		out = append(out, conceptEntry{Concept: concept, Aliases: names})
	}

	return c.JSON(http.StatusOK, conceptsResponse{Concepts: out})
}
