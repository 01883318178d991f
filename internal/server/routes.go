package server

import (
	"github.com/labstack/echo/v4"

	"github.com/studyatlas/backend/internal/server/routes"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Class graph routes
	apiRoutes.GET("/classes/:id/concept-map", routes.GetConceptMapHandler)
	apiRoutes.GET("/classes/:id/concepts", routes.GetConceptsHandler)
	apiRoutes.POST("/classes/:id/concepts/merge", routes.MergeConceptsHandler)
	apiRoutes.POST("/classes/:id/documents", routes.UploadDocumentHandler)
}
