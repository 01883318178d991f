package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/studyatlas/backend/internal/queue"
	"github.com/studyatlas/backend/internal/server/middleware"
	"github.com/studyatlas/backend/pkg/logger"
)

// UploadDocumentHandler accepts a document's text for a class and enqueues
// it for graph extraction. Processing is asynchronous; the response only
// confirms the document was accepted.
func UploadDocumentHandler(c echo.Context) error {
	type uploadDocumentBody struct {
		ClassID    string `param:"id" validate:"required"`
		DocumentID string `json:"document_id"`
		Text       string `json:"text" validate:"required"`
	}

	type uploadDocumentResponse struct {
		Message    string `json:"message"`
		DocumentID string `json:"document_id,omitempty"`
	}

	data := new(uploadDocumentBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, uploadDocumentResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, uploadDocumentResponse{Message: "Invalid request body"})
	}
	if strings.TrimSpace(data.Text) == "" {
		return c.JSON(http.StatusBadRequest, uploadDocumentResponse{Message: "Document text is empty"})
	}

	documentID := data.DocumentID
	if documentID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, uploadDocumentResponse{Message: "Internal server error"})
		}
		documentID = id
	}

	msg, err := json.Marshal(queue.DocumentMsg{
		ClassID:    data.ClassID,
		DocumentID: documentID,
		Text:       data.Text,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, uploadDocumentResponse{Message: "Internal server error"})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.DocumentQueue, msg); err != nil {
		logger.Error("Failed to publish to document_queue",
			"class_id", data.ClassID, "document_id", documentID, "err", err)
		return c.JSON(http.StatusInternalServerError, uploadDocumentResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, uploadDocumentResponse{
		Message:    "Document accepted for processing",
		DocumentID: documentID,
	})
}
