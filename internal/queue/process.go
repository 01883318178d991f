package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyatlas/backend/pkg/ai"
	"github.com/studyatlas/backend/pkg/graph"
	"github.com/studyatlas/backend/pkg/leaselock"
	"github.com/studyatlas/backend/pkg/logger"
	"github.com/studyatlas/backend/pkg/store"
)

// DocumentMsg is one uploaded document waiting for graph extraction.
type DocumentMsg struct {
	ClassID    string `json:"class_id"`
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
}

// ProcessDocumentMessage extracts a knowledge graph from one document and
// applies it to the class graph under the class lease, so concurrent
// uploads for the same class serialize instead of racing.
func ProcessDocumentMessage(
	ctx context.Context,
	graphClient *graph.GraphClient,
	aiClient ai.ConceptAIClient,
	st store.ConceptStore,
	pool *pgxpool.Pool,
	msg string,
) error {
	data := new(DocumentMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("failed to decode document message: %w", err)
	}
	if data.ClassID == "" || data.DocumentID == "" {
		return fmt.Errorf("document message missing class_id or document_id")
	}

	logger.Info("Processing document",
		"class_id", data.ClassID, "document_id", data.DocumentID)

	kg, err := graphClient.ExtractKnowledgeGraph(ctx, aiClient, data.Text)
	if err != nil {
		return fmt.Errorf("extraction failed for document %s: %w", data.DocumentID, err)
	}
	logger.Info("Extraction complete",
		"class_id", data.ClassID,
		"document_id", data.DocumentID,
		"mode", kg.Meta.ExtractionMode,
		"concepts", kg.Meta.ConceptsKept,
		"edges", kg.Meta.EdgesKept,
		"validated", kg.Meta.ValidationAccepted)

	locks := leaselock.New(pool)
	opts := leaselock.Options{
		TTL:          5 * time.Minute,
		Wait:         true,
		WaitInterval: 500 * time.Millisecond,
		WaitJitter:   250 * time.Millisecond,
	}
	err = locks.WithLease(ctx, leaselock.ClassKey(data.ClassID), opts, func(ctx context.Context) error {
		return graphClient.UpdateClassGraph(ctx, st, data.ClassID, data.DocumentID, kg)
	})
	if err != nil {
		return fmt.Errorf("failed to update class graph %s: %w", data.ClassID, err)
	}

	logger.Info("Class graph updated",
		"class_id", data.ClassID, "document_id", data.DocumentID)
	return nil
}
