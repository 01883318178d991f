package store

import (
	"context"
	"errors"

	"github.com/studyatlas/backend/pkg/common"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("store: not found")

// ConceptStore defines the persistence boundary of the concept graph engine.
// Every method is scoped to one class; the engine never crosses classes.
//
// All get-or-create calls must be safely retryable: calling them twice with
// the same key yields the same row. Implementations are expected to resolve
// concurrent creates for the same key to a single row (lookup-or-create
// discipline at the storage layer).
type ConceptStore interface {
	// GetOrCreateConcept finds the concept with proto's class and normalized
	// name, or inserts proto. The boolean reports whether a row was created.
	GetOrCreateConcept(ctx context.Context, proto common.Concept) (common.Concept, bool, error)
	GetConcept(ctx context.Context, conceptID string) (common.Concept, error)
	UpdateConceptFrequency(ctx context.Context, conceptID string, documentFrequency int) error
	UpdateConceptScores(ctx context.Context, conceptID string, importance float64, difficulty float64) error
	// MarkConceptMerged tombstones a concept by pointing merged_into at keepID.
	MarkConceptMerged(ctx context.Context, conceptID string, keepID string) error
	ListConcepts(ctx context.Context, classID string) ([]common.Concept, error)

	// GetOrCreateEdge finds the edge with proto's (class, from, to, type), or
	// inserts proto. The boolean reports whether a row was created.
	GetOrCreateEdge(ctx context.Context, proto common.ConceptEdge) (common.ConceptEdge, bool, error)
	UpdateEdge(ctx context.Context, edgeID string, weight int, label string, confidence float64, evidence []string) error
	ListEdges(ctx context.Context, classID string) ([]common.ConceptEdge, error)
	// DeleteWeakRelatedEdges removes related edges below the weight threshold
	// and returns how many were deleted. Other edge types are never touched.
	DeleteWeakRelatedEdges(ctx context.Context, classID string, weightBelow int) (int, error)

	// UpsertMention links a document to a concept, incrementing mention_count
	// when the pair already exists.
	UpsertMention(ctx context.Context, classID string, documentID string, conceptID string) error
	ListMentions(ctx context.Context, classID string) ([]common.DocMention, error)
	MoveMentions(ctx context.Context, fromConceptID string, toConceptID string) error

	UpsertAlias(ctx context.Context, alias common.ConceptAlias) error
	ListAliases(ctx context.Context, classID string) ([]common.ConceptAlias, error)
	MoveAliases(ctx context.Context, fromConceptID string, toConceptID string) error
}
