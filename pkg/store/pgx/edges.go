package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyatlas/backend/internal/util"
	"github.com/studyatlas/backend/pkg/common"
	"github.com/studyatlas/backend/pkg/store"

	"github.com/jackc/pgx/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const edgeColumns = `id, class_id, from_concept_id, to_concept_id, type, label,
	weight, confidence, evidence, created_at, updated_at`

func scanEdge(row pgx.Row) (common.ConceptEdge, error) {
	var e common.ConceptEdge
	err := row.Scan(
		&e.ID,
		&e.ClassID,
		&e.FromConceptID,
		&e.ToConceptID,
		&e.Type,
		&e.Label,
		&e.Weight,
		&e.Confidence,
		&e.Evidence,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

func sanitizeEvidence(evidence []string) []string {
	out := make([]string, 0, len(evidence))
	for _, ev := range evidence {
		out = append(out, util.SanitizePostgresText(ev))
	}
	return out
}

func (s *ConceptDBStorage) GetOrCreateEdge(ctx context.Context, proto common.ConceptEdge) (common.ConceptEdge, bool, error) {
	if !common.AllowedEdgeTypes[proto.Type] {
		return common.ConceptEdge{}, false, fmt.Errorf("invalid edge type: %s", proto.Type)
	}

	id, err := gonanoid.New()
	if err != nil {
		return common.ConceptEdge{}, false, fmt.Errorf("failed to generate edge id: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO concept_edges (id, class_id, from_concept_id, to_concept_id,
			type, label, weight, confidence, evidence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (class_id, from_concept_id, to_concept_id, type) DO NOTHING
		RETURNING `+edgeColumns,
		id,
		proto.ClassID,
		proto.FromConceptID,
		proto.ToConceptID,
		proto.Type,
		util.SanitizePostgresText(proto.Label),
		proto.Weight,
		proto.Confidence,
		sanitizeEvidence(proto.Evidence),
	)

	e, err := scanEdge(row)
	if err == nil {
		return e, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return common.ConceptEdge{}, false, fmt.Errorf("failed to insert edge: %w", err)
	}

	row = s.pool.QueryRow(ctx, `
		SELECT `+edgeColumns+`
		FROM concept_edges
		WHERE class_id = $1 AND from_concept_id = $2 AND to_concept_id = $3 AND type = $4`,
		proto.ClassID,
		proto.FromConceptID,
		proto.ToConceptID,
		proto.Type,
	)
	e, err = scanEdge(row)
	if err != nil {
		return common.ConceptEdge{}, false, fmt.Errorf("failed to read edge after conflict: %w", err)
	}
	return e, false, nil
}

func (s *ConceptDBStorage) UpdateEdge(ctx context.Context, edgeID string, weight int, label string, confidence float64, evidence []string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE concept_edges
		SET weight = $2,
			label = CASE WHEN $3 <> '' THEN $3 ELSE label END,
			confidence = CASE WHEN $4 > 0 THEN $4 ELSE confidence END,
			evidence = CASE WHEN cardinality($5::text[]) > 0 THEN $5::text[] ELSE evidence END,
			updated_at = now()
		WHERE id = $1`,
		edgeID,
		weight,
		util.SanitizePostgresText(label),
		confidence,
		sanitizeEvidence(evidence),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ConceptDBStorage) ListEdges(ctx context.Context, classID string) ([]common.ConceptEdge, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+edgeColumns+`
		FROM concept_edges
		WHERE class_id = $1
		ORDER BY created_at`,
		classID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := make([]common.ConceptEdge, 0)
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

func (s *ConceptDBStorage) DeleteWeakRelatedEdges(ctx context.Context, classID string, weightBelow int) (int, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM concept_edges
		WHERE class_id = $1 AND type = $2 AND weight < $3`,
		classID,
		common.EdgeTypeRelated,
		weightBelow,
	)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
