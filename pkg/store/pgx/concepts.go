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

const conceptColumns = `id, class_id, canonical_name, normalized_name, importance_score,
	difficulty_level, document_frequency, COALESCE(merged_into, ''), created_at, updated_at`

func scanConcept(row pgx.Row) (common.Concept, error) {
	var c common.Concept
	err := row.Scan(
		&c.ID,
		&c.ClassID,
		&c.CanonicalName,
		&c.NormalizedName,
		&c.ImportanceScore,
		&c.DifficultyLevel,
		&c.DocumentFrequency,
		&c.MergedInto,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (s *ConceptDBStorage) GetOrCreateConcept(ctx context.Context, proto common.Concept) (common.Concept, bool, error) {
	id, err := gonanoid.New()
	if err != nil {
		return common.Concept{}, false, fmt.Errorf("failed to generate concept id: %w", err)
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO concepts (id, class_id, canonical_name, normalized_name,
			importance_score, difficulty_level, document_frequency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (class_id, normalized_name) DO NOTHING
		RETURNING `+conceptColumns,
		id,
		proto.ClassID,
		util.SanitizePostgresText(proto.CanonicalName),
		util.SanitizePostgresText(proto.NormalizedName),
		proto.ImportanceScore,
		proto.DifficultyLevel,
		proto.DocumentFrequency,
	)

	c, err := scanConcept(row)
	if err == nil {
		return c, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return common.Concept{}, false, fmt.Errorf("failed to insert concept: %w", err)
	}

	// Conflict: another upload created the row first, read it back.
	row = s.pool.QueryRow(ctx, `
		SELECT `+conceptColumns+`
		FROM concepts
		WHERE class_id = $1 AND normalized_name = $2`,
		proto.ClassID,
		util.SanitizePostgresText(proto.NormalizedName),
	)
	c, err = scanConcept(row)
	if err != nil {
		return common.Concept{}, false, fmt.Errorf("failed to read concept after conflict: %w", err)
	}
	return c, false, nil
}

func (s *ConceptDBStorage) GetConcept(ctx context.Context, conceptID string) (common.Concept, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+conceptColumns+`
		FROM concepts
		WHERE id = $1`,
		conceptID,
	)
	c, err := scanConcept(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.Concept{}, store.ErrNotFound
	}
	return c, err
}

func (s *ConceptDBStorage) UpdateConceptFrequency(ctx context.Context, conceptID string, documentFrequency int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE concepts
		SET document_frequency = $2, updated_at = now()
		WHERE id = $1`,
		conceptID,
		documentFrequency,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ConceptDBStorage) UpdateConceptScores(ctx context.Context, conceptID string, importance float64, difficulty float64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE concepts
		SET importance_score = $2, difficulty_level = $3, updated_at = now()
		WHERE id = $1`,
		conceptID,
		importance,
		difficulty,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ConceptDBStorage) MarkConceptMerged(ctx context.Context, conceptID string, keepID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE concepts
		SET merged_into = $2, updated_at = now()
		WHERE id = $1`,
		conceptID,
		keepID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *ConceptDBStorage) ListConcepts(ctx context.Context, classID string) ([]common.Concept, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+conceptColumns+`
		FROM concepts
		WHERE class_id = $1
		ORDER BY created_at`,
		classID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	concepts := make([]common.Concept, 0)
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, err
		}
		concepts = append(concepts, c)
	}
	return concepts, rows.Err()
}
