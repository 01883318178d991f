package pgx

import (
	"context"
	"fmt"

	"github.com/studyatlas/backend/internal/util"
	"github.com/studyatlas/backend/pkg/common"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

func (s *ConceptDBStorage) UpsertMention(ctx context.Context, classID string, documentID string, conceptID string) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate mention id: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO concept_doc_mentions (id, class_id, document_id, concept_id, mention_count)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (document_id, concept_id)
		DO UPDATE SET mention_count = concept_doc_mentions.mention_count + 1`,
		id,
		classID,
		documentID,
		conceptID,
	)
	return err
}

func (s *ConceptDBStorage) ListMentions(ctx context.Context, classID string) ([]common.DocMention, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, class_id, document_id, concept_id, mention_count
		FROM concept_doc_mentions
		WHERE class_id = $1`,
		classID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mentions := make([]common.DocMention, 0)
	for rows.Next() {
		var m common.DocMention
		if err := rows.Scan(&m.ID, &m.ClassID, &m.DocumentID, &m.ConceptID, &m.MentionCount); err != nil {
			return nil, err
		}
		mentions = append(mentions, m)
	}
	return mentions, rows.Err()
}

func (s *ConceptDBStorage) MoveMentions(ctx context.Context, fromConceptID string, toConceptID string) error {
	// Reattach mentions whose document does not already mention the target.
	_, err := s.pool.Exec(ctx, `
		UPDATE concept_doc_mentions m
		SET concept_id = $2
		WHERE m.concept_id = $1
		AND NOT EXISTS (
			SELECT 1 FROM concept_doc_mentions t
			WHERE t.document_id = m.document_id
			AND t.concept_id = $2
		)`,
		fromConceptID,
		toConceptID,
	)
	if err != nil {
		return err
	}

	// A document mentioning both concepts keeps one row with summed counts.
	_, err = s.pool.Exec(ctx, `
		UPDATE concept_doc_mentions t
		SET mention_count = t.mention_count + m.mention_count
		FROM concept_doc_mentions m
		WHERE t.concept_id = $2
		AND m.concept_id = $1
		AND m.document_id = t.document_id`,
		fromConceptID,
		toConceptID,
	)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		DELETE FROM concept_doc_mentions
		WHERE concept_id = $1`,
		fromConceptID,
	)
	return err
}

func (s *ConceptDBStorage) UpsertAlias(ctx context.Context, alias common.ConceptAlias) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate alias id: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO concept_aliases (id, class_id, concept_id, alias, normalized_alias, confidence)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (class_id, concept_id, normalized_alias) DO NOTHING`,
		id,
		alias.ClassID,
		alias.ConceptID,
		util.SanitizePostgresText(alias.Alias),
		util.SanitizePostgresText(alias.NormalizedAlias),
		alias.Confidence,
	)
	return err
}

func (s *ConceptDBStorage) ListAliases(ctx context.Context, classID string) ([]common.ConceptAlias, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, class_id, concept_id, alias, normalized_alias, confidence
		FROM concept_aliases
		WHERE class_id = $1`,
		classID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aliases := make([]common.ConceptAlias, 0)
	for rows.Next() {
		var a common.ConceptAlias
		if err := rows.Scan(&a.ID, &a.ClassID, &a.ConceptID, &a.Alias, &a.NormalizedAlias, &a.Confidence); err != nil {
			return nil, err
		}
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}

func (s *ConceptDBStorage) MoveAliases(ctx context.Context, fromConceptID string, toConceptID string) error {
	// Reattach aliases the target does not already carry, drop the rest.
	_, err := s.pool.Exec(ctx, `
		UPDATE concept_aliases a
		SET concept_id = $2
		WHERE a.concept_id = $1
		AND NOT EXISTS (
			SELECT 1 FROM concept_aliases b
			WHERE b.class_id = a.class_id
			AND b.concept_id = $2
			AND b.normalized_alias = a.normalized_alias
		)`,
		fromConceptID,
		toConceptID,
	)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		DELETE FROM concept_aliases
		WHERE concept_id = $1`,
		fromConceptID,
	)
	return err
}
