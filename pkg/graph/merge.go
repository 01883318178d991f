package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyatlas/backend/pkg/store"
)

// ErrSelfMerge is returned when a merge names the same concept twice.
var ErrSelfMerge = errors.New("cannot merge a concept into itself")

// MergeConcepts folds one concept into another: the merged concept is
// tombstoned via merged_into, and its aliases and mentions move to the kept
// concept so future documents resolve to it. Edges are left in place; graph
// output hides tombstoned endpoints, and redirecting edges would collide
// with existing (from, to, type) rows.
func MergeConcepts(
	ctx context.Context,
	st store.ConceptStore,
	classID string,
	keepID string,
	mergeID string,
) error {
	if keepID == mergeID {
		return ErrSelfMerge
	}

	keep, err := st.GetConcept(ctx, keepID)
	if err != nil {
		return fmt.Errorf("kept concept %s: %w", keepID, err)
	}
	merge, err := st.GetConcept(ctx, mergeID)
	if err != nil {
		return fmt.Errorf("merged concept %s: %w", mergeID, err)
	}
	if keep.ClassID != classID || merge.ClassID != classID {
		return store.ErrNotFound
	}
	if keep.MergedInto != "" {
		return fmt.Errorf("kept concept %s is already merged into %s", keepID, keep.MergedInto)
	}

	if err := st.MarkConceptMerged(ctx, mergeID, keepID); err != nil {
		return fmt.Errorf("failed to tombstone concept %s: %w", mergeID, err)
	}
	if err := st.MoveAliases(ctx, mergeID, keepID); err != nil {
		return fmt.Errorf("failed to move aliases from %s: %w", mergeID, err)
	}
	if err := st.MoveMentions(ctx, mergeID, keepID); err != nil {
		return fmt.Errorf("failed to move mentions from %s: %w", mergeID, err)
	}
	return nil
}
