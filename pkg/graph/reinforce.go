package graph

import (
	"context"
	"fmt"

	"github.com/studyatlas/backend/pkg/common"
	"github.com/studyatlas/backend/pkg/logger"
	"github.com/studyatlas/backend/pkg/store"
)

// GraphTuning tunes the self-improvement pass that runs after each upload.
type GraphTuning struct {
	// Related edges below this weight are pruned.
	PruneEdgeWeightBelow int
	// Cap on co-occurrence pairs reinforced per upload.
	MaxRelatedEdgesPerUpload int
	// Scaling for the degree contribution in importance scoring.
	DegreeScale float64
}

// DefaultTuning returns the tuning used when a GraphClient is created
// without an explicit one.
func DefaultTuning() GraphTuning {
	return GraphTuning{
		PruneEdgeWeightBelow:     2,
		MaxRelatedEdgesPerUpload: 25,
		DegreeScale:              25,
	}
}

// ReinforceAfterUpload makes the class graph self-improving after a
// document lands: co-occurring concepts gain related edges in both
// directions, weak related edges are pruned, and every concept's importance
// is rescored from document frequency, mentions and weighted degree.
func (g *GraphClient) ReinforceAfterUpload(
	ctx context.Context,
	st store.ConceptStore,
	classID string,
	conceptIDs []string,
) error {
	if classID == "" || len(conceptIDs) == 0 {
		return nil
	}

	g.reinforceRelatedEdges(ctx, st, classID, conceptIDs)

	pruned, err := st.DeleteWeakRelatedEdges(ctx, classID, g.tuning.PruneEdgeWeightBelow)
	if err != nil {
		logger.Warn("Failed to prune weak edges", "class", classID, "error", err)
	} else if pruned > 0 {
		logger.Debug("Pruned weak related edges", "class", classID, "count", pruned)
	}

	if err := g.RescoreClass(ctx, st, classID); err != nil {
		return fmt.Errorf("failed to rescore class %s: %w", classID, err)
	}
	return nil
}

// reinforceRelatedEdges bumps both directions of a related edge for every
// unordered pair of concepts evidenced by the same document, capped so a
// large document cannot flood the graph.
func (g *GraphClient) reinforceRelatedEdges(
	ctx context.Context,
	st store.ConceptStore,
	classID string,
	conceptIDs []string,
) {
	seen := make(map[string]bool, len(conceptIDs))
	ids := make([]string, 0, len(conceptIDs))
	for _, id := range conceptIDs {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) < 2 {
		return
	}

	pairs := 0
	for i := 0; i < len(ids) && pairs < g.tuning.MaxRelatedEdgesPerUpload; i++ {
		for j := i + 1; j < len(ids) && pairs < g.tuning.MaxRelatedEdgesPerUpload; j++ {
			pairs++
			if err := reinforceEdge(ctx, st, classID, ids[i], ids[j], common.EdgeTypeRelated, "", 0, nil); err != nil {
				logger.Warn("Failed to reinforce related edge",
					"class", classID, "from", ids[i], "to", ids[j], "error", err)
			}
			if err := reinforceEdge(ctx, st, classID, ids[j], ids[i], common.EdgeTypeRelated, "", 0, nil); err != nil {
				logger.Warn("Failed to reinforce related edge",
					"class", classID, "from", ids[j], "to", ids[i], "error", err)
			}
		}
	}
}

// RescoreClass recomputes every live concept's importance score using the
// client's scoring strategy. Tombstoned concepts are skipped and difficulty
// levels are left untouched.
func (g *GraphClient) RescoreClass(
	ctx context.Context,
	st store.ConceptStore,
	classID string,
) error {
	concepts, err := st.ListConcepts(ctx, classID)
	if err != nil {
		return err
	}
	if len(concepts) == 0 {
		return nil
	}
	edges, err := st.ListEdges(ctx, classID)
	if err != nil {
		return err
	}
	mentions, err := st.ListMentions(ctx, classID)
	if err != nil {
		return err
	}

	degree := make(map[string]float64, len(concepts))
	for _, e := range edges {
		degree[e.FromConceptID] += float64(e.Weight)
		degree[e.ToConceptID] += float64(e.Weight)
	}

	mentionSum := make(map[string]int, len(concepts))
	for _, m := range mentions {
		mentionSum[m.ConceptID] += m.MentionCount
	}

	maxDF, maxMentions := 1, 1
	for _, c := range concepts {
		if c.MergedInto != "" {
			continue
		}
		if c.DocumentFrequency > maxDF {
			maxDF = c.DocumentFrequency
		}
		if mentionSum[c.ID] > maxMentions {
			maxMentions = mentionSum[c.ID]
		}
	}

	for _, c := range concepts {
		if c.MergedInto != "" {
			continue
		}
		score := g.scorer.Score(ScoreInput{
			DocumentFrequency:    c.DocumentFrequency,
			MaxDocumentFrequency: maxDF,
			MentionCount:         mentionSum[c.ID],
			MaxMentionCount:      maxMentions,
			WeightedDegree:       degree[c.ID],
			DegreeScale:          g.tuning.DegreeScale,
		})
		if err := st.UpdateConceptScores(ctx, c.ID, score, c.DifficultyLevel); err != nil {
			logger.Warn("Failed to update concept score",
				"class", classID, "concept", c.ID, "error", err)
		}
	}
	return nil
}
