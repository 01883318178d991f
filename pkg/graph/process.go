package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyatlas/backend/pkg/ai"
	"github.com/studyatlas/backend/pkg/common"
	"github.com/studyatlas/backend/pkg/logger"
)

// ExtractKnowledgeGraph runs the full extraction pipeline over one document:
// route, propose candidates per window, refine, sanitize edges, validate,
// and break cycles. The result is self-contained and ready for
// UpdateClassGraph.
//
// Oracle failures degrade rather than abort: a failed router falls back to
// mixed notes, a failed refine pass falls back to importance sorting, and a
// failed or thin validation pass keeps the pre-validation edges. The only
// hard errors are an empty document and context cancellation.
func (g *GraphClient) ExtractKnowledgeGraph(
	ctx context.Context,
	aiClient ai.ConceptAIClient,
	text string,
) (*common.KnowledgeGraph, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("cannot extract from empty document")
	}

	route := g.routeDocument(ctx, aiClient, text)
	textNorm := NormalizeTextForEvidence(text)

	windows, err := splitIntoWindows(text, g.tokenEncoder, g.chunkTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to window document text: %w", err)
	}

	raw, err := g.proposeCandidates(ctx, aiClient, windows, route.ExtractionMode)
	if err != nil {
		return nil, fmt.Errorf("candidate extraction failed: %w", err)
	}
	cands := DedupeCandidates(raw)
	logger.Debug("Candidate pass complete",
		"windows", len(windows), "proposed", len(raw), "deduped", len(cands))

	refine := g.refineGraph(ctx, aiClient, cands)
	keepNames := make([]string, 0, len(refine.Keep))
	for _, k := range refine.Keep {
		keepNames = append(keepNames, k.Name)
	}

	selected := PickTopCandidates(cands, keepNames, g.maxNodes, g.minImportance)

	keptKeyToName := make(map[string]string, len(selected))
	keptNames := make([]string, 0, len(selected))
	for _, c := range selected {
		name := strings.TrimSpace(c.Name)
		keptKeyToName[NormalizeName(name)] = name
		keptNames = append(keptNames, name)
	}

	rules := EdgeRules{MaxEdges: g.maxEdges, RequireEvidence: g.requireEvidence}
	edges := BuildEdgeList(refine.Edges, keptKeyToName, textNorm, rules)
	edges = BreakCycles(edges)

	accepted := false
	if len(edges) > 0 {
		validated, err := g.validateEdges(ctx, aiClient, keptNames, edges)
		if err != nil {
			logger.Warn("Edge validation failed, keeping unvalidated edges", "error", err)
		} else {
			revalidated := BuildEdgeList(validated.Edges, keptKeyToName, textNorm, rules)
			revalidated = BreakCycles(revalidated)
			if len(revalidated) >= g.minValidatedEdges {
				edges = revalidated
				accepted = true
			} else {
				logger.Warn("Validation pass returned too few edges, keeping unvalidated edges",
					"validated", len(revalidated), "required", g.minValidatedEdges)
			}
		}
	}

	concepts := make([]common.GraphConcept, 0, len(selected))
	for _, c := range selected {
		score := candidateImportance(c)
		difficulty := c.Difficulty
		if difficulty == "" {
			difficulty = "medium"
		}
		concepts = append(concepts, common.GraphConcept{
			Name:            strings.TrimSpace(c.Name),
			Importance:      importanceBucket1to5(score),
			Difficulty:      difficulty,
			Simple:          c.Simple,
			Detailed:        c.Detailed,
			Technical:       c.Technical,
			Example:         c.Example,
			CommonMistake:   c.CommonMistake,
			UnitType:        c.UnitType,
			ImportanceScore: score,
			Evidence:        c.Evidence,
		})
	}

	return &common.KnowledgeGraph{
		Concepts: concepts,
		Edges:    edges,
		Meta: common.GraphMeta{
			ExtractionMode:     route.ExtractionMode,
			DocType:            route.DocType,
			RouterConfidence:   route.Confidence,
			CandidatesProposed: len(cands),
			ConceptsKept:       len(concepts),
			EdgesKept:          len(edges),
			ValidationAccepted: accepted,
		},
	}, nil
}
