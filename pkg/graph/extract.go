package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/studyatlas/backend/internal/util"
	"github.com/studyatlas/backend/pkg/ai"
	"github.com/studyatlas/backend/pkg/common"
	"github.com/studyatlas/backend/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// routerResult is the routing oracle's classification of a document.
type routerResult struct {
	ExtractionMode string  `json:"extraction_mode" jsonschema_description:"One of stem, humanities, social_science, writing, mixed"`
	DocType        string  `json:"doc_type" jsonschema_description:"syllabus or notes"`
	Confidence     float64 `json:"confidence" jsonschema_description:"0..1"`
	Reason         string  `json:"reason" jsonschema_description:"Short justification"`
}

type keepEntry struct {
	Name            string `json:"name" jsonschema_description:"Candidate name to keep"`
	WhyKeep         string `json:"why_keep" jsonschema_description:"Short justification"`
	FinalImportance int    `json:"final_importance" jsonschema_description:"1..5"`
}

type refineResponse struct {
	Keep  []keepEntry    `json:"keep" jsonschema_description:"Candidates selected as final concepts"`
	Edges []ProposedEdge `json:"edges" jsonschema_description:"Typed edges between kept concepts"`
}

type validateResponse struct {
	Edges []ProposedEdge `json:"edges" jsonschema_description:"Edges surviving validation"`
}

// routerSampleBytes bounds how much of the document the router sees. The
// opening of a document is enough to classify it.
const routerSampleBytes = 4000

func (g *GraphClient) oracleJSON(
	ctx context.Context,
	client ai.ConceptAIClient,
	name string,
	description string,
	systemPrompt string,
	userPrompt string,
	out any,
	opts ...ai.GenerateOption,
) error {
	callCtx, cancel := context.WithTimeout(ctx, g.oracleTimeout)
	defer cancel()

	allOpts := append([]ai.GenerateOption{ai.WithSystemPrompt(systemPrompt)}, opts...)
	return ai.CompleteJSON(callCtx, client, name, description, userPrompt, out, allOpts...)
}

// routeDocument classifies a document before extraction. Routing is a hint,
// not a gate: on failure the document proceeds as mixed notes.
func (g *GraphClient) routeDocument(
	ctx context.Context,
	client ai.ConceptAIClient,
	text string,
) routerResult {
	sample := text
	if len(sample) > routerSampleBytes {
		sample = sample[:routerSampleBytes]
	}

	var res routerResult
	err := g.oracleJSON(
		ctx, client,
		"route_extraction_mode",
		"Classify a course document by subject area and document type.",
		ai.RouterPrompt, sample, &res,
		ai.WithTemperature(0.0), ai.WithMaxTokens(300),
	)
	if err != nil {
		logger.Warn("Document routing failed, continuing as mixed notes", "error", err)
		return routerResult{ExtractionMode: "mixed", DocType: "notes"}
	}
	if res.ExtractionMode == "" {
		res.ExtractionMode = "mixed"
	}
	if res.DocType == "" {
		res.DocType = "notes"
	}
	return res
}

// proposeCandidates runs the candidate pass over every window in parallel
// and returns the concatenated proposals in window order. A window whose
// oracle calls exhaust their retries contributes nothing rather than
// failing the document.
func (g *GraphClient) proposeCandidates(
	ctx context.Context,
	client ai.ConceptAIClient,
	windows []processWindow,
	mode string,
) ([]Candidate, error) {
	prompt := ai.CandidatePrompt(mode)
	perWindow := make([][]Candidate, len(windows))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelAiRequests)
	var mu sync.Mutex

	for i, w := range windows {
		eg.Go(func() error {
			res, err := util.RetryWithContext(egCtx, g.maxRetries, func(ctx context.Context) (candidateResponse, error) {
				var r candidateResponse
				err := g.oracleJSON(
					ctx, client,
					"propose_candidates",
					"Propose candidate learning units found in a course document.",
					prompt, w.text, &r,
					ai.WithTemperature(0.2), ai.WithMaxTokens(3500),
				)
				return r, err
			})
			if err != nil {
				if egCtx.Err() != nil {
					return egCtx.Err()
				}
				logger.Warn("Candidate pass failed for window", "window", w.id, "error", err)
				return nil
			}
			mu.Lock()
			perWindow[i] = res.Candidates
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []Candidate
	for _, cs := range perWindow {
		out = append(out, cs...)
	}
	return out, nil
}

// refineInputLimit caps how many candidates the refine pass sees.
const refineInputLimit = 24

type refineCandidate struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
	UnitType   string  `json:"unit_type"`
	Simple     string  `json:"simple"`
}

// refineGraph asks the oracle to select the final concept set and propose
// typed edges between them. On failure it returns an empty response; the
// selector then falls back to importance sorting.
func (g *GraphClient) refineGraph(
	ctx context.Context,
	client ai.ConceptAIClient,
	cands []Candidate,
) refineResponse {
	in := cands
	if len(in) > refineInputLimit {
		in = in[:refineInputLimit]
	}
	view := make([]refineCandidate, 0, len(in))
	for _, c := range in {
		view = append(view, refineCandidate{
			Name:       c.Name,
			Importance: c.Importance,
			UnitType:   c.UnitType,
			Simple:     c.Simple,
		})
	}
	payload, err := json.Marshal(map[string]any{"candidates": view})
	if err != nil {
		return refineResponse{}
	}

	var res refineResponse
	err = g.oracleJSON(
		ctx, client,
		"refine_concepts_and_edges",
		"Select final study concepts and propose typed edges between them.",
		ai.RefinePrompt, string(payload), &res,
		ai.WithTemperature(0.2), ai.WithMaxTokens(2000),
	)
	if err != nil {
		logger.Warn("Refine pass failed, falling back to importance sort", "error", err)
		return refineResponse{}
	}
	return res
}

// validateEdges runs the second oracle round over already-sanitized edges.
// The caller decides whether the result is trustworthy enough to replace
// the input.
func (g *GraphClient) validateEdges(
	ctx context.Context,
	client ai.ConceptAIClient,
	keptNames []string,
	edges []common.GraphEdge,
) (validateResponse, error) {
	payload, err := json.Marshal(map[string]any{
		"kept":  keptNames,
		"edges": edges,
	})
	if err != nil {
		return validateResponse{}, fmt.Errorf("failed to encode validation payload: %w", err)
	}

	var res validateResponse
	err = g.oracleJSON(
		ctx, client,
		"validate_edges",
		"Validate, downgrade or fix edges in a course knowledge graph.",
		ai.ValidatePrompt, string(payload), &res,
		ai.WithTemperature(0.1), ai.WithMaxTokens(1600),
	)
	if err != nil {
		return validateResponse{}, err
	}
	return res, nil
}
