package graph

import "time"

// GraphClient is the main client for building and maintaining per-class
// concept graphs. It manages token encoding, oracle request parallelism,
// and the selection limits applied to oracle output.
//
// A GraphClient should be created using NewGraphClient.
type GraphClient struct {
	tokenEncoder       string
	chunkTokens        int
	maxNodes           int
	minImportance      int
	maxEdges           int
	minValidatedEdges  int
	parallelAiRequests int
	maxRetries         int
	oracleTimeout      time.Duration
	requireEvidence    bool
	scorer             Scorer
	tuning             GraphTuning
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient. Zero values fall back to defaults.
//
// TokenEncoder specifies the tiktoken encoding used for windowing.
// ChunkTokens caps the token size of one extraction window.
// MaxNodes and MinImportance bound the kept concept set per document.
// MaxEdges caps sanitized edges; MinValidatedEdges is the smallest
// validation-pass result that replaces the pre-validation edge set.
// ParallelAiRequests controls how many oracle requests run concurrently.
// RequireEvidence drops edges proposed without evidence instead of letting
// them bypass the grounding check.
// Scorer selects the importance scoring strategy for rescoring a class.
type NewGraphClientParams struct {
	TokenEncoder       string
	ChunkTokens        int
	MaxNodes           int
	MinImportance      int
	MaxEdges           int
	MinValidatedEdges  int
	ParallelAiRequests int
	MaxRetries         int
	OracleTimeout      time.Duration
	RequireEvidence    bool
	Scorer             Scorer
	Tuning             *GraphTuning
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters.
//
// Example:
//
//	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
//		TokenEncoder:       "o200k_base",
//		ParallelAiRequests: 4,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
func NewGraphClient(params NewGraphClientParams) (*GraphClient, error) {
	g := &GraphClient{
		tokenEncoder:       params.TokenEncoder,
		chunkTokens:        params.ChunkTokens,
		maxNodes:           params.MaxNodes,
		minImportance:      params.MinImportance,
		maxEdges:           params.MaxEdges,
		minValidatedEdges:  params.MinValidatedEdges,
		parallelAiRequests: params.ParallelAiRequests,
		maxRetries:         params.MaxRetries,
		oracleTimeout:      params.OracleTimeout,
		requireEvidence:    params.RequireEvidence,
		scorer:             params.Scorer,
	}
	if g.tokenEncoder == "" {
		g.tokenEncoder = "o200k_base"
	}
	if g.chunkTokens <= 0 {
		g.chunkTokens = 1600
	}
	if g.maxNodes <= 0 {
		g.maxNodes = 12
	}
	if g.minImportance <= 0 {
		g.minImportance = 3
	}
	if g.maxEdges <= 0 {
		g.maxEdges = 18
	}
	if g.minValidatedEdges <= 0 {
		g.minValidatedEdges = 4
	}
	if g.parallelAiRequests <= 0 {
		g.parallelAiRequests = 4
	}
	if g.maxRetries <= 0 {
		g.maxRetries = 3
	}
	if g.oracleTimeout <= 0 {
		g.oracleTimeout = 120 * time.Second
	}
	if g.scorer == nil {
		g.scorer = NewFrequencyDegreeScorer()
	}
	if params.Tuning != nil {
		g.tuning = *params.Tuning
	} else {
		g.tuning = DefaultTuning()
	}
	return g, nil
}
