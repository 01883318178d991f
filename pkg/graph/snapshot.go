package graph

import (
	"context"
	"strings"

	"github.com/studyatlas/backend/pkg/store"
)

// SnapshotNode is one visible concept in a class graph snapshot.
type SnapshotNode struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Importance string `json:"importance"`
	Difficulty string `json:"difficulty"`
}

// SnapshotEdge is one edge in a class graph snapshot. Reason duplicates the
// label (falling back to the coarse type) for clients that predate the
// label field.
type SnapshotEdge struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Type       string   `json:"type"`
	Label      string   `json:"label"`
	Reason     string   `json:"reason"`
	Weight     int      `json:"weight"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
}

// GraphSnapshot is the renderable state of one class graph.
type GraphSnapshot struct {
	Nodes []SnapshotNode `json:"nodes"`
	Edges []SnapshotEdge `json:"edges"`
}

// BuildSnapshot assembles the current class graph for rendering. Tombstoned
// concepts are hidden, and with them every edge touching one.
func BuildSnapshot(ctx context.Context, st store.ConceptStore, classID string) (*GraphSnapshot, error) {
	concepts, err := st.ListConcepts(ctx, classID)
	if err != nil {
		return nil, err
	}
	edges, err := st.ListEdges(ctx, classID)
	if err != nil {
		return nil, err
	}

	visible := make(map[string]bool, len(concepts))
	nodes := make([]SnapshotNode, 0, len(concepts))
	for _, c := range concepts {
		if c.MergedInto != "" {
			continue
		}
		visible[c.ID] = true
		nodes = append(nodes, SnapshotNode{
			ID:         c.ID,
			Label:      c.CanonicalName,
			Importance: ImportanceBucket(c.ImportanceScore),
			Difficulty: DifficultyBucket(c.DifficultyLevel),
		})
	}

	out := make([]SnapshotEdge, 0, len(edges))
	for _, e := range edges {
		if !visible[e.FromConceptID] || !visible[e.ToConceptID] {
			continue
		}
		typ := strings.TrimSpace(e.Type)
		if typ == "" {
			typ = "related"
		}
		label := strings.TrimSpace(e.Label)
		reason := label
		if reason == "" {
			reason = typ
		}
		weight := e.Weight
		if weight < 1 {
			weight = 1
		}
		evidence := e.Evidence
		if evidence == nil {
			evidence = []string{}
		}
		out = append(out, SnapshotEdge{
			From:       e.FromConceptID,
			To:         e.ToConceptID,
			Type:       typ,
			Label:      label,
			Reason:     reason,
			Weight:     weight,
			Confidence: e.Confidence,
			Evidence:   evidence,
		})
	}

	return &GraphSnapshot{Nodes: nodes, Edges: out}, nil
}
