package graph

import (
	"context"
	"testing"

	"github.com/studyatlas/backend/pkg/common"
	"github.com/studyatlas/backend/pkg/store/memory"
)

func mustCreateConcept(t *testing.T, ctx context.Context, st *memory.ConceptMemoryStore, proto common.Concept) common.Concept {
	t.Helper()
	c, _, err := st.GetOrCreateConcept(ctx, proto)
	if err != nil {
		t.Fatalf("GetOrCreateConcept: %v", err)
	}
	return c
}

func TestBuildSnapshot(t *testing.T) {
	ctx := context.Background()
	st := memory.NewConceptMemoryStore()

	core := mustCreateConcept(t, ctx, st, common.Concept{
		ClassID: "class1", CanonicalName: "Recursion", NormalizedName: "recursion",
		ImportanceScore: 0.9, DifficultyLevel: 0.9,
	})
	mid := mustCreateConcept(t, ctx, st, common.Concept{
		ClassID: "class1", CanonicalName: "Base Case", NormalizedName: "base case",
		ImportanceScore: 0.6, DifficultyLevel: 0.3,
	})
	gone := mustCreateConcept(t, ctx, st, common.Concept{
		ClassID: "class1", CanonicalName: "Old Name", NormalizedName: "old name",
	})
	if err := st.MarkConceptMerged(ctx, gone.ID, core.ID); err != nil {
		t.Fatalf("MarkConceptMerged: %v", err)
	}

	if _, _, err := st.GetOrCreateEdge(ctx, common.ConceptEdge{
		ClassID: "class1", FromConceptID: mid.ID, ToConceptID: core.ID,
		Type: "prereq", Label: "required_by", Weight: 3, Confidence: 0.8,
		Evidence: []string{"base case stops recursion"},
	}); err != nil {
		t.Fatalf("GetOrCreateEdge: %v", err)
	}
	// Edge with no label and an unset weight.
	if _, _, err := st.GetOrCreateEdge(ctx, common.ConceptEdge{
		ClassID: "class1", FromConceptID: core.ID, ToConceptID: mid.ID,
		Type: "related",
	}); err != nil {
		t.Fatalf("GetOrCreateEdge: %v", err)
	}
	// Edge into the tombstone, must be hidden.
	if _, _, err := st.GetOrCreateEdge(ctx, common.ConceptEdge{
		ClassID: "class1", FromConceptID: core.ID, ToConceptID: gone.ID,
		Type: "related", Weight: 5,
	}); err != nil {
		t.Fatalf("GetOrCreateEdge: %v", err)
	}

	snap, err := BuildSnapshot(ctx, st, "class1")
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}

	if len(snap.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2: %+v", len(snap.Nodes), snap.Nodes)
	}
	byID := make(map[string]SnapshotNode)
	for _, n := range snap.Nodes {
		byID[n.ID] = n
	}
	if n := byID[core.ID]; n.Label != "Recursion" || n.Importance != "core" || n.Difficulty != "hard" {
		t.Errorf("core node: %+v", n)
	}
	if n := byID[mid.ID]; n.Importance != "important" || n.Difficulty != "easy" {
		t.Errorf("mid node: %+v", n)
	}
	if _, ok := byID[gone.ID]; ok {
		t.Error("tombstoned concept visible in snapshot")
	}

	if len(snap.Edges) != 2 {
		t.Fatalf("edges = %d, want 2: %+v", len(snap.Edges), snap.Edges)
	}
	for _, e := range snap.Edges {
		switch e.Type {
		case "prereq":
			if e.Reason != "required_by" || e.Weight != 3 {
				t.Errorf("labeled edge: %+v", e)
			}
		case "related":
			if e.Reason != "related" {
				t.Errorf("reason should fall back to the type: %+v", e)
			}
			if e.Weight != 1 {
				t.Errorf("unset weight should read as 1: %+v", e)
			}
			if e.Evidence == nil {
				t.Errorf("evidence must never be null: %+v", e)
			}
		default:
			t.Errorf("unexpected edge: %+v", e)
		}
		if e.To == gone.ID || e.From == gone.ID {
			t.Errorf("edge touching a tombstone visible: %+v", e)
		}
	}
}

func TestBuildSnapshotEmptyClass(t *testing.T) {
	st := memory.NewConceptMemoryStore()
	snap, err := BuildSnapshot(context.Background(), st, "empty")
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	if len(snap.Nodes) != 0 || len(snap.Edges) != 0 {
		t.Errorf("empty class snapshot: %+v", snap)
	}
}
