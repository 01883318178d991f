package graph

import (
	"context"
	"testing"

	"github.com/studyatlas/backend/pkg/common"
	"github.com/studyatlas/backend/pkg/store/memory"
)

func TestRescoreClass(t *testing.T) {
	ctx := context.Background()
	st := memory.NewConceptMemoryStore()
	g := newTestClient(t)

	hub := mustCreateConcept(t, ctx, st, common.Concept{
		ClassID: "class1", CanonicalName: "Hub", NormalizedName: "hub",
		DocumentFrequency: 4, DifficultyLevel: 0.9,
	})
	leaf := mustCreateConcept(t, ctx, st, common.Concept{
		ClassID: "class1", CanonicalName: "Leaf", NormalizedName: "leaf",
		DocumentFrequency: 1,
	})
	ghost := mustCreateConcept(t, ctx, st, common.Concept{
		ClassID: "class1", CanonicalName: "Ghost", NormalizedName: "ghost",
		DocumentFrequency: 9, ImportanceScore: 0.42,
	})
	if err := st.MarkConceptMerged(ctx, ghost.ID, hub.ID); err != nil {
		t.Fatalf("MarkConceptMerged: %v", err)
	}

	if _, _, err := st.GetOrCreateEdge(ctx, common.ConceptEdge{
		ClassID: "class1", FromConceptID: hub.ID, ToConceptID: leaf.ID,
		Type: "prereq", Weight: 5,
	}); err != nil {
		t.Fatalf("GetOrCreateEdge: %v", err)
	}

	if err := g.RescoreClass(ctx, st, "class1"); err != nil {
		t.Fatalf("RescoreClass: %v", err)
	}

	// Tombstones are excluded from the maxima, so hub's df of 4 is the max.
	got, _ := st.GetConcept(ctx, hub.ID)
	if want := 0.6*1.0 + 0.4*(5.0/25.0); !approx(got.ImportanceScore, want) {
		t.Errorf("hub score = %v, want %v", got.ImportanceScore, want)
	}
	if got.DifficultyLevel != 0.9 {
		t.Errorf("rescore must not change difficulty: %v", got.DifficultyLevel)
	}

	got, _ = st.GetConcept(ctx, leaf.ID)
	if want := 0.6*0.25 + 0.4*(5.0/25.0); !approx(got.ImportanceScore, want) {
		t.Errorf("leaf score = %v, want %v", got.ImportanceScore, want)
	}

	got, _ = st.GetConcept(ctx, ghost.ID)
	if got.ImportanceScore != 0.42 {
		t.Errorf("tombstone was rescored: %v", got.ImportanceScore)
	}
}

func TestRescoreClassMentionScorer(t *testing.T) {
	ctx := context.Background()
	st := memory.NewConceptMemoryStore()
	g, err := NewGraphClient(NewGraphClientParams{Scorer: NewMentionDegreeScorer()})
	if err != nil {
		t.Fatalf("NewGraphClient: %v", err)
	}

	hot := mustCreateConcept(t, ctx, st, common.Concept{
		ClassID: "class1", CanonicalName: "Hot", NormalizedName: "hot", DocumentFrequency: 1,
	})
	cold := mustCreateConcept(t, ctx, st, common.Concept{
		ClassID: "class1", CanonicalName: "Cold", NormalizedName: "cold", DocumentFrequency: 1,
	})
	for i := 0; i < 4; i++ {
		if err := st.UpsertMention(ctx, "class1", "doc1", hot.ID); err != nil {
			t.Fatalf("UpsertMention: %v", err)
		}
	}
	if err := st.UpsertMention(ctx, "class1", "doc1", cold.ID); err != nil {
		t.Fatalf("UpsertMention: %v", err)
	}

	if err := g.RescoreClass(ctx, st, "class1"); err != nil {
		t.Fatalf("RescoreClass: %v", err)
	}

	got, _ := st.GetConcept(ctx, hot.ID)
	if !approx(got.ImportanceScore, 0.7) {
		t.Errorf("hot score = %v, want 0.7", got.ImportanceScore)
	}
	got, _ = st.GetConcept(ctx, cold.ID)
	if !approx(got.ImportanceScore, 0.7*0.25) {
		t.Errorf("cold score = %v, want %v", got.ImportanceScore, 0.7*0.25)
	}
}

func TestReinforceAfterUploadNoop(t *testing.T) {
	ctx := context.Background()
	st := memory.NewConceptMemoryStore()
	g := newTestClient(t)

	if err := g.ReinforceAfterUpload(ctx, st, "class1", nil); err != nil {
		t.Fatalf("empty concept list: %v", err)
	}
	if err := g.ReinforceAfterUpload(ctx, st, "", []string{"c1"}); err != nil {
		t.Fatalf("empty class: %v", err)
	}
	if edges, _ := st.ListEdges(ctx, "class1"); len(edges) != 0 {
		t.Errorf("no-op created edges: %+v", edges)
	}
}

func TestReinforceRelatedEdgesCap(t *testing.T) {
	ctx := context.Background()
	st := memory.NewConceptMemoryStore()
	tuning := GraphTuning{PruneEdgeWeightBelow: 0, MaxRelatedEdgesPerUpload: 3, DegreeScale: 25}
	g, err := NewGraphClient(NewGraphClientParams{Tuning: &tuning})
	if err != nil {
		t.Fatalf("NewGraphClient: %v", err)
	}

	ids := []string{"c1", "c2", "c3", "c4", "c1"}
	g.reinforceRelatedEdges(ctx, st, "class1", ids)

	edges, _ := st.ListEdges(ctx, "class1")
	// 3 pairs, both directions each.
	if len(edges) != 6 {
		t.Fatalf("edges = %d, want 6", len(edges))
	}
	for _, e := range edges {
		if e.Type != common.EdgeTypeRelated || e.Weight != 1 {
			t.Errorf("unexpected edge: %+v", e)
		}
	}
}
