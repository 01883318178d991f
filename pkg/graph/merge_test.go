package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/studyatlas/backend/pkg/common"
	"github.com/studyatlas/backend/pkg/store"
	"github.com/studyatlas/backend/pkg/store/memory"
)

func seedMergePair(t *testing.T, ctx context.Context, st *memory.ConceptMemoryStore, g *GraphClient) (keep, merge common.Concept) {
	t.Helper()
	kg := &common.KnowledgeGraph{
		Concepts: []common.GraphConcept{
			{Name: "Neural Network"},
			{Name: "Neural Networks"},
		},
		Edges: []common.GraphEdge{
			{From: "Neural Network", To: "Neural Networks", Type: "related", Label: "plural_of"},
		},
	}
	if err := g.UpdateClassGraph(ctx, st, "class1", "doc1", kg); err != nil {
		t.Fatalf("seed upload: %v", err)
	}
	concepts, _ := st.ListConcepts(ctx, "class1")
	return findConcept(t, concepts, "neural network"), findConcept(t, concepts, "neural networks")
}

func TestMergeConcepts(t *testing.T) {
	ctx := context.Background()
	st := memory.NewConceptMemoryStore()
	g := newTestClient(t)
	keep, merge := seedMergePair(t, ctx, st, g)

	if err := MergeConcepts(ctx, st, "class1", keep.ID, merge.ID); err != nil {
		t.Fatalf("MergeConcepts: %v", err)
	}

	merged, err := st.GetConcept(ctx, merge.ID)
	if err != nil {
		t.Fatalf("GetConcept: %v", err)
	}
	if merged.MergedInto != keep.ID {
		t.Errorf("MergedInto = %q, want %q", merged.MergedInto, keep.ID)
	}

	aliases, _ := st.ListAliases(ctx, "class1")
	for _, a := range aliases {
		if a.ConceptID != keep.ID {
			t.Errorf("alias %q still attached to %q", a.Alias, a.ConceptID)
		}
	}

	mentions, _ := st.ListMentions(ctx, "class1")
	for _, m := range mentions {
		if m.ConceptID != keep.ID {
			t.Errorf("mention still attached to %q", m.ConceptID)
		}
	}

	// Edges stay on the tombstone; the snapshot hides them with it.
	snap, err := BuildSnapshot(ctx, st, "class1")
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	if len(snap.Nodes) != 1 || snap.Nodes[0].ID != keep.ID {
		t.Errorf("snapshot nodes: %+v", snap.Nodes)
	}
	if len(snap.Edges) != 0 {
		t.Errorf("snapshot edges touching a tombstone: %+v", snap.Edges)
	}
}

func TestMergeConceptsRedirectsFutureUploads(t *testing.T) {
	ctx := context.Background()
	st := memory.NewConceptMemoryStore()
	g := newTestClient(t)
	keep, merge := seedMergePair(t, ctx, st, g)

	if err := MergeConcepts(ctx, st, "class1", keep.ID, merge.ID); err != nil {
		t.Fatalf("MergeConcepts: %v", err)
	}

	// A later document using the merged surface form lands on the kept
	// concept instead of resurrecting the tombstone.
	kg := &common.KnowledgeGraph{
		Concepts: []common.GraphConcept{{Name: "Neural Networks"}},
	}
	if err := g.UpdateClassGraph(ctx, st, "class1", "doc2", kg); err != nil {
		t.Fatalf("post-merge upload: %v", err)
	}

	concepts, _ := st.ListConcepts(ctx, "class1")
	if len(concepts) != 2 {
		t.Fatalf("post-merge upload created a concept: %d", len(concepts))
	}
	kept, _ := st.GetConcept(ctx, keep.ID)
	if kept.DocumentFrequency != 2 {
		t.Errorf("kept df = %d, want 2", kept.DocumentFrequency)
	}
	tombstone, _ := st.GetConcept(ctx, merge.ID)
	if tombstone.DocumentFrequency != 1 {
		t.Errorf("tombstone df = %d, want 1", tombstone.DocumentFrequency)
	}
}

func TestMergeConceptsErrors(t *testing.T) {
	ctx := context.Background()
	st := memory.NewConceptMemoryStore()
	g := newTestClient(t)
	keep, merge := seedMergePair(t, ctx, st, g)

	if err := MergeConcepts(ctx, st, "class1", keep.ID, keep.ID); !errors.Is(err, ErrSelfMerge) {
		t.Errorf("self merge: got %v, want ErrSelfMerge", err)
	}
	if err := MergeConcepts(ctx, st, "class1", keep.ID, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing concept: got %v, want ErrNotFound", err)
	}
	if err := MergeConcepts(ctx, st, "other-class", keep.ID, merge.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("class mismatch: got %v, want ErrNotFound", err)
	}

	if err := MergeConcepts(ctx, st, "class1", keep.ID, merge.ID); err != nil {
		t.Fatalf("MergeConcepts: %v", err)
	}
	// A tombstone cannot be the keep side of a further merge.
	if err := MergeConcepts(ctx, st, "class1", merge.ID, keep.ID); err == nil {
		t.Error("merging into a tombstone should fail")
	}
}
