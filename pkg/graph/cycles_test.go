package graph

import (
	"testing"

	"github.com/studyatlas/backend/pkg/common"
)

func prereq(from, to string, strength int) common.GraphEdge {
	return common.GraphEdge{From: from, To: to, Type: common.EdgeTypePrereq, Strength: strength}
}

func edgePairs(edges []common.GraphEdge) [][2]string {
	out := make([][2]string, len(edges))
	for i, e := range edges {
		out[i] = [2]string{e.From, e.To}
	}
	return out
}

func samePairs(got []common.GraphEdge, want [][2]string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].From != want[i][0] || got[i].To != want[i][1] {
			return false
		}
	}
	return true
}

func TestBreakCyclesAcyclicUntouched(t *testing.T) {
	edges := []common.GraphEdge{
		prereq("a", "b", 3),
		prereq("b", "c", 3),
		prereq("a", "c", 2),
	}

	got := BreakCycles(edges)
	if len(got) != 3 {
		t.Fatalf("acyclic input lost edges: %v", edgePairs(got))
	}
}

func TestBreakCyclesRemovesWeakest(t *testing.T) {
	edges := []common.GraphEdge{
		prereq("a", "b", 5),
		prereq("b", "c", 2),
		prereq("c", "a", 4),
	}

	got := BreakCycles(edges)
	want := [][2]string{{"a", "b"}, {"c", "a"}}
	if !samePairs(got, want) {
		t.Fatalf("got %v, want %v", edgePairs(got), want)
	}
}

func TestBreakCyclesTieFavorsEarlierEdge(t *testing.T) {
	edges := []common.GraphEdge{
		prereq("a", "b", 3),
		prereq("b", "c", 3),
		prereq("c", "a", 3),
	}

	got := BreakCycles(edges)
	want := [][2]string{{"b", "c"}, {"c", "a"}}
	if !samePairs(got, want) {
		t.Fatalf("got %v, want %v", edgePairs(got), want)
	}
}

func TestBreakCyclesMultipleCycles(t *testing.T) {
	edges := []common.GraphEdge{
		prereq("a", "b", 4),
		prereq("b", "a", 1),
		prereq("c", "d", 4),
		prereq("d", "c", 2),
	}

	got := BreakCycles(edges)
	want := [][2]string{{"a", "b"}, {"c", "d"}}
	if !samePairs(got, want) {
		t.Fatalf("got %v, want %v", edgePairs(got), want)
	}
}

func TestBreakCyclesIgnoresUndirectedTypes(t *testing.T) {
	edges := []common.GraphEdge{
		{From: "a", To: "b", Type: common.EdgeTypeRelated, Strength: 1},
		{From: "b", To: "a", Type: common.EdgeTypeRelated, Strength: 1},
		{From: "a", To: "b", Type: common.EdgeTypePartOf, Strength: 1},
		{From: "b", To: "a", Type: common.EdgeTypePartOf, Strength: 1},
	}

	got := BreakCycles(edges)
	if len(got) != 4 {
		t.Fatalf("non-directed edges must never be removed: %v", edgePairs(got))
	}
}

func TestBreakCyclesMixedTypes(t *testing.T) {
	edges := []common.GraphEdge{
		{From: "a", To: "b", Type: common.EdgeTypeRelated, Strength: 1},
		prereq("a", "b", 2),
		{From: "b", To: "a", Type: common.EdgeTypeCauses, Strength: 3},
		prereq("b", "c", 5),
	}

	// The prereq/causes pair a<->b forms a directed cycle; the weaker prereq
	// goes, the related edge is invisible to the search.
	got := BreakCycles(edges)
	want := [][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}}
	if !samePairs(got, want) {
		t.Fatalf("got %v, want %v", edgePairs(got), want)
	}
	if got[0].Type != common.EdgeTypeRelated || got[1].Type != common.EdgeTypeCauses {
		t.Errorf("wrong edges survived: %v", got)
	}
}

func TestBreakCyclesLongCycle(t *testing.T) {
	edges := []common.GraphEdge{
		prereq("a", "b", 5),
		prereq("b", "c", 4),
		prereq("c", "d", 3),
		prereq("d", "e", 4),
		prereq("e", "a", 5),
	}

	got := BreakCycles(edges)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for _, e := range got {
		if e.From == "c" && e.To == "d" {
			t.Fatalf("weakest edge of the cycle survived: %v", edgePairs(got))
		}
	}
}
