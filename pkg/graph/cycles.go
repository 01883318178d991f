package graph

import "github.com/studyatlas/backend/pkg/common"

// BreakCycles removes edges until the directed subgraph (prerequisite_of and
// causes edges) is acyclic. Cycles are found with a depth-first search; when a
// back edge is detected, the weakest edge on the cycle is dropped, with ties
// resolved in favor of the earlier edge in slice order. Non-directed edge
// types pass through untouched. The relative order of surviving edges is
// preserved.
func BreakCycles(edges []common.GraphEdge) []common.GraphEdge {
	removed := make(map[int]bool)
	for {
		cycle := findCycle(edges, removed)
		if cycle == nil {
			break
		}
		weakest := cycle[0]
		for _, idx := range cycle[1:] {
			if edges[idx].Strength < edges[weakest].Strength ||
				(edges[idx].Strength == edges[weakest].Strength && idx < weakest) {
				weakest = idx
			}
		}
		removed[weakest] = true
	}
	if len(removed) == 0 {
		return edges
	}
	kept := make([]common.GraphEdge, 0, len(edges)-len(removed))
	for i, e := range edges {
		if !removed[i] {
			kept = append(kept, e)
		}
	}
	return kept
}

// findCycle returns the edge indexes of one cycle in the directed subgraph,
// ordered along the cycle, or nil if none remains. Nodes are visited in order
// of first appearance so repeated runs over the same input behave the same.
func findCycle(edges []common.GraphEdge, removed map[int]bool) []int {
	adjacency := make(map[string][]int)
	var nodes []string
	seen := make(map[string]bool)
	addNode := func(id string) {
		if !seen[id] {
			seen[id] = true
			nodes = append(nodes, id)
		}
	}
	for i, e := range edges {
		if removed[i] || !common.DirectedEdgeTypes[e.Type] {
			continue
		}
		addNode(e.From)
		addNode(e.To)
		adjacency[e.From] = append(adjacency[e.From], i)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var path []int

	var visit func(node string) []int
	visit = func(node string) []int {
		color[node] = gray
		for _, idx := range adjacency[node] {
			next := edges[idx].To
			switch color[next] {
			case gray:
				// Back edge: the cycle is the path suffix from next, plus idx.
				cycle := []int{idx}
				for j := len(path) - 1; j >= 0; j-- {
					cycle = append(cycle, path[j])
					if edges[path[j]].From == next {
						break
					}
				}
				return cycle
			case white:
				path = append(path, idx)
				if cycle := visit(next); cycle != nil {
					return cycle
				}
				path = path[:len(path)-1]
			}
		}
		color[node] = black
		return nil
	}

	for _, node := range nodes {
		if color[node] == white {
			if cycle := visit(node); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
