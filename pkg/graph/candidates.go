package graph

import (
	"sort"
	"strings"
)

// Candidate is one oracle-proposed learning unit. Fields mirror the
// candidate prompt's JSON and are treated as untrusted until selection.
type Candidate struct {
	Name          string   `json:"name" jsonschema_description:"Short label for the learning unit"`
	UnitType      string   `json:"unit_type" jsonschema_description:"e.g. formula, method, theme, event, argument, skill"`
	Importance    float64  `json:"importance" jsonschema_description:"1..5, 5 = essential to pass"`
	Difficulty    string   `json:"difficulty" jsonschema_description:"easy, medium or hard"`
	Simple        string   `json:"simple" jsonschema_description:"1-2 sentence explanation"`
	Detailed      string   `json:"detailed" jsonschema_description:"4-6 sentence explanation"`
	Technical     string   `json:"technical" jsonschema_description:"Optional formalism or structure"`
	Example       string   `json:"example" jsonschema_description:"Specific example from the text"`
	CommonMistake string   `json:"common_mistake" jsonschema_description:"Realistic misunderstanding"`
	Evidence      []string `json:"evidence" jsonschema_description:"Short phrases copied from the text"`
	Prereqs       []string `json:"prereqs" jsonschema_description:"Names of other units if clearly needed"`
}

type candidateResponse struct {
	Candidates []Candidate `json:"candidates" jsonschema_description:"Candidate learning units found in the document"`
}

// DedupeCandidates collapses candidates to one entry per canonical key,
// preserving first-occurrence order. Records without a usable name are
// discarded.
func DedupeCandidates(cands []Candidate) []Candidate {
	seen := make(map[string]bool, len(cands))
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		key := NormalizeName(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// candidateImportance clamps the self-reported importance to the 1..5 scale,
// reading a missing value as the middle of the scale.
func candidateImportance(c Candidate) int {
	imp := int(c.Importance)
	if imp == 0 {
		imp = 3
	}
	if imp < 1 {
		imp = 1
	}
	if imp > 5 {
		imp = 5
	}
	return imp
}

// PickTopCandidates selects the kept node set for the current batch.
//
// The refine pass may return names with tiny formatting differences, so
// matching goes through the canonical key. When fewer than 6 candidates
// match the keep-set, the refine output is considered unreliable and all
// candidates are reconsidered, sorted by self-reported importance. Entries
// below minImportance are dropped and the result is truncated to maxNodes.
func PickTopCandidates(cands []Candidate, keepNames []string, maxNodes int, minImportance int) []Candidate {
	wanted := make(map[string]bool, len(keepNames))
	for _, n := range keepNames {
		if key := NormalizeName(n); key != "" {
			wanted[key] = true
		}
	}

	chosen := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if wanted[NormalizeName(c.Name)] {
			chosen = append(chosen, c)
		}
	}

	if len(chosen) < 6 {
		chosen = make([]Candidate, len(cands))
		copy(chosen, cands)
		sort.SliceStable(chosen, func(i, j int) bool {
			return int(chosen[i].Importance) > int(chosen[j].Importance)
		})
	}

	pruned := make([]Candidate, 0, maxNodes)
	for _, c := range chosen {
		if int(c.Importance) < minImportance {
			continue
		}
		pruned = append(pruned, c)
		if len(pruned) >= maxNodes {
			break
		}
	}

	return pruned
}
