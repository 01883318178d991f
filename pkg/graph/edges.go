package graph

import (
	"strings"

	"github.com/studyatlas/backend/pkg/common"
)

const (
	maxLabelLength     = 80
	maxSnippetLength   = 200
	maxSnippetsPerEdge = 6
)

// ProposedEdge is one raw oracle-proposed edge before sanitization.
type ProposedEdge struct {
	From       string   `json:"from" jsonschema_description:"Name of the source concept"`
	To         string   `json:"to" jsonschema_description:"Name of the target concept"`
	Type       string   `json:"type" jsonschema_description:"One of prereq, related, part_of, example_of, causes"`
	Label      string   `json:"label" jsonschema_description:"Specific meaning as a short verb phrase"`
	Strength   float64  `json:"strength" jsonschema_description:"1..5"`
	Confidence float64  `json:"confidence" jsonschema_description:"0..1"`
	Evidence   []string `json:"evidence" jsonschema_description:"Short phrases copied from the document"`
	Why        string   `json:"why" jsonschema_description:"Short justification"`
}

// EdgeRules configures edge sanitization.
//
// RequireEvidence controls the open gap around empty evidence lists: when
// false (the default), an edge submitted without evidence bypasses the
// grounding check; when true it is dropped.
type EdgeRules struct {
	MaxEdges        int
	RequireEvidence bool
}

// BuildEdgeList sanitizes raw proposed edges against the kept-node map and
// the normalized source text. Endpoints are snapped to canonical kept
// display names; edges never silently create nodes. Edges whose evidence
// cannot be found in the text are dropped (the grounding guardrail), and
// duplicates by (from, to, type, label) collapse to the first occurrence.
func BuildEdgeList(
	raw []ProposedEdge,
	keptKeyToName map[string]string,
	textNorm string,
	rules EdgeRules,
) []common.GraphEdge {
	maxEdges := rules.MaxEdges
	if maxEdges <= 0 {
		maxEdges = 18
	}

	dedup := make(map[[4]string]bool)
	out := make([]common.GraphEdge, 0, maxEdges)

	for _, e := range raw {
		rawSrc := strings.TrimSpace(e.From)
		rawDst := strings.TrimSpace(e.To)
		if rawSrc == "" || rawDst == "" {
			continue
		}

		srcKey := NormalizeName(rawSrc)
		dstKey := NormalizeName(rawDst)
		if srcKey == "" || dstKey == "" || srcKey == dstKey {
			continue
		}

		src, okSrc := keptKeyToName[srcKey]
		dst, okDst := keptKeyToName[dstKey]
		if !okSrc || !okDst {
			continue
		}

		typ := strings.TrimSpace(e.Type)
		if !common.AllowedEdgeTypes[typ] {
			continue
		}

		label := strings.TrimSpace(e.Label)
		if label == "" {
			label = "related_to"
		}
		if len(label) > maxLabelLength {
			label = label[:maxLabelLength]
		}

		strength := int(e.Strength)
		if e.Strength == 0 {
			strength = 3
		}
		if strength < 1 {
			strength = 1
		}
		if strength > 5 {
			strength = 5
		}

		confidence := e.Confidence
		if confidence == 0 {
			confidence = 0.6
		}
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}

		evidence := make([]string, 0, len(e.Evidence))
		for _, s := range e.Evidence {
			s = strings.Join(strings.Fields(s), " ")
			if s == "" {
				continue
			}
			if len(s) > maxSnippetLength {
				s = s[:maxSnippetLength]
			}
			evidence = append(evidence, s)
			if len(evidence) >= maxSnippetsPerEdge {
				break
			}
		}

		if len(evidence) == 0 && rules.RequireEvidence {
			continue
		}
		if len(evidence) > 0 && !evidenceSupported(evidence, textNorm) {
			continue
		}

		key := [4]string{srcKey, dstKey, typ, NormalizeName(label)}
		if dedup[key] {
			continue
		}
		dedup[key] = true

		out = append(out, common.GraphEdge{
			From:       src,
			To:         dst,
			Type:       typ,
			Label:      label,
			Strength:   strength,
			Confidence: confidence,
			Evidence:   evidence,
		})
		if len(out) >= maxEdges {
			break
		}
	}

	return out
}
