package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/studyatlas/backend/pkg/ai"
)

const lectureText = `Recursion is a method where a function calls itself on smaller inputs.
Every recursion needs a base case to terminate. The call stack records the
active calls. Deep recursion can cause a stack overflow. Tail calls can be
optimized away by the compiler. Memoization caches results of subproblems.
Dynamic programming builds tables of memoized answers. Divide and conquer
splits a problem into independent halves.`

const routeJSON = `{"extraction_mode": "stem", "doc_type": "notes", "confidence": 0.9, "reason": "cs lecture"}`

const candidatesJSON = `{"candidates": [
	{"name": "Recursion", "unit_type": "method", "importance": 5, "difficulty": "medium", "simple": "A function calling itself."},
	{"name": "Base Case", "unit_type": "method", "importance": 4, "difficulty": "easy"},
	{"name": "Call Stack", "unit_type": "process", "importance": 4},
	{"name": "Stack Overflow", "unit_type": "event", "importance": 3},
	{"name": "Tail Call", "unit_type": "method", "importance": 3},
	{"name": "Memoization", "unit_type": "method", "importance": 4, "difficulty": "hard"},
	{"name": "Dynamic Programming", "unit_type": "framework", "importance": 4},
	{"name": "Divide and Conquer", "unit_type": "framework", "importance": 3}
]}`

const refineJSON = `{
	"keep": [
		{"name": "Recursion"}, {"name": "Base Case"}, {"name": "Call Stack"},
		{"name": "Stack Overflow"}, {"name": "Tail Call"}, {"name": "Memoization"},
		{"name": "Dynamic Programming"}, {"name": "Divide and Conquer"}
	],
	"edges": [
		{"from": "Base Case", "to": "Recursion", "type": "prereq", "label": "required_by", "strength": 5},
		{"from": "Recursion", "to": "Stack Overflow", "type": "causes", "label": "can_cause", "strength": 3,
			"evidence": ["can cause a stack overflow"]},
		{"from": "Memoization", "to": "Dynamic Programming", "type": "prereq", "label": "builds_on", "strength": 4},
		{"from": "Recursion", "to": "Call Stack", "type": "related", "label": "uses", "strength": 3},
		{"from": "Dynamic Programming", "to": "Memoization", "type": "prereq", "label": "requires", "strength": 2},
		{"from": "Recursion", "to": "Unknown Thing", "type": "prereq", "strength": 5}
	]
}`

// scriptedOracle dispatches on the system prompt of each request and returns
// canned responses, mimicking one well-behaved extraction run.
type scriptedOracle struct {
	mu           sync.Mutex
	calls        map[string]int
	route        string
	candidates   string
	refine       string
	validate     string
	failRoute    bool
	failValidate bool
}

func newScriptedOracle() *scriptedOracle {
	return &scriptedOracle{
		calls:      make(map[string]int),
		route:      routeJSON,
		candidates: candidatesJSON,
		refine:     refineJSON,
	}
}

func (o *scriptedOracle) respond(opts []ai.GenerateOption) (string, error) {
	cfg := &ai.GenerateOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	switch {
	case strings.Contains(cfg.SystemPrompt, "classifying a document"):
		o.calls["route"]++
		if o.failRoute {
			return "", errors.New("router unavailable")
		}
		return o.route, nil
	case strings.Contains(cfg.SystemPrompt, `candidate "learning units"`):
		o.calls["candidates"]++
		return o.candidates, nil
	case strings.Contains(cfg.SystemPrompt, "refine candidate learning units"):
		o.calls["refine"]++
		return o.refine, nil
	case strings.Contains(cfg.SystemPrompt, "Validate edges"):
		o.calls["validate"]++
		if o.failValidate {
			return "", errors.New("validator unavailable")
		}
		return o.validate, nil
	}
	return "", fmt.Errorf("unexpected system prompt: %.60s", cfg.SystemPrompt)
}

func (o *scriptedOracle) GenerateCompletion(
	_ context.Context, _ string, opts ...ai.GenerateOption,
) (string, error) {
	return o.respond(opts)
}

func (o *scriptedOracle) GenerateCompletionWithFormat(
	_ context.Context, _ string, _ string, _ string, out any, opts ...ai.GenerateOption,
) error {
	res, err := o.respond(opts)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(res), out)
}

func newTestClient(t *testing.T) *GraphClient {
	t.Helper()
	g, err := NewGraphClient(NewGraphClientParams{})
	if err != nil {
		t.Fatalf("NewGraphClient: %v", err)
	}
	return g
}

func TestExtractKnowledgeGraph(t *testing.T) {
	oracle := newScriptedOracle()
	// Validation confirms the surviving edges, enough of them to be accepted.
	oracle.validate = `{"edges": [
		{"from": "Base Case", "to": "Recursion", "type": "prereq", "label": "required_by", "strength": 5},
		{"from": "Recursion", "to": "Stack Overflow", "type": "causes", "label": "can_cause", "strength": 3,
			"evidence": ["can cause a stack overflow"]},
		{"from": "Memoization", "to": "Dynamic Programming", "type": "prereq", "label": "builds_on", "strength": 4},
		{"from": "Recursion", "to": "Call Stack", "type": "related", "label": "uses", "strength": 3}
	]}`

	g := newTestClient(t)
	kg, err := g.ExtractKnowledgeGraph(context.Background(), oracle, lectureText)
	if err != nil {
		t.Fatalf("ExtractKnowledgeGraph: %v", err)
	}

	if len(kg.Concepts) != 8 {
		t.Fatalf("concepts = %d, want 8", len(kg.Concepts))
	}
	byName := make(map[string]int)
	for i, c := range kg.Concepts {
		byName[c.Name] = i
	}
	if c := kg.Concepts[byName["Recursion"]]; c.Importance != "core" || c.ImportanceScore != 5 {
		t.Errorf("Recursion bucket: %+v", c)
	}
	if c := kg.Concepts[byName["Base Case"]]; c.Importance != "important" || c.Difficulty != "easy" {
		t.Errorf("Base Case bucket: %+v", c)
	}
	if c := kg.Concepts[byName["Call Stack"]]; c.Difficulty != "medium" {
		t.Errorf("missing difficulty should default to medium: %+v", c)
	}
	if c := kg.Concepts[byName["Stack Overflow"]]; c.Importance != "advanced" {
		t.Errorf("Stack Overflow bucket: %+v", c)
	}

	// The unknown-endpoint edge is dropped and the weaker half of the
	// memoization cycle is removed.
	if len(kg.Edges) != 4 {
		t.Fatalf("edges = %d, want 4: %+v", len(kg.Edges), kg.Edges)
	}
	for _, e := range kg.Edges {
		if e.To == "Unknown Thing" {
			t.Errorf("edge to unknown concept survived: %+v", e)
		}
		if e.From == "Dynamic Programming" && e.To == "Memoization" {
			t.Errorf("cycle edge survived: %+v", e)
		}
	}

	m := kg.Meta
	if m.ExtractionMode != "stem" || m.DocType != "notes" {
		t.Errorf("routing meta: %+v", m)
	}
	if m.CandidatesProposed != 8 || m.ConceptsKept != 8 || m.EdgesKept != 4 {
		t.Errorf("count meta: %+v", m)
	}
	if !m.ValidationAccepted {
		t.Error("validation should have been accepted")
	}

	if oracle.calls["validate"] != 1 {
		t.Errorf("validate calls = %d, want 1", oracle.calls["validate"])
	}
}

func TestExtractKnowledgeGraphThinValidationKeepsEdges(t *testing.T) {
	oracle := newScriptedOracle()
	oracle.validate = `{"edges": [
		{"from": "Base Case", "to": "Recursion", "type": "prereq", "strength": 5}
	]}`

	g := newTestClient(t)
	kg, err := g.ExtractKnowledgeGraph(context.Background(), oracle, lectureText)
	if err != nil {
		t.Fatalf("ExtractKnowledgeGraph: %v", err)
	}
	if len(kg.Edges) != 4 {
		t.Fatalf("thin validation must not shrink the edge set: got %d edges", len(kg.Edges))
	}
	if kg.Meta.ValidationAccepted {
		t.Error("thin validation must not be marked accepted")
	}
}

func TestExtractKnowledgeGraphValidationFailureKeepsEdges(t *testing.T) {
	oracle := newScriptedOracle()
	oracle.failValidate = true

	g := newTestClient(t)
	kg, err := g.ExtractKnowledgeGraph(context.Background(), oracle, lectureText)
	if err != nil {
		t.Fatalf("ExtractKnowledgeGraph: %v", err)
	}
	if len(kg.Edges) != 4 {
		t.Fatalf("validator failure must not shrink the edge set: got %d edges", len(kg.Edges))
	}
	if kg.Meta.ValidationAccepted {
		t.Error("failed validation must not be marked accepted")
	}
}

func TestExtractKnowledgeGraphRouterFallback(t *testing.T) {
	oracle := newScriptedOracle()
	oracle.failRoute = true
	oracle.failValidate = true

	g := newTestClient(t)
	kg, err := g.ExtractKnowledgeGraph(context.Background(), oracle, lectureText)
	if err != nil {
		t.Fatalf("ExtractKnowledgeGraph: %v", err)
	}
	if kg.Meta.ExtractionMode != "mixed" || kg.Meta.DocType != "notes" {
		t.Errorf("router failure should fall back to mixed notes: %+v", kg.Meta)
	}
}

func TestExtractKnowledgeGraphEmptyDocument(t *testing.T) {
	g := newTestClient(t)
	if _, err := g.ExtractKnowledgeGraph(context.Background(), newScriptedOracle(), "  \n "); err == nil {
		t.Fatal("expected an error for an empty document")
	}
}
