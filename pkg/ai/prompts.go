package ai

// RouterPrompt classifies a document before extraction so the candidate
// prompt can focus on what a course in that area actually tests.
const RouterPrompt = `
You are classifying a document for study extraction.

Pick ONE extraction_mode:
- "stem" (math/cs/physics/engineering)
- "humanities" (history/literature/philosophy)
- "social_science" (psych/soc/econ/poli-sci)
- "writing" (composition/english writing/rhetoric)
- "mixed" (interdisciplinary, unclear)

Also determine doc_type:
- "syllabus" if it looks like course policies/schedule/grade breakdown
- otherwise "notes"

Return ONLY valid JSON:
{
  "extraction_mode": "stem|humanities|social_science|writing|mixed",
  "doc_type": "syllabus|notes",
  "confidence": 0.0,
  "reason": "short"
}
`

// CandidatePromptBase proposes a deliberately oversized candidate set; the
// server enforces the final size, minimum importance, and deduplication.
// A mode-specific focus line is appended by CandidatePrompt.
const CandidatePromptBase = `
You will propose candidate "learning units" from a document.

Each unit must be something a student can be tested on.
Avoid trivial vocabulary, obvious section headings, or administrative fluff.

Return ONLY valid JSON:
{
  "candidates": [
    {
      "name": "...",
      "unit_type": "...",
      "importance": 1,
      "difficulty": "easy|medium|hard",
      "simple": "1-2 sentences",
      "detailed": "4-6 sentences",
      "technical": "optional: formalism/structure",
      "example": "specific example (numbers / quote / scenario)",
      "common_mistake": "realistic misunderstanding",
      "evidence": ["short phrases copied from text (<=12 words each)"],
      "prereqs": ["names of other units if clearly needed"]
    }
  ]
}

Rules:
- Propose 18-24 candidates to maximize coverage
- unit_type examples: formula|method|theme|event|argument|skill|device|framework|policy|process
- importance is 1..5 (5 = essential to pass); most should be 2-4, only a few 5
- Evidence must be copied from the text (no invented quotes)
- Don't invent facts not present in the text
`

var candidateFocus = map[string]string{
	"stem":           "Focus on: definitions, formulas, algorithms, problem methods, key assumptions.",
	"humanities":     "Focus on: themes, events, people, movements, arguments, primary-source claims.",
	"social_science": "Focus on: theories, variables, studies, methods, models, interpretations.",
	"writing":        "Focus on: thesis building, evidence use, structure, rhetoric, style, revision strategies.",
}

// CandidatePrompt returns the candidate extraction prompt for a routing mode.
func CandidatePrompt(mode string) string {
	focus, ok := candidateFocus[mode]
	if !ok {
		focus = "Focus on: whatever would be tested in this course."
	}
	return CandidatePromptBase + "\n" + focus
}

// RefinePrompt selects the final concept set and proposes typed edges.
// The coarse type is store-safe; the label carries the specific meaning.
const RefinePrompt = `
You will refine candidate learning units into a final set of core study concepts AND propose meaningful edges.

Return ONLY valid JSON:
{
  "keep": [
    {
      "name": "...",
      "why_keep": "short",
      "final_importance": 1
    }
  ],
  "edges": [
    {
      "from": "Unit A",
      "to": "Unit B",
      "type": "prereq|related|part_of|example_of|causes",
      "label": "short_verb_phrase",
      "strength": 1,
      "confidence": 0.0,
      "evidence": ["short phrases copied from the document (<=12 words)"],
      "why": "short"
    }
  ]
}

Rules:
- "name" must match a candidate name (best effort)
- label is the real meaning, more specific than type: defines, applies_to, derived_from, contrasts_with, motivates, leads_to, supports_claim
- Keep 8-12 units total
- Create 8-16 edges if possible (avoid isolated nodes)
- Edges must be only between kept units
- Prefer specific relationships: part_of, causes, example_of
- Use prereq only if the document implies learning order (before/after/requires/must know)
- Use related only if label is specific (contrasts_with/influences/supports/etc.)
- Evidence MUST be copied from the text (no invention)
- Max 18 edges
`

// ValidatePrompt runs the second oracle round over the surviving edges.
// Its contract: delete only when evidence clearly fails, otherwise prefer
// downgrading prereq to related.
const ValidatePrompt = `
Validate edges in a course knowledge graph.

Given:
- kept concept names
- proposed edges with evidence snippets (copied from document)

Your job:
- Remove edges only if evidence clearly does NOT support it.
- If ordering is not justified, DOWNGRADE type from prereq -> related (do not drop).
- If type is wrong but relationship exists, fix type/label.

Return ONLY valid JSON:
{
  "edges": [
    {
      "from": "...",
      "to": "...",
      "type": "prereq|related|part_of|example_of|causes",
      "label": "...",
      "strength": 1,
      "confidence": 0.0,
      "evidence": ["..."]
    }
  ]
}

Rules:
- Prefer fewer, higher-quality edges, but try to keep at least 6 edges if possible.
- If unsure, keep as related with low confidence (0.45-0.6) instead of dropping.
- Evidence must remain copied from the document.
`
