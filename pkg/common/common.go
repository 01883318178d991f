package common

import "time"

// Edge types supported by the graph. Prereq and Causes carry directional
// semantics and are kept acyclic; the remaining types are treated as
// annotations on a pair of concepts.
const (
	EdgeTypePrereq    = "prereq"
	EdgeTypeRelated   = "related"
	EdgeTypePartOf    = "part_of"
	EdgeTypeExampleOf = "example_of"
	EdgeTypeCauses    = "causes"
)

// AllowedEdgeTypes is the closed set of coarse edge types the store accepts.
// The free-text Label carries the specific meaning of an edge.
var AllowedEdgeTypes = map[string]bool{
	EdgeTypePrereq:    true,
	EdgeTypeRelated:   true,
	EdgeTypePartOf:    true,
	EdgeTypeExampleOf: true,
	EdgeTypeCauses:    true,
}

// DirectedEdgeTypes marks the edge types whose direction is semantically
// meaningful. Only these participate in cycle breaking.
var DirectedEdgeTypes = map[string]bool{
	EdgeTypePrereq: true,
	EdgeTypeCauses: true,
}

// Concept is a single testable unit of course knowledge, scoped to one class.
//
// CanonicalName keeps the display casing of the first-seen form; matching
// always goes through the normalized key. A concept with a non-empty
// MergedInto is a tombstone: the row persists for referential history but is
// excluded from listings and graph output.
type Concept struct {
	ID                string    `json:"id"`
	ClassID           string    `json:"class_id"`
	CanonicalName     string    `json:"canonical_name"`
	NormalizedName    string    `json:"normalized_name"`
	ImportanceScore   float64   `json:"importance_score"`
	DifficultyLevel   float64   `json:"difficulty_level"`
	DocumentFrequency int       `json:"document_frequency"`
	MergedInto        string    `json:"merged_into,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ConceptAlias maps an observed surface form to a concept. Multiple aliases
// may point at the same concept; the normalized form is the lookup key.
type ConceptAlias struct {
	ID              string  `json:"id"`
	ClassID         string  `json:"class_id"`
	ConceptID       string  `json:"concept_id"`
	Alias           string  `json:"alias"`
	NormalizedAlias string  `json:"normalized_alias"`
	Confidence      float64 `json:"confidence"`
}

// ConceptEdge is a stored, typed relationship between two concepts of the
// same class. Weight is a reinforcement counter incremented every time the
// same (from, to, type) is proposed again.
type ConceptEdge struct {
	ID            string    `json:"id"`
	ClassID       string    `json:"class_id"`
	FromConceptID string    `json:"from_concept_id"`
	ToConceptID   string    `json:"to_concept_id"`
	Type          string    `json:"type"`
	Label         string    `json:"label"`
	Weight        int       `json:"weight"`
	Confidence    float64   `json:"confidence"`
	Evidence      []string  `json:"evidence"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DocMention records that a document evidenced a concept. It drives a
// concept's document frequency and survives concept merges (mentions are
// migrated to the kept concept).
type DocMention struct {
	ID           string `json:"id"`
	ClassID      string `json:"class_id"`
	DocumentID   string `json:"document_id"`
	ConceptID    string `json:"concept_id"`
	MentionCount int    `json:"mention_count"`
}

// GraphConcept is one kept concept in the extraction output, carrying the
// study metadata the oracle proposed alongside it.
type GraphConcept struct {
	Name            string   `json:"name"`
	Importance      string   `json:"importance"`
	Difficulty      string   `json:"difficulty"`
	Simple          string   `json:"simple"`
	Detailed        string   `json:"detailed"`
	Technical       string   `json:"technical"`
	Example         string   `json:"example"`
	CommonMistake   string   `json:"common_mistake"`
	UnitType        string   `json:"unit_type"`
	ImportanceScore int      `json:"importance_score"`
	Evidence        []string `json:"evidence"`
}

// GraphEdge is one sanitized, evidence-backed edge in the extraction output.
type GraphEdge struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Type       string   `json:"type"`
	Label      string   `json:"label"`
	Strength   int      `json:"strength"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
}

// GraphMeta describes how an extraction ran.
type GraphMeta struct {
	ExtractionMode     string  `json:"extraction_mode"`
	DocType            string  `json:"doc_type"`
	RouterConfidence   float64 `json:"router_confidence"`
	CandidatesProposed int     `json:"candidates_proposed"`
	ConceptsKept       int     `json:"concepts_kept"`
	EdgesKept          int     `json:"edges_kept"`
	ValidationAccepted bool    `json:"validation_accepted"`
}

// KnowledgeGraph is the per-document extraction result handed to the
// incremental mutator and to study-material generators.
type KnowledgeGraph struct {
	Concepts []GraphConcept `json:"concepts"`
	Edges    []GraphEdge    `json:"edges"`
	Meta     GraphMeta      `json:"meta"`
}
