package memory

import (
	"context"
	"sync"
	"time"

	"github.com/studyatlas/backend/pkg/common"
	"github.com/studyatlas/backend/pkg/store"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ConceptMemoryStore is an in-memory store.ConceptStore used in tests and
// local experiments. It applies the same lookup-or-create discipline as the
// Postgres implementation under a single mutex.
type ConceptMemoryStore struct {
	mu       sync.Mutex
	concepts map[string]common.Concept
	edges    map[string]common.ConceptEdge
	mentions map[string]common.DocMention
	aliases  map[string]common.ConceptAlias
}

// NewConceptMemoryStore creates an empty in-memory concept store.
func NewConceptMemoryStore() *ConceptMemoryStore {
	return &ConceptMemoryStore{
		concepts: make(map[string]common.Concept),
		edges:    make(map[string]common.ConceptEdge),
		mentions: make(map[string]common.DocMention),
		aliases:  make(map[string]common.ConceptAlias),
	}
}

func (s *ConceptMemoryStore) GetOrCreateConcept(ctx context.Context, proto common.Concept) (common.Concept, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.concepts {
		if c.ClassID == proto.ClassID && c.NormalizedName == proto.NormalizedName {
			return c, false, nil
		}
	}

	id, err := gonanoid.New()
	if err != nil {
		return common.Concept{}, false, err
	}
	proto.ID = id
	now := time.Now().UTC()
	proto.CreatedAt = now
	proto.UpdatedAt = now
	s.concepts[id] = proto
	return proto, true, nil
}

func (s *ConceptMemoryStore) GetConcept(ctx context.Context, conceptID string) (common.Concept, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.concepts[conceptID]
	if !ok {
		return common.Concept{}, store.ErrNotFound
	}
	return c, nil
}

func (s *ConceptMemoryStore) UpdateConceptFrequency(ctx context.Context, conceptID string, documentFrequency int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.concepts[conceptID]
	if !ok {
		return store.ErrNotFound
	}
	c.DocumentFrequency = documentFrequency
	c.UpdatedAt = time.Now().UTC()
	s.concepts[conceptID] = c
	return nil
}

func (s *ConceptMemoryStore) UpdateConceptScores(ctx context.Context, conceptID string, importance float64, difficulty float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.concepts[conceptID]
	if !ok {
		return store.ErrNotFound
	}
	c.ImportanceScore = importance
	c.DifficultyLevel = difficulty
	c.UpdatedAt = time.Now().UTC()
	s.concepts[conceptID] = c
	return nil
}

func (s *ConceptMemoryStore) MarkConceptMerged(ctx context.Context, conceptID string, keepID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.concepts[conceptID]
	if !ok {
		return store.ErrNotFound
	}
	c.MergedInto = keepID
	c.UpdatedAt = time.Now().UTC()
	s.concepts[conceptID] = c
	return nil
}

func (s *ConceptMemoryStore) ListConcepts(ctx context.Context, classID string) ([]common.Concept, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]common.Concept, 0)
	for _, c := range s.concepts {
		if c.ClassID == classID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *ConceptMemoryStore) GetOrCreateEdge(ctx context.Context, proto common.ConceptEdge) (common.ConceptEdge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.edges {
		if e.ClassID == proto.ClassID &&
			e.FromConceptID == proto.FromConceptID &&
			e.ToConceptID == proto.ToConceptID &&
			e.Type == proto.Type {
			return e, false, nil
		}
	}

	id, err := gonanoid.New()
	if err != nil {
		return common.ConceptEdge{}, false, err
	}
	proto.ID = id
	now := time.Now().UTC()
	proto.CreatedAt = now
	proto.UpdatedAt = now
	s.edges[id] = proto
	return proto, true, nil
}

func (s *ConceptMemoryStore) UpdateEdge(ctx context.Context, edgeID string, weight int, label string, confidence float64, evidence []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.edges[edgeID]
	if !ok {
		return store.ErrNotFound
	}
	e.Weight = weight
	if label != "" {
		e.Label = label
	}
	if confidence > 0 {
		e.Confidence = confidence
	}
	if len(evidence) > 0 {
		e.Evidence = evidence
	}
	e.UpdatedAt = time.Now().UTC()
	s.edges[edgeID] = e
	return nil
}

func (s *ConceptMemoryStore) ListEdges(ctx context.Context, classID string) ([]common.ConceptEdge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]common.ConceptEdge, 0)
	for _, e := range s.edges {
		if e.ClassID == classID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *ConceptMemoryStore) DeleteWeakRelatedEdges(ctx context.Context, classID string, weightBelow int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, e := range s.edges {
		if e.ClassID == classID && e.Type == common.EdgeTypeRelated && e.Weight < weightBelow {
			delete(s.edges, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *ConceptMemoryStore) UpsertMention(ctx context.Context, classID string, documentID string, conceptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, m := range s.mentions {
		if m.DocumentID == documentID && m.ConceptID == conceptID {
			m.MentionCount++
			s.mentions[id] = m
			return nil
		}
	}

	id, err := gonanoid.New()
	if err != nil {
		return err
	}
	s.mentions[id] = common.DocMention{
		ID:           id,
		ClassID:      classID,
		DocumentID:   documentID,
		ConceptID:    conceptID,
		MentionCount: 1,
	}
	return nil
}

func (s *ConceptMemoryStore) ListMentions(ctx context.Context, classID string) ([]common.DocMention, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]common.DocMention, 0)
	for _, m := range s.mentions {
		if m.ClassID == classID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *ConceptMemoryStore) MoveMentions(ctx context.Context, fromConceptID string, toConceptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, m := range s.mentions {
		if m.ConceptID == fromConceptID {
			m.ConceptID = toConceptID
			s.mentions[id] = m
		}
	}
	return nil
}

func (s *ConceptMemoryStore) UpsertAlias(ctx context.Context, alias common.ConceptAlias) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.aliases {
		if a.ClassID == alias.ClassID && a.NormalizedAlias == alias.NormalizedAlias && a.ConceptID == alias.ConceptID {
			return nil
		}
	}

	id, err := gonanoid.New()
	if err != nil {
		return err
	}
	alias.ID = id
	s.aliases[id] = alias
	return nil
}

func (s *ConceptMemoryStore) ListAliases(ctx context.Context, classID string) ([]common.ConceptAlias, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]common.ConceptAlias, 0)
	for _, a := range s.aliases {
		if a.ClassID == classID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *ConceptMemoryStore) MoveAliases(ctx context.Context, fromConceptID string, toConceptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range s.aliases {
		if a.ConceptID == fromConceptID {
			a.ConceptID = toConceptID
			s.aliases[id] = a
		}
	}
	return nil
}
