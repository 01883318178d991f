package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyatlas/backend/pkg/common"
	"github.com/studyatlas/backend/pkg/logger"
	"github.com/studyatlas/backend/pkg/store"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	aliasConfidenceNew      = 0.95
	aliasConfidenceReattach = 0.8
)

// conceptResolver maps normalized surface forms to live concept IDs for one
// class, following merged_into chains so tombstoned concepts never receive
// new data.
type conceptResolver struct {
	byKey  map[string]string
	merged map[string]string
}

func newConceptResolver(concepts []common.Concept, aliases []common.ConceptAlias) *conceptResolver {
	r := &conceptResolver{
		byKey:  make(map[string]string, len(concepts)+len(aliases)),
		merged: make(map[string]string),
	}
	for _, c := range concepts {
		if c.MergedInto != "" {
			r.merged[c.ID] = c.MergedInto
		}
		if _, ok := r.byKey[c.NormalizedName]; !ok {
			r.byKey[c.NormalizedName] = c.ID
		}
	}
	// Aliases win over canonical names; a reattached alias is a deliberate
	// statement that the surface form belongs to that concept.
	for _, a := range aliases {
		r.byKey[a.NormalizedAlias] = a.ConceptID
	}
	return r
}

// resolve returns the live concept ID for a normalized key, or "".
func (r *conceptResolver) resolve(key string) string {
	id := r.byKey[key]
	for hops := 0; id != "" && hops < 10; hops++ {
		next, ok := r.merged[id]
		if !ok {
			return id
		}
		id = next
	}
	return id
}

func (r *conceptResolver) add(key string, conceptID string) {
	r.byKey[key] = conceptID
}

// UpdateClassGraph applies one document's extraction result to the stored
// class graph: concepts are resolved through aliases and canonical names or
// created, mentions and document frequencies are updated, and typed edges
// are inserted or reinforced. It then runs the reinforcement pass.
//
// Row-level failures are logged and skipped so a single bad row cannot lose
// the rest of a document's extraction.
func (g *GraphClient) UpdateClassGraph(
	ctx context.Context,
	st store.ConceptStore,
	classID string,
	documentID string,
	kg *common.KnowledgeGraph,
) error {
	if classID == "" || documentID == "" {
		return fmt.Errorf("classID and documentID are required")
	}
	if kg == nil || len(kg.Concepts) == 0 {
		return nil
	}

	concepts, err := st.ListConcepts(ctx, classID)
	if err != nil {
		return fmt.Errorf("failed to list concepts for class %s: %w", classID, err)
	}
	aliases, err := st.ListAliases(ctx, classID)
	if err != nil {
		return fmt.Errorf("failed to list aliases for class %s: %w", classID, err)
	}
	resolver := newConceptResolver(concepts, aliases)

	knownAliases := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		knownAliases[a.NormalizedAlias] = true
	}

	var touched []string
	for _, gc := range kg.Concepts {
		name := strings.TrimSpace(gc.Name)
		key := NormalizeName(name)
		if key == "" {
			continue
		}

		conceptID := resolver.resolve(key)
		if conceptID != "" {
			c, err := st.GetConcept(ctx, conceptID)
			if err != nil {
				logger.Warn("Skipping concept, lookup failed",
					"class", classID, "concept", conceptID, "error", err)
				continue
			}
			if err := st.UpdateConceptFrequency(ctx, conceptID, c.DocumentFrequency+1); err != nil {
				logger.Warn("Failed to bump document frequency",
					"class", classID, "concept", conceptID, "error", err)
			}
			if !knownAliases[key] {
				if err := upsertAlias(ctx, st, classID, conceptID, name, key, aliasConfidenceReattach); err != nil {
					logger.Warn("Failed to reattach alias",
						"class", classID, "alias", name, "error", err)
				} else {
					knownAliases[key] = true
				}
			}
		} else {
			id, err := gonanoid.New()
			if err != nil {
				return err
			}
			created, _, err := st.GetOrCreateConcept(ctx, common.Concept{
				ID:                id,
				ClassID:           classID,
				CanonicalName:     name,
				NormalizedName:    key,
				ImportanceScore:   0.1,
				DifficultyLevel:   DifficultyValue(gc.Difficulty),
				DocumentFrequency: 1,
			})
			if err != nil {
				logger.Warn("Failed to create concept",
					"class", classID, "name", name, "error", err)
				continue
			}
			conceptID = created.ID
			resolver.add(key, conceptID)
			if err := upsertAlias(ctx, st, classID, conceptID, name, key, aliasConfidenceNew); err != nil {
				logger.Warn("Failed to create alias",
					"class", classID, "alias", name, "error", err)
			} else {
				knownAliases[key] = true
			}
		}

		if err := st.UpsertMention(ctx, classID, documentID, conceptID); err != nil {
			logger.Warn("Failed to record mention",
				"class", classID, "document", documentID, "concept", conceptID, "error", err)
		}
		touched = append(touched, conceptID)
	}

	if len(touched) == 0 {
		return nil
	}

	for _, e := range kg.Edges {
		fromID := resolver.resolve(NormalizeName(e.From))
		toID := resolver.resolve(NormalizeName(e.To))
		if fromID == "" || toID == "" || fromID == toID {
			continue
		}
		if !common.AllowedEdgeTypes[e.Type] {
			continue
		}
		if err := reinforceEdge(ctx, st, classID, fromID, toID, e.Type, e.Label, e.Confidence, e.Evidence); err != nil {
			logger.Warn("Failed to store edge",
				"class", classID, "from", fromID, "to", toID, "type", e.Type, "error", err)
		}
	}

	return g.ReinforceAfterUpload(ctx, st, classID, touched)
}

func upsertAlias(
	ctx context.Context,
	st store.ConceptStore,
	classID string,
	conceptID string,
	alias string,
	key string,
	confidence float64,
) error {
	id, err := gonanoid.New()
	if err != nil {
		return err
	}
	return st.UpsertAlias(ctx, common.ConceptAlias{
		ID:              id,
		ClassID:         classID,
		ConceptID:       conceptID,
		Alias:           alias,
		NormalizedAlias: key,
		Confidence:      confidence,
	})
}

// reinforceEdge inserts the (from, to, type) edge with weight 1, or bumps
// the weight of the existing row. Label, confidence and evidence only
// overwrite on reinforcement when the new proposal carries them.
func reinforceEdge(
	ctx context.Context,
	st store.ConceptStore,
	classID string,
	fromID string,
	toID string,
	edgeType string,
	label string,
	confidence float64,
	evidence []string,
) error {
	id, err := gonanoid.New()
	if err != nil {
		return err
	}
	edge, created, err := st.GetOrCreateEdge(ctx, common.ConceptEdge{
		ID:            id,
		ClassID:       classID,
		FromConceptID: fromID,
		ToConceptID:   toID,
		Type:          edgeType,
		Label:         label,
		Weight:        1,
		Confidence:    confidence,
		Evidence:      evidence,
	})
	if err != nil {
		return err
	}
	if created {
		return nil
	}
	return st.UpdateEdge(ctx, edge.ID, edge.Weight+1, label, confidence, evidence)
}
