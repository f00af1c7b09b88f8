// Package graph implements the knowledge graph's merge-on-conflict
// rules (C8): when add_entity/add_relationship see an existing row for
// the same (name, entity_type) or (source, target, rel_type), they
// union rather than overwrite.
package graph

import "jaybrain/internal/store"

// MergeEntity combines an incoming entity observation into an existing
// one: aliases and memory_ids are unioned, the description is
// overwritten whenever the incoming observation supplies a non-empty
// one (an empty incoming description leaves the existing one alone),
// and properties are shallow-merged with the incoming values taking
// precedence on key conflicts.
func MergeEntity(existing, incoming store.GraphEntity) store.GraphEntity {
	merged := existing
	merged.Aliases = unionStrings(existing.Aliases, incoming.Aliases)
	merged.MemoryIDs = unionStrings(existing.MemoryIDs, incoming.MemoryIDs)

	if incoming.Description != "" {
		merged.Description = incoming.Description
	}

	merged.Properties = mergeProperties(existing.Properties, incoming.Properties)
	return merged
}

// MergeRelationship combines an incoming edge observation into an
// existing one: evidence_ids are unioned, weight is overwritten
// (clamped to [0,1]) whenever the incoming observation supplies one —
// a zero incoming weight means "not provided" and the existing weight
// survives — and properties are shallow-merged.
func MergeRelationship(existing, incoming store.GraphRelationship) store.GraphRelationship {
	merged := existing
	merged.EvidenceIDs = unionStrings(existing.EvidenceIDs, incoming.EvidenceIDs)

	if incoming.Weight != 0 {
		weight := incoming.Weight
		if weight > 1 {
			weight = 1
		}
		if weight < 0 {
			weight = 0
		}
		merged.Weight = weight
	}

	merged.Properties = mergeProperties(existing.Properties, incoming.Properties)
	return merged
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func mergeProperties(existing, incoming map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(incoming))
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	return out
}
