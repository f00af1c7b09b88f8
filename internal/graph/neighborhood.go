package graph

import "jaybrain/internal/store"

// DefaultNeighborhoodDepth and MaxNeighborhoodDepth bound
// query_neighborhood's BFS traversal: a caller's requested depth is
// clamped to MaxNeighborhoodDepth regardless of what it asks for.
const (
	DefaultNeighborhoodDepth = 2
	MaxNeighborhoodDepth     = 5
)

// Neighborhood is the result shape query_neighborhood returns: the
// center entity, every entity reached within depth hops, every
// relationship touched along the way (including edges whose far
// endpoint was already visited), and the traversal's actual depth and
// counts.
type Neighborhood struct {
	Center            store.GraphEntity
	Entities          []store.GraphEntity
	Relationships     []store.GraphRelationship
	Depth             int
	EntityCount       int
	RelationshipCount int
}

// RelationshipFetcher is the store surface BuildNeighborhood needs: the
// edges touching one entity (either direction) and a lookup by id. The
// store satisfies this directly; it's named here so this package stays
// a pure function of its inputs rather than importing database types.
type RelationshipFetcher interface {
	Neighborhood(entityID string, limit int) ([]store.GraphRelationship, error)
	GetGraphEntity(id string) (*store.GraphEntity, error)
}

// neighborhoodFetchLimit is effectively "unlimited" for one BFS hop: an
// entity with more edges than this in one direction is not something
// query_neighborhood needs to truncate.
const neighborhoodFetchLimit = 100000

// BuildNeighborhood runs query_neighborhood's BFS: starting from center,
// expand outward one hop at a time up to min(depth, MaxNeighborhoodDepth),
// visiting each entity once but recording every relationship touched
// even when its other endpoint was already visited. entityType, if
// non-empty, filters which non-center entities appear in the returned
// Entities list; it does not prune the traversal itself, since edges
// may pass through entities of other types to reach ones that match.
func BuildNeighborhood(fetcher RelationshipFetcher, center store.GraphEntity, depth int, entityType string) (Neighborhood, error) {
	if depth <= 0 {
		depth = DefaultNeighborhoodDepth
	}
	if depth > MaxNeighborhoodDepth {
		depth = MaxNeighborhoodDepth
	}

	visited := map[string]store.GraphEntity{center.ID: center}
	seenRel := map[string]bool{}
	var allRels []store.GraphRelationship
	frontier := map[string]bool{center.ID: true}

	for i := 0; i < depth; i++ {
		next := map[string]bool{}
		for eid := range frontier {
			rels, err := fetcher.Neighborhood(eid, neighborhoodFetchLimit)
			if err != nil {
				return Neighborhood{}, err
			}
			for _, rel := range rels {
				if !seenRel[rel.ID] {
					seenRel[rel.ID] = true
					allRels = append(allRels, rel)
				}

				neighborID := rel.TargetEntityID
				if rel.SourceEntityID != eid {
					neighborID = rel.SourceEntityID
				}
				if _, ok := visited[neighborID]; ok {
					continue
				}
				neighbor, err := fetcher.GetGraphEntity(neighborID)
				if err != nil {
					return Neighborhood{}, err
				}
				if neighbor != nil {
					visited[neighborID] = *neighbor
					next[neighborID] = true
				}
			}
		}
		frontier = next
	}

	entities := make([]store.GraphEntity, 0, len(visited))
	for id, e := range visited {
		if entityType != "" && id != center.ID && e.EntityType != entityType {
			continue
		}
		entities = append(entities, e)
	}

	return Neighborhood{
		Center:            center,
		Entities:          entities,
		Relationships:     allRels,
		Depth:             depth,
		EntityCount:       len(entities),
		RelationshipCount: len(allRels),
	}, nil
}
