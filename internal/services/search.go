package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/infohub-ai/knowledge-companion/internal/embeddings"
	"github.com/infohub-ai/knowledge-companion/internal/model"
	"github.com/infohub-ai/knowledge-companion/internal/store"
)

// SearchService ranks stored records by distance to a query embedding and
// resolves them to deduplicated owning customers.
type SearchService struct {
	store store.Store
	emb   embeddings.Provider
}

func NewSearchService(s store.Store, emb embeddings.Provider) *SearchService {
	return &SearchService{store: s, emb: emb}
}

// Search embeds the query, ranks rows of the given kind by L2 distance and
// returns owning customers, closest first, one entry per customer at its
// best rank. An empty result set is not an error.
func (s *SearchService) Search(ctx context.Context, query string, topK int, kind model.Kind) ([]model.CustomerMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must not be blank", model.ErrValidation)
	}
	if topK < 1 {
		return nil, fmt.Errorf("%w: topK must be >= 1, got %d", model.ErrValidation, topK)
	}

	vec, err := s.emb.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := s.store.Neighbors().Nearest(ctx, kind, vec, topK)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	// Hits arrive ordered by (distance, insertion order). The first hit per
	// customer is therefore that customer's best rank.
	best := make(map[uuid.UUID]float64, len(hits))
	order := make([]uuid.UUID, 0, len(hits))
	for _, h := range hits {
		if _, seen := best[h.CustomerID]; seen {
			continue
		}
		best[h.CustomerID] = h.Distance
		order = append(order, h.CustomerID)
	}

	customers, err := s.store.Customers().GetByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	out := make([]model.CustomerMatch, 0, len(order))
	for _, id := range order {
		c, ok := byID[id]
		if !ok {
			// Row deleted between ranking and resolution; skip.
			continue
		}
		out = append(out, model.CustomerMatch{Customer: c, Distance: best[id]})
	}
	return out, nil
}
