package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/infohub-ai/knowledge-companion/internal/embeddings"
	"github.com/infohub-ai/knowledge-companion/internal/llm"
	"github.com/infohub-ai/knowledge-companion/internal/model"
	"github.com/infohub-ai/knowledge-companion/internal/store"
)

// FeatureRequestService turns raw feature-request text into a titled,
// summarized, embedded record.
type FeatureRequestService struct {
	store store.Store
	emb   embeddings.Provider
	sum   llm.Summarizer
}

func NewFeatureRequestService(s store.Store, emb embeddings.Provider, sum llm.Summarizer) *FeatureRequestService {
	return &FeatureRequestService{store: s, emb: emb, sum: sum}
}

// Add derives title and summary from the raw input, embeds the summary and
// persists the request. Both provider calls must succeed before anything is
// written.
func (s *FeatureRequestService) Add(ctx context.Context, customerID uuid.UUID, rawInput, priority, status string) (*model.FeatureRequest, error) {
	if strings.TrimSpace(rawInput) == "" {
		return nil, fmt.Errorf("%w: raw input is required", model.ErrValidation)
	}
	if _, err := s.store.Customers().GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	if priority == "" {
		priority = "unspecified"
	}
	if status == "" {
		status = "new"
	}

	ts, err := s.sum.SummarizeStructured(ctx, rawInput)
	if err != nil {
		return nil, err
	}
	vec, err := s.emb.Embed(ctx, ts.Summary)
	if err != nil {
		return nil, err
	}

	return s.store.FeatureRequests().Create(ctx, &model.FeatureRequest{
		CustomerID: customerID,
		Title:      ts.Title,
		RawInput:   rawInput,
		Summary:    ts.Summary,
		Priority:   priority,
		Status:     status,
		Embedding:  vec,
	})
}

// Update applies a partial update. A changed raw input re-derives title,
// summary and embedding; priority/status changes alone skip both providers.
func (s *FeatureRequestService) Update(ctx context.Context, patch model.FeatureRequestPatch) (*model.FeatureRequest, error) {
	fr, err := s.store.FeatureRequests().GetByID(ctx, patch.RequestID)
	if err != nil {
		return nil, err
	}

	fr.Embedding = nil
	if patch.RawInput != nil && *patch.RawInput != fr.RawInput {
		if strings.TrimSpace(*patch.RawInput) == "" {
			return nil, fmt.Errorf("%w: raw input is required", model.ErrValidation)
		}
		ts, err := s.sum.SummarizeStructured(ctx, *patch.RawInput)
		if err != nil {
			return nil, err
		}
		vec, err := s.emb.Embed(ctx, ts.Summary)
		if err != nil {
			return nil, err
		}
		fr.RawInput = *patch.RawInput
		fr.Title = ts.Title
		fr.Summary = ts.Summary
		fr.Embedding = vec
	}
	if patch.Priority != nil {
		fr.Priority = *patch.Priority
	}
	if patch.Status != nil {
		fr.Status = *patch.Status
	}

	if err := s.store.FeatureRequests().Update(ctx, fr); err != nil {
		return nil, err
	}
	return fr, nil
}

// Delete removes a feature request by id.
func (s *FeatureRequestService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.FeatureRequests().Delete(ctx, id)
}
