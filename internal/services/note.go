package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/infohub-ai/knowledge-companion/internal/embeddings"
	"github.com/infohub-ai/knowledge-companion/internal/llm"
	"github.com/infohub-ai/knowledge-companion/internal/model"
	"github.com/infohub-ai/knowledge-companion/internal/store"
)

// NoteService creates notes. The stored summary is derived from the full
// note text by the summarizer and is the source text for the embedding.
type NoteService struct {
	store store.Store
	emb   embeddings.Provider
	sum   llm.Summarizer
}

func NewNoteService(s store.Store, emb embeddings.Provider, sum llm.Summarizer) *NoteService {
	return &NoteService{store: s, emb: emb, sum: sum}
}

// Create summarizes the full note, embeds the summary and persists the
// note. Either provider failing aborts the write.
func (s *NoteService) Create(ctx context.Context, n *model.Note) (*model.Note, error) {
	if strings.TrimSpace(n.FullNote) == "" {
		return nil, fmt.Errorf("%w: note text is required", model.ErrValidation)
	}
	if strings.TrimSpace(n.Author) == "" {
		return nil, fmt.Errorf("%w: author is required", model.ErrValidation)
	}
	if n.NoteTime.IsZero() {
		n.NoteTime = time.Now().UTC()
	}

	summary, err := s.sum.Summarize(ctx, n.FullNote)
	if err != nil {
		return nil, err
	}
	vec, err := s.emb.Embed(ctx, summary)
	if err != nil {
		return nil, err
	}
	n.Summary = summary
	n.Embedding = vec
	return s.store.Notes().Create(ctx, n)
}

// ListByCustomer returns the customer's notes in insertion order.
func (s *NoteService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Note, error) {
	return s.store.Notes().ListByCustomer(ctx, customerID)
}
