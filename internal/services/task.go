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

// TaskService creates tasks; the summary derived from the title is embedded.
type TaskService struct {
	store store.Store
	emb   embeddings.Provider
	sum   llm.Summarizer
}

func NewTaskService(s store.Store, emb embeddings.Provider, sum llm.Summarizer) *TaskService {
	return &TaskService{store: s, emb: emb, sum: sum}
}

// Create summarizes the title, embeds the summary and persists the task.
func (s *TaskService) Create(ctx context.Context, tk *model.Task) (*model.Task, error) {
	if strings.TrimSpace(tk.Title) == "" {
		return nil, fmt.Errorf("%w: task title is required", model.ErrValidation)
	}

	summary, err := s.sum.Summarize(ctx, tk.Title)
	if err != nil {
		return nil, err
	}
	vec, err := s.emb.Embed(ctx, summary)
	if err != nil {
		return nil, err
	}
	tk.Summary = summary
	tk.Embedding = vec
	return s.store.Tasks().Create(ctx, tk)
}

// ListByCustomer returns the customer's tasks in insertion order.
func (s *TaskService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Task, error) {
	return s.store.Tasks().ListByCustomer(ctx, customerID)
}
