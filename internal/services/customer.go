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

// CustomerService orchestrates customer and alias use cases. It owns the
// write path for alias embeddings: every alias vector is generated here,
// before the store transaction opens, so a commit never carries a stale or
// missing embedding.
type CustomerService struct {
	store store.Store
	emb   embeddings.Provider
}

func NewCustomerService(s store.Store, emb embeddings.Provider) *CustomerService {
	return &CustomerService{store: s, emb: emb}
}

// Create inserts a customer with its seed aliases. The customer name is
// always an alias; duplicates in the request collapse to one row. Any
// embedding failure aborts the whole create.
func (s *CustomerService) Create(ctx context.Context, c *model.Customer, aliasTexts []string) (*model.Customer, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("%w: customer name is required", model.ErrValidation)
	}

	seen := map[string]bool{}
	texts := make([]string, 0, len(aliasTexts)+1)
	for _, t := range append([]string{c.Name}, aliasTexts...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		texts = append(texts, t)
	}

	aliases, err := s.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}
	return s.store.Customers().Create(ctx, c, aliases)
}

// Find filters customers by optional id and name substring.
func (s *CustomerService) Find(ctx context.Context, id *uuid.UUID, name string) ([]*model.Customer, error) {
	return s.store.Customers().Find(ctx, id, name)
}

// Rename changes the customer name. Alias rows (and their embeddings) are
// keyed on their own alias strings and stay untouched.
func (s *CustomerService) Rename(ctx context.Context, id uuid.UUID, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: customer name is required", model.ErrValidation)
	}
	return s.store.Customers().Rename(ctx, id, name)
}

// Delete removes the customer and cascades to all owned records.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Customers().Delete(ctx, id)
}

// AliasOperation applies a bulk alias operation. Adding embeds and inserts
// each text (duplicate texts produce duplicate rows); deleting removes rows
// matching the given texts; updating refreshes embeddings of matching rows,
// leaving the text unchanged.
func (s *CustomerService) AliasOperation(ctx context.Context, customerID uuid.UUID, op model.AliasOp, aliasTexts []string) error {
	if _, err := s.store.Customers().GetByID(ctx, customerID); err != nil {
		return err
	}
	if len(aliasTexts) == 0 {
		return fmt.Errorf("%w: aliases are required", model.ErrValidation)
	}

	switch op {
	case model.AliasAdd:
		aliases, err := s.embedAll(ctx, aliasTexts)
		if err != nil {
			return err
		}
		return s.store.Aliases().Add(ctx, customerID, aliases)

	case model.AliasDelete:
		_, err := s.store.Aliases().DeleteByText(ctx, customerID, aliasTexts)
		return err

	case model.AliasUpdate:
		for _, text := range aliasTexts {
			vec, err := s.emb.Embed(ctx, text)
			if err != nil {
				return err
			}
			// Rows without a matching text are skipped, not an error.
			if _, err := s.store.Aliases().RefreshEmbedding(ctx, customerID, text, vec); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: unknown alias operation %q", model.ErrValidation, op)
}

func (s *CustomerService) embedAll(ctx context.Context, texts []string) ([]model.CustomerAlias, error) {
	out := make([]model.CustomerAlias, 0, len(texts))
	for _, t := range texts {
		vec, err := s.emb.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, model.CustomerAlias{Alias: t, Embedding: vec})
	}
	return out, nil
}
