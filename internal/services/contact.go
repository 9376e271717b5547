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

// ContactService manages contacts; the contact name carries the embedding.
type ContactService struct {
	store store.Store
	emb   embeddings.Provider
}

func NewContactService(s store.Store, emb embeddings.Provider) *ContactService {
	return &ContactService{store: s, emb: emb}
}

// Add creates a new contact with its name embedding.
func (s *ContactService) Add(ctx context.Context, c *model.Contact) (*model.Contact, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("%w: contact name is required", model.ErrValidation)
	}
	vec, err := s.emb.Embed(ctx, c.Name)
	if err != nil {
		return nil, err
	}
	c.Embedding = vec
	return s.store.Contacts().Create(ctx, c)
}

// Update applies a partial update. The embedding is regenerated only when
// the name actually changes; other field changes skip the provider call.
func (s *ContactService) Update(ctx context.Context, patch model.ContactPatch) (*model.Contact, error) {
	c, err := s.store.Contacts().GetByID(ctx, patch.ContactID)
	if err != nil {
		return nil, err
	}

	nameChanged := false
	if patch.Name != nil && *patch.Name != c.Name {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("%w: contact name is required", model.ErrValidation)
		}
		c.Name = *patch.Name
		nameChanged = true
	}
	if patch.Role != nil {
		c.Role = patch.Role
	}
	if patch.Email != nil {
		c.Email = patch.Email
	}
	if patch.Phone != nil {
		c.Phone = patch.Phone
	}
	if patch.Notes != nil {
		c.Notes = patch.Notes
	}

	c.Embedding = nil
	if nameChanged {
		vec, err := s.emb.Embed(ctx, c.Name)
		if err != nil {
			return nil, err
		}
		c.Embedding = vec
	}

	if err := s.store.Contacts().Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a contact by id.
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Contacts().Delete(ctx, id)
}

// Search applies the optional customer filter plus dynamic field filters.
func (s *ContactService) Search(ctx context.Context, customerID *uuid.UUID, filters []model.FieldFilter) ([]*model.Contact, error) {
	return s.store.Contacts().Search(ctx, customerID, filters)
}
