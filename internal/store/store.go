package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/infohub-ai/knowledge-companion/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., postgres).
//
// Embedding columns are written exclusively through these interfaces; the
// caller supplies vectors computed before the enclosing transaction opens so
// a committed row is never visible with a stale embedding.
type Store interface {
	Customers() Customers
	Aliases() Aliases
	Contacts() Contacts
	Notes() Notes
	Tasks() Tasks
	FeatureRequests() FeatureRequests
	Neighbors() Neighbors

	// Schema lists tables and columns for the introspection endpoint.
	Schema(ctx context.Context) ([]model.TableSchema, error)
}

type Customers interface {
	// Create inserts the customer and its seed aliases in one transaction.
	Create(ctx context.Context, c *model.Customer, aliases []model.CustomerAlias) (*model.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Customer, error)
	// Find filters by optional id and case-insensitive name substring.
	Find(ctx context.Context, id *uuid.UUID, name string) ([]*model.Customer, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	// Delete removes the customer; owned records cascade.
	Delete(ctx context.Context, id uuid.UUID) error
}

type Aliases interface {
	// Add inserts all aliases in one transaction.
	Add(ctx context.Context, customerID uuid.UUID, aliases []model.CustomerAlias) error
	// DeleteByText removes alias rows whose text is in the given set.
	DeleteByText(ctx context.Context, customerID uuid.UUID, texts []string) (int64, error)
	// RefreshEmbedding replaces the embedding of the alias row matching the
	// text, leaving the text unchanged. Returns false when no row matched.
	RefreshEmbedding(ctx context.Context, customerID uuid.UUID, alias string, vec []float32) (bool, error)
}

type Contacts interface {
	Create(ctx context.Context, c *model.Contact) (*model.Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	// Update writes all mutable fields including the embedding.
	Update(ctx context.Context, c *model.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, customerID *uuid.UUID, filters []model.FieldFilter) ([]*model.Contact, error)
}

type Notes interface {
	Create(ctx context.Context, n *model.Note) (*model.Note, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Note, error)
}

type Tasks interface {
	Create(ctx context.Context, tk *model.Task) (*model.Task, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*model.Task, error)
}

type FeatureRequests interface {
	Create(ctx context.Context, fr *model.FeatureRequest) (*model.FeatureRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.FeatureRequest, error)
	Update(ctx context.Context, fr *model.FeatureRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Neighbors ranks embeddable rows of one kind by L2 distance to a query
// vector. Rows with NULL embeddings are excluded; ties break on insertion
// order (first inserted wins).
type Neighbors interface {
	Nearest(ctx context.Context, kind model.Kind, vec []float32, topK int) ([]model.NearestHit, error)
}
