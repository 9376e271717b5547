package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EmbeddingDim is the fixed width of every stored embedding vector.
const EmbeddingDim = 1024

// Customer is the parent entity that owns all embeddable records.
type Customer struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Industry            *string   `json:"industry,omitempty"`
	Size                *string   `json:"size,omitempty"`
	Region              *string   `json:"region,omitempty"`
	Status              *string   `json:"status,omitempty"`
	JiraProjectKey      *string   `json:"jiraProjectKey,omitempty"`
	SalesforceAccountID *string   `json:"salesforceAccountId,omitempty"`
	MainpageURL         *string   `json:"mainpageUrl,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
	Aliases             []string  `json:"aliases,omitempty"`
}

// CustomerAlias is an embeddable record keyed on its alias string.
type CustomerAlias struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	Alias      string    `json:"alias"`
	Embedding  []float32 `json:"-"`
}

// Contact belongs to a customer; the name carries the embedding.
type Contact struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	Name       string    `json:"name"`
	Role       *string   `json:"role,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	Embedding  []float32 `json:"-"`
}

// Note stores a free-form note plus its LLM summary; the summary is the
// embedded source text.
type Note struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	Author     string    `json:"author"`
	NoteTime   time.Time `json:"timestamp"`
	Category   string    `json:"category,omitempty"`
	Summary    string    `json:"summary"`
	FullNote   string    `json:"fullNote"`
	Tags       []string  `json:"tags,omitempty"`
	Source     string    `json:"source,omitempty"`
	Embedding  []float32 `json:"-"`
}

// Task belongs to a customer; the summary derived from the title is embedded.
type Task struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	Title      string    `json:"title"`
	DueDate    time.Time `json:"dueDate"`
	Status     string    `json:"status"`
	AssignedTo string    `json:"assignedTo"`
	Summary    string    `json:"summary"`
	Embedding  []float32 `json:"-"`
}

// FeatureRequest carries the raw input plus the LLM-derived title and
// summary; the summary is embedded.
type FeatureRequest struct {
	ID                uuid.UUID  `json:"id"`
	CustomerID        uuid.UUID  `json:"customerId"`
	Title             string     `json:"title"`
	RawInput          string     `json:"rawInput"`
	Summary           string     `json:"summary"`
	Priority          string     `json:"priority"`
	Status            string     `json:"status"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	InternalNotes     *string    `json:"internalNotes,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	Embedding         []float32  `json:"-"`
}

// Kind identifies which embeddable table a similarity search ranks over.
type Kind string

const (
	KindAlias          Kind = "alias"
	KindContact        Kind = "contact"
	KindNote           Kind = "note"
	KindTask           Kind = "task"
	KindFeatureRequest Kind = "feature_request"
)

// ParseKind maps a request tag to a Kind, rejecting unknown tags.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAlias, KindContact, KindNote, KindTask, KindFeatureRequest:
		return Kind(s), nil
	case "":
		return KindAlias, nil
	}
	return "", fmt.Errorf("%w: unknown search kind %q", ErrValidation, s)
}

// AliasOp tags a bulk alias operation.
type AliasOp string

const (
	AliasAdd    AliasOp = "add"
	AliasDelete AliasOp = "delete"
	AliasUpdate AliasOp = "update"
)

// ParseAliasOp maps a request tag to an AliasOp, rejecting unknown tags.
func ParseAliasOp(s string) (AliasOp, error) {
	switch AliasOp(s) {
	case AliasAdd, AliasDelete, AliasUpdate:
		return AliasOp(s), nil
	}
	return "", fmt.Errorf("%w: unknown alias operation %q", ErrValidation, s)
}

// NearestHit is one ranked row from the vector distance query. Seq is the
// monotonic insertion sequence used as the stable tie-break.
type NearestHit struct {
	RecordID   uuid.UUID `json:"recordId"`
	CustomerID uuid.UUID `json:"customerId"`
	SourceText string    `json:"sourceText"`
	Distance   float64   `json:"distance"`
	Seq        int64     `json:"-"`
}

// CustomerMatch is a deduplicated search result: the owning customer at its
// best (smallest) distance among matching rows.
type CustomerMatch struct {
	Customer *Customer `json:"customer"`
	Distance float64   `json:"distance"`
}

// ContactPatch carries a partial contact update; nil fields are unchanged.
type ContactPatch struct {
	ContactID uuid.UUID `json:"contactId"`
	Name      *string   `json:"name,omitempty"`
	Role      *string   `json:"role,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
}

// FeatureRequestPatch carries a partial feature-request update; a changed
// RawInput re-derives title, summary and embedding.
type FeatureRequestPatch struct {
	RequestID uuid.UUID `json:"requestId"`
	RawInput  *string   `json:"rawInput,omitempty"`
	Priority  *string   `json:"priority,omitempty"`
	Status    *string   `json:"status,omitempty"`
}

// FieldFilter is one dynamic ilike filter applied to contact search.
type FieldFilter struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// TableSchema describes one table for the introspection endpoint.
type TableSchema struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
}
