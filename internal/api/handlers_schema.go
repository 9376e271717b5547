package api

import (
	"net/http"

	"github.com/infohub-ai/knowledge-companion/internal/api/respond"
	"github.com/infohub-ai/knowledge-companion/internal/store"
)

// SchemaHandler exposes table/column introspection.
type SchemaHandler struct {
	store store.Store
}

func NewSchemaHandler(st store.Store) *SchemaHandler { return &SchemaHandler{store: st} }

// GetSchema GET /api/schema
func (h *SchemaHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	tables, err := h.store.Schema(r.Context())
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"tables": tables})
}
