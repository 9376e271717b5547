package api

import (
	"encoding/json"
	"net/http"

	"github.com/infohub-ai/knowledge-companion/internal/api/respond"
	"github.com/infohub-ai/knowledge-companion/internal/api/validate"
	"github.com/infohub-ai/knowledge-companion/internal/model"
	"github.com/infohub-ai/knowledge-companion/internal/services"
)

// SearchHandler is a thin HTTP transport over SearchService.
type SearchHandler struct {
	svc *services.SearchService
}

func NewSearchHandler(svc *services.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
	Kind  string `json:"kind"`
}

// HandleSearch POST /api/search ranks records of the requested kind and
// returns deduplicated owning customers, closest first.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.TopK == 0 {
		req.TopK = 5
	}
	if err := validate.Search(req.Query, req.TopK); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	kind, err := model.ParseKind(req.Kind)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	matches, err := h.svc.Search(r.Context(), req.Query, req.TopK, kind)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"matches": matches, "count": len(matches)})
}

// HandleCustomerSearch POST /api/customers/search is the alias-only search.
func (h *SearchHandler) HandleCustomerSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.TopK == 0 {
		req.TopK = 5
	}
	if err := validate.Search(req.Query, req.TopK); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	matches, err := h.svc.Search(r.Context(), req.Query, req.TopK, model.KindAlias)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"matches": matches, "count": len(matches)})
}
