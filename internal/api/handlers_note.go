package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/infohub-ai/knowledge-companion/internal/api/respond"
	"github.com/infohub-ai/knowledge-companion/internal/model"
	"github.com/infohub-ai/knowledge-companion/internal/services"
)

// NoteHandler is a thin HTTP transport over NoteService.
type NoteHandler struct {
	svc *services.NoteService
}

func NewNoteHandler(svc *services.NoteService) *NoteHandler { return &NoteHandler{svc: svc} }

// CreateNote POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string     `json:"customerId"`
		Author     string     `json:"author"`
		Timestamp  *time.Time `json:"timestamp"`
		Category   string     `json:"category"`
		FullNote   string     `json:"fullNote"`
		Tags       []string   `json:"tags"`
		Source     string     `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		respond.WriteBadRequest(w, "invalid customer id")
		return
	}

	n := &model.Note{
		CustomerID: customerID,
		Author:     req.Author,
		Category:   req.Category,
		FullNote:   req.FullNote,
		Tags:       req.Tags,
		Source:     req.Source,
	}
	if req.Timestamp != nil {
		n.NoteTime = *req.Timestamp
	}
	out, err := h.svc.Create(r.Context(), n)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListNotes GET /api/notes?customerId=
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(r.URL.Query().Get("customerId"))
	if err != nil {
		respond.WriteBadRequest(w, "invalid customer id")
		return
	}
	out, err := h.svc.ListByCustomer(r.Context(), customerID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"notes": out, "count": len(out)})
}
