package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/infohub-ai/knowledge-companion/internal/api/respond"
	"github.com/infohub-ai/knowledge-companion/internal/api/validate"
	"github.com/infohub-ai/knowledge-companion/internal/model"
	"github.com/infohub-ai/knowledge-companion/internal/services"
)

// ContactHandler is a thin HTTP transport over ContactService.
type ContactHandler struct {
	svc *services.ContactService
}

func NewContactHandler(svc *services.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

type contactOpRequest struct {
	Operation  string  `json:"operation"`
	CustomerID string  `json:"customerId"`
	ContactID  string  `json:"contactId"`
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Notes      *string `json:"notes"`
}

// ContactOperation POST /api/contacts dispatches add, update and delete on
// the operation tag.
func (h *ContactHandler) ContactOperation(w http.ResponseWriter, r *http.Request) {
	var req contactOpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	switch req.Operation {
	case "add":
		h.add(w, r, req)
	case "update":
		h.update(w, r, req)
	case "delete":
		h.delete(w, r, req)
	default:
		respond.WriteBadRequest(w, "unknown contact operation "+req.Operation)
	}
}

func (h *ContactHandler) add(w http.ResponseWriter, r *http.Request, req contactOpRequest) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		respond.WriteBadRequest(w, "invalid customer id")
		return
	}
	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	if err := validate.CreateContact(name, req.Email); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.Add(r.Context(), &model.Contact{
		CustomerID: customerID,
		Name:       name,
		Role:       req.Role,
		Email:      req.Email,
		Phone:      req.Phone,
		Notes:      req.Notes,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *ContactHandler) update(w http.ResponseWriter, r *http.Request, req contactOpRequest) {
	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		respond.WriteBadRequest(w, "invalid contact id")
		return
	}
	if err := validate.Email(req.Email); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.Update(r.Context(), model.ContactPatch{
		ContactID: contactID,
		Name:      req.Name,
		Role:      req.Role,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *ContactHandler) delete(w http.ResponseWriter, r *http.Request, req contactOpRequest) {
	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		respond.WriteBadRequest(w, "invalid contact id")
		return
	}
	if err := h.svc.Delete(r.Context(), contactID); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchContacts POST /api/contacts/search
func (h *ContactHandler) SearchContacts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string              `json:"customerId"`
		Filters    []model.FieldFilter `json:"filters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	var customerID *uuid.UUID
	if req.CustomerID != "" {
		parsed, err := uuid.Parse(req.CustomerID)
		if err != nil {
			respond.WriteBadRequest(w, "invalid customer id")
			return
		}
		customerID = &parsed
	}

	out, err := h.svc.Search(r.Context(), customerID, req.Filters)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"contacts": out, "count": len(out)})
}
