package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/infohub-ai/knowledge-companion/internal/api/respond"
	"github.com/infohub-ai/knowledge-companion/internal/api/validate"
	"github.com/infohub-ai/knowledge-companion/internal/model"
	"github.com/infohub-ai/knowledge-companion/internal/services"
)

// CustomerHandler is a thin HTTP transport over CustomerService.
type CustomerHandler struct {
	svc *services.CustomerService
}

func NewCustomerHandler(svc *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// CreateCustomer POST /api/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                string   `json:"name"`
		Industry            *string  `json:"industry"`
		Size                *string  `json:"size"`
		Region              *string  `json:"region"`
		Status              *string  `json:"status"`
		JiraProjectKey      *string  `json:"jiraProjectKey"`
		SalesforceAccountID *string  `json:"salesforceAccountId"`
		MainpageURL         *string  `json:"mainpageUrl"`
		Aliases             []string `json:"aliases"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateCustomer(req.Name); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	c := &model.Customer{
		Name:                req.Name,
		Industry:            req.Industry,
		Size:                req.Size,
		Region:              req.Region,
		Status:              req.Status,
		JiraProjectKey:      req.JiraProjectKey,
		SalesforceAccountID: req.SalesforceAccountID,
		MainpageURL:         req.MainpageURL,
	}
	out, err := h.svc.Create(r.Context(), c, req.Aliases)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// FindCustomers GET /api/customers?id=&name=
func (h *CustomerHandler) FindCustomers(w http.ResponseWriter, r *http.Request) {
	var id *uuid.UUID
	if raw := r.URL.Query().Get("id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			respond.WriteBadRequest(w, "invalid customer id")
			return
		}
		id = &parsed
	}
	name := r.URL.Query().Get("name")

	out, err := h.svc.Find(r.Context(), id, name)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"customers": out, "count": len(out)})
}

// RenameCustomer PATCH /api/customers/{customerId}
func (h *CustomerHandler) RenameCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["customerId"])
	if err != nil {
		respond.WriteBadRequest(w, "invalid customer id")
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := h.svc.Rename(r.Context(), id, req.Name); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCustomer DELETE /api/customers/{customerId}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["customerId"])
	if err != nil {
		respond.WriteBadRequest(w, "invalid customer id")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AliasOperation POST /api/aliases
func (h *CustomerHandler) AliasOperation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Operation  string   `json:"operation"`
		CustomerID string   `json:"customerId"`
		Aliases    []string `json:"aliases"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	op, err := model.ParseAliasOp(req.Operation)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		respond.WriteBadRequest(w, "invalid customer id")
		return
	}
	if err := h.svc.AliasOperation(r.Context(), customerID, op, req.Aliases); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
