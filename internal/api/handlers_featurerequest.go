package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/infohub-ai/knowledge-companion/internal/api/respond"
	"github.com/infohub-ai/knowledge-companion/internal/model"
	"github.com/infohub-ai/knowledge-companion/internal/services"
)

// FeatureRequestHandler is a thin HTTP transport over FeatureRequestService.
type FeatureRequestHandler struct {
	svc *services.FeatureRequestService
}

func NewFeatureRequestHandler(svc *services.FeatureRequestService) *FeatureRequestHandler {
	return &FeatureRequestHandler{svc: svc}
}

type featureRequestOpRequest struct {
	Operation  string  `json:"operation"`
	CustomerID string  `json:"customerId"`
	RequestID  string  `json:"requestId"`
	RawInput   *string `json:"rawInput"`
	Priority   *string `json:"priority"`
	Status     *string `json:"status"`
}

// FeatureRequestOperation POST /api/feature-requests dispatches add, update
// and delete on the operation tag.
func (h *FeatureRequestHandler) FeatureRequestOperation(w http.ResponseWriter, r *http.Request) {
	var req featureRequestOpRequest
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
		respond.WriteBadRequest(w, "unknown feature request operation "+req.Operation)
	}
}

func (h *FeatureRequestHandler) add(w http.ResponseWriter, r *http.Request, req featureRequestOpRequest) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		respond.WriteBadRequest(w, "invalid customer id")
		return
	}
	rawInput, priority, status := "", "", ""
	if req.RawInput != nil {
		rawInput = *req.RawInput
	}
	if req.Priority != nil {
		priority = *req.Priority
	}
	if req.Status != nil {
		status = *req.Status
	}

	out, err := h.svc.Add(r.Context(), customerID, rawInput, priority, status)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

func (h *FeatureRequestHandler) update(w http.ResponseWriter, r *http.Request, req featureRequestOpRequest) {
	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		respond.WriteBadRequest(w, "invalid request id")
		return
	}
	out, err := h.svc.Update(r.Context(), model.FeatureRequestPatch{
		RequestID: requestID,
		RawInput:  req.RawInput,
		Priority:  req.Priority,
		Status:    req.Status,
	})
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func (h *FeatureRequestHandler) delete(w http.ResponseWriter, r *http.Request, req featureRequestOpRequest) {
	requestID, err := uuid.Parse(req.RequestID)
	if err != nil {
		respond.WriteBadRequest(w, "invalid request id")
		return
	}
	if err := h.svc.Delete(r.Context(), requestID); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
