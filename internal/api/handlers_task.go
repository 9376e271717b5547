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

// TaskHandler is a thin HTTP transport over TaskService.
type TaskHandler struct {
	svc *services.TaskService
}

func NewTaskHandler(svc *services.TaskService) *TaskHandler { return &TaskHandler{svc: svc} }

// CreateTask POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID string     `json:"customerId"`
		Title      string     `json:"title"`
		DueDate    *time.Time `json:"dueDate"`
		Status     string     `json:"status"`
		AssignedTo string     `json:"assignedTo"`
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

	tk := &model.Task{
		CustomerID: customerID,
		Title:      req.Title,
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
	}
	if req.DueDate != nil {
		tk.DueDate = *req.DueDate
	}
	out, err := h.svc.Create(r.Context(), tk)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListTasks GET /api/tasks?customerId=
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
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
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"tasks": out, "count": len(out)})
}
