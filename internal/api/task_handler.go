package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskline/taskline-api/internal/api/shared"
	"github.com/taskline/taskline-api/internal/domain"
	"github.com/taskline/taskline-api/internal/service"
)

// TaskHandler serves the /api/tasks endpoints.
type TaskHandler struct {
	taskService *service.TaskService
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := shared.ValidateRequest(&req); details != nil {
		shared.RespondWithValidationError(w, details)
		return
	}

	task, err := h.taskService.Create(r.Context(), user.ID, service.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		Priority:     domain.Priority(req.Priority),
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusCreated, TaskMessageResponse{
		Message: "Task created successfully",
		Task:    task,
	})
}

// List handles GET /api/tasks with filter, sort, and pagination query
// parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseTaskQuery(r)
	if err != nil {
		shared.RespondWithError(w, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	page, err := h.taskService.List(r.Context(), filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, TaskListResponse{
		Tasks:      page.Tasks,
		Total:      page.Total,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	})
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, TaskResponse{Task: task})
}

// Update handles PUT /api/tasks/{id}. Any authenticated user may update
// any task; only deletion is restricted to the creator.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := shared.ValidateRequest(&req); details != nil {
		shared.RespondWithValidationError(w, details)
		return
	}

	task, err := h.taskService.Update(r.Context(), id, req.ToUpdate())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, TaskMessageResponse{
		Message: "Task updated successfully",
		Task:    task,
	})
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	id, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), id, user.ID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

// Dashboard handles GET /api/tasks/dashboard.
func (h *TaskHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, http.StatusUnauthorized, "Access token required")
		return
	}

	dashboard, err := h.taskService.Dashboard(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, http.StatusOK, DashboardResponse{
		AssignedTasks: dashboard.AssignedTasks,
		CreatedTasks:  dashboard.CreatedTasks,
		OverdueTasks:  dashboard.OverdueTasks,
	})
}

// Users handles GET /api/tasks/users, the assignment picker source.
func (h *TaskHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.taskService.Users(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, http.StatusOK, UsersResponse{Users: users})
}

// taskIDParam parses the {id} route parameter, writing a 400 response on
// failure.
func taskIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, http.StatusBadRequest, "Invalid task ID")
		return uuid.Nil, false
	}
	return id, true
}
