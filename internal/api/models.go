package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/taskline/taskline-api/internal/domain"
	"github.com/taskline/taskline-api/internal/store"
)

// Nullable distinguishes a JSON field that was absent from one that was
// explicitly null. Set is true when the field appeared in the payload;
// Valid is true when it carried a non-null value.
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON is only invoked for fields present in the payload, so
// Set reflects presence and null leaves Valid false.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the payload for PUT /api/auth/profile.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

// CreateTaskRequest is the payload for POST /api/tasks.
type CreateTaskRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=100"`
	Description  *string    `json:"description"`
	DueDate      *time.Time `json:"dueDate"`
	Priority     string     `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	AssignedToID *uuid.UUID `json:"assignedToId"`
}

// UpdateTaskRequest is the payload for PUT /api/tasks/{id}. All fields
// are optional; dueDate and assignedToId additionally distinguish
// "absent" from "null", where null clears the field.
type UpdateTaskRequest struct {
	Title        *string             `json:"title" validate:"omitempty,min=1,max=100"`
	Description  *string             `json:"description"`
	DueDate      Nullable[time.Time] `json:"dueDate"`
	Priority     *string             `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status       *string             `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS REVIEW COMPLETED"`
	AssignedToID Nullable[uuid.UUID] `json:"assignedToId"`
}

// ToUpdate converts the request into the store's partial update.
func (r *UpdateTaskRequest) ToUpdate() store.TaskUpdate {
	update := store.TaskUpdate{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Priority != nil {
		p := domain.Priority(*r.Priority)
		update.Priority = &p
	}
	if r.Status != nil {
		s := domain.Status(*r.Status)
		update.Status = &s
	}
	if r.DueDate.Set {
		update.SetDueDate = true
		if r.DueDate.Valid {
			d := r.DueDate.Value
			update.DueDate = &d
		}
	}
	if r.AssignedToID.Set {
		update.SetAssignedTo = true
		if r.AssignedToID.Valid {
			id := r.AssignedToID.Value
			update.AssignedToID = &id
		}
	}
	return update
}

// ParseTaskQuery reads the filter, sort, and pagination parameters of
// GET /api/tasks. Unknown status, priority, sort, or pagination values
// are rejected.
func ParseTaskQuery(r *http.Request) (store.TaskFilter, error) {
	var filter store.TaskFilter
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		s := domain.Status(v)
		if !s.Valid() {
			return filter, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, v)
		}
		filter.Status = &s
	}
	if v := q.Get("priority"); v != "" {
		p := domain.Priority(v)
		if !p.Valid() {
			return filter, fmt.Errorf("%w: invalid priority %q", domain.ErrValidation, v)
		}
		filter.Priority = &p
	}
	if v := q.Get("assignedToId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid assignedToId", domain.ErrInvalidID)
		}
		filter.AssignedToID = &id
	}
	if v := q.Get("creatorId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid creatorId", domain.ErrInvalidID)
		}
		filter.CreatorID = &id
	}

	switch v := q.Get("sortBy"); v {
	case "", store.SortByDueDate, store.SortByCreatedAt, store.SortByPriority, store.SortByStatus:
		filter.SortBy = v
	default:
		return filter, fmt.Errorf("%w: invalid sortBy %q", domain.ErrValidation, v)
	}
	switch v := q.Get("sortOrder"); v {
	case "", store.SortAsc, store.SortDesc:
		filter.SortOrder = v
	default:
		return filter, fmt.Errorf("%w: invalid sortOrder %q", domain.ErrValidation, v)
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid page %q", domain.ErrValidation, v)
		}
		filter.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid limit %q", domain.ErrValidation, v)
		}
		filter.Limit = limit
	}

	filter.Normalize()
	return filter, nil
}

// UserResponse wraps a single user.
type UserResponse struct {
	User *domain.User `json:"user"`
}

// MessageResponse is a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthResponse is returned by register, login, and profile update.
type AuthResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Task *domain.Task `json:"task"`
}

// TaskMessageResponse is returned by task create and update.
type TaskMessageResponse struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}

// TaskListResponse is one page of tasks with pagination metadata.
type TaskListResponse struct {
	Tasks      []*domain.Task `json:"tasks"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
}

// DashboardResponse aggregates the three dashboard task views.
type DashboardResponse struct {
	AssignedTasks []*domain.Task `json:"assignedTasks"`
	CreatedTasks  []*domain.Task `json:"createdTasks"`
	OverdueTasks  []*domain.Task `json:"overdueTasks"`
}

// UsersResponse lists the users available for assignment.
type UsersResponse struct {
	Users []*domain.User `json:"users"`
}
