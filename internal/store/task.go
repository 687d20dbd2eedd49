package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskline/taskline-api/internal/domain"
)

// Sort keys accepted by TaskFilter.SortBy.
const (
	SortByDueDate   = "dueDate"
	SortByCreatedAt = "createdAt"
	SortByPriority  = "priority"
	SortByStatus    = "status"
)

// Sort directions accepted by TaskFilter.SortOrder.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Pagination bounds for task listings.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// TaskFilter describes a filtered, sorted, paginated task listing.
// Filter fields are optional and AND-combined when set.
type TaskFilter struct {
	Status       *domain.Status
	Priority     *domain.Priority
	AssignedToID *uuid.UUID
	CreatorID    *uuid.UUID

	SortBy    string // one of the SortBy* constants; defaults to createdAt
	SortOrder string // asc or desc; defaults to desc

	Page  int // 1-based; defaults to 1
	Limit int // 1..MaxLimit; defaults to DefaultLimit
}

// Normalize fills zero-valued pagination and sort fields with defaults and
// clamps the limit to MaxLimit.
func (f *TaskFilter) Normalize() {
	if f.SortBy == "" {
		f.SortBy = SortByCreatedAt
	}
	if f.SortOrder == "" {
		f.SortOrder = SortDesc
	}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
}

// TaskUpdate is a partial update of a task. Pointer fields are applied when
// non-nil. DueDate and AssignedToID distinguish "leave unchanged" from
// "clear": they are applied only when the corresponding Set flag is true,
// and a nil value then clears the column.
type TaskUpdate struct {
	Title       *string
	Description *string
	Priority    *domain.Priority
	Status      *domain.Status

	SetDueDate bool
	DueDate    *time.Time

	SetAssignedTo bool
	AssignedToID  *uuid.UUID
}

// TaskStore defines the interface for task persistence. All reads return
// tasks with creator and assignee projections expanded.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the creator reference does not resolve.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns the page of tasks matching the filter together with the
	// total number of matching rows.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, int, error)

	// Update applies a partial update and returns the updated task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, update TaskUpdate) (*domain.Task, error)

	// Delete removes a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListOverdue returns all tasks assigned to the given user whose due
	// date is in the past and whose status is not COMPLETED, ordered by due
	// date ascending. The result is uncapped.
	ListOverdue(ctx context.Context, assigneeID uuid.UUID, now time.Time) ([]*domain.Task, error)
}
