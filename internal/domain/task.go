package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task validation errors. All wrap ErrValidation so callers can match the
// whole class with errors.Is.
var (
	ErrEmptyTaskID     = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTitle      = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrTitleTooLong    = fmt.Errorf("%w: title must be at most 100 characters", ErrValidation)
	ErrEmptyCreatorID  = fmt.Errorf("%w: creator ID cannot be empty", ErrValidation)
	ErrInvalidPriority = fmt.Errorf("%w: invalid priority", ErrValidation)
	ErrInvalidStatus   = fmt.Errorf("%w: invalid status", ErrValidation)
)

// MaxTitleLength bounds task titles at creation and update.
const MaxTitleLength = 100

// Priority is the ordered urgency of a task: LOW < MEDIUM < HIGH < URGENT.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank returns the ordinal position of the priority, LOW being lowest.
// Used for ordering; persisted values remain textual.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Status is the workflow state of a task. No transition order is enforced.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReview     Status = "REVIEW"
	StatusCompleted  Status = "COMPLETED"
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

// Task represents a trackable unit of work.
//
// CreatorID is immutable once set. AssignedToID is validated against the
// user store at the moment it is set and not re-validated afterward.
// Creator and AssignedTo are expanded user projections populated by reads;
// they are presentation conveniences, not part of the persisted row.
type Task struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	DueDate      *time.Time `json:"dueDate"`
	Priority     Priority   `json:"priority"`
	Status       Status     `json:"status"`
	CreatorID    uuid.UUID  `json:"creatorId"`
	AssignedToID *uuid.UUID `json:"assignedToId"`
	Creator      *User      `json:"creator,omitempty"`
	AssignedTo   *User      `json:"assignedTo"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NewTask creates a task with generated ID and timestamps. Priority defaults
// to MEDIUM and status to TODO when zero-valued. Returns an error if
// validation fails.
func NewTask(title string, description *string, dueDate *time.Time, priority Priority, creatorID uuid.UUID, assignedToID *uuid.UUID) (*Task, error) {
	if priority == "" {
		priority = PriorityMedium
	}
	now := time.Now().UTC()
	task := &Task{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		DueDate:      dueDate,
		Priority:     priority,
		Status:       StatusTodo,
		CreatorID:    creatorID,
		AssignedToID: assignedToID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks that the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Title == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if t.CreatorID == uuid.Nil {
		return ErrEmptyCreatorID
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Overdue reports whether the task is past its due date and not completed.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != StatusCompleted
}
