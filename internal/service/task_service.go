package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskline/taskline-api/internal/domain"
	"github.com/taskline/taskline-api/internal/store"
)

// EventPublisher receives task lifecycle notifications after a mutation has
// been persisted. Implementations fan the events out to connected clients.
type EventPublisher interface {
	TaskCreated(task *domain.Task)
	TaskUpdated(task *domain.Task, previousAssigneeID *uuid.UUID)
	TaskDeleted(taskID uuid.UUID)
}

// NoopPublisher discards all events. Useful in tests and tooling that run
// the service without a realtime hub.
type NoopPublisher struct{}

func (NoopPublisher) TaskCreated(*domain.Task)             {}
func (NoopPublisher) TaskUpdated(*domain.Task, *uuid.UUID) {}
func (NoopPublisher) TaskDeleted(uuid.UUID)                {}

// TaskPage is one page of a task listing together with pagination metadata.
type TaskPage struct {
	Tasks      []*domain.Task
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// Dashboard aggregates the three task views shown on a user's landing page.
type Dashboard struct {
	AssignedTasks []*domain.Task
	CreatedTasks  []*domain.Task
	OverdueTasks  []*domain.Task
}

// CreateTaskInput carries the fields of a new task.
type CreateTaskInput struct {
	Title        string
	Description  *string
	DueDate      *time.Time
	Priority     domain.Priority
	AssignedToID *uuid.UUID
}

// TaskService implements the task use cases: CRUD, filtered listing, and
// the dashboard aggregate. Mutations publish realtime events after the
// store write succeeds.
type TaskService struct {
	taskStore store.TaskStore
	userStore store.UserStore
	publisher EventPublisher
	logger    *slog.Logger
	timeFunc  func() time.Time
}

// NewTaskService creates a TaskService. A nil publisher is replaced with a
// NoopPublisher.
func NewTaskService(
	taskStore store.TaskStore,
	userStore store.UserStore,
	publisher EventPublisher,
	logger *slog.Logger,
) *TaskService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		taskStore: taskStore,
		userStore: userStore,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "task_service")),
		timeFunc:  time.Now,
	}
}

// Create validates the assignee (when set), persists the task, and
// publishes a taskCreated event.
func (s *TaskService) Create(ctx context.Context, creatorID uuid.UUID, input CreateTaskInput) (*domain.Task, error) {
	if input.AssignedToID != nil {
		if err := s.checkAssignee(ctx, *input.AssignedToID); err != nil {
			return nil, err
		}
	}

	task, err := domain.NewTask(input.Title, input.Description, input.DueDate, input.Priority, creatorID, input.AssignedToID)
	if err != nil {
		return nil, err
	}

	created, err := s.taskStore.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.InfoContext(ctx, "task created",
		"task_id", created.ID,
		"creator_id", creatorID)
	s.publisher.TaskCreated(created)
	return created, nil
}

// Get returns a single task by ID.
func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return task, nil
}

// List returns a filtered, sorted page of tasks.
func (s *TaskService) List(ctx context.Context, filter store.TaskFilter) (*TaskPage, error) {
	filter.Normalize()

	tasks, total, err := s.taskStore.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	return &TaskPage{
		Tasks:      tasks,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update applies a partial update to a task and publishes a taskUpdated
// event carrying the assignee before the change, so subscribers can detect
// assignment handoffs. Any authenticated user may update any task.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error) {
	existing, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting task for update: %w", err)
	}

	if update.SetAssignedTo && update.AssignedToID != nil {
		if err := s.checkAssignee(ctx, *update.AssignedToID); err != nil {
			return nil, err
		}
	}

	previousAssigneeID := existing.AssignedToID

	updated, err := s.taskStore.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	s.logger.InfoContext(ctx, "task updated", "task_id", id)
	s.publisher.TaskUpdated(updated, previousAssigneeID)
	return updated, nil
}

// Delete removes a task. Only the task's creator may delete it; other
// users get ErrNotOwner.
func (s *TaskService) Delete(ctx context.Context, id, actorID uuid.UUID) error {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("getting task for delete: %w", err)
	}

	if task.CreatorID != actorID {
		return ErrNotOwner
	}

	if err := s.taskStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	s.logger.InfoContext(ctx, "task deleted",
		"task_id", id,
		"actor_id", actorID)
	s.publisher.TaskDeleted(id)
	return nil
}

// Dashboard returns the user's assigned, created, and overdue task views.
// Assigned tasks come back in due date order, created tasks newest first,
// both capped at dashboardViewLimit; overdue tasks are uncapped.
func (s *TaskService) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	const dashboardViewLimit = 50

	assignedFilter := store.TaskFilter{
		AssignedToID: &userID,
		SortBy:       store.SortByDueDate,
		SortOrder:    store.SortAsc,
		Limit:        dashboardViewLimit,
	}
	assignedFilter.Normalize()
	assigned, _, err := s.taskStore.List(ctx, assignedFilter)
	if err != nil {
		return nil, fmt.Errorf("listing assigned tasks: %w", err)
	}

	createdFilter := store.TaskFilter{
		CreatorID: &userID,
		SortBy:    store.SortByCreatedAt,
		SortOrder: store.SortDesc,
		Limit:     dashboardViewLimit,
	}
	createdFilter.Normalize()
	created, _, err := s.taskStore.List(ctx, createdFilter)
	if err != nil {
		return nil, fmt.Errorf("listing created tasks: %w", err)
	}

	overdue, err := s.taskStore.ListOverdue(ctx, userID, s.timeFunc())
	if err != nil {
		return nil, fmt.Errorf("listing overdue tasks: %w", err)
	}

	return &Dashboard{
		AssignedTasks: assigned,
		CreatedTasks:  created,
		OverdueTasks:  overdue,
	}, nil
}

// Users returns all users for the assignment picker, without credential
// hashes.
func (s *TaskService) Users(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// checkAssignee verifies the referenced user exists, translating a store
// miss into ErrAssigneeNotFound.
func (s *TaskService) checkAssignee(ctx context.Context, assigneeID uuid.UUID) error {
	if _, err := s.userStore.GetByID(ctx, assigneeID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("checking assignee: %w", err)
	}
	return nil
}
