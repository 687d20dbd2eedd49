package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/taskline/taskline-api/internal/domain"
	"github.com/taskline/taskline-api/internal/store"
)

// MockTaskStore implements store.TaskStore with an in-memory map.
// The default List honors filters, sorting, and pagination so service and
// handler tests exercise realistic listings without a database.
type MockTaskStore struct {
	CreateFn      func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListFn        func(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, int, error)
	UpdateFn      func(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error)
	DeleteFn      func(ctx context.Context, id uuid.UUID) error
	ListOverdueFn func(ctx context.Context, assigneeID uuid.UUID, now time.Time) ([]*domain.Task, error)

	Tasks map[uuid.UUID]*domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{Tasks: make(map[uuid.UUID]*domain.Task)}
}

// Add seeds the store with a task and returns it for convenience.
func (m *MockTaskStore) Add(task *domain.Task) *domain.Task {
	m.Tasks[task.ID] = task
	return task
}

func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	m.Tasks[task.ID] = task
	return task, nil
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if task, ok := m.Tasks[id]; ok {
		return task, nil
	}
	return nil, store.ErrTaskNotFound
}

func (m *MockTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	filter.Normalize()

	var matched []*domain.Task
	for _, task := range m.Tasks {
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if filter.AssignedToID != nil &&
			(task.AssignedToID == nil || *task.AssignedToID != *filter.AssignedToID) {
			continue
		}
		if filter.CreatorID != nil && task.CreatorID != *filter.CreatorID {
			continue
		}
		matched = append(matched, task)
	}
	sortTasks(matched, filter.SortBy, filter.SortOrder)

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MockTaskStore) Update(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, update)
	}
	task, ok := m.Tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = update.Description
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.SetDueDate {
		task.DueDate = update.DueDate
	}
	if update.SetAssignedTo {
		task.AssignedToID = update.AssignedToID
	}
	task.UpdatedAt = time.Now().UTC()
	return task, nil
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, ok := m.Tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.Tasks, id)
	return nil
}

func (m *MockTaskStore) ListOverdue(ctx context.Context, assigneeID uuid.UUID, now time.Time) ([]*domain.Task, error) {
	if m.ListOverdueFn != nil {
		return m.ListOverdueFn(ctx, assigneeID, now)
	}
	var overdue []*domain.Task
	for _, task := range m.Tasks {
		if task.AssignedToID == nil || *task.AssignedToID != assigneeID {
			continue
		}
		if task.Overdue(now) {
			overdue = append(overdue, task)
		}
	}
	sortTasks(overdue, store.SortByDueDate, store.SortAsc)
	return overdue, nil
}

func sortTasks(tasks []*domain.Task, sortBy, sortOrder string) {
	less := func(a, b *domain.Task) bool {
		switch sortBy {
		case store.SortByDueDate:
			switch {
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		case store.SortByPriority:
			return a.Priority.Rank() < b.Priority.Rank()
		case store.SortByStatus:
			return a.Status < b.Status
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if sortOrder == store.SortDesc {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
}
