package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskline/taskline-api/internal/domain"
	"github.com/taskline/taskline-api/internal/platform/logger"
	"github.com/taskline/taskline-api/internal/store"
)

// taskColumns selects a task row joined with its creator and, when present,
// its assignee. Kept in one place so every read returns expanded tasks.
const taskColumns = `
	t.id, t.title, t.description, t.due_date, t.priority, t.status,
	t.creator_id, t.assigned_to_id, t.created_at, t.updated_at,
	c.id, c.email, c.name, c.created_at, c.updated_at,
	a.id, a.email, a.name, a.created_at, a.updated_at
`

const taskJoins = `
	FROM tasks t
	JOIN users c ON c.id = t.creator_id
	LEFT JOIN users a ON a.id = t.assigned_to_id
`

// PostgresTaskStore implements the store.TaskStore interface using a
// PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. The connection is initialized and managed by the
// caller. If logger is nil, the default logger is used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return nil, err
	}

	query := `
		INSERT INTO tasks (id, title, description, due_date, priority, status,
			creator_id, assigned_to_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.CreatorID,
		task.AssignedToID,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("creator_id", task.CreatorID.String()))
			return nil, fmt.Errorf("%w: creator %s not found",
				store.ErrInvalidEntity, task.CreatorID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return nil, MapError(err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("creator_id", task.CreatorID.String()))

	return s.GetByID(ctx, task.ID)
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT` + taskColumns + taskJoins + `WHERE t.id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// List implements store.TaskStore.List.
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	filter.Normalize()

	where, args := buildTaskWhere(filter)

	countQuery := `SELECT COUNT(*) FROM tasks t` + where
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	orderBy, err := taskOrderClause(filter.SortBy, filter.SortOrder)
	if err != nil {
		return nil, 0, err
	}

	limitArgs := append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	query := fmt.Sprintf(`SELECT%s%s%s %s LIMIT $%d OFFSET $%d`,
		taskColumns, taskJoins, where, orderBy, len(args)+1, len(args)+2)

	rows, err := s.db.QueryContext(ctx, query, limitArgs...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, MapError(err)
	}

	return tasks, total, nil
}

// Update implements store.TaskStore.Update.
func (s *PostgresTaskStore) Update(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set := make([]string, 0, 8)
	args := make([]any, 0, 8)

	appendSet := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		appendSet("title", *update.Title)
	}
	if update.Description != nil {
		appendSet("description", *update.Description)
	}
	if update.Priority != nil {
		appendSet("priority", *update.Priority)
	}
	if update.Status != nil {
		appendSet("status", *update.Status)
	}
	if update.SetDueDate {
		appendSet("due_date", update.DueDate)
	}
	if update.SetAssignedTo {
		appendSet("assigned_to_id", update.AssignedToID)
	}

	appendSet("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d",
		strings.Join(set, ", "), len(args))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return nil, err
	}

	log.Info("task updated", slog.String("task_id", id.String()))
	return s.GetByID(ctx, id)
}

// Delete implements store.TaskStore.Delete.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// ListOverdue implements store.TaskStore.ListOverdue.
func (s *PostgresTaskStore) ListOverdue(ctx context.Context, assigneeID uuid.UUID, now time.Time) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT` + taskColumns + taskJoins + `
		WHERE t.assigned_to_id = $1
		  AND t.due_date < $2
		  AND t.status <> $3
		ORDER BY t.due_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, assigneeID, now, domain.StatusCompleted)
	if err != nil {
		log.Error("failed to list overdue tasks",
			slog.String("error", err.Error()),
			slog.String("assignee_id", assigneeID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// buildTaskWhere produces the WHERE clause and positional args for a filter.
func buildTaskWhere(filter store.TaskFilter) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)

	appendCond := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if filter.Status != nil {
		appendCond("t.status", *filter.Status)
	}
	if filter.Priority != nil {
		appendCond("t.priority", *filter.Priority)
	}
	if filter.AssignedToID != nil {
		appendCond("t.assigned_to_id", *filter.AssignedToID)
	}
	if filter.CreatorID != nil {
		appendCond("t.creator_id", *filter.CreatorID)
	}

	if len(conds) == 0 {
		return " ", args
	}
	return " WHERE " + strings.Join(conds, " AND ") + " ", args
}

// taskOrderClause maps an API sort key to an ORDER BY clause. Priority sorts
// by rank (URGENT highest), not lexicographically.
func taskOrderClause(sortBy, sortOrder string) (string, error) {
	var expr string
	switch sortBy {
	case store.SortByDueDate:
		expr = "t.due_date"
	case store.SortByCreatedAt:
		expr = "t.created_at"
	case store.SortByPriority:
		expr = "CASE t.priority WHEN 'URGENT' THEN 4 WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END"
	case store.SortByStatus:
		expr = "t.status"
	default:
		return "", fmt.Errorf("%w: unsupported sort key %q", store.ErrInvalidEntity, sortBy)
	}

	switch sortOrder {
	case store.SortAsc:
		return "ORDER BY " + expr + " ASC", nil
	case store.SortDesc:
		return "ORDER BY " + expr + " DESC", nil
	default:
		return "", fmt.Errorf("%w: unsupported sort order %q", store.ErrInvalidEntity, sortOrder)
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask scans one joined task row, populating the creator projection and
// the assignee projection when the left join matched.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task     domain.Task
		creator  domain.User
		assignee struct {
			id        uuid.NullUUID
			email     sql.NullString
			name      sql.NullString
			createdAt sql.NullTime
			updatedAt sql.NullTime
		}
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Priority,
		&task.Status,
		&task.CreatorID,
		&task.AssignedToID,
		&task.CreatedAt,
		&task.UpdatedAt,
		&creator.ID,
		&creator.Email,
		&creator.Name,
		&creator.CreatedAt,
		&creator.UpdatedAt,
		&assignee.id,
		&assignee.email,
		&assignee.name,
		&assignee.createdAt,
		&assignee.updatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Creator = &creator
	if assignee.id.Valid {
		task.AssignedTo = &domain.User{
			ID:        assignee.id.UUID,
			Email:     assignee.email.String,
			Name:      assignee.name.String,
			CreatedAt: assignee.createdAt.Time,
			UpdatedAt: assignee.updatedAt.Time,
		}
	}

	return &task, nil
}

// scanTasks drains a joined task result set.
func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
