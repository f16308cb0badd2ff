package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/phrazzld/taskapi/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	tags   store.TagStore
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		tags:   NewPostgresTagStore(db, logger),
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task      domain.Task
		desc      sql.NullString
		deletedAt sql.NullTime
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&desc,
		&task.Priority,
		&task.DueDate,
		&task.Completed,
		&task.IsDeleted,
		&deletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if desc.Valid {
		task.Description = &desc.String
	}
	if deletedAt.Valid {
		at := deletedAt.Time
		task.DeletedAt = &at
	}
	task.DueDate = domain.Today(task.DueDate)
	task.Tags = []domain.Tag{}

	return &task, nil
}

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (title, description, priority, due_date, completed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_deleted, created_at, updated_at
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Priority,
		task.DueDate,
		task.Completed,
	).Scan(&task.ID, &task.IsDeleted, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create task: %w", MapError(err))
	}

	log.Debug("task created", slog.Int64("task_id", task.ID))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return s.get(ctx, id, false)
}

// GetByIDForUpdate implements store.TaskStore.GetByIDForUpdate.
func (s *PostgresTaskStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	return s.get(ctx, id, true)
}

func (s *PostgresTaskStore) get(ctx context.Context, id int64, lock bool) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + taskColumns + `
		FROM tasks t
		WHERE t.id = $1 AND t.is_deleted = FALSE`
	if lock {
		query += " FOR UPDATE"
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task", slog.Int64("task_id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get task: %w", MapError(err))
	}

	tags, err := s.tags.ListForTasks(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if found, ok := tags[id]; ok {
		task.Tags = found
	}

	return task, nil
}

// List implements store.TaskStore.List.
func (s *PostgresTaskStore) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	countQuery, countArgs := BuildCountTasksQuery(filter)
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count tasks: %w", MapError(err))
	}

	tasks := []domain.Task{}
	if total == 0 || filter.Offset >= total {
		return tasks, total, nil
	}

	listQuery, listArgs := BuildListTasksQuery(filter)
	rows, err := s.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list tasks: %w", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	ids := make([]int64, 0, filter.Limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
		ids = append(ids, task.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate tasks: %w", MapError(err))
	}

	tags, err := s.tags.ListForTasks(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range tasks {
		if found, ok := tags[tasks[i].ID]; ok {
			tasks[i].Tags = found
		}
	}

	log.Debug("tasks listed",
		slog.Int("total", total),
		slog.Int("returned", len(tasks)),
		slog.Int("limit", filter.Limit),
		slog.Int("offset", filter.Offset))
	return tasks, total, nil
}

// Update implements store.TaskStore.Update.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, due_date = $5, completed = $6,
			updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING updated_at
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.Priority,
		task.DueDate,
		task.Completed,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrTaskNotFound
		}
		log.Error("failed to update task", slog.Int64("task_id", task.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update task: %w", MapError(err))
	}

	log.Debug("task updated", slog.Int64("task_id", task.ID))
	return nil
}

// SoftDelete implements store.TaskStore.SoftDelete.
func (s *PostgresTaskStore) SoftDelete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET is_deleted = TRUE, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete task", slog.Int64("task_id", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete task: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrTaskNotFound
		}
		return err
	}

	log.Debug("task soft-deleted", slog.Int64("task_id", id))
	return nil
}

// WithTx implements store.TaskStore.WithTx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		tags:   s.tags.WithTx(tx),
		logger: s.logger,
	}
}

// DB implements store.TaskStore.DB. It returns nil when the store is bound to a transaction.
func (s *PostgresTaskStore) DB() *sql.DB {
	if db, ok := s.db.(*sql.DB); ok {
		return db
	}
	return nil
}
