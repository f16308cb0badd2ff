package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/phrazzld/taskapi/internal/platform/metrics"
	"github.com/phrazzld/taskapi/internal/store"
)

// Operation names used in errors, logs and metrics.
const (
	opCreateTask = "create_task"
	opGetTask    = "get_task"
	opListTasks  = "list_tasks"
	opUpdateTask = "update_task"
	opDeleteTask = "delete_task"
)

// TaskService provides task-related operations.
type TaskService interface {
	// CreateTask validates the input and stores the task with its tags in one transaction.
	CreateTask(ctx context.Context, in domain.CreateTaskInput) (*domain.Task, error)

	// GetTask returns a non-deleted task with its tags.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// ListTasks returns one page of the tasks matching filter. A zero Limit
	// selects the default page size.
	ListTasks(ctx context.Context, filter domain.TaskFilter) (*domain.TaskPage, error)

	// UpdateTask applies the fields present in patch. When tags are present
	// they replace the task's whole tag set.
	UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask soft-deletes the task.
	DeleteTask(ctx context.Context, id int64) error
}

// Option configures a TaskService.
type Option func(*taskServiceImpl)

// WithClock overrides the time source used for due-date validation.
func WithClock(now func() time.Time) Option {
	return func(s *taskServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks  store.TaskStore
	tags   store.TagStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	tags store.TagStore,
	logger *slog.Logger,
	opts ...Option,
) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil")
	}
	if tags == nil {
		return nil, domain.NewValidationError("tags", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:  tasks,
		tags:   tags,
		logger: logger.With(slog.String("component", "task_service")),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// operationStatus classifies err for the operation metrics.
func operationStatus(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case errors.Is(err, domain.ErrValidation):
		return metrics.StatusValidationError
	case store.IsNotFoundError(err):
		return metrics.StatusNotFound
	default:
		return metrics.StatusError
	}
}

// sortTags orders tags by name, the order every read returns.
func sortTags(tags []domain.Tag) []domain.Tag {
	out := append([]domain.Tag{}, tags...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// replaceTags resolves names and makes them the task's complete tag set.
func replaceTags(ctx context.Context, tags store.TagStore, task *domain.Task, names []string) error {
	resolved, err := tags.GetOrCreate(ctx, names)
	if err != nil {
		return err
	}
	ids := make([]int64, 0, len(resolved))
	for _, tag := range resolved {
		ids = append(ids, tag.ID)
	}
	if err := tags.ReplaceForTask(ctx, task.ID, ids); err != nil {
		return err
	}
	task.Tags = sortTags(resolved)
	metrics.TagsPerTask.Observe(float64(len(resolved)))
	return nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, in domain.CreateTaskInput) (task *domain.Task, err error) {
	start := time.Now()
	defer func() { metrics.ObserveTaskOperation(opCreateTask, operationStatus(err), start) }()
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err = domain.NewTask(in, s.now())
	if err != nil {
		log.Debug("task validation failed", slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.tasks.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)
		txTags := s.tags.WithTx(tx)

		if err := txTasks.Create(ctx, task); err != nil {
			return NewTaskServiceError(opCreateTask, "failed to save task", err)
		}
		if err := replaceTags(ctx, txTags, task, task.TagNames()); err != nil {
			return NewTaskServiceError(opCreateTask, "failed to save tags", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int("priority", task.Priority),
		slog.Int("tag_count", len(task.Tags)))
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (task *domain.Task, err error) {
	start := time.Now()
	defer func() { metrics.ObserveTaskOperation(opGetTask, operationStatus(err), start) }()
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err = s.tasks.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, NewTaskServiceError(opGetTask, "task not found", err)
		}
		log.Error("failed to retrieve task", slog.Int64("task_id", id), slog.String("error", err.Error()))
		return nil, NewTaskServiceError(opGetTask, "failed to retrieve task", err)
	}

	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, filter domain.TaskFilter) (page *domain.TaskPage, err error) {
	start := time.Now()
	defer func() { metrics.ObserveTaskOperation(opListTasks, operationStatus(err), start) }()
	log := logger.FromContextOrDefault(ctx, s.logger)

	filter = filter.Normalize()
	if err = filter.Validate(); err != nil {
		return nil, err
	}

	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, NewTaskServiceError(opListTasks, "failed to list tasks", err)
	}

	return &domain.TaskPage{
		Tasks:  tasks,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// UpdateTask implements TaskService.UpdateTask
// The row is locked for the read-modify-write so concurrent patches of the
// same task apply one after the other.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id int64,
	patch domain.TaskPatch,
) (result *domain.Task, err error) {
	start := time.Now()
	defer func() { metrics.ObserveTaskOperation(opUpdateTask, operationStatus(err), start) }()
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err = patch.Validate(s.now()); err != nil {
		log.Debug("task patch validation failed", slog.Int64("task_id", id), slog.String("error", err.Error()))
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.tasks.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)
		txTags := s.tags.WithTx(tx)

		task, err := txTasks.GetByIDForUpdate(ctx, id)
		if err != nil {
			if store.IsNotFoundError(err) {
				return NewTaskServiceError(opUpdateTask, "task not found", err)
			}
			return NewTaskServiceError(opUpdateTask, "failed to load task", err)
		}

		if patch.IsEmpty() {
			result = task
			return nil
		}

		patch.ApplyTo(task)
		if err := txTasks.Update(ctx, task); err != nil {
			return NewTaskServiceError(opUpdateTask, "failed to save task", err)
		}
		if patch.ReplacesTags() {
			if err := replaceTags(ctx, txTags, task, patch.TagNames()); err != nil {
				return NewTaskServiceError(opUpdateTask, "failed to replace tags", err)
			}
		}

		result = task
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for update", slog.Int64("task_id", id))
		} else {
			log.Error("failed to update task", slog.Int64("task_id", id), slog.String("error", err.Error()))
		}
		return nil, err
	}

	log.Info("task updated", slog.Int64("task_id", id), slog.Bool("tags_replaced", patch.ReplacesTags()))
	return result, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveTaskOperation(opDeleteTask, operationStatus(err), start) }()
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err = s.tasks.SoftDelete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for delete", slog.Int64("task_id", id))
			return NewTaskServiceError(opDeleteTask, "task not found", err)
		}
		log.Error("failed to delete task", slog.Int64("task_id", id), slog.String("error", err.Error()))
		return NewTaskServiceError(opDeleteTask, "failed to delete task", err)
	}

	log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}
