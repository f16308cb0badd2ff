package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskapi/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Every read excludes soft-deleted tasks.
type TaskStore interface {
	// Create inserts the task and fills in its ID and timestamps.
	// Tags on the task are ignored; associate them with TagStore.ReplaceForTask.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task with its tags (ordered by name).
	// Returns ErrTaskNotFound if the task does not exist or is soft-deleted.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// GetByIDForUpdate behaves like GetByID but locks the task row until the
	// surrounding transaction ends. It must be called on a store bound with WithTx.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Task, error)

	// List returns the page of tasks selected by filter, newest first, together
	// with the number of tasks matching the filter irrespective of pagination.
	// The filter is expected to be normalized and valid.
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error)

	// Update writes the task's scalar fields and refreshes UpdatedAt.
	// Returns ErrTaskNotFound if the task does not exist or is soft-deleted.
	Update(ctx context.Context, task *domain.Task) error

	// SoftDelete marks the task deleted and stamps deleted_at.
	// Returns ErrTaskNotFound if the task does not exist or is already deleted.
	SoftDelete(ctx context.Context, id int64) error

	// WithTx returns a TaskStore that runs its queries inside tx.
	//
	// Example usage:
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return taskStore.WithTx(tx).SoftDelete(ctx, id)
	//   })
	WithTx(tx *sql.Tx) TaskStore

	// DB returns the underlying connection pool, used to start transactions.
	DB() *sql.DB
}

// TagStore defines the interface for tags and the task/tag association.
type TagStore interface {
	// GetOrCreate returns the tags with the given names, creating missing ones.
	// Names must already be normalized and unique. The result follows the input order.
	GetOrCreate(ctx context.Context, names []string) ([]domain.Tag, error)

	// ReplaceForTask makes tagIDs the complete tag set of the task.
	// An empty tagIDs removes every association.
	ReplaceForTask(ctx context.Context, taskID int64, tagIDs []int64) error

	// ListForTasks returns the tags of each given task, ordered by name.
	// Tasks without tags are absent from the map.
	ListForTasks(ctx context.Context, taskIDs []int64) (map[int64][]domain.Tag, error)

	// WithTx returns a TagStore that runs its queries inside tx.
	WithTx(tx *sql.Tx) TagStore
}
