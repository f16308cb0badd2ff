package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/phrazzld/taskapi/internal/store"
)

// PostgresTagStore implements the store.TagStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTagStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTagStore creates a new PostgreSQL implementation of the TagStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresTagStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTagStore{
		db:     db,
		logger: logger.With(slog.String("component", "tag_store")),
	}
}

// Ensure PostgresTagStore implements store.TagStore interface
var _ store.TagStore = (*PostgresTagStore)(nil)

// GetOrCreate implements store.TagStore.GetOrCreate.
// A single upsert resolves every name, so concurrent callers creating the
// same tag both receive the one surviving row instead of a unique violation.
// DO UPDATE locks every existing row it touches until commit; names are sent
// sorted so concurrent writers always lock tags in the same order.
func (s *PostgresTagStore) GetOrCreate(ctx context.Context, names []string) ([]domain.Tag, error) {
	if len(names) == 0 {
		return []domain.Tag{}, nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	sorted := slices.Clone(names)
	slices.Sort(sorted)

	args := &queryArgs{}
	values := make([]string, len(sorted))
	for i, name := range sorted {
		values[i] = "(" + args.add(name) + ")"
	}
	query := `INSERT INTO tags (name) VALUES ` + strings.Join(values, ", ") + `
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name`

	rows, err := s.db.QueryContext(ctx, query, args.values...)
	if err != nil {
		log.Error("failed to upsert tags", slog.Int("count", len(names)), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get or create tags: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	byName := make(map[string]domain.Tag, len(names))
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		byName[tag.Name] = tag
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", MapError(err))
	}

	tags := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		tag, ok := byName[name]
		if !ok {
			return nil, store.NewStoreError("tag", "get_or_create", "tag missing from upsert result: "+name, nil)
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// ReplaceForTask implements store.TagStore.ReplaceForTask.
func (s *PostgresTagStore) ReplaceForTask(ctx context.Context, taskID int64, tagIDs []int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = $1`, taskID); err != nil {
		log.Error("failed to clear task tags", slog.Int64("task_id", taskID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to clear task tags: %w", MapError(err))
	}

	if len(tagIDs) == 0 {
		return nil
	}

	args := &queryArgs{}
	taskParam := args.add(taskID)
	values := make([]string, len(tagIDs))
	for i, tagID := range tagIDs {
		values[i] = "(" + taskParam + ", " + args.add(tagID) + ")"
	}
	query := `INSERT INTO task_tags (task_id, tag_id) VALUES ` + strings.Join(values, ", ") +
		` ON CONFLICT DO NOTHING`

	if _, err := s.db.ExecContext(ctx, query, args.values...); err != nil {
		log.Error("failed to associate tags", slog.Int64("task_id", taskID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to associate tags: %w", MapError(err))
	}

	return nil
}

// ListForTasks implements store.TagStore.ListForTasks.
// The tags of every task are loaded with one query.
func (s *PostgresTagStore) ListForTasks(ctx context.Context, taskIDs []int64) (map[int64][]domain.Tag, error) {
	result := make(map[int64][]domain.Tag, len(taskIDs))
	if len(taskIDs) == 0 {
		return result, nil
	}

	placeholders := make([]string, len(taskIDs))
	args := make([]any, len(taskIDs))
	for i, id := range taskIDs {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = id
	}
	query := `
		SELECT tt.task_id, g.id, g.name
		FROM task_tags tt
		JOIN tags g ON g.id = tt.tag_id
		WHERE tt.task_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY tt.task_id, g.name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load tags",
			slog.Int("task_count", len(taskIDs)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load tags: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			taskID int64
			tag    domain.Tag
		)
		if err := rows.Scan(&taskID, &tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		result[taskID] = append(result[taskID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", MapError(err))
	}

	return result, nil
}

// WithTx implements store.TagStore.WithTx.
func (s *PostgresTagStore) WithTx(tx *sql.Tx) store.TagStore {
	return &PostgresTagStore{
		db:     tx,
		logger: s.logger,
	}
}
