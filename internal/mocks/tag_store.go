package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/store"
)

var _ store.TagStore = (*MockTagStore)(nil)

// MockTagStore implements store.TagStore for testing.
// Without GetOrCreateFn it assigns sequential IDs starting at 1.
type MockTagStore struct {
	GetOrCreateFn    func(ctx context.Context, names []string) ([]domain.Tag, error)
	ReplaceForTaskFn func(ctx context.Context, taskID int64, tagIDs []int64) error
	ListForTasksFn   func(ctx context.Context, taskIDs []int64) (map[int64][]domain.Tag, error)

	// Replaced records the tag IDs passed to ReplaceForTask, keyed by task.
	Replaced map[int64][]int64
}

// GetOrCreate implements store.TagStore.
func (m *MockTagStore) GetOrCreate(ctx context.Context, names []string) ([]domain.Tag, error) {
	if m.GetOrCreateFn != nil {
		return m.GetOrCreateFn(ctx, names)
	}
	tags := make([]domain.Tag, 0, len(names))
	for i, name := range names {
		tags = append(tags, domain.Tag{ID: int64(i + 1), Name: name})
	}
	return tags, nil
}

// ReplaceForTask implements store.TagStore.
func (m *MockTagStore) ReplaceForTask(ctx context.Context, taskID int64, tagIDs []int64) error {
	if m.Replaced == nil {
		m.Replaced = make(map[int64][]int64)
	}
	m.Replaced[taskID] = tagIDs
	if m.ReplaceForTaskFn != nil {
		return m.ReplaceForTaskFn(ctx, taskID, tagIDs)
	}
	return nil
}

// ListForTasks implements store.TagStore.
func (m *MockTagStore) ListForTasks(ctx context.Context, taskIDs []int64) (map[int64][]domain.Tag, error) {
	if m.ListForTasksFn != nil {
		return m.ListForTasksFn(ctx, taskIDs)
	}
	return map[int64][]domain.Tag{}, nil
}

// WithTx implements store.TagStore.
func (m *MockTagStore) WithTx(_ *sql.Tx) store.TagStore {
	return m
}
