package mocks

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/store"
)

var _ store.TaskStore = (*MockTaskStore)(nil)

// MockTaskStore implements store.TaskStore for testing.
// WithTx returns the mock itself so expectations hold inside transactions.
type MockTaskStore struct {
	CreateFn           func(ctx context.Context, task *domain.Task) error
	GetByIDFn          func(ctx context.Context, id int64) (*domain.Task, error)
	GetByIDForUpdateFn func(ctx context.Context, id int64) (*domain.Task, error)
	ListFn             func(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error)
	UpdateFn           func(ctx context.Context, task *domain.Task) error
	SoftDeleteFn       func(ctx context.Context, id int64) error

	// Conn is returned by DB; typically a sqlmock connection.
	Conn *sql.DB

	// TxCalls counts WithTx invocations.
	TxCalls atomic.Int32
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	return nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrTaskNotFound
}

// GetByIDForUpdate implements store.TaskStore.
func (m *MockTaskStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, store.ErrTaskNotFound
}

// List implements store.TaskStore.
func (m *MockTaskStore) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return []domain.Task{}, 0, nil
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	return nil
}

// SoftDelete implements store.TaskStore.
func (m *MockTaskStore) SoftDelete(ctx context.Context, id int64) error {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, id)
	}
	return nil
}

// WithTx implements store.TaskStore.
func (m *MockTaskStore) WithTx(_ *sql.Tx) store.TaskStore {
	m.TxCalls.Add(1)
	return m
}

// DB implements store.TaskStore.
func (m *MockTaskStore) DB() *sql.DB {
	return m.Conn
}
