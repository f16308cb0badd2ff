package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/taskapi/internal/api/shared"
	"github.com/phrazzld/taskapi/internal/config"
	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/mocks"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, svc *mocks.MockTaskService, origins ...string) (*application, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, _ := logger.GetTestLogger(t)
	return &application{
		config: &config.Config{
			Server: config.ServerConfig{
				Port:                   8080,
				LogLevel:               "debug",
				RequestTimeoutSeconds:  5,
				ShutdownTimeoutSeconds: 1,
				CORSAllowedOrigins:     origins,
			},
		},
		logger:      log,
		db:          db,
		taskService: svc,
	}, mock
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterRoutes(t *testing.T) {
	svc := &mocks.MockTaskService{
		CreateTaskFn: func(ctx context.Context, in domain.CreateTaskInput) (*domain.Task, error) {
			return &domain.Task{ID: 9, Title: in.Title, Priority: in.Priority, Tags: []domain.Tag{}}, nil
		},
	}
	app, mock := newTestApp(t, svc)
	router := app.setupRouter()

	t.Run("root", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Task Management API is running")
		assert.NotEmpty(t, rec.Header().Get(shared.TraceIDHeader))
	})

	t.Run("health pings the database", func(t *testing.T) {
		mock.ExpectPing()

		rec := serve(router, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("tasks", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tasks",
			strings.NewReader(`{"title":"Finish report","priority":4,"due_date":"2099-01-01"}`))

		rec := serve(router, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"id":9`)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "taskapi_http_requests_total")
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Not Found","details":{}}`, rec.Body.String())
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := serve(router, httptest.NewRequest(http.MethodPut, "/tasks/1", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRouterCORS(t *testing.T) {
	t.Run("allowed origin", func(t *testing.T) {
		app, _ := newTestApp(t, &mocks.MockTaskService{}, "https://app.example.com")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")

		rec := serve(app.setupRouter(), req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disabled without origins", func(t *testing.T) {
		app, _ := newTestApp(t, &mocks.MockTaskService{})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://app.example.com")

		rec := serve(app.setupRouter(), req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
