package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskapi/internal/api"
	"github.com/phrazzld/taskapi/internal/api/middleware"
	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/phrazzld/taskapi/internal/service"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

// newTestRouter wires the task routes the same way the server does.
func newTestRouter(t *testing.T, svc service.TaskService) http.Handler {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(log))
	r.Route("/tasks", api.NewTaskHandler(svc, log).Routes)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func sampleTask() *domain.Task {
	desc := "quarterly numbers"
	return &domain.Task{
		ID:          1,
		Title:       "Finish report",
		Description: &desc,
		Priority:    4,
		DueDate:     time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
		Tags:        []domain.Tag{{ID: 3, Name: "work"}},
	}
}
