//go:build integration

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/taskapi/internal/config"
	"github.com/phrazzld/taskapi/internal/platform/logger"
	"github.com/phrazzld/taskapi/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taskJSON struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Priority  int    `json:"priority"`
	DueDate   string `json:"due_date"`
	Completed bool   `json:"completed"`
	Tags      []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

type pageJSON struct {
	Total int        `json:"total"`
	Tasks []taskJSON `json:"tasks"`
}

func setupIntegrationServer(t *testing.T) *httptest.Server {
	t.Helper()

	db := testdb.GetTestDBWithT(t)
	testdb.ResetTables(t, db)

	log, _ := logger.GetTestLogger(t)
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug", RequestTimeoutSeconds: 10, ShutdownTimeoutSeconds: 1},
	}
	app, err := newApplication(cfg, log, db)
	require.NoError(t, err)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestTaskLifecycle(t *testing.T) {
	srv := setupIntegrationServer(t)

	resp, body := call(t, http.MethodPost, srv.URL+"/tasks",
		`{"title":"Finish report","priority":4,"due_date":"2099-01-01","tags":["work"]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created taskJSON
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, 4, created.Priority)
	assert.Equal(t, "2099-01-01", created.DueDate)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "work", created.Tags[0].Name)

	taskURL := fmt.Sprintf("%s/tasks/%d", srv.URL, created.ID)

	resp, body = call(t, http.MethodPatch, taskURL, `{"completed":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var patched taskJSON
	require.NoError(t, json.Unmarshal(body, &patched))
	assert.True(t, patched.Completed)
	assert.Equal(t, created.Title, patched.Title)
	assert.Equal(t, created.Priority, patched.Priority)
	assert.Len(t, patched.Tags, 1)

	resp, _ = call(t, http.MethodDelete, taskURL, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = call(t, http.MethodGet, taskURL, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = call(t, http.MethodDelete, taskURL, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = call(t, http.MethodGet, srv.URL+"/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page pageJSON
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Tasks)
}

func TestTagFilteringAndPagination(t *testing.T) {
	srv := setupIntegrationServer(t)

	resp, body := call(t, http.MethodPost, srv.URL+"/tasks",
		`{"title":"Tagged","priority":2,"due_date":"2099-01-01","tags":["work","urgent"]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	for i := 0; i < 14; i++ {
		resp, body = call(t, http.MethodPost, srv.URL+"/tasks",
			fmt.Sprintf(`{"title":"Filler %d","priority":1,"due_date":"2099-01-01"}`, i))
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}

	for _, tag := range []string{"work", "urgent"} {
		resp, body = call(t, http.MethodGet, srv.URL+"/tasks?tags="+tag, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var page pageJSON
		require.NoError(t, json.Unmarshal(body, &page))
		require.Equal(t, 1, page.Total, tag)
		assert.Equal(t, "Tagged", page.Tasks[0].Title)
	}

	resp, body = call(t, http.MethodGet, srv.URL+"/tasks?tags=personal", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var none pageJSON
	require.NoError(t, json.Unmarshal(body, &none))
	assert.Equal(t, 0, none.Total)

	seen := map[int64]bool{}
	for _, offset := range []int{0, 10} {
		resp, body = call(t, http.MethodGet, fmt.Sprintf("%s/tasks?limit=10&offset=%d", srv.URL, offset), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var page pageJSON
		require.NoError(t, json.Unmarshal(body, &page))
		assert.Equal(t, 15, page.Total)
		for _, task := range page.Tasks {
			assert.False(t, seen[task.ID], "task %d returned on two pages", task.ID)
			seen[task.ID] = true
		}
	}
	assert.Len(t, seen, 15)
}

func TestCreateValidation(t *testing.T) {
	srv := setupIntegrationServer(t)

	resp, body := call(t, http.MethodPost, srv.URL+"/tasks",
		`{"title":"Too urgent","priority":6,"due_date":"2099-01-01"}`)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.JSONEq(t,
		`{"error":"Validation Failed","details":{"priority":"Input should be less than or equal to 5"}}`,
		string(body))
}
