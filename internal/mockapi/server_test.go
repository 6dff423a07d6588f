package mockapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/todo"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCRUD(t *testing.T) {
	s := New(nil)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/todos", `{"id":"a","title":"Buy milk","priority":"LOW","completed":"in progress"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created todo.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "a", created.ID)
	assert.Equal(t, "2024-03-01T12:00:00.000Z", created.CreatedAt)

	rec = do(t, h, http.MethodPost, "/todos", `{"title":"No id"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/todos", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []todo.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.NotEmpty(t, all[1].ID)

	rec = do(t, h, http.MethodPut, "/todos/a", `{"id":"ignored","title":"Buy oat milk","priority":"HIGH"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated todo.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "a", updated.ID)
	assert.Equal(t, todo.PriorityHigh, updated.Priority)

	rec = do(t, h, http.MethodGet, "/todos/a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Buy oat milk")

	rec = do(t, h, http.MethodDelete, "/todos/a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"a"}`, rec.Body.String())

	assert.Len(t, s.Todos(), 1)
}

func TestErrorsShapes(t *testing.T) {
	s := New(nil, todo.Todo{ID: "a", Title: "Existing"})
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/todos/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":{"message":"todo missing not found"}}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/todos", `{"priority":"URGENT"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":["title is required","priority must be one of LOW, MEDIUM, HIGH"]}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/todos", `{"id":"a","title":"dup"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPut, "/todos/missing", `{"title":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/todos/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/todos", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFailNext(t *testing.T) {
	s := New(nil)
	h := s.Handler()
	s.FailNext(2)

	assert.Equal(t, http.StatusInternalServerError, do(t, h, http.MethodGet, "/todos", "").Code)
	assert.Equal(t, http.StatusInternalServerError, do(t, h, http.MethodGet, "/todos", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/todos", "").Code)
}

func TestMetrics(t *testing.T) {
	s := New(nil, todo.Todo{ID: "a", Title: "x"}, todo.Todo{ID: "b", Title: "y"})
	h := s.Handler()

	do(t, h, http.MethodGet, "/todos", "")
	do(t, h, http.MethodGet, "/todos/a", "")
	do(t, h, http.MethodGet, "/todos/zzz", "")

	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics().Requests.WithLabelValues("GET", "/todos/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics().Requests.WithLabelValues("GET", "/todos/{id}", "404")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.Metrics().Todos))
	// one latency series per method and route
	assert.Equal(t, 2, testutil.CollectAndCount(s.Metrics().Latency))

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte("todoctl_mockapi_requests_total")))
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte(`todoctl_mockapi_request_duration_seconds_count{method="GET",route="/todos/{id}"} 2`)))
}
