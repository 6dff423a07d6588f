package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/config"
	"todoctl/internal/todo"
)

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewWithHTTPClient(srv.Client(), srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestRetriesExhausted(t *testing.T) {
	var attempts atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		http.Error(w, `{"error":"database offline"}`, http.StatusInternalServerError)
	}), WithDefaultRetries(2))

	_, err := c.ListTodos(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(3), attempts.Load())
	assert.True(t, errors.Is(err, ErrRequestFailed))

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 3, reqErr.Attempts)
	assert.Equal(t, http.MethodGet, reqErr.Method)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "database offline", apiErr.Message)
	assert.Equal(t, "database offline", Detail(err))
}

func TestRetrySucceedsOnLastAttempt(t *testing.T) {
	var attempts atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode([]todo.Todo{{ID: "1", Title: "Buy milk"}})
	}), WithDefaultRetries(2))

	todos, err := c.ListTodos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), attempts.Load())
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)
}

func TestPerCallRetries(t *testing.T) {
	var attempts atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}), WithDefaultRetries(2))

	err := c.Get(context.Background(), "todos", nil, WithRetries(0))
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestNormalizeMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", "", "Internal Server Error"},
		{"plain text", "boom", "boom"},
		{"json string", `"quota exceeded"`, "quota exceeded"},
		{"error object with message", `{"error":{"message":"title is required","code":42}}`, "title is required"},
		{"error object without message", `{"error":{"code":42}}`, `{"code":42}`},
		{"error array", `{"error":["title is required","priority is invalid"]}`, "title is required\npriority is invalid"},
		{"error string", `{"error":"not allowed"}`, "not allowed"},
		{"object without error", `{"detail":"x"}`, "Internal Server Error"},
		{"json number", `42`, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMessage("Internal Server Error", []byte(tt.body)))
		})
	}
}

func TestSkipErrorInterceptor(t *testing.T) {
	var header atomic.Value
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header.Store(r.Header.Get(HeaderSkipErrorInterceptor))
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"no such todo"}`)
	}))

	err := c.Get(context.Background(), "todos/x", nil, SkipErrorInterceptor(), WithRetries(0))
	require.Error(t, err)
	assert.Equal(t, "true", header.Load())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Empty(t, apiErr.Message)
	assert.Equal(t, "Not Found", apiErr.Error())
	assert.JSONEq(t, `{"error":"no such todo"}`, string(apiErr.Body))
}

func TestCRUDRequests(t *testing.T) {
	type seen struct {
		method, path, contentType string
		body                      map[string]any
	}
	var got []seen
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := seen{method: r.Method, path: r.URL.EscapedPath(), contentType: r.Header.Get("Content-Type")}
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &s.body)
			}
		}
		got = append(got, s)
		switch r.Method {
		case http.MethodPost:
			_, _ = io.WriteString(w, `{"id":"srv-1","title":"Buy milk","priority":"LOW","completed":"in progress","createdAt":"2024-01-01T00:00:00Z"}`)
		case http.MethodPut:
			_, _ = io.WriteString(w, `{"title":"Buy oat milk"}`)
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"id":"a b","title":"Spaced"}`)
		case http.MethodDelete:
			_, _ = io.WriteString(w, `{"id":"a b"}`)
		}
	}), WithDefaultRetries(0))
	ctx := context.Background()

	created, err := c.CreateTodo(ctx, todo.Todo{ID: "local", Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", created.ID)

	patch, err := c.UpdateTodo(ctx, todo.Todo{ID: "srv-1", Title: "Buy oat milk"})
	require.NoError(t, err)
	require.NotNil(t, patch.Title)
	assert.Equal(t, "Buy oat milk", *patch.Title)
	assert.Nil(t, patch.Priority)

	fetched, err := c.GetTodo(ctx, "a b")
	require.NoError(t, err)
	assert.Equal(t, "Spaced", fetched.Title)

	require.NoError(t, c.DeleteTodo(ctx, "a b"))

	require.Len(t, got, 4)
	assert.Equal(t, http.MethodPost, got[0].method)
	assert.Equal(t, "/todos", got[0].path)
	assert.Equal(t, "application/json", got[0].contentType)
	assert.Equal(t, "Buy milk", got[0].body["title"])
	assert.Equal(t, http.MethodPut, got[1].method)
	assert.Equal(t, "/todos/srv-1", got[1].path)
	assert.Equal(t, "/todos/a%20b", got[2].path)
	assert.Equal(t, http.MethodDelete, got[3].method)
	assert.Empty(t, got[3].contentType)
}

func TestContextCancelStopsRetrying(t *testing.T) {
	var attempts atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		cancel()
		w.WriteHeader(http.StatusInternalServerError)
	}), WithDefaultRetries(5))

	_, err := c.ListTodos(ctx)
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
	assert.True(t, errors.Is(err, ErrRequestFailed))
}

func TestTimeoutCoversRetries(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}), WithDefaultRetries(3), WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := c.ListTodos(context.Background())
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewSendsBearerToken(t *testing.T) {
	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.TokenFile),
		[]byte(`{"access_token":"secret","token_type":"Bearer"}`), 0o600))
	cfg := &config.Config{Dir: dir, Settings: config.DefaultSettings()}
	cfg.Settings.BaseURL = srv.URL

	c, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	_, err = c.ListTodos(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth.Load())
}

func TestNewWithoutToken(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Settings: config.DefaultSettings()}
	c, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBaseURL, c.baseURL)
	assert.Equal(t, config.DefaultRetries, c.retries)
}

func TestInvalidBaseURL(t *testing.T) {
	_, err := NewWithHTTPClient(nil, "ftp://example.com")
	require.Error(t, err)
	_, err = NewWithHTTPClient(nil, "://bad")
	require.Error(t, err)
}

func TestNumericIDsDecode(t *testing.T) {
	var attempts atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `[{"id":1700000000000,"title":"Buy milk","description":"","createdAt":"2024-01-02T03:04:05.000Z","priority":"LOW","completed":"in progress"}]`)
		case http.MethodPut:
			io.WriteString(w, `{"id":1700000000000,"title":"Buy oat milk"}`)
		}
	}))

	todos, err := c.ListTodos(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "1700000000000", todos[0].ID)
	assert.Equal(t, "Buy milk", todos[0].Title)
	assert.Equal(t, int32(1), attempts.Load())

	todos[0].Title = "Buy oat milk"
	patch, err := c.UpdateTodo(context.Background(), todos[0])
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", patch.ID)
}
