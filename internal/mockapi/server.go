// Package mockapi is an in-memory implementation of the todo REST API, used
// by the serve command and by tests.
package mockapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"todoctl/internal/todo"
)

// Server stores todos in memory and serves them over HTTP.
type Server struct {
	mu       sync.RWMutex
	todos    map[string]todo.Todo
	order    []string
	failures int

	metrics *Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// New creates a server holding the seed todos.
func New(logger *zap.Logger, seed ...todo.Todo) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		todos:   make(map[string]todo.Todo),
		metrics: NewMetrics(),
		logger:  logger,
		now:     time.Now,
	}
	for _, t := range seed {
		s.put(t)
	}
	return s
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// FailNext makes the next n todo requests answer 500.
func (s *Server) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = n
}

// Todos returns the stored todos in insertion order.
func (s *Server) Todos() []todo.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]todo.Todo, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.todos[id])
	}
	return result
}

// Handler returns the HTTP handler: the todo endpoints plus /metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Handle("/metrics", s.metrics.Handler())
	r.Route("/todos", func(r chi.Router) {
		r.Use(s.injectFailures)
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})
	return r
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		fail := s.failures > 0
		if fail {
			s.failures--
		}
		s.mu.Unlock()
		if fail {
			writeError(w, http.StatusInternalServerError, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Todos())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.RLock()
	t, ok := s.todos[id]
	s.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "todo "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var t todo.Todo
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if problems := validate(t); len(problems) > 0 {
		writeErrors(w, http.StatusBadRequest, problems)
		return
	}
	if t.ID == "" {
		t.ID = todo.NewID()
	}
	if t.CreatedAt == "" {
		t.CreatedAt = todo.Timestamp(s.now())
	}

	s.mu.Lock()
	if _, exists := s.todos[t.ID]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "todo "+t.ID+" already exists")
		return
	}
	s.put(t)
	s.mu.Unlock()

	s.logger.Debug("todo created", zap.String("id", t.ID))
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var t todo.Todo
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if problems := validate(t); len(problems) > 0 {
		writeErrors(w, http.StatusBadRequest, problems)
		return
	}
	t.ID = id

	s.mu.Lock()
	if _, ok := s.todos[id]; !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "todo "+id+" not found")
		return
	}
	s.put(t)
	s.mu.Unlock()

	s.logger.Debug("todo updated", zap.String("id", id))
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	if _, ok := s.todos[id]; !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, "todo "+id+" not found")
		return
	}
	delete(s.todos, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.metrics.Todos.Set(float64(len(s.todos)))
	s.mu.Unlock()

	s.logger.Debug("todo deleted", zap.String("id", id))
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// put stores t, keeping its position when it already exists.
// Callers hold s.mu or have exclusive access.
func (s *Server) put(t todo.Todo) {
	if _, exists := s.todos[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.todos[t.ID] = t
	s.metrics.Todos.Set(float64(len(s.todos)))
}

func validate(t todo.Todo) []string {
	var problems []string
	if t.Title == "" {
		problems = append(problems, "title is required")
	}
	if t.Priority != "" && !t.Priority.IsValid() {
		problems = append(problems, "priority must be one of LOW, MEDIUM, HIGH")
	}
	return problems
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers {"error": {"message": msg}}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": map[string]string{"message": msg}})
}

// writeErrors answers {"error": [problems...]}.
func writeErrors(w http.ResponseWriter, status int, problems []string) {
	writeJSON(w, status, map[string]any{"error": problems})
}
