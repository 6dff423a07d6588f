// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sync"

	"todoctl/internal/todo"
)

// ErrNotFound is returned when a todo does not exist.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	todos []todo.Todo
	calls []string

	// Error injection for testing
	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	DeleteErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// AddTodo adds a todo as the backend would store it.
func (f *FakeService) AddTodo(t todo.Todo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.todos = append(f.todos, t)
}

// Todos returns the stored todos in insertion order.
func (f *FakeService) Todos() []todo.Todo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]todo.Todo, len(f.todos))
	copy(result, f.todos)
	return result
}

// Calls returns the names of the service methods called so far.
func (f *FakeService) Calls() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeService) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

// ListTodos implements service.Service.
func (f *FakeService) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	f.record("ListTodos")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Todos(), nil
}

// GetTodo implements service.Service.
func (f *FakeService) GetTodo(ctx context.Context, id string) (todo.Todo, error) {
	f.record("GetTodo")
	if f.GetErr != nil {
		return todo.Todo{}, f.GetErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if i := f.index(id); i >= 0 {
		return f.todos[i], nil
	}
	return todo.Todo{}, ErrNotFound
}

// CreateTodo implements service.Service.
func (f *FakeService) CreateTodo(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	f.record("CreateTodo")
	if f.CreateErr != nil {
		return todo.Todo{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = todo.NewID()
	}
	f.todos = append(f.todos, t)
	return t, nil
}

// UpdateTodo implements service.Service.
func (f *FakeService) UpdateTodo(ctx context.Context, t todo.Todo) (todo.Patch, error) {
	f.record("UpdateTodo")
	if f.UpdateErr != nil {
		return todo.Patch{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(t.ID)
	if i < 0 {
		return todo.Patch{}, ErrNotFound
	}
	f.todos[i] = t
	return todo.PatchFrom(t), nil
}

// DeleteTodo implements service.Service.
func (f *FakeService) DeleteTodo(ctx context.Context, id string) error {
	f.record("DeleteTodo")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return ErrNotFound
	}
	f.todos = append(f.todos[:i], f.todos[i+1:]...)
	return nil
}

// index returns the position of id, or -1. Callers hold f.mu.
func (f *FakeService) index(id string) int {
	for i, t := range f.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
