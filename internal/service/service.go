// Package service defines the backend-agnostic interface for todo operations.
package service

import (
	"context"

	"todoctl/internal/todo"
)

// Service defines the interface for todo backend operations.
// Every remote call goes through this interface; the store and the commands
// never import a backend package directly.
type Service interface {
	// ListTodos returns every todo known to the backend.
	ListTodos(ctx context.Context) ([]todo.Todo, error)

	// GetTodo returns a single todo by id.
	GetTodo(ctx context.Context, id string) (todo.Todo, error)

	// CreateTodo stores a new todo and returns the backend's copy, which may
	// differ from the submitted one (for example a server-assigned id).
	CreateTodo(ctx context.Context, t todo.Todo) (todo.Todo, error)

	// UpdateTodo replaces a todo and returns the fields the backend reports.
	// Fields missing from the answer are nil in the patch.
	UpdateTodo(ctx context.Context, t todo.Todo) (todo.Patch, error)

	// DeleteTodo removes a todo by id.
	DeleteTodo(ctx context.Context, id string) error
}
