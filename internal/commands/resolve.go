package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"todoctl/internal/backend/rest"
	"todoctl/internal/exitcode"
	"todoctl/internal/state"
	"todoctl/internal/todo"
)

// errTodoNotFound is returned when a reference matches no todo.
var errTodoNotFound = errors.New("todo not found")

// lookupTodo resolves ref to a record. A row is looked up in the default
// listing, which requires loading every todo; an id is fetched directly.
func lookupTodo(ctx context.Context, s *session, ref TodoRef) (todo.Todo, error) {
	if ref.ID != "" {
		if err := s.do(ctx, state.FetchByID{ID: ref.ID}); err != nil {
			if isNotFound(err) {
				return todo.Todo{}, fmt.Errorf("%w: %s", errTodoNotFound, ref)
			}
			return todo.Todo{}, err
		}
		t, ok := state.Selected(s.state())
		if !ok {
			return todo.Todo{}, fmt.Errorf("%w: %s", errTodoNotFound, ref)
		}
		return t, nil
	}

	if err := s.do(ctx, state.LoadAll{}); err != nil {
		return todo.Todo{}, err
	}
	list := s.views().All(s.state())
	if ref.Row < 1 || ref.Row > len(list) {
		return todo.Todo{}, fmt.Errorf("%w: %d", errTodoNotFound, ref.Row)
	}
	t := list[ref.Row-1]
	s.set(ctx, state.SetSelectedTodoID{ID: t.ID})
	return t, nil
}

// isNotFound reports whether a backend error means the todo does not exist.
func isNotFound(err error) bool {
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return strings.HasSuffix(err.Error(), "not found")
}

// resolveArgs parses a reference from args and looks it up, reporting any
// failure on errOut. ok is false when the command should exit with code.
func resolveArgs(ctx context.Context, s *session, args []string, errOut io.Writer) (t todo.Todo, code int, ok bool) {
	ref, err := ParseTodoRef(args)
	if err != nil {
		if errors.Is(err, ErrTodoRefRequired) {
			fmt.Fprintln(errOut, "error: todo reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return todo.Todo{}, exitcode.UserError, false
	}

	t, err = lookupTodo(ctx, s, ref)
	if err != nil {
		if errors.Is(err, errTodoNotFound) {
			fmt.Fprintf(errOut, "error: %s\n", s.env.T.T("error.notFound", ref.String()))
			return todo.Todo{}, exitcode.UserError, false
		}
		return todo.Todo{}, backendFailure(s.env, errOut, err), false
	}
	return t, exitcode.Success, true
}
