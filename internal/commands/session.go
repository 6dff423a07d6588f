package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"todoctl/internal/backend/rest"
	"todoctl/internal/effects"
	"todoctl/internal/exitcode"
	"todoctl/internal/state"
	"todoctl/internal/todo"
)

// session is the store and effect layer of one invocation.
type session struct {
	env   *Env
	store *state.Store
	fx    *effects.Effects
}

func newSession(env *Env) *session {
	store := state.NewStore()
	store.Subscribe(func(a state.Action, s state.State) {
		env.Logger.Debug("action", zap.String("type", a.Type()), zap.Int("todos", state.Total(s)))
	})
	return &session{
		env:   env,
		store: store,
		fx:    effects.New(store, env.Service, env.Logger),
	}
}

// do dispatches a request and waits for its answer to land in the store.
func (s *session) do(ctx context.Context, req state.Request) error {
	return s.fx.Do(ctx, req)
}

// set dispatches a synchronous action.
func (s *session) set(ctx context.Context, a state.Action) {
	s.fx.Dispatch(ctx, a)
}

func (s *session) state() state.State {
	return s.store.State()
}

func (s *session) views() *state.Selectors {
	return s.store.Selectors()
}

// backendFailure prints the user-facing failure message and the specific
// cause, and picks the exit code.
func backendFailure(env *Env, errOut io.Writer, err error) int {
	cause := err
	var failure *effects.Failure
	if errors.As(err, &failure) {
		cause = failure.Err
	}
	fmt.Fprintf(errOut, "error: %s: %s\n", env.T.T("error.requestFailed"), rest.Detail(cause))

	if strings.Contains(err.Error(), "token expired or revoked") {
		return exitcode.AuthError
	}
	var apiErr *rest.APIError
	if errors.As(err, &apiErr) {
		return exitcode.ForStatus(apiErr.StatusCode)
	}
	return exitcode.BackendError
}

// formFailure prints a validation error and returns the user error code.
func formFailure(env *Env, errOut io.Writer, form todo.Form, err error) int {
	var msg string
	switch {
	case errors.Is(err, todo.ErrTitleRequired):
		msg = env.T.T("error.titleRequired")
	case errors.Is(err, todo.ErrInvalidPriority):
		msg = env.T.T("error.invalidPriority", string(form.Priority), joinPriorities())
	case errors.Is(err, todo.ErrInvalidStatus):
		msg = env.T.T("error.invalidStatus", form.Completed, strings.Join(todo.ValidStatuses(), ", "))
	default:
		msg = err.Error()
	}
	fmt.Fprintf(errOut, "error: %s\n", msg)
	return exitcode.UserError
}

func joinPriorities() string {
	names := make([]string, 0, 3)
	for _, p := range todo.ValidPriorities() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// say prints an informational line unless --quiet is set.
func say(env *Env, out io.Writer, key string, args ...any) {
	if env.Config.Quiet {
		return
	}
	fmt.Fprintln(out, env.T.T(key, args...))
}
