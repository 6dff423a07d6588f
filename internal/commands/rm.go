package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"todoctl/internal/exitcode"
	"todoctl/internal/state"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a todo" }
func (c *RmCmd) Usage() string      { return "todoctl rm <ref>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	ref, err := ParseTodoRef(args)
	if err != nil {
		if errors.Is(err, ErrTodoRefRequired) {
			fmt.Fprintln(errOut, "error: todo reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	s := newSession(env)
	id := ref.ID
	if id == "" {
		// Rows need the listing; ids are deleted without a lookup.
		t, err := lookupTodo(ctx, s, ref)
		if err != nil {
			if errors.Is(err, errTodoNotFound) {
				fmt.Fprintf(errOut, "error: %s\n", env.T.T("error.notFound", ref.String()))
				return exitcode.UserError
			}
			return backendFailure(env, errOut, err)
		}
		id = t.ID
	}

	if err := s.do(ctx, state.Delete{ID: id}); err != nil {
		if isNotFound(err) {
			fmt.Fprintf(errOut, "error: %s\n", env.T.T("error.notFound", id))
			return exitcode.UserError
		}
		return backendFailure(env, errOut, err)
	}
	say(env, out, "todo.deleted", id)
	return exitcode.Success
}
