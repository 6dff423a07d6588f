package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"todoctl/internal/todo"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string   { return "Mark a todo completed" }
func (c *DoneCmd) Usage() string      { return "todoctl done <ref>" }
func (c *DoneCmd) NeedsBackend() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	s := newSession(env)
	t, code, ok := resolveArgs(ctx, s, args, errOut)
	if !ok {
		return code
	}

	form := todo.BuildForm(&t)
	form.Completed = todo.StatusCompleted
	return saveEdit(ctx, s, form.Todo(), "todo.completed", out, errOut)
}
