package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"todoctl/internal/exitcode"
	"todoctl/internal/state"
	"todoctl/internal/todo"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	form formFlags
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change fields of a todo" }
func (c *EditCmd) Usage() string {
	return "todoctl edit [--title <t>] [--description <d>] [--priority <p>] [--status <s>] <ref>"
}
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.form.register(fs, true)
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if !c.form.given() {
		fmt.Fprintf(errOut, "error: %s\n", env.T.T("error.nothingToEdit"))
		return exitcode.UserError
	}

	s := newSession(env)
	t, code, ok := resolveArgs(ctx, s, args, errOut)
	if !ok {
		return code
	}

	form := todo.BuildForm(&t)
	c.form.apply(&form)
	if err := form.Validate(); err != nil {
		return formFailure(env, errOut, form, err)
	}
	return saveEdit(ctx, s, form.Todo(), "todo.updated", out, errOut)
}

// saveEdit sends the full record and reports the outcome.
func saveEdit(ctx context.Context, s *session, t todo.Todo, msgKey string, out, errOut io.Writer) int {
	if err := s.do(ctx, state.Edit{Todo: t}); err != nil {
		return backendFailure(s.env, errOut, err)
	}
	say(s.env, out, msgKey, t.ID)
	return exitcode.Success
}
