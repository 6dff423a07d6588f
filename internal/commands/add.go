package commands

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"todoctl/internal/exitcode"
	"todoctl/internal/state"
	"todoctl/internal/todo"
)

func init() {
	Register(&AddCmd{now: time.Now})
}

// AddCmd implements the add command.
type AddCmd struct {
	form formFlags
	now  func() time.Time
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a todo" }
func (c *AddCmd) Usage() string {
	return "todoctl add [--description <text>] [--priority <p>] [--status <s>] <title...>"
}
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.form.register(fs, false)
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	form := todo.BuildForm(nil)
	form.Title = strings.Join(args, " ")
	c.form.apply(&form)
	if err := form.Validate(); err != nil {
		return formFailure(env, errOut, form, err)
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	t := form.Todo()
	t.ID = todo.NewID()
	t.CreatedAt = todo.Timestamp(now())

	s := newSession(env)
	if err := s.do(ctx, state.Create{Todo: t}); err != nil {
		return backendFailure(env, errOut, err)
	}

	// The backend may assign its own id; the store holds its copy.
	created := t
	if all := state.All(s.state()); len(all) == 1 {
		created = all[0]
	}
	say(env, out, "todo.created", created.ID)
	return exitcode.Success
}
