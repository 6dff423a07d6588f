package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"todoctl/internal/exitcode"
	"todoctl/internal/output"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return []string{"get"} }
func (c *ShowCmd) Synopsis() string   { return "Print every field of a todo" }
func (c *ShowCmd) Usage() string      { return "todoctl show <ref>" }
func (c *ShowCmd) NeedsBackend() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	s := newSession(env)
	t, code, ok := resolveArgs(ctx, s, args, errOut)
	if !ok {
		return code
	}
	output.FormatDetails(out, env.T, t)
	return exitcode.Success
}
