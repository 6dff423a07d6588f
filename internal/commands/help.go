package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"todoctl/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todoctl help [<command>]" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		cmd, ok := DefaultRegistry.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		WriteCommandHelp(out, cmd)
		return exitcode.Success
	}

	writeOverview(out, DefaultRegistry.All())
	return exitcode.Success
}

// WriteCommandHelp prints the detail block shown by "help <command>" and
// "<command> --help".
func WriteCommandHelp(w io.Writer, cmd Command) {
	fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Synopsis(), cmd.Usage())
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(w, "\nAliases: %s\n", strings.Join(aliases, ", "))
	}
}

func writeOverview(w io.Writer, cmds []Command) {
	fmt.Fprint(w, "Usage:\n  todoctl <command> [common flags] [args]\n\n")
	fmt.Fprint(w, "Without a command, todoctl lists all todos.\n\nCommands:\n")
	for _, cmd := range cmds {
		fmt.Fprintf(w, "  %s\n      %s", cmd.Usage(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			fmt.Fprintf(w, " (also: %s)", strings.Join(aliases, ", "))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, helpFooter)
}

const helpFooter = `
A <ref> is a row number from the default listing (1-999) or a todo id.

Common flags:
  --config <dir>   Override config directory
  --lang <code>    Display language (en, fr)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
