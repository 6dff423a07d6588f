package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"todoctl/internal/exitcode"
	"todoctl/internal/i18n"
)

func init() {
	Register(&LangCmd{})
}

// LangCmd implements the lang command.
type LangCmd struct{}

func (c *LangCmd) Name() string       { return "lang" }
func (c *LangCmd) Aliases() []string  { return nil }
func (c *LangCmd) Synopsis() string   { return "Show or set the display language" }
func (c *LangCmd) Usage() string      { return "todoctl lang [<code>]" }
func (c *LangCmd) NeedsBackend() bool { return false }

func (c *LangCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *LangCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	supported := strings.Join(i18n.Supported(), ", ")

	switch len(args) {
	case 0:
		fmt.Fprintf(out, "%s (%s)\n", env.T.T("lang.current", env.T.Language()), supported)
		return exitcode.Success
	case 1:
	default:
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	code, ok := i18n.Match(args[0])
	if !ok {
		fmt.Fprintf(errOut, "error: %s\n", env.T.T("lang.unsupported", args[0], supported))
		return exitcode.UserError
	}

	if err := env.Config.StoreLanguage(code); err != nil {
		fmt.Fprintf(errOut, "error: failed to save language: %v\n", err)
		return exitcode.AuthError
	}

	env.T = i18n.New(code)
	say(env, out, "lang.set", code)
	return exitcode.Success
}
