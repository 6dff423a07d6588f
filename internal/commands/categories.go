package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"todoctl/internal/exitcode"
	"todoctl/internal/output"
)

func init() {
	Register(&CategoriesCmd{})
}

// CategoriesCmd implements the categories command.
type CategoriesCmd struct{}

func (c *CategoriesCmd) Name() string       { return "categories" }
func (c *CategoriesCmd) Aliases() []string  { return nil }
func (c *CategoriesCmd) Synopsis() string   { return "Print filter categories and sort attributes" }
func (c *CategoriesCmd) Usage() string      { return "todoctl categories" }
func (c *CategoriesCmd) NeedsBackend() bool { return false }

func (c *CategoriesCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *CategoriesCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	output.FormatCategories(out, env.T)
	return exitcode.Success
}
