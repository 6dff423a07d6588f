// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"todoctl/internal/config"
	"todoctl/internal/i18n"
	"todoctl/internal/service"
)

// Env is everything a command runs against.
type Env struct {
	// Config is always provided (config dir, paths, settings).
	Config *config.Config

	// Service is nil if NeedsBackend() returns false.
	Service service.Service

	// Logger is a no-op logger unless --debug is set.
	Logger *zap.Logger

	// T translates user-facing messages.
	T *i18n.Translator
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsBackend returns true if the command talks to the todo backend.
	// Commands like help, version, lang, login, logout return false.
	NeedsBackend() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command with the positional arguments left after flag
	// parsing and returns the exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}
