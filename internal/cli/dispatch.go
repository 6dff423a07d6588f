// Package cli parses the command line and dispatches to registered commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"todoctl/internal/backend/googletasks"
	"todoctl/internal/backend/rest"
	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/i18n"
	"todoctl/internal/logging"
	"todoctl/internal/service"
)

// ErrNotLoggedIn is returned by the default factory when the selected backend
// needs credentials that are not stored yet.
var ErrNotLoggedIn = errors.New("not logged in (run: todoctl login)")

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Service, error)

// DefaultServiceFactory builds the backend named in the settings.
func DefaultServiceFactory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Service, error) {
	switch cfg.Settings.Backend {
	case config.BackendGoogleTasks:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%w: oauth_client.json not found in %s", ErrNotLoggedIn, cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, ErrNotLoggedIn
		}
		return googletasks.New(ctx, cfg)
	default:
		return rest.New(ctx, cfg, logger)
	}
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory

	// Getenv reads the locale variables. Defaults to os.Getenv.
	Getenv func(string) string
}

// NewDispatcher creates a new dispatcher with the given registry and service
// factory. A nil factory selects DefaultServiceFactory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	if factory == nil {
		factory = DefaultServiceFactory
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		Getenv:   os.Getenv,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		if hint := d.registry.Suggest(cmdName); hint != "" {
			fmt.Fprintf(errOut, "error: unknown command: %s (did you mean %s?)\n", cmdName, hint)
		} else {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		}
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves
	fs.Usage = func() {}

	// Common flags
	var (
		configDir string
		lang      string
		quiet     bool
		debug     bool
	)
	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&lang, "lang", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			commands.WriteCommandHelp(out, cmd)
			return exitcode.Success
		}
		// pflag messages already read "unknown flag: --x" and
		// "flag needs an argument: --x".
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	getenv := d.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg.Language = i18n.Resolve(lang, cfg.StoredLanguage(), cfg.Settings.Language, i18n.EnvLocale(getenv))

	logger := logging.New(debug, errOut)
	defer func() { _ = logger.Sync() }()
	logger.Debug("dispatch",
		zap.String("command", cmd.Name()),
		zap.String("config", cfg.Dir),
		zap.String("backend", cfg.Settings.Backend),
		zap.String("lang", cfg.Language),
	)

	env := &commands.Env{
		Config: cfg,
		Logger: logger,
		T:      i18n.New(cfg.Language),
	}

	if cmd.NeedsBackend() {
		svc, err := d.factory(ctx, cfg, logger)
		if err != nil {
			if errors.Is(err, ErrNotLoggedIn) {
				fmt.Fprintf(errOut, "error: %s\n", err)
				return exitcode.AuthError
			}
			// Unreadable credentials are reported as auth errors
			if strings.Contains(err.Error(), "token") || strings.Contains(err.Error(), "auth") {
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
		env.Service = svc
	}

	return cmd.Run(ctx, env, fs.Args(), out, errOut)
}
