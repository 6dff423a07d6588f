package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"todoctl/internal/exitcode"
	"todoctl/internal/mockapi"
)

const (
	defaultServeAddr = "localhost:3000"

	serveShutdownTimeout = 5 * time.Second
	serveHeaderTimeout   = 10 * time.Second
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command: an in-memory todo API for local use.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Run an in-memory todo API" }
func (c *ServeCmd) Usage() string      { return "todoctl serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsBackend() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.addr, "addr", defaultServeAddr, "")
}

func (c *ServeCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	listener, err := net.Listen("tcp", c.addr)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	api := mockapi.New(env.Logger)
	server := &http.Server{
		Handler:           api.Handler(),
		ReadHeaderTimeout: serveHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()
	say(env, out, "serve.listening", listener.Addr().String())

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		return exitcode.Success
	case <-ctx.Done():
	}

	env.Logger.Debug("shutting down mock API", zap.Int("todos", len(api.Todos())))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
