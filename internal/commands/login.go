package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"todoctl/internal/backend/googletasks"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
)

const (
	callbackWait     = 5 * time.Minute
	exchangeTimeout  = 30 * time.Second
	validateTimeout  = 10 * time.Second
	callbackBasePort = 8085
	callbackPorts    = 5
)

const oauthClientHelp = `To use the Google Tasks backend, you need OAuth credentials:

1. Go to https://console.cloud.google.com/apis/credentials
2. Enable the Google Tasks API for your project
3. Create an OAuth client ID of type 'Desktop app' and download the JSON
4. Save it as %s

Then run 'todoctl login' again.
`

const callbackPage = `<html><body><h1>Authentication successful</h1><p>You may close this window.</p></body></html>`

func init() {
	Register(&LoginCmd{})
}

// LoginCmd stores credentials. With --token the bearer token is written for
// the REST backend; the Google Tasks backend runs the OAuth PKCE flow.
type LoginCmd struct {
	token string
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Store credentials for the backend" }
func (c *LoginCmd) Usage() string      { return "todoctl login [--token <access-token>]" }
func (c *LoginCmd) NeedsBackend() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.token, "token", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	cfg := env.Config

	switch {
	case c.token != "":
		env.Logger.Debug("storing bearer token", zap.String("path", cfg.TokenPath()))
		if err := storeToken(cfg, &oauth2.Token{AccessToken: c.token, TokenType: "Bearer"}); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
	case cfg.Settings.Backend != config.BackendGoogleTasks:
		fmt.Fprintln(errOut, "error: the rest backend needs a token (run: todoctl login --token <access-token>)")
		return exitcode.UserError
	default:
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
			fmt.Fprintf(errOut, oauthClientHelp, cfg.OAuthClientPath())
			return exitcode.AuthError
		}
		flow, err := newOAuthFlow(cfg, env.Logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
		if flow.hasUsableToken(ctx) {
			say(env, out, "auth.alreadyLoggedIn")
			return exitcode.Success
		}
		token, err := flow.authorize(ctx, errOut)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
		if err := storeToken(cfg, token); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
	}

	say(env, out, "auth.loggedIn")
	return exitcode.Success
}

// oauthFlow is one Google login attempt.
type oauthFlow struct {
	cfg    *config.Config
	oauth  *oauth2.Config
	logger *zap.Logger
}

func newOAuthFlow(cfg *config.Config, logger *zap.Logger) (*oauthFlow, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, errors.Wrap(err, "failed to read oauth_client.json")
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, googletasks.Scope)
	if err != nil {
		return nil, errors.Wrap(err, "invalid oauth_client.json")
	}
	return &oauthFlow{cfg: cfg, oauth: oauthConfig, logger: logger}, nil
}

// hasUsableToken reports whether the stored token carries a refresh token
// that still yields an access token.
func (f *oauthFlow) hasUsableToken(ctx context.Context) bool {
	data, err := os.ReadFile(f.cfg.TokenPath())
	if err != nil {
		return false
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil || token.RefreshToken == "" {
		f.logger.Debug("stored token unusable", zap.Error(err))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()
	_, err = f.oauth.TokenSource(ctx, &token).Token()
	if err != nil {
		f.logger.Debug("stored token rejected", zap.Error(err))
	}
	return err == nil
}

// authorize prints the consent URL, waits for the browser to hit the local
// callback, and exchanges the code for a token.
func (f *oauthFlow) authorize(ctx context.Context, prompt io.Writer) (*oauth2.Token, error) {
	listener, port, err := listenCallback()
	if err != nil {
		return nil, err
	}
	defer listener.Close()

	f.oauth.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)
	verifier := oauth2.GenerateVerifier()
	authURL := f.oauth.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.S256ChallengeOption(verifier))

	fmt.Fprintf(prompt, "Open this URL in your browser:\n%s\n", authURL)
	f.logger.Debug("waiting for oauth callback", zap.Int("port", port))

	code, err := awaitCode(ctx, listener)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	token, err := f.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, errors.Wrap(err, "failed to exchange code for token")
	}
	return token, nil
}

// listenCallback binds the first free port of the callback range.
func listenCallback() (net.Listener, int, error) {
	for port := callbackBasePort; port < callbackBasePort+callbackPorts; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			return listener, port, nil
		}
	}
	return nil, 0, errors.New("could not bind to local port for OAuth callback")
}

// awaitCode serves /callback on listener until it receives an
// authorization code, the wait times out, or ctx ends.
func awaitCode(ctx context.Context, listener net.Listener) (string, error) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	r := chi.NewRouter()
	r.Get("/callback", func(w http.ResponseWriter, req *http.Request) {
		code := req.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			select {
			case errCh <- errors.New("no code in callback"):
			default:
			}
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, callbackPage)
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Handler: r}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- err:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	timer := time.NewTimer(callbackWait)
	defer timer.Stop()

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-timer.C:
		return "", errors.New("oauth callback timed out")
	case <-ctx.Done():
		return "", errors.New("cancelled")
	}
}

// storeToken writes token to the config directory with mode 0600.
func storeToken(cfg *config.Config, token *oauth2.Token) error {
	if err := cfg.EnsureDir(); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode token")
	}
	if err := os.WriteFile(cfg.TokenPath(), data, 0600); err != nil {
		return errors.Wrap(err, "failed to save token")
	}
	return nil
}
