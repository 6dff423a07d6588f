// Package config handles the XDG configuration directory, its files and the
// optional config.toml settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "todoctl"

	// SettingsFile is the optional TOML settings filename.
	SettingsFile = "config.toml"

	// OAuthClientFile is the OAuth client credentials filename (Google backend).
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// LanguageFile stores the user's chosen display language.
	LanguageFile = "language"
)

// Backend names accepted in settings.
const (
	BackendREST        = "rest"
	BackendGoogleTasks = "googletasks"
)

// Defaults applied when settings leave a value unset.
const (
	DefaultBaseURL = "http://localhost:3000/"
	DefaultRetries = 2
	DefaultTimeout = 5 * time.Second
)

// Environment overrides.
const (
	EnvBaseURL = "TODOCTL_BASE_URL"
	EnvBackend = "TODOCTL_BACKEND"
)

// Settings are the values read from config.toml.
type Settings struct {
	// Backend selects the todo backend: "rest" (default) or "googletasks".
	Backend string `toml:"backend"`

	// BaseURL is the REST API root.
	BaseURL string `toml:"base_url"`

	// Retries is how many times a failed call is retried.
	Retries int `toml:"retries"`

	// Timeout bounds each backend call, retries included.
	Timeout time.Duration `toml:"timeout"`

	// Language is the preferred display language.
	Language string `toml:"language"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Language overrides the display language for this run.
	Language string

	// Settings holds config.toml values with defaults applied.
	Settings Settings
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/todoctl or $HOME/.config/todoctl.
// A missing config.toml is not an error.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	settings, err := LoadSettings(cfg.SettingsPath())
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return cfg, nil
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Backend: BackendREST,
		BaseURL: DefaultBaseURL,
		Retries: DefaultRetries,
		Timeout: DefaultTimeout,
	}
}

// LoadSettings reads path, fills unset values with defaults and applies
// environment overrides.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	default:
		var file Settings
		meta, err := toml.Decode(string(data), &file)
		if err != nil {
			return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
		}
		if meta.IsDefined("backend") {
			settings.Backend = file.Backend
		}
		if meta.IsDefined("base_url") {
			settings.BaseURL = file.BaseURL
		}
		if meta.IsDefined("retries") {
			settings.Retries = file.Retries
		}
		if meta.IsDefined("timeout") {
			settings.Timeout = file.Timeout
		}
		if meta.IsDefined("language") {
			settings.Language = file.Language
		}
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		settings.BaseURL = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		settings.Backend = v
	}

	settings.Backend = strings.ToLower(strings.TrimSpace(settings.Backend))
	if settings.Backend == "" {
		settings.Backend = BackendREST
	}
	if settings.Backend != BackendREST && settings.Backend != BackendGoogleTasks {
		return Settings{}, fmt.Errorf("unknown backend: %s", settings.Backend)
	}
	if settings.Retries < 0 {
		return Settings{}, fmt.Errorf("retries must not be negative: %d", settings.Retries)
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
	return settings, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.toml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// LanguagePath returns the path to the stored language choice.
func (c *Config) LanguagePath() string {
	return filepath.Join(c.Dir, LanguageFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// StoredLanguage returns the persisted language choice, or "" if none.
func (c *Config) StoredLanguage() string {
	data, err := os.ReadFile(c.LanguagePath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// StoreLanguage persists the language choice.
func (c *Config) StoreLanguage(lang string) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	return os.WriteFile(c.LanguagePath(), []byte(lang+"\n"), 0600)
}
