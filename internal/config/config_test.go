package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsWithoutSettingsFile(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvBackend, "")

	cfg, err := New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultSettings(), cfg.Settings)
}

func TestLoadSettings_FileValues(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvBackend, "")
	dir := t.TempDir()
	path := filepath.Join(dir, SettingsFile)
	content := `
base_url = "https://todos.example.com/api/"
retries = 0
timeout = "750ms"
language = "fr"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, BackendREST, settings.Backend)
	assert.Equal(t, "https://todos.example.com/api/", settings.BaseURL)
	assert.Equal(t, 0, settings.Retries)
	assert.Equal(t, 750*time.Millisecond, settings.Timeout)
	assert.Equal(t, "fr", settings.Language)
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://127.0.0.1:9999/")
	t.Setenv(EnvBackend, "GoogleTasks")

	settings, err := LoadSettings(filepath.Join(t.TempDir(), SettingsFile))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9999/", settings.BaseURL)
	assert.Equal(t, BackendGoogleTasks, settings.Backend)
}

func TestLoadSettings_Errors(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvBackend, "")
	tests := map[string]string{
		"bad toml":         "base_url = ",
		"unknown backend":  `backend = "carrier-pigeon"`,
		"negative retries": "retries = -1",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), SettingsFile)
			require.NoError(t, os.WriteFile(path, []byte(content), 0600))

			_, err := LoadSettings(path)
			assert.Error(t, err)
		})
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), DefaultConfigDir())
}

func TestLanguageRoundTrip(t *testing.T) {
	cfg := &Config{Dir: filepath.Join(t.TempDir(), "nested")}
	assert.Empty(t, cfg.StoredLanguage())

	require.NoError(t, cfg.StoreLanguage("fr"))

	assert.Equal(t, "fr", cfg.StoredLanguage())
}
