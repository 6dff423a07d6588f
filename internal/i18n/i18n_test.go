package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupported(t *testing.T) {
	assert.Equal(t, []string{"en", "fr"}, Supported())
}

func TestMatch(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"en", "en", true},
		{"fr", "fr", true},
		{"fr-CA", "fr", true},
		{"fr_FR.UTF-8", "fr", true},
		{"en_GB.UTF-8@euro", "en", true},
		{"de", "", false},
		{"C", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Match(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "fr", Resolve("fr", "en", "en_US"))
	assert.Equal(t, "fr", Resolve("", "fr", "en_US"))
	assert.Equal(t, "fr", Resolve("", "", "fr_FR.UTF-8"))
	assert.Equal(t, "en", Resolve("", "", ""))
	// An unsupported choice does not fall through to later candidates.
	assert.Equal(t, "en", Resolve("de", "fr"))
}

func TestEnvLocale(t *testing.T) {
	env := map[string]string{"LANG": "en_US.UTF-8", "LC_ALL": "fr_FR.UTF-8"}
	assert.Equal(t, "fr_FR.UTF-8", EnvLocale(func(k string) string { return env[k] }))
	delete(env, "LC_ALL")
	assert.Equal(t, "en_US.UTF-8", EnvLocale(func(k string) string { return env[k] }))
	assert.Empty(t, EnvLocale(func(string) string { return "" }))
}

func TestTranslate(t *testing.T) {
	en := New("en")
	fr := New("fr")

	assert.Equal(t, "no todos", en.T("list.empty"))
	assert.Equal(t, "aucune tâche", fr.T("list.empty"))
	assert.Equal(t, "en cours", fr.T("status.in progress"))
	assert.Equal(t, "created: abc", en.T("todo.created", "abc"))

	// fr has no serve.listening message.
	assert.Equal(t, "serving mock API on http://:3000", fr.T("serve.listening", ":3000"))
	assert.Equal(t, "no.such.key", fr.T("no.such.key"))
}

func TestNewUnsupported(t *testing.T) {
	assert.Equal(t, "en", New("de").Language())
	assert.Equal(t, "fr", New("fr_BE").Language())
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalogs["fr"] {
		_, ok := catalogs["en"][key]
		assert.True(t, ok, "fr key %q missing from en", key)
	}
}
