// Package i18n holds the message catalogs and picks the display language.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when nothing else matches, and for missing keys.
const DefaultLanguage = "en"

//go:embed locales/*.yaml
var localeFS embed.FS

var (
	catalogs  map[string]map[string]string
	supported []string
	matcher   language.Matcher
)

func init() {
	var err error
	catalogs, err = loadCatalogs()
	if err != nil {
		panic(err)
	}
	for code := range catalogs {
		supported = append(supported, code)
	}
	sort.Slice(supported, func(i, j int) bool {
		// The default goes first: the matcher falls back to it.
		if supported[i] == DefaultLanguage || supported[j] == DefaultLanguage {
			return supported[i] == DefaultLanguage
		}
		return supported[i] < supported[j]
	})
	tags := make([]language.Tag, len(supported))
	for i, code := range supported {
		tags[i] = language.MustParse(code)
	}
	matcher = language.NewMatcher(tags)
}

func loadCatalogs() (map[string]map[string]string, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	result := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, err
		}
		var tree map[string]any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("locale %s: %w", entry.Name(), err)
		}
		messages := make(map[string]string)
		flatten("", tree, messages)
		result[strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))] = messages
	}
	return result, nil
}

// flatten turns nested maps into dotted keys.
func flatten(prefix string, node map[string]any, out map[string]string) {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flatten(full, v, out)
		case string:
			out[full] = v
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}

// Supported returns the available language codes, default first.
func Supported() []string {
	return append([]string(nil), supported...)
}

// Match maps a language tag or POSIX locale ("fr_FR.UTF-8") to a supported
// code.
func Match(locale string) (string, bool) {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" {
		return "", false
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return "", false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return "", false
	}
	return supported[index], true
}

// Resolve picks the display language. The first non-empty candidate decides;
// if it is not supported the default language is used.
func Resolve(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if code, ok := Match(c); ok {
			return code
		}
		return DefaultLanguage
	}
	return DefaultLanguage
}

// EnvLocale returns the locale from LC_ALL, LC_MESSAGES or LANG, in the order
// POSIX gives them precedence.
func EnvLocale(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Translator looks up messages in one language.
type Translator struct {
	lang string
}

// New returns a translator for lang. Unsupported codes use the default.
func New(lang string) *Translator {
	code, ok := Match(lang)
	if !ok {
		code = DefaultLanguage
	}
	return &Translator{lang: code}
}

// Language returns the active language code.
func (t *Translator) Language() string {
	return t.lang
}

// T returns the message for key, formatted with args when given. Missing keys
// fall back to the default language, then to the key itself.
func (t *Translator) T(key string, args ...any) string {
	msg, ok := catalogs[t.lang][key]
	if !ok {
		msg, ok = catalogs[DefaultLanguage][key]
	}
	if !ok {
		msg = key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
