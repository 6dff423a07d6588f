package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xrash/smetrics"
)

// maxSuggestDistance is the largest edit distance a suggestion may have.
const maxSuggestDistance = 2

// Registry maps command names and aliases to commands.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	aliases map[string]string // alias -> primary name
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Command),
		aliases: make(map[string]string),
	}
}

// Register adds c under its name and aliases. Every one of them must be
// non-empty and unused.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for _, key := range keys {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("command %q: empty name or alias", c.Name())
		}
		if r.taken(key) {
			return fmt.Errorf("command name already registered: %s", key)
		}
	}

	r.byName[c.Name()] = c
	for _, alias := range c.Aliases() {
		r.aliases[alias] = c.Name()
	}
	return nil
}

func (r *Registry) taken(key string) bool {
	_, isName := r.byName[key]
	_, isAlias := r.aliases[key]
	return isName || isAlias
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if primary, ok := r.aliases[name]; ok {
		name = primary
	}
	cmd, ok := r.byName[name]
	return cmd, ok
}

// All returns every command once, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Command, len(names))
	for i, name := range names {
		result[i] = r.byName[name]
	}
	return result
}

// Suggest returns the primary name of the command whose name or alias is
// closest to name, or "" when nothing is within a couple of typos. Ties go
// to the alphabetically first key.
func (r *Registry) Suggest(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.byName)+len(r.aliases))
	for key := range r.byName {
		keys = append(keys, key)
	}
	for alias := range r.aliases {
		keys = append(keys, alias)
	}
	sort.Strings(keys)

	best, bestDist := "", maxSuggestDistance+1
	for _, key := range keys {
		if d := smetrics.WagnerFischer(name, key, 1, 1, 1); d < bestDist {
			best, bestDist = key, d
		}
	}
	if primary, ok := r.aliases[best]; ok {
		return primary
	}
	return best
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
