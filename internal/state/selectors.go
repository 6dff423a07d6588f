package state

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"todoctl/internal/todo"
)

// All returns the stored todos in collection order.
func All(s State) []todo.Todo {
	out := make([]todo.Todo, 0, len(s.IDs))
	for _, id := range s.IDs {
		out = append(out, s.Entities[id])
	}
	return out
}

// Entities returns the id-keyed collection.
func Entities(s State) map[string]todo.Todo { return s.Entities }

// IDs returns the ordered ids.
func IDs(s State) []string { return s.IDs }

// Total returns the number of stored todos.
func Total(s State) int { return len(s.IDs) }

// Selected returns the fetched-by-id todo, if any.
func Selected(s State) (todo.Todo, bool) {
	if s.SelectedTodo == nil {
		return todo.Todo{}, false
	}
	return *s.SelectedTodo, true
}

// SortedByCreatedAt orders all todos by parsed creation time, oldest first
// when ascending. Ties keep collection order.
func SortedByCreatedAt(s State) []todo.Todo {
	list := All(s)
	times := make(map[string]int64, len(list))
	for _, t := range list {
		parsed, _ := todo.ParseTimestamp(t.CreatedAt)
		times[t.ID] = parsed.UnixNano()
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := times[list[i].ID], times[list[j].ID]
		if s.SortAscending {
			return a < b
		}
		return b < a
	})
	return list
}

// SortedByAttribute orders all todos by the selected attribute. The creation
// date is compared as time; every other field as raw strings.
func SortedByAttribute(s State) []todo.Todo {
	attr := todo.NormalizeAttribute(s.SelectedAttribute)
	if attr == todo.FieldCreatedAt {
		return SortedByCreatedAt(s)
	}
	list := All(s)
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].Field(attr), list[j].Field(attr)
		if s.SortAscending {
			return a < b
		}
		return b < a
	})
	return list
}

// SearchByAttribute keeps todos whose selected attribute contains the search
// term, ignoring case. An empty term keeps everything.
func SearchByAttribute(s State) []todo.Todo {
	list := All(s)
	if s.SearchTerm == "" {
		return list
	}
	attr := todo.NormalizeAttribute(s.SelectedAttribute)
	term := strings.ToLower(s.SearchTerm)
	out := list[:0]
	for _, t := range list {
		if strings.Contains(strings.ToLower(t.Field(attr)), term) {
			out = append(out, t)
		}
	}
	return out
}

// GlobalSearch keeps todos whose serialized field values contain the search
// term, ignoring case and the selected attribute.
func GlobalSearch(s State) []todo.Todo {
	list := All(s)
	if s.SearchTerm == "" {
		return list
	}
	term := strings.ToLower(s.SearchTerm)
	out := list[:0]
	for _, t := range list {
		if strings.Contains(strings.ToLower(serializeValues(t)), term) {
			out = append(out, t)
		}
	}
	return out
}

func serializeValues(t todo.Todo) string {
	data, err := json.Marshal(t.Values())
	if err != nil {
		return strings.Join(t.Values(), ",")
	}
	return string(data)
}

// viewKey captures every input a derived view depends on.
type viewKey struct {
	rev       uint64
	ascending bool
	attribute string
	term      string
}

type memo struct {
	mu    sync.Mutex
	ok    bool
	key   viewKey
	value []todo.Todo
}

func (m *memo) get(key viewKey, compute func() []todo.Todo) []todo.Todo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ok && m.key == key {
		return m.value
	}
	m.value = compute()
	m.key = key
	m.ok = true
	return m.value
}

// Selectors memoizes the derived views. Calling a view twice with equal
// inputs returns the same slice; callers must treat results as read-only.
type Selectors struct {
	all    memo
	byDate memo
	byAttr memo
	search memo
	global memo
}

// NewSelectors returns an empty selector cache.
func NewSelectors() *Selectors {
	return &Selectors{}
}

// All is the memoized form of the All selector.
func (m *Selectors) All(s State) []todo.Todo {
	return m.all.get(viewKey{rev: s.rev}, func() []todo.Todo { return All(s) })
}

// SortedByCreatedAt is the memoized form of SortedByCreatedAt.
func (m *Selectors) SortedByCreatedAt(s State) []todo.Todo {
	key := viewKey{rev: s.rev, ascending: s.SortAscending}
	return m.byDate.get(key, func() []todo.Todo { return SortedByCreatedAt(s) })
}

// SortedByAttribute is the memoized form of SortedByAttribute.
func (m *Selectors) SortedByAttribute(s State) []todo.Todo {
	key := viewKey{rev: s.rev, ascending: s.SortAscending, attribute: s.SelectedAttribute}
	return m.byAttr.get(key, func() []todo.Todo { return SortedByAttribute(s) })
}

// SearchByAttribute is the memoized form of SearchByAttribute.
func (m *Selectors) SearchByAttribute(s State) []todo.Todo {
	key := viewKey{rev: s.rev, attribute: s.SelectedAttribute, term: s.SearchTerm}
	return m.search.get(key, func() []todo.Todo { return SearchByAttribute(s) })
}

// GlobalSearch is the memoized form of GlobalSearch.
func (m *Selectors) GlobalSearch(s State) []todo.Todo {
	key := viewKey{rev: s.rev, term: s.SearchTerm}
	return m.global.get(key, func() []todo.Todo { return GlobalSearch(s) })
}
