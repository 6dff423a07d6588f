// Package state holds the normalized todo store: the state shape, the closed
// action vocabulary, the pure reducer and the derived views computed from it.
package state

import (
	"sort"
	"sync/atomic"

	"todoctl/internal/todo"
)

// DefaultAttribute is the field that drives sorting and search initially.
const DefaultAttribute = todo.FieldTitle

// State is an immutable snapshot of the store. Values returned by Reduce
// share unchanged parts with their predecessor and must not be mutated.
type State struct {
	// IDs lists every stored id, newest createdAt first.
	IDs []string

	// Entities maps id to record.
	Entities map[string]todo.Todo

	SelectedTodoID    string
	SelectedTodo      *todo.Todo
	SortAscending     bool
	SelectedAttribute string
	SearchTerm        string

	// rev identifies the collection content. Zero is the empty initial
	// collection; every other collection gets a fresh process-wide value.
	rev uint64
}

var revisions atomic.Uint64

func nextRev() uint64 { return revisions.Add(1) }

// Initial returns the starting state.
func Initial() State {
	return State{
		IDs:               []string{},
		Entities:          map[string]todo.Todo{},
		SelectedAttribute: DefaultAttribute,
	}
}

// Revision identifies the collection content for memoization.
func (s State) Revision() uint64 { return s.rev }

// Get looks a record up by id.
func (s State) Get(id string) (todo.Todo, bool) {
	t, ok := s.Entities[id]
	return t, ok
}

// newerFirst orders by createdAt descending using plain string comparison.
func newerFirst(a, b todo.Todo) bool {
	return a.CreatedAt > b.CreatedAt
}

// setAll replaces the collection. Later duplicates of an id win.
func (s State) setAll(todos []todo.Todo) State {
	entities := make(map[string]todo.Todo, len(todos))
	ids := make([]string, 0, len(todos))
	for _, t := range todos {
		if _, exists := entities[t.ID]; !exists {
			ids = append(ids, t.ID)
		}
		entities[t.ID] = t
	}
	sortIDs(ids, entities)
	s.IDs = ids
	s.Entities = entities
	s.rev = nextRev()
	return s
}

// addOne inserts t unless its id is already present.
func (s State) addOne(t todo.Todo) State {
	if _, exists := s.Entities[t.ID]; exists {
		return s
	}
	entities := cloneEntities(s.Entities, 1)
	entities[t.ID] = t

	pos := sort.Search(len(s.IDs), func(i int) bool {
		return newerFirst(t, entities[s.IDs[i]])
	})
	ids := make([]string, 0, len(s.IDs)+1)
	ids = append(ids, s.IDs[:pos]...)
	ids = append(ids, t.ID)
	ids = append(ids, s.IDs[pos:]...)

	s.IDs = ids
	s.Entities = entities
	s.rev = nextRev()
	return s
}

// updateOne merges p into the record it names. Unknown ids are ignored.
func (s State) updateOne(p todo.Patch) State {
	current, exists := s.Entities[p.ID]
	if !exists {
		return s
	}
	updated := p.Apply(current)
	if updated == current {
		return s
	}
	entities := cloneEntities(s.Entities, 0)
	entities[p.ID] = updated

	ids := s.IDs
	if updated.CreatedAt != current.CreatedAt {
		ids = append([]string(nil), s.IDs...)
		sortIDs(ids, entities)
	}

	s.IDs = ids
	s.Entities = entities
	s.rev = nextRev()
	return s
}

// removeOne drops the record with the given id. Unknown ids are ignored.
func (s State) removeOne(id string) State {
	if _, exists := s.Entities[id]; !exists {
		return s
	}
	entities := cloneEntities(s.Entities, 0)
	delete(entities, id)

	ids := make([]string, 0, len(s.IDs)-1)
	for _, existing := range s.IDs {
		if existing != id {
			ids = append(ids, existing)
		}
	}

	s.IDs = ids
	s.Entities = entities
	s.rev = nextRev()
	return s
}

func cloneEntities(src map[string]todo.Todo, extra int) map[string]todo.Todo {
	dst := make(map[string]todo.Todo, len(src)+extra)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func sortIDs(ids []string, entities map[string]todo.Todo) {
	sort.SliceStable(ids, func(i, j int) bool {
		return newerFirst(entities[ids[i]], entities[ids[j]])
	})
}
