package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"todoctl/internal/todo"
)

func TestStore_DispatchNotifiesListeners(t *testing.T) {
	store := NewStore()
	var got []string
	unsubscribe := store.Subscribe(func(a Action, s State) {
		got = append(got, a.Type())
	})

	store.Dispatch(ToggleSort{})
	unsubscribe()
	store.Dispatch(ToggleSort{})

	assert.Equal(t, []string{ToggleSort{}.Type()}, got)
	assert.False(t, store.State().SortAscending)
}

func TestStore_ListenerMayDispatch(t *testing.T) {
	store := NewStore()
	store.Subscribe(func(a Action, s State) {
		if _, ok := a.(LoadAll); ok {
			store.Dispatch(SetAll{Todos: []todo.Todo{{ID: "1"}}})
		}
	})

	store.Dispatch(LoadAll{})

	assert.Equal(t, 1, Total(store.State()))
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(ToggleSort{})
		}()
	}
	wg.Wait()

	// An even number of toggles lands back on the initial direction.
	assert.False(t, store.State().SortAscending)
}

func TestStore_SelectorsUseCurrentState(t *testing.T) {
	store := NewStore()
	store.Dispatch(SetAll{Todos: sample()})
	store.Dispatch(SetSearchTerm{Term: "call"})

	got := store.Selectors().SearchByAttribute(store.State())

	assert.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)
}
