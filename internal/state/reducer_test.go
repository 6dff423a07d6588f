package state

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoctl/internal/todo"
)

func sample() []todo.Todo {
	return []todo.Todo{
		{ID: "1", Title: "Buy milk", Description: "semi-skimmed", CreatedAt: "2024-01-01", Priority: todo.PriorityLow, Completed: todo.StatusInProgress},
		{ID: "3", Title: "Call mom", Description: "birthday", CreatedAt: "2024-01-03", Priority: todo.PriorityHigh, Completed: todo.StatusCompleted},
		{ID: "2", Title: "answer email", Description: "from Alice", CreatedAt: "2024-01-02", Priority: todo.PriorityMedium, Completed: todo.StatusInProgress},
	}
}

func loaded() State {
	return Reduce(Initial(), SetAll{Todos: sample()})
}

func TestInitial(t *testing.T) {
	s := Initial()

	assert.Empty(t, s.IDs)
	assert.Empty(t, s.Entities)
	assert.Nil(t, s.SelectedTodo)
	assert.False(t, s.SortAscending)
	assert.Equal(t, "title", s.SelectedAttribute)
	assert.Empty(t, s.SearchTerm)
}

func TestReduce_SetAllReplacesCollectionKeepsOtherFields(t *testing.T) {
	s := Reduce(Initial(), SetSearchTerm{Term: "milk"})
	s = Reduce(s, SetAll{Todos: sample()})
	s = Reduce(s, SetAll{Todos: sample()[:1]})

	assert.Equal(t, []string{"1"}, s.IDs)
	assert.Len(t, s.Entities, 1)
	assert.Equal(t, "milk", s.SearchTerm)
}

func TestReduce_SetAllOrdersNewestFirst(t *testing.T) {
	s := loaded()

	assert.Equal(t, []string{"3", "2", "1"}, s.IDs)
}

func TestReduce_ToggleSortTwiceRestores(t *testing.T) {
	s := loaded()

	once := Reduce(s, ToggleSort{})
	twice := Reduce(once, ToggleSort{})

	assert.True(t, once.SortAscending)
	assert.Equal(t, s.SortAscending, twice.SortAscending)
}

func TestReduce_CreatedInsertsInOrder(t *testing.T) {
	s := Reduce(loaded(), Created{Todo: todo.Todo{ID: "4", Title: "new", CreatedAt: "2024-01-02T12:00:00"}})

	assert.Equal(t, []string{"3", "4", "2", "1"}, s.IDs)
	got, ok := s.Get("4")
	require.True(t, ok)
	assert.Equal(t, "new", got.Title)
}

func TestReduce_CreatedDuplicateIDIsIgnored(t *testing.T) {
	before := loaded()

	after := Reduce(before, Created{Todo: todo.Todo{ID: "1", Title: "imposter"}})

	assert.Equal(t, before, after)
	assert.Equal(t, "Buy milk", after.Entities["1"].Title)
}

func TestReduce_EditedMergesSuppliedFields(t *testing.T) {
	title := "Buy oat milk"

	s := Reduce(loaded(), Edited{Patch: todo.Patch{ID: "1", Title: &title}})

	got := s.Entities["1"]
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, "semi-skimmed", got.Description)
	assert.Equal(t, todo.PriorityLow, got.Priority)
	assert.Equal(t, "2024-01-01", got.CreatedAt)
}

func TestReduce_EditedCreatedAtReorders(t *testing.T) {
	newest := "2025-01-01"

	s := Reduce(loaded(), Edited{Patch: todo.Patch{ID: "1", CreatedAt: &newest}})

	assert.Equal(t, []string{"1", "3", "2"}, s.IDs)
}

func TestReduce_EditedUnknownIDIsNoop(t *testing.T) {
	title := "ghost"
	before := loaded()

	after := Reduce(before, Edited{Patch: todo.Patch{ID: "99", Title: &title}})

	assert.Equal(t, before, after)
}

func TestReduce_DeletedRemovesRecord(t *testing.T) {
	s := Reduce(loaded(), Deleted{ID: "2"})

	assert.Equal(t, []string{"3", "1"}, s.IDs)
	_, ok := s.Get("2")
	assert.False(t, ok)
}

func TestReduce_DeletedNonexistentIsNoop(t *testing.T) {
	before := loaded()

	after := Reduce(before, Deleted{ID: "nope"})

	assert.Equal(t, before, after)
}

func TestReduce_FetchedByIDSetsSelected(t *testing.T) {
	item := sample()[1]

	s := Reduce(Initial(), FetchedByID{Todo: item})

	got, ok := Selected(s)
	require.True(t, ok)
	assert.Equal(t, item, got)
}

func TestReduce_SelectionFields(t *testing.T) {
	s := Reduce(Initial(), SetSelectedAttribute{Attribute: "description"})
	s = Reduce(s, SetSelectedTodoID{ID: "3"})

	assert.Equal(t, "description", s.SelectedAttribute)
	assert.Equal(t, "3", s.SelectedTodoID)
}

func TestReduce_RequestsAndFailuresLeaveStateUntouched(t *testing.T) {
	before := loaded()

	for _, a := range []Action{
		LoadAll{},
		Create{Todo: todo.Todo{ID: "9"}},
		Edit{Todo: todo.Todo{ID: "1"}},
		Delete{ID: "1"},
		FetchByID{ID: "1"},
		RequestFailed{Kind: KindLoadAll, Err: fmt.Errorf("boom")},
	} {
		assert.Equal(t, before, Reduce(before, a), a.Type())
	}
}

func TestReduce_ResetRestoresInitialState(t *testing.T) {
	s := loaded()
	s = Reduce(s, ToggleSort{})
	s = Reduce(s, SetSearchTerm{Term: "x"})
	s = Reduce(s, SetSelectedAttribute{Attribute: "id"})
	s = Reduce(s, FetchedByID{Todo: sample()[0]})

	s = Reduce(s, Reset{})

	assert.Equal(t, Initial(), s)
}

func TestReduce_RandomSequencesKeepIDsUnique(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := Initial()

	for i := 0; i < 2000; i++ {
		id := fmt.Sprintf("%d", rng.Intn(20))
		created := fmt.Sprintf("2024-01-%02d", rng.Intn(28)+1)
		switch rng.Intn(3) {
		case 0:
			s = Reduce(s, Created{Todo: todo.Todo{ID: id, CreatedAt: created}})
		case 1:
			s = Reduce(s, Edited{Patch: todo.Patch{ID: id, CreatedAt: &created}})
		case 2:
			s = Reduce(s, Deleted{ID: id})
		}

		seen := make(map[string]bool, len(s.IDs))
		for _, existing := range s.IDs {
			require.False(t, seen[existing], "duplicate id %s after step %d", existing, i)
			seen[existing] = true
		}
		require.Len(t, s.Entities, len(s.IDs))
	}
}
