package state

import "todoctl/internal/todo"

// Kind names a request family. The effect layer keeps at most one live
// request per kind.
type Kind string

const (
	KindLoadAll   Kind = "load-all"
	KindCreate    Kind = "create"
	KindEdit      Kind = "edit"
	KindDelete    Kind = "delete"
	KindFetchByID Kind = "fetch-by-id"
)

// Action is a named, immutable description of an intent. The set of actions
// is closed: only types in this package implement it.
type Action interface {
	Type() string
	action()
}

// Request is an action that the effect layer turns into a backend call.
type Request interface {
	Action
	Kind() Kind
}

const featureKey = "todo"

type (
	// SetSelectedTodoID records which todo the user is looking at.
	SetSelectedTodoID struct{ ID string }

	// LoadAll requests the full todo list.
	LoadAll struct{}

	// SetAll replaces the collection with the load result.
	SetAll struct{ Todos []todo.Todo }

	// SetSearchTerm replaces the search term.
	SetSearchTerm struct{ Term string }

	// ToggleSort flips the sort direction.
	ToggleSort struct{}

	// Delete requests removal of a todo.
	Delete struct{ ID string }

	// Deleted removes a todo after the backend confirmed.
	Deleted struct{ ID string }

	// Create requests creation of a todo.
	Create struct{ Todo todo.Todo }

	// Created inserts the record returned by the backend.
	Created struct{ Todo todo.Todo }

	// Edit requests an update of a todo.
	Edit struct{ Todo todo.Todo }

	// Edited merges the backend's answer into the stored record.
	Edited struct{ Patch todo.Patch }

	// FetchByID requests a single todo.
	FetchByID struct{ ID string }

	// FetchedByID stores the fetched todo as the selected one.
	FetchedByID struct{ Todo todo.Todo }

	// SetSelectedAttribute picks the field that drives sorting and search.
	SetSelectedAttribute struct{ Attribute string }

	// Reset restores the initial state.
	Reset struct{}

	// RequestFailed reports a backend call that gave up. State is untouched.
	RequestFailed struct {
		Kind Kind
		Err  error
	}
)

func (SetSelectedTodoID) Type() string    { return "[" + featureKey + "]/get selected id" }
func (LoadAll) Type() string              { return "[" + featureKey + " API]/get todos" }
func (SetAll) Type() string               { return "[" + featureKey + "]/set todos" }
func (SetSearchTerm) Type() string        { return "[" + featureKey + " API]/set search term" }
func (ToggleSort) Type() string           { return "[" + featureKey + "]/toggle sort" }
func (Delete) Type() string               { return "[" + featureKey + " API]/delete" }
func (Deleted) Type() string              { return "[" + featureKey + "]/success delete" }
func (Create) Type() string               { return "[" + featureKey + " API]/create" }
func (Created) Type() string              { return "[" + featureKey + "]/success create todo" }
func (Edit) Type() string                 { return "[" + featureKey + " API]/edit" }
func (Edited) Type() string               { return "[" + featureKey + "]/success edit" }
func (FetchByID) Type() string            { return "[" + featureKey + " API]/get id" }
func (FetchedByID) Type() string          { return "[" + featureKey + "]/success get by id" }
func (SetSelectedAttribute) Type() string { return "[" + featureKey + "]/set selected attr" }
func (Reset) Type() string                { return featureKey + "/reset store" }
func (RequestFailed) Type() string        { return "[" + featureKey + " API]/request failed" }

func (SetSelectedTodoID) action()    {}
func (LoadAll) action()              {}
func (SetAll) action()               {}
func (SetSearchTerm) action()        {}
func (ToggleSort) action()           {}
func (Delete) action()               {}
func (Deleted) action()              {}
func (Create) action()               {}
func (Created) action()              {}
func (Edit) action()                 {}
func (Edited) action()               {}
func (FetchByID) action()            {}
func (FetchedByID) action()          {}
func (SetSelectedAttribute) action() {}
func (Reset) action()                {}
func (RequestFailed) action()        {}

func (LoadAll) Kind() Kind   { return KindLoadAll }
func (Create) Kind() Kind    { return KindCreate }
func (Edit) Kind() Kind      { return KindEdit }
func (Delete) Kind() Kind    { return KindDelete }
func (FetchByID) Kind() Kind { return KindFetchByID }
