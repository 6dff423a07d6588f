package state

// Reduce returns the state that follows s after a. It never fails; actions
// without a state effect return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetSelectedTodoID:
		s.SelectedTodoID = a.ID
	case SetSearchTerm:
		s.SearchTerm = a.Term
	case FetchedByID:
		selected := a.Todo
		s.SelectedTodo = &selected
	case ToggleSort:
		s.SortAscending = !s.SortAscending
	case SetAll:
		s = s.setAll(a.Todos)
	case Deleted:
		s = s.removeOne(a.ID)
	case Created:
		s = s.addOne(a.Todo)
	case SetSelectedAttribute:
		s.SelectedAttribute = a.Attribute
	case Edited:
		s = s.updateOne(a.Patch)
	case Reset:
		s = Initial()
	}
	return s
}
