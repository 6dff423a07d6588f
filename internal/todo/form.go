package todo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTitleRequired is returned when a form has no title.
	ErrTitleRequired = errors.New("title required")

	// ErrInvalidPriority is returned when a form holds an unknown priority.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidStatus is returned when a form holds an unknown status.
	ErrInvalidStatus = errors.New("invalid status")
)

// Form is the editable representation of a todo.
type Form struct {
	ID          string
	Title       string
	Description string
	CreatedAt   string
	Priority    Priority
	Completed   string
}

// BuildForm returns a form filled with defaults. When src is non-nil its
// values overwrite the defaults.
func BuildForm(src *Todo) Form {
	form := Form{
		Priority:  PriorityLow,
		Completed: StatusInProgress,
	}
	if src == nil {
		return form
	}
	form.ID = src.ID
	form.Title = src.Title
	form.Description = src.Description
	form.CreatedAt = src.CreatedAt
	if src.Priority != "" {
		form.Priority = src.Priority
	}
	if src.Completed != "" {
		form.Completed = src.Completed
	}
	return form
}

// Validate checks field presence and closed-set membership.
func (f Form) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrTitleRequired
	}
	if !f.Priority.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidPriority, f.Priority)
	}
	valid := false
	for _, s := range ValidStatuses() {
		if f.Completed == s {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, f.Completed)
	}
	return nil
}

// Todo converts the form back into a record.
func (f Form) Todo() Todo {
	return Todo{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		Priority:    f.Priority,
		Completed:   f.Completed,
	}
}
