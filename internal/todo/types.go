// Package todo defines the to-do entity shared by the store, the backends and
// the command layer, together with its closed value sets and the form model
// used to create and edit records.
package todo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority is the urgency of a todo.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ValidPriorities returns all valid priority values.
func ValidPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// Status values for the free-text completed field.
const (
	StatusInProgress = "in progress"
	StatusCompleted  = "completed"
)

// ValidStatuses returns the values the completed field may hold.
func ValidStatuses() []string {
	return []string{StatusInProgress, StatusCompleted}
}

// Field names as they appear on the wire. Attribute-driven selectors look
// records up by these names.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCreatedAt   = "createdAt"
	FieldPriority    = "priority"
	FieldCompleted   = "completed"
)

// Fields lists every field name in declaration order.
var Fields = []string{FieldID, FieldTitle, FieldDescription, FieldCreatedAt, FieldPriority, FieldCompleted}

// Todo is a single to-do record.
type Todo struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CreatedAt   string   `json:"createdAt"`
	Priority    Priority `json:"priority"`
	Completed   string   `json:"completed"`
}

// UnmarshalJSON accepts the id as a JSON string or a JSON number. Servers
// that assign numeric ids (json-server, or clients using a millisecond clock)
// are read as their decimal text.
func (t *Todo) UnmarshalJSON(data []byte) error {
	type plain Todo
	aux := struct {
		*plain
		ID wireID `json:"id"`
	}{plain: (*plain)(t), ID: wireID(t.ID)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t.ID = string(aux.ID)
	return nil
}

// wireID is an id that may arrive as a string or a number.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("id must be a string or a number, got %s", data)
		}
		*id = wireID(n.String())
		return nil
	}
}

// Field returns the raw value of the named field, or "" for unknown names.
func (t Todo) Field(name string) string {
	switch name {
	case FieldID:
		return t.ID
	case FieldTitle:
		return t.Title
	case FieldDescription:
		return t.Description
	case FieldCreatedAt:
		return t.CreatedAt
	case FieldPriority:
		return string(t.Priority)
	case FieldCompleted:
		return t.Completed
	default:
		return ""
	}
}

// Values returns every field value in declaration order.
func (t Todo) Values() []string {
	return []string{t.ID, t.Title, t.Description, t.CreatedAt, string(t.Priority), t.Completed}
}

// IsCompleted reports whether the status field says the todo is done.
func (t Todo) IsCompleted() bool {
	return t.Completed == StatusCompleted
}

// Patch carries a partial update. Nil fields were not supplied and are left
// untouched when the patch is applied.
type Patch struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   *string   `json:"createdAt,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Completed   *string   `json:"completed,omitempty"`
}

// UnmarshalJSON accepts the id as a JSON string or a JSON number, like
// Todo.UnmarshalJSON.
func (p *Patch) UnmarshalJSON(data []byte) error {
	type plain Patch
	aux := struct {
		*plain
		ID wireID `json:"id"`
	}{plain: (*plain)(p), ID: wireID(p.ID)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ID = string(aux.ID)
	return nil
}

// PatchFrom returns a patch supplying every field of t.
func PatchFrom(t Todo) Patch {
	return Patch{
		ID:          t.ID,
		Title:       &t.Title,
		Description: &t.Description,
		CreatedAt:   &t.CreatedAt,
		Priority:    &t.Priority,
		Completed:   &t.Completed,
	}
}

// Apply returns t with the supplied fields of p merged in. The id is never
// changed.
func (p Patch) Apply(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.CreatedAt != nil {
		t.CreatedAt = *p.CreatedAt
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// NewID returns a client-side identifier. UUIDv7 embeds the creation
// millisecond in its leading bits, so ids sort by creation time.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// timestampLayout is fixed-width, so timestamps compare correctly as strings.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp formats t the way client-created records store createdAt.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a createdAt value. Unparseable values yield the zero
// time and false.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParsePriority matches s case-insensitively against the valid priorities.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	return p, p.IsValid()
}

// ParseStatus matches s case-insensitively against the valid statuses.
func ParseStatus(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, valid := range ValidStatuses() {
		if s == valid {
			return s, true
		}
	}
	return s, false
}
