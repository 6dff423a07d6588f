package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionTypes(t *testing.T) {
	tests := []struct {
		action Action
		want   string
	}{
		{SetSelectedTodoID{}, "[todo]/get selected id"},
		{LoadAll{}, "[todo API]/get todos"},
		{Reset{}, "todo/reset store"},
		{SetSearchTerm{}, "[todo API]/set search term"},
		{ToggleSort{}, "[todo]/toggle sort"},
		{SetAll{}, "[todo]/set todos"},
		{Delete{}, "[todo API]/delete"},
		{Deleted{}, "[todo]/success delete"},
		{Create{}, "[todo API]/create"},
		{Created{}, "[todo]/success create todo"},
		{Edit{}, "[todo API]/edit"},
		{Edited{}, "[todo]/success edit"},
		{FetchByID{}, "[todo API]/get id"},
		{FetchedByID{}, "[todo]/success get by id"},
		{SetSelectedAttribute{}, "[todo]/set selected attr"},
	}

	seen := make(map[string]bool)
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.action.Type())
		assert.False(t, seen[tt.want], "duplicate action type %q", tt.want)
		seen[tt.want] = true
	}
}
