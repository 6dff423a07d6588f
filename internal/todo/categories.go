package todo

import "strings"

// Categories maps each filterable field to the values a user can pick from.
var Categories = map[string][]string{
	FieldCompleted: {StatusInProgress, StatusCompleted},
	FieldPriority:  {string(PriorityHigh), string(PriorityLow), string(PriorityMedium)},
}

// FilterKeys lists the filterable fields in display order.
var FilterKeys = []string{FieldPriority, FieldCompleted}

// SortAttributes lists the fields a listing can be sorted by.
var SortAttributes = []string{FieldTitle, FieldDescription, FieldID, FieldCreatedAt}

// legacyCreatedAt is an older spelling of createdAt still accepted from users.
const legacyCreatedAt = "createAt"

// NormalizeAttribute maps user input to a field name. Matching is
// case-insensitive; unknown names are returned trimmed but otherwise as given.
func NormalizeAttribute(name string) string {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, legacyCreatedAt) {
		return FieldCreatedAt
	}
	for _, field := range Fields {
		if strings.EqualFold(name, field) {
			return field
		}
	}
	return name
}

// IsField reports whether name is a field name.
func IsField(name string) bool {
	for _, field := range Fields {
		if field == name {
			return true
		}
	}
	return false
}

// IsSortAttribute reports whether name is one of SortAttributes.
func IsSortAttribute(name string) bool {
	for _, attr := range SortAttributes {
		if attr == name {
			return true
		}
	}
	return false
}
