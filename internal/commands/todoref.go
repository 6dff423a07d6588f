package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// maxRowDigits is the longest row number accepted as a reference. Longer
// digit strings are taken as ids.
const maxRowDigits = 3

// TodoRef represents a parsed todo reference.
type TodoRef struct {
	Row int    // 1-based row of the default listing, 0 if an id was given
	ID  string // todo id, "" if a row was given
}

// ErrTodoRefRequired indicates no todo reference was provided.
var ErrTodoRefRequired = errors.New("todo reference required")

// ParseTodoRef parses a todo reference from args.
//
// Parsing rules:
// 1. No args → error: todo reference required
// 2. More than one arg → error: unexpected argument
// 3. 1 to 3 ASCII digits → row number of the default listing
// 4. Anything else non-blank → todo id
func ParseTodoRef(args []string) (TodoRef, error) {
	if len(args) == 0 {
		return TodoRef{}, ErrTodoRefRequired
	}
	if len(args) > 1 {
		return TodoRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])
	if arg == "" {
		return TodoRef{}, ErrTodoRefRequired
	}

	if isAllDigits(arg) && len(arg) <= maxRowDigits {
		row, err := strconv.Atoi(arg)
		if err != nil {
			return TodoRef{}, fmt.Errorf("invalid todo reference: %s", arg)
		}
		return TodoRef{Row: row}, nil
	}
	return TodoRef{ID: arg}, nil
}

// String returns the reference as the user typed it.
func (r TodoRef) String() string {
	if r.ID != "" {
		return r.ID
	}
	return strconv.Itoa(r.Row)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
