// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"todoctl/internal/i18n"
	"todoctl/internal/todo"
)

const (
	// MaxCellWidth is the widest a table cell gets before it is truncated.
	MaxCellWidth = 40

	// Ellipsis marks a truncated cell.
	Ellipsis = "…"

	columnGap = "  "

	createdLayout = "2006-01-02 15:04"
)

// headerStyle is bold on terminals and plain everywhere else.
func headerStyle(w io.Writer) lipgloss.Style {
	return lipgloss.NewRenderer(w).NewStyle().Bold(true)
}

// Row is a todo with its number in the default listing.
type Row struct {
	Num  int
	Todo todo.Todo
}

// Number pairs each todo with the row number it has in listing, which must
// be the default listing. Todos missing from it get 0.
func Number(todos, listing []todo.Todo) []Row {
	index := make(map[string]int, len(listing))
	for i, t := range listing {
		index[t.ID] = i + 1
	}
	rows := make([]Row, len(todos))
	for i, t := range todos {
		rows[i] = Row{Num: index[t.ID], Todo: t}
	}
	return rows
}

// FormatTable writes rows as aligned columns. The numbers are what todo
// references resolve against.
func FormatTable(w io.Writer, tr *i18n.Translator, rows []Row) {
	header := []string{
		tr.T("column.row"),
		tr.T("column.title"),
		tr.T("column.priority"),
		tr.T("column.completed"),
		tr.T("column.createdAt"),
		tr.T("column.id"),
	}
	cellRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		t := row.Todo
		cellRows = append(cellRows, []string{
			strconv.Itoa(row.Num),
			Truncate(normalizeTitle(t.Title), MaxCellWidth),
			PriorityLabel(tr, t.Priority),
			StatusLabel(tr, t.Completed),
			FormatCreated(t.CreatedAt),
			t.ID,
		})
	}

	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, cellRows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	style := headerStyle(w)
	cells := make([]string, len(header))
	for i, cell := range header {
		cells[i] = style.Render(pad(cell, widths[i], i == 0, i == len(header)-1))
	}
	fmt.Fprintln(w, strings.Join(cells, columnGap))

	for _, row := range cellRows {
		for i, cell := range row {
			cells[i] = pad(cell, widths[i], i == 0, i == len(row)-1)
		}
		fmt.Fprintln(w, strings.Join(cells, columnGap))
	}
}

// FormatDetails writes every field of t, one per line.
func FormatDetails(w io.Writer, tr *i18n.Translator, t todo.Todo) {
	fields := [][2]string{
		{tr.T("column.id"), t.ID},
		{tr.T("column.title"), normalizeTitle(t.Title)},
		{tr.T("column.description"), flatten(t.Description)},
		{tr.T("column.priority"), PriorityLabel(tr, t.Priority)},
		{tr.T("column.completed"), StatusLabel(tr, t.Completed)},
		{tr.T("column.createdAt"), FormatCreated(t.CreatedAt)},
	}
	width := 0
	for _, f := range fields {
		width = max(width, lipgloss.Width(f[0]))
	}
	style := headerStyle(w)
	for _, f := range fields {
		label := style.Render(pad(f[0], width, false, false))
		fmt.Fprintln(w, strings.TrimRight(label+columnGap+f[1], " "))
	}
}

// FormatCategories writes the filter categories and the sort attributes.
func FormatCategories(w io.Writer, tr *i18n.Translator) {
	style := headerStyle(w)
	fmt.Fprintln(w, style.Render(tr.T("categories.filters")))
	for _, key := range todo.FilterKeys {
		fmt.Fprintf(w, "  %s: %s\n", key, strings.Join(todo.Categories[key], ", "))
	}
	fmt.Fprintln(w, style.Render(tr.T("categories.sort")))
	fmt.Fprintf(w, "  %s\n", strings.Join(todo.SortAttributes, ", "))
}

// PriorityLabel returns the localized name of p, or p itself when unknown.
func PriorityLabel(tr *i18n.Translator, p todo.Priority) string {
	return label(tr, "priority.", string(p))
}

// StatusLabel returns the localized name of a status, or the status itself
// when unknown.
func StatusLabel(tr *i18n.Translator, status string) string {
	return label(tr, "status.", status)
}

func label(tr *i18n.Translator, prefix, value string) string {
	if value == "" {
		return "-"
	}
	key := prefix + value
	if msg := tr.T(key); msg != key {
		return msg
	}
	return value
}

// FormatCreated shows a parseable createdAt as minutes in its own zone and
// anything else verbatim.
func FormatCreated(createdAt string) string {
	if createdAt == "" {
		return "-"
	}
	if t, ok := todo.ParseTimestamp(createdAt); ok {
		return t.Format(createdLayout)
	}
	return createdAt
}

// Truncate shortens s to width cells, ending with an ellipsis.
func Truncate(s string, width int) string {
	return truncate.StringWithTail(s, uint(width), Ellipsis)
}

func pad(s string, width int, right, last bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	if last {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// normalizeTitle normalizes a todo title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
