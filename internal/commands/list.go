package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"todoctl/internal/exitcode"
	"todoctl/internal/output"
	"todoctl/internal/state"
	"todoctl/internal/todo"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todoctl` (no args) and `todoctl list [flags]`.
type ListCmd struct {
	sort      string
	ascending bool
	attr      string
	search    string
	global    bool
	priority  string
	status    string
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List todos" }
func (c *ListCmd) Usage() string {
	return "todoctl list [--sort <attr>] [--asc] [--search <term> [--attr <field>|--global]] [--priority <p>|--status <s>]"
}
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.sort, "sort", "s", "", "")
	fs.BoolVar(&c.ascending, "asc", false, "")
	fs.StringVar(&c.attr, "attr", todo.FieldTitle, "")
	fs.StringVarP(&c.search, "search", "q", "", "")
	fs.BoolVarP(&c.global, "global", "g", false, "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.status, "status", "", "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	view, code, ok := c.pickView(env, errOut)
	if !ok {
		return code
	}

	s := newSession(env)
	if err := s.do(ctx, state.LoadAll{}); err != nil {
		return backendFailure(env, errOut, err)
	}
	for _, a := range view.actions {
		s.set(ctx, a)
	}

	todos := view.render(s.views(), s.state())
	if len(todos) == 0 {
		say(env, out, "list.empty")
		return exitcode.Success
	}
	output.FormatTable(out, env.T, output.Number(todos, s.views().All(s.state())))
	return exitcode.Success
}

// listView is the state the flags ask for and the selector that renders it.
type listView struct {
	actions []state.Action
	render  func(*state.Selectors, state.State) []todo.Todo
}

// pickView validates the flags and maps them onto actions and a selector.
// Search and the category filters use the selected attribute and search term,
// so only one of them applies per listing.
func (c *ListCmd) pickView(env *Env, errOut io.Writer) (listView, int, bool) {
	filters := 0
	for _, set := range []bool{c.search != "", c.priority != "", c.status != ""} {
		if set {
			filters++
		}
	}
	if filters > 1 {
		fmt.Fprintln(errOut, "error: use only one of --search, --priority, --status")
		return listView{}, exitcode.UserError, false
	}
	if c.global && c.search == "" {
		fmt.Fprintln(errOut, "error: --global requires --search")
		return listView{}, exitcode.UserError, false
	}

	switch {
	case c.priority != "":
		p, ok := todo.ParsePriority(c.priority)
		if !ok {
			fmt.Fprintf(errOut, "error: %s\n", env.T.T("error.invalidPriority", c.priority, joinPriorities()))
			return listView{}, exitcode.UserError, false
		}
		return filterView(todo.FieldPriority, string(p)), exitcode.Success, true

	case c.status != "":
		st, ok := todo.ParseStatus(c.status)
		if !ok {
			fmt.Fprintf(errOut, "error: %s\n", env.T.T("error.invalidStatus", c.status, strings.Join(todo.ValidStatuses(), ", ")))
			return listView{}, exitcode.UserError, false
		}
		return filterView(todo.FieldCompleted, st), exitcode.Success, true

	case c.search != "" && c.global:
		return listView{
			actions: []state.Action{state.SetSearchTerm{Term: c.search}},
			render:  (*state.Selectors).GlobalSearch,
		}, exitcode.Success, true

	case c.search != "":
		attr := todo.NormalizeAttribute(c.attr)
		if !todo.IsField(attr) {
			fmt.Fprintf(errOut, "error: unknown field: %s\n", c.attr)
			return listView{}, exitcode.UserError, false
		}
		return listView{
			actions: []state.Action{
				state.SetSelectedAttribute{Attribute: attr},
				state.SetSearchTerm{Term: c.search},
			},
			render: (*state.Selectors).SearchByAttribute,
		}, exitcode.Success, true

	case c.sort != "" || c.ascending:
		attr := todo.FieldTitle
		if c.sort != "" {
			attr = todo.NormalizeAttribute(c.sort)
			if !todo.IsSortAttribute(attr) {
				fmt.Fprintf(errOut, "error: %s\n", env.T.T("error.invalidAttribute", c.sort, strings.Join(todo.SortAttributes, ", ")))
				return listView{}, exitcode.UserError, false
			}
		}
		actions := []state.Action{state.SetSelectedAttribute{Attribute: attr}}
		if c.ascending {
			actions = append(actions, state.ToggleSort{})
		}
		return listView{actions: actions, render: (*state.Selectors).SortedByAttribute}, exitcode.Success, true
	}

	return listView{render: (*state.Selectors).All}, exitcode.Success, true
}

func filterView(field, value string) listView {
	return listView{
		actions: []state.Action{
			state.SetSelectedAttribute{Attribute: field},
			state.SetSearchTerm{Term: value},
		},
		render: (*state.Selectors).SearchByAttribute,
	}
}
