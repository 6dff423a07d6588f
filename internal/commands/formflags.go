package commands

import (
	"github.com/spf13/pflag"

	"todoctl/internal/todo"
)

// formFlags are the editable todo fields shared by add and edit.
type formFlags struct {
	fs          *pflag.FlagSet
	title       string
	description string
	priority    string
	status      string
}

func (f *formFlags) register(fs *pflag.FlagSet, withTitle bool) {
	f.fs = fs
	if withTitle {
		fs.StringVarP(&f.title, "title", "t", "", "")
	}
	fs.StringVarP(&f.description, "description", "d", "", "")
	fs.StringVarP(&f.priority, "priority", "p", "", "")
	fs.StringVar(&f.status, "status", "", "")
}

func (f *formFlags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// given reports whether any field flag was passed.
func (f *formFlags) given() bool {
	for _, name := range []string{"title", "description", "priority", "status"} {
		if f.changed(name) {
			return true
		}
	}
	return false
}

// apply writes the passed flags into form. Unknown priorities and statuses
// are kept as typed so validation can report them.
func (f *formFlags) apply(form *todo.Form) {
	if f.changed("title") {
		form.Title = f.title
	}
	if f.changed("description") {
		form.Description = f.description
	}
	if f.changed("priority") {
		form.Priority, _ = todo.ParsePriority(f.priority)
	}
	if f.changed("status") {
		form.Completed, _ = todo.ParseStatus(f.status)
	}
}
