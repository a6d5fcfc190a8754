package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasksync/internal/config"
	"tasksync/internal/exitcode"
	"tasksync/internal/service"
	"tasksync/internal/settings"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command: it rewrites the title, notes or
// due date of an existing task.
type EditCmd struct {
	title    string
	notes    string
	due      string
	titleSet bool
	notesSet bool
	dueSet   bool
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(title string) {
	c.title = title
	c.titleSet = true
}

// SetNotes sets the new notes (for testing).
func (c *EditCmd) SetNotes(notes string) {
	c.notes = notes
	c.notesSet = true
}

// SetDue sets the new due date (for testing).
func (c *EditCmd) SetDue(due string) {
	c.due = due
	c.dueSet = true
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Edit a task's title, notes or due date" }
func (c *EditCmd) Usage() string {
	return "tasksync edit [common flags] [--title <text>] [--notes <text>] [--due <yyyy-mm-dd>] <task-id>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Func("title", "", func(v string) error {
		c.SetTitle(v)
		return nil
	})
	fs.Func("notes", "", func(v string) error {
		c.SetNotes(v)
		return nil
	})
	fs.Func("due", "", func(v string) error {
		c.SetDue(v)
		return nil
	})
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, st *settings.Settings, svc service.Service, args []string, out, errOut io.Writer) int {
	task, code := lookupTask(ctx, svc, args, errOut)
	if task == nil {
		return code
	}

	if !c.titleSet && !c.notesSet && !c.dueSet {
		fmt.Fprintln(errOut, "error: nothing to change (use --title, --notes or --due)")
		return exitcode.UserError
	}

	if c.titleSet {
		task.Title = c.title
	}
	if c.notesSet {
		task.Notes = c.notes
	}
	if c.dueSet {
		task.Due = c.due
	}

	if !svc.UpdateTask(ctx, task) {
		fmt.Fprintln(errOut, "error: backend error: could not update task")
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
