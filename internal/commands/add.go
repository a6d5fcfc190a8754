package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasksync/internal/config"
	"tasksync/internal/exitcode"
	"tasksync/internal/service"
	"tasksync/internal/settings"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	listID string
	due    string
	notes  string
}

// SetListID sets the target list id (for testing).
func (c *AddCmd) SetListID(id string) {
	c.listID = id
}

// SetDue sets the due date (for testing).
func (c *AddCmd) SetDue(due string) {
	c.due = due
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "tasksync add [common flags] [--list <list-id>] [--due <yyyy-mm-dd>] [--notes <text>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listID, "list", "", "")
	fs.StringVar(&c.listID, "l", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.notes, "notes", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, st *settings.Settings, svc service.Service, args []string, out, errOut io.Writer) int {
	// Check for title
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	// Join args to form title
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	listID := c.listID
	if listID == "" {
		listID = "@default"
	}

	task := svc.CreateTask(ctx, service.TaskInput{
		Title:  title,
		Notes:  c.notes,
		ListID: listID,
		Due:    c.due,
	})
	if task == nil {
		fmt.Fprintln(errOut, "error: backend error: could not create task")
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
