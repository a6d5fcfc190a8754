package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasksync/internal/aggregate"
	"tasksync/internal/config"
	"tasksync/internal/exitcode"
	"tasksync/internal/notes"
	"tasksync/internal/service"
	"tasksync/internal/settings"
)

func init() {
	Register(&InsertCmd{})
}

// InsertCmd implements the insert command: it prints every open task as
// a marker-carrying checklist line, ready to paste into a note.
type InsertCmd struct{}

func (c *InsertCmd) Name() string      { return "insert" }
func (c *InsertCmd) Aliases() []string { return nil }
func (c *InsertCmd) Synopsis() string  { return "Print open tasks as note checklist lines" }
func (c *InsertCmd) Usage() string     { return "tasksync insert [common flags]" }
func (c *InsertCmd) NeedsAuth() bool   { return true }

func (c *InsertCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *InsertCmd) Run(ctx context.Context, cfg *config.Config, st *settings.Settings, svc service.Service, args []string, out, errOut io.Writer) int {
	tasks := aggregate.New(svc).UncompletedByDue(ctx)
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for _, task := range tasks {
		fmt.Fprintln(out, notes.ChecklistLine(task))
	}
	return exitcode.Success
}
