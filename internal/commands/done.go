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
	Register(&DoneCmd{})
	Register(&UndoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "tasksync done [common flags] <task-id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, st *settings.Settings, svc service.Service, args []string, out, errOut io.Writer) int {
	task, code := lookupTask(ctx, svc, args, errOut)
	if task == nil {
		return code
	}

	if !svc.CompleteTask(ctx, task) {
		fmt.Fprintln(errOut, "error: backend error: could not complete task")
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// UndoneCmd implements the undone command.
type UndoneCmd struct{}

func (c *UndoneCmd) Name() string      { return "undone" }
func (c *UndoneCmd) Aliases() []string { return []string{"restore"} }
func (c *UndoneCmd) Synopsis() string  { return "Mark a completed task as open again" }
func (c *UndoneCmd) Usage() string     { return "tasksync undone [common flags] <task-id>" }
func (c *UndoneCmd) NeedsAuth() bool   { return true }

func (c *UndoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoneCmd) Run(ctx context.Context, cfg *config.Config, st *settings.Settings, svc service.Service, args []string, out, errOut io.Writer) int {
	task, code := lookupTask(ctx, svc, args, errOut)
	if task == nil {
		return code
	}

	if !svc.UncompleteTask(ctx, task) {
		fmt.Fprintln(errOut, "error: backend error: could not restore task")
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// lookupTask resolves the single task-id argument. Returns nil and an
// exit code when the argument is missing or no task matches.
func lookupTask(ctx context.Context, svc service.Service, args []string, errOut io.Writer) (*service.Task, int) {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task id required")
		return nil, exitcode.UserError
	}

	task := svc.GetTaskByID(ctx, args[0])
	if task == nil {
		fmt.Fprintf(errOut, "error: task not found: %s\n", args[0])
		return nil, exitcode.UserError
	}
	return task, exitcode.Success
}
