package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"tasksync/internal/config"
	"tasksync/internal/exitcode"
	"tasksync/internal/notes"
	"tasksync/internal/service"
	"tasksync/internal/settings"
)

func init() {
	Register(&SyncCmd{})
}

// SyncCmd implements the sync command: it rewrites the checkbox markers
// in a note file to match the remote task status.
type SyncCmd struct{}

func (c *SyncCmd) Name() string      { return "sync" }
func (c *SyncCmd) Aliases() []string { return nil }
func (c *SyncCmd) Synopsis() string  { return "Sync note checkboxes with remote task status" }
func (c *SyncCmd) Usage() string     { return "tasksync sync [common flags] <note-file>" }
func (c *SyncCmd) NeedsAuth() bool   { return true }

func (c *SyncCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SyncCmd) Run(ctx context.Context, cfg *config.Config, st *settings.Settings, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: note file required")
		return exitcode.UserError
	}
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	body, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	rewritten, changed := notes.NewReconciler(svc).Reconcile(ctx, string(body))
	if !changed {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no changes")
		}
		return exitcode.Success
	}

	if err := os.WriteFile(path, []byte(rewritten), info.Mode().Perm()); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
