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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasksync help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, st *settings.Settings, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tasksync                                         Show tasks grouped by due date
  tasksync panel [common flags] [--done] [--watch]
  tasksync lists [common flags]
  tasksync add [common flags] [--list <list-id>] [--due <yyyy-mm-dd>] [--notes <text>] <title...>
  tasksync edit [common flags] [--title <text>] [--notes <text>] [--due <yyyy-mm-dd>] <task-id>
  tasksync done [common flags] <task-id>
  tasksync undone [common flags] <task-id>
  tasksync rm [common flags] [--force] <task-id>
  tasksync insert [common flags]
  tasksync sync [common flags] <note-file>
  tasksync login [common flags] [--force]
  tasksync logout [common flags]
  tasksync help
  tasksync version

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
