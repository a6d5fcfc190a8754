package commands

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"tasksync/internal/config"
	"tasksync/internal/exitcode"
	"tasksync/internal/output"
	"tasksync/internal/service"
	"tasksync/internal/settings"
	"tasksync/internal/view"
)

func init() {
	Register(&PanelCmd{})
}

// PanelCmd implements the panel command: the date-grouped task view.
type PanelCmd struct {
	done  bool
	watch bool
}

// SetDone selects the completed view (for testing).
func (c *PanelCmd) SetDone(done bool) {
	c.done = done
}

func (c *PanelCmd) Name() string      { return "panel" }
func (c *PanelCmd) Aliases() []string { return nil }
func (c *PanelCmd) Synopsis() string  { return "Show tasks grouped by due date" }
func (c *PanelCmd) Usage() string     { return "tasksync panel [common flags] [--done] [--watch]" }
func (c *PanelCmd) NeedsAuth() bool   { return true }

func (c *PanelCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.done, "done", false, "")
	fs.BoolVar(&c.watch, "watch", false, "")
}

func (c *PanelCmd) Run(ctx context.Context, cfg *config.Config, st *settings.Settings, svc service.Service, args []string, out, errOut io.Writer) int {
	controller := view.NewController(svc, st)

	if !c.watch {
		controller.UpdateFromServer(ctx)
		c.render(out, controller)
		return exitcode.Success
	}

	// Watch mode: re-render on every state change and resync on the
	// configured interval until the context is cancelled.
	controller.SetOnChange(func() {
		var buf bytes.Buffer
		c.render(&buf, controller)
		fmt.Fprint(out, buf.String())
	})

	controller.UpdateFromServer(ctx)
	controller.SetRefreshInterval(ctx, time.Duration(st.RefreshIntervalSec)*time.Second)
	defer controller.StopRefresh()

	<-ctx.Done()
	return exitcode.Success
}

func (c *PanelCmd) render(w io.Writer, controller *view.Controller) {
	if c.done {
		done := controller.Done()
		output.FormatGrouped(w, done, done.KeysDescending())
		return
	}
	todo := controller.Todo()
	output.FormatGrouped(w, todo, todo.Keys())
}
