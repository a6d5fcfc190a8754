// Package view owns the in-memory grouped task state behind the panel.
package view

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"tasksync/internal/aggregate"
	"tasksync/internal/service"
	"tasksync/internal/settings"
)

// Notifier surfaces transient user-visible notices. The host
// application provides the implementation.
type Notifier interface {
	Notice(text string)
}

// Confirmer asks the user to confirm an action. The host application
// provides the implementation (a modal, a prompt).
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Controller holds the todo and done grouped maps and applies user
// actions to them, mirroring each change to the remote service first.
// A mutation is applied locally only after the gateway reports
// success; a concurrent full resync replaces the maps wholesale and
// the later write wins.
type Controller struct {
	svc service.Service
	agg *aggregate.Aggregator
	cfg *settings.Settings

	mu    sync.Mutex
	todo  *aggregate.GroupedTasks
	done  *aggregate.GroupedTasks
	lists []service.TaskList

	onChange  func()
	notifier  Notifier
	confirmer Confirmer

	timerMu   sync.Mutex
	stopTimer chan struct{}

	log *logrus.Entry
}

// NewController creates a Controller over the given gateway.
func NewController(svc service.Service, cfg *settings.Settings) *Controller {
	return &Controller{
		svc:  svc,
		agg:  aggregate.New(svc),
		cfg:  cfg,
		todo: aggregate.NewGroupedTasks(),
		done: aggregate.NewGroupedTasks(),
		log:  logrus.WithField("component", "view"),
	}
}

// SetOnChange registers the observer invoked after every state change.
func (c *Controller) SetOnChange(fn func()) { c.onChange = fn }

// SetNotifier registers the notification collaborator.
func (c *Controller) SetNotifier(n Notifier) { c.notifier = n }

// SetConfirmer registers the confirmation collaborator.
func (c *Controller) SetConfirmer(cf Confirmer) { c.confirmer = cf }

// Todo returns the grouped map of incomplete tasks.
func (c *Controller) Todo() *aggregate.GroupedTasks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.todo
}

// Done returns the grouped map of completed tasks.
func (c *Controller) Done() *aggregate.GroupedTasks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// TaskLists returns the task lists from the last resync.
func (c *Controller) TaskLists() []service.TaskList {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists
}

// UpdateFromServer re-fetches the task lists and both grouped maps and
// replaces all in-memory state. This is the authoritative
// reconciliation point: any local mutation the server disagrees with
// is overwritten here.
func (c *Controller) UpdateFromServer(ctx context.Context) {
	lists := c.svc.ListTaskLists(ctx)
	todo := c.agg.GroupedByDue(ctx, false, service.DueWindow{})
	done := c.agg.GroupedByDue(ctx, true, service.DueWindow{})

	c.mu.Lock()
	c.lists = lists
	c.todo = todo
	c.done = done
	c.mu.Unlock()

	c.fireChange()
}

// Complete marks a task done. A top-level task moves from its todo
// group to the matching done group once the gateway confirms; a
// subtask only issues the remote call, its parent's children are
// refreshed on the next resync.
func (c *Controller) Complete(ctx context.Context, task *service.Task) bool {
	if !c.svc.CompleteTask(ctx, task) {
		c.notify("Could not complete task")
		return false
	}
	if task.IsSubtask() {
		return true
	}

	c.mu.Lock()
	c.todo.Remove(task)
	c.done.Add(task)
	c.mu.Unlock()

	c.fireChange()
	return true
}

// Uncomplete moves a task back to the todo view, symmetric to Complete.
func (c *Controller) Uncomplete(ctx context.Context, task *service.Task) bool {
	if !c.svc.UncompleteTask(ctx, task) {
		c.notify("Could not restore task")
		return false
	}
	if task.IsSubtask() {
		return true
	}

	c.mu.Lock()
	c.done.Remove(task)
	c.todo.Add(task)
	c.mu.Unlock()

	c.fireChange()
	return true
}

// Delete removes a task for good, asking the confirmation collaborator
// first when the setting demands it.
func (c *Controller) Delete(ctx context.Context, task *service.Task) bool {
	if c.cfg.AskConfirmation && c.confirmer != nil {
		if !c.confirmer.Confirm(ctx, "Delete task \""+task.Title+"\"?") {
			return false
		}
	}

	if !c.svc.DeleteTask(ctx, task.SelfLink) {
		c.notify("Could not delete task")
		return false
	}

	c.mu.Lock()
	if !c.done.Remove(task) {
		c.todo.Remove(task)
	}
	c.mu.Unlock()

	c.notify("Task deleted")
	c.fireChange()
	return true
}

// Create creates a task remotely and inserts it into the todo view.
func (c *Controller) Create(ctx context.Context, input service.TaskInput) *service.Task {
	task := c.svc.CreateTask(ctx, input)
	if task == nil {
		c.notify("Could not create task")
		return nil
	}

	c.AddTodo(task)
	c.notify("New task created")
	return task
}

// AddTodo inserts an existing task into the todo view.
func (c *Controller) AddTodo(task *service.Task) {
	c.mu.Lock()
	c.todo.Add(task)
	c.mu.Unlock()
	c.fireChange()
}

// SetRefreshInterval (re)schedules the background resync timer. Any
// previously scheduled timer is cancelled first; at most one is ever
// active. The minimum interval is enforced where the setting is
// loaded, not here.
func (c *Controller) SetRefreshInterval(ctx context.Context, interval time.Duration) {
	c.timerMu.Lock()
	defer c.timerMu.Unlock()

	if c.stopTimer != nil {
		close(c.stopTimer)
	}
	stop := make(chan struct{})
	c.stopTimer = stop

	go c.refreshLoop(ctx, interval, stop)
}

// StopRefresh cancels the background resync timer. Safe to call when
// no timer is scheduled.
func (c *Controller) StopRefresh() {
	c.timerMu.Lock()
	defer c.timerMu.Unlock()

	if c.stopTimer != nil {
		close(c.stopTimer)
		c.stopTimer = nil
	}
}

func (c *Controller) refreshLoop(ctx context.Context, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.UpdateFromServer(ctx)
		}
	}
}

func (c *Controller) fireChange() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controller) notify(text string) {
	if c.notifier == nil || !c.cfg.ShowNotice {
		return
	}
	c.notifier.Notice(text)
}
