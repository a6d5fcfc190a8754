package aggregate

import (
	"context"
	"sort"
	"time"

	"tasksync/internal/service"
)

// Aggregator pulls tasks from every task list and shapes them for the
// grouped views.
type Aggregator struct {
	svc service.Service
}

// New creates an Aggregator over the given gateway.
func New(svc service.Service) *Aggregator {
	return &Aggregator{svc: svc}
}

// AllTasks fetches all task lists and concatenates their top-level
// tasks, tagging each with its source list's display name. Subtasks
// stay nested under their parents.
func (a *Aggregator) AllTasks(ctx context.Context, window service.DueWindow) []*service.Task {
	var all []*service.Task
	for _, list := range a.svc.ListTaskLists(ctx) {
		tasks := a.svc.ListTasks(ctx, list.ID, window)
		for _, task := range tasks {
			task.ListName = list.Title
		}
		all = append(all, tasks...)
	}
	return all
}

// UncompletedByDue returns all incomplete tasks ordered by ascending
// due instant, with the no-due-date tasks appended at the end in fetch
// order.
func (a *Aggregator) UncompletedByDue(ctx context.Context) []*service.Task {
	timed, untimed := partitionByDue(filterCompleted(a.AllTasks(ctx, service.DueWindow{}), false))
	sortByDue(timed)
	return append(timed, untimed...)
}

// GroupedByDue fetches everything and builds the ordered grouped map
// for one completion state: completed=false yields the todo map,
// completed=true the done map. Tasks sharing a due key keep their
// upstream relative order; the sentinel group is always present.
func (a *Aggregator) GroupedByDue(ctx context.Context, completed bool, window service.DueWindow) *GroupedTasks {
	timed, untimed := partitionByDue(filterCompleted(a.AllTasks(ctx, window), completed))
	sortByDue(timed)

	grouped := NewGroupedTasks()
	for _, task := range timed {
		grouped.Add(task)
	}
	grouped.setNoDue(untimed)
	return grouped
}

func filterCompleted(tasks []*service.Task, completed bool) []*service.Task {
	var out []*service.Task
	for _, task := range tasks {
		if task.IsCompleted() == completed {
			out = append(out, task)
		}
	}
	return out
}

func partitionByDue(tasks []*service.Task) (timed, untimed []*service.Task) {
	for _, task := range tasks {
		if task.Due == "" {
			untimed = append(untimed, task)
		} else {
			timed = append(timed, task)
		}
	}
	return timed, untimed
}

// sortByDue orders tasks by ascending due instant. The sort is stable
// so tasks with identical due strings keep their fetch order.
func sortByDue(tasks []*service.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return dueInstant(tasks[i].Due).Before(dueInstant(tasks[j].Due))
	})
}

func dueInstant(due string) time.Time {
	t, err := time.Parse(time.RFC3339, due)
	if err != nil {
		return time.Time{}
	}
	return t
}
