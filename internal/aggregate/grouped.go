// Package aggregate fetches tasks across all lists and groups them into
// ordered due-date buckets for the todo and done views.
package aggregate

import (
	"sort"

	"tasksync/internal/service"
)

// NoDueDate is the sentinel group key for tasks without a due date.
// Unlike every other key it is always present, even when empty.
const NoDueDate = "No due date"

// GroupedTasks is an ordered mapping from a due-date key to the
// top-level tasks sharing that exact due string. Key equality is exact
// string match, not calendar-day equality: two representations of the
// same day only share a group when the strings are identical.
//
// Date keys iterate in ascending order; the NoDueDate sentinel is
// pinned last. A date group is pruned the moment its last task is
// removed.
type GroupedTasks struct {
	dateKeys []string // sorted ascending
	groups   map[string][]*service.Task
}

// NewGroupedTasks returns an empty map holding only the sentinel group.
func NewGroupedTasks() *GroupedTasks {
	return &GroupedTasks{
		groups: map[string][]*service.Task{NoDueDate: nil},
	}
}

// DueKey returns the group key for a task: its exact due string, or
// the sentinel when it has none.
func DueKey(task *service.Task) string {
	if task.Due == "" {
		return NoDueDate
	}
	return task.Due
}

// Add appends the task to its due group, creating the group if absent.
func (g *GroupedTasks) Add(task *service.Task) {
	key := DueKey(task)
	if _, ok := g.groups[key]; !ok {
		i := sort.SearchStrings(g.dateKeys, key)
		g.dateKeys = append(g.dateKeys, "")
		copy(g.dateKeys[i+1:], g.dateKeys[i:])
		g.dateKeys[i] = key
	}
	g.groups[key] = append(g.groups[key], task)
}

// Remove deletes the task (matched by id) from its due group and
// reports whether it was found. An emptied date group is pruned; the
// sentinel group persists empty.
func (g *GroupedTasks) Remove(task *service.Task) bool {
	key := DueKey(task)
	tasks, ok := g.groups[key]
	if !ok {
		return false
	}

	for i, t := range tasks {
		if t.ID != task.ID {
			continue
		}
		g.groups[key] = append(tasks[:i], tasks[i+1:]...)

		if len(g.groups[key]) == 0 && key != NoDueDate {
			delete(g.groups, key)
			for j, k := range g.dateKeys {
				if k == key {
					g.dateKeys = append(g.dateKeys[:j], g.dateKeys[j+1:]...)
					break
				}
			}
		}
		return true
	}
	return false
}

// Get returns the tasks grouped under key.
func (g *GroupedTasks) Get(key string) []*service.Task {
	return g.groups[key]
}

// Has reports whether the key exists in the map.
func (g *GroupedTasks) Has(key string) bool {
	_, ok := g.groups[key]
	return ok
}

// Keys returns the group keys in ascending due order, sentinel last.
// This is the iteration order of the todo view.
func (g *GroupedTasks) Keys() []string {
	keys := make([]string, 0, len(g.dateKeys)+1)
	keys = append(keys, g.dateKeys...)
	return append(keys, NoDueDate)
}

// KeysDescending returns the date keys newest first, sentinel still
// last. This is the iteration order of the done view.
func (g *GroupedTasks) KeysDescending() []string {
	keys := make([]string, 0, len(g.dateKeys)+1)
	for i := len(g.dateKeys) - 1; i >= 0; i-- {
		keys = append(keys, g.dateKeys[i])
	}
	return append(keys, NoDueDate)
}

// Len returns the total number of grouped tasks.
func (g *GroupedTasks) Len() int {
	n := 0
	for _, tasks := range g.groups {
		n += len(tasks)
	}
	return n
}

// setNoDue replaces the sentinel group wholesale.
func (g *GroupedTasks) setNoDue(tasks []*service.Task) {
	g.groups[NoDueDate] = tasks
}
