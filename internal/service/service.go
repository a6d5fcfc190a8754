// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for remote task backend operations.
// All Google Tasks API calls go through this interface; callers never
// import the backend directly.
//
// Transport and parse failures are swallowed at the backend boundary:
// list operations return an empty slice, lookups return nil, and
// mutations report false. Callers treat these as a stale or empty view,
// never as an exception.
type Service interface {
	// ListTaskLists returns all task lists, or an empty slice on any
	// failure.
	ListTaskLists(ctx context.Context) []TaskList

	// ListTasks returns the top-level tasks of a list, all pages
	// aggregated. Subtasks are attached to their parent's Children
	// (sorted by position) and never appear at top level. Due dates are
	// normalized for display.
	ListTasks(ctx context.Context, listID string, window DueWindow) []*Task

	// GetTaskByID searches every task list for the given task id.
	// Returns nil when no list contains it; absence is not an error.
	GetTaskByID(ctx context.Context, taskID string) *Task

	// CreateTask creates a task and returns the server's record,
	// or nil on failure.
	CreateTask(ctx context.Context, input TaskInput) *Task

	// UpdateTask patches title, notes and due date of an existing task.
	UpdateTask(ctx context.Context, task *Task) bool

	// CompleteTask marks the task and all of its subtasks completed.
	// A failed subtask call does not abort the remaining ones; the
	// result reports the top-level call only.
	CompleteTask(ctx context.Context, task *Task) bool

	// UncompleteTask moves the task and all of its subtasks back to
	// needsAction.
	UncompleteTask(ctx context.Context, task *Task) bool

	// DeleteTask removes the task addressed by its selfLink.
	// True exactly when the server answered 204.
	DeleteTask(ctx context.Context, selfLink string) bool
}
