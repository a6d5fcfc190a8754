// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"strings"
	"time"
)

// Task status values used by the remote service.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// Task is a single to-do item as stored by the remote service.
// Children and ListName are assembled client-side after a fetch and are
// never sent back on writes.
type Task struct {
	Kind      string `json:"kind,omitempty"`
	ID        string `json:"id,omitempty"`
	Etag      string `json:"etag,omitempty"`
	Title     string `json:"title"`
	Updated   string `json:"updated,omitempty"`
	SelfLink  string `json:"selfLink,omitempty"`
	Parent    string `json:"parent,omitempty"`
	Position  string `json:"position,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Status    string `json:"status,omitempty"`
	Due       string `json:"due,omitempty"`
	Completed string `json:"completed,omitempty"`
	Deleted   bool   `json:"deleted,omitempty"`
	Hidden    bool   `json:"hidden,omitempty"`

	Children []*Task `json:"-"`
	ListName string  `json:"-"`
}

// IsCompleted reports whether the task carries a completion timestamp.
func (t *Task) IsCompleted() bool {
	return t.Completed != ""
}

// IsSubtask reports whether the task belongs to a parent task.
func (t *Task) IsSubtask() bool {
	return t.Parent != ""
}

// ListID recovers the owning task list id from the task's selfLink.
// The remote service does not store list membership on the task itself;
// the id is only recoverable from the resource URL path.
func (t *Task) ListID() string {
	const marker = "/lists/"
	i := strings.Index(t.SelfLink, marker)
	if i < 0 {
		return ""
	}
	rest := t.SelfLink[i+len(marker):]
	if j := strings.Index(rest, "/"); j >= 0 {
		return rest[:j]
	}
	return rest
}

// TaskList is a named collection of tasks on the remote service.
type TaskList struct {
	Kind     string `json:"kind,omitempty"`
	ID       string `json:"id"`
	Etag     string `json:"etag,omitempty"`
	Title    string `json:"title"`
	Updated  string `json:"updated,omitempty"`
	SelfLink string `json:"selfLink,omitempty"`
}

// TaskInput is the caller-supplied payload for creating a task.
// Due is a date-only value; the gateway expands it to full RFC 3339
// before sending.
type TaskInput struct {
	Title  string
	Notes  string
	ListID string
	Due    string
}

// DueWindow optionally restricts a task fetch to a due-date range.
// Zero values mean unbounded.
type DueWindow struct {
	Min time.Time
	Max time.Time
}
