// Package output provides plain-text formatters for the task panel.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"tasksync/internal/aggregate"
	"tasksync/internal/service"
)

const (
	// GroupSeparator is the separator line above and below a due-group
	// header.
	GroupSeparator = "------------"

	taskIndent    = "  "
	subtaskIndent = "      "
)

// FormatGroupHeader writes a due-group header. RFC 3339 keys render as
// a calendar date; anything else (the no-due sentinel) prints as-is.
func FormatGroupHeader(w io.Writer, key string) {
	fmt.Fprintln(w, GroupSeparator)
	fmt.Fprintln(w, displayDate(key))
	fmt.Fprintln(w, GroupSeparator)
}

// FormatTask writes one task row with its checkbox, source list and
// nested subtasks.
func FormatTask(w io.Writer, task *service.Task) {
	fmt.Fprintf(w, "%s[%s] %s%s\n", taskIndent, checkbox(task), normalizeTitle(task.Title), listSuffix(task))
	for _, child := range task.Children {
		fmt.Fprintf(w, "%s[%s] %s\n", subtaskIndent, checkbox(child), normalizeTitle(child.Title))
	}
}

// FormatGrouped writes every non-empty group of the map in the given
// key order. Empty groups (including the sentinel) produce no output.
func FormatGrouped(w io.Writer, grouped *aggregate.GroupedTasks, keys []string) {
	for _, key := range keys {
		tasks := grouped.Get(key)
		if len(tasks) == 0 {
			continue
		}
		FormatGroupHeader(w, key)
		for _, task := range tasks {
			FormatTask(w, task)
		}
	}
}

// FormatListName writes a task list line for the lists command.
func FormatListName(w io.Writer, list service.TaskList) {
	fmt.Fprintln(w, normalizeTitle(list.Title))
}

func checkbox(task *service.Task) string {
	if task.Status == service.StatusCompleted {
		return "x"
	}
	return " "
}

func listSuffix(task *service.Task) string {
	if task.ListName == "" {
		return ""
	}
	return "  (" + task.ListName + ")"
}

func displayDate(key string) string {
	t, err := time.Parse(time.RFC3339, key)
	if err != nil {
		return key
	}
	return t.UTC().Format("Mon, 02 Jan 2006")
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
