// Package notes keeps checkbox markers in note text in step with the
// remote task status.
package notes

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tasksync/internal/service"
)

// markerLine matches a checklist line carrying a task marker:
//
//	- [ ] 2024-01-10 Water plants  %%MTIzNDU2Nzg5MDEyMzQ1Ng%%
//
// The %%-delimited 22-char id is the join key to the remote task.
var markerLine = regexp.MustCompile(`^(\s*- \[)( |x)(\] .*%%[A-Za-z0-9_-]{22}%%\s*)$`)

var markerID = regexp.MustCompile(`%%([A-Za-z0-9_-]{22})%%`)

// Reconciler rewrites note checkboxes to match the remote completion
// state of the tasks they reference.
type Reconciler struct {
	svc service.Service
	log *logrus.Entry
}

// NewReconciler creates a Reconciler over the given gateway.
func NewReconciler(svc service.Service) *Reconciler {
	return &Reconciler{
		svc: svc,
		log: logrus.WithField("component", "notes"),
	}
}

// Reconcile scans the note body for marker lines, looks up each
// referenced task and flips checkboxes that disagree with the remote
// status. It returns the rewritten body and whether anything changed;
// callers persist the body only when it did. A failed lookup skips
// that line and processing continues.
func (r *Reconciler) Reconcile(ctx context.Context, body string) (string, bool) {
	lines := strings.Split(body, "\n")
	changed := false

	for i, line := range lines {
		m := markerLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id := markerID.FindStringSubmatch(m[3])[1]

		task := r.svc.GetTaskByID(ctx, id)
		if task == nil {
			r.log.WithField("task", id).Debug("marker refers to unknown task, skipping")
			continue
		}

		box := " "
		if task.Status == service.StatusCompleted {
			box = "x"
		}
		if box == m[2] {
			continue
		}

		lines[i] = m[1] + box + m[3]
		changed = true
	}

	if !changed {
		return body, false
	}
	return strings.Join(lines, "\n"), true
}

// ChecklistLine renders a task as a marker-carrying checklist line,
// ready to insert into a note. Tasks without a due date get a dash
// placeholder so columns stay aligned.
func ChecklistLine(task *service.Task) string {
	box := " "
	if task.Status == service.StatusCompleted {
		box = "x"
	}

	date := "-----------"
	if task.Due != "" {
		if t, err := time.Parse(time.RFC3339, task.Due); err == nil {
			date = t.UTC().Format("2006-01-02")
		}
	}

	return fmt.Sprintf("- [%s] %s %s  %%%%%s%%%%", box, date, task.Title, task.ID)
}
