// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tasksync/internal/service"
)

// FakeService is an in-memory implementation of service.Service for
// testing. Like the real gateway it reports failures as sentinel
// values, driven by the Fail* knobs.
type FakeService struct {
	mu    sync.RWMutex
	lists []service.TaskList
	tasks map[string][]*service.Task // listID -> top-level tasks

	// Failure injection
	FailLists      bool
	FailTasks      map[string]bool // listID -> fail
	FailCreate     bool
	FailUpdate     bool
	FailComplete   bool
	FailUncomplete bool
	FailDelete     bool

	// Call counters
	ListListCalls   int
	UpdateCalls     int
	CompleteCalls   int
	UncompleteCalls int
	DeleteCalls     int
}

// NewFakeService creates a FakeService with a single default list.
func NewFakeService() *FakeService {
	f := &FakeService{
		tasks:     make(map[string][]*service.Task),
		FailTasks: make(map[string]bool),
	}
	f.lists = []service.TaskList{{ID: "default", Title: "My Tasks"}}
	f.tasks["default"] = nil
	return f
}

// AddList adds a task list.
func (f *FakeService) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.TaskList{ID: id, Title: title})
	if f.tasks[id] == nil {
		f.tasks[id] = nil
	}
}

// AddTask adds a top-level task to a list, minting an id and selfLink
// when absent.
func (f *FakeService) AddTask(listID string, task *service.Task) *service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fill(listID, task)
	for _, child := range task.Children {
		child.Parent = task.ID
		f.fill(listID, child)
	}
	f.tasks[listID] = append(f.tasks[listID], task)
	return task
}

func (f *FakeService) fill(listID string, task *service.Task) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.SelfLink == "" {
		task.SelfLink = fmt.Sprintf("https://tasks.example.com/tasks/v1/lists/%s/tasks/%s", listID, task.ID)
	}
	if task.Status == "" {
		task.Status = service.StatusNeedsAction
	}
}

// ListTaskLists implements service.Service.
func (f *FakeService) ListTaskLists(ctx context.Context) []service.TaskList {
	f.mu.Lock()
	f.ListListCalls++
	f.mu.Unlock()

	if f.FailLists {
		return nil
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.TaskList, len(f.lists))
	copy(out, f.lists)
	return out
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, listID string, window service.DueWindow) []*service.Task {
	if f.FailTasks[listID] {
		return nil
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]*service.Task, len(f.tasks[listID]))
	copy(out, f.tasks[listID])
	return out
}

// GetTaskByID implements service.Service.
func (f *FakeService) GetTaskByID(ctx context.Context, taskID string) *service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, tasks := range f.tasks {
		for _, task := range tasks {
			if task.ID == taskID {
				return task
			}
			for _, child := range task.Children {
				if child.ID == taskID {
					return child
				}
			}
		}
	}
	return nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, input service.TaskInput) *service.Task {
	if f.FailCreate {
		return nil
	}
	task := &service.Task{
		Title:  input.Title,
		Notes:  input.Notes,
		Due:    input.Due,
		Status: service.StatusNeedsAction,
	}
	return f.AddTask(input.ListID, task)
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, task *service.Task) bool {
	f.mu.Lock()
	f.UpdateCalls++
	f.mu.Unlock()

	return !f.FailUpdate
}

// CompleteTask implements service.Service.
func (f *FakeService) CompleteTask(ctx context.Context, task *service.Task) bool {
	f.mu.Lock()
	f.CompleteCalls++
	f.mu.Unlock()

	if f.FailComplete {
		return false
	}
	for _, child := range task.Children {
		f.CompleteTask(ctx, child)
	}
	task.Status = service.StatusCompleted
	task.Completed = time.Now().UTC().Format(time.RFC3339)
	return true
}

// UncompleteTask implements service.Service.
func (f *FakeService) UncompleteTask(ctx context.Context, task *service.Task) bool {
	f.mu.Lock()
	f.UncompleteCalls++
	f.mu.Unlock()

	if f.FailUncomplete {
		return false
	}
	task.Status = service.StatusNeedsAction
	task.Completed = ""
	for _, child := range task.Children {
		f.UncompleteTask(ctx, child)
	}
	return true
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, selfLink string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++

	if f.FailDelete {
		return false
	}
	for listID, tasks := range f.tasks {
		for i, task := range tasks {
			if task.SelfLink == selfLink {
				f.tasks[listID] = append(tasks[:i], tasks[i+1:]...)
				return true
			}
		}
	}
	return false
}
