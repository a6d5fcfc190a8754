package googletasks_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasksync/internal/backend/googletasks"
	"tasksync/internal/service"
	"tasksync/internal/settings"
)

type staticTokens struct{ token string }

func (s staticTokens) AccessToken(ctx context.Context) (string, error) {
	return s.token, nil
}

func newClient(t *testing.T, handler http.Handler, cfg *settings.Settings) *googletasks.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	if cfg == nil {
		cfg = &settings.Settings{}
	}
	return googletasks.NewWithTransport(staticTokens{token: "test-token"}, cfg, srv.URL, srv.Client())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestListTaskLists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/@me/lists", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeJSON(w, map[string]any{
			"items": []service.TaskList{
				{ID: "list-1", Title: "My Tasks"},
				{ID: "list-2", Title: "Groceries"},
			},
		})
	})

	c := newClient(t, mux, nil)
	lists := c.ListTaskLists(context.Background())

	require.Len(t, lists, 2)
	assert.Equal(t, "Groceries", lists[1].Title)
}

func TestListTaskListsFailureReturnsEmpty(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}), nil)

	assert.Empty(t, c.ListTaskLists(context.Background()))
}

func TestListTasksPaginatesToExhaustion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/lists/list-1/tasks", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "true", r.URL.Query().Get("showCompleted"))

		switch r.URL.Query().Get("pageToken") {
		case "":
			writeJSON(w, map[string]any{
				"items":         []service.Task{{ID: "A", Title: "first"}},
				"nextPageToken": "page-2",
			})
		case "page-2":
			writeJSON(w, map[string]any{
				"items": []service.Task{{ID: "B", Title: "second"}},
			})
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
	})

	c := newClient(t, mux, nil)
	tasks := c.ListTasks(context.Background(), "list-1", service.DueWindow{})

	require.Len(t, tasks, 2)
	assert.Equal(t, "A", tasks[0].ID)
	assert.Equal(t, "B", tasks[1].ID)
}

func TestListTasksAssemblesChildren(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/lists/list-1/tasks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"items": []service.Task{
				{ID: "A", Title: "parent"},
				{ID: "C", Title: "second child", Parent: "A", Position: "2"},
				{ID: "D", Title: "first child", Parent: "A", Position: "1"},
			},
		})
	})

	c := newClient(t, mux, nil)
	tasks := c.ListTasks(context.Background(), "list-1", service.DueWindow{})

	require.Len(t, tasks, 1, "parented tasks must not appear at top level")
	require.Len(t, tasks[0].Children, 2)
	assert.Equal(t, "D", tasks[0].Children[0].ID, "children sorted by numeric position")
	assert.Equal(t, "C", tasks[0].Children[1].ID)
}

func TestListTasksNormalizesDue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/lists/list-1/tasks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"items": []service.Task{
				{ID: "A", Due: "2024-01-10T00:00:00Z"},
				{ID: "B"},
			},
		})
	})

	c := newClient(t, mux, nil)
	tasks := c.ListTasks(context.Background(), "list-1", service.DueWindow{})

	require.Len(t, tasks, 2)
	assert.Equal(t, "2024-01-10T12:00:00Z", tasks[0].Due)
	assert.Empty(t, tasks[1].Due)
}

func TestListTasksFailureReturnsEmpty(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}), nil)

	assert.Empty(t, c.ListTasks(context.Background(), "list-1", service.DueWindow{}))
}

func TestGetTaskByIDSearchesAllLists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/@me/lists", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"items": []service.TaskList{{ID: "list-1"}, {ID: "list-2"}},
		})
	})
	mux.HandleFunc("/lists/list-1/tasks/task-x", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/lists/list-2/tasks/task-x", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, service.Task{ID: "task-x", Title: "found", Due: "2024-03-01T00:00:00Z"})
	})

	c := newClient(t, mux, nil)
	task := c.GetTaskByID(context.Background(), "task-x")

	require.NotNil(t, task)
	assert.Equal(t, "found", task.Title)
	assert.Equal(t, "2024-03-01T12:00:00Z", task.Due, "lookup applies due normalization too")
}

func TestGetTaskByIDMissIsNil(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/@me/lists", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": []service.TaskList{{ID: "list-1"}}})
	})
	mux.HandleFunc("/lists/list-1/tasks/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	c := newClient(t, mux, nil)
	assert.Nil(t, c.GetTaskByID(context.Background(), "nope"))
}

func TestCreateTaskExpandsDueDate(t *testing.T) {
	var gotBody map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/lists/list-1/tasks", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, service.Task{ID: "new-task", Title: gotBody["title"], Due: gotBody["due"]})
	})

	cfg := &settings.Settings{GoogleAPIToken: "secret-key"}
	c := newClient(t, mux, cfg)
	created := c.CreateTask(context.Background(), service.TaskInput{
		Title:  "Water plants",
		ListID: "list-1",
		Due:    "2024-05-01",
	})

	require.NotNil(t, created)
	assert.Equal(t, "2024-05-01T00:00:00Z", gotBody["due"], "date-only due expands to RFC 3339 on the wire")
	assert.Equal(t, "2024-05-01T12:00:00Z", created.Due, "returned record is display-normalized")
}

func TestCompleteTaskWalksChildren(t *testing.T) {
	var mu sync.Mutex
	puts := map[string]int{}

	mux := http.NewServeMux()
	record := func(id string, status int) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)

			var got service.Task
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, service.StatusCompleted, got.Status)
			assert.NotEmpty(t, got.Completed)

			mu.Lock()
			puts[id]++
			mu.Unlock()

			if status != http.StatusOK {
				http.Error(w, "boom", status)
				return
			}
			writeJSON(w, got)
		}
	}
	mux.HandleFunc("/lists/l/tasks/parent", record("parent", http.StatusOK))
	mux.HandleFunc("/lists/l/tasks/child-1", record("child-1", http.StatusInternalServerError))
	mux.HandleFunc("/lists/l/tasks/child-2", record("child-2", http.StatusOK))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := googletasks.NewWithTransport(staticTokens{token: "t"}, &settings.Settings{}, srv.URL, srv.Client())

	link := func(id string) string { return fmt.Sprintf("%s/lists/l/tasks/%s", srv.URL, id) }
	parent := &service.Task{
		ID:       "parent",
		SelfLink: link("parent"),
		Children: []*service.Task{
			{ID: "child-1", SelfLink: link("child-1")},
			{ID: "child-2", SelfLink: link("child-2")},
		},
	}

	ok := c.CompleteTask(context.Background(), parent)

	assert.True(t, ok, "a failed subtask does not fail the parent call")
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]int{"parent": 1, "child-1": 1, "child-2": 1}, puts,
		"three PUTs even when one child fails")
}

func TestUncompleteTaskRestoresChildren(t *testing.T) {
	var mu sync.Mutex
	var order []string

	mux := http.NewServeMux()
	handle := func(id string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var got service.Task
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, service.StatusNeedsAction, got.Status)
			assert.Empty(t, got.Completed)

			mu.Lock()
			order = append(order, id)
			mu.Unlock()
			writeJSON(w, got)
		}
	}
	mux.HandleFunc("/lists/l/tasks/parent", handle("parent"))
	mux.HandleFunc("/lists/l/tasks/child", handle("child"))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := googletasks.NewWithTransport(staticTokens{token: "t"}, &settings.Settings{}, srv.URL, srv.Client())

	parent := &service.Task{
		ID:        "parent",
		Status:    service.StatusCompleted,
		Completed: "2024-01-01T00:00:00Z",
		SelfLink:  srv.URL + "/lists/l/tasks/parent",
		Children: []*service.Task{{
			ID:        "child",
			Status:    service.StatusCompleted,
			Completed: "2024-01-01T00:00:00Z",
			SelfLink:  srv.URL + "/lists/l/tasks/child",
		}},
	}

	require.True(t, c.UncompleteTask(context.Background(), parent))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"parent", "child"}, order)
}

func TestDeleteTaskRequires204(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"no content", http.StatusNoContent, true},
		{"ok is not success", http.StatusOK, false},
		{"not found", http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodDelete, r.Method)
				w.WriteHeader(tt.status)
			}))
			t.Cleanup(srv.Close)
			c := googletasks.NewWithTransport(staticTokens{token: "t"}, &settings.Settings{}, srv.URL, srv.Client())

			got := c.DeleteTask(context.Background(), srv.URL+"/lists/l/tasks/x")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpdateTaskPatches(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, service.Task{})
	}))
	t.Cleanup(srv.Close)
	c := googletasks.NewWithTransport(staticTokens{token: "t"}, &settings.Settings{}, srv.URL, srv.Client())

	ok := c.UpdateTask(context.Background(), &service.Task{
		ID:       "task-1",
		Title:    "new title",
		Notes:    "new notes",
		Due:      "2024-06-01T12:00:00Z",
		SelfLink: srv.URL + "/lists/l/tasks/task-1",
	})

	require.True(t, ok)
	assert.Equal(t, "new title", gotBody["title"])
	assert.Equal(t, "new notes", gotBody["notes"])
	assert.Equal(t, "2024-06-01T12:00:00Z", gotBody["due"])
	assert.NotEmpty(t, gotBody["updated"])
}

func TestTaskListID(t *testing.T) {
	task := &service.Task{SelfLink: "https://tasks.googleapis.com/tasks/v1/lists/abc123/tasks/task-1"}
	assert.Equal(t, "abc123", task.ListID())

	assert.Empty(t, (&service.Task{}).ListID())
}
