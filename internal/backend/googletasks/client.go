// Package googletasks implements service.Service against the Google
// Tasks REST API.
package googletasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"

	"tasksync/internal/service"
	"tasksync/internal/settings"
)

const (
	// DefaultBaseURL is the root of the Tasks REST API.
	DefaultBaseURL = "https://tasks.googleapis.com/tasks/v1"

	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// dueOffset compensates for date-only due values being serialized
	// at midnight UTC; without it tasks show up a day early in
	// western timezones. Deliberate correction, do not remove.
	dueOffset = 12 * time.Hour
)

// TokenProvider supplies a valid bearer token for each call. Token
// caching and refresh happen behind this interface, never here.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client implements service.Service using the Google Tasks REST API.
//
// Transport and decode failures never escape: list calls degrade to an
// empty result, lookups to nil, mutations to false. Failures are
// logged and the view goes stale until the next refresh cycle.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
	apiKey     string
	showHidden bool
	log        *logrus.Entry
}

// New creates a client with the production endpoint.
func New(tokens TokenProvider, cfg *settings.Settings) *Client {
	return NewWithTransport(tokens, cfg, DefaultBaseURL, http.DefaultClient)
}

// NewWithTransport creates a client against a custom endpoint and HTTP
// client (used by tests).
func NewWithTransport(tokens TokenProvider, cfg *settings.Settings, baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     tokens,
		apiKey:     cfg.GoogleAPIToken,
		showHidden: cfg.ShowHidden,
		log:        logrus.WithField("component", "googletasks"),
	}
}

// ListTaskLists returns all task lists, or an empty slice on any failure.
func (c *Client) ListTaskLists(ctx context.Context) []service.TaskList {
	var resp struct {
		Items []service.TaskList `json:"items"`
	}
	if _, err := c.do(ctx, http.MethodGet, c.baseURL+"/users/@me/lists", nil, &resp); err != nil {
		c.log.WithError(err).Warn("listing task lists failed")
		return nil
	}
	return resp.Items
}

// ListTasks fetches every page of a list, then assembles the
// parent/child structure: each task's Children holds the fetched tasks
// whose Parent is its id, sorted by numeric position, and parented
// tasks are dropped from the top-level result.
func (c *Client) ListTasks(ctx context.Context, listID string, window service.DueWindow) []*service.Task {
	var all []*service.Task
	pageToken := ""

	for {
		u := fmt.Sprintf("%s/lists/%s/tasks?%s", c.baseURL, listID, c.listQuery(window, pageToken))

		var page struct {
			Items         []*service.Task `json:"items"`
			NextPageToken string          `json:"nextPageToken"`
		}
		if _, err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil {
			c.log.WithError(err).WithField("list", listID).Warn("listing tasks failed")
			return nil
		}

		all = append(all, page.Items...)
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	for _, task := range all {
		if task.Due != "" {
			task.Due = normalizeDue(task.Due)
		}
		task.Children = childrenOf(task.ID, all)
	}

	topLevel := all[:0]
	for _, task := range all {
		if !task.IsSubtask() {
			topLevel = append(topLevel, task)
		}
	}
	return topLevel
}

func (c *Client) listQuery(window service.DueWindow, pageToken string) string {
	q := url.Values{}
	q.Set("maxResults", strconv.Itoa(PageSize))
	q.Set("showCompleted", "true")
	q.Set("showDeleted", "false")
	if c.showHidden {
		q.Set("showHidden", "true")
	}
	if !window.Min.IsZero() {
		q.Set("dueMin", window.Min.Format(time.RFC3339))
	}
	if !window.Max.IsZero() {
		q.Set("dueMax", window.Max.Format(time.RFC3339))
	}
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	return q.Encode()
}

// GetTaskByID searches every task list for the given id. The API is
// list-scoped, so each list is probed in turn; the first 200 wins.
// A miss is absence, not an error.
func (c *Client) GetTaskByID(ctx context.Context, taskID string) *service.Task {
	for _, list := range c.ListTaskLists(ctx) {
		u := fmt.Sprintf("%s/lists/%s/tasks/%s", c.baseURL, list.ID, taskID)

		var task service.Task
		status, err := c.do(ctx, http.MethodGet, u, nil, &task)
		if err != nil || status != http.StatusOK {
			continue
		}
		if task.Due != "" {
			task.Due = normalizeDue(task.Due)
		}
		return &task
	}
	return nil
}

// CreateTask creates a task and returns the server record, or nil on
// failure. A date-only due value is expanded to full RFC 3339.
func (c *Client) CreateTask(ctx context.Context, input service.TaskInput) *service.Task {
	body := map[string]string{
		"title": input.Title,
		"notes": input.Notes,
	}
	if input.Due != "" {
		body["due"] = dueToRFC3339(input.Due)
	}

	u := c.withKey(fmt.Sprintf("%s/lists/%s/tasks", c.baseURL, input.ListID))

	var created service.Task
	status, err := c.do(ctx, http.MethodPost, u, body, &created)
	if err != nil || status != http.StatusOK {
		c.log.WithError(err).WithField("list", input.ListID).Warn("creating task failed")
		return nil
	}
	if created.Due != "" {
		created.Due = normalizeDue(created.Due)
	}
	return &created
}

// UpdateTask patches title, notes and due date of an existing task.
func (c *Client) UpdateTask(ctx context.Context, task *service.Task) bool {
	body := map[string]string{
		"title":   task.Title,
		"notes":   task.Notes,
		"due":     task.Due,
		"updated": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := c.do(ctx, http.MethodPatch, task.SelfLink, body, nil); err != nil {
		c.log.WithError(err).WithField("task", task.ID).Warn("updating task failed")
		return false
	}
	return true
}

// CompleteTask marks the task and, recursively, all of its subtasks as
// completed. Each subtask is completed with its own call; a failed
// subtask is logged and its siblings are still processed. The return
// value reports the top-level call.
func (c *Client) CompleteTask(ctx context.Context, task *service.Task) bool {
	for _, child := range task.Children {
		if !c.CompleteTask(ctx, child) {
			c.log.WithField("task", child.ID).Warn("completing subtask failed")
		}
	}

	task.Status = service.StatusCompleted
	task.Completed = time.Now().UTC().Format(time.RFC3339)

	if _, err := c.do(ctx, http.MethodPut, c.withKey(task.SelfLink), task, nil); err != nil {
		c.log.WithError(err).WithField("task", task.ID).Warn("completing task failed")
		return false
	}
	return true
}

// UncompleteTask moves the task back to needsAction, then restores its
// subtasks the same way (fire-and-continue).
func (c *Client) UncompleteTask(ctx context.Context, task *service.Task) bool {
	task.Status = service.StatusNeedsAction
	task.Completed = ""

	_, err := c.do(ctx, http.MethodPut, c.withKey(task.SelfLink), task, nil)
	if err != nil {
		c.log.WithError(err).WithField("task", task.ID).Warn("restoring task failed")
		return false
	}

	for _, child := range task.Children {
		if !c.UncompleteTask(ctx, child) {
			c.log.WithField("task", child.ID).Warn("restoring subtask failed")
		}
	}
	return true
}

// DeleteTask removes the task addressed by its selfLink. Success is
// exactly HTTP 204.
func (c *Client) DeleteTask(ctx context.Context, selfLink string) bool {
	status, err := c.do(ctx, http.MethodDelete, c.withKey(selfLink), nil, nil)
	if err != nil {
		c.log.WithError(err).Warn("deleting task failed")
		return false
	}
	return status == http.StatusNoContent
}

// do runs one authenticated request and decodes the JSON response into
// out when given. Non-2xx responses are classified with
// googleapi.CheckResponse and returned as errors.
func (c *Client) do(ctx context.Context, method, rawURL string, payload, out any) (int, error) {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("marshaling request body: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return 0, fmt.Errorf("obtaining access token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing %s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return resp.StatusCode, err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// withKey appends the API key query parameter when one is configured.
// Some deployments require it on write calls.
func (c *Client) withKey(rawURL string) string {
	if c.apiKey == "" {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "key=" + url.QueryEscape(c.apiKey)
}

// childrenOf collects the fetched tasks parented to id, ordered by
// ascending numeric position.
func childrenOf(id string, all []*service.Task) []*service.Task {
	var children []*service.Task
	for _, t := range all {
		if t.Parent == id {
			children = append(children, t)
		}
	}
	sort.SliceStable(children, func(i, j int) bool {
		return positionValue(children[i].Position) < positionValue(children[j].Position)
	})
	return children
}

func positionValue(pos string) int64 {
	n, err := strconv.ParseInt(pos, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// normalizeDue shifts a due timestamp by the fixed display offset.
// Unparseable values pass through untouched.
func normalizeDue(due string) string {
	t, err := time.Parse(time.RFC3339, due)
	if err != nil {
		return due
	}
	return t.Add(dueOffset).UTC().Format(time.RFC3339)
}

// dueToRFC3339 expands a date-only due value to a full timestamp.
func dueToRFC3339(due string) string {
	if t, err := time.Parse("2006-01-02", due); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	if t, err := time.Parse(time.RFC3339, due); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	return due
}
