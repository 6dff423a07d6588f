// Package googletasks implements the service.Service interface on top of the
// user's default Google Tasks list.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todoctl/internal/config"
	"todoctl/internal/todo"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// Scope is the OAuth scope needed for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"

	priorityMarkerPrefix = "[priority:"
	priorityMarkerSuffix = "]"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	timeout time.Duration
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Refreshing token source
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc, timeout: cfg.Settings.Timeout}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint
// (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, timeout: config.DefaultTimeout}, nil
}

// ListTodos returns every task of the default list, completed ones included.
func (c *Client) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := []todo.Todo{}
	err := c.svc.Tasks.List(DefaultListID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				result = append(result, toTodo(task))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// GetTodo returns one task by id.
func (c *Client) GetTodo(ctx context.Context, id string) (todo.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	task, err := c.svc.Tasks.Get(DefaultListID, id).Context(ctx).Do()
	if err != nil {
		return todo.Todo{}, wrapError(err)
	}
	return toTodo(task), nil
}

// CreateTodo inserts a task. Google assigns the id, so t.ID is not sent.
func (c *Client) CreateTodo(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	task, err := c.svc.Tasks.Insert(DefaultListID, fromTodo(t)).Context(ctx).Do()
	if err != nil {
		return todo.Todo{}, wrapError(err)
	}
	return toTodo(task), nil
}

// UpdateTodo patches a task. The answer's modification time is left out of
// the returned patch so an edit does not move the record.
func (c *Client) UpdateTodo(ctx context.Context, t todo.Todo) (todo.Patch, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	task, err := c.svc.Tasks.Patch(DefaultListID, t.ID, fromTodo(t)).Context(ctx).Do()
	if err != nil {
		return todo.Patch{}, wrapError(err)
	}
	patch := todo.PatchFrom(toTodo(task))
	patch.CreatedAt = nil
	return patch, nil
}

// DeleteTodo deletes a task.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(DefaultListID, id).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

func toTodo(task *tasks.Task) todo.Todo {
	description, priority := splitNotes(task.Notes)
	completed := todo.StatusInProgress
	if task.Status == statusCompleted {
		completed = todo.StatusCompleted
	}
	return todo.Todo{
		ID:          task.Id,
		Title:       task.Title,
		Description: description,
		CreatedAt:   task.Updated,
		Priority:    priority,
		Completed:   completed,
	}
}

func fromTodo(t todo.Todo) *tasks.Task {
	status := statusNeedsAction
	if t.IsCompleted() {
		status = statusCompleted
	}
	return &tasks.Task{
		Title:  t.Title,
		Notes:  joinNotes(t.Description, t.Priority),
		Status: status,
	}
}

// joinNotes appends the priority marker as the last line of the notes.
func joinNotes(description string, p todo.Priority) string {
	if !p.IsValid() {
		p = todo.PriorityLow
	}
	marker := priorityMarkerPrefix + string(p) + priorityMarkerSuffix
	if description == "" {
		return marker
	}
	return description + "\n" + marker
}

// splitNotes undoes joinNotes. Notes without a valid marker keep their full
// text and get the default priority.
func splitNotes(notes string) (string, todo.Priority) {
	trimmed := strings.TrimRight(notes, "\n")
	idx := strings.LastIndex(trimmed, "\n")
	last := trimmed[idx+1:]
	if !strings.HasPrefix(last, priorityMarkerPrefix) || !strings.HasSuffix(last, priorityMarkerSuffix) {
		return notes, todo.PriorityLow
	}
	value := strings.TrimSuffix(strings.TrimPrefix(last, priorityMarkerPrefix), priorityMarkerSuffix)
	p, ok := todo.ParsePriority(value)
	if !ok {
		return notes, todo.PriorityLow
	}
	if idx < 0 {
		return "", p
	}
	return trimmed[:idx], p
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: todoctl login)")
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}
	return err
}
