// Package googletasks implements the service.Service interface using Google Tasks API.
// Tasks live in the user's default list; descriptions map to notes.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/f4lconet/TodoList/internal/config"
	"github.com/f4lconet/TodoList/internal/logging"
	"github.com/f4lconet/TodoList/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	listID  string
	timeout time.Duration
	log     *log.Helper
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, logger log.Logger) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read oauth_client.json: %v", config.ErrAuth, err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid oauth_client.json: %v", config.ErrAuth, err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("%w: not logged in (run: todo login)", config.ErrAuth)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("%w: invalid token.json: %v", config.ErrAuth, err)
	}

	// Token source refreshes the access token as needed.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient, cfg.Timeout, logger)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, timeout time.Duration, logger log.Logger, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{
		svc:     svc,
		listID:  DefaultListID,
		timeout: timeout,
		log:     logging.Module(logger, "backend/googletasks"),
	}, nil
}

// ListTasks returns every task in the default list, completed ones included.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	const op = "list tasks"
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := []service.Task{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				if t.Deleted {
					continue
				}
				result = append(result, fromAPI(t))
			}
			return nil
		})
	if err != nil {
		return nil, c.wrapError(op, err)
	}
	return result, nil
}

// CreateTask inserts a task. Google assigns its own id; t.ID is not sent.
func (c *Client) CreateTask(ctx context.Context, t service.Task) (service.Task, error) {
	const op = "create task"
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{
		Title:  t.Title,
		Notes:  t.Description,
		Status: toAPIStatus(t.Status),
	}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, c.wrapError(op, err)
	}
	return fromAPI(created), nil
}

// UpdateTask patches title, notes and status.
func (c *Client) UpdateTask(ctx context.Context, id string, p service.Patch) (service.Task, error) {
	const op = "update task"
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	updated, err := c.svc.Tasks.Patch(c.listID, id, toAPIPatch(p)).Context(ctx).Do()
	if err != nil {
		return service.Task{}, c.wrapError(op, err)
	}
	return fromAPI(updated), nil
}

// UpdateStatus marks a task completed or reopens it.
func (c *Client) UpdateStatus(ctx context.Context, id string, status service.Status) (service.Task, error) {
	return c.UpdateTask(ctx, id, service.Patch{Status: &status})
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	const op = "delete task"
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return c.wrapError(op, err)
	}
	return nil
}

func fromAPI(t *tasks.Task) service.Task {
	status := service.StatusCurrent
	if t.Status == statusCompleted {
		status = service.StatusCompleted
	}
	return service.Task{
		ID:          t.Id,
		Title:       t.Title,
		Description: t.Notes,
		Status:      status,
	}
}

func toAPIStatus(s service.Status) string {
	if s == service.StatusCompleted {
		return statusCompleted
	}
	return statusNeedsAction
}

func toAPIPatch(p service.Patch) *tasks.Task {
	t := &tasks.Task{}
	if p.Title != nil {
		t.Title = *p.Title
		t.ForceSendFields = append(t.ForceSendFields, "Title")
	}
	if p.Description != nil {
		t.Notes = *p.Description
		t.ForceSendFields = append(t.ForceSendFields, "Notes")
	}
	if p.Status != nil {
		t.Status = toAPIStatus(*p.Status)
		if *p.Status == service.StatusCurrent {
			// Reopening requires clearing the completion timestamp.
			t.NullFields = append(t.NullFields, "Completed")
		}
	}
	return t
}

// wrapError maps API errors onto the service error taxonomy and logs them.
func (c *Client) wrapError(op string, err error) error {
	var mapped error
	var gerr *googleapi.Error
	switch {
	case errors.As(err, &gerr):
		msg := gerr.Message
		if gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden {
			msg = "token expired or revoked (run: todo login)"
		}
		mapped = &service.ServerError{Op: op, StatusCode: gerr.Code, Message: msg}
	case errors.Is(err, context.DeadlineExceeded):
		mapped = &service.TransportError{Op: op, Err: fmt.Errorf("request timed out: %w", err)}
	default:
		mapped = &service.TransportError{Op: op, Err: err}
	}
	c.log.Errorw("msg", "request failed", "op", op, "err", err)
	return mapped
}
