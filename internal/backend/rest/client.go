// Package rest implements the service.Service interface against the task REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/f4lconet/TodoList/internal/config"
	"github.com/f4lconet/TodoList/internal/logging"
	"github.com/f4lconet/TodoList/internal/service"
)

const (
	tasksPath = "/tasks"

	// maxErrorBody caps how much of a failed response is read for the message.
	maxErrorBody = 64 << 10
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *log.Helper
}

// New creates a REST client for cfg.BaseURL.
func New(cfg *config.Config, logger log.Logger) (*Client, error) {
	return NewWithHTTPClient(cfg.BaseURL, cfg.Timeout, http.DefaultClient, logger)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, timeout time.Duration, httpClient *http.Client, logger log.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url: %s", baseURL)
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    httpClient,
		timeout: timeout,
		log:     logging.Module(logger, "backend/rest"),
	}, nil
}

// ListTasks returns all tasks.
// Accepts either a bare array or a {"tasks": [...]} envelope.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	const op = "list tasks"

	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, tasksPath, nil, &raw); err != nil {
		return nil, err
	}

	var tasks []service.Task
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env struct {
			Tasks []service.Task `json:"tasks"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, c.fail(op, http.MethodGet, tasksPath, malformed(op, err))
		}
		tasks = env.Tasks
	} else if err := json.Unmarshal(trimmed, &tasks); err != nil {
		return nil, c.fail(op, http.MethodGet, tasksPath, malformed(op, err))
	}

	for _, t := range tasks {
		if err := checkTask(op, t); err != nil {
			return nil, c.fail(op, http.MethodGet, tasksPath, err)
		}
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// CreateTask posts a fully-formed task.
func (c *Client) CreateTask(ctx context.Context, t service.Task) (service.Task, error) {
	const op = "create task"

	var created service.Task
	if err := c.do(ctx, op, http.MethodPost, tasksPath, t, &created); err != nil {
		return service.Task{}, err
	}
	if err := checkTask(op, created); err != nil {
		return service.Task{}, c.fail(op, http.MethodPost, tasksPath, err)
	}
	return created, nil
}

// UpdateTask patches a task.
func (c *Client) UpdateTask(ctx context.Context, id string, p service.Patch) (service.Task, error) {
	const op = "update task"
	path := taskPath(id)

	var updated service.Task
	if err := c.do(ctx, op, http.MethodPatch, path, p, &updated); err != nil {
		return service.Task{}, err
	}
	if err := checkTask(op, updated); err != nil {
		return service.Task{}, c.fail(op, http.MethodPatch, path, err)
	}
	return updated, nil
}

// UpdateStatus patches only the status field.
func (c *Client) UpdateStatus(ctx context.Context, id string, status service.Status) (service.Task, error) {
	return c.UpdateTask(ctx, id, service.Patch{Status: &status})
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, "delete task", http.MethodDelete, taskPath(id), nil, nil)
}

// do performs one request. Failures are logged and returned unchanged.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(op, method, path, &service.TransportError{Op: op, Err: unwrapURLError(err)})
	}
	defer resp.Body.Close()

	c.log.Debugw("msg", "request", "method", method, "path", path, "status", resp.StatusCode, "dur", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return c.fail(op, method, path, &service.ServerError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, data),
		})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// A cancelled or expired context cuts the body short; that is not the server's fault.
		if ctx.Err() != nil {
			return c.fail(op, method, path, &service.TransportError{Op: op, Err: ctx.Err()})
		}
		return c.fail(op, method, path, malformed(op, err))
	}
	return nil
}

func (c *Client) fail(op, method, path string, err error) error {
	c.log.Errorw("msg", "request failed", "op", op, "method", method, "path", path, "err", err)
	return err
}

func taskPath(id string) string {
	return tasksPath + "/" + url.PathEscape(id)
}

// errorMessage extracts {"error": "..."} or falls back to the body text.
func errorMessage(code int, body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return strings.ToLower(http.StatusText(code))
}

// malformed reports a 2xx response whose body could not be used.
func malformed(op string, err error) error {
	return &service.ServerError{Op: op, StatusCode: http.StatusOK, Message: "malformed response: " + err.Error()}
}

func checkTask(op string, t service.Task) error {
	if !t.Status.Valid() {
		return &service.ServerError{
			Op:         op,
			StatusCode: http.StatusOK,
			Message:    fmt.Sprintf("task %s has invalid status %q", t.ID, t.Status),
		}
	}
	return nil
}

// unwrapURLError drops the *url.Error wrapper, which repeats method and URL.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
