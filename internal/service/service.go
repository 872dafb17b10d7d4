package service

import "context"

// Service defines the interface for task backend operations.
// Every backend (REST, Google Tasks) goes through this interface;
// the sync layer and commands never import a backend directly.
type Service interface {
	// ListTasks returns all tasks. No filtering or pagination.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask submits a fully-formed task and returns the server's
	// canonical representation. The returned ID may differ from t.ID.
	CreateTask(ctx context.Context, t Task) (Task, error)

	// UpdateTask applies a partial patch and returns the updated task.
	// Fails with a not-found ServerError if id does not exist.
	UpdateTask(ctx context.Context, id string, p Patch) (Task, error)

	// DeleteTask removes a task by id.
	// Fails with a not-found ServerError if id does not exist.
	DeleteTask(ctx context.Context, id string) error

	// UpdateStatus is UpdateTask restricted to the status field.
	UpdateStatus(ctx context.Context, id string, status Status) (Task, error)
}
