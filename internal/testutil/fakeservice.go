// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/f4lconet/TodoList/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []service.Task
	calls int
	seq   int

	// ReassignIDs makes CreateTask ignore the submitted id and assign "srv-N".
	ReassignIDs bool

	// Hook runs at the start of every call, outside the lock.
	// Tests use it to hold a call in flight.
	Hook func(op, id string)

	// Error injection for testing
	ListTasksErr    error
	CreateTaskErr   error
	UpdateTaskErr   error
	UpdateStatusErr error
	DeleteTaskErr   error
}

// NewFakeService creates a FakeService holding the given tasks.
func NewFakeService(tasks ...service.Task) *FakeService {
	f := &FakeService{}
	f.tasks = append(f.tasks, tasks...)
	return f
}

// AddTask adds a current task.
func (f *FakeService) AddTask(id, title, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      service.StatusCurrent,
	})
}

// Snapshot returns a copy of the stored tasks.
func (f *FakeService) Snapshot() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns how many Service methods were invoked.
func (f *FakeService) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls
}

func (f *FakeService) enter(op, id string) {
	if f.Hook != nil {
		f.Hook(op, id)
	}
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func notFound(op string) error {
	return &service.ServerError{Op: op, StatusCode: http.StatusNotFound, Message: "task not found"}
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.enter("list", "")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Snapshot(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, t service.Task) (service.Task, error) {
	f.enter("create", t.ID)
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ReassignIDs || t.ID == "" {
		f.seq++
		t.ID = fmt.Sprintf("srv-%d", f.seq)
	}
	if t.Status == "" {
		t.Status = service.StatusCurrent
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, p service.Patch) (service.Task, error) {
	f.enter("update", id)
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	return f.patch("update task", id, p)
}

// UpdateStatus implements service.Service.
func (f *FakeService) UpdateStatus(ctx context.Context, id string, status service.Status) (service.Task, error) {
	f.enter("status", id)
	if f.UpdateStatusErr != nil {
		return service.Task{}, f.UpdateStatusErr
	}
	return f.patch("update task", id, service.Patch{Status: &status})
}

func (f *FakeService) patch(op, id string, p service.Patch) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = p.Apply(t)
			return f.tasks[i], nil
		}
	}
	return service.Task{}, notFound(op)
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.enter("delete", id)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return notFound("delete task")
}
