// Package service defines the backend-agnostic interface for task operations.
package service

// Status is the completion state of a task.
type Status string

const (
	// StatusCurrent marks a task that is still open.
	StatusCurrent Status = "current"

	// StatusCompleted marks a finished task.
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the two known statuses.
func (s Status) Valid() bool {
	return s == StatusCurrent || s == StatusCompleted
}

// Toggle returns the other status.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusCurrent
	}
	return StatusCompleted
}

// Task represents a single task item.
// The JSON shape is the wire format of the REST backend.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

// Empty reports whether the patch carries no fields.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// Apply returns t with the patch fields applied.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t
}
