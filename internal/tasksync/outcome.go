package tasksync

import "github.com/f4lconet/TodoList/internal/service"

// Op names an operation tracked by the store.
type Op string

const (
	OpFetch  Op = "fetch"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpStatus Op = "status"
)

// Severity is the weight of a notice.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Color returns the display hint for the severity.
func (s Severity) Color() string {
	switch s {
	case SeveritySuccess:
		return "green"
	case SeverityError:
		return "red"
	default:
		return "blue"
	}
}

// Notice is the user-facing message for a settled operation.
type Notice struct {
	Title    string
	Message  string
	Severity Severity
}

// Outcome is delivered to subscribers when an operation settles.
type Outcome struct {
	Op Op

	// TargetID is the id the operation was tracked by.
	// For creates this is the tentative client id.
	TargetID string

	// Task is the server's canonical task, when the operation returned one.
	Task service.Task

	// Err is nil on success.
	Err error

	Notice Notice
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

func successNotice(message string) Notice {
	return Notice{Title: "Success", Message: message, Severity: SeveritySuccess}
}

func errorNotice(message string) Notice {
	return Notice{Title: "Error", Message: message, Severity: SeverityError}
}

// statusNotice describes which partition the task moved into.
func statusNotice(t service.Task) Notice {
	if t.Status == service.StatusCompleted {
		return Notice{Title: "Task completed", Message: "Task moved to completed", Severity: SeveritySuccess}
	}
	return Notice{Title: "Task resumed", Message: "Task moved back to current", Severity: SeverityInfo}
}
