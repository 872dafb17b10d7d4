package output

import (
	"bytes"
	"testing"

	"github.com/f4lconet/TodoList/internal/service"
	"github.com/f4lconet/TodoList/internal/tasksync"
)

func TestFormatTask_WithDescription(t *testing.T) {
	var buf bytes.Buffer
	FormatTask(&buf, "c2", service.Task{Title: "Call mom", Description: "Sunday\nafternoon"})

	expected := "  c2  Call mom\n      Sunday afternoon\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatTask_Untitled(t *testing.T) {
	var buf bytes.Buffer
	FormatTask(&buf, "1", service.Task{Title: "  "})

	expected := "   1  (untitled)\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatBoard_Empty(t *testing.T) {
	var buf bytes.Buffer
	FormatBoard(&buf, nil, nil)

	expected := "------------\nCurrent tasks\n------------\n      No current tasks. Add the first one.\n" +
		"------------\nCompleted tasks\n------------\n      No completed tasks\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatNotice(t *testing.T) {
	var buf bytes.Buffer
	FormatNotice(&buf, tasksync.Notice{Title: "Task completed", Message: "Task moved to completed", Severity: tasksync.SeveritySuccess})
	FormatNotice(&buf, tasksync.Notice{Title: "Error", Message: "Failed to delete task", Severity: tasksync.SeverityError})

	expected := "Task completed: Task moved to completed\nerror: Failed to delete task\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}
