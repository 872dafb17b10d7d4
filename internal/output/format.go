// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/f4lconet/TodoList/internal/service"
	"github.com/f4lconet/TodoList/internal/tasksync"
)

const (
	// SectionSeparator is the separator line around section headers.
	SectionSeparator = "------------"

	CurrentHeader   = "Current tasks"
	CompletedHeader = "Completed tasks"

	NoCurrentTasks   = "No current tasks. Add the first one."
	NoCompletedTasks = "No completed tasks"

	// CompletedRefPrefix prefixes references into the completed section.
	CompletedRefPrefix = "c"
)

// FormatBoard prints both sections: current tasks numbered 1..N,
// completed tasks numbered c1..cN.
func FormatBoard(w io.Writer, current, completed []service.Task) {
	FormatSection(w, CurrentHeader, "", current, NoCurrentTasks)
	FormatSection(w, CompletedHeader, CompletedRefPrefix, completed, NoCompletedTasks)
}

// FormatSection prints a header and the numbered tasks, or the empty text.
func FormatSection(w io.Writer, header, refPrefix string, tasks []service.Task, empty string) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, SectionSeparator)
	if len(tasks) == 0 {
		fmt.Fprintf(w, "      %s\n", empty)
		return
	}
	for i, task := range tasks {
		FormatTask(w, fmt.Sprintf("%s%d", refPrefix, i+1), task)
	}
}

// FormatTask formats a task line and, when present, its description.
// Format: "{REF:>4}  {TITLE}\n" then "      {DESCRIPTION}\n"
func FormatTask(w io.Writer, ref string, task service.Task) {
	fmt.Fprintf(w, "%4s  %s\n", ref, normalizeTitle(task.Title))
	if desc := normalizeLine(task.Description); desc != "" {
		fmt.Fprintf(w, "      %s\n", desc)
	}
}

// FormatNotice prints a settled-operation notice.
// Errors print as "error: {MESSAGE}", everything else as "{TITLE}: {MESSAGE}".
func FormatNotice(w io.Writer, n tasksync.Notice) {
	if n.Severity == tasksync.SeverityError {
		fmt.Fprintf(w, "error: %s\n", n.Message)
		return
	}
	fmt.Fprintf(w, "%s: %s\n", n.Title, n.Message)
}

// normalizeTitle normalizes a task title for display.
// Empty or whitespace-only titles become "(untitled)".
func normalizeTitle(title string) string {
	title = normalizeLine(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

// normalizeLine replaces newlines with spaces and trims.
func normalizeLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
