package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/f4lconet/TodoList/internal/output"
	"github.com/f4lconet/TodoList/internal/service"
	"github.com/f4lconet/TodoList/internal/tasksync"
)

// idRefPrefix marks an exact task id reference.
const idRefPrefix = "id:"

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Completed bool   // true for a cN reference into the completed section
	Num       int    // 1-based position within the section
	ID        string // set for id:<id> references; Num is then unused
}

func (r TaskRef) String() string {
	switch {
	case r.ID != "":
		return idRefPrefix + r.ID
	case r.Completed:
		return output.CompletedRefPrefix + strconv.Itoa(r.Num)
	default:
		return strconv.Itoa(r.Num)
	}
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses one task reference.
//
// Forms:
//  1. All digits (e.g., 3) -> N-th current task
//  2. c<digits> (e.g., c2) -> N-th completed task
//  3. id:<id> -> exact task id
//  4. Otherwise -> error: invalid task reference: <ref>
func ParseTaskRef(arg string) (TaskRef, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if strings.HasPrefix(arg, idRefPrefix) {
		id := strings.TrimPrefix(arg, idRefPrefix)
		if id == "" {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: id}, nil
	}

	completed := false
	digits := arg
	if strings.HasPrefix(arg, output.CompletedRefPrefix) {
		completed = true
		digits = strings.TrimPrefix(arg, output.CompletedRefPrefix)
	}
	if !isAllDigits(digits) {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	num, err := strconv.Atoi(digits)
	if err != nil {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	return TaskRef{Completed: completed, Num: num}, nil
}

// ParseTaskRefs parses every argument as a task reference.
func ParseTaskRefs(args []string) ([]TaskRef, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}
	refs := make([]TaskRef, 0, len(args))
	for _, a := range args {
		ref, err := ParseTaskRef(a)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ResolveTaskRef finds the cached task a reference points at.
// Numbers refer to the sections as last printed by list.
func ResolveTaskRef(store *tasksync.Store, ref TaskRef) (service.Task, error) {
	if ref.ID != "" {
		t, ok := store.Get(ref.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("task not found: %s", ref.ID)
		}
		return t, nil
	}

	section := store.Current()
	if ref.Completed {
		section = store.Completed()
	}
	if ref.Num < 1 || ref.Num > len(section) {
		return service.Task{}, fmt.Errorf("task number out of range: %s", ref)
	}
	return section[ref.Num-1], nil
}

// resolveTaskRefs resolves every reference, dropping duplicates.
func resolveTaskRefs(store *tasksync.Store, refs []TaskRef) ([]service.Task, error) {
	seen := make(map[string]bool)
	var out []service.Task
	for _, ref := range refs {
		t, err := ResolveTaskRef(store, ref)
		if err != nil {
			return nil, err
		}
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}
