package commands

import (
	"context"
	"testing"

	"github.com/f4lconet/TodoList/internal/logging"
	"github.com/f4lconet/TodoList/internal/service"
	"github.com/f4lconet/TodoList/internal/tasksync"
	"github.com/f4lconet/TodoList/internal/testutil"
)

func TestParseTaskRef_Numeric(t *testing.T) {
	ref, err := ParseTaskRef("5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Completed {
		t.Error("expected Completed to be false")
	}
	if ref.Num != 5 {
		t.Errorf("expected Num 5, got %d", ref.Num)
	}
}

func TestParseTaskRef_Completed(t *testing.T) {
	ref, err := ParseTaskRef("c12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.Completed {
		t.Error("expected Completed to be true")
	}
	if ref.Num != 12 {
		t.Errorf("expected Num 12, got %d", ref.Num)
	}
	if ref.String() != "c12" {
		t.Errorf("expected String c12, got %q", ref.String())
	}
}

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef("id:1718000000000abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != "1718000000000abc" {
		t.Errorf("expected ID 1718000000000abc, got %q", ref.ID)
	}
}

func TestParseTaskRef_Invalid(t *testing.T) {
	tests := []string{"c", "id:", "a1", "1a", "-1", "c-2", "１"}
	for _, arg := range tests {
		_, err := ParseTaskRef(arg)
		if err == nil {
			t.Errorf("%q: expected error", arg)
			continue
		}
		want := "invalid task reference: " + arg
		if err.Error() != want {
			t.Errorf("%q: expected %q, got %q", arg, want, err.Error())
		}
	}
}

func TestParseTaskRef_Empty(t *testing.T) {
	if _, err := ParseTaskRef("  "); err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRefs(t *testing.T) {
	if _, err := ParseTaskRefs(nil); err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}

	refs, err := ParseTaskRefs([]string{"1", "c2", "id:x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 3 {
		t.Fatalf("expected 3 refs, got %d", len(refs))
	}

	if _, err := ParseTaskRefs([]string{"1", "zz"}); err == nil {
		t.Error("expected error when any ref is invalid")
	}
}

func loadedStore(t *testing.T) *tasksync.Store {
	t.Helper()
	svc := testutil.NewFakeService(
		service.Task{ID: "a", Title: "First", Status: service.StatusCurrent},
		service.Task{ID: "b", Title: "Done one", Status: service.StatusCompleted},
		service.Task{ID: "c", Title: "Second", Status: service.StatusCurrent},
	)
	store := tasksync.New(svc, logging.Discard())
	t.Cleanup(store.Close)
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	return store
}

func TestResolveTaskRef(t *testing.T) {
	store := loadedStore(t)

	tests := []struct {
		ref  TaskRef
		want string
	}{
		{TaskRef{Num: 1}, "a"},
		{TaskRef{Num: 2}, "c"},
		{TaskRef{Completed: true, Num: 1}, "b"},
		{TaskRef{ID: "c"}, "c"},
	}
	for _, tt := range tests {
		task, err := ResolveTaskRef(store, tt.ref)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.ref, err)
			continue
		}
		if task.ID != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.ref, tt.want, task.ID)
		}
	}
}

func TestResolveTaskRef_Errors(t *testing.T) {
	store := loadedStore(t)

	tests := []struct {
		ref  TaskRef
		want string
	}{
		{TaskRef{Num: 0}, "task number out of range: 0"},
		{TaskRef{Num: 3}, "task number out of range: 3"},
		{TaskRef{Completed: true, Num: 2}, "task number out of range: c2"},
		{TaskRef{ID: "zz"}, "task not found: zz"},
	}
	for _, tt := range tests {
		_, err := ResolveTaskRef(store, tt.ref)
		if err == nil {
			t.Errorf("%s: expected error", tt.ref)
			continue
		}
		if err.Error() != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.ref, tt.want, err.Error())
		}
	}
}

func TestResolveTaskRefs_DropsDuplicates(t *testing.T) {
	store := loadedStore(t)

	tasks, err := resolveTaskRefs(store, []TaskRef{{Num: 1}, {ID: "a"}, {Completed: true, Num: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "a" || tasks[1].ID != "b" {
		t.Errorf("expected [a b], got %+v", tasks)
	}
}
