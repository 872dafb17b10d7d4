package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/f4lconet/TodoList/internal/config"
	"github.com/f4lconet/TodoList/internal/exitcode"
	"github.com/f4lconet/TodoList/internal/service"
	"github.com/f4lconet/TodoList/internal/tasksync"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoCmd{})
	Register(&ToggleCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string                  { return "done" }
func (c *DoneCmd) Aliases() []string             { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string              { return "Mark tasks completed" }
func (c *DoneCmd) Usage() string                 { return "todo done <ref...>" }
func (c *DoneCmd) NeedsBackend() bool            { return true }
func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, store *tasksync.Store, args []string, out, errOut io.Writer) int {
	return runStatus(ctx, cfg, store, args, out, errOut, func(service.Task) service.Status {
		return service.StatusCompleted
	})
}

// UndoCmd implements the undo command.
type UndoCmd struct{}

func (c *UndoCmd) Name() string                  { return "undo" }
func (c *UndoCmd) Aliases() []string             { return []string{"reopen"} }
func (c *UndoCmd) Synopsis() string              { return "Move tasks back to current" }
func (c *UndoCmd) Usage() string                 { return "todo undo <ref...>" }
func (c *UndoCmd) NeedsBackend() bool            { return true }
func (c *UndoCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoCmd) Run(ctx context.Context, cfg *config.Config, store *tasksync.Store, args []string, out, errOut io.Writer) int {
	return runStatus(ctx, cfg, store, args, out, errOut, func(service.Task) service.Status {
		return service.StatusCurrent
	})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string                  { return "toggle" }
func (c *ToggleCmd) Aliases() []string             { return nil }
func (c *ToggleCmd) Synopsis() string              { return "Flip the status of tasks" }
func (c *ToggleCmd) Usage() string                 { return "todo toggle <ref...>" }
func (c *ToggleCmd) NeedsBackend() bool            { return true }
func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, store *tasksync.Store, args []string, out, errOut io.Writer) int {
	return runStatus(ctx, cfg, store, args, out, errOut, func(t service.Task) service.Status {
		return t.Status.Toggle()
	})
}

// runStatus is the shared implementation for done, undo and toggle.
// All refs are resolved against one snapshot before any request is sent,
// then every status change runs concurrently.
func runStatus(ctx context.Context, cfg *config.Config, store *tasksync.Store, args []string, out, errOut io.Writer, target func(service.Task) service.Status) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	defer watch(store, cfg, out, errOut)()

	if err := ensureLoaded(ctx, store); err != nil {
		return failure(errOut, err)
	}
	tasks, err := resolveTaskRefs(store, refs)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var g errgroup.Group
	for _, t := range tasks {
		status := target(t)
		if status == t.Status {
			continue
		}
		g.Go(func() error {
			_, err := store.SetStatus(ctx, t.ID, status)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return failure(errOut, err)
	}
	return exitcode.Success
}
