package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/f4lconet/TodoList/internal/config"
	"github.com/f4lconet/TodoList/internal/exitcode"
	"github.com/f4lconet/TodoList/internal/tasksync"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
// Fields without a flag keep their cached values.
type EditCmd struct {
	title       *string
	description *string
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Change a task's title or description" }
func (c *EditCmd) Usage() string      { return "todo edit [--title <title>] [--description <text>] <ref>" }
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.description = nil, nil
	setTitle := func(v string) error { c.title = &v; return nil }
	setDesc := func(v string) error { c.description = &v; return nil }
	fs.Func("title", "", setTitle)
	fs.Func("t", "", setTitle)
	fs.Func("description", "", setDesc)
	fs.Func("d", "", setDesc)
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, store *tasksync.Store, args []string, out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if len(refs) > 1 {
		fmt.Fprintln(errOut, "error: edit takes exactly one task reference")
		return exitcode.UserError
	}
	if c.title == nil && c.description == nil {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --description)")
		return exitcode.UserError
	}

	defer watch(store, cfg, out, errOut)()

	if err := ensureLoaded(ctx, store); err != nil {
		return failure(errOut, err)
	}
	task, err := ResolveTaskRef(store, refs[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	draft := tasksync.Draft{Title: task.Title, Description: task.Description}
	if c.title != nil {
		draft.Title = *c.title
	}
	if c.description != nil {
		draft.Description = *c.description
	}

	if _, err := store.Update(ctx, task.ID, draft); err != nil {
		return failure(errOut, err)
	}
	return exitcode.Success
}
