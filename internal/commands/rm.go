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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete tasks" }
func (c *RmCmd) Usage() string      { return "todo rm [--yes] <ref...>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	c.yes = false
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, store *tasksync.Store, args []string, out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !c.yes && cfg.In == nil {
		fmt.Fprintln(errOut, "error: confirmation required (use --yes)")
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

	if !c.yes {
		reader := lineReader(cfg.In)
		var confirmed []service.Task
		for _, t := range tasks {
			ok, err := confirm(reader, out, fmt.Sprintf("Delete %q?", t.Title))
			if err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
				return exitcode.UserError
			}
			if ok {
				confirmed = append(confirmed, t)
			}
		}
		tasks = confirmed
	}

	var g errgroup.Group
	for _, t := range tasks {
		g.Go(func() error {
			return store.Delete(ctx, t.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return failure(errOut, err)
	}
	return exitcode.Success
}
