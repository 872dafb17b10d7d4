package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/f4lconet/TodoList/internal/config"
	"github.com/f4lconet/TodoList/internal/exitcode"
	"github.com/f4lconet/TodoList/internal/output"
	"github.com/f4lconet/TodoList/internal/tasksync"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct{}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List current and completed tasks" }
func (c *ListCmd) Usage() string      { return "todo list [common flags]" }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, store *tasksync.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	defer watch(store, cfg, out, errOut)()

	// Listing always reloads; numbers printed here are what refs resolve against.
	if err := store.Fetch(ctx); err != nil {
		return failure(errOut, err)
	}

	output.FormatBoard(out, store.Current(), store.Completed())
	return exitcode.Success
}
