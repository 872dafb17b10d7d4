package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/f4lconet/TodoList/internal/config"
	"github.com/f4lconet/TodoList/internal/exitcode"
	"github.com/f4lconet/TodoList/internal/tasksync"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "todo add [--description <text>] <title...>" }
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.description = ""
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, store *tasksync.Store, args []string, out, errOut io.Writer) int {
	// Join args to form title
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	defer watch(store, cfg, out, errOut)()

	if _, err := store.Create(ctx, tasksync.Draft{Title: title, Description: c.description}); err != nil {
		return failure(errOut, err)
	}
	return exitcode.Success
}
