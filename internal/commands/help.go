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
	Register(&HelpCmd{registry: DefaultRegistry})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	registry *Registry
}

// NewHelpCmd creates a help command describing the commands in r.
func NewHelpCmd(r *Registry) *HelpCmd {
	return &HelpCmd{registry: r}
}

func (c *HelpCmd) Name() string                  { return "help" }
func (c *HelpCmd) Aliases() []string             { return nil }
func (c *HelpCmd) Synopsis() string              { return "Print usage" }
func (c *HelpCmd) Usage() string                 { return "todo help" }
func (c *HelpCmd) NeedsBackend() bool            { return false }
func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, store *tasksync.Store, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  todo")
	fmt.Fprintln(out, "      List current and completed tasks")
	for _, cmd := range c.registry.All() {
		fmt.Fprintf(out, "  %s\n", cmd.Usage())
		synopsis := cmd.Synopsis()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			synopsis += " (alias: " + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(out, "      %s\n", synopsis)
	}
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

const helpFooter = `
Task references:
  N         N-th current task as printed by list
  cN        N-th completed task
  id:<id>   task with the exact id

Common flags:
  --config <dir>     Override config directory
  --base-url <url>   REST backend base URL
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
