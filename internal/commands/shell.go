package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/f4lconet/TodoList/internal/config"
	"github.com/f4lconet/TodoList/internal/exitcode"
	"github.com/f4lconet/TodoList/internal/tasksync"
)

// ShellPrompt is printed before each line is read.
const ShellPrompt = "todo> "

func init() {
	Register(&ShellCmd{registry: DefaultRegistry})
}

// ShellCmd implements the interactive shell.
// Every prompt counts as the user coming back to the board, so the
// collection is refetched before it is shown.
type ShellCmd struct {
	registry *Registry
}

// NewShellCmd creates a shell dispatching to the commands in r.
func NewShellCmd(r *Registry) *ShellCmd {
	return &ShellCmd{registry: r}
}

func (c *ShellCmd) Name() string                  { return "shell" }
func (c *ShellCmd) Aliases() []string             { return nil }
func (c *ShellCmd) Synopsis() string              { return "Run commands interactively" }
func (c *ShellCmd) Usage() string                 { return "todo shell [common flags]" }
func (c *ShellCmd) NeedsBackend() bool            { return true }
func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, store *tasksync.Store, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if cfg.In == nil {
		fmt.Fprintln(errOut, "error: shell needs an input stream")
		return exitcode.UserError
	}
	reader := lineReader(cfg.In)

	for {
		if ctx.Err() != nil {
			return exitcode.Success
		}

		// Failures are reported by the subscriber; the prompt still shows.
		stop := watch(store, cfg, out, errOut)
		_ = store.Focus(ctx)
		stop()

		fmt.Fprint(out, ShellPrompt)
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			fmt.Fprintln(out)
			return exitcode.Success
		}

		words, err := SplitLine(line)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}
		if len(words) == 0 {
			continue
		}

		name := words[0]
		if name == "exit" || name == "quit" {
			return exitcode.Success
		}
		cmd, ok := c.registry.Find(name)
		if !ok || strings.HasPrefix(name, "-") {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
			continue
		}
		if cmd.Name() == c.Name() {
			fmt.Fprintln(errOut, "error: already in shell")
			continue
		}

		positional, ok := ParseArgs(cmd, words[1:], errOut, nil)
		if !ok {
			continue
		}
		var st *tasksync.Store
		if cmd.NeedsBackend() {
			st = store
		}
		cmd.Run(ctx, cfg, st, positional, out, errOut)
	}
}
