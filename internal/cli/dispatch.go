// Package cli parses the command line and runs commands against a backend.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/f4lconet/TodoList/internal/backend/googletasks"
	"github.com/f4lconet/TodoList/internal/backend/rest"
	"github.com/f4lconet/TodoList/internal/commands"
	"github.com/f4lconet/TodoList/internal/config"
	"github.com/f4lconet/TodoList/internal/exitcode"
	"github.com/f4lconet/TodoList/internal/logging"
	"github.com/f4lconet/TodoList/internal/service"
	"github.com/f4lconet/TodoList/internal/tasksync"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger log.Logger) (service.Service, error)

// NewService builds the backend selected by cfg.Backend.
func NewService(ctx context.Context, cfg *config.Config, logger log.Logger) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendGoogleTasks:
		return googletasks.New(ctx, cfg, logger)
	case config.BackendREST:
		return rest.New(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// in feeds confirmation prompts and the shell; nil disables both.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	name := "list"
	var cmdArgs []string
	if len(args) > 0 {
		name, cmdArgs = args[0], args[1:]
	}

	// Flags require a command
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, cmdArgs, in, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	baseURL   string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.StringVar(&f.baseURL, "base-url", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, in io.Reader, out, errOut io.Writer) int {
	var common commonFlags
	positional, ok := commands.ParseArgs(cmd, args, errOut, common.register)
	if !ok {
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	if common.baseURL != "" {
		cfg.BaseURL = common.baseURL
	}
	if in != nil {
		cfg.In = bufio.NewReader(in)
	}

	logger := logging.New(errOut, cfg.Debug)
	logging.Module(logger, "cli").Debugw("msg", "dispatch", "command", cmd.Name(), "backend", cfg.Backend, "config", cfg.Dir)

	if !cmd.NeedsBackend() {
		return cmd.Run(ctx, cfg, nil, positional, out, errOut)
	}

	svc, err := d.factory(ctx, cfg, logger)
	if err != nil {
		if errors.Is(err, config.ErrAuth) {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.AuthError
		}
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	store := tasksync.New(svc, logger)
	defer store.Close()

	return cmd.Run(ctx, cfg, store, positional, out, errOut)
}
