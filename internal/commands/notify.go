package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/f4lconet/TodoList/internal/config"
	"github.com/f4lconet/TodoList/internal/exitcode"
	"github.com/f4lconet/TodoList/internal/output"
	"github.com/f4lconet/TodoList/internal/service"
	"github.com/f4lconet/TodoList/internal/tasksync"
)

// watch prints every settled outcome while a command runs.
// Returns the function that stops printing.
func watch(store *tasksync.Store, cfg *config.Config, out, errOut io.Writer) func() {
	var mu sync.Mutex
	return store.Subscribe(func(o tasksync.Outcome) {
		mu.Lock()
		defer mu.Unlock()
		if !o.OK() {
			output.FormatNotice(errOut, o.Notice)
			return
		}
		if !cfg.Quiet {
			output.FormatNotice(out, o.Notice)
		}
	})
}

// ensureLoaded fetches the collection unless the store already holds it.
func ensureLoaded(ctx context.Context, store *tasksync.Store) error {
	if store.Loaded() {
		return nil
	}
	return store.Fetch(ctx)
}

// failure reports err and returns its exit code.
// Backend errors were already reported through watch.
func failure(errOut io.Writer, err error) int {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		fmt.Fprintf(errOut, "error: %s\n", ve)
		return exitcode.UserError
	case service.IsBackend(err):
		return exitcode.BackendError
	case errors.Is(err, config.ErrAuth):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case service.IsNotFound(err):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// lineReader reuses a buffered reader so the shell and prompts share input.
func lineReader(in io.Reader) *bufio.Reader {
	if br, ok := in.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(in)
}

// confirm asks a yes/no question. Anything but y/yes is no.
func confirm(in *bufio.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
