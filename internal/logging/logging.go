// Package logging builds the kratos loggers used across the CLI.
package logging

import (
	"io"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/f4lconet/TodoList/internal/config"
)

// New returns a logger writing key/value lines to w.
// Only errors are written unless debug is set.
func New(w io.Writer, debug bool) log.Logger {
	logger := log.With(log.NewStdLogger(w),
		"ts", log.Timestamp(time.DateTime),
		"app", config.AppName,
	)
	level := log.LevelError
	if debug {
		level = log.LevelDebug
	}
	return log.NewFilter(logger, log.FilterLevel(level))
}

// Discard returns a logger that drops everything.
func Discard() log.Logger {
	return log.NewStdLogger(io.Discard)
}

// Module returns a helper tagged with the component name.
func Module(logger log.Logger, name string) *log.Helper {
	if logger == nil {
		logger = Discard()
	}
	return log.NewHelper(log.With(logger, "module", name))
}
