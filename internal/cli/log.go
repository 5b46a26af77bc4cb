// Package cli implements the webcollage command-line interface.
//
// This package provides the montage command that builds a collage from a
// catalog and a screenshot directory, the inspect command that reports on a
// catalog without writing anything, and commands to manage the block cache.
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - montage: Order, match, lay out and composite screenshots
//   - inspect: Print catalog, ordering and matching statistics
//   - cache: Manage the block resume cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Lines carry a centisecond clock
// ("14:32:01.45") so block completions of a long montage can be timed.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one pipeline step. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time rounded to the
// millisecond, e.g. "Matched 1,204 screenshots (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for the command's RunE.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
