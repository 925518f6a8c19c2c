// Package cli implements the jsonscope command-line interface.
//
// The commands wrap the document pipeline: graph renders a document's view,
// diff and search print focus paths and matches, edit and format rewrite
// documents, watch follows a file as it changes, explore opens the
// interactive node list and serve runs the HTTP API. The CLI is built using
// cobra and logs with charmbracelet/log.
//
// # Configuration
//
// Settings are read from a TOML file (--config, default
// ~/.config/jsonscope/config.toml). Missing keys keep their defaults.
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

// newLogger creates the command logger: timestamps as "15:04:05.00", level
// filtered, written to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// quietLogger discards everything. Full-screen commands hand it to the
// pipeline so log lines do not tear the terminal.
func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// levelFor picks the effective level: --verbose forces debug, otherwise the
// configured level applies.
func levelFor(configured log.Level, verbose bool) log.Level {
	if verbose {
		return log.DebugLevel
	}
	return configured
}

// progress logs the completion of one step with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and an "elapsed" field rounded to
// the millisecond, e.g. `built graph nodes=42 depth=3 elapsed=12ms`.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
