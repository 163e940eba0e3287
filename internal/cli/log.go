// Package cli implements the devinventory command-line interface.
//
// Commands cover the inventory modes (collect, list, export), the
// dependency graph, the package diagnostic scan, the live resource
// monitor, virtual environment management and the metadata cache. The
// CLI is built with cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - collect: Write spreadsheets for one mode or all of them
//   - list: Print one inventory table to the terminal
//   - export: Write packages, languages and frameworks as JSON or YAML
//   - graph: Draw the installed package dependency graph
//   - scan: Run `pip show` for every package and report diagnostics
//   - monitor: Watch CPU, memory and disk usage
//   - venv: List, create and remove virtual environments
//   - cache: Manage the package metadata cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps that filters
// messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation together with its elapsed time.
// It is meant for sequential use by one goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Collected 42 packages (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a copy of ctx carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
