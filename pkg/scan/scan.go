// Package scan runs a per-package diagnostic pass over an inventory.
//
// For each installed package the scanner asks the package manager to show
// it and flags any package whose diagnostics mention WARNING or ERROR. The
// scan runs in one goroutine and reports through a channel of [Event]s;
// the consumer is the only writer to whatever sink (terminal, report file)
// the events end up in.
package scan

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/devinventory/pkg/inventory"
	"github.com/matzehuels/devinventory/pkg/probe"
)

// EventKind classifies scan events.
type EventKind int

// Event kinds.
const (
	EventProgress EventKind = iota // a package is about to be checked
	EventFinding                   // a package reported diagnostics
	EventFailure                   // a package could not be checked
	EventDone                      // every package was checked
	EventStopped                   // the scan was stopped early
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventFinding:
		return "finding"
	case EventFailure:
		return "failure"
	case EventDone:
		return "done"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is one step of a scan.
type Event struct {
	Kind    EventKind
	Index   int // 1-based position of Package
	Total   int
	Package string
	Message string
}

// Finding is a package with suspicious diagnostics.
type Finding struct {
	Package string
	Message string
}

// Findings extracts the findings from events.
func Findings(events []Event) []Finding {
	var out []Finding
	for _, e := range events {
		if e.Kind == EventFinding {
			out = append(out, Finding{Package: e.Package, Message: e.Message})
		}
	}
	return out
}

// Scanner checks packages with `<tool> show`.
type Scanner struct {
	Runner probe.Runner
	Tool   string
	Logger *log.Logger
}

// NewScanner returns a Scanner for tool (inventory.DefaultTool if empty).
func NewScanner(r probe.Runner, tool string, logger *log.Logger) *Scanner {
	if tool == "" {
		tool = inventory.DefaultTool
	}
	return &Scanner{Runner: r, Tool: tool, Logger: logger}
}

// Scan checks pkgs in order and returns the event stream.
//
// Cancellation of ctx is checked before each package; a check already
// running completes. The last event is EventDone or EventStopped, then the
// channel closes. The consumer must drain the channel.
func (s *Scanner) Scan(ctx context.Context, pkgs []inventory.Package) <-chan Event {
	out := make(chan Event, 16)
	go func() {
		defer close(out)
		logger := s.Logger
		if logger == nil {
			logger = log.New(io.Discard)
		}
		total := len(pkgs)

		for i, pkg := range pkgs {
			if ctx.Err() != nil {
				logger.Debug("scan stopped", "checked", i, "total", total)
				out <- Event{Kind: EventStopped, Index: i, Total: total}
				return
			}
			out <- Event{Kind: EventProgress, Index: i + 1, Total: total, Package: pkg.Name}
			if ev, ok := s.check(ctx, pkg.Name); ok {
				ev.Index, ev.Total = i+1, total
				out <- ev
			}
		}
		out <- Event{Kind: EventDone, Index: total, Total: total}
	}()
	return out
}

func (s *Scanner) check(ctx context.Context, name string) (Event, bool) {
	tool := s.Tool
	if tool == "" {
		tool = inventory.DefaultTool
	}
	res, err := s.Runner.Run(context.WithoutCancel(ctx), []string{tool, "show", name})
	if err != nil {
		return Event{Kind: EventFailure, Package: name, Message: err.Error()}, true
	}
	stderr := strings.TrimSpace(string(res.Stderr))
	if strings.Contains(stderr, "WARNING") || strings.Contains(stderr, "ERROR") {
		return Event{Kind: EventFinding, Package: name, Message: stderr}, true
	}
	return Event{}, false
}

// Line renders an event as a report line.
func (e Event) Line() string {
	switch e.Kind {
	case EventProgress:
		return fmt.Sprintf("[%d/%d] checking %s...", e.Index, e.Total, e.Package)
	case EventFinding:
		return fmt.Sprintf("warning: %s may have problems\n%s", e.Package, e.Message)
	case EventFailure:
		return fmt.Sprintf("error checking %s: %s", e.Package, e.Message)
	case EventDone:
		return "\nCheck complete."
	case EventStopped:
		return "\nCheck stopped."
	default:
		return ""
	}
}

// ReportName returns security_check_<YYYYMMDD_HHMMSS>.txt for t.
func ReportName(t time.Time) string {
	return "security_check_" + t.Format("20060102_150405") + ".txt"
}

// WriteReport writes events as the text report.
func WriteReport(w io.Writer, events []Event) error {
	if _, err := io.WriteString(w, "Starting package check...\n\n"); err != nil {
		return err
	}
	for _, e := range events {
		if _, err := io.WriteString(w, e.Line()+"\n"); err != nil {
			return err
		}
	}
	return nil
}
