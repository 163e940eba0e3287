package scan

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/devinventory/pkg/inventory"
	"github.com/matzehuels/devinventory/pkg/probe/probetest"
)

func collect(ch <-chan Event) []Event {
	var out []Event
	for e := range ch {
		out = append(out, e)
	}
	return out
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestScan(t *testing.T) {
	runner := probetest.NewRunner(map[string]probetest.Response{
		"pip show numpy":  {Stdout: "Name: numpy\n"},
		"pip show legacy": {Stdout: "Name: legacy\n", Stderr: "WARNING: legacy metadata\n"},
		"pip show broken": {ExitCode: 1, Stderr: "ERROR: invalid distribution"},
	})
	pkgs := []inventory.Package{{Name: "numpy"}, {Name: "legacy"}, {Name: "broken"}, {Name: "ghost"}}

	events := collect(NewScanner(runner, "", nil).Scan(context.Background(), pkgs))

	want := []EventKind{
		EventProgress,
		EventProgress, EventFinding,
		EventProgress, EventFinding,
		EventProgress, EventFailure,
		EventDone,
	}
	if got := kinds(events); !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}

	findings := Findings(events)
	if len(findings) != 2 || findings[0].Package != "legacy" || findings[0].Message != "WARNING: legacy metadata" {
		t.Errorf("findings = %+v", findings)
	}
	if events[6].Package != "ghost" || events[6].Index != 4 || events[6].Total != 4 {
		t.Errorf("failure event = %+v", events[6])
	}
}

func TestScanStops(t *testing.T) {
	runner := probetest.NewRunner(map[string]probetest.Response{
		"pip show a": {}, "pip show b": {}, "pip show c": {},
	})
	ctx, cancel := context.WithCancel(context.Background())
	ch := NewScanner(runner, "pip", nil).Scan(ctx, []inventory.Package{{Name: "a"}, {Name: "b"}, {Name: "c"}})

	first := <-ch
	if first.Kind != EventProgress || first.Package != "a" {
		t.Fatalf("first event = %+v", first)
	}
	cancel()

	rest := collect(ch)
	last := rest[len(rest)-1]
	if last.Kind != EventStopped && last.Kind != EventDone {
		t.Fatalf("last event = %v", last.Kind)
	}
	if last.Kind == EventStopped && len(runner.Calls()) == 3 {
		t.Error("stopped scan should not check every package")
	}
}

func TestScanCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := probetest.NewRunner(nil)

	events := collect(NewScanner(runner, "pip", nil).Scan(ctx, []inventory.Package{{Name: "a"}}))
	if got := kinds(events); !reflect.DeepEqual(got, []EventKind{EventStopped}) {
		t.Errorf("kinds = %v", got)
	}
	if len(runner.Calls()) != 0 {
		t.Errorf("runner called %d times", len(runner.Calls()))
	}
}

func TestWriteReport(t *testing.T) {
	events := []Event{
		{Kind: EventProgress, Index: 1, Total: 1, Package: "legacy"},
		{Kind: EventFinding, Index: 1, Total: 1, Package: "legacy", Message: "WARNING: x"},
		{Kind: EventDone, Index: 1, Total: 1},
	}
	var buf bytes.Buffer
	if err := WriteReport(&buf, events); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"[1/1] checking legacy...", "warning: legacy may have problems\nWARNING: x", "Check complete."} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestReportName(t *testing.T) {
	ts := time.Date(2024, 12, 31, 23, 59, 1, 0, time.UTC)
	if got := ReportName(ts); got != "security_check_20241231_235901.txt" {
		t.Errorf("ReportName() = %q", got)
	}
}
