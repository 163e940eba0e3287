package probe

import (
	"context"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/devinventory/pkg/observability"
)

// NotFound is returned in place of a value whenever a probe cannot produce
// one.
const NotFound = "not found"

// Spec describes one version probe.
type Spec struct {
	Name    string   // Display name (e.g., "Node.js")
	Argv    []string // Command and arguments
	Pattern string   // Regular expression with exactly one capture group

	// Combined searches stdout followed by stderr. Some tools (java -version,
	// gcc -v) print their version banner on stderr.
	Combined bool
}

// Result is one row of a probe table.
type Result struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// Found reports whether the probe produced a value.
func (r Result) Found() bool { return r.Version != NotFound }

// Parser runs probes through a Runner.
type Parser struct {
	runner Runner
	logger *log.Logger
}

// NewParser creates a Parser. A nil logger discards debug output.
func NewParser(r Runner, logger *log.Logger) *Parser {
	if r == nil {
		r = ExecRunner{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Parser{runner: r, logger: logger}
}

// Version runs argv and returns the first capture group of pattern matched
// against stdout. It returns NotFound on any failure.
func (p *Parser) Version(ctx context.Context, argv []string, pattern string) string {
	return p.extract(ctx, argv, pattern, false)
}

// Probe runs a single Spec.
func (p *Parser) Probe(ctx context.Context, s Spec) Result {
	start := time.Now()
	v := p.extract(ctx, s.Argv, s.Pattern, s.Combined)
	observability.Probe().OnProbe(ctx, s.Name, v != NotFound, time.Since(start))
	return Result{Name: s.Name, Version: v}
}

// Collect runs every spec in order. Failures never abort the batch.
func (p *Parser) Collect(ctx context.Context, specs []Spec) []Result {
	out := make([]Result, 0, len(specs))
	for _, s := range specs {
		out = append(out, p.Probe(ctx, s))
	}
	return out
}

func (p *Parser) extract(ctx context.Context, argv []string, pattern string, combined bool) string {
	re, err := regexp.Compile(pattern)
	if err != nil || re.NumSubexp() != 1 {
		p.logger.Debug("invalid probe pattern", "pattern", pattern, "err", err)
		return NotFound
	}
	if len(argv) == 0 {
		return NotFound
	}

	out, err := p.runner.Run(ctx, argv)
	if err != nil {
		p.logger.Debug("probe failed", "cmd", argv[0], "err", err)
		return NotFound
	}
	if out.ExitCode != 0 {
		p.logger.Debug("probe exited non-zero", "cmd", argv[0], "code", out.ExitCode)
		return NotFound
	}

	text := strings.TrimSpace(string(out.Stdout))
	if combined {
		text = text + "\n" + strings.TrimSpace(string(out.Stderr))
	}
	return Match(re, text)
}

// Match returns the first capture group of re in text, or NotFound.
func Match(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return NotFound
	}
	return m[1]
}
