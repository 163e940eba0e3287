// Package probetest provides a scripted probe.Runner for tests.
package probetest

import (
	"context"
	"strings"
	"sync"

	errs "github.com/matzehuels/devinventory/pkg/errors"
	"github.com/matzehuels/devinventory/pkg/probe"
)

// Response is the scripted outcome for one command line.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Runner answers commands from a table keyed by the space-joined argv.
// Commands without an entry behave like a missing executable.
// Runner is safe for concurrent use.
type Runner struct {
	Responses map[string]Response

	mu    sync.Mutex
	calls []string
}

var _ probe.Runner = (*Runner)(nil)

// NewRunner creates a Runner with the given responses.
func NewRunner(responses map[string]Response) *Runner {
	return &Runner{Responses: responses}
}

// Run implements probe.Runner.
func (r *Runner) Run(ctx context.Context, argv []string) (probe.Output, error) {
	key := strings.Join(argv, " ")

	r.mu.Lock()
	r.calls = append(r.calls, key)
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return probe.Output{ExitCode: -1}, err
	}

	resp, ok := r.Responses[key]
	if !ok {
		return probe.Output{ExitCode: -1}, errs.New(errs.ErrCodeToolNotFound, "%s is not installed", argv[0])
	}
	if resp.Err != nil {
		return probe.Output{ExitCode: -1}, resp.Err
	}
	return probe.Output{
		Stdout:   []byte(resp.Stdout),
		Stderr:   []byte(resp.Stderr),
		ExitCode: resp.ExitCode,
	}, nil
}

// Calls returns the command lines seen so far, in call order.
func (r *Runner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}
