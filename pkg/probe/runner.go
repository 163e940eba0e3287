package probe

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	errs "github.com/matzehuels/devinventory/pkg/errors"
	"github.com/matzehuels/devinventory/pkg/observability"
)

// DefaultTimeout bounds every external command started by [ExecRunner].
const DefaultTimeout = 30 * time.Second

// Output is the captured result of a finished command.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner starts external commands.
//
// Run returns an error only when the command could not be started or did not
// finish in time. A command that ran and exited non-zero is reported through
// Output.ExitCode with a nil error; callers decide what a failing exit means.
type Runner interface {
	Run(ctx context.Context, argv []string) (Output, error)
}

// ExecRunner runs commands with os/exec.
// The zero value is usable and applies [DefaultTimeout].
type ExecRunner struct {
	// Timeout is the per-command deadline. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Run starts argv[0] with the remaining arguments and waits for it.
//
// Returned errors carry errors.ErrCodeToolNotFound when the executable is
// missing and errors.ErrCodeTimeout when the deadline expired.
func (r ExecRunner) Run(ctx context.Context, argv []string) (Output, error) {
	if len(argv) == 0 {
		return Output{ExitCode: -1}, errs.New(errs.ErrCodeInvalidInput, "empty command")
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	out := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	err := classify(ctx, argv[0], runErr, &out)

	observability.Probe().OnCommand(ctx, argv[0], out.ExitCode, time.Since(start), err)
	return out, err
}

// classify maps an exec error onto an exit code and a coded error.
func classify(ctx context.Context, program string, runErr error, out *Output) error {
	if runErr == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		out.ExitCode = -1
		return errs.Wrap(errs.ErrCodeTimeout, runErr, "%s did not finish in time", program)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		out.ExitCode = -1
		return ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return nil
	}

	out.ExitCode = -1
	if errors.Is(runErr, exec.ErrNotFound) {
		return errs.Wrap(errs.ErrCodeToolNotFound, runErr, "%s is not installed", program)
	}
	return errs.Wrap(errs.ErrCodeToolFailed, runErr, "start %s", program)
}
