package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	errs "github.com/matzehuels/devinventory/pkg/errors"
	"github.com/matzehuels/devinventory/pkg/observability"
)

// Defaults.
const (
	DefaultDir         = "results"
	DefaultLockTimeout = 10 * time.Second
	LockFile           = ".devinventory.lock"

	lockRetryDelay = 50 * time.Millisecond
)

// Exporter writes report artifacts into a directory.
type Exporter struct {
	Dir         string        // output directory; created if missing
	Workbook    string        // single-workbook file name; empty writes one file per category
	LockTimeout time.Duration // bounded wait for the advisory lock
	Logger      *log.Logger
}

// NewExporter returns an Exporter for dir with default settings.
func NewExporter(dir string, logger *log.Logger) *Exporter {
	return &Exporter{Dir: dir, LockTimeout: DefaultLockTimeout, Logger: logger}
}

func (e *Exporter) dir() string {
	if e.Dir == "" {
		return DefaultDir
	}
	return e.Dir
}

func (e *Exporter) logger() *log.Logger {
	if e.Logger == nil {
		return log.New(io.Discard)
	}
	return e.Logger
}

// withLock runs fn while holding the directory's advisory lock.
func (e *Exporter) withLock(ctx context.Context, fn func() error) error {
	dir := e.dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeExport, err, "create output directory %s", dir)
	}

	timeout := e.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path := filepath.Join(dir, LockFile)
	fl := flock.New(path)
	locked, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errs.Wrap(errs.ErrCodeLocked, err, "acquire %s", path)
	}
	if !locked {
		return errs.New(errs.ErrCodeLocked, "another export holds %s (waited %s)", path, timeout)
	}
	defer func() {
		if err := fl.Unlock(); err != nil {
			e.logger().Warn("release export lock", "path", path, "error", err)
		}
	}()

	e.logger().Debug("export lock acquired", "path", path)
	return fn()
}

// writeAtomic writes name in the output directory through a temporary
// file renamed into place. The caller must hold the lock.
func (e *Exporter) writeAtomic(name string, write func(io.Writer) error) (string, error) {
	dir := e.dir()
	final := filepath.Join(dir, name)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", name, uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeExport, err, "create %s", tmp)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", errs.Wrap(errs.ErrCodeExport, err, "write %s", name)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", errs.Wrap(errs.ErrCodeExport, err, "write %s", name)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", errs.Wrap(errs.ErrCodeExport, err, "rename into %s", final)
	}
	return final, nil
}

func (e *Exporter) track(ctx context.Context, format, path string, start time.Time, err error) {
	observability.Pipeline().OnExportComplete(ctx, format, path, time.Since(start), err)
	if err == nil {
		e.logger().Debug("exported", "format", format, "path", path, "elapsed", time.Since(start))
	}
}

// WriteFile writes name into the output directory under the export lock.
// format labels the write for observability hooks.
func (e *Exporter) WriteFile(ctx context.Context, format, name string, write func(io.Writer) error) (string, error) {
	var path string
	err := e.withLock(ctx, func() error {
		start := time.Now()
		p, err := e.writeAtomic(name, write)
		e.track(ctx, format, p, start, err)
		path = p
		return err
	})
	return path, err
}
