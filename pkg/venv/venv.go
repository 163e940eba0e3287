// Package venv lists, creates and removes Python virtual environments
// under a single root directory.
package venv

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	errs "github.com/matzehuels/devinventory/pkg/errors"
	"github.com/matzehuels/devinventory/pkg/probe"
)

// Defaults.
const (
	DefaultRoot   = "venvs"
	DefaultPython = "python3"
)

// Environment status values.
const (
	StatusOK    = "ok"
	StatusError = "error"

	unknownVersion = "unknown"
)

// Env is one virtual environment.
type Env struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Path    string `json:"path"`
	Status  string `json:"status"`
}

// Manager manages environments under Root.
type Manager struct {
	Root   string
	Python string // interpreter used to create environments
	Runner probe.Runner
}

// NewManager returns a Manager with defaults for empty fields.
func NewManager(root, python string, r probe.Runner) *Manager {
	if root == "" {
		root = DefaultRoot
	}
	if python == "" {
		python = DefaultPython
	}
	return &Manager{Root: root, Python: python, Runner: r}
}

// Path returns the directory of the named environment.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.Root, name)
}

// Interpreter returns the python executable inside an environment.
func Interpreter(envPath string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envPath, "Scripts", "python.exe")
	}
	return filepath.Join(envPath, "bin", "python")
}

// List returns the environments under Root sorted by name. Directories
// without an interpreter are listed as broken with [StatusError] and are
// not executed. A missing root yields an empty list.
func (m *Manager) List(ctx context.Context) ([]Env, error) {
	entries, err := os.ReadDir(m.Root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "read %s", m.Root)
	}

	var envs []Env
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := m.Path(e.Name())
		python := Interpreter(path)
		if _, err := os.Stat(python); err != nil {
			envs = append(envs, Env{Name: e.Name(), Path: path, Version: unknownVersion, Status: StatusError})
			continue
		}
		envs = append(envs, m.inspect(ctx, e.Name(), path, python))
	}
	sort.Slice(envs, func(i, j int) bool { return envs[i].Name < envs[j].Name })
	return envs, nil
}

func (m *Manager) inspect(ctx context.Context, name, path, python string) Env {
	env := Env{Name: name, Path: path, Version: unknownVersion, Status: StatusError}
	out, err := m.Runner.Run(ctx, []string{python, "--version"})
	if err != nil || out.ExitCode != 0 {
		return env
	}
	// Interpreters before 3.4 print the version on stderr.
	v := strings.TrimSpace(string(out.Stdout))
	if v == "" {
		v = strings.TrimSpace(string(out.Stderr))
	}
	if v != "" {
		env.Version = v
		env.Status = StatusOK
	}
	return env
}

// Create makes a new environment with `<python> -m venv`.
func (m *Manager) Create(ctx context.Context, name string) (Env, error) {
	if err := errs.ValidateName("environment", name); err != nil {
		return Env{}, err
	}
	path := m.Path(name)
	if _, err := os.Stat(path); err == nil {
		return Env{}, errs.New(errs.ErrCodeExists, "environment %q already exists at %s", name, path)
	}
	if err := os.MkdirAll(m.Root, 0o755); err != nil {
		return Env{}, errs.Wrap(errs.ErrCodeInternal, err, "create %s", m.Root)
	}

	out, err := m.Runner.Run(ctx, []string{m.Python, "-m", "venv", path})
	if err != nil {
		return Env{}, err
	}
	if out.ExitCode != 0 {
		return Env{}, errs.New(errs.ErrCodeToolFailed, "%s -m venv exited %d: %s",
			m.Python, out.ExitCode, strings.TrimSpace(string(out.Stderr)))
	}
	return m.inspect(ctx, name, path, Interpreter(path)), nil
}

// Remove deletes an environment. The directory must contain pyvenv.cfg so
// that an arbitrary directory under Root is never removed by mistake.
func (m *Manager) Remove(name string) error {
	if err := errs.ValidateName("environment", name); err != nil {
		return err
	}
	path := m.Path(name)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return errs.New(errs.ErrCodeNotFound, "environment %q not found", name)
	}
	if _, err := os.Stat(filepath.Join(path, "pyvenv.cfg")); err != nil {
		return errs.New(errs.ErrCodeInvalidInput, "%s is not a virtual environment (no pyvenv.cfg)", path)
	}
	if err := os.RemoveAll(path); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "remove %s", path)
	}
	return nil
}
