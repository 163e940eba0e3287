package venv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	errs "github.com/matzehuels/devinventory/pkg/errors"
	"github.com/matzehuels/devinventory/pkg/probe/probetest"
)

// fakeEnv lays out an environment directory with an interpreter file.
func fakeEnv(t *testing.T, root, name string) string {
	t.Helper()
	path := filepath.Join(root, name)
	python := Interpreter(path)
	if err := os.MkdirAll(filepath.Dir(python), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(python, nil, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "pyvenv.cfg"), []byte("home = /usr/bin\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestList(t *testing.T) {
	root := t.TempDir()
	good := fakeEnv(t, root, "web")
	bad := fakeEnv(t, root, "data")
	if err := os.MkdirAll(filepath.Join(root, "notes"), 0o755); err != nil {
		t.Fatal(err)
	}

	runner := probetest.NewRunner(map[string]probetest.Response{
		Interpreter(good) + " --version": {Stdout: "Python 3.11.4\n"},
		Interpreter(bad) + " --version":  {ExitCode: 1},
	})
	envs, err := NewManager(root, "", runner).List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		status  string
		version string
	}{
		{name: "data", status: StatusError, version: "unknown"},
		{name: "notes", status: StatusError, version: "unknown"},
		{name: "web", status: StatusOK, version: "Python 3.11.4"},
	}
	if len(envs) != len(tests) {
		t.Fatalf("List() = %+v, want %d environments", envs, len(tests))
	}
	for i, tt := range tests {
		got := envs[i]
		if got.Name != tt.name || got.Status != tt.status || got.Version != tt.version {
			t.Errorf("envs[%d] = %+v, want %s %s %s", i, got, tt.name, tt.status, tt.version)
		}
		if got.Path != filepath.Join(root, tt.name) {
			t.Errorf("envs[%d].Path = %q", i, got.Path)
		}
	}
	if calls := runner.Calls(); len(calls) != 2 {
		t.Errorf("ran %v, want only the two interpreters", calls)
	}
}

func TestListMissingRoot(t *testing.T) {
	envs, err := NewManager(filepath.Join(t.TempDir(), "none"), "", probetest.NewRunner(nil)).List(context.Background())
	if err != nil || len(envs) != 0 {
		t.Errorf("List() = %v, %v", envs, err)
	}
}

func TestCreate(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "api")
	runner := probetest.NewRunner(map[string]probetest.Response{
		"python3 -m venv " + path:        {},
		Interpreter(path) + " --version": {Stdout: "Python 3.12.1"},
	})
	m := NewManager(root, "python3", runner)

	env, err := m.Create(context.Background(), "api")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if env.Path != path || env.Name != "api" {
		t.Errorf("Create() = %+v", env)
	}
}

func TestCreateErrors(t *testing.T) {
	root := t.TempDir()
	fakeEnv(t, root, "taken")
	fail := filepath.Join(root, "fail")
	runner := probetest.NewRunner(map[string]probetest.Response{
		"python3 -m venv " + fail: {ExitCode: 1, Stderr: "ensurepip is not available"},
	})
	m := NewManager(root, "python3", runner)
	ctx := context.Background()

	tests := []struct {
		name string
		env  string
		code errs.Code
	}{
		{"exists", "taken", errs.ErrCodeExists},
		{"traversal", "../escape", errs.ErrCodeInvalidName},
		{"separator", "a/b", errs.ErrCodeInvalidName},
		{"empty", "", errs.ErrCodeInvalidName},
		{"tool fails", "fail", errs.ErrCodeToolFailed},
		{"python missing", "other", errs.ErrCodeToolNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Create(ctx, tt.env); !errs.Is(err, tt.code) {
				t.Errorf("Create(%q) error = %v, want %s", tt.env, err, tt.code)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	path := fakeEnv(t, root, "old")
	if err := os.MkdirAll(filepath.Join(root, "plain"), 0o755); err != nil {
		t.Fatal(err)
	}
	m := NewManager(root, "", probetest.NewRunner(nil))

	if err := m.Remove("old"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("environment still present")
	}
	if err := m.Remove("old"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("Remove(old) again error = %v", err)
	}
	if err := m.Remove("plain"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Remove(plain) error = %v", err)
	}
	if err := m.Remove(".."); !errs.Is(err, errs.ErrCodeInvalidName) {
		t.Errorf("Remove(..) error = %v", err)
	}
}
