package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	errs "github.com/matzehuels/devinventory/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Tool != "pip" || cfg.OutputDir != "results" || cfg.Requirements != "requirements.txt" {
		t.Errorf("Default() = %+v", cfg)
	}
	if cfg.Timeout.Std() != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout.Std())
	}
	if cfg.Graph.Spacing != 2.5 || cfg.Graph.Iterations != 150 || *cfg.Graph.Seed != 42 || cfg.Graph.Jobs != 8 {
		t.Errorf("Graph = %+v", cfg.Graph)
	}
	if cfg.Cache.Backend != "none" {
		t.Errorf("Cache.Backend = %q, want none", cfg.Cache.Backend)
	}
	if cfg.Monitor.Points != 30 || cfg.Monitor.Interval.Std() != time.Second {
		t.Errorf("Monitor = %+v", cfg.Monitor)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_REDIS_PW", "s3cret")
	path := writeConfig(t, `
tool = "pip3"
timeout = "5s"

[graph]
seed = 7
format = "svg"

[cache]
backend = "redis"
redis_password = "${TEST_REDIS_PW}"
ttl = "1h"

[monitor]
interval = "250ms"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Tool != "pip3" || cfg.Timeout.Std() != 5*time.Second {
		t.Errorf("top level = %+v", cfg)
	}
	if *cfg.Graph.Seed != 7 || cfg.Graph.Format != "svg" || cfg.Graph.Iterations != 150 {
		t.Errorf("Graph = %+v", cfg.Graph)
	}
	if cfg.Cache.RedisPassword != "s3cret" || cfg.Cache.TTL.Std() != time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Monitor.Interval.Std() != 250*time.Millisecond {
		t.Errorf("Monitor.Interval = %v", cfg.Monitor.Interval.Std())
	}
	if cfg.Path != path {
		t.Errorf("Path = %q", cfg.Path)
	}
	if opts := cfg.Cache.Options(); opts.Backend != "redis" || opts.RedisPassword != "s3cret" {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadSeed(t *testing.T) {
	tests := []struct {
		name string
		body string
		want uint64
	}{
		{name: "unset", body: "", want: 42},
		{name: "zero", body: "[graph]\nseed = 0\n", want: 0},
		{name: "explicit", body: "[graph]\nseed = 9\n", want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.Graph.Seed == nil || *cfg.Graph.Seed != tt.want {
				t.Errorf("Graph.Seed = %v, want %d", cfg.Graph.Seed, tt.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "tool = "},
		{"bad duration", `timeout = "soon"`},
		{"unknown backend", "[cache]\nbackend = \"memcached\""},
		{"unknown format", "[graph]\nformat = \"gif\""},
		{"negative jobs", "[graph]\njobs = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want %s", err, errs.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.toml")); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("Resolve(missing) error = %v", err)
	}

	path := writeConfig(t, `output_dir = "out"`)
	cfg, err := Resolve(path)
	if err != nil || cfg.OutputDir != "out" {
		t.Errorf("Resolve(explicit) = %+v, %v", cfg, err)
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "b.toml")
	if err := os.WriteFile(present, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Find([]string{filepath.Join(dir, "a.toml"), dir, present}); got != present {
		t.Errorf("Find() = %q, want %q", got, present)
	}
	if got := Find([]string{filepath.Join(dir, "none.toml")}); got != "" {
		t.Errorf("Find() = %q, want empty", got)
	}
}

func TestLoadExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "devinventory.toml"))
	if err != nil {
		t.Fatalf("Load(example) error = %v", err)
	}
	if cfg.Graph.Output != "dependency_graph.svg" || cfg.Cache.TTL.Std() != 168*time.Hour {
		t.Errorf("example config = %+v", cfg)
	}
}
