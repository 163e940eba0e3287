// Package config loads devinventory settings from TOML.
//
// Settings are read from the first file found among --config,
// ./devinventory.toml and $XDG_CONFIG_HOME/devinventory/config.toml (or the
// platform equivalent of XDG_CONFIG_HOME). No file means defaults.
// Command-line flags override whatever the file says.
//
// A complete file:
//
//	tool = "pip"
//	requirements = "requirements.txt"
//	output_dir = "results"
//	timeout = "30s"
//
//	[graph]
//	spacing = 2.5
//	iterations = 150
//	seed = 42
//	jobs = 8
//
//	[cache]
//	backend = "redis"
//	ttl = "168h"
//	redis_addr = "cache.internal:6379"
//	redis_password = "${DEVINVENTORY_REDIS_PASSWORD}"
//
//	[monitor]
//	interval = "1s"
//	points = 30
//
//	[venv]
//	root = "venvs"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/devinventory/pkg/cache"
	errs "github.com/matzehuels/devinventory/pkg/errors"
	"github.com/matzehuels/devinventory/pkg/render"
)

// FileName is the project-local config file name.
const FileName = "devinventory.toml"

// Duration is a time.Duration written as "30s", "5m" in TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full configuration.
type Config struct {
	Tool         string   `toml:"tool"`
	Requirements string   `toml:"requirements"`
	OutputDir    string   `toml:"output_dir"`
	Workbook     string   `toml:"workbook"`
	Timeout      Duration `toml:"timeout"`
	LockTimeout  Duration `toml:"lock_timeout"`

	Graph   GraphConfig   `toml:"graph"`
	Cache   CacheConfig   `toml:"cache"`
	Monitor MonitorConfig `toml:"monitor"`
	Venv    VenvConfig    `toml:"venv"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `toml:"-"`
}

// GraphConfig configures `devinventory graph`.
type GraphConfig struct {
	Output     string  `toml:"output"`
	Format     string  `toml:"format"`
	Spacing    float64 `toml:"spacing"`
	Iterations int     `toml:"iterations"`
	Seed       *uint64 `toml:"seed"`
	Jobs       int     `toml:"jobs"`
	BaseSize   float64 `toml:"base_size"`
	SizeScale  float64 `toml:"size_scale"`
}

// CacheConfig configures the metadata cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           Duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	RedisPrefix   string   `toml:"redis_prefix"`
}

// Options converts the section to cache.Options.
func (c CacheConfig) Options() cache.Options {
	return cache.Options{
		Backend:       c.Backend,
		Dir:           c.Dir,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisPrefix:   c.RedisPrefix,
	}
}

// MonitorConfig configures `devinventory monitor`.
type MonitorConfig struct {
	Interval Duration `toml:"interval"`
	Points   int      `toml:"points"`
	DiskPath string   `toml:"disk_path"`
}

// VenvConfig configures `devinventory venv`.
type VenvConfig struct {
	Root   string `toml:"root"`
	Python string `toml:"python"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{}.WithDefaults()
}

// WithDefaults returns a copy with zero fields set to defaults.
func (c Config) WithDefaults() Config {
	if c.Tool == "" {
		c.Tool = "pip"
	}
	if c.Requirements == "" {
		c.Requirements = "requirements.txt"
	}
	if c.OutputDir == "" {
		c.OutputDir = "results"
	}
	if c.Timeout <= 0 {
		c.Timeout = Duration(30 * time.Second)
	}
	if c.LockTimeout <= 0 {
		c.LockTimeout = Duration(10 * time.Second)
	}
	if c.Graph.Output == "" {
		c.Graph.Output = "dependency_graph.png"
	}
	if c.Graph.Spacing <= 0 {
		c.Graph.Spacing = 2.5
	}
	if c.Graph.Iterations <= 0 {
		c.Graph.Iterations = 150
	}
	if c.Graph.Seed == nil {
		seed := uint64(42)
		c.Graph.Seed = &seed
	}
	if c.Graph.Jobs <= 0 {
		c.Graph.Jobs = 8
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = cache.BackendNone
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = Duration(cache.DefaultTTL)
	}
	if c.Monitor.Interval <= 0 {
		c.Monitor.Interval = Duration(time.Second)
	}
	if c.Monitor.Points <= 0 {
		c.Monitor.Points = 30
	}
	if c.Monitor.DiskPath == "" {
		c.Monitor.DiskPath = "/"
	}
	if c.Venv.Root == "" {
		c.Venv.Root = "venvs"
	}
	if c.Venv.Python == "" {
		c.Venv.Python = "python3"
	}
	return c
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendRedis, cache.BackendNone:
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Graph.Format != "" {
		if _, err := render.ParseFormat(c.Graph.Format); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "graph.format")
		}
	}
	if c.Graph.Jobs < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "graph.jobs must not be negative")
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// expandEnv replaces ${VAR} placeholders with environment values.
func expandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(m)[1])
	})
}

// Load reads path, fills defaults and validates.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	cfg.Cache.RedisPassword = expandEnv(cfg.Cache.RedisPassword)
	cfg.Cache.RedisAddr = expandEnv(cfg.Cache.RedisAddr)
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg.WithDefaults(), nil
}

// Candidates returns the implicit config locations in search order.
func Candidates() []string {
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "devinventory", "config.toml"))
	}
	return paths
}

// Find returns the first existing path among candidates, or "".
func Find(candidates []string) string {
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Resolve loads explicit if set (it must exist), else the first implicit
// candidate, else defaults.
func Resolve(explicit string) (Config, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); errors.Is(err, fs.ErrNotExist) {
			return Config{}, errs.New(errs.ErrCodeInvalidConfig, "config file %s does not exist", explicit)
		}
		return Load(explicit)
	}
	if p := Find(Candidates()); p != "" {
		return Load(p)
	}
	return Default(), nil
}
