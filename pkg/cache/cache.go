// Package cache memoises subprocess output between runs.
//
// The dependency graph builder asks the package manager for the metadata of
// every installed package, one subprocess each. Those answers change only
// when a package is upgraded, so they are cached keyed by tool, package
// name and installed version.
//
// # Backends
//
//   - [NullCache]: no caching (default, and --no-cache)
//   - [FileCache]: JSON entries under the user cache directory
//   - [RedisCache]: a shared Redis instance, for fleets of build agents
//
// Caching is opt-in: metadata can change without a version bump (editable
// installs, reinstalls), and a cached entry would then hide the change.
//
// The cache is a memo, not a store: every backend may drop entries at any
// time and callers must treat a miss the same as a cold start.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"

	errs "github.com/matzehuels/devinventory/pkg/errors"
)

// DefaultTTL is how long metadata entries are kept.
const DefaultTTL = 7 * 24 * time.Hour

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Cache is a byte-oriented key/value cache with expiry.
type Cache interface {
	// Get returns the value for key. The bool reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string // "none" (default), "file" or "redis"
	Dir     string // file backend directory; defaults to [DefaultDir]

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open returns the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return NewFileCache(dir)
	case BackendRedis:
		return NewRedisCache(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
		})
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q (use file, redis or none)", opts.Backend)
	}
}

// DefaultDir returns the per-user cache directory for devinventory.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeCache, err, "locate user cache directory")
	}
	return filepath.Join(base, "devinventory"), nil
}
