// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about external command probes, collection stages, graph
// construction, exports, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetProbeHooks(&myProbeHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Probe().OnCommand(ctx, "pip", 0, elapsed, nil)
//	observability.Pipeline().OnExportComplete(ctx, "xlsx", path, elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Probe Hooks
// =============================================================================

// ProbeHooks receives events from external command invocations.
type ProbeHooks interface {
	// OnCommand records a finished subprocess. exitCode is -1 when the
	// process could not be started.
	OnCommand(ctx context.Context, program string, exitCode int, duration time.Duration, err error)

	// OnProbe records the outcome of one version probe.
	OnProbe(ctx context.Context, name string, found bool, duration time.Duration)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the collect/graph/export stages.
type PipelineHooks interface {
	OnCollectStart(ctx context.Context, mode string)
	OnCollectComplete(ctx context.Context, mode string, duration time.Duration, err error)

	OnGraphStart(ctx context.Context, packageCount int)
	OnGraphComplete(ctx context.Context, nodeCount, edgeCount int, duration time.Duration, err error)

	OnExportComplete(ctx context.Context, format, path string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopProbeHooks is a no-op implementation of ProbeHooks.
type NoopProbeHooks struct{}

func (NoopProbeHooks) OnCommand(context.Context, string, int, time.Duration, error) {}
func (NoopProbeHooks) OnProbe(context.Context, string, bool, time.Duration)        {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnCollectStart(context.Context, string)                         {}
func (NoopPipelineHooks) OnCollectComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnGraphStart(context.Context, int)                              {}
func (NoopPipelineHooks) OnGraphComplete(context.Context, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnExportComplete(context.Context, string, string, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	probeHooks    ProbeHooks    = NoopProbeHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetProbeHooks registers custom probe hooks.
// This should be called once at application startup.
func SetProbeHooks(h ProbeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		probeHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Probe returns the registered probe hooks.
func Probe() ProbeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return probeHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	probeHooks = NoopProbeHooks{}
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
