// Package monitor samples CPU, memory and disk utilisation on an interval.
//
// A [Session] owns one producer goroutine that reads a [Source], appends to
// a capped [Buffer] and emits every sample on a channel. The renderer
// consumes the channel and never reaches into the buffer's internals; the
// buffer is for late readers such as CSV export.
//
//	s := monitor.NewSession(monitor.SystemSource{}, time.Second)
//	samples, err := s.Run(ctx)
//	for sample := range samples {
//	    fmt.Println(sample.CPU)
//	}
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// Defaults.
const (
	DefaultInterval = time.Second
	DefaultCapacity = 30
	DefaultDiskPath = "/"
)

// Sample is one utilisation reading, in percent.
type Sample struct {
	Time   time.Time
	CPU    float64
	Memory float64
	Disk   float64
}

// Source produces samples.
type Source interface {
	Sample(ctx context.Context) (Sample, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Sample, error)

// Sample calls f(ctx).
func (f SourceFunc) Sample(ctx context.Context) (Sample, error) { return f(ctx) }

// SystemSource reads the local machine through gopsutil.
type SystemSource struct {
	// DiskPath is the mount whose usage is reported. Defaults to "/".
	DiskPath string
}

// Sample implements Source. CPU is the utilisation since the previous call.
func (s SystemSource) Sample(ctx context.Context) (Sample, error) {
	path := s.DiskPath
	if path == "" {
		path = DefaultDiskPath
	}

	cpus, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return Sample{}, fmt.Errorf("cpu: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("memory: %w", err)
	}
	du, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return Sample{}, fmt.Errorf("disk %s: %w", path, err)
	}

	out := Sample{Time: time.Now(), Memory: vm.UsedPercent, Disk: du.UsedPercent}
	if len(cpus) > 0 {
		out.CPU = cpus[0]
	}
	return out, nil
}

// Buffer keeps the most recent samples. It is safe for concurrent use.
type Buffer struct {
	mu       sync.Mutex
	capacity int
	samples  []Sample
}

// NewBuffer returns a buffer holding at most capacity samples
// (DefaultCapacity if capacity <= 0).
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity, samples: make([]Sample, 0, capacity)}
}

// Add appends s, evicting the oldest sample when full.
func (b *Buffer) Add(s Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.samples) == b.capacity {
		copy(b.samples, b.samples[1:])
		b.samples = b.samples[:len(b.samples)-1]
	}
	b.samples = append(b.samples, s)
}

// Snapshot returns a copy of the buffered samples, oldest first.
func (b *Buffer) Snapshot() []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Sample, len(b.samples))
	copy(out, b.samples)
	return out
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

// Capacity returns the maximum number of samples kept.
func (b *Buffer) Capacity() int { return b.capacity }
