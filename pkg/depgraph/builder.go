package depgraph

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/devinventory/pkg/inventory"
	"github.com/matzehuels/devinventory/pkg/observability"
)

// DefaultJobs bounds concurrent metadata queries.
const DefaultJobs = 8

// MetadataSource answers "what does this installed package require".
type MetadataSource interface {
	Requires(ctx context.Context, pkg inventory.Package) ([]string, error)
}

// CollectorSource adapts an inventory.Collector to MetadataSource.
type CollectorSource struct {
	Collector *inventory.Collector
}

// Requires runs `<tool> show <name>` and returns its Requires list.
func (s CollectorSource) Requires(ctx context.Context, pkg inventory.Package) ([]string, error) {
	return s.Collector.Requires(ctx, pkg.Name)
}

// Builder constructs dependency graphs.
type Builder struct {
	Source MetadataSource
	Jobs   int // concurrent queries; <= 0 means DefaultJobs
	Logger *log.Logger
}

// NewBuilder returns a Builder with default concurrency.
func NewBuilder(src MetadataSource, logger *log.Logger) *Builder {
	return &Builder{Source: src, Jobs: DefaultJobs, Logger: logger}
}

// Build queries every package and assembles the graph.
//
// The only error is context cancellation; individual query failures are
// logged at debug level and leave the package without outgoing edges.
func (b *Builder) Build(ctx context.Context, pkgs []inventory.Package) (*Graph, error) {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnGraphStart(ctx, len(pkgs))

	g, err := b.build(ctx, pkgs)
	if err != nil {
		hooks.OnGraphComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnGraphComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	return g, nil
}

func (b *Builder) build(ctx context.Context, pkgs []inventory.Package) (*Graph, error) {
	logger := b.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	jobs := b.Jobs
	if jobs <= 0 {
		jobs = DefaultJobs
	}

	requires := make([][]string, len(pkgs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for i, pkg := range pkgs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			deps, err := b.Source.Requires(egCtx, pkg)
			if err != nil {
				logger.Debug("metadata query failed", "package", pkg.Name, "error", err)
				return nil
			}
			requires[i] = deps
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g := New()
	for i, pkg := range pkgs {
		if err := g.AddNode(pkg.Name); err != nil {
			continue
		}
		for _, dep := range requires[i] {
			_ = g.AddEdge(pkg.Name, dep)
		}
	}
	logger.Debug("dependency graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}
