package pipeline

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/devinventory/pkg/cache"
	"github.com/matzehuels/devinventory/pkg/config"
	"github.com/matzehuels/devinventory/pkg/depgraph"
	errs "github.com/matzehuels/devinventory/pkg/errors"
	"github.com/matzehuels/devinventory/pkg/graph"
	"github.com/matzehuels/devinventory/pkg/inventory"
	"github.com/matzehuels/devinventory/pkg/manifest"
	"github.com/matzehuels/devinventory/pkg/monitor"
	"github.com/matzehuels/devinventory/pkg/observability"
	"github.com/matzehuels/devinventory/pkg/probe"
	"github.com/matzehuels/devinventory/pkg/render"
	"github.com/matzehuels/devinventory/pkg/render/nodelink"
	"github.com/matzehuels/devinventory/pkg/report"
	"github.com/matzehuels/devinventory/pkg/scan"
	"github.com/matzehuels/devinventory/pkg/textenc"
)

// Runner executes collection, export and graph actions.
type Runner struct {
	Config  config.Config
	Exec    probe.Runner
	Cache   cache.Cache
	Decoder *textenc.Decoder
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching; a nil logger
// discards output.
func NewRunner(cfg config.Config, exec probe.Runner, c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Config:  cfg.WithDefaults(),
		Exec:    exec,
		Cache:   c,
		Decoder: textenc.NewDecoder(),
		Logger:  logger,
	}
}

// Collector returns the package inventory collector for the configured tool.
func (r *Runner) Collector() *inventory.Collector {
	return inventory.NewCollector(r.Exec, r.Config.Tool)
}

// Packages lists the installed packages.
func (r *Runner) Packages(ctx context.Context) ([]inventory.Package, error) {
	return r.Collector().List(ctx)
}

// Collect gathers the tables mode needs.
func (r *Runner) Collect(ctx context.Context, mode report.Mode) (report.Tables, error) {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnCollectStart(ctx, string(mode))

	t, err := r.collect(ctx, mode)
	hooks.OnCollectComplete(ctx, string(mode), time.Since(start), err)
	if err != nil {
		return report.Tables{}, err
	}
	r.Logger.Debug("collected", "mode", mode, "elapsed", time.Since(start))
	return t, nil
}

func (r *Runner) collect(ctx context.Context, mode report.Mode) (report.Tables, error) {
	var t report.Tables
	if len(mode.Categories()) == 0 {
		return t, errs.New(errs.ErrCodeInvalidMode, "unknown mode %q", mode)
	}
	parser := probe.NewParser(r.Exec, r.Logger)

	if mode.Includes(report.Languages) {
		t.Languages = report.FromResults(parser.Collect(ctx, probe.Languages))
	}
	if mode.Includes(report.Frameworks) {
		t.Frameworks = report.FromResults(parser.Collect(ctx, probe.Frameworks))
	}

	if mode.Includes(report.Packages) || mode.Includes(report.Requirements) {
		pkgs, err := r.Packages(ctx)
		if err != nil {
			return t, err
		}
		if mode.Includes(report.Packages) {
			t.Packages = report.FromPackages(pkgs)
		}
		if mode.Includes(report.Requirements) {
			rows, err := r.Reconcile(pkgs)
			if err != nil {
				return t, err
			}
			t.Requirements = rows
		}
	}
	return t, ctx.Err()
}

// Reconcile loads the configured manifest and compares it with pkgs.
func (r *Runner) Reconcile(pkgs []inventory.Package) ([]manifest.Row, error) {
	m, err := manifest.Load(r.Config.Requirements, r.Decoder)
	if err != nil {
		return nil, err
	}
	if m.BestEffort {
		r.Logger.Warn("manifest charset could not be detected; decoded as "+m.Charset, "path", m.Path)
	}
	if len(m.Requirements) == 0 {
		r.Logger.Debug("no requirements", "path", m.Path)
	}
	return manifest.Reconcile(m.Requirements, inventory.Index(pkgs)), nil
}

// Exporter returns an exporter for the configured output directory.
func (r *Runner) Exporter() *report.Exporter {
	e := report.NewExporter(r.Config.OutputDir, r.Logger)
	e.Workbook = r.Config.Workbook
	e.LockTimeout = r.Config.LockTimeout.Std()
	return e
}

// Export writes the spreadsheets for mode.
func (r *Runner) Export(ctx context.Context, mode report.Mode, t report.Tables) ([]string, error) {
	return r.Exporter().WriteSpreadsheets(ctx, mode, t)
}

// ExportDocument collects packages, languages and frameworks and writes
// them as one JSON or YAML document.
func (r *Runner) ExportDocument(ctx context.Context, format report.DocFormat) (string, error) {
	var t report.Tables
	for _, mode := range []report.Mode{report.ModePackages, report.ModeLanguages, report.ModeFrameworks} {
		part, err := r.Collect(ctx, mode)
		if err != nil {
			return "", err
		}
		t.Packages = append(t.Packages, part.Packages...)
		t.Languages = append(t.Languages, part.Languages...)
		t.Frameworks = append(t.Frameworks, part.Frameworks...)
	}
	return r.Exporter().WriteDocument(ctx, format, t)
}

// Graph builds, lays out and writes the dependency graph.
func (r *Runner) Graph(ctx context.Context, opts GraphOptions) (*GraphResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	pkgs, err := r.Packages(ctx)
	if err != nil {
		return nil, err
	}

	var src depgraph.MetadataSource = depgraph.CollectorSource{Collector: r.Collector()}
	if !opts.NoCache {
		src = &depgraph.CachedSource{
			Source: src,
			Cache:  r.Cache,
			Tool:   r.Config.Tool,
			TTL:    r.Config.Cache.TTL.Std(),
		}
	}
	builder := depgraph.NewBuilder(src, r.Logger)
	builder.Jobs = opts.Jobs

	queryStart := time.Now()
	g, err := builder.Build(ctx, pkgs)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("built dependency graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", time.Since(queryStart))

	layoutStart := time.Now()
	pos := depgraph.Layout(g, opts.Layout)
	r.Logger.Debug("computed layout", "iterations", opts.Layout.Iterations, "duration", time.Since(layoutStart))

	data, err := r.renderGraph(ctx, g, pos, opts)
	if err != nil {
		return nil, err
	}

	path, err := r.graphExporter(opts.Output).WriteFile(ctx, string(opts.Format), filepath.Base(opts.Output), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &GraphResult{
		Graph:     g,
		Positions: pos,
		Path:      path,
		Format:    opts.Format,
		Bytes:     len(data),
	}, nil
}

func (r *Runner) renderGraph(ctx context.Context, g *depgraph.Graph, pos depgraph.Positions, opts GraphOptions) ([]byte, error) {
	switch opts.Format {
	case render.FormatJSON:
		return graph.MarshalGraph(g, &pos)
	case render.FormatDOT:
		return []byte(nodelink.ToDOT(g, pos, opts.Style)), nil
	case render.FormatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(g, pos, opts.Style))
	case render.FormatPNG:
		return nodelink.RenderPNG(ctx, nodelink.ToDOT(g, pos, opts.Style))
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported graph format %q", opts.Format)
	}
}

// graphExporter returns an exporter for the directory holding output.
// Relative outputs resolve against the output directory.
func (r *Runner) graphExporter(output string) *report.Exporter {
	if !filepath.IsAbs(output) {
		output = filepath.Join(r.Config.OutputDir, output)
	}
	exp := r.Exporter()
	exp.Dir = filepath.Dir(output)
	return exp
}

// Scan lists the installed packages and starts the diagnostic scan.
// The caller must drain the returned channel.
func (r *Runner) Scan(ctx context.Context) (<-chan scan.Event, int, error) {
	pkgs, err := r.Packages(ctx)
	if err != nil {
		return nil, 0, err
	}
	s := scan.NewScanner(r.Exec, r.Config.Tool, r.Logger)
	return s.Scan(ctx, pkgs), len(pkgs), nil
}

// WriteScanReport writes events as security_check_<timestamp>.txt.
func (r *Runner) WriteScanReport(ctx context.Context, events []scan.Event, at time.Time) (string, error) {
	return r.Exporter().WriteFile(ctx, "txt", scan.ReportName(at), func(w io.Writer) error {
		return scan.WriteReport(w, events)
	})
}

// WriteMonitorCSV writes samples as performance_monitor_<timestamp>.csv.
// An explicit name overrides the generated one.
func (r *Runner) WriteMonitorCSV(ctx context.Context, samples []monitor.Sample, name string, at time.Time) (string, error) {
	if name == "" {
		name = monitor.FileName(at)
	}
	return r.Exporter().WriteFile(ctx, "csv", name, func(w io.Writer) error {
		return monitor.WriteCSV(w, samples)
	})
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}
