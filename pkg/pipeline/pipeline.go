// Package pipeline runs the user-facing actions of devinventory.
//
// A [Runner] wires the collectors, the reconciler, the graph builder and
// the exporters together so the CLI stays a thin layer of flag parsing.
// Each action only gathers what it needs:
//
//	mode           runs
//	languages      language probes
//	frameworks     framework probes
//	packages       `<tool> list`
//	requirements   `<tool> list`, manifest load, reconciliation
//	all            everything above
//
// # Usage
//
//	runner := pipeline.NewRunner(cfg, probe.ExecRunner{}, c, logger)
//	tables, err := runner.Collect(ctx, report.ModeAll)
//	paths, err := runner.Export(ctx, report.ModeAll, tables)
//
//	res, err := runner.Graph(ctx, pipeline.GraphOptions{Output: "dependency_graph.png"})
package pipeline

import (
	"path/filepath"

	"github.com/matzehuels/devinventory/pkg/depgraph"
	"github.com/matzehuels/devinventory/pkg/render"
	"github.com/matzehuels/devinventory/pkg/render/nodelink"
)

// GraphOptions configures [Runner.Graph].
type GraphOptions struct {
	Output  string        // destination file, relative to the output directory unless absolute; its extension picks Format when Format is empty
	Format  render.Format // png, svg, dot or json
	Jobs    int           // concurrent metadata queries
	NoCache bool          // bypass the metadata cache

	Layout depgraph.LayoutOptions
	Style  nodelink.Style
}

// ValidateAndSetDefaults fills zero fields and rejects unknown formats.
func (o *GraphOptions) ValidateAndSetDefaults() error {
	if o.Output == "" {
		o.Output = "dependency_graph.png"
	}
	if o.Format == "" {
		o.Format = render.FormatFromPath(o.Output)
	} else {
		f, err := render.ParseFormat(string(o.Format))
		if err != nil {
			return err
		}
		o.Format = f
	}
	if filepath.Ext(o.Output) == "" {
		o.Output += o.Format.Ext()
	}
	if o.Jobs <= 0 {
		o.Jobs = depgraph.DefaultJobs
	}
	o.Layout = o.Layout.WithDefaults()
	if o.Style == (nodelink.Style{}) {
		o.Style = nodelink.DefaultStyle()
	}
	return nil
}

// GraphResult is the outcome of [Runner.Graph].
type GraphResult struct {
	Graph     *depgraph.Graph
	Positions depgraph.Positions
	Path      string
	Format    render.Format
	Bytes     int
}

// GraphOptions returns graph options seeded from the [graph] config section.
func (r *Runner) GraphOptions() GraphOptions {
	g := r.Config.Graph
	style := nodelink.DefaultStyle()
	if g.BaseSize > 0 {
		style.BaseSize = g.BaseSize
	}
	if g.SizeScale > 0 {
		style.SizeScale = g.SizeScale
	}
	return GraphOptions{
		Output: g.Output,
		Format: render.Format(g.Format),
		Jobs:   g.Jobs,
		Layout: depgraph.LayoutOptions{
			Spacing:    g.Spacing,
			Iterations: g.Iterations,
			Seed:       g.Seed,
		},
		Style: style,
	}
}
