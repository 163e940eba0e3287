package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/devinventory/pkg/render"
)

// graphFlags holds the flag values for the graph command.
type graphFlags struct {
	output     string
	format     string
	spacing    float64
	iterations int
	seed       uint64
	jobs       int
	noCache    bool
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var flags graphFlags

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the installed package dependency graph",
		Long: `Graph queries "pip show" for every installed package, builds the directed
dependency graph and draws it with a force-directed layout. Node size and
color grow with the number of packages that depend on a node.

The output format follows --format, or the extension of --output:
png, svg, dot (Graphviz source) or json (nodes, edges and positions).
Relative outputs are written into the configured output directory.

Package metadata is queried fresh on every run unless [cache] in the config
selects the file or redis backend.`,
		Example: `  devinventory graph
  devinventory graph -o deps.svg
  devinventory graph --format json --seed 7 --no-cache`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file, relative to the output directory unless absolute (default from config, dependency_graph.png)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: png, svg, dot, json")
	cmd.Flags().Float64Var(&flags.spacing, "spacing", 0, "optimal node distance of the layout")
	cmd.Flags().IntVar(&flags.iterations, "iterations", 0, "layout iterations")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "layout seed, 0 included (default from config, 42)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "concurrent package metadata queries")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "bypass the metadata cache when [cache] enables one")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, flags graphFlags) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := runner.GraphOptions()
	opts.NoCache = flags.noCache
	fl := cmd.Flags()
	if fl.Changed("output") {
		opts.Output = flags.output
		if !fl.Changed("format") && c.cfg.Graph.Format == "" {
			opts.Format = ""
		}
	}
	if fl.Changed("format") {
		f, err := render.ParseFormat(flags.format)
		if err != nil {
			return err
		}
		opts.Format = f
	}
	if fl.Changed("spacing") {
		opts.Layout.Spacing = flags.spacing
	}
	if fl.Changed("iterations") {
		opts.Layout.Iterations = flags.iterations
	}
	if fl.Changed("seed") {
		opts.Layout = opts.Layout.WithSeed(flags.seed)
	}
	if fl.Changed("jobs") {
		opts.Jobs = flags.jobs
	}

	prog := newProgress(loggerFromContext(ctx))
	spin := newSpinnerWithContext(ctx, "Querying package metadata...")
	spin.Start()
	res, err := runner.Graph(ctx, opts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("Rendered dependency graph")

	printSuccess("Dependency graph written")
	printFile(res.Path)
	printStats(
		fmt.Sprintf("%d nodes", res.Graph.NodeCount()),
		fmt.Sprintf("%d edges", res.Graph.EdgeCount()),
		string(res.Format),
	)
	if res.Format == render.FormatDOT {
		printNextStep("Render with Graphviz", "neato -n -Tsvg "+res.Path)
	}
	return nil
}
