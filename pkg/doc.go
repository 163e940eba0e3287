// Package pkg provides the libraries behind devinventory.
//
// # Overview
//
// devinventory answers "what is installed on this machine, and does it match
// what the project asks for?". The pkg directory is organized leaves first:
//
//  1. [probe] - Run a command and extract a version from its output
//  2. [inventory] - Parse `pip list` and `pip show`
//  3. [textenc], [manifest] - Decode requirements files and reconcile them
//  4. [depgraph], [render], [graph] - Build, lay out and draw the dependency graph
//  5. [report] - Spreadsheet, JSON and YAML export under an advisory lock
//  6. [monitor], [scan], [venv] - Resource monitor, package diagnostics, environments
//  7. [pipeline] - Wires the above into the actions the CLI exposes
//
// Support packages: [cache] (file or Redis metadata cache), [config] (TOML
// configuration), [errors] (coded errors), [observability] (hooks) and
// [buildinfo] (version stamping).
//
// # Data Flow
//
//	probe.Runner ──► inventory.Collector ──► manifest.Reconcile ──► report.Exporter
//	       │                  │
//	       └─► probe.Parser   └─► depgraph.Builder ──► depgraph.Layout ──► nodelink.ToDOT
//
// Every external command goes through a [probe.Runner], so tests substitute
// a scripted runner from probe/probetest and never spawn processes.
//
// # Quick Start
//
//	cfg, _ := config.Resolve("")
//	runner := pipeline.NewRunner(cfg, probe.ExecRunner{}, nil, logger)
//	tables, err := runner.Collect(ctx, report.ModeRequirements)
//	for _, row := range tables.Requirements {
//	    fmt.Println(row.Name, row.Required, row.Installed, row.Matches)
//	}
//
// [probe]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/probe
// [inventory]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/inventory
// [textenc]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/textenc
// [manifest]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/manifest
// [depgraph]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/depgraph
// [render]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/render
// [graph]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/graph
// [report]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/report
// [monitor]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/monitor
// [scan]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/scan
// [venv]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/venv
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/buildinfo
// [probe.Runner]: https://pkg.go.dev/github.com/matzehuels/devinventory/pkg/probe#Runner
package pkg
