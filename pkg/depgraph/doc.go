// Package depgraph builds the dependency graph of an installed package
// inventory and lays it out for drawing.
//
// # Building
//
// [Builder] creates a node for every installed package and asks a
// [MetadataSource] for each package's direct requirements. Queries run
// concurrently with a bounded number in flight, but results are applied in
// inventory order, so two builds over the same inventory produce the same
// edge set in the same order. A failed query leaves its package as a node
// with no outgoing edges; it never aborts the build.
//
// Requirement names that are not installed still become nodes. The
// depended-upon count of a node is its number of inbound edges.
//
// # Layout
//
// [Layout] runs a seeded Fruchterman-Reingold spring model and rescales
// positions into [-1, 1] on both axes. A fixed seed gives identical output
// across runs:
//
//	g, err := depgraph.NewBuilder(src, nil).Build(ctx, pkgs)
//	l := depgraph.Layout(g, depgraph.LayoutOptions{}.WithSeed(42))
//
// Rendering lives in package render/nodelink; JSON serialization in package
// graph.
package depgraph
