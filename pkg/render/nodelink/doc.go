// Package nodelink draws a laid-out dependency graph as a node-link diagram.
//
// # Overview
//
// Positions come from [depgraph.Layout]; this package only draws. Every
// node is pinned at its computed position and Graphviz's neato engine is
// used purely as a renderer, so the picture matches the layout exactly.
// Labels are separate plaintext nodes pinned slightly above their circle.
//
// # Styling
//
// Node diameter grows with the depended-upon count (base + count × scale)
// and the fill color walks the ylorrd9 Graphviz color scheme from pale
// yellow (leaf packages) to dark red (the most depended-upon package).
//
// # Usage
//
//	pos := depgraph.Layout(g, depgraph.LayoutOptions{})
//	dot := nodelink.ToDOT(g, pos, nodelink.DefaultStyle())
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz] in-process; no Graphviz
// installation is required.
package nodelink
