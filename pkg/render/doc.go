// Package render names the output formats of the dependency graph and
// hosts the renderers.
//
// The [nodelink] subpackage draws the laid-out graph through Graphviz.
// Raster and vector output come straight from Graphviz; DOT and JSON are
// written as text for other tools.
package render
