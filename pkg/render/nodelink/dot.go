package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/devinventory/pkg/depgraph"
)

// colorSteps is the number of colors in the ylorrd9 scheme.
const colorSteps = 9

// Style controls node sizing and the drawing scale.
type Style struct {
	// BaseSize is the diameter in inches of a node nothing depends on.
	BaseSize float64
	// SizeScale is added to the diameter per dependent.
	SizeScale float64
	// Scale maps the [-1,1] layout box to inches on each side of center.
	Scale float64
	// FontSize of the package labels, in points.
	FontSize float64
	// Title is drawn above the graph when non-empty.
	Title string
}

// DefaultStyle returns the standard style.
func DefaultStyle() Style {
	return Style{
		BaseSize:  0.45,
		SizeScale: 0.045,
		Scale:     8,
		FontSize:  9,
		Title:     "Python Package Dependencies",
	}
}

// NodeSize returns the diameter of a node with count dependents.
func (s Style) NodeSize(count int) float64 {
	return s.BaseSize + float64(count)*s.SizeScale
}

// NodeColor returns the ylorrd9 color index (1-9) for count relative to
// the largest count in the graph.
func NodeColor(count, maxCount int) int {
	if maxCount <= 0 || count <= 0 {
		return 1
	}
	return 1 + count*(colorSteps-1)/maxCount
}

// ToDOT converts a laid-out graph to DOT with every node pinned.
//
// Nodes missing from pos are drawn at the origin.
func ToDOT(g *depgraph.Graph, pos depgraph.Positions, style Style) string {
	if style.Scale <= 0 {
		style.Scale = DefaultStyle().Scale
	}
	maxCount := g.MaxCount()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  pad=0.5;\n")
	if style.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=%s;\n", style.Title, num(style.FontSize*2))
	}
	buf.WriteString("  node [shape=circle, style=filled, colorscheme=ylorrd9, color=\"#00000040\", fixedsize=true, label=\"\"];\n")
	buf.WriteString("  edge [color=\"#80808099\", arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		p := pos.Nodes[id]
		count := g.Count(id)
		size := style.NodeSize(count)
		fmt.Fprintf(&buf, "  %q [pos=%q, width=%s, fillcolor=%d, tooltip=%q];\n",
			id, pin(p, style.Scale), num(size), NodeColor(count, maxCount), tooltip(id, count))
	}

	buf.WriteString("\n")
	for _, id := range g.Nodes() {
		p, ok := pos.Labels[id]
		if !ok {
			p = pos.Nodes[id]
		}
		fmt.Fprintf(&buf, "  %q [shape=plaintext, style=\"\", fixedsize=false, width=0, height=0, label=%q, fontsize=%s, pos=%q];\n",
			labelID(id), id, num(style.FontSize), pin(p, style.Scale))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func labelID(id string) string { return "label:" + id }

func pin(p depgraph.Point, scale float64) string {
	return num(p.X*scale) + "," + num(p.Y*scale) + "!"
}

func tooltip(id string, count int) string {
	if count == 1 {
		return id + " (1 dependent)"
	}
	return fmt.Sprintf("%s (%d dependents)", id, count)
}

// num formats a float compactly with at most four decimals.
func num(f float64) string {
	s := strings.TrimRight(fmt.Sprintf("%.4f", f), "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
