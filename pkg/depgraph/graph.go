package depgraph

import (
	"errors"
	"slices"
)

// ErrInvalidNodeID is returned when a node name is empty.
var ErrInvalidNodeID = errors.New("node name must not be empty")

// Edge is a directed "From requires To" relation.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph keyed by package name.
//
// Duplicate edges are ignored, so Count always equals the number of
// distinct parents. Graph is not safe for concurrent mutation.
type Graph struct {
	nodes    map[string]struct{}
	edges    []Edge
	seen     map[Edge]struct{}
	children map[string][]string
	parents  map[string][]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]struct{}),
		seen:     make(map[Edge]struct{}),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
}

// AddNode adds name if absent. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) error {
	if name == "" {
		return ErrInvalidNodeID
	}
	g.nodes[name] = struct{}{}
	return nil
}

// AddEdge adds from → to, creating either endpoint if needed.
func (g *Graph) AddEdge(from, to string) error {
	if from == "" || to == "" {
		return ErrInvalidNodeID
	}
	g.nodes[from] = struct{}{}
	g.nodes[to] = struct{}{}

	e := Edge{From: from, To: to}
	if _, dup := g.seen[e]; dup {
		return nil
	}
	g.seen[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.children[from] = append(g.children[from], to)
	g.parents[to] = append(g.parents[to], from)
	return nil
}

// HasNode reports whether name is in the graph.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Nodes returns all node names sorted.
func (g *Graph) Nodes() []string {
	out := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Edges returns edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// EdgeSet returns the edges as a set.
func (g *Graph) EdgeSet() map[Edge]struct{} {
	out := make(map[Edge]struct{}, len(g.seen))
	for e := range g.seen {
		out[e] = struct{}{}
	}
	return out
}

// Children returns the direct requirements of name.
func (g *Graph) Children(name string) []string { return slices.Clone(g.children[name]) }

// Parents returns the packages that require name.
func (g *Graph) Parents(name string) []string { return slices.Clone(g.parents[name]) }

// Count returns how many packages depend on name.
func (g *Graph) Count(name string) int { return len(g.parents[name]) }

// MaxCount returns the largest Count in the graph.
func (g *Graph) MaxCount() int {
	m := 0
	for _, ps := range g.parents {
		m = max(m, len(ps))
	}
	return m
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
