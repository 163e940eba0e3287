package graph

import "github.com/matzehuels/devinventory/pkg/depgraph"

// Graph is the serialized form of a dependency graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one package.
type Node struct {
	ID    string   `json:"id"`
	Count int      `json:"count,omitempty"` // inbound edges
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
}

// Edge is a "From requires To" relation.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FromGraph converts g. If pos is non-nil, node positions are included.
func FromGraph(g *depgraph.Graph, pos *depgraph.Positions) Graph {
	out := Graph{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for _, id := range g.Nodes() {
		n := Node{ID: id, Count: g.Count(id)}
		if pos != nil {
			if p, ok := pos.Nodes[id]; ok {
				x, y := p.X, p.Y
				n.X, n.Y = &x, &y
			}
		}
		out.Nodes = append(out.Nodes, n)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{From: e.From, To: e.To})
	}
	return out
}

// ToGraph rebuilds a depgraph.Graph. Counts are recomputed from edges.
func ToGraph(data Graph) (*depgraph.Graph, error) {
	g := depgraph.New()
	for _, n := range data.Nodes {
		if err := g.AddNode(n.ID); err != nil {
			return nil, err
		}
	}
	for _, e := range data.Edges {
		if !g.HasNode(e.From) || !g.HasNode(e.To) {
			return nil, &EdgeError{Edge: e}
		}
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// EdgeError reports an edge whose endpoint is not a listed node.
type EdgeError struct {
	Edge Edge
}

func (e *EdgeError) Error() string {
	return "edge " + e.Edge.From + " -> " + e.Edge.To + " references an unknown node"
}
