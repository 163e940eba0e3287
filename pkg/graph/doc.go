// Package graph serializes dependency graphs as node-link JSON.
//
// The format carries each node's depended-upon count and, when a layout is
// supplied, its position, so a graph can be re-rendered by other tools
// without re-querying the package manager:
//
//	{
//	  "nodes": [
//	    {"id": "numpy", "count": 1, "x": 0.42, "y": -0.1},
//	    {"id": "pandas"}
//	  ],
//	  "edges": [{"from": "pandas", "to": "numpy"}]
//	}
//
// Nodes are sorted by ID; edges keep build order.
//
//	graph.WriteGraphFile(g, &positions, "dependency_graph.json")
//	g, err := graph.ReadGraphFile("dependency_graph.json")
package graph
