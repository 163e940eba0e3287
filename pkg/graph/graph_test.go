package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/devinventory/pkg/depgraph"
)

func sample() *depgraph.Graph {
	g := depgraph.New()
	_ = g.AddEdge("pandas", "numpy")
	_ = g.AddEdge("scipy", "numpy")
	_ = g.AddNode("pip")
	return g
}

func TestMarshalGraph(t *testing.T) {
	data, err := MarshalGraph(sample(), nil)
	if err != nil {
		t.Fatalf("MarshalGraph() error = %v", err)
	}

	var got Graph
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(got.Nodes))
	for i, n := range got.Nodes {
		ids[i] = n.ID
		if n.X != nil {
			t.Errorf("node %s has position without layout", n.ID)
		}
	}
	if !reflect.DeepEqual(ids, []string{"numpy", "pandas", "pip", "scipy"}) {
		t.Errorf("node order = %v", ids)
	}
	if got.Nodes[0].Count != 2 {
		t.Errorf("numpy count = %d, want 2", got.Nodes[0].Count)
	}
	if len(got.Edges) != 2 || got.Edges[0] != (Edge{From: "pandas", To: "numpy"}) {
		t.Errorf("edges = %v", got.Edges)
	}
}

func TestMarshalGraphWithPositions(t *testing.T) {
	g := sample()
	pos := depgraph.Layout(g, depgraph.LayoutOptions{})

	out := FromGraph(g, &pos)
	for _, n := range out.Nodes {
		if n.X == nil || n.Y == nil {
			t.Fatalf("node %s missing position", n.ID)
		}
		if p := pos.Nodes[n.ID]; *n.X != p.X || *n.Y != p.Y {
			t.Errorf("node %s at (%v,%v), want %+v", n.ID, *n.X, *n.Y, p)
		}
	}
}

func TestReadGraph(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGraph(sample(), nil, &buf); err != nil {
		t.Fatal(err)
	}

	g, err := ReadGraph(&buf)
	if err != nil {
		t.Fatalf("ReadGraph() error = %v", err)
	}
	if !reflect.DeepEqual(g.EdgeSet(), sample().EdgeSet()) {
		t.Errorf("edge set changed: %v", g.Edges())
	}
	if !g.HasNode("pip") {
		t.Error("isolated node lost")
	}
}

func TestReadGraphErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", "{"},
		{"unknown endpoint", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`},
		{"empty id", `{"nodes":[{"id":""}],"edges":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadGraph(strings.NewReader(tt.in)); err == nil {
				t.Error("ReadGraph() should fail")
			}
		})
	}

	_, err := ReadGraph(strings.NewReader(`{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`))
	var edgeErr *EdgeError
	if !errors.As(err, &edgeErr) || edgeErr.Edge.To != "b" {
		t.Errorf("error = %v, want *EdgeError", err)
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dependency_graph.json")
	if err := WriteGraphFile(sample(), nil, path); err != nil {
		t.Fatal(err)
	}
	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.Count("numpy") != 2 {
		t.Errorf("Count(numpy) = %d", g.Count("numpy"))
	}

	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ReadGraphFile(missing) should fail")
	}
}
