package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/devinventory/pkg/depgraph"
)

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *depgraph.Graph, pos *depgraph.Positions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, pos, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a graph as JSON to w.
func WriteGraph(g *depgraph.Graph, pos *depgraph.Positions, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g, pos)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteGraphFile writes a graph to a JSON file.
func WriteGraphFile(g *depgraph.Graph, pos *depgraph.Positions, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteGraph(g, pos, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadGraph decodes a JSON graph.
func ReadGraph(r io.Reader) (*depgraph.Graph, error) {
	var data Graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(data)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (*depgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}
