package depgraph

import (
	"math"
	"math/rand/v2"
)

// Layout defaults.
const (
	DefaultSpacing     = 2.5
	DefaultIterations  = 150
	DefaultSeed        = 42
	DefaultLabelOffset = 0.08
)

// LayoutOptions tunes the spring model.
type LayoutOptions struct {
	// Spacing is the optimal distance between nodes before rescaling.
	// Larger values spread the graph out.
	Spacing float64

	// Iterations of the cooling schedule.
	Iterations int

	// Seed for the initial positions. Equal seeds give equal layouts.
	// Nil selects DefaultSeed; zero is a valid seed.
	Seed *uint64

	// LabelOffset is the vertical distance of a label above its node, in
	// rescaled units.
	LabelOffset float64
}

// WithDefaults returns a copy with zero fields set to their defaults.
func (o LayoutOptions) WithDefaults() LayoutOptions {
	if o.Spacing <= 0 {
		o.Spacing = DefaultSpacing
	}
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.Seed == nil {
		o = o.WithSeed(DefaultSeed)
	}
	if o.LabelOffset == 0 {
		o.LabelOffset = DefaultLabelOffset
	}
	return o
}

// WithSeed returns a copy using seed.
func (o LayoutOptions) WithSeed(seed uint64) LayoutOptions {
	o.Seed = &seed
	return o
}

// Point is a 2D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Positions holds node and label coordinates.
type Positions struct {
	Nodes  map[string]Point
	Labels map[string]Point
}

// Layout computes a force-directed layout of g.
//
// Nodes are placed from a PRNG seeded with opts.Seed in sorted-name order,
// then relaxed with Fruchterman-Reingold: every pair repels with k²/d,
// every edge (taken as undirected) attracts with d²/k, and displacement is
// capped by a temperature that cools linearly to zero. Positions are then
// centered and scaled so the largest coordinate magnitude is 1.
func Layout(g *Graph, opts LayoutOptions) Positions {
	opts = opts.WithDefaults()
	names := g.Nodes()
	n := len(names)
	out := Positions{
		Nodes:  make(map[string]Point, n),
		Labels: make(map[string]Point, n),
	}
	if n == 0 {
		return out
	}

	index := make(map[string]int, n)
	for i, name := range names {
		index[name] = i
	}
	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for _, e := range g.edges {
		i, j := index[e.From], index[e.To]
		adj[i][j] = true
		adj[j][i] = true
	}

	seed := *opts.Seed
	rng := rand.New(rand.NewPCG(seed, seed))
	xs, ys := make([]float64, n), make([]float64, n)
	for i := range names {
		xs[i] = rng.Float64()
		ys[i] = rng.Float64()
	}

	relax(xs, ys, adj, opts.Spacing, opts.Iterations)
	rescale(xs, ys)

	for i, name := range names {
		out.Nodes[name] = Point{X: xs[i], Y: ys[i]}
		out.Labels[name] = Point{X: xs[i], Y: ys[i] + opts.LabelOffset}
	}
	return out
}

func relax(xs, ys []float64, adj [][]bool, k float64, iterations int) {
	n := len(xs)
	if n < 2 {
		return
	}

	// Initial temperature is a tenth of the larger extent of the start box.
	t := 0.1 * max(span(xs), span(ys))
	dt := t / float64(iterations+1)

	dx, dy := make([]float64, n), make([]float64, n)
	for it := 0; it < iterations; it++ {
		clear(dx)
		clear(dy)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				ddx, ddy := xs[i]-xs[j], ys[i]-ys[j]
				d := math.Max(math.Hypot(ddx, ddy), 0.01)
				f := k * k / (d * d)
				if adj[i][j] {
					f -= d / k
				}
				dx[i] += ddx * f
				dy[i] += ddy * f
			}
		}
		for i := 0; i < n; i++ {
			l := math.Hypot(dx[i], dy[i])
			if l < 0.01 {
				l = 0.1
			}
			xs[i] += dx[i] * t / l
			ys[i] += dy[i] * t / l
		}
		t -= dt
	}
}

func span(v []float64) float64 {
	lo, hi := v[0], v[0]
	for _, x := range v[1:] {
		lo, hi = min(lo, x), max(hi, x)
	}
	return hi - lo
}

// rescale centers both axes on zero and divides by the largest magnitude
// across both, keeping the aspect ratio.
func rescale(xs, ys []float64) {
	center(xs)
	center(ys)

	lim := 0.0
	for i := range xs {
		lim = max(lim, math.Abs(xs[i]), math.Abs(ys[i]))
	}
	if lim == 0 {
		return
	}
	for i := range xs {
		xs[i] /= lim
		ys[i] /= lim
	}
}

func center(v []float64) {
	mean := 0.0
	for _, x := range v {
		mean += x
	}
	mean /= float64(len(v))
	for i := range v {
		v[i] -= mean
	}
}
