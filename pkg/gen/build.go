package gen

import (
	"math"

	"github.com/matzehuels/roadweave/pkg/geom"
	"github.com/matzehuels/roadweave/pkg/roadgraph"
)

// BuildOptions controls how segments become graph edges.
type BuildOptions struct {
	// Direction applied to every edge. Empty means bi.
	Direction roadgraph.Direction
	// Precision is the number of decimals kept when matching endpoints.
	// Zero rounds to whole units.
	Precision int
	// Store options, e.g. a logger.
	StoreOptions []roadgraph.Option
}

// DefaultBuildOptions matches endpoints to a thousandth of a unit and makes
// every road two-way.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Direction: roadgraph.Bi, Precision: 3}
}

// BuildGraph loads segments into a new Store. Endpoints that agree after
// rounding share a node; nodes are numbered in first-seen order. Segments
// that collapse to a single node are skipped, as are repeats of an edge
// already added (either orientation for bi edges).
func BuildGraph(segments []geom.Segment, opts BuildOptions) (*roadgraph.Store, error) {
	dir := opts.Direction
	if dir == "" {
		dir = roadgraph.Bi
	}
	if _, err := roadgraph.ParseDirection(string(dir)); err != nil {
		return nil, err
	}

	scale := math.Pow(10, float64(max(opts.Precision, 0)))
	round := func(p geom.Point) geom.Point {
		return geom.Pt(math.Round(p.X*scale)/scale, math.Round(p.Y*scale)/scale)
	}

	s := roadgraph.New(opts.StoreOptions...)
	ids := make(map[geom.Point]roadgraph.ID)
	node := func(p geom.Point) roadgraph.ID {
		p = round(p)
		if id, ok := ids[p]; ok {
			return id
		}
		id := s.AddNode(p.X, p.Y)
		ids[p] = id
		return id
	}

	type pair struct{ a, b roadgraph.ID }
	seen := make(map[pair]struct{})
	for _, seg := range segments {
		a, b := node(seg.A), node(seg.B)
		if a == b {
			continue
		}
		k := pair{a, b}
		if dir == roadgraph.Bi && b < a {
			k = pair{b, a}
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if err := s.AddEdge(a, b, dir); err != nil {
			return nil, err
		}
	}
	return s, nil
}
