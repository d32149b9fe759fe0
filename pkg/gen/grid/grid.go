// Package grid generates a city-block road layout by recursively splitting a
// rectangle and tracing the boundary of every leaf block.
//
// Each block is split along its longer side only (height on a tie), and only
// when that side exceeds twice the minimum block size.
package grid

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/geom"
)

// Options configures Generate.
type Options struct {
	Area     geom.Rect `json:"area"`
	MinSize  float64   `json:"min_size"`
	MaxDepth int       `json:"max_depth"`
}

// DefaultOptions returns a 400x400 area split into blocks no smaller than
// 40 units, at most 5 levels deep.
func DefaultOptions() Options {
	return Options{
		Area:     geom.Rect{W: 400, H: 400},
		MinSize:  40,
		MaxDepth: 5,
	}
}

// Validate reports option values that cannot produce a layout.
func (o Options) Validate() error {
	if err := errors.ValidatePositive("grid min size", o.MinSize); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("grid width", o.Area.W); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("grid height", o.Area.H); err != nil {
		return err
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid max depth must be >= 0, got %d", o.MaxDepth)
	}
	return nil
}

// Block is a leaf rectangle and the recursion depth it was produced at.
type Block struct {
	geom.Rect
	Depth int
}

// Result holds the leaf blocks and their distinct boundary segments.
type Result struct {
	Blocks []Block
	Edges  []geom.Segment
}

// Generate subdivides opts.Area. Leaf blocks are returned in depth-first
// order, and Edges lists each distinct boundary segment once, in the order
// it was first produced. Two segments are the same only when their start and
// end coordinates match exactly.
func Generate(rng *rand.Rand, opts Options) Result {
	var res Result
	subdivide(rng, Block{Rect: opts.Area}, opts, &res.Blocks)

	seen := make(map[geom.Segment]struct{}, 4*len(res.Blocks))
	for _, b := range res.Blocks {
		for _, e := range b.Edges() {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			res.Edges = append(res.Edges, e)
		}
	}
	return res
}

func subdivide(rng *rand.Rand, b Block, opts Options, out *[]Block) {
	lim := 2 * opts.MinSize
	if b.Depth >= opts.MaxDepth || (b.W < lim && b.H < lim) {
		*out = append(*out, b)
		return
	}

	var first, second Block
	switch wide := b.W > b.H; {
	case wide && b.W > lim:
		split := splitAt(rng, b.W, opts.MinSize)
		first = Block{Rect: geom.Rect{X: b.X, Y: b.Y, W: split, H: b.H}, Depth: b.Depth + 1}
		second = Block{Rect: geom.Rect{X: b.X + split, Y: b.Y, W: b.W - split, H: b.H}, Depth: b.Depth + 1}
	case !wide && b.H > lim:
		split := splitAt(rng, b.H, opts.MinSize)
		first = Block{Rect: geom.Rect{X: b.X, Y: b.Y, W: b.W, H: split}, Depth: b.Depth + 1}
		second = Block{Rect: geom.Rect{X: b.X, Y: b.Y + split, W: b.W, H: b.H - split}, Depth: b.Depth + 1}
	default:
		*out = append(*out, b)
		return
	}
	subdivide(rng, first, opts, out)
	subdivide(rng, second, opts, out)
}

// splitAt picks a whole-unit offset in [minSize, dim-minSize]. When no
// whole number fits that range the offset is drawn uniformly from it
// instead. Callers guarantee dim > 2*minSize.
func splitAt(rng *rand.Rand, dim, minSize float64) float64 {
	lo := int(math.Ceil(minSize))
	hi := int(math.Floor(dim - minSize))
	switch {
	case hi < lo:
		return minSize + rng.Float64()*(dim-2*minSize)
	case hi == lo:
		return float64(lo)
	}
	return float64(lo + rng.IntN(hi-lo+1))
}
