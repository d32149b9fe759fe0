package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/gen"
	"github.com/matzehuels/roadweave/pkg/geom"
)

func TestBlocksTileArea(t *testing.T) {
	opts := DefaultOptions()
	for seed := range uint64(20) {
		res := Generate(gen.NewRand(seed), opts)
		require.NotEmpty(t, res.Blocks)

		var total float64
		for i, b := range res.Blocks {
			total += b.Area()
			assert.GreaterOrEqual(t, b.X, opts.Area.X)
			assert.GreaterOrEqual(t, b.Y, opts.Area.Y)
			assert.LessOrEqual(t, b.X+b.W, opts.Area.X+opts.Area.W)
			assert.LessOrEqual(t, b.Y+b.H, opts.Area.Y+opts.Area.H)
			for _, o := range res.Blocks[i+1:] {
				require.False(t, b.Overlaps(o.Rect), "seed %d: %v overlaps %v", seed, b, o)
			}
		}
		assert.InDelta(t, opts.Area.Area(), total, 1e-9, "seed %d", seed)
	}
}

func TestDepthAndSizeBounds(t *testing.T) {
	opts := Options{Area: geom.Rect{X: 10, Y: -20, W: 637, H: 311}, MinSize: 25, MaxDepth: 3}
	for seed := range uint64(20) {
		res := Generate(gen.NewRand(seed), opts)
		for _, b := range res.Blocks {
			assert.LessOrEqual(t, b.Depth, opts.MaxDepth)
			if b.Depth > 0 {
				// a split never leaves a child below the minimum
				assert.True(t, b.W >= opts.MinSize || b.H >= opts.MinSize)
			}
		}
	}
}

func TestSplitRespectsMinimum(t *testing.T) {
	opts := Options{Area: geom.Rect{W: 100, H: 30}, MinSize: 40, MaxDepth: 1}
	for seed := range uint64(50) {
		res := Generate(gen.NewRand(seed), opts)
		require.Len(t, res.Blocks, 2)
		for _, b := range res.Blocks {
			assert.GreaterOrEqual(t, b.W, 40.0)
			assert.Equal(t, 30.0, b.H)
			assert.Equal(t, 1, b.Depth)
		}
	}
}

func TestFractionalMinimum(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no whole split fits", Options{Area: geom.Rect{W: 81.2, H: 10}, MinSize: 40.5, MaxDepth: 1}},
		{"below one unit", Options{Area: geom.Rect{W: 3, H: 3}, MinSize: 0.4, MaxDepth: 6}},
		{"fraction above one", Options{Area: geom.Rect{W: 9.7, H: 4.1}, MinSize: 1.6, MaxDepth: 8}},
	}
	const eps = 1e-9
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := range uint64(30) {
				res := Generate(gen.NewRand(seed), tt.opts)
				require.Greater(t, len(res.Blocks), 1)
				for _, b := range res.Blocks {
					assert.GreaterOrEqual(t, b.W, tt.opts.MinSize-eps, "seed %d: %v", seed, b)
					assert.GreaterOrEqual(t, b.H, tt.opts.MinSize-eps, "seed %d: %v", seed, b)
				}
			}
		})
	}
}

func TestSmallAreaIsSingleBlock(t *testing.T) {
	area := geom.Rect{X: 5, Y: 5, W: 50, H: 70}
	res := Generate(gen.NewRand(1), Options{Area: area, MinSize: 40, MaxDepth: 5})

	require.Len(t, res.Blocks, 1)
	assert.Equal(t, area, res.Blocks[0].Rect)
	assert.Equal(t, 0, res.Blocks[0].Depth)
	edges := area.Edges()
	assert.Equal(t, edges[:], res.Edges)
}

func TestZeroDepthIsSingleBlock(t *testing.T) {
	res := Generate(gen.NewRand(1), Options{Area: geom.Rect{W: 400, H: 400}, MinSize: 40})
	assert.Len(t, res.Blocks, 1)
	assert.Len(t, res.Edges, 4)
}

func TestZeroSizeAreaTerminates(t *testing.T) {
	res := Generate(gen.NewRand(1), Options{Area: geom.Rect{}, MinSize: 40, MaxDepth: 5})
	require.Len(t, res.Blocks, 1)
	assert.NotEmpty(t, res.Edges)
}

func TestSideOfExactlyTwiceMinimumIsLeaf(t *testing.T) {
	opts := Options{Area: geom.Rect{W: 90, H: 85}, MinSize: 45, MaxDepth: 4}
	res := Generate(gen.NewRand(3), opts)
	require.Len(t, res.Blocks, 1, "a split needs the longer side to exceed 2*MinSize")
}

func TestEdgesAreDistinct(t *testing.T) {
	res := Generate(gen.NewRand(11), DefaultOptions())
	seen := map[geom.Segment]bool{}
	for _, e := range res.Edges {
		assert.False(t, seen[e], "duplicate edge %v", e)
		seen[e] = true
	}
	assert.Less(t, len(res.Edges), 4*len(res.Blocks)+1)
}

func TestDeterministic(t *testing.T) {
	a := Generate(gen.NewRand(99), DefaultOptions())
	b := Generate(gen.NewRand(99), DefaultOptions())
	assert.Equal(t, a, b)
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	bad := DefaultOptions()
	bad.MinSize = 0
	assert.True(t, errors.Is(bad.Validate(), errors.ErrCodeInvalidConfig))

	bad = DefaultOptions()
	bad.MaxDepth = -1
	assert.True(t, errors.Is(bad.Validate(), errors.ErrCodeInvalidConfig))
}
