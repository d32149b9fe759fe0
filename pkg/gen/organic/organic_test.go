package organic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/gen"
	"github.com/matzehuels/roadweave/pkg/geom"
)

type GrowthSuite struct {
	suite.Suite
	runs map[uint64]Result
}

func (s *GrowthSuite) SetupSuite() {
	s.runs = make(map[uint64]Result)
	for seed := range uint64(12) {
		s.runs[seed] = Generate(gen.NewRand(seed), DefaultOptions())
	}
}

func TestGrowthSuite(t *testing.T) {
	suite.Run(t, new(GrowthSuite))
}

func (s *GrowthSuite) TestEndpointsKeepMergeDistance() {
	d := DefaultOptions().MergeDistance
	for seed, res := range s.runs {
		for i, a := range res.Segments {
			for _, b := range res.Segments[i+1:] {
				s.Require().GreaterOrEqual(geom.Euclidean(a.End(), b.End()), d,
					"seed %d: endpoints %v and %v too close", seed, a.End(), b.End())
			}
		}
	}
}

func (s *GrowthSuite) TestSegmentCountBounded() {
	for seed, res := range s.runs {
		s.LessOrEqual(len(res.Segments), DefaultOptions().MaxSegments, "seed %d", seed)
		s.Len(res.Edges, len(res.Segments))
	}
}

func (s *GrowthSuite) TestChildPriorityExceedsParent() {
	for _, res := range s.runs {
		for _, seg := range res.Segments {
			if seg.ParentPriority < 0 {
				s.Zero(seg.Priority)
				continue
			}
			s.Equal(seg.ParentPriority+1, seg.Priority)
		}
	}
}

func (s *GrowthSuite) TestAcceptedInPriorityOrder() {
	for _, res := range s.runs {
		for i := 1; i < len(res.Segments); i++ {
			s.LessOrEqual(res.Segments[i-1].Priority, res.Segments[i].Priority)
		}
	}
}

func (s *GrowthSuite) TestChildrenStartAtAcceptedEnds() {
	for _, res := range s.runs {
		ends := map[geom.Point]bool{}
		for _, seg := range res.Segments {
			if seg.ParentPriority >= 0 {
				s.True(ends[seg.Start], "segment starts at %v, not an accepted endpoint", seg.Start)
			}
			ends[seg.End()] = true
		}
	}
}

func (s *GrowthSuite) TestChildLengths() {
	for _, res := range s.runs {
		for _, seg := range res.Segments {
			switch {
			case seg.ParentPriority < 0:
				s.Equal(DefaultOptions().SeedLength, seg.Length)
			case seg.ParentPriority < shortAfter:
				s.GreaterOrEqual(seg.Length, minChildLength)
				s.Less(seg.Length, maxChildLength)
			default:
				s.Equal(minChildLength, seg.Length)
			}
		}
	}
}

func TestSeedRing(t *testing.T) {
	opts := Options{Start: geom.Pt(50, -20), MaxSegments: 8, MergeDistance: 1, SeedLength: 25}
	res := Generate(gen.NewRand(1), opts)

	require.Len(t, res.Segments, 8)
	for i, seg := range res.Segments {
		assert.Equal(t, -1, seg.ParentPriority)
		assert.Equal(t, opts.Start, seg.Start)
		assert.InDelta(t, float64(i)*math.Pi/4, seg.Heading, 1e-12)
		assert.InDelta(t, 25, geom.Euclidean(seg.Start, seg.End()), 1e-9)
	}
}

func TestLargeMergeDistanceRejects(t *testing.T) {
	// seed endpoints are ~19 apart, so only every other one survives
	opts := Options{MaxSegments: 400, MergeDistance: 30, SeedLength: 25}
	res := Generate(gen.NewRand(5), opts)

	require.NotEmpty(t, res.Segments)
	assert.Positive(t, res.Rejected)
	assert.Equal(t, 0.0, res.Segments[0].Heading)
}

func TestFrontierFIFOWithinPriority(t *testing.T) {
	f := newFrontier()
	f.push(candidate{Segment: Segment{Priority: 2, Length: 1}})
	f.push(candidate{Segment: Segment{Priority: 1, Length: 2}})
	f.push(candidate{Segment: Segment{Priority: 2, Length: 3}})
	f.push(candidate{Segment: Segment{Priority: 1, Length: 4}})

	var got []float64
	for f.len() > 0 {
		c, ok := f.pop()
		require.True(t, ok)
		got = append(got, c.Length)
	}
	assert.Equal(t, []float64{2, 4, 1, 3}, got)
}

func TestEndpointIndex(t *testing.T) {
	var e endpoints
	assert.False(t, e.within(geom.Pt(0, 0), 100))

	e.add(geom.Pt(0, 0))
	e.add(geom.Pt(10, 10))
	assert.True(t, e.within(geom.Pt(3, 4), 5.5))
	assert.False(t, e.within(geom.Pt(3, 4), 5))
	assert.False(t, e.within(geom.Pt(30, 30), 12))
}

func TestStopChanceGrowsWithDepth(t *testing.T) {
	assert.InDelta(t, 0.03, stopChance(0, 400), 1e-12)
	assert.Greater(t, stopChance(50, 400), stopChance(10, 400))
}

func TestDeterministic(t *testing.T) {
	a := Generate(gen.NewRand(77), DefaultOptions())
	b := Generate(gen.NewRand(77), DefaultOptions())
	assert.Equal(t, a, b)
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())

	for name, mutate := range map[string]func(*Options){
		"max segments": func(o *Options) { o.MaxSegments = 0 },
		"merge":        func(o *Options) { o.MergeDistance = -1 },
		"seed length":  func(o *Options) { o.SeedLength = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			o := DefaultOptions()
			mutate(&o)
			assert.True(t, errors.Is(o.Validate(), errors.ErrCodeInvalidConfig))
		})
	}
}
