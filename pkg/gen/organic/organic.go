package organic

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/geom"
)

const (
	seedCount      = 8
	branchAngle    = 18 * math.Pi / 180
	maxBend        = 0.15
	ownWeight      = 0.6
	baseStopChance = 0.03
	minChildLength = 14.0
	maxChildLength = 22.0
	shortAfter     = 10  // priority from which children use minChildLength
	minBranchKeep  = 0.3 // floor on the chance of keeping a child
)

// Options configures Generate.
type Options struct {
	Start         geom.Point `json:"start"`
	MaxSegments   int        `json:"max_segments"`
	MergeDistance float64    `json:"merge_distance"`
	SeedLength    float64    `json:"seed_length"`
}

// DefaultOptions grows up to 400 segments from the origin, keeping endpoints
// at least 12 units apart.
func DefaultOptions() Options {
	return Options{
		MaxSegments:   400,
		MergeDistance: 12,
		SeedLength:    25,
	}
}

// Validate reports option values that cannot produce a network.
func (o Options) Validate() error {
	if o.MaxSegments <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "organic max segments must be > 0, got %d", o.MaxSegments)
	}
	if err := errors.ValidateNonNegative("organic merge distance", o.MergeDistance); err != nil {
		return err
	}
	return errors.ValidatePositive("organic seed length", o.SeedLength)
}

// Segment is one accepted road piece.
type Segment struct {
	Start   geom.Point
	Heading float64 // radians, counter-clockwise from +X
	Length  float64
	// Priority counts generations from the seed ring, which is 0.
	Priority int
	// ParentPriority is the priority of the segment this one grew from,
	// or -1 for a seed.
	ParentPriority int
}

// End returns the segment's far endpoint.
func (s Segment) End() geom.Point { return geom.Polar(s.Start, s.Heading, s.Length) }

// Geometry returns the segment as a plain start/end pair.
func (s Segment) Geometry() geom.Segment { return geom.Segment{A: s.Start, B: s.End()} }

// Result holds the accepted segments in acceptance order.
type Result struct {
	Segments []Segment
	Edges    []geom.Segment
	// Rejected counts segments dropped for landing too close to an
	// accepted endpoint.
	Rejected int
}

// Generate runs frontier growth from opts.Start.
func Generate(rng *rand.Rand, opts Options) Result {
	var (
		res   Result
		queue = newFrontier()
		ends  endpoints
	)

	for i := range seedCount {
		queue.push(candidate{Segment: Segment{
			Start:          opts.Start,
			Heading:        float64(i) * 2 * math.Pi / seedCount,
			Length:         opts.SeedLength,
			ParentPriority: -1,
		}})
	}

	for queue.len() > 0 && len(res.Segments) < opts.MaxSegments {
		cur, _ := queue.pop()
		end := cur.End()
		if ends.within(end, opts.MergeDistance) {
			res.Rejected++
			continue
		}
		res.Segments = append(res.Segments, cur.Segment)
		ends.add(end)

		if rng.Float64() < stopChance(cur.Priority, opts.MaxSegments) {
			continue
		}

		heading := cur.Heading
		if cur.hasParent {
			heading = ownWeight*cur.Heading + (1-ownWeight)*cur.parentHeading
		}
		keep := max(minBranchKeep, 1-float64(cur.Priority)/100)
		for _, offset := range [3]float64{0, branchAngle, -branchAngle} {
			if rng.Float64() > keep {
				continue
			}
			bend := (rng.Float64()*2 - 1) * maxBend
			queue.push(candidate{
				Segment: Segment{
					Start:          end,
					Heading:        heading + offset + bend,
					Length:         childLength(rng, cur.Priority),
					Priority:       cur.Priority + 1,
					ParentPriority: cur.Priority,
				},
				parentHeading: cur.Heading,
				hasParent:     true,
			})
		}
	}

	res.Edges = make([]geom.Segment, len(res.Segments))
	for i, s := range res.Segments {
		res.Edges[i] = s.Geometry()
	}
	return res
}

func stopChance(priority, maxSegments int) float64 {
	return baseStopChance + float64(priority)/(float64(maxSegments)*1.5)
}

func childLength(rng *rand.Rand, priority int) float64 {
	hi := minChildLength
	if priority < shortAfter {
		hi = maxChildLength
	}
	return minChildLength + rng.Float64()*(hi-minChildLength)
}
