// Package radial lays out a ring-road city: concentric rings around a
// centre, joined by spokes, with the occasional diagonal shortcut between
// neighbouring spokes.
//
// Ring radii grow evenly from the centre and are nudged by 1-D Perlin noise
// so the spacing is irregular but smooth. Inner rings carry the most spokes;
// each ring outward has one fewer.
package radial

import (
	"math"
	"math/rand/v2"

	"github.com/aquilax/go-perlin"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/geom"
)

// Perlin parameters matching a single-octave noise1 call.
const (
	noiseAlpha   = 2
	noiseBeta    = 2
	noiseOctaves = 1
	maxNoiseSeed = 1000
)

// Options configures Generate.
type Options struct {
	Center       geom.Point `json:"center"`
	BaseRadius   float64    `json:"base_radius"` // radius of the outermost ring before noise
	RingCount    int        `json:"ring_count"`
	MaxSpokes    int        `json:"max_spokes"` // spokes on the innermost ring
	Jitter       float64    `json:"jitter"`
	ShortcutProb float64    `json:"shortcut_prob"`

	NoiseAmplitude float64 `json:"noise_amplitude"`
	NoiseScale     float64 `json:"noise_scale"`
	OuterExtension float64 `json:"outer_extension"` // spoke length past the outermost ring
	AngleJitter    float64 `json:"angle_jitter"`    // radians
}

// DefaultOptions returns six rings out to radius 180 around (200, 200).
func DefaultOptions() Options {
	return Options{
		Center:         geom.Pt(200, 200),
		BaseRadius:     180,
		RingCount:      6,
		MaxSpokes:      18,
		Jitter:         6,
		ShortcutProb:   0.08,
		NoiseAmplitude: 20,
		NoiseScale:     0.2,
		OuterExtension: 25,
		AngleJitter:    0.05,
	}
}

// Validate reports option values that cannot produce a layout. Every ring
// needs at least one spoke, so MaxSpokes must be at least RingCount.
func (o Options) Validate() error {
	if o.RingCount < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "radial ring count must be >= 1, got %d", o.RingCount)
	}
	if last := o.MaxSpokes - (o.RingCount - 1); last < 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"radial: %d rings need at least %d spokes, got %d", o.RingCount, o.RingCount, o.MaxSpokes)
	}
	if err := errors.ValidatePositive("radial base radius", o.BaseRadius); err != nil {
		return err
	}
	for name, v := range map[string]float64{
		"radial jitter":          o.Jitter,
		"radial noise amplitude": o.NoiseAmplitude,
		"radial outer extension": o.OuterExtension,
		"radial angle jitter":    o.AngleJitter,
	} {
		if err := errors.ValidateNonNegative(name, v); err != nil {
			return err
		}
	}
	return errors.ValidateProbability("radial shortcut probability", o.ShortcutProb)
}

// Kind classifies a generated edge.
type Kind int

const (
	RingEdge     Kind = iota // along a ring between adjacent spokes
	SpokeEdge                // outward to the next ring
	ShortcutEdge             // diagonal between the outer ends of adjacent spokes
)

func (k Kind) String() string {
	switch k {
	case RingEdge:
		return "ring"
	case SpokeEdge:
		return "spoke"
	case ShortcutEdge:
		return "shortcut"
	}
	return "unknown"
}

// Ring describes one generated ring. Index 0 is innermost.
type Ring struct {
	Index  int
	Radius float64
	Spokes int
}

// Edge is a generated segment tagged with its kind and the ring it
// starts from.
type Edge struct {
	geom.Segment
	Kind Kind
	Ring int
}

// Result holds the rings and every edge in emission order.
type Result struct {
	Rings []Ring
	Edges []Edge
}

// Segments returns the edges without their tags.
func (r Result) Segments() []geom.Segment {
	out := make([]geom.Segment, len(r.Edges))
	for i, e := range r.Edges {
		out[i] = e.Segment
	}
	return out
}

// Count returns how many edges of kind k start on ring.
func (r Result) Count(ring int, k Kind) int {
	n := 0
	for _, e := range r.Edges {
		if e.Ring == ring && e.Kind == k {
			n++
		}
	}
	return n
}

// Generate lays out the rings and spokes. It returns INVALID_CONFIG without
// drawing from rng if opts fail [Options.Validate].
func Generate(rng *rand.Rand, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	seed := rng.IntN(maxNoiseSeed + 1)
	noise := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, int64(seed))

	res := Result{Rings: make([]Ring, opts.RingCount)}
	for i := range res.Rings {
		scale := opts.BaseRadius * float64(i+1) / float64(opts.RingCount)
		offset := noise.Noise1D(float64(i+1)*opts.NoiseScale+float64(seed)) * opts.NoiseAmplitude
		res.Rings[i] = Ring{Index: i, Radius: scale + offset, Spokes: opts.MaxSpokes - i}
	}

	uniform := func(spread float64) float64 { return (rng.Float64()*2 - 1) * spread }
	at := func(r, angle float64) geom.Point { return geom.Polar(opts.Center, angle, r) }

	for i, ring := range res.Rings {
		next := ring.Radius + opts.OuterExtension
		if i+1 < len(res.Rings) {
			next = res.Rings[i+1].Radius
		}

		step := 2 * math.Pi / float64(ring.Spokes)
		for j := range ring.Spokes {
			angle := float64(j)*step + uniform(opts.AngleJitter)
			angleNext := float64(j+1)*step + uniform(opts.AngleJitter)

			r1 := ring.Radius + uniform(opts.Jitter)
			r2 := ring.Radius + uniform(opts.Jitter)
			r3 := next + uniform(opts.Jitter)

			p1, p2, p3 := at(r1, angle), at(r2, angleNext), at(r3, angle)
			res.Edges = append(res.Edges,
				Edge{Segment: geom.Segment{A: p1, B: p2}, Kind: RingEdge, Ring: i},
				Edge{Segment: geom.Segment{A: p1, B: p3}, Kind: SpokeEdge, Ring: i},
			)
			if rng.Float64() < opts.ShortcutProb {
				res.Edges = append(res.Edges, Edge{
					Segment: geom.Segment{A: p3, B: at(r3, angleNext)},
					Kind:    ShortcutEdge,
					Ring:    i,
				})
			}
		}
	}
	return res, nil
}
