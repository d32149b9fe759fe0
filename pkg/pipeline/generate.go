package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/gen"
	"github.com/matzehuels/roadweave/pkg/gen/grid"
	"github.com/matzehuels/roadweave/pkg/gen/organic"
	"github.com/matzehuels/roadweave/pkg/gen/radial"
	"github.com/matzehuels/roadweave/pkg/geom"
)

// generated is the cached form of a generator run.
type generated struct {
	Segments []geom.Segment  `json:"segments"`
	Rejected int             `json:"rejected,omitempty"`
	Graph    json.RawMessage `json:"graph"`
}

// graphKey is hashed into the graph cache key.
type graphKey struct {
	Generator any    `json:"generator"`
	Direction string `json:"direction"`
	Precision int    `json:"precision"`
}

// runGenerator runs the selected generator from a fresh source seeded with
// opts.Seed. opts must already be validated.
func runGenerator(opts Options) (segs []geom.Segment, rejected int, err error) {
	rng := gen.NewRand(opts.Seed)
	switch gen.Strategy(opts.Strategy) {
	case gen.Grid:
		res := grid.Generate(rng, *opts.Grid)
		return res.Edges, 0, nil
	case gen.Organic:
		res := organic.Generate(rng, *opts.Organic)
		return res.Edges, res.Rejected, nil
	case gen.Radial:
		res, err := radial.Generate(rng, *opts.Radial)
		if err != nil {
			return nil, 0, err
		}
		return res.Segments(), 0, nil
	}
	return nil, 0, errors.New(errors.ErrCodeInvalidStrategy, "unknown strategy %q", opts.Strategy)
}
