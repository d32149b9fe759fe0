package server

import (
	"github.com/matzehuels/roadweave/pkg/errors"
	"github.com/matzehuels/roadweave/pkg/pipeline"
)

// Limits caps the work a single request may ask for. Generator blocks
// left out of a request use the package defaults, which are well inside
// these bounds.
type Limits struct {
	MaxGridDepth      int // grid subdivision depth; leaves are at most 2^depth
	MaxOrganicSegs    int // organic segment budget
	MaxRadialSpokeSum int // radial ring_count * max_spokes
}

// DefaultLimits are the ceilings applied by New.
var DefaultLimits = Limits{
	MaxGridDepth:      16,
	MaxOrganicSegs:    20000,
	MaxRadialSpokeSum: 20000,
}

// check returns INVALID_CONFIG when opts exceed l.
func (l Limits) check(opts pipeline.Options) error {
	if g := opts.Grid; g != nil && g.MaxDepth > l.MaxGridDepth {
		return errors.New(errors.ErrCodeInvalidConfig,
			"grid max depth %d exceeds the server limit of %d", g.MaxDepth, l.MaxGridDepth)
	}
	if o := opts.Organic; o != nil && o.MaxSegments > l.MaxOrganicSegs {
		return errors.New(errors.ErrCodeInvalidConfig,
			"organic max segments %d exceeds the server limit of %d", o.MaxSegments, l.MaxOrganicSegs)
	}
	if r := opts.Radial; r != nil {
		// compare in int64 so huge inputs cannot overflow past the limit
		if int64(r.RingCount)*int64(r.MaxSpokes) > int64(l.MaxRadialSpokeSum) {
			return errors.New(errors.ErrCodeInvalidConfig,
				"radial ring count %d with %d spokes exceeds the server limit of %d",
				r.RingCount, r.MaxSpokes, l.MaxRadialSpokeSum)
		}
	}
	return nil
}
