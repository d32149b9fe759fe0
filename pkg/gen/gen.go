package gen

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/matzehuels/roadweave/pkg/errors"
)

// NewRand returns the PCG source used for one generation run.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// DeriveSeed returns a seed for the i-th of several runs started from base,
// so concurrent runs never share a source.
func DeriveSeed(base uint64, i int) uint64 {
	// splitmix64 step
	z := base + uint64(i+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Strategy names a road generator.
type Strategy string

const (
	Grid    Strategy = "grid"
	Organic Strategy = "organic"
	Radial  Strategy = "radial"
)

// Strategies lists every generator in display order.
var Strategies = []Strategy{Grid, Organic, Radial}

var aliases = map[string]Strategy{
	"block":  Grid,
	"blocks": Grid,
	"ring":   Radial,
	"rings":  Radial,
}

// ParseStrategy resolves a strategy name, case-insensitively. "block" is
// accepted for grid and "ring" for radial.
func ParseStrategy(s string) (Strategy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if st := Strategy(name); slices.Contains(Strategies, st) {
		return st, nil
	}
	if st, ok := aliases[name]; ok {
		return st, nil
	}
	return "", errors.New(errors.ErrCodeInvalidStrategy, "unknown strategy %q (want grid, organic or radial)", s)
}

// Description is a one-line summary of the strategy for menus and help text.
func (s Strategy) Description() string {
	switch s {
	case Grid:
		return "recursive block subdivision"
	case Organic:
		return "frontier growth from a point"
	case Radial:
		return "concentric rings and spokes"
	}
	return ""
}
