// Package gen holds what the road generators share: the seeded random
// source, the strategy names, and the conversion of a generator's raw edge
// list into a [roadgraph.Store].
//
// The generators themselves live in subpackages:
//
//   - [github.com/matzehuels/roadweave/pkg/gen/grid] recursively subdivides a
//     rectangle into city blocks.
//   - [github.com/matzehuels/roadweave/pkg/gen/organic] grows roads outward
//     from a point along a prioritised frontier.
//   - [github.com/matzehuels/roadweave/pkg/gen/radial] lays out concentric
//     rings joined by spokes.
//
// Every generator takes an explicit *rand.Rand so a run is reproducible from
// its seed:
//
//	rng := gen.NewRand(42)
//	res := grid.Generate(rng, grid.DefaultOptions())
//	store, err := gen.BuildGraph(res.Edges, gen.BuildOptions{Direction: roadgraph.Bi})
package gen
