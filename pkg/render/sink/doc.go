// Package sink draws raw generator output, a flat list of road segments, as
// SVG. It is the quick look at a generator run before the segments are
// turned into a graph.
//
// Basic usage:
//
//	res := grid.Generate(rng, grid.DefaultOptions())
//	svg := sink.RenderSVG(res.Edges, sink.WithTitle("Block/Grid Road Network"))
//
// The drawing is fitted to the segments' bounding box with a margin, and the
// Y axis points up as in the generators' coordinate space.
package sink
