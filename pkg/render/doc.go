// Package render groups the road network visualizations.
//
//   - [nodelink] draws a stored network (nodes plus adjacency) through
//     Graphviz, with one-way roads shown as arrows.
//   - [sink] draws a generator's raw segment list as plain SVG lines.
//
// Neither renderer influences generation; both only read what they are
// given.
//
// [nodelink]: github.com/matzehuels/roadweave/pkg/render/nodelink
// [sink]: github.com/matzehuels/roadweave/pkg/render/sink
package render
