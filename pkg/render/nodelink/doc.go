// Package nodelink draws a road network as a node-link diagram.
//
// # Overview
//
// Nodes are pinned at their stored coordinates, so the picture is a map of
// the network rather than an abstract layout. One-way ("uni") roads are
// drawn with an arrowhead in their direction of travel; two-way ("bi")
// roads are plain lines drawn once per edge even though the adjacency index
// lists them under both endpoints.
//
// The package only reads the nodes and adjacency it is given.
//
// # Usage
//
//	nodes, adj, err := io.ImportJSON("network.json")
//	dot := nodelink.ToDOT(nodes, adj, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # DOT Format
//
// [ToDOT] emits Graphviz DOT with layout=neato and pos="x,y!" on every
// node, so any Graphviz install reproduces the same drawing. Y is flipped
// relative to screen coordinates by Graphviz itself, so north is up.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which bundles Graphviz as
// WebAssembly; no system install is needed.
package nodelink
