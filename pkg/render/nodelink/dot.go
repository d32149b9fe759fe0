package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/roadweave/pkg/roadgraph"
)

// Default drawing colours.
const (
	nodeColor = "#1f77b4"
	roadColor = "#bbbbbb"
	uniColor  = "#ff6f61"
	textColor = "#333333"
	bgColor   = "#f9f9f9"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Scale is the number of points per coordinate unit. Zero means 1.
	Scale float64
	// Labels shows each node's id next to it.
	Labels bool
	// NodeSize is the node diameter in inches. Zero means 0.12.
	NodeSize float64
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.NodeSize <= 0 {
		o.NodeSize = 0.12
	}
	return o
}

// ToDOT converts a road network to Graphviz DOT. Nodes and edges are written
// in ascending id order so the output is stable for a given network.
// Adjacency entries whose endpoint is missing from nodes are skipped.
func ToDOT(nodes roadgraph.Nodes, adj roadgraph.Adjacency, opts Options) string {
	opts = opts.withDefaults()

	var buf bytes.Buffer
	buf.WriteString("digraph roads {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", bgColor)
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fillcolor=%q, color=white, penwidth=1.5, fixedsize=true, width=%.2f, label=\"\", fontsize=10, fontcolor=%q];\n",
		nodeColor, opts.NodeSize, textColor)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=1];\n", roadColor)
	buf.WriteString("\n")

	ids := nodes.IDs()
	for _, id := range ids {
		p := nodes[id]
		attrs := fmt.Sprintf("pos=\"%s,%s!\"", fmtCoord(p.X*opts.Scale), fmtCoord(p.Y*opts.Scale))
		if opts.Labels {
			attrs += fmt.Sprintf(", xlabel=%q", id.String())
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id.String(), attrs)
	}

	buf.WriteString("\n")
	loops := make(map[roadgraph.ID]int)
	for _, from := range ids {
		for _, nb := range adj[from] {
			if _, ok := nodes[nb.ID]; !ok {
				continue
			}
			switch nb.Direction {
			case roadgraph.Uni:
				fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=1.5, arrowsize=0.7];\n", from.String(), nb.ID.String(), uniColor)
			case roadgraph.Bi:
				if !drawBi(from, nb.ID, loops) {
					continue
				}
				fmt.Fprintf(&buf, "  %q -> %q [dir=none];\n", from.String(), nb.ID.String())
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// drawBi picks one of the two adjacency entries a bi edge produces.
// A bi self-loop lists both entries under the same node, so every second
// one is drawn.
func drawBi(from, to roadgraph.ID, loops map[roadgraph.ID]int) bool {
	if from != to {
		return from < to
	}
	loops[from]++
	return loops[from]%2 == 1
}

func fmtCoord(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg tag with a unitless one
// so the drawing scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
