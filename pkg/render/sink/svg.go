package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/roadweave/pkg/geom"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title   string
	width   float64
	padding float64
	stroke  string
	lineW   float64
	bg      string
}

// WithTitle adds a caption above the drawing.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithWidth sets the output width in pixels; height follows the aspect ratio.
func WithWidth(w float64) SVGOption { return func(r *svgRenderer) { r.width = w } }

// WithPadding sets the margin around the segments in coordinate units.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = p } }

// WithStroke sets the line colour and width.
func WithStroke(color string, width float64) SVGOption {
	return func(r *svgRenderer) { r.stroke, r.lineW = color, width }
}

// WithBackground fills the canvas with color.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.bg = color } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{width: 800, padding: 10, stroke: "black", lineW: 1.2}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

const titleHeight = 28.0

// RenderSVG draws segs as straight black lines.
func RenderSVG(segs []geom.Segment, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	box := geom.Bounds(segs)
	box.X -= r.padding
	box.Y -= r.padding
	box.W += 2 * r.padding
	box.H += 2 * r.padding
	if box.W <= 0 {
		box.W = 1
	}
	if box.H <= 0 {
		box.H = 1
	}

	scale := r.width / box.W
	height := box.H * scale
	top := 0.0
	if r.title != "" {
		top = titleHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, height+top, r.width, height+top)
	if r.bg != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escape(r.bg))
	}
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="16">%s</text>`+"\n",
			r.width/2, titleHeight*0.7, escape(r.title))
	}

	fmt.Fprintf(&buf, `  <g stroke="%s" stroke-width="%.2f" stroke-linecap="round" fill="none">`+"\n", escape(r.stroke), r.lineW)
	for _, s := range segs {
		x1, y1 := (s.A.X-box.X)*scale, top+(box.Y+box.H-s.A.Y)*scale
		x2, y2 := (s.B.X-box.X)*scale, top+(box.Y+box.H-s.B.Y)*scale
		fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", x1, y1, x2, y2)
	}
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
