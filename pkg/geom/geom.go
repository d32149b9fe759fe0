// Package geom holds the small amount of planar geometry shared by the road
// generators, the graph store and the renderers.
//
// Points are gonum [r2.Vec] values so the generators can lean on gonum's
// vector helpers and spatial indexes without conversions.
package geom

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2D coordinate.
type Point = r2.Vec

// Pt is shorthand for constructing a Point.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Manhattan returns |a.X-b.X| + |a.Y-b.Y|.
func Manhattan(a, b Point) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Y-b.Y)
}

// Euclidean returns the straight-line distance between a and b.
func Euclidean(a, b Point) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Polar returns the point reached from origin by travelling length along angle
// (radians, counter-clockwise from +X).
func Polar(origin Point, angle, length float64) Point {
	return r2.Add(origin, Point{X: length * math.Cos(angle), Y: length * math.Sin(angle)})
}

// Segment is an undirected straight road piece between A and B.
type Segment struct {
	A, B Point
}

// Seg is shorthand for constructing a Segment from raw coordinates.
func Seg(ax, ay, bx, by float64) Segment {
	return Segment{A: Pt(ax, ay), B: Pt(bx, by)}
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 { return Euclidean(s.A, s.B) }

// String formats the segment as "(x1,y1)-(x2,y2)".
func (s Segment) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", s.A.X, s.A.Y, s.B.X, s.B.Y)
}

// MarshalJSON encodes the segment as [[x1, y1], [x2, y2]].
func (s Segment) MarshalJSON() ([]byte, error) {
	return json.Marshal([2][2]float64{{s.A.X, s.A.Y}, {s.B.X, s.B.Y}})
}

// UnmarshalJSON decodes the [[x1, y1], [x2, y2]] form.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var raw [2][2]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Seg(raw[0][0], raw[0][1], raw[1][0], raw[1][1])
	return nil
}

// Rect is an axis-aligned rectangle anchored at its minimum corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Area returns W*H.
func (r Rect) Area() float64 { return r.W * r.H }

// Edges returns the four boundary segments in the order
// bottom, right, top, left, walking the boundary counter-clockwise.
func (r Rect) Edges() [4]Segment {
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
	return [4]Segment{
		Seg(x0, y0, x1, y0),
		Seg(x1, y0, x1, y1),
		Seg(x1, y1, x0, y1),
		Seg(x0, y1, x0, y0),
	}
}

// Overlaps reports whether r and o share interior area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Bounds returns the smallest Rect containing every segment endpoint.
// An empty input yields the zero Rect.
func Bounds(segs []Segment) Rect {
	if len(segs) == 0 {
		return Rect{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range segs {
		for _, p := range [2]Point{s.A, s.B} {
			minX, maxX = min(minX, p.X), max(maxX, p.X)
			minY, maxY = min(minY, p.Y), max(maxY, p.Y)
		}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
