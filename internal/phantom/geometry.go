package phantom

import (
	"math"

	"github.com/hapticlab/tacton/internal/haptic"
)

// degenerateArea is the triangle area below which a triple is treated as
// collinear and skipped during triangle search.
const degenerateArea = 1e-9

// signedArea returns twice the signed area of triangle abc. Positive when
// abc winds counter-clockwise.
func signedArea(a, b, c haptic.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}

// barycentric computes the barycentric coordinates of p with respect to
// triangle abc. Coordinates sum to 1; any coordinate is negative when p
// lies outside the corresponding edge. Returns ok=false for a degenerate
// (collinear) triangle.
func barycentric(p, a, b, c haptic.Point) (wa, wb, wc float64, ok bool) {
	area := signedArea(a, b, c)
	if math.Abs(area) < degenerateArea {
		return 0, 0, 0, false
	}
	wa = signedArea(p, b, c) / area
	wb = signedArea(a, p, c) / area
	wc = 1 - wa - wb
	return wa, wb, wc, true
}

// dist returns the Euclidean distance between two points.
func dist(a, b haptic.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// distToSegment returns the distance from p to segment ab.
func distToSegment(p, a, b haptic.Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	l2 := abx*abx + aby*aby
	if l2 == 0 {
		return dist(p, a)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / l2
	t = math.Max(0, math.Min(1, t))
	return dist(p, haptic.Point{X: a.X + t*abx, Y: a.Y + t*aby})
}

// distToTriangle returns 0 when p is inside (or on) triangle abc, else the
// distance from p to the nearest triangle edge.
func distToTriangle(p, a, b, c haptic.Point) float64 {
	wa, wb, wc, ok := barycentric(p, a, b, c)
	if ok && wa >= 0 && wb >= 0 && wc >= 0 {
		return 0
	}
	d := distToSegment(p, a, b)
	d = math.Min(d, distToSegment(p, b, c))
	d = math.Min(d, distToSegment(p, c, a))
	return d
}
