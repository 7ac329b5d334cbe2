// Package phantom maps canvas points onto the sparse physical actuator grid.
//
// A point rarely falls exactly on a motor. Phantom-sensation rendering
// drives the three motors of the geometrically enclosing triangle at
// weights that together read as a single virtual tactor at the point
// (energy-model weighting after Park et al. 2016). Resolution is pure and
// deterministic: the same (point, layout, mode) always yields the same
// assignment, which keeps preview and device playback identical.
package phantom

import (
	"math"

	"github.com/hapticlab/tacton/internal/haptic"
)

// Mode selects how a point is rendered onto the layout.
type Mode int

const (
	// Phantom3 renders a virtual sensation via a weighted triple of the
	// enclosing triangle's actuators.
	Phantom3 Mode = iota + 1

	// PhysicalNearest1 snaps to the single nearest physical actuator.
	PhysicalNearest1
)

// String returns the mode's configuration-file name.
func (m Mode) String() string {
	switch m {
	case Phantom3:
		return "phantom3"
	case PhysicalNearest1:
		return "nearest1"
	default:
		return "unknown"
	}
}

// ParseMode converts a configuration-file name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "phantom3", "":
		return Phantom3, nil
	case "nearest1":
		return PhysicalNearest1, nil
	default:
		return 0, haptic.NewInvalidParamsError("mode", "must be phantom3 or nearest1")
	}
}

// weightEpsilon guards renormalization against an all-zero clamp result.
const weightEpsilon = 1e-12

// Resolve maps one canvas point onto the layout per the requested mode.
//
// Phantom3 searches all actuator triples for the minimal-area triangle
// containing the point; when the point lies outside the hull the triangle
// nearest to it is used and negative barycentric weights are clamped to
// zero and renormalized (the nearest-edge degenerate case). Weights are
// non-negative and sum to 1.
//
// When the layout cannot support a triple (fewer than three actuators, or
// all triples collinear), resolution degrades to PhysicalNearest1 and the
// returned assignment carries Degraded=true so the caller can surface it.
func Resolve(p haptic.Point, layout *haptic.Layout, mode Mode) (haptic.PhantomAssignment, error) {
	if layout == nil || layout.Len() == 0 {
		return haptic.PhantomAssignment{}, haptic.NewEmptyLayoutError()
	}

	if mode == PhysicalNearest1 {
		return haptic.PhantomAssignment{
			IsSingle: true,
			Single:   nearest(p, layout),
		}, nil
	}

	if layout.Len() < 3 {
		return haptic.PhantomAssignment{
			IsSingle: true,
			Single:   nearest(p, layout),
			Degraded: true,
		}, nil
	}

	tri, found := bestTriangle(p, layout)
	if !found {
		// Every triple is collinear; no triangle exists anywhere.
		return haptic.PhantomAssignment{
			IsSingle: true,
			Single:   nearest(p, layout),
			Degraded: true,
		}, nil
	}

	wa, wb, wc, _ := barycentric(p, tri.a.Position, tri.b.Position, tri.c.Position)
	wa, wb, wc = clampAndRenormalize(wa, wb, wc)

	return haptic.PhantomAssignment{
		Triple: []haptic.WeightedActuator{
			{ActuatorID: tri.a.ID, Weight: wa},
			{ActuatorID: tri.b.ID, Weight: wb},
			{ActuatorID: tri.c.ID, Weight: wc},
		},
	}, nil
}

// nearest returns the ID of the actuator closest to p. Distance ties break
// toward the lower ID so resolution stays deterministic.
func nearest(p haptic.Point, layout *haptic.Layout) int {
	best := -1
	bestDist := math.Inf(1)
	for _, a := range layout.Actuators() {
		d := dist(p, a.Position)
		if d < bestDist {
			best, bestDist = a.ID, d
		}
	}
	return best
}

type triangle struct {
	a, b, c haptic.Actuator
}

// bestTriangle scans all actuator triples (in ascending ID order, which
// makes tie-breaking deterministic) and returns the triangle nearest to p.
// A containing triangle has distance zero; among containing triangles the
// smallest area wins so the tightest local triple renders the phantom.
func bestTriangle(p haptic.Point, layout *haptic.Layout) (triangle, bool) {
	acts := layout.Actuators()
	var best triangle
	found := false
	bestDist := math.Inf(1)
	bestArea := math.Inf(1)

	for i := 0; i < len(acts); i++ {
		for j := i + 1; j < len(acts); j++ {
			for k := j + 1; k < len(acts); k++ {
				a, b, c := acts[i], acts[j], acts[k]
				area := math.Abs(signedArea(a.Position, b.Position, c.Position))
				if area < degenerateArea {
					continue
				}
				d := distToTriangle(p, a.Position, b.Position, c.Position)
				if d < bestDist || (d == bestDist && area < bestArea) {
					best = triangle{a, b, c}
					bestDist, bestArea = d, area
					found = true
				}
			}
		}
	}
	return best, found
}

// clampAndRenormalize zeroes negative barycentric weights (the point lies
// outside that edge) and rescales the remainder to sum to 1. The result is
// the nearest-edge projection expressed as weights.
func clampAndRenormalize(wa, wb, wc float64) (float64, float64, float64) {
	wa = math.Max(0, wa)
	wb = math.Max(0, wb)
	wc = math.Max(0, wc)
	sum := wa + wb + wc
	if sum < weightEpsilon {
		// Should not happen for a non-degenerate triangle, but never
		// emit NaN weights.
		return 1, 0, 0
	}
	return wa / sum, wb / sum, wc / sum
}
