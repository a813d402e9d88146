package radial

import (
	"slices"

	"github.com/matzehuels/ringmap/pkg/geom"
)

// maxResolvePasses bounds the collision resolver. Hitting the ceiling means
// the layout is accepted best-effort; an unbounded resolver could stall the
// caller's event loop on pathological inputs such as many same-length labels
// at a tiny radius.
const maxResolvePasses = 100

// resolveStep is the angular step applied to the later of two colliding
// labels on each pass, in degrees.
const resolveStep = 2.0

// ResolveCollisions removes pairwise bounding-box overlaps among labels
// sharing the ring of the given radius around (cx, cy), by advancing the
// later label of each colliding pair along the ring. stepDeg carries the
// ring's direction: negative for inbound clusters, positive for outbound,
// so the two groups diverge instead of colliding with each other.
//
// The input is never mutated; a new resolved slice is returned. Sequences of
// length 0 or 1 are returned as copies unchanged. The repair loop is an
// O(passes × n²) heuristic bounded by a fixed pass ceiling - determinism
// matters more than optimality, and identical inputs always produce
// identical output.
func ResolveCollisions(rects []RectPosition, cx, cy, radius, stepDeg float64) []RectPosition {
	out := slices.Clone(rects)
	if len(out) < 2 {
		return out
	}

	for pass := 0; pass < maxResolvePasses; pass++ {
		collided := false
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if !out[i].Overlaps(out[j]) {
					continue
				}
				collided = true
				out[j].Angle += stepDeg
				out[j].Center = geom.PointOnCircle(cx, cy, radius, out[j].Angle)
			}
		}
		if !collided {
			break
		}
	}
	return out
}
