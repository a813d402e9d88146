// Package geom provides the geometry primitives for radial layouts: polar
// conversion, shape-boundary anchor points for connector curves, even angular
// distribution, and quadratic curve control points.
//
// All angles are in degrees. The angle convention across the package is that
// 0° points straight up and angles increase clockwise, which matches the
// orientation of the rendered rings. Results are exact floats; callers round
// only at the rendering boundary.
package geom

import "math"

// Point is a 2D point in rendering-surface coordinates. Pure value type.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// PointOnCircle converts a polar coordinate to Cartesian. The angle is
// measured in degrees from straight up, increasing clockwise.
func PointOnCircle(cx, cy, r, angleDeg float64) Point {
	rad := (angleDeg - 90) * math.Pi / 180
	return Point{
		X: cx + r*math.Cos(rad),
		Y: cy + r*math.Sin(rad),
	}
}

// CircleEdgePoint returns the point on the boundary of the circle centered
// at (cx, cy) with radius r, in the direction of the target point.
//
// The target must not coincide with the center; a zero-length direction is
// out of contract.
func CircleEdgePoint(cx, cy, r, targetX, targetY float64) Point {
	dx := targetX - cx
	dy := targetY - cy
	dist := math.Hypot(dx, dy)
	return Point{
		X: cx + r*dx/dist,
		Y: cy + r*dy/dist,
	}
}

// RectEdgePoint returns the point on the boundary of the axis-aligned
// rectangle centered at (cx, cy) with dimensions w×h, in the direction of
// the target point. The ray from the center toward the target crosses either
// a vertical or a horizontal edge; comparing |dx|·(h/2) against |dy|·(w/2)
// picks which, and the edge equation gives the crossing.
//
// If the target coincides with the center the top-center point is returned.
func RectEdgePoint(cx, cy, w, h, targetX, targetY float64) Point {
	dx := targetX - cx
	dy := targetY - cy
	if dx == 0 && dy == 0 {
		return Point{X: cx, Y: cy - h/2}
	}

	halfW := w / 2
	halfH := h / 2

	if math.Abs(dx)*halfH > math.Abs(dy)*halfW {
		// Crosses a vertical edge first.
		sign := 1.0
		if dx < 0 {
			sign = -1
		}
		return Point{
			X: cx + sign*halfW,
			Y: cy + dy*halfW/math.Abs(dx),
		}
	}

	// Crosses a horizontal edge first.
	sign := 1.0
	if dy < 0 {
		sign = -1
	}
	return Point{
		X: cx + dx*halfH/math.Abs(dy),
		Y: cy + sign*halfH,
	}
}

// DistributeOnArc returns count angles evenly spaced across [startDeg,
// endDeg], inclusive of both ends when count ≥ 2. A single element is placed
// at the arc midpoint, and count 0 yields an empty sequence.
func DistributeOnArc(count int, startDeg, endDeg float64) []float64 {
	switch {
	case count <= 0:
		return nil
	case count == 1:
		return []float64{(startDeg + endDeg) / 2}
	}

	step := (endDeg - startDeg) / float64(count-1)
	angles := make([]float64, count)
	for i := range angles {
		angles[i] = startDeg + float64(i)*step
	}
	return angles
}

// Curve is a single-control-point quadratic curve between two points.
type Curve struct {
	Start   Point
	Control Point
	End     Point
}

// BezierCurve returns a curve from (x1, y1) to (x2, y2) whose control point
// is offset from the segment midpoint along the segment's perpendicular, by
// curvature × segment length. A zero-length segment degenerates to a
// straight path (control point at the midpoint) rather than dividing by
// zero.
func BezierCurve(x1, y1, x2, y2, curvature float64) Curve {
	mid := Point{X: (x1 + x2) / 2, Y: (y1 + y2) / 2}

	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return Curve{
			Start:   Point{X: x1, Y: y1},
			Control: mid,
			End:     Point{X: x2, Y: y2},
		}
	}

	// Unit perpendicular to the segment, scaled by curvature × length.
	offset := curvature * length
	return Curve{
		Start:   Point{X: x1, Y: y1},
		Control: Point{X: mid.X - dy/length*offset, Y: mid.Y + dx/length*offset},
		End:     Point{X: x2, Y: y2},
	}
}
