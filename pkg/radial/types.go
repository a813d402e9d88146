package radial

import "github.com/matzehuels/ringmap/pkg/geom"

// =============================================================================
// Layout Defaults - Single Source of Truth
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 800.0

	// DefaultGap is the default radial distance between successive rings.
	DefaultGap = 90.0

	// MinGap and MaxGap bound the configurable ring gap.
	MinGap = DefaultGap
	MaxGap = 4 * DefaultGap

	// GatewayRingRadius is the fixed radius of the gateway ring. The inbound
	// and outbound rings sit at one and two gaps beyond it.
	GatewayRingRadius = 140.0
)

const (
	// clusterOffset is the angular distance from a gateway to the center of
	// its endpoint clusters: inbound at −clusterOffset, outbound at
	// +clusterOffset, so the two groups diverge.
	clusterOffset = 20.0

	// endpointSpacing is the ideal angular distance between adjacent
	// endpoints in a cluster before collision resolution.
	endpointSpacing = 15.0

	// labelCharWidth and labelPadding estimate a label's pixel width from
	// its name length. Deterministic by construction, no font metrics.
	labelCharWidth = 7.0
	labelPadding   = 16.0

	// labelHeight is the fixed height of an endpoint label box.
	labelHeight = 24.0
)

// =============================================================================
// RectPosition - Endpoint Label on a Ring
// =============================================================================

// RectPosition is an endpoint label's placement on a ring: its center, its
// angle, and its box dimensions. The axis-aligned bounds are always derived
// from the center and dimensions so they cannot desync while the collision
// resolver moves the center.
type RectPosition struct {
	Name   string
	Center geom.Point
	Angle  float64
	Width  float64
	Height float64
}

// TopLeft returns the top-left corner of the label's bounding box.
func (r RectPosition) TopLeft() geom.Point {
	return geom.Point{X: r.Center.X - r.Width/2, Y: r.Center.Y - r.Height/2}
}

// BottomRight returns the bottom-right corner of the label's bounding box.
func (r RectPosition) BottomRight() geom.Point {
	return geom.Point{X: r.Center.X + r.Width/2, Y: r.Center.Y + r.Height/2}
}

// Overlaps reports whether the bounding boxes of r and other intersect.
func (r RectPosition) Overlaps(other RectPosition) bool {
	a1, a2 := r.TopLeft(), r.BottomRight()
	b1, b2 := other.TopLeft(), other.BottomRight()
	return !(a2.X < b1.X || b2.X < a1.X || a2.Y < b1.Y || b2.Y < a1.Y)
}

// =============================================================================
// GatewayLayout / Layout - Resolved Positions
// =============================================================================

// GatewayLayout is one gateway's resolved position on the gateway ring plus
// the ordered, collision-resolved label positions of its endpoint clusters.
type GatewayLayout struct {
	Name     string
	Kind     string
	Position geom.Point
	Angle    float64
	Inbound  []RectPosition
	Outbound []RectPosition
}

// Layout is the complete set of resolved positions for one render pass. It
// is owned by the layout engine; consumers read it but never mutate it.
type Layout struct {
	Width    float64
	Height   float64
	Gap      float64
	RootName string
	Root     geom.Point
	Gateways []GatewayLayout
}

// Center returns the canvas center, where the root node sits.
func (l Layout) Center() geom.Point { return l.Root }

// InboundRadius returns the radius of the inbound endpoint ring.
func (l Layout) InboundRadius() float64 { return GatewayRingRadius + l.Gap }

// OutboundRadius returns the radius of the outbound endpoint ring.
func (l Layout) OutboundRadius() float64 { return GatewayRingRadius + 2*l.Gap }

// ClampGap clamps a requested ring gap to the supported range. A zero or
// negative request falls back to the default.
func ClampGap(gap float64) float64 {
	if gap <= 0 {
		return DefaultGap
	}
	if gap < MinGap {
		return MinGap
	}
	if gap > MaxGap {
		return MaxGap
	}
	return gap
}

// LabelSize estimates the box dimensions for an endpoint label. The width
// grows with the name length so longer names claim more ring space.
func LabelSize(name string) (w, h float64) {
	return labelCharWidth*float64(len([]rune(name))) + labelPadding, labelHeight
}
