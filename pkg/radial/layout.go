package radial

import (
	"github.com/matzehuels/ringmap/pkg/geom"
	"github.com/matzehuels/ringmap/pkg/graph"
)

// Options configures one layout computation.
type Options struct {
	// Width and Height are the canvas dimensions in pixels. Zero values fall
	// back to the 800×800 defaults.
	Width  float64
	Height float64

	// Gap is the radial distance between successive rings. Clamped to
	// [MinGap, MaxGap]; zero falls back to the default.
	Gap float64
}

func (o *Options) setDefaults() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	o.Gap = ClampGap(o.Gap)
}

// Build computes the full radial layout for a service map. It returns false
// when the map is nil or has no gateways; callers render that as the
// empty-state, not an error.
//
// The computation is pure: the same (map, options) input always yields the
// same layout, byte for byte.
func Build(m *graph.Map, opts Options) (Layout, bool) {
	opts.setDefaults()
	if m.Empty() {
		return Layout{}, false
	}

	center := geom.Point{X: opts.Width / 2, Y: opts.Height / 2}
	l := Layout{
		Width:    opts.Width,
		Height:   opts.Height,
		Gap:      opts.Gap,
		RootName: m.Root.Name,
		Root:     center,
		Gateways: make([]GatewayLayout, 0, len(m.Gateways)),
	}

	// The end angle stops one step short of a full revolution so the first
	// and last gateways never double up at 0°/360°.
	n := len(m.Gateways)
	angles := geom.DistributeOnArc(n, 0, 360-360/float64(n))

	for i, gw := range m.Gateways {
		gl := GatewayLayout{
			Name:     gw.Name,
			Kind:     gw.Kind,
			Angle:    angles[i],
			Position: geom.PointOnCircle(center.X, center.Y, GatewayRingRadius, angles[i]),
		}

		inbound := clusterRects(gw.Inbound, center, l.InboundRadius(), angles[i]-clusterOffset)
		outbound := clusterRects(gw.Outbound, center, l.OutboundRadius(), angles[i]+clusterOffset)

		// Collisions are resolved within one gateway's cluster only, never
		// across gateways sharing a ring. Inbound labels step one way and
		// outbound labels the other, so the clusters diverge.
		gl.Inbound = ResolveCollisions(inbound, center.X, center.Y, l.InboundRadius(), -resolveStep)
		gl.Outbound = ResolveCollisions(outbound, center.X, center.Y, l.OutboundRadius(), resolveStep)

		l.Gateways = append(l.Gateways, gl)
	}

	return l, true
}

// clusterRects places a gateway's endpoint names at their ideal
// pre-collision positions: evenly spaced around the cluster's center angle,
// with a total span proportional to the endpoint count.
func clusterRects(names []string, center geom.Point, radius, centerAngle float64) []RectPosition {
	if len(names) == 0 {
		return nil
	}

	span := float64(len(names)-1) * endpointSpacing
	start := centerAngle - span/2
	angles := geom.DistributeOnArc(len(names), start, start+span)

	rects := make([]RectPosition, len(names))
	for i, name := range names {
		w, h := LabelSize(name)
		rects[i] = RectPosition{
			Name:   name,
			Angle:  angles[i],
			Center: geom.PointOnCircle(center.X, center.Y, radius, angles[i]),
			Width:  w,
			Height: h,
		}
	}
	return rects
}
