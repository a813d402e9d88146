package radial

import (
	"fmt"

	"github.com/matzehuels/ringmap/pkg/geom"
	"github.com/matzehuels/ringmap/pkg/graph"
)

// =============================================================================
// Internal ↔ Serialization Conversion
// =============================================================================

// Export converts the internal layout to its serialization format so it can
// round-trip through files, the cache, and API responses.
func Export(l Layout) graph.Layout {
	out := graph.Layout{
		VizType: graph.VizTypeRadial,
		Width:   l.Width,
		Height:  l.Height,
		Gap:     l.Gap,
		Root: &graph.LayoutNode{
			Name: l.RootName,
			X:    l.Root.X,
			Y:    l.Root.Y,
		},
		Gateways: make([]graph.LayoutGroup, len(l.Gateways)),
	}

	for i, gw := range l.Gateways {
		out.Gateways[i] = graph.LayoutGroup{
			Node: graph.LayoutNode{
				Name:  gw.Name,
				X:     gw.Position.X,
				Y:     gw.Position.Y,
				Angle: gw.Angle,
			},
			Kind:     gw.Kind,
			Inbound:  exportRects(gw.Inbound),
			Outbound: exportRects(gw.Outbound),
		}
	}
	return out
}

// Parse converts a serialized radial layout back to the internal
// representation. Returns an error for non-radial layouts.
func Parse(l graph.Layout) (Layout, error) {
	if !l.IsRadial() {
		return Layout{}, fmt.Errorf("expected radial layout, got %q", l.VizType)
	}
	if l.Root == nil {
		return Layout{}, fmt.Errorf("radial layout missing root node")
	}

	out := Layout{
		Width:    l.Width,
		Height:   l.Height,
		Gap:      l.Gap,
		RootName: l.Root.Name,
		Root:     geom.Point{X: l.Root.X, Y: l.Root.Y},
		Gateways: make([]GatewayLayout, len(l.Gateways)),
	}

	for i, gw := range l.Gateways {
		out.Gateways[i] = GatewayLayout{
			Name:     gw.Node.Name,
			Kind:     gw.Kind,
			Position: geom.Point{X: gw.Node.X, Y: gw.Node.Y},
			Angle:    gw.Node.Angle,
			Inbound:  parseRects(gw.Inbound),
			Outbound: parseRects(gw.Outbound),
		}
	}
	return out, nil
}

func exportRects(rects []RectPosition) []graph.LayoutNode {
	if len(rects) == 0 {
		return nil
	}
	nodes := make([]graph.LayoutNode, len(rects))
	for i, r := range rects {
		nodes[i] = graph.LayoutNode{
			Name:   r.Name,
			X:      r.Center.X,
			Y:      r.Center.Y,
			Angle:  r.Angle,
			Width:  r.Width,
			Height: r.Height,
		}
	}
	return nodes
}

func parseRects(nodes []graph.LayoutNode) []RectPosition {
	if len(nodes) == 0 {
		return nil
	}
	rects := make([]RectPosition, len(nodes))
	for i, n := range nodes {
		rects[i] = RectPosition{
			Name:   n.Name,
			Center: geom.Point{X: n.X, Y: n.Y},
			Angle:  n.Angle,
			Width:  n.Width,
			Height: n.Height,
		}
	}
	return rects
}
