package pipeline

import (
	apperrors "github.com/matzehuels/ringmap/pkg/errors"
	"github.com/matzehuels/ringmap/pkg/graph"
	"github.com/matzehuels/ringmap/pkg/radial"
	"github.com/matzehuels/ringmap/pkg/render/nodelink"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout generates a complete layout for any visualization type.
// This is the unified entry point for generating serializable layout data.
//
// A map with no gateways produces the empty-state layout (root node only, no
// groups), not an error; consumers render it as an empty canvas.
func GenerateLayout(m *graph.Map, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}
	if m == nil {
		return graph.Layout{}, apperrors.New(apperrors.ErrCodeInvalidInput, "service map is required")
	}
	if opts.IsNodelink() {
		return generateNodelinkLayout(m, opts), nil
	}
	return generateRadialLayout(m, opts), nil
}

// =============================================================================
// Radial
// =============================================================================

// generateRadialLayout computes the ring layout and exports it to the
// serialization format.
func generateRadialLayout(m *graph.Map, opts Options) graph.Layout {
	l, ok := radial.Build(m, radial.Options{
		Width:  opts.Width,
		Height: opts.Height,
		Gap:    opts.Gap,
	})
	if !ok {
		return emptyRadialLayout(m, opts)
	}
	return radial.Export(l)
}

// emptyRadialLayout builds the layout document for a map without gateways:
// the root sits alone at the center.
func emptyRadialLayout(m *graph.Map, opts Options) graph.Layout {
	return graph.Layout{
		VizType: graph.VizTypeRadial,
		Width:   opts.Width,
		Height:  opts.Height,
		Gap:     radial.ClampGap(opts.Gap),
		Root: &graph.LayoutNode{
			Name: m.Root.Name,
			X:    opts.Width / 2,
			Y:    opts.Height / 2,
		},
	}
}

// =============================================================================
// Nodelink
// =============================================================================

// generateNodelinkLayout generates a nodelink layout. The DOT string is the
// layout; Graphviz positions the nodes at render time.
func generateNodelinkLayout(m *graph.Map, opts Options) graph.Layout {
	return graph.Layout{
		VizType: graph.VizTypeNodelink,
		Width:   opts.Width,
		Height:  opts.Height,
		DOT:     nodelink.ToDOT(m),
		Engine:  nodelink.Engine,
	}
}
