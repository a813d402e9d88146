package pipeline

import (
	"fmt"

	apperrors "github.com/matzehuels/ringmap/pkg/errors"
	"github.com/matzehuels/ringmap/pkg/graph"
	"github.com/matzehuels/ringmap/pkg/radial"
	"github.com/matzehuels/ringmap/pkg/render"
	"github.com/matzehuels/ringmap/pkg/render/nodelink"
	radialsvg "github.com/matzehuels/ringmap/pkg/render/radial"
)

// pngScale is the raster scale factor for PNG output.
const pngScale = 2.0

// RenderFromLayout renders output artifacts in the requested formats.
// This is the preferred entry point when you have a graph.Layout.
//
// The map is optional for radial layouts: without it the renderer still draws
// every node and edge, but focus dimming and the interactive connectivity
// data are unavailable.
func RenderFromLayout(graphLayout graph.Layout, m *graph.Map, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	if graphLayout.IsNodelink() {
		opts.VizType = graph.VizTypeNodelink
		return renderNodelink(graphLayout, opts)
	}

	// Convert to the internal radial layout
	l, err := radial.Parse(graphLayout)
	if err != nil {
		return nil, fmt.Errorf("convert layout: %w", err)
	}
	return renderRadial(l, graphLayout, m, opts)
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(layoutData []byte, m *graph.Map, opts Options) (map[string][]byte, error) {
	parsed, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(parsed, m, opts)
}

// =============================================================================
// Radial
// =============================================================================

// renderRadial generates radial outputs. The SVG is rendered once and reused
// for the raster conversions.
func renderRadial(l radial.Layout, graphLayout graph.Layout, m *graph.Map, opts Options) (map[string][]byte, error) {
	svgOpts, err := buildSVGOptions(m, opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)
	var svg []byte

	renderSVG := func() []byte {
		if svg == nil {
			svg = radialsvg.RenderSVG(l, svgOpts...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = renderSVG()
		case FormatPNG:
			data, err = render.ToPNG(renderSVG(), pngScale)
		case FormatPDF:
			data, err = render.ToPDF(renderSVG())
		case FormatJSON:
			data, err = graph.MarshalLayout(graphLayout)
		case FormatDOT:
			return nil, apperrors.New(apperrors.ErrCodeUnsupported,
				"dot output requires the nodelink visualization")
		default:
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported radial format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options from the pipeline options.
func buildSVGOptions(m *graph.Map, opts Options) ([]radialsvg.SVGOption, error) {
	var svgOpts []radialsvg.SVGOption

	if m != nil {
		svgOpts = append(svgOpts, radialsvg.WithGraph(m))
	}
	svgOpts = append(svgOpts, radialsvg.WithTheme(opts.Theme))

	ref, err := opts.FocusRef()
	if err != nil {
		return nil, err
	}
	if ref != nil {
		svgOpts = append(svgOpts, radialsvg.WithFocus(ref))
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, radialsvg.WithInteraction())
	}
	if opts.HideRings {
		svgOpts = append(svgOpts, radialsvg.WithoutRings())
	}
	if opts.Curvature != 0 {
		svgOpts = append(svgOpts, radialsvg.WithCurvature(opts.Curvature))
	}
	return svgOpts, nil
}

// =============================================================================
// Nodelink
// =============================================================================

// renderNodelink generates nodelink outputs from a layout.
// The layout must be a nodelink layout (VizType = "nodelink") with a DOT string.
func renderNodelink(layout graph.Layout, opts Options) (map[string][]byte, error) {
	if layout.DOT == "" {
		return nil, fmt.Errorf("nodelink layout missing DOT string")
	}

	artifacts := make(map[string][]byte)
	var svg []byte

	renderSVG := func() ([]byte, error) {
		if svg == nil {
			rendered, err := nodelink.RenderSVG(layout.DOT)
			if err != nil {
				return nil, err
			}
			svg = rendered
		}
		return svg, nil
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = renderSVG()
		case FormatPNG:
			if data, err = renderSVG(); err == nil {
				data, err = render.ToPNG(data, pngScale)
			}
		case FormatPDF:
			if data, err = renderSVG(); err == nil {
				data, err = render.ToPDF(data)
			}
		case FormatJSON:
			data, err = graph.MarshalLayout(layout)
		case FormatDOT:
			data = []byte(layout.DOT)
		default:
			return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
