// Package pipeline provides the core visualization pipeline for Ringmap.
//
// This package implements the complete load → layout → render pipeline that
// can be used by CLI and server components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate a service map from a file or request body
//  2. Layout: Compute deterministic positions for the radial (or nodelink) view
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    VizType: "radial",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, m, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Layout with an existing map
//	layout, err := runner.GenerateLayout(ctx, m, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, layout, m, opts)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ringmap/pkg/cache"
	apperrors "github.com/matzehuels/ringmap/pkg/errors"
	"github.com/matzehuels/ringmap/pkg/graph"
	"github.com/matzehuels/ringmap/pkg/radial"
	"github.com/matzehuels/ringmap/pkg/theme"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = radial.DefaultWidth

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = radial.DefaultHeight

	// DefaultGap is the default radial distance between rings.
	DefaultGap = radial.DefaultGap
)

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeRadial

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeRadial:   true,
	graph.VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	VizType string  `json:"viz_type,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Gap     float64 `json:"gap,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Focus       string   `json:"focus,omitempty"` // "role:name", e.g. "gateway:PaymentGW"
	HideRings   bool     `json:"hide_rings,omitempty"`
	Curvature   float64  `json:"curvature,omitempty"`

	// Runtime options (not serialized)
	Theme  theme.Theme `json:"-"`
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Map is the service map the pipeline ran on.
	Map *graph.Map

	// MapHash is the content hash of the service map.
	MapHash string

	// Layout contains the serialized layout data (positions or DOT).
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GatewayCount  int
	EndpointCount int
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return apperrors.New(apperrors.ErrCodeInvalidVizType,
			"invalid viz_type: %q (must be one of: radial, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has the
// same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Gap == 0 {
		o.Gap = DefaultGap
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateVizType(o.VizType)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := o.FocusRef(); err != nil {
		return err
	}
	return nil
}

// IsRadial returns true if this is a radial visualization.
func (o *Options) IsRadial() bool {
	return o.VizType == "" || o.VizType == graph.VizTypeRadial
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// FocusRef parses the focus option into an element reference.
// Returns nil when no focus is set.
func (o *Options) FocusRef() (*graph.ElementRef, error) {
	if o.Focus == "" {
		return nil, nil
	}
	ref, err := graph.ParseRef(o.Focus)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFocus, err, "invalid focus")
	}
	return &ref, nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType: o.VizType,
		Width:   o.Width,
		Height:  o.Height,
		Gap:     o.Gap,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Interactive: o.Interactive,
		Focus:       o.Focus,
		ThemeHash:   o.themeHash(),
	}
}

// themeHash derives a stable hash of the theme so artifacts rendered with
// different palettes never collide in the cache. json.Marshal sorts map keys,
// so the hash is deterministic.
func (o *Options) themeHash() string {
	if len(o.Theme.Roles) == 0 {
		return ""
	}
	data, err := json.Marshal(o.Theme.Roles)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
