package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the unified serialization format for all visualizations.
//
// This is a discriminated union type - check VizType to determine which
// fields are populated:
//
//	Radial ("radial"):
//	  - Root, Gateways: absolute positions, ring angles, and label bounds
//	  - Gap: the radial distance between successive rings
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine (e.g., "dot")
//
// Shared fields (both types):
//   - Width, Height: frame dimensions
//
// For radial layouts, there is also an internal representation
// (pkg/radial.Layout) optimized for computation. Use radial.Export and
// radial.Parse to convert between them.
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type" bson:"viz_type"`

	// Common dimensions
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Radial-specific
	Gap      float64       `json:"gap,omitempty" bson:"gap,omitempty"`
	Root     *LayoutNode   `json:"root,omitempty" bson:"root,omitempty"`
	Gateways []LayoutGroup `json:"gateways,omitempty" bson:"gateways,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// IsRadial returns true if this is a radial layout.
func (l *Layout) IsRadial() bool { return l.VizType == VizTypeRadial }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// LayoutNode is one positioned element in a radial layout.
type LayoutNode struct {
	Name  string  `json:"name" bson:"name"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Angle float64 `json:"angle,omitempty" bson:"angle,omitempty"`

	// Label bounds, present for endpoint rectangles only.
	Width  float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height float64 `json:"height,omitempty" bson:"height,omitempty"`
}

// LayoutGroup is one gateway with its resolved endpoint clusters.
type LayoutGroup struct {
	Node     LayoutNode   `json:"node" bson:"node"`
	Kind     string       `json:"kind" bson:"kind"`
	Inbound  []LayoutNode `json:"inbound,omitempty" bson:"inbound,omitempty"`
	Outbound []LayoutNode `json:"outbound,omitempty" bson:"outbound,omitempty"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeRadial
	}

	if l.IsRadial() && l.Root == nil {
		return Layout{}, fmt.Errorf("radial layout must contain a root node")
	}
	if l.IsNodelink() && l.DOT == "" {
		return Layout{}, fmt.Errorf("nodelink layout must contain DOT string")
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
