// Package radial renders a computed ring layout as SVG: ring guides, bezier
// connectors anchored on node boundaries, node shapes and endpoint labels,
// and per-element opacity from the focus mapper. In interactive mode the SVG
// embeds the hover and click-to-select behavior so that a browser viewer
// follows the same toggle semantics as pkg/focus.
package radial
