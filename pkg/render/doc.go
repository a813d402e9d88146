// Package render turns layouts into output artifacts. The radial subpackage
// draws the interactive ring visualization, nodelink renders the same
// service map through Graphviz, and this package converts SVG output to
// PNG/PDF via rsvg-convert.
package render
