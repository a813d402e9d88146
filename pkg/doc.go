// Package pkg contains the ringmap libraries: the service-map model
// (graph), the geometry primitives (geom), the radial layout engine
// (radial), the connectivity and selection logic (focus), theming (theme),
// the renderers (render/radial, render/nodelink), the caching layer (cache),
// and the pipeline tying them together (pipeline).
package pkg
