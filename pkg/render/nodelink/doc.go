// Package nodelink renders a service map as a conventional node-link
// diagram via Graphviz: endpoints flow into their gateways and gateways into
// the root for inbound traffic, and outward for outbound. It complements
// the radial view when a map grows past what rings show well.
package nodelink
