// Package graph defines the service-map data model and its serialization
// formats.
//
// A service map has one central root service, an ordered list of typed
// gateways, and per-gateway lists of inbound and outbound endpoints. Element
// identity is the (role, name) pair: names are unique within a role but not
// across roles, so [ElementRef] always carries both.
//
// The package also defines [Layout], the discriminated serialization format
// shared by the radial and nodelink visualizations. Layouts round-trip
// through files and the cache; the radial engine's internal representation
// lives in pkg/radial and converts via Export/Parse.
package graph
