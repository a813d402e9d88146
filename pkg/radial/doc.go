// Package radial computes the radial layout for a service map: the root
// service at the canvas center, gateways evenly distributed on an inner
// ring, and each gateway's inbound and outbound endpoints clustered near the
// gateway's angle on two outer rings.
//
// The layout is a pure function of (map, dimensions, ring gap) with no
// hidden state, and is recomputed in full whenever any input changes. Label
// overlaps within one gateway's endpoint cluster are removed by a bounded
// iterative resolver; clusters belonging to different gateways are not
// deconflicted against each other, a deliberate scope limitation that holds
// for the small maps this layout targets.
package radial
