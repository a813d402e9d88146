// Package focus derives visual emphasis from a focused element: given one
// (role, name) reference and the service map, it computes the set of
// elements within one hop of the focus, and the single-valued hover and
// selection state that drives which element is focused.
//
// Everything here is explicit state in, explicit state out. There is no
// process-wide selection singleton; callers thread [State] through their
// event loop and recompute [ConnectedElements] on every focus change.
package focus

import (
	"slices"

	"github.com/matzehuels/ringmap/pkg/graph"
)

// Opacity values consumed by rendering. Elements connected to the focus keep
// full opacity; everything else dims while a focus is active.
const (
	OpacityFull = 1.0
	OpacityDim  = 0.2
)

// ConnectedElements is the set of elements within one hop of a focused
// element. It is ephemeral: recomputed fresh from (focus, map) on every
// focus change, never persisted.
type ConnectedElements struct {
	// Active reports whether any focus is set. When false the set is empty
	// and every element renders at full opacity.
	Active bool

	Root     bool
	Gateways map[string]bool
	Inbound  map[string]bool
	Outbound map[string]bool
}

// Connected computes the one-hop connectivity set for a focused element:
//
//   - root: the root and every gateway, no endpoints
//   - gateway: the root, the gateway itself, and all of its endpoints
//   - inbound endpoint: the endpoint and every gateway listing it inbound
//   - outbound endpoint: symmetric with inbound
//   - nil focus: the empty set, meaning nothing is dimmed
//
// A focus that does not resolve against the map yields an active but empty
// set, which dims everything; stale references are expected to be filtered
// by the state machine before they get here.
func Connected(focused *graph.ElementRef, m *graph.Map) ConnectedElements {
	c := ConnectedElements{
		Gateways: make(map[string]bool),
		Inbound:  make(map[string]bool),
		Outbound: make(map[string]bool),
	}
	if focused == nil || m == nil {
		return c
	}
	c.Active = true

	switch focused.Role {
	case graph.RoleRoot:
		c.Root = true
		for _, gw := range m.Gateways {
			c.Gateways[gw.Name] = true
		}

	case graph.RoleGateway:
		gw, ok := m.Gateway(focused.Name)
		if !ok {
			return c
		}
		c.Root = true
		c.Gateways[gw.Name] = true
		for _, name := range gw.Inbound {
			c.Inbound[name] = true
		}
		for _, name := range gw.Outbound {
			c.Outbound[name] = true
		}

	case graph.RoleInbound:
		c.Inbound[focused.Name] = true
		for _, gw := range m.Gateways {
			if slices.Contains(gw.Inbound, focused.Name) {
				c.Gateways[gw.Name] = true
			}
		}

	case graph.RoleOutbound:
		c.Outbound[focused.Name] = true
		for _, gw := range m.Gateways {
			if slices.Contains(gw.Outbound, focused.Name) {
				c.Gateways[gw.Name] = true
			}
		}
	}

	return c
}

// Contains reports whether ref is in the connected set.
func (c ConnectedElements) Contains(ref graph.ElementRef) bool {
	switch ref.Role {
	case graph.RoleRoot:
		return c.Root
	case graph.RoleGateway:
		return c.Gateways[ref.Name]
	case graph.RoleInbound:
		return c.Inbound[ref.Name]
	case graph.RoleOutbound:
		return c.Outbound[ref.Name]
	}
	return false
}

// Opacity returns the render opacity for a single element: full when no
// focus is active or the element is connected, dimmed otherwise.
func (c ConnectedElements) Opacity(ref graph.ElementRef) float64 {
	if !c.Active || c.Contains(ref) {
		return OpacityFull
	}
	return OpacityDim
}

// EdgeOpacity returns the render opacity for an edge: an edge keeps full
// opacity only while both of its endpoints are in the connected set.
func (c ConnectedElements) EdgeOpacity(a, b graph.ElementRef) float64 {
	if !c.Active || (c.Contains(a) && c.Contains(b)) {
		return OpacityFull
	}
	return OpacityDim
}
