package graph

import (
	"fmt"
	"strings"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeRadial   = "radial"
	VizTypeNodelink = "nodelink"
)

// Gateway kinds.
const (
	KindREST        = "REST"
	KindEventStream = "EVENT_STREAM"
	KindSOAP        = "SOAP"
)

// ValidKinds is the set of supported gateway kinds.
var ValidKinds = map[string]bool{
	KindREST:        true,
	KindEventStream: true,
	KindSOAP:        true,
}

// =============================================================================
// Role - Element Classification
// =============================================================================

// Role classifies an element of the service map. Names are unique within a
// role, not globally, so every reference to an element carries its role.
type Role string

// Element roles.
const (
	RoleRoot     Role = "root"
	RoleGateway  Role = "gateway"
	RoleInbound  Role = "inbound"
	RoleOutbound Role = "outbound"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleRoot, RoleGateway, RoleInbound, RoleOutbound:
		return true
	}
	return false
}

// =============================================================================
// ElementRef - (role, name) Reference
// =============================================================================

// ElementRef identifies one element of a service map by its (role, name)
// pair. It is the uniform key for hover, selection, and focus targets.
type ElementRef struct {
	Role Role   `json:"role" bson:"role"`
	Name string `json:"name" bson:"name"`
}

// String returns the "role:name" form accepted by ParseRef.
func (r ElementRef) String() string {
	return string(r.Role) + ":" + r.Name
}

// ParseRef parses a "role:name" reference, e.g. "gateway:PaymentGW".
func ParseRef(s string) (ElementRef, error) {
	role, name, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return ElementRef{}, fmt.Errorf("invalid element reference %q (want role:name)", s)
	}
	ref := ElementRef{Role: Role(role), Name: name}
	if !ref.Role.Valid() {
		return ElementRef{}, fmt.Errorf("invalid role %q (must be one of: root, gateway, inbound, outbound)", role)
	}
	return ref, nil
}

// =============================================================================
// Map - Service Map Serialization
// =============================================================================

// Map is the canonical serialization format for a service map: one central
// root service, its gateways, and the endpoints attached to each gateway.
//
// The format is human-readable and designed for round-trip fidelity:
// import → layout → export → re-import produces identical results.
type Map struct {
	Root     Root      `json:"root" bson:"root" yaml:"root"`
	Gateways []Gateway `json:"gateways" bson:"gateways" yaml:"gateways"`
}

// Root is the central service being visualized.
type Root struct {
	ID   string `json:"id" bson:"id" yaml:"id"`
	Name string `json:"name" bson:"name" yaml:"name"`
}

// Gateway is a typed integration point attached to the root. The name is the
// gateway's stable identity key within the map.
type Gateway struct {
	Kind     string   `json:"kind" bson:"kind" yaml:"kind"`
	Name     string   `json:"name" bson:"name" yaml:"name"`
	Inbound  []string `json:"inbound,omitempty" bson:"inbound,omitempty" yaml:"inbound,omitempty"`
	Outbound []string `json:"outbound,omitempty" bson:"outbound,omitempty" yaml:"outbound,omitempty"`
}
