package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Map Queries
// =============================================================================

// Empty reports whether the map has no gateways. The layout engine treats an
// empty map as the empty-state, not an error.
func (m *Map) Empty() bool {
	return m == nil || len(m.Gateways) == 0
}

// Gateway returns the gateway with the given name.
func (m *Map) Gateway(name string) (Gateway, bool) {
	for _, gw := range m.Gateways {
		if gw.Name == name {
			return gw, true
		}
	}
	return Gateway{}, false
}

// Has reports whether ref resolves to an element of the map. Stale or unknown
// references resolve to false so hover/click handlers can no-op on them.
func (m *Map) Has(ref ElementRef) bool {
	if m == nil {
		return false
	}
	switch ref.Role {
	case RoleRoot:
		return ref.Name == m.Root.Name
	case RoleGateway:
		_, ok := m.Gateway(ref.Name)
		return ok
	case RoleInbound:
		for _, gw := range m.Gateways {
			if slices.Contains(gw.Inbound, ref.Name) {
				return true
			}
		}
	case RoleOutbound:
		for _, gw := range m.Gateways {
			if slices.Contains(gw.Outbound, ref.Name) {
				return true
			}
		}
	}
	return false
}

// EndpointCount returns the total number of inbound and outbound endpoints.
func (m *Map) EndpointCount() int {
	count := 0
	for _, gw := range m.Gateways {
		count += len(gw.Inbound) + len(gw.Outbound)
	}
	return count
}

// Validate checks structural invariants: a named root, non-empty gateway
// names unique within the map, known gateway kinds, and non-empty endpoint
// names unique within their gateway list.
func (m *Map) Validate() error {
	if m.Root.Name == "" {
		return fmt.Errorf("root name is required")
	}
	seen := make(map[string]bool, len(m.Gateways))
	for _, gw := range m.Gateways {
		if gw.Name == "" {
			return fmt.Errorf("gateway name is required")
		}
		if seen[gw.Name] {
			return fmt.Errorf("duplicate gateway name: %s", gw.Name)
		}
		seen[gw.Name] = true
		if !ValidKinds[gw.Kind] {
			return fmt.Errorf("gateway %s: invalid kind %q (must be one of: REST, EVENT_STREAM, SOAP)", gw.Name, gw.Kind)
		}
		if err := validateEndpoints(gw.Name, "inbound", gw.Inbound); err != nil {
			return err
		}
		if err := validateEndpoints(gw.Name, "outbound", gw.Outbound); err != nil {
			return err
		}
	}
	return nil
}

func validateEndpoints(gateway, direction string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("gateway %s: empty %s endpoint name", gateway, direction)
		}
		if seen[name] {
			return fmt.Errorf("gateway %s: duplicate %s endpoint: %s", gateway, direction, name)
		}
		seen[name] = true
	}
	return nil
}

// =============================================================================
// Map Serialization API
// =============================================================================

// MarshalMap converts a Map to pretty-printed JSON bytes.
func MarshalMap(m *Map) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalMap deserializes JSON bytes to a Map and validates it.
func UnmarshalMap(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadMap decodes a JSON service map from an io.Reader.
func ReadMap(r io.Reader) (*Map, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return UnmarshalMap(data)
}

// ReadMapFile reads a service map from a JSON or YAML file, chosen by
// extension (.yaml/.yml for YAML, anything else JSON).
func ReadMapFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return unmarshalYAML(data)
	default:
		return UnmarshalMap(data)
	}
}

// WriteMapFile writes a Map to a JSON file with 0644 permissions.
func WriteMapFile(m *Map, path string) error {
	data, err := MarshalMap(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func unmarshalYAML(data []byte) (*Map, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
