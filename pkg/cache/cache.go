// Package cache provides the artifact cache for the ringmap pipeline.
//
// Layout documents and rendered artifacts are keyed by content hashes of
// their inputs, so a cache entry is valid for exactly as long as the inputs
// it was derived from. Backends cover the CLI (file, XDG cache dir), tests
// (null), and server deployments (redis, mongo). The service-map model
// itself is never persisted; only derived artifacts with TTLs live here.
package cache

import (
	"context"
	"time"
)

// TTLs per artifact class. Layouts and artifacts are pure functions of
// their cache key, so the TTLs exist for space reclamation, not coherence.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A non-positive TTL stores forever.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// Keyer - Cache Key Construction
// =============================================================================

// LayoutKeyOpts are the inputs that distinguish one layout computation from
// another for the same service map.
type LayoutKeyOpts struct {
	VizType string
	Width   float64
	Height  float64
	Gap     float64
}

// ArtifactKeyOpts are the inputs that distinguish one rendered artifact from
// another for the same layout.
type ArtifactKeyOpts struct {
	Format      string
	Interactive bool
	Focus       string
	ThemeHash   string
}

// Keyer constructs cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey keys a layout by the service-map content hash and the
	// layout options.
	LayoutKey(mapHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the layout content hash and
	// the render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the option struct together with the content hash,
// namespaced per artifact class.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(mapHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", mapHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
