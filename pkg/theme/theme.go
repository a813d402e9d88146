// Package theme resolves the colors used to paint each element role.
//
// A theme file is TOML with one optional base fill color per role:
//
//	[roles.root]
//	fill = "#4a90d9"
//
//	[roles.gateway]
//	fill = "#2e7d32"
//	stroke = "#66bb6a"
//
// Only the fill is required per entry. The stroke defaults to the fill
// lightened by 35% and the text color to white. Roles without configuration
// fall back to a fixed neutral gray.
package theme

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/ringmap/pkg/graph"
)

// Fallback colors for unconfigured roles.
const (
	neutralFill = "#9e9e9e"
	defaultText = "#ffffff"
)

// lightenAmount is how far a derived stroke moves from its fill toward
// white.
const lightenAmount = 0.35

// Colors is the resolved {fill, stroke, text} triple for one role.
type Colors struct {
	Fill   string `toml:"fill"`
	Stroke string `toml:"stroke"`
	Text   string `toml:"text"`
}

// Theme maps element roles to their configured base colors. The zero value
// is a valid theme where every role uses the neutral fallback.
type Theme struct {
	Roles map[string]Colors `toml:"roles"`
}

// Load reads a TOML theme file and validates its colors.
func Load(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML theme bytes and validates its colors.
func Parse(data []byte) (Theme, error) {
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return Theme{}, fmt.Errorf("parse theme: %w", err)
	}
	for role, c := range t.Roles {
		for _, hex := range []string{c.Fill, c.Stroke, c.Text} {
			if hex == "" {
				continue
			}
			if _, err := colorful.Hex(hex); err != nil {
				return Theme{}, fmt.Errorf("role %s: invalid color %q", role, hex)
			}
		}
	}
	return t, nil
}

// For resolves the full color triple for a role: configured values are kept,
// a missing stroke derives from the fill by lightening, a missing text
// defaults to white, and an entirely unconfigured role falls back to the
// neutral gray.
func (t Theme) For(role graph.Role) Colors {
	c := t.Roles[string(role)]
	if c.Fill == "" {
		c.Fill = neutralFill
	}
	if c.Stroke == "" {
		c.Stroke = Lighten(c.Fill, lightenAmount)
	}
	if c.Text == "" {
		c.Text = defaultText
	}
	return c
}

// Lighten blends a hex color toward white by the given fraction in [0, 1].
// Invalid input returns the neutral fallback rather than failing, since
// themes are validated at the loading boundary.
func Lighten(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return neutralFill
	}
	white, _ := colorful.Hex("#ffffff")
	return c.BlendRgb(white, amount).Clamped().Hex()
}
