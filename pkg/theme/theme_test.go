package theme

import (
	"testing"

	"github.com/matzehuels/ringmap/pkg/graph"
)

func TestParseAndResolve(t *testing.T) {
	const doc = `
[roles.root]
fill = "#4a90d9"

[roles.gateway]
fill = "#2e7d32"
stroke = "#66bb6a"
text = "#000000"
`
	th, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	root := th.For(graph.RoleRoot)
	if root.Fill != "#4a90d9" {
		t.Errorf("root fill = %q", root.Fill)
	}
	if root.Stroke == "" || root.Stroke == root.Fill {
		t.Errorf("root stroke = %q, want fill lightened", root.Stroke)
	}
	if root.Text != "#ffffff" {
		t.Errorf("root text = %q, want white default", root.Text)
	}

	gw := th.For(graph.RoleGateway)
	if gw.Stroke != "#66bb6a" || gw.Text != "#000000" {
		t.Errorf("explicit gateway colors not kept: %+v", gw)
	}
}

func TestForUnconfiguredRoleFallsBack(t *testing.T) {
	var th Theme

	for _, role := range []graph.Role{graph.RoleRoot, graph.RoleGateway, graph.RoleInbound, graph.RoleOutbound} {
		c := th.For(role)
		if c.Fill != neutralFill {
			t.Errorf("role %s fill = %q, want neutral gray", role, c.Fill)
		}
		if c.Text != defaultText {
			t.Errorf("role %s text = %q, want white", role, c.Text)
		}
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse([]byte("[roles.root]\nfill = \"not-a-color\"\n")); err == nil {
		t.Error("Parse accepted an invalid hex color")
	}
}

func TestLighten(t *testing.T) {
	tests := []struct {
		name   string
		hex    string
		amount float64
		want   string
	}{
		{name: "black halfway to white", hex: "#000000", amount: 0.5, want: "#808080"},
		{name: "zero amount is identity", hex: "#2e7d32", amount: 0, want: "#2e7d32"},
		{name: "full amount is white", hex: "#2e7d32", amount: 1, want: "#ffffff"},
		{name: "invalid input falls back", hex: "nope", amount: 0.35, want: neutralFill},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lighten(tt.hex, tt.amount); got != tt.want {
				t.Errorf("Lighten(%q, %v) = %q, want %q", tt.hex, tt.amount, got, tt.want)
			}
		})
	}
}
