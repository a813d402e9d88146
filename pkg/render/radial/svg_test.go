package radial

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/ringmap/pkg/graph"
	"github.com/matzehuels/ringmap/pkg/radial"
)

func testLayout(t *testing.T) (*graph.Map, radial.Layout) {
	t.Helper()
	m := &graph.Map{
		Root: graph.Root{ID: "ms1", Name: "OrderService"},
		Gateways: []graph.Gateway{
			{Kind: graph.KindREST, Name: "PaymentGW", Inbound: []string{"CreateOrder"}, Outbound: []string{"ChargeCard"}},
			{Kind: graph.KindEventStream, Name: "EventsGW", Outbound: []string{"OrderPlaced"}},
		},
	}
	l, ok := radial.Build(m, radial.Options{})
	if !ok {
		t.Fatal("Build returned no layout")
	}
	return m, l
}

func TestRenderSVGStructure(t *testing.T) {
	m, l := testLayout(t)
	svg := string(RenderSVG(l, WithGraph(m)))

	for _, want := range []string{
		`viewBox="0 0 800.0 800.0"`,
		`id="node-root:OrderService"`,
		`id="node-gateway:PaymentGW"`,
		`id="node-inbound:CreateOrder"`,
		`id="node-outbound:OrderPlaced"`,
		`<circle`,
		`<rect`,
		`class="edge"`,
		`Q `, // connector curves, not straight lines
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Errorf("SVG not well-formed at the edges")
	}
}

func TestRenderSVGRingGuides(t *testing.T) {
	m, l := testLayout(t)

	withRings := RenderSVG(l, WithGraph(m))
	if !bytes.Contains(withRings, []byte(`stroke-dasharray`)) {
		t.Error("ring guides missing by default")
	}

	without := RenderSVG(l, WithGraph(m), WithoutRings())
	if bytes.Contains(without, []byte(`stroke-dasharray`)) {
		t.Error("WithoutRings still rendered ring guides")
	}
}

func TestRenderSVGStaticFocusDimming(t *testing.T) {
	m, l := testLayout(t)
	ref := &graph.ElementRef{Role: graph.RoleGateway, Name: "PaymentGW"}
	svg := string(RenderSVG(l, WithGraph(m), WithFocus(ref)))

	// The unrelated gateway and its endpoint dim; the focused cluster stays
	// at full opacity.
	for id, wantOpacity := range map[string]string{
		"node-gateway:PaymentGW":    `opacity="1.0"`,
		"node-inbound:CreateOrder":  `opacity="1.0"`,
		"node-gateway:EventsGW":     `opacity="0.2"`,
		"node-outbound:OrderPlaced": `opacity="0.2"`,
	} {
		idx := strings.Index(svg, `id="`+id+`"`)
		if idx < 0 {
			t.Fatalf("SVG missing node %s", id)
		}
		line := svg[idx : strings.Index(svg[idx:], "\n")+idx]
		if !strings.Contains(line, wantOpacity) {
			t.Errorf("node %s: got %q, want %s", id, line, wantOpacity)
		}
	}
}

func TestRenderSVGNoFocusFullOpacity(t *testing.T) {
	m, l := testLayout(t)
	svg := string(RenderSVG(l, WithGraph(m)))

	if strings.Contains(svg, `opacity="0.2"`) {
		t.Error("elements dimmed with no focus active")
	}
}

func TestRenderSVGInteraction(t *testing.T) {
	m, l := testLayout(t)

	static := RenderSVG(l, WithGraph(m))
	if bytes.Contains(static, []byte("<script")) {
		t.Error("static render embedded the interaction script")
	}

	interactive := string(RenderSVG(l, WithGraph(m), WithInteraction()))
	for _, want := range []string{"<script", "data-peers=", "applyFocus", "mouseenter"} {
		if !strings.Contains(interactive, want) {
			t.Errorf("interactive SVG missing %q", want)
		}
	}

	// The gateway's peer set carries the root and its own endpoints, so the
	// embedded script dims exactly what pkg/focus would.
	idx := strings.Index(interactive, `id="node-gateway:PaymentGW"`)
	line := interactive[idx : strings.Index(interactive[idx:], "\n")+idx]
	for _, peer := range []string{"root:OrderService", "inbound:CreateOrder", "outbound:ChargeCard"} {
		if !strings.Contains(line, peer) {
			t.Errorf("PaymentGW peers missing %s: %q", peer, line)
		}
	}
}

func TestRenderSVGEscapesNames(t *testing.T) {
	m := &graph.Map{
		Root: graph.Root{ID: "ms1", Name: "Orders <&> Payments"},
		Gateways: []graph.Gateway{
			{Kind: graph.KindREST, Name: "GW"},
		},
	}
	l, ok := radial.Build(m, radial.Options{})
	if !ok {
		t.Fatal("Build returned no layout")
	}

	svg := string(RenderSVG(l, WithGraph(m)))
	if strings.Contains(svg, "<&>") {
		t.Error("raw markup characters leaked into the SVG")
	}
	if !strings.Contains(svg, "Orders &lt;&amp;&gt; Payments") {
		t.Error("root name not escaped")
	}
}
