package radial

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/ringmap/pkg/focus"
	"github.com/matzehuels/ringmap/pkg/geom"
	"github.com/matzehuels/ringmap/pkg/graph"
	"github.com/matzehuels/ringmap/pkg/radial"
	"github.com/matzehuels/ringmap/pkg/theme"
)

// Node shape sizes.
const (
	rootRadius    = 42.0
	gatewayRadius = 28.0
)

// defaultCurvature bends connector curves away from the segment between
// their anchors.
const defaultCurvature = 0.15

const interactionCSS = `
    .node { cursor: pointer; transition: opacity 0.2s ease; }
    .node.hover .shape { stroke-width: 3.5; }
    .edge { transition: opacity 0.2s ease; pointer-events: none; }`

// interactionJS mirrors the selection semantics of pkg/focus: clicking a
// node selects it and dims everything outside its one-hop set, clicking it
// again (or the background) clears the selection, and hovering emphasizes a
// node independently of the selection.
const interactionJS = `
    let selected = null;
    const nodes = Array.from(document.querySelectorAll('.node'));
    const edges = Array.from(document.querySelectorAll('.edge'));
    function connectedTo(el) {
      const set = new Set((el.dataset.peers || '').split('|').filter(Boolean));
      set.add(el.dataset.key);
      return set;
    }
    function applyFocus(el) {
      if (!el) {
        nodes.concat(edges).forEach(e => e.style.opacity = 1);
        return;
      }
      const set = connectedTo(el);
      nodes.forEach(n => n.style.opacity = set.has(n.dataset.key) ? 1 : 0.2);
      edges.forEach(e => e.style.opacity = set.has(e.dataset.a) && set.has(e.dataset.b) ? 1 : 0.2);
    }
    nodes.forEach(n => {
      n.addEventListener('click', evt => {
        evt.stopPropagation();
        selected = selected === n ? null : n;
        applyFocus(selected);
      });
      n.addEventListener('mouseenter', () => n.classList.add('hover'));
      n.addEventListener('mouseleave', () => n.classList.remove('hover'));
    });
    document.documentElement.addEventListener('click', () => {
      selected = null;
      applyFocus(null);
    });`

// SVGOption configures the SVG renderer.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	graph       *graph.Map
	theme       theme.Theme
	focused     *graph.ElementRef
	interactive bool
	rings       bool
	curvature   float64
}

// WithGraph attaches the service map, enabling focus dimming and the
// interactive connectivity data.
func WithGraph(m *graph.Map) SVGOption { return func(r *svgRenderer) { r.graph = m } }

// WithTheme sets the color theme.
func WithTheme(t theme.Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }

// WithFocus renders a static snapshot with the given element focused and
// everything outside its one-hop set dimmed.
func WithFocus(ref *graph.ElementRef) SVGOption { return func(r *svgRenderer) { r.focused = ref } }

// WithInteraction embeds the hover/select script.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithoutRings suppresses the dashed ring guides.
func WithoutRings() SVGOption { return func(r *svgRenderer) { r.rings = false } }

// WithCurvature overrides the connector curve bend.
func WithCurvature(c float64) SVGOption { return func(r *svgRenderer) { r.curvature = c } }

// RenderSVG renders a radial layout to SVG bytes.
func RenderSVG(l radial.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{rings: true, curvature: defaultCurvature}
	for _, opt := range opts {
		opt(&r)
	}

	conn := focus.Connected(r.focused, r.graph)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", interactionCSS)

	if r.rings {
		r.renderRings(&buf, l)
	}
	r.renderEdges(&buf, l, conn)
	r.renderNodes(&buf, l, conn)

	if r.interactive {
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", interactionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderRings(buf *bytes.Buffer, l radial.Layout) {
	for _, radius := range []float64{radial.GatewayRingRadius, l.InboundRadius(), l.OutboundRadius()} {
		fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#e0e0e0" stroke-dasharray="4 6"/>`+"\n",
			l.Root.X, l.Root.Y, radius)
	}
}

func (r *svgRenderer) renderEdges(buf *bytes.Buffer, l radial.Layout, conn focus.ConnectedElements) {
	rootRef := graph.ElementRef{Role: graph.RoleRoot, Name: l.RootName}

	for _, gw := range l.Gateways {
		gwRef := graph.ElementRef{Role: graph.RoleGateway, Name: gw.Name}

		// Root to gateway, anchored on both circle boundaries.
		start := geom.CircleEdgePoint(l.Root.X, l.Root.Y, rootRadius, gw.Position.X, gw.Position.Y)
		end := geom.CircleEdgePoint(gw.Position.X, gw.Position.Y, gatewayRadius, l.Root.X, l.Root.Y)
		r.renderEdge(buf, start, end, rootRef, gwRef, conn)

		// Inbound endpoints point at the gateway, outbound away from it.
		for _, rect := range gw.Inbound {
			from := geom.RectEdgePoint(rect.Center.X, rect.Center.Y, rect.Width, rect.Height, gw.Position.X, gw.Position.Y)
			to := geom.CircleEdgePoint(gw.Position.X, gw.Position.Y, gatewayRadius, rect.Center.X, rect.Center.Y)
			r.renderEdge(buf, from, to, graph.ElementRef{Role: graph.RoleInbound, Name: rect.Name}, gwRef, conn)
		}
		for _, rect := range gw.Outbound {
			from := geom.CircleEdgePoint(gw.Position.X, gw.Position.Y, gatewayRadius, rect.Center.X, rect.Center.Y)
			to := geom.RectEdgePoint(rect.Center.X, rect.Center.Y, rect.Width, rect.Height, gw.Position.X, gw.Position.Y)
			r.renderEdge(buf, from, to, gwRef, graph.ElementRef{Role: graph.RoleOutbound, Name: rect.Name}, conn)
		}
	}
}

func (r *svgRenderer) renderEdge(buf *bytes.Buffer, from, to geom.Point, a, b graph.ElementRef, conn focus.ConnectedElements) {
	c := geom.BezierCurve(from.X, from.Y, to.X, to.Y, r.curvature)
	fmt.Fprintf(buf, `  <path class="edge" data-a=%q data-b=%q d="M %.1f %.1f Q %.1f %.1f %.1f %.1f" fill="none" stroke="#b0b0b0" stroke-width="1.5" opacity="%.1f"/>`+"\n",
		elementKey(a), elementKey(b),
		c.Start.X, c.Start.Y, c.Control.X, c.Control.Y, c.End.X, c.End.Y,
		conn.EdgeOpacity(a, b))
}

func (r *svgRenderer) renderNodes(buf *bytes.Buffer, l radial.Layout, conn focus.ConnectedElements) {
	rootRef := graph.ElementRef{Role: graph.RoleRoot, Name: l.RootName}
	r.openNode(buf, rootRef, conn)
	c := r.theme.For(graph.RoleRoot)
	fmt.Fprintf(buf, `    <circle class="shape" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		l.Root.X, l.Root.Y, rootRadius, c.Fill, c.Stroke)
	r.renderText(buf, l.Root, l.RootName, c.Text, 14)
	buf.WriteString("  </g>\n")

	for _, gw := range l.Gateways {
		gwRef := graph.ElementRef{Role: graph.RoleGateway, Name: gw.Name}
		r.openNode(buf, gwRef, conn)
		c := r.theme.For(graph.RoleGateway)
		fmt.Fprintf(buf, `    <circle class="shape" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			gw.Position.X, gw.Position.Y, gatewayRadius, c.Fill, c.Stroke)
		r.renderText(buf, gw.Position, gw.Name, c.Text, 12)
		buf.WriteString("  </g>\n")

		for _, rect := range gw.Inbound {
			r.renderRect(buf, rect, graph.RoleInbound, conn)
		}
		for _, rect := range gw.Outbound {
			r.renderRect(buf, rect, graph.RoleOutbound, conn)
		}
	}
}

func (r *svgRenderer) renderRect(buf *bytes.Buffer, rect radial.RectPosition, role graph.Role, conn focus.ConnectedElements) {
	ref := graph.ElementRef{Role: role, Name: rect.Name}
	r.openNode(buf, ref, conn)
	c := r.theme.For(role)
	tl := rect.TopLeft()
	fmt.Fprintf(buf, `    <rect class="shape" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		tl.X, tl.Y, rect.Width, rect.Height, c.Fill, c.Stroke)
	r.renderText(buf, rect.Center, rect.Name, c.Text, 11)
	buf.WriteString("  </g>\n")
}

// openNode emits the group element carrying the node's identity key, its
// static opacity, and - for the interactive script - the keys of its
// one-hop connectivity set.
func (r *svgRenderer) openNode(buf *bytes.Buffer, ref graph.ElementRef, conn focus.ConnectedElements) {
	fmt.Fprintf(buf, `  <g class="node" id=%q data-key=%q`, "node-"+elementKey(ref), elementKey(ref))
	if r.interactive && r.graph != nil {
		fmt.Fprintf(buf, ` data-peers=%q`, strings.Join(peerKeys(ref, r.graph), "|"))
	}
	fmt.Fprintf(buf, ` opacity="%.1f">`+"\n", conn.Opacity(ref))
}

func (r *svgRenderer) renderText(buf *bytes.Buffer, center geom.Point, text, color string, size int) {
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="%d" fill="%s">%s</text>`+"\n",
		center.X, center.Y, size, color, escapeXML(text))
}

// elementKey is the stable DOM identity of an element: role and name joined,
// since names are only unique within a role.
func elementKey(ref graph.ElementRef) string {
	return string(ref.Role) + ":" + escapeXML(ref.Name)
}

// peerKeys returns the element keys of everything in ref's one-hop set, for
// the embedded interaction script.
func peerKeys(ref graph.ElementRef, m *graph.Map) []string {
	conn := focus.Connected(&ref, m)
	var keys []string
	if conn.Root {
		keys = append(keys, elementKey(graph.ElementRef{Role: graph.RoleRoot, Name: m.Root.Name}))
	}
	for _, gw := range m.Gateways {
		if conn.Gateways[gw.Name] {
			keys = append(keys, elementKey(graph.ElementRef{Role: graph.RoleGateway, Name: gw.Name}))
		}
		for _, name := range gw.Inbound {
			if conn.Inbound[name] {
				keys = append(keys, elementKey(graph.ElementRef{Role: graph.RoleInbound, Name: name}))
			}
		}
		for _, name := range gw.Outbound {
			if conn.Outbound[name] {
				keys = append(keys, elementKey(graph.ElementRef{Role: graph.RoleOutbound, Name: name}))
			}
		}
	}
	return keys
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
