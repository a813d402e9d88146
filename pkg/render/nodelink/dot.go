package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ringmap/pkg/graph"
)

// Engine is the Graphviz layout engine used for node-link rendering.
const Engine = "dot"

// ToDOT converts a service map to Graphviz DOT format. The root sits in the
// middle rank; inbound endpoints point at their gateway and the gateway at
// the root, outbound edges run the other way. Gateway nodes carry their kind
// as a second label line.
func ToDOT(m *graph.Map) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.7;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [shape=ellipse, fillcolor=lightblue];\n", rootID(m))
	for _, gw := range m.Gateways {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightgrey];\n", gatewayID(gw.Name), gw.Name+"\n"+gw.Kind)
		for _, name := range gw.Inbound {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", endpointID(graph.RoleInbound, name), name)
		}
		for _, name := range gw.Outbound {
			fmt.Fprintf(&buf, "  %q [label=%q];\n", endpointID(graph.RoleOutbound, name), name)
		}
	}

	buf.WriteString("\n")
	for _, gw := range m.Gateways {
		fmt.Fprintf(&buf, "  %q -> %q;\n", gatewayID(gw.Name), rootID(m))
		for _, name := range gw.Inbound {
			fmt.Fprintf(&buf, "  %q -> %q;\n", endpointID(graph.RoleInbound, name), gatewayID(gw.Name))
		}
		for _, name := range gw.Outbound {
			fmt.Fprintf(&buf, "  %q -> %q;\n", gatewayID(gw.Name), endpointID(graph.RoleOutbound, name))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Node IDs carry the role prefix because endpoint names are only unique
// within their role.
func rootID(m *graph.Map) string                     { return "root:" + m.Root.Name }
func gatewayID(name string) string                   { return "gateway:" + name }
func endpointID(role graph.Role, name string) string { return string(role) + ":" + name }

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with render.ToPDF or render.ToPNG.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz svg tag so the viewBox starts at
// the origin and the element size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
