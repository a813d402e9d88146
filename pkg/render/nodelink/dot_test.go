package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/ringmap/pkg/graph"
)

func TestToDOT(t *testing.T) {
	m := &graph.Map{
		Root: graph.Root{ID: "ms1", Name: "OrderService"},
		Gateways: []graph.Gateway{
			{Kind: graph.KindREST, Name: "PaymentGW", Inbound: []string{"CreateOrder"}, Outbound: []string{"ChargeCard"}},
		},
	}

	dot := ToDOT(m)

	for _, want := range []string{
		"digraph G {",
		`"gateway:PaymentGW" -> "root:OrderService";`,
		`"inbound:CreateOrder" -> "gateway:PaymentGW";`,
		`"gateway:PaymentGW" -> "outbound:ChargeCard";`,
		`"gateway:PaymentGW" [label="PaymentGW\nREST"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTSharedEndpointName(t *testing.T) {
	// The same name inbound and outbound must produce two distinct nodes.
	m := &graph.Map{
		Root: graph.Root{ID: "ms1", Name: "Svc"},
		Gateways: []graph.Gateway{
			{Kind: graph.KindSOAP, Name: "GW", Inbound: []string{"Sync"}, Outbound: []string{"Sync"}},
		},
	}

	dot := ToDOT(m)
	if !strings.Contains(dot, `"inbound:Sync"`) || !strings.Contains(dot, `"outbound:Sync"`) {
		t.Errorf("role-qualified node IDs missing:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>` + "\n" +
		`<svg width="100pt" height="50pt" viewBox="0.00 0.00 120.50 60.25" xmlns="http://www.w3.org/2000/svg">` +
		`<g></g></svg>`)

	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 120.50 60.25"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="121"`) && !strings.Contains(out, `width="120"`) {
		t.Errorf("width not derived from viewBox: %s", out)
	}
}
