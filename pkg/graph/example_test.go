package graph_test

import (
	"fmt"

	"github.com/matzehuels/ringmap/pkg/graph"
)

func ExampleMap() {
	m := &graph.Map{
		Root: graph.Root{ID: "ms1", Name: "OrderService"},
		Gateways: []graph.Gateway{
			{Kind: graph.KindREST, Name: "PaymentGW", Inbound: []string{"CreateOrder"}, Outbound: []string{"ChargeCard"}},
		},
	}

	fmt.Println("valid:", m.Validate() == nil)
	fmt.Println("endpoints:", m.EndpointCount())
	fmt.Println("has gateway:", m.Has(graph.ElementRef{Role: graph.RoleGateway, Name: "PaymentGW"}))
	fmt.Println("stale ref:", m.Has(graph.ElementRef{Role: graph.RoleInbound, Name: "ChargeCard"}))
	// Output:
	// valid: true
	// endpoints: 2
	// has gateway: true
	// stale ref: false
}
