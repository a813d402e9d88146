package graph

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testMap() *Map {
	return &Map{
		Root: Root{ID: "ms1", Name: "OrderService"},
		Gateways: []Gateway{
			{Kind: KindREST, Name: "PaymentGW", Inbound: []string{"CreateOrder"}, Outbound: []string{"ChargeCard", "RefundCard"}},
			{Kind: KindEventStream, Name: "EventsGW", Outbound: []string{"OrderPlaced"}},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Map)
		wantErr bool
	}{
		{name: "valid map", mutate: func(*Map) {}},
		{name: "missing root name", mutate: func(m *Map) { m.Root.Name = "" }, wantErr: true},
		{name: "empty gateway name", mutate: func(m *Map) { m.Gateways[0].Name = "" }, wantErr: true},
		{name: "duplicate gateway name", mutate: func(m *Map) { m.Gateways[1].Name = "PaymentGW" }, wantErr: true},
		{name: "unknown kind", mutate: func(m *Map) { m.Gateways[0].Kind = "GRPC" }, wantErr: true},
		{name: "empty endpoint name", mutate: func(m *Map) { m.Gateways[0].Inbound = []string{""} }, wantErr: true},
		{name: "duplicate endpoint in list", mutate: func(m *Map) { m.Gateways[0].Outbound = []string{"X", "X"} }, wantErr: true},
		{name: "same name across roles is fine", mutate: func(m *Map) {
			m.Gateways[0].Inbound = []string{"Sync"}
			m.Gateways[0].Outbound = []string{"Sync"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMap()
			tt.mutate(m)
			if err := m.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHas(t *testing.T) {
	m := testMap()

	tests := []struct {
		name string
		ref  ElementRef
		want bool
	}{
		{name: "root by name", ref: ElementRef{Role: RoleRoot, Name: "OrderService"}, want: true},
		{name: "root by wrong name", ref: ElementRef{Role: RoleRoot, Name: "ms1"}, want: false},
		{name: "gateway", ref: ElementRef{Role: RoleGateway, Name: "EventsGW"}, want: true},
		{name: "inbound endpoint", ref: ElementRef{Role: RoleInbound, Name: "CreateOrder"}, want: true},
		{name: "outbound endpoint", ref: ElementRef{Role: RoleOutbound, Name: "OrderPlaced"}, want: true},
		{name: "name exists under other role only", ref: ElementRef{Role: RoleInbound, Name: "OrderPlaced"}, want: false},
		{name: "unknown name", ref: ElementRef{Role: RoleGateway, Name: "GoneGW"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Has(tt.ref); got != tt.want {
				t.Errorf("Has(%v) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}

	var nilMap *Map
	if nilMap.Has(ElementRef{Role: RoleRoot, Name: "OrderService"}) {
		t.Error("nil map claims to contain elements")
	}
}

func TestMapJSONRoundTrip(t *testing.T) {
	m := testMap()

	data, err := MarshalMap(m)
	if err != nil {
		t.Fatalf("MarshalMap: %v", err)
	}
	back, err := UnmarshalMap(data)
	if err != nil {
		t.Fatalf("UnmarshalMap: %v", err)
	}
	if !reflect.DeepEqual(m, back) {
		t.Errorf("round trip diverged:\n%+v\n%+v", m, back)
	}
}

func TestReadMapFileYAML(t *testing.T) {
	const doc = `
root:
  id: ms1
  name: OrderService
gateways:
  - kind: REST
    name: PaymentGW
    inbound: [CreateOrder]
    outbound: [ChargeCard, RefundCard]
`
	path := filepath.Join(t.TempDir(), "map.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadMapFile(path)
	if err != nil {
		t.Fatalf("ReadMapFile: %v", err)
	}
	if m.Root.Name != "OrderService" || len(m.Gateways) != 1 {
		t.Errorf("unexpected map: %+v", m)
	}
	if got := m.Gateways[0].Outbound; len(got) != 2 || got[0] != "ChargeCard" {
		t.Errorf("outbound = %v", got)
	}
}

func TestReadMapFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	if err := os.WriteFile(path, []byte(`{"root":{"id":"x","name":""},"gateways":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadMapFile(path); err == nil {
		t.Error("ReadMapFile accepted a map without a root name")
	}
}

func TestLayoutSerializationUnion(t *testing.T) {
	t.Run("radial requires root", func(t *testing.T) {
		if _, err := UnmarshalLayout([]byte(`{"viz_type":"radial","width":800,"height":800}`)); err == nil {
			t.Error("accepted a radial layout without a root node")
		}
	})

	t.Run("nodelink requires dot", func(t *testing.T) {
		if _, err := UnmarshalLayout([]byte(`{"viz_type":"nodelink"}`)); err == nil {
			t.Error("accepted a nodelink layout without a DOT string")
		}
	})

	t.Run("viz type defaults to radial", func(t *testing.T) {
		l, err := UnmarshalLayout([]byte(`{"width":800,"height":800,"root":{"name":"Svc","x":400,"y":400}}`))
		if err != nil {
			t.Fatalf("UnmarshalLayout: %v", err)
		}
		if !l.IsRadial() {
			t.Errorf("viz_type = %q, want radial", l.VizType)
		}
	})
}
