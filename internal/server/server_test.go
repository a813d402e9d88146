package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ringmap/pkg/graph"
	"github.com/matzehuels/ringmap/pkg/pipeline"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(Config{Port: 0}, pipeline.NewRunner(nil, nil, logger), logger)
}

func testMapJSON() []byte {
	m := &graph.Map{
		Root: graph.Root{ID: "order-service", Name: "OrderService"},
		Gateways: []graph.Gateway{
			{
				Kind:     graph.KindREST,
				Name:     "PaymentGW",
				Inbound:  []string{"CreateOrder"},
				Outbound: []string{"ChargeCard", "RefundCard"},
			},
		},
	}
	data, _ := json.Marshal(map[string]any{"map": m})
	return data
}

func TestHealthCheck(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(Config{Port: 0, AllowAll: true}, nil, logger)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestLayoutEndpoint(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("POST", "/api/layout", bytes.NewReader(testMapJSON()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp layoutResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Layout.IsRadial() {
		t.Errorf("viz_type = %q, want radial", resp.Layout.VizType)
	}
	if resp.Layout.Root == nil || resp.Layout.Root.Name != "OrderService" {
		t.Errorf("root = %v, want OrderService", resp.Layout.Root)
	}
	if len(resp.Layout.Gateways) != 1 {
		t.Errorf("gateways = %d, want 1", len(resp.Layout.Gateways))
	}
	if resp.MapHash == "" {
		t.Error("map_hash should be set")
	}
}

func TestLayoutEndpointRejectsBadInput(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing map", `{}`},
		{"invalid map", `{"map": {"root": {"id": "x", "name": ""}}}`},
		{"bad viz type", `{"map": {"root": {"id": "x", "name": "X"}}, "options": {"viz_type": "pie"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/layout", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestRenderEndpointAndView(t *testing.T) {
	srv := testServer(t)

	var req renderRequest
	_ = json.Unmarshal(testMapJSON(), &req)
	req.Options = pipeline.Options{Formats: []string{pipeline.FormatSVG}}
	payload, _ := json.Marshal(req)

	httpReq := httptest.NewRequest("POST", "/api/render", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httpReq)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp renderResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	viewURL, ok := resp.Views["svg"]
	if !ok {
		t.Fatalf("response missing svg view: %v", resp.Views)
	}

	viewReq := httptest.NewRequest("GET", viewURL, nil)
	vw := httptest.NewRecorder()
	srv.Router().ServeHTTP(vw, viewReq)

	if vw.Code != http.StatusOK {
		t.Fatalf("view fetch expected 200, got %d", vw.Code)
	}
	if ct := vw.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q, want image/svg+xml", ct)
	}
	if !bytes.Contains(vw.Body.Bytes(), []byte("PaymentGW")) {
		t.Error("rendered SVG missing gateway label")
	}
}

func TestViewNotFound(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest("GET", "/view/no-such-id", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestEnableWatchServesViewer(t *testing.T) {
	srv := testServer(t)

	m := &graph.Map{
		Root: graph.Root{ID: "svc", Name: "OrderService"},
		Gateways: []graph.Gateway{
			{Kind: graph.KindREST, Name: "PaymentGW", Inbound: []string{"CreateOrder"}},
		},
	}
	path := filepath.Join(t.TempDir(), "map.json")
	if err := graph.WriteMapFile(m, path); err != nil {
		t.Fatalf("WriteMapFile: %v", err)
	}

	if err := srv.EnableWatch(WatchConfig{GraphPath: path}); err != nil {
		t.Fatalf("EnableWatch: %v", err)
	}

	req := httptest.NewRequest("GET", "/watch/svg", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("PaymentGW")) {
		t.Error("watched SVG missing gateway label")
	}

	pageReq := httptest.NewRequest("GET", "/watch", nil)
	pw := httptest.NewRecorder()
	srv.Router().ServeHTTP(pw, pageReq)

	if !bytes.Contains(pw.Body.Bytes(), []byte("/watch/ws")) {
		t.Error("viewer page missing websocket wiring")
	}
}

func TestViewStoreExpiry(t *testing.T) {
	store := newViewStore(time.Millisecond)

	id := store.Put([]byte("data"), "text/plain")
	time.Sleep(5 * time.Millisecond)

	if _, ok := store.Get(id); ok {
		t.Error("expired view should be gone")
	}

	// Writes sweep expired entries.
	store.Put([]byte("fresh"), "text/plain")
	if n := store.Len(); n != 1 {
		t.Errorf("live entries = %d, want 1", n)
	}
}
