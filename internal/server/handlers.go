package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ringmap/pkg/cache"
	apperrors "github.com/matzehuels/ringmap/pkg/errors"
	"github.com/matzehuels/ringmap/pkg/graph"
	"github.com/matzehuels/ringmap/pkg/pipeline"
)

// =============================================================================
// Request / Response Types
// =============================================================================

// layoutRequest carries a service map plus layout options.
type layoutRequest struct {
	Map     *graph.Map       `json:"map"`
	Options pipeline.Options `json:"options"`
}

// layoutResponse returns the computed layout document.
type layoutResponse struct {
	MapHash  string       `json:"map_hash,omitempty"`
	CacheHit bool         `json:"cache_hit"`
	Layout   graph.Layout `json:"layout"`
}

// renderRequest carries a service map plus full pipeline options.
type renderRequest struct {
	Map     *graph.Map       `json:"map"`
	Options pipeline.Options `json:"options"`
}

// renderResponse points at the stored artifacts instead of embedding them;
// binary formats would bloat the JSON body.
type renderResponse struct {
	MapHash string             `json:"map_hash,omitempty"`
	Cache   pipeline.CacheInfo `json:"cache"`
	Views   map[string]string  `json:"views"` // format → /view/{id}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Map == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "map is required"))
		return
	}
	if err := req.Map.Validate(); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid map"))
		return
	}

	layout, hit, err := s.runner.GenerateLayoutWithCacheInfo(r.Context(), req.Map, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := layoutResponse{CacheHit: hit, Layout: layout}
	if data, err := graph.MarshalMap(req.Map); err == nil {
		resp.MapHash = cache.Hash(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if req.Map == nil {
		writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "map is required"))
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Map, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := renderResponse{
		MapHash: result.MapHash,
		Cache:   result.CacheInfo,
		Views:   make(map[string]string, len(result.Artifacts)),
	}
	for format, data := range result.Artifacts {
		id := s.views.Put(data, contentTypeFor(format))
		resp.Views[format] = "/view/" + id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, ok := s.views.Get(id)
	if !ok {
		http.Error(w, "view not found or expired", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", entry.contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(entry.data)
}

// =============================================================================
// Helpers
// =============================================================================

// contentTypeFor maps an output format to its MIME type.
func contentTypeFor(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	default:
		return "application/octet-stream"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps application error codes to HTTP statuses and returns the
// user-facing message only.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidVizType, apperrors.ErrCodeInvalidTheme,
		apperrors.ErrCodeInvalidFocus:
		status = http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": apperrors.UserMessage(err)})
}
