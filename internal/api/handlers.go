package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/artatlas/artgraph/pkg/errors"
	"github.com/artatlas/artgraph/pkg/export"
	"github.com/artatlas/artgraph/pkg/graph"
	"github.com/artatlas/artgraph/pkg/layout"
)

// DefaultDepth is the traversal depth when the query omits one.
const DefaultDepth = 2

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	rootID := chi.URLParam(r, "id")
	depth := queryInt(r, "depth", DefaultDepth)

	snap, err := s.store.GetSnapshot(r.Context(), rootID, depth)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	var snap graph.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode snapshot"))
		return
	}
	if err := s.store.PutSnapshot(r.Context(), &snap); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{
		"nodes":         len(snap.Nodes),
		"relationships": len(snap.Relationships),
	})
}

func (s *Server) handleExportGraph(w http.ResponseWriter, r *http.Request) {
	rootID := chi.URLParam(r, "id")
	depth := queryInt(r, "depth", DefaultDepth)
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "dot"
	}

	snap, err := s.store.GetSnapshot(r.Context(), rootID, depth)
	if err != nil {
		s.writeError(w, err)
		return
	}
	dot := export.ToDOT(snap, nil, export.Options{})

	switch format {
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := export.RenderSVG(dot)
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeRenderFailure, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(svg)
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidSnapshot, "unknown export format %q", format))
	}
}

// analysisResponse summarizes snapshot connectivity.
type analysisResponse struct {
	Nodes      int                `json:"nodes"`
	Centrality map[string]float64 `json:"centrality"`
	Components [][]string         `json:"components"`
}

func (s *Server) handleAnalyzeGraph(w http.ResponseWriter, r *http.Request) {
	rootID := chi.URLParam(r, "id")
	depth := queryInt(r, "depth", DefaultDepth)

	snap, err := s.store.GetSnapshot(r.Context(), rootID, depth)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysisResponse{
		Nodes:      len(snap.Nodes),
		Centrality: snap.DegreeCentrality(),
		Components: snap.ConnectedComponents(),
	})
}

// layoutRequest is the POST /layout body.
type layoutRequest struct {
	Snapshot *graph.Snapshot `json:"snapshot"`
	Bounds   graph.Bounds    `json:"bounds"`
}

// layoutResponse pairs the computed positions with run statistics.
type layoutResponse struct {
	Positions map[string]graph.Position `json:"positions"`
	Ticks     int                       `json:"ticks"`
	Partial   bool                      `json:"partial"`
	ElapsedMs int64                     `json:"elapsed_ms"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "decode layout request"))
		return
	}
	if req.Snapshot == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidSnapshot, "snapshot is required"))
		return
	}

	// Each request gets its own engine so concurrent layouts never
	// supersede each other.
	engine, err := layout.NewEngine(s.layoutCfg, s.logger)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer engine.Destroy()

	res, err := engine.UpdateLayout(r.Context(), req.Snapshot, req.Bounds)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Positions: res.Positions,
		Ticks:     res.Ticks,
		Partial:   res.Partial,
		ElapsedMs: res.Elapsed.Milliseconds(),
	})
}

// =============================================================================
// Response Helpers
// =============================================================================

// errorBody is the JSON error envelope.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError maps coded errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeGraphNotFound, errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidSnapshot, errors.ErrCodeInvalidNodeType,
		errors.ErrCodeInvalidRelationType, errors.ErrCodeMissingProperty,
		errors.ErrCodeInvalidBounds, errors.ErrCodeInvalidLayoutConf:
		status = http.StatusBadRequest
	case errors.ErrCodeSimulationTimeout:
		status = http.StatusRequestTimeout
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}

	var body errorBody
	body.Error.Code = string(errors.GetCode(err))
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
