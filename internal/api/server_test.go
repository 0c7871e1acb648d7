package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artatlas/artgraph/pkg/graph"
	"github.com/artatlas/artgraph/pkg/layout"
	"github.com/artatlas/artgraph/pkg/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	st := store.NewMemoryStore()
	snap := &graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "guernica", Type: graph.NodeArtwork, Properties: map[string]any{
				"title": "Guernica", "year": 1937, "medium": "oil on canvas",
			}},
			{ID: "picasso", Type: graph.NodeArtist, Properties: map[string]any{
				"name": "Pablo Picasso", "birth_year": 1881,
			}},
		},
		Relationships: []graph.Relationship{
			{ID: "r1", Type: graph.RelCreatedBy, SourceID: "guernica", TargetID: "picasso"},
		},
	}
	if err := st.PutSnapshot(context.Background(), snap); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	cfg := layout.DefaultConfig()
	cfg.MaxTicks = 50
	s, err := NewServer(st, cfg, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetGraph(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/v1/graphs/guernica?depth=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var snap graph.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Nodes) != 2 || len(snap.Relationships) != 1 {
		t.Fatalf("got %d nodes / %d rels, want 2 / 1", len(snap.Nodes), len(snap.Relationships))
	}
}

func TestGetGraphNotFound(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/v1/graphs/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "GRAPH_NOT_FOUND" {
		t.Fatalf("error code = %s, want GRAPH_NOT_FOUND", body.Error.Code)
	}
}

func TestPutGraphValidates(t *testing.T) {
	bad, _ := json.Marshal(graph.Snapshot{
		Nodes: []graph.Node{{ID: "x", Type: "GALLERY"}},
	})
	rec := doRequest(t, testServer(t), http.MethodPost, "/api/v1/graphs", bad)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPutGraphStoresSnapshot(t *testing.T) {
	s := testServer(t)
	snap := graph.Snapshot{
		Nodes: []graph.Node{{ID: "dali", Type: graph.NodeArtist, Properties: map[string]any{
			"name": "Salvador Dali", "birth_year": 1904,
		}}},
	}
	body, _ := json.Marshal(snap)
	rec := doRequest(t, s, http.MethodPost, "/api/v1/graphs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodGet, "/api/v1/graphs/dali?depth=0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d after put", rec.Code)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	s := testServer(t)
	req := layoutRequest{
		Snapshot: &graph.Snapshot{
			Nodes: []graph.Node{
				{ID: "a", Type: graph.NodePeriod},
				{ID: "b", Type: graph.NodePeriod},
			},
			Relationships: []graph.Relationship{
				{ID: "r", Type: graph.RelContemporaryOf, SourceID: "a", TargetID: "b"},
			},
		},
		Bounds: graph.Bounds{Width: 800, Height: 600},
	}
	body, _ := json.Marshal(req)
	rec := doRequest(t, s, http.MethodPost, "/api/v1/layout", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp layoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(resp.Positions))
	}
	for id, pos := range resp.Positions {
		if pos.X < 0 || pos.X > 800 || pos.Y < 0 || pos.Y > 600 {
			t.Fatalf("position for %s out of bounds: %+v", id, pos)
		}
	}
}

func TestLayoutRejectsMissingSnapshot(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodPost, "/api/v1/layout", []byte(`{}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalysisEndpoint(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/v1/graphs/guernica/analysis?depth=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp analysisResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Nodes != 2 {
		t.Fatalf("nodes = %d, want 2", resp.Nodes)
	}
	if resp.Centrality["guernica"] != 1 || resp.Centrality["picasso"] != 1 {
		t.Fatalf("centrality = %v, want both 1", resp.Centrality)
	}
	if len(resp.Components) != 1 || len(resp.Components[0]) != 2 {
		t.Fatalf("components = %v, want one component of 2", resp.Components)
	}
}

func TestAnalysisNotFound(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/v1/graphs/missing/analysis", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestExportDOT(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/v1/graphs/guernica/export?format=dot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Body.String(); !strings.Contains(got, `"guernica" -- "picasso"`) {
		t.Fatalf("DOT export missing edge:\n%s", got)
	}
}
