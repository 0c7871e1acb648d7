package store

import (
	"context"
	"testing"

	"github.com/artatlas/artgraph/pkg/errors"
	"github.com/artatlas/artgraph/pkg/graph"
)

// museumGraph builds a small fixture: one artwork linked to its artist and
// movement, with the movement linked onward to a period.
func museumGraph(t *testing.T) *graph.Snapshot {
	t.Helper()
	return &graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "water-lilies", Type: graph.NodeArtwork, Properties: map[string]any{
				"title": "Water Lilies", "year": 1906, "medium": "oil on canvas",
			}},
			{ID: "monet", Type: graph.NodeArtist, Properties: map[string]any{
				"name": "Claude Monet", "birth_year": 1840,
			}},
			{ID: "impressionism", Type: graph.NodeMovement, Properties: map[string]any{
				"name": "Impressionism", "period": "1860-1900",
			}},
			{ID: "19th-century", Type: graph.NodePeriod},
		},
		Relationships: []graph.Relationship{
			{ID: "r1", Type: graph.RelCreatedBy, SourceID: "water-lilies", TargetID: "monet"},
			{ID: "r2", Type: graph.RelBelongsTo, SourceID: "water-lilies", TargetID: "impressionism"},
			{ID: "r3", Type: graph.RelLocatedIn, SourceID: "impressionism", TargetID: "19th-century"},
		},
	}
}

func TestMemoryStoreDepthTraversal(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.PutSnapshot(ctx, museumGraph(t)); err != nil {
		t.Fatalf("PutSnapshot: %v", err)
	}

	tests := []struct {
		depth     int
		wantNodes int
		wantRels  int
	}{
		{0, 1, 0},
		{1, 3, 2},
		{2, 4, 3},
		{10, 4, 3},
	}
	for _, tt := range tests {
		snap, err := s.GetSnapshot(ctx, "water-lilies", tt.depth)
		if err != nil {
			t.Fatalf("GetSnapshot depth %d: %v", tt.depth, err)
		}
		if len(snap.Nodes) != tt.wantNodes || len(snap.Relationships) != tt.wantRels {
			t.Errorf("depth %d: got %d nodes / %d rels, want %d / %d",
				tt.depth, len(snap.Nodes), len(snap.Relationships), tt.wantNodes, tt.wantRels)
		}
	}
}

func TestMemoryStoreMissingRoot(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetSnapshot(context.Background(), "nope", 2)
	if !errors.Is(err, errors.ErrCodeGraphNotFound) {
		t.Fatalf("err = %v, want graph not found", err)
	}
}

func TestMemoryStorePutRejectsInvalidSnapshot(t *testing.T) {
	s := NewMemoryStore()
	bad := &graph.Snapshot{Nodes: []graph.Node{{ID: "x", Type: "GALLERY"}}}
	if err := s.PutSnapshot(context.Background(), bad); !errors.Is(err, errors.ErrCodeInvalidNodeType) {
		t.Fatalf("err = %v, want invalid node type", err)
	}
}

func TestMemoryStoreDeleteNodeDropsRelationships(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.PutSnapshot(ctx, museumGraph(t)); err != nil {
		t.Fatalf("PutSnapshot: %v", err)
	}

	if err := s.DeleteNode(ctx, "impressionism"); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}

	snap, err := s.GetSnapshot(ctx, "water-lilies", 5)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if len(snap.Nodes) != 2 || len(snap.Relationships) != 1 {
		t.Fatalf("got %d nodes / %d rels after delete, want 2 / 1", len(snap.Nodes), len(snap.Relationships))
	}

	if err := s.DeleteNode(ctx, "impressionism"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("second delete err = %v, want not found", err)
	}
}
