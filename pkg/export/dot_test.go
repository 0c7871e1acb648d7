package export

import (
	"strings"
	"testing"

	"github.com/artatlas/artgraph/pkg/graph"
)

func exportFixture() *graph.Snapshot {
	return &graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "starry-night", Type: graph.NodeArtwork, Label: "The Starry Night", Properties: map[string]any{
				"title": "The Starry Night", "year": 1889, "medium": "oil on canvas",
			}},
			{ID: "van-gogh", Type: graph.NodeArtist, Properties: map[string]any{
				"name": "Vincent van Gogh", "birth_year": 1853,
			}},
		},
		Relationships: []graph.Relationship{
			{ID: "r1", Type: graph.RelCreatedBy, SourceID: "starry-night", TargetID: "van-gogh"},
		},
	}
}

func TestToDOTContainsNodesAndEdges(t *testing.T) {
	dot := ToDOT(exportFixture(), nil, Options{})

	for _, want := range []string{
		`"starry-night"`,
		`"van-gogh"`,
		`"starry-night" -- "van-gogh"`,
		`label="CREATED_BY"`,
		`label="The Starry Night"`,
		"fillcolor=lightgoldenrod1",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s:\n%s", want, dot)
		}
	}
}

func TestToDOTPinsPositions(t *testing.T) {
	positions := map[string]graph.Position{
		"starry-night": {X: 100, Y: 200},
		"van-gogh":     {X: 300, Y: 400},
	}
	dot := ToDOT(exportFixture(), positions, Options{Pinned: true})

	if !strings.Contains(dot, `pos="100.0,-200.0!"`) {
		t.Errorf("DOT missing pinned position:\n%s", dot)
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	dot := ToDOT(exportFixture(), nil, Options{Detailed: true})
	if !strings.Contains(dot, "ARTIST (2 props)") {
		t.Errorf("detailed DOT missing type annotation:\n%s", dot)
	}
}

func TestEdgeWidthTracksStrength(t *testing.T) {
	snap := exportFixture()
	snap.Relationships = append(snap.Relationships, graph.Relationship{
		ID: "r2", Type: graph.RelContemporaryOf, SourceID: "starry-night", TargetID: "van-gogh",
	})
	dot := ToDOT(snap, nil, Options{})

	// CREATED_BY (strength 1.0) draws heavier than CONTEMPORARY_OF (0.3).
	if !strings.Contains(dot, "penwidth=2.5") || !strings.Contains(dot, "penwidth=1.1") {
		t.Errorf("edge widths not derived from strength:\n%s", dot)
	}
}
