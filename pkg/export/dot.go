package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/artatlas/artgraph/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes type and property counts in node labels.
	// When false, only the display label is shown.
	Detailed bool

	// Pinned emits layout positions as pos attributes so Graphviz keeps
	// the force-directed placement instead of computing its own.
	Pinned bool
}

// fillColors shades nodes by weight class, most prominent first.
var fillColors = map[graph.WeightClass]string{
	graph.WeightPrimary:   "lightgoldenrod1",
	graph.WeightSecondary: "lightblue",
	graph.WeightTertiary:  "gray92",
}

// ToDOT converts a snapshot to Graphviz DOT format. positions may be nil;
// with Options.Pinned set, nodes found in positions are pinned there.
func ToDOT(snap *graph.Snapshot, positions map[string]graph.Position, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fontsize=12];\n")
	buf.WriteString("\n")

	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		attrs := nodeAttrs(n, positions, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := range snap.Relationships {
		r := &snap.Relationships[i]
		fmt.Fprintf(&buf, "  %q -- %q [label=%q, penwidth=%.1f];\n",
			r.SourceID, r.TargetID, string(r.Type), 0.5+2*r.Type.Strength())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *graph.Node, positions map[string]graph.Position, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed)),
		fmt.Sprintf("fillcolor=%s", fillColors[n.Type.Weight()]),
	}
	if opts.Pinned {
		if pos, ok := positions[n.ID]; ok {
			// Graphviz points use y-up; layout units use y-down.
			attrs = append(attrs, fmt.Sprintf("pos=\"%.1f,%.1f!\"", pos.X, -pos.Y))
		}
	}
	return attrs
}

func nodeLabel(n *graph.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n%s (%d props)", label, string(n.Type), len(n.Properties))
}

// RenderSVG renders DOT source to SVG using Graphviz.
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
	return buf.Bytes(), nil
}
