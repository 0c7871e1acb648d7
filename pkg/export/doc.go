// Package export renders graph snapshots to portable formats.
//
// # Overview
//
// This package produces Graphviz DOT source from a snapshot, optionally
// pinning nodes to positions computed by the layout engine, and renders the
// DOT to SVG in-process.
//
// # Usage
//
// Convert a snapshot to DOT, then render:
//
//	dot := export.ToDOT(snap, positions, export.Options{})
//	svg, err := export.RenderSVG(dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package export
