// Package pkg provides the core libraries for Artgraph knowledge graph
// visualization.
//
// # Overview
//
// Artgraph turns art knowledge graphs (artworks, artists, movements,
// techniques and their relationships) into interactive force-directed
// visualizations. The pkg directory is organized into:
//
//  1. [graph] - Domain types: nodes, relationships, snapshots, validation
//  2. [layout] - Force-directed simulation engine
//  3. [interact] - Gesture recognition and selection state
//  4. [viz] - Coordinator wiring engine, gestures and a renderer
//  5. [store], [cache], [source] - Persistence, caching and snapshot loading
//  6. [export], [pipeline] - DOT/SVG export and the load → layout → export flow
//
// # Architecture
//
// The typical data flow:
//
//	Snapshot (file / HTTP / store)
//	         ↓
//	    [layout] package (force simulation → positions)
//	         ↓
//	    [viz] package (frames → renderer), [interact] (gestures)
//	         ↓
//	    terminal viewer, DOT/SVG export, HTTP API
//
// # Quick Start
//
// Compute a layout and export it:
//
//	import (
//	    "context"
//	    "github.com/artatlas/artgraph/pkg/layout"
//	    "github.com/artatlas/artgraph/pkg/pipeline"
//	    "github.com/artatlas/artgraph/pkg/source"
//	)
//
//	runner, _ := pipeline.NewRunner(nil, nil, layout.DefaultConfig(), nil)
//	result, _ := runner.Execute(context.Background(),
//	    source.Resolve("snapshot.json"),
//	    pipeline.Options{Formats: []string{pipeline.FormatSVG}})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// # Main Packages
//
// [graph] - Node and relationship types with per-type required properties,
// weight classes that drive visual prominence, and the snapshot codec.
//
// [layout] - Force-directed layout with repulsion, springs, centering and
// touch-target collision. Concurrent update requests supersede each other;
// the latest snapshot always wins.
//
// [interact] - Tap, double-tap, long-press, pan, pinch and wheel
// recognition over raw pointer events, plus single/multi selection state.
//
// [viz] - Lifecycle coordinator: initialize a renderer, apply snapshots
// with latest-wins coalescing, recover from failed updates, sample FPS.
//
// [store] - Snapshot persistence with in-memory and MongoDB backends and a
// caching decorator.
//
// [cache] - File, Redis and null cache backends with content-hash keys.
//
// [source] - Snapshot loading from local files or HTTP endpoints.
//
// [export] - Graphviz DOT generation and SVG rendering.
//
// [pipeline] - The load → layout → export flow shared by CLI and API, with
// per-stage caching.
//
// [errors] - Coded errors with user-facing messages.
//
// [observability] - Optional hooks for layout, gesture and cache events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/layout/...    # Specific package
//
// [graph]: https://pkg.go.dev/github.com/artatlas/artgraph/pkg/graph
// [layout]: https://pkg.go.dev/github.com/artatlas/artgraph/pkg/layout
// [interact]: https://pkg.go.dev/github.com/artatlas/artgraph/pkg/interact
// [viz]: https://pkg.go.dev/github.com/artatlas/artgraph/pkg/viz
// [store]: https://pkg.go.dev/github.com/artatlas/artgraph/pkg/store
// [cache]: https://pkg.go.dev/github.com/artatlas/artgraph/pkg/cache
// [source]: https://pkg.go.dev/github.com/artatlas/artgraph/pkg/source
// [export]: https://pkg.go.dev/github.com/artatlas/artgraph/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/artatlas/artgraph/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/artatlas/artgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/artatlas/artgraph/pkg/observability
package pkg
