// Package pipeline provides the load → layout → export pipeline.
//
// The pipeline centralizes the flow shared by the CLI and the HTTP server:
// fetch a snapshot from a [source.Source], run the force simulation, and
// export the result in one or more formats. Layout and export results are
// cached by snapshot content hash, so repeated runs over unchanged graphs
// skip the simulation entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(fileCache, nil, layoutCfg, logger)
//	result, err := runner.Execute(ctx, source.Resolve("snap.json"), pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"time"

	"github.com/artatlas/artgraph/pkg/graph"
)

// Default viewport for layout computation.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// Cache lifetimes. Layouts and exports are keyed by content hash, so stale
// entries are only ever dead weight, never wrong answers.
const (
	DefaultLayoutTTL = 24 * time.Hour
	DefaultExportTTL = 24 * time.Hour
)

// Output format constants.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, json)", format)
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Bounds is the viewport the layout is computed for.
	Bounds graph.Bounds `json:"bounds,omitempty"`

	// Formats lists the artifacts to produce.
	Formats []string `json:"formats,omitempty"`

	// Detailed includes type and property counts in export labels.
	Detailed bool `json:"detailed,omitempty"`

	// Refresh bypasses cached layout and export results.
	Refresh bool `json:"refresh,omitempty"`

	validated bool
}

// ValidateAndSetDefaults checks the options and applies defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Bounds.Width == 0 {
		o.Bounds.Width = DefaultWidth
	}
	if o.Bounds.Height == 0 {
		o.Bounds.Height = DefaultHeight
	}
	if o.Bounds.Width < 0 || o.Bounds.Height < 0 {
		return fmt.Errorf("bounds %gx%g must be positive", o.Bounds.Width, o.Bounds.Height)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for _, f := range o.Formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Snapshot is the loaded graph.
	Snapshot *graph.Snapshot

	// SnapshotHash is the content hash used for cache keys.
	SnapshotHash string

	// Positions maps node ids to their computed coordinates.
	Positions map[string]graph.Position

	// Ticks is the number of simulation ticks the layout ran for. Zero when
	// the layout came from cache.
	Ticks int

	// Partial is set when the simulation stopped before stabilizing.
	Partial bool

	// Artifacts contains exported outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits per pipeline stage.
type CacheInfo struct {
	// LayoutHit is set when positions came from cache.
	LayoutHit bool

	// ExportHits records, per format, whether the artifact came from cache.
	ExportHits map[string]bool
}
