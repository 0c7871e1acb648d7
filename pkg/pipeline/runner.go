package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/artatlas/artgraph/pkg/cache"
	"github.com/artatlas/artgraph/pkg/export"
	"github.com/artatlas/artgraph/pkg/graph"
	"github.com/artatlas/artgraph/pkg/layout"
	"github.com/artatlas/artgraph/pkg/source"
)

// Runner executes the pipeline with a shared cache and layout
// configuration. A Runner is safe for concurrent use; each Execute call
// runs its own simulation engine.
type Runner struct {
	cache     cache.Cache
	keyer     cache.Keyer
	layoutCfg layout.Config
	logger    *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables caching, a nil
// keyer uses the default key scheme.
func NewRunner(c cache.Cache, keyer cache.Keyer, layoutCfg layout.Config, logger *log.Logger) (*Runner, error) {
	if err := layoutCfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{cache: c, keyer: keyer, layoutCfg: layoutCfg, logger: logger}, nil
}

// cachedLayout is the JSON shape stored for a layout stage result.
type cachedLayout struct {
	Positions map[string]graph.Position `json:"positions"`
	Partial   bool                      `json:"partial"`
}

// Execute runs the full pipeline: load the snapshot, compute or reuse its
// layout, and export the requested formats.
func (r *Runner) Execute(ctx context.Context, src source.Source, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	snap, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	res := &Result{
		Snapshot:  snap,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		CacheInfo: CacheInfo{ExportHits: make(map[string]bool)},
	}
	res.Stats.LoadTime = time.Since(start)
	res.Stats.NodeCount = len(snap.Nodes)
	res.Stats.EdgeCount = len(snap.Relationships)

	data, err := graph.MarshalSnapshot(snap)
	if err != nil {
		return nil, err
	}
	res.SnapshotHash = cache.Hash(data)

	if err := r.runLayout(ctx, snap, opts, res); err != nil {
		return nil, err
	}
	if err := r.runExports(ctx, snap, opts, res); err != nil {
		return nil, err
	}

	r.logger.Debug("pipeline complete",
		"source", src.Describe(),
		"nodes", res.Stats.NodeCount,
		"layout_cached", res.CacheInfo.LayoutHit,
		"layout", res.Stats.LayoutTime,
		"export", res.Stats.ExportTime)
	return res, nil
}

// runLayout fills res.Positions, from cache when possible.
func (r *Runner) runLayout(ctx context.Context, snap *graph.Snapshot, opts Options, res *Result) error {
	start := time.Now()
	key := r.keyer.LayoutKey(res.SnapshotHash, opts.Bounds)

	if !opts.Refresh {
		if data, ok, err := r.cache.Get(ctx, key); err != nil {
			r.logger.Warn("layout cache read failed", "error", err)
		} else if ok {
			var cached cachedLayout
			if err := json.Unmarshal(data, &cached); err == nil {
				res.Positions = cached.Positions
				res.Partial = cached.Partial
				res.CacheInfo.LayoutHit = true
				res.Stats.LayoutTime = time.Since(start)
				return nil
			}
			r.logger.Warn("dropping corrupt layout cache entry", "key", key)
			_ = r.cache.Delete(ctx, key)
		}
	}

	engine, err := layout.NewEngine(r.layoutCfg, r.logger)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	lr, err := engine.UpdateLayout(ctx, snap, opts.Bounds)
	if err != nil {
		return err
	}
	res.Positions = lr.Positions
	res.Ticks = lr.Ticks
	res.Partial = lr.Partial
	res.Stats.LayoutTime = time.Since(start)

	if data, err := json.Marshal(cachedLayout{Positions: lr.Positions, Partial: lr.Partial}); err == nil {
		if err := r.cache.Set(ctx, key, data, DefaultLayoutTTL); err != nil {
			r.logger.Warn("layout cache write failed", "error", err)
		}
	}
	return nil
}

// runExports produces the requested artifacts, caching the expensive ones.
func (r *Runner) runExports(ctx context.Context, snap *graph.Snapshot, opts Options, res *Result) error {
	start := time.Now()
	defer func() { res.Stats.ExportTime = time.Since(start) }()

	var dot string
	needsDOT := false
	for _, f := range opts.Formats {
		if f == FormatDOT || f == FormatSVG {
			needsDOT = true
		}
	}
	if needsDOT {
		dot = export.ToDOT(snap, res.Positions, export.Options{
			Detailed: opts.Detailed,
			Pinned:   len(res.Positions) > 0,
		})
	}

	for _, f := range opts.Formats {
		switch f {
		case FormatDOT:
			res.Artifacts[f] = []byte(dot)

		case FormatJSON:
			data, err := json.MarshalIndent(cachedLayout{
				Positions: res.Positions,
				Partial:   res.Partial,
			}, "", "  ")
			if err != nil {
				return err
			}
			res.Artifacts[f] = data

		case FormatSVG:
			// The rendered artifact depends on the viewport and label
			// detail as well as the graph content, so all three feed the key.
			exportHash := cache.Hash([]byte(fmt.Sprintf("%s:%gx%g:%t",
				res.SnapshotHash, opts.Bounds.Width, opts.Bounds.Height, opts.Detailed)))
			key := r.keyer.ExportKey(exportHash, f)
			if !opts.Refresh {
				if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
					res.Artifacts[f] = data
					res.CacheInfo.ExportHits[f] = true
					continue
				}
			}
			data, err := export.RenderSVG(dot)
			if err != nil {
				return err
			}
			res.Artifacts[f] = data
			if err := r.cache.Set(ctx, key, data, DefaultExportTTL); err != nil {
				r.logger.Warn("export cache write failed", "error", err)
			}
		}
	}
	return nil
}
