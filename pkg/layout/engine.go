package layout

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/artatlas/artgraph/pkg/errors"
	"github.com/artatlas/artgraph/pkg/graph"
	"github.com/artatlas/artgraph/pkg/observability"
)

// =============================================================================
// Engine - Force-Directed Layout
// =============================================================================

// Engine produces and maintains a stable position for every node of the
// current snapshot. It is safe for concurrent use: a newer UpdateLayout call
// supersedes any in-flight run via the generation counter, and superseded
// runs never write to the position cache.
type Engine struct {
	cfg    Config
	logger *log.Logger

	generation atomic.Uint64

	mu        sync.RWMutex
	positions map[string]graph.Position
	destroyed bool
}

// Result is the outcome of one layout pass.
type Result struct {
	// Positions maps node id to its final position. For partial results these
	// are the best-effort last positions.
	Positions map[string]graph.Position

	// Partial is set when the run was abandoned before alpha reached its
	// stabilization threshold (tick budget, wall clock, or cancellation).
	Partial bool

	// Superseded is set when a newer UpdateLayout or Destroy invalidated this
	// run; its positions were not written to the engine's cache.
	Superseded bool

	Ticks   int
	Alpha   float64
	Elapsed time.Duration
}

// NewEngine creates a layout engine with the given configuration.
// A nil logger falls back to the default logger.
func NewEngine(cfg Config, logger *log.Logger) (*Engine, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		cfg:       cfg,
		logger:    logger,
		positions: make(map[string]graph.Position),
	}, nil
}

// UpdateLayout cancels any in-flight simulation, reseeds placement for the
// snapshot's node set, and runs the simulation to stabilization or to its
// tick/time budget. It blocks until the run finishes; callers that need the
// previous run cancelled eagerly simply call UpdateLayout again from another
// goroutine - the generation counter makes the older run a no-op.
//
// The returned Result always carries usable positions: a timeout or
// cancellation yields Partial rather than an error.
func (e *Engine) UpdateLayout(ctx context.Context, snap *graph.Snapshot, bounds graph.Bounds) (*Result, error) {
	if snap == nil {
		return nil, errors.New(errors.ErrCodeInvalidSnapshot, "nil snapshot")
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidBounds, "bounds %gx%g must be positive", bounds.Width, bounds.Height)
	}

	e.mu.RLock()
	if e.destroyed {
		e.mu.RUnlock()
		return nil, errors.New(errors.ErrCodeDestroyed, "layout engine destroyed")
	}
	prev := make(map[string]graph.Position, len(e.positions))
	for id, p := range e.positions {
		prev[id] = p
	}
	e.mu.RUnlock()

	gen := e.generation.Add(1)
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, len(snap.Nodes), len(snap.Relationships))

	box := boundsBox{width: bounds.Width, height: bounds.Height}
	index := make(map[string]int, len(snap.Nodes))
	for i, n := range snap.Nodes {
		index[n.ID] = i
	}
	pts := seedPositions(snap.Nodes, box, e.cfg, prev, snap.DegreeCentrality())
	springs := buildSprings(snap.Relationships, index, e.cfg)

	deadline := start.Add(e.cfg.MaxDuration)
	alpha := e.cfg.Alpha
	ticks := 0
	partial := false
	superseded := false

loop:
	for alpha > e.cfg.AlphaMin {
		switch {
		case e.generation.Load() != gen:
			superseded = true
			partial = true
			break loop
		case ctx.Err() != nil:
			partial = true
			break loop
		case ticks >= e.cfg.MaxTicks:
			partial = true
			break loop
		case time.Now().After(deadline):
			partial = true
			break loop
		}

		pts = step(pts, springs, e.cfg, box, alpha)
		alpha *= 1 - e.cfg.AlphaDecay
		ticks++
	}

	positions := make(map[string]graph.Position, len(snap.Nodes))
	for i, n := range snap.Nodes {
		positions[n.ID] = graph.Position{X: pts[i].x, Y: pts[i].y}
	}

	// Write only when this run is still the current generation. The write
	// replaces the cache wholesale: entries for removed node ids drop here.
	if !superseded {
		e.mu.Lock()
		if e.destroyed || e.generation.Load() != gen {
			superseded = true
		} else {
			e.positions = positions
		}
		e.mu.Unlock()
	}

	res := &Result{
		Positions:  positions,
		Partial:    partial,
		Superseded: superseded,
		Ticks:      ticks,
		Alpha:      alpha,
		Elapsed:    time.Since(start),
	}
	observability.Layout().OnLayoutComplete(ctx, len(snap.Nodes), res.Ticks, res.Partial, res.Elapsed)

	if partial && !superseded {
		e.logger.Warn("layout abandoned before stabilization",
			"ticks", ticks, "alpha", alpha, "elapsed", res.Elapsed)
	} else if !superseded {
		e.logger.Debug("layout stabilized",
			"nodes", len(snap.Nodes), "ticks", ticks, "elapsed", res.Elapsed)
	}
	return res, nil
}

// GetNodePosition returns the cached position for a node id. The second
// return value is false for ids absent from the current snapshot; the call
// never fails.
func (e *Engine) GetNodePosition(id string) (graph.Position, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.positions[id]
	return p, ok
}

// Positions returns a copy of the current position cache.
func (e *Engine) Positions() map[string]graph.Position {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]graph.Position, len(e.positions))
	for id, p := range e.positions {
		out[id] = p
	}
	return out
}

// Destroy stops any running simulation and clears the position cache.
// Safe to call repeatedly.
func (e *Engine) Destroy() {
	e.generation.Add(1) // invalidate in-flight runs
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.positions = make(map[string]graph.Position)
}
