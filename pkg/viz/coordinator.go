package viz

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/artatlas/artgraph/pkg/errors"
	"github.com/artatlas/artgraph/pkg/graph"
	"github.com/artatlas/artgraph/pkg/interact"
	"github.com/artatlas/artgraph/pkg/layout"
)

// =============================================================================
// Coordinator State Machine
// =============================================================================

// State is the lifecycle state of a Coordinator.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateUpdating
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateUpdating:
		return "updating"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// =============================================================================
// Coordinator
// =============================================================================

// Coordinator wires the layout engine, the gesture manager and a renderer
// into one lifecycle. All public methods are safe for concurrent use.
type Coordinator struct {
	cfg      Config
	logger   *log.Logger
	engine   *layout.Engine
	gestures *interact.Manager
	renderer Renderer
	perf     *sampler
	gate     frameGate

	// onError receives failures the coordinator could not recover from.
	onError func(error)

	mu        sync.Mutex
	state     State
	bounds    graph.Bounds
	lastGood  *graph.Snapshot
	positions map[string]graph.Position
	failures  int
	recovery  *time.Timer
	zoom      float64
	panX      float64
	panY      float64
}

// NewCoordinator assembles a coordinator from its collaborators. The engine
// and renderer are required; the gesture manager may be nil for headless
// use. onError may be nil.
func NewCoordinator(cfg Config, engine *layout.Engine, renderer Renderer, gestures *interact.Manager, onError func(error), logger *log.Logger) (*Coordinator, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if engine == nil || renderer == nil {
		return nil, errors.New(errors.ErrCodeInternal, "coordinator requires an engine and a renderer")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		cfg:      cfg,
		logger:   logger,
		engine:   engine,
		renderer: renderer,
		gestures: gestures,
		perf:     newSampler(cfg.SampleInterval),
		onError:  onError,
		zoom:     1.0,
	}, nil
}

// Initialize prepares the rendering surface for the given bounds and moves
// the coordinator to Ready. It may only be called once.
func (c *Coordinator) Initialize(ctx context.Context, bounds graph.Bounds) error {
	c.mu.Lock()
	switch c.state {
	case StateDestroyed:
		c.mu.Unlock()
		return errors.New(errors.ErrCodeDestroyed, "coordinator is destroyed")
	case StateUninitialized:
	default:
		c.mu.Unlock()
		return errors.New(errors.ErrCodeInternal, "coordinator already initialized")
	}
	if bounds.Width <= 0 || bounds.Height <= 0 {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeInvalidBounds, "bounds %gx%g must be positive", bounds.Width, bounds.Height)
	}
	c.state = StateInitializing
	c.bounds = bounds
	c.mu.Unlock()

	if err := c.renderer.Init(bounds); err != nil {
		c.mu.Lock()
		c.state = StateUninitialized
		c.mu.Unlock()
		return errors.Wrap(errors.ErrCodeRenderFailure, err, "initialize renderer")
	}

	c.mu.Lock()
	c.state = StateReady
	c.mu.Unlock()

	c.perf.Start(c.sampleHook())
	c.logger.Info("coordinator ready", "width", bounds.Width, "height", bounds.Height)
	return nil
}

// sampleHook builds the per-window delivery function for the performance
// sampler, folding in renderer progress when the surface reports it.
func (c *Coordinator) sampleHook() func(Metrics) {
	onMetrics := c.cfg.OnMetrics
	progress, ok := c.renderer.(MetricsReporter)
	return func(m Metrics) {
		if ok {
			m.RenderProgress = progress.RenderProgress()
		}
		if onMetrics != nil {
			onMetrics(m)
		}
	}
}

// UpdateGraph applies a new snapshot: it validates, computes a layout,
// draws the frame and prunes stale selection state. Calls that arrive while
// an update is already running park their snapshot and return immediately;
// only the newest parked snapshot is applied afterwards.
func (c *Coordinator) UpdateGraph(ctx context.Context, snap *graph.Snapshot) error {
	c.mu.Lock()
	switch c.state {
	case StateDestroyed:
		c.mu.Unlock()
		return errors.New(errors.ErrCodeDestroyed, "coordinator is destroyed")
	case StateUninitialized, StateInitializing:
		c.mu.Unlock()
		return errors.New(errors.ErrCodeNotReady, "coordinator is not initialized")
	}
	c.mu.Unlock()

	if !c.gate.acquire(snap) {
		c.logger.Debug("snapshot coalesced while update in flight")
		return nil
	}

	c.setState(StateUpdating)
	var lastErr error
	cur := snap
	for {
		if err := c.apply(ctx, cur); err != nil {
			lastErr = c.recoverFrom(err)
		}
		next, ok := c.gate.next()
		if !ok {
			break
		}
		cur = next
	}
	c.mu.Lock()
	if c.state == StateUpdating {
		c.state = StateReady
	}
	c.mu.Unlock()
	return lastErr
}

// apply runs one snapshot through layout and rendering. Renderer panics are
// funneled into coded errors so a misbehaving surface cannot take the
// coordinator down.
func (c *Coordinator) apply(ctx context.Context, snap *graph.Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeRenderFailure, "renderer panic: %v", r)
		}
	}()

	start := time.Now()
	if err := snap.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	bounds := c.bounds
	zoom, panX, panY := c.zoom, c.panX, c.panY
	c.mu.Unlock()

	res, err := c.engine.UpdateLayout(ctx, snap, bounds)
	if err != nil {
		return err
	}
	if res.Superseded {
		return nil
	}

	var selected []string
	if c.gestures != nil {
		ids := make([]string, 0, len(snap.Nodes))
		for i := range snap.Nodes {
			ids = append(ids, snap.Nodes[i].ID)
		}
		c.gestures.Prune(ids)
		selected = c.gestures.Selection()
		zoom = c.gestures.Zoom()
	}
	if err := c.renderer.Draw(Frame{
		Snapshot:  snap,
		Positions: res.Positions,
		Zoom:      zoom,
		PanX:      panX,
		PanY:      panY,
		Selected:  selected,
	}); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailure, err, "draw frame")
	}

	c.perf.Record(time.Since(start))
	c.perf.SetGraphSize(len(snap.Nodes), len(snap.Relationships))

	c.mu.Lock()
	c.lastGood = snap
	c.positions = res.Positions
	c.failures = 0
	c.mu.Unlock()

	c.logger.Debug("snapshot applied",
		"nodes", len(snap.Nodes),
		"relationships", len(snap.Relationships),
		"ticks", res.Ticks,
		"partial", res.Partial,
		"duration", time.Since(start))
	return nil
}

// recoverFrom handles a failed update. While under the attempt budget it
// schedules a delayed reapply of the last snapshot that rendered
// successfully and swallows the error, so the view never sticks on a broken
// state. Once the budget is spent the error is surfaced through onError and
// returned, and no further reapply is scheduled.
func (c *Coordinator) recoverFrom(cause error) error {
	c.perf.RecordError()

	c.mu.Lock()
	c.failures++
	failures := c.failures
	prev := c.lastGood
	c.mu.Unlock()

	if failures > c.cfg.MaxRecoveryAttempts {
		c.logger.Error("graph update failed, recovery budget spent",
			"failures", failures, "error", cause)
		if c.onError != nil {
			c.onError(cause)
		}
		return cause
	}

	c.logger.Warn("graph update failed, scheduling recovery",
		"attempt", failures, "error", cause)
	if prev != nil {
		c.scheduleRecovery(prev)
	}
	return nil
}

// scheduleRecovery arms the recovery timer with the snapshot to reapply. A
// newer failure rearms it, so only the latest schedule fires.
func (c *Coordinator) scheduleRecovery(snap *graph.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return
	}
	if c.recovery != nil {
		c.recovery.Stop()
	}
	c.recovery = time.AfterFunc(c.cfg.RecoveryDelay, func() {
		if c.State() == StateDestroyed {
			return
		}
		if err := c.apply(context.Background(), snap); err != nil {
			c.logger.Error("recovery reapply failed", "error", err)
			return
		}
		c.logger.Info("recovered with previous snapshot")
	})
}

// Pointer forwards a raw pointer event to the gesture manager.
func (c *Coordinator) Pointer(ev interact.PointerEvent) {
	if c.gestures != nil {
		c.gestures.Enqueue(ev)
	}
}

// FlushGestures drains queued pointer events. Call once per frame.
func (c *Coordinator) FlushGestures() {
	if c.gestures != nil {
		c.gestures.Flush()
	}
}

// Redraw re-renders the last applied snapshot with the current zoom, pan
// and selection without re-running the layout simulation. Interactive
// clients call it after gesture handling; it is a no-op until a snapshot
// has been applied.
func (c *Coordinator) Redraw() error {
	c.mu.Lock()
	snap := c.lastGood
	positions := c.positions
	zoom, panX, panY := c.zoom, c.panX, c.panY
	state := c.state
	c.mu.Unlock()

	if state == StateDestroyed {
		return errors.New(errors.ErrCodeDestroyed, "coordinator is destroyed")
	}
	if snap == nil {
		return nil
	}

	var selected []string
	if c.gestures != nil {
		selected = c.gestures.Selection()
		zoom = c.gestures.Zoom()
	}
	start := time.Now()
	if err := c.renderer.Draw(Frame{
		Snapshot:  snap,
		Positions: positions,
		Zoom:      zoom,
		PanX:      panX,
		PanY:      panY,
		Selected:  selected,
	}); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailure, err, "redraw frame")
	}
	c.perf.Record(time.Since(start))
	return nil
}

// SetPan updates the view translation used for subsequent frames.
func (c *Coordinator) SetPan(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panX += dx
	c.panY += dy
}

// SetZoom updates the view scale used for subsequent frames.
func (c *Coordinator) SetZoom(scale float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = scale
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Metrics returns the last performance sampling window.
func (c *Coordinator) Metrics() Metrics {
	return c.perf.Metrics()
}

// Engine exposes the layout engine for position queries.
func (c *Coordinator) Engine() *layout.Engine {
	return c.engine
}

// LastSnapshot returns the last snapshot that rendered successfully.
func (c *Coordinator) LastSnapshot() *graph.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastGood
}

// setState moves the machine to s unless already destroyed.
func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDestroyed {
		c.state = s
	}
}

// Destroy tears down the coordinator and its collaborators. It is
// idempotent; all further calls on the coordinator fail with a destroyed
// error or are no-ops.
func (c *Coordinator) Destroy() {
	c.mu.Lock()
	if c.state == StateDestroyed {
		c.mu.Unlock()
		return
	}
	c.state = StateDestroyed
	c.lastGood = nil
	c.positions = nil
	if c.recovery != nil {
		c.recovery.Stop()
		c.recovery = nil
	}
	c.mu.Unlock()

	c.perf.Stop()
	c.gate.reset()
	c.engine.Destroy()
	if c.gestures != nil {
		c.gestures.Destroy()
	}
	c.renderer.Destroy()
	c.logger.Info("coordinator destroyed")
}
