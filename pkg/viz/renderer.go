package viz

import (
	"sync"

	"github.com/artatlas/artgraph/pkg/graph"
)

// =============================================================================
// Renderer Contract
// =============================================================================

// Frame is one complete drawable state: the snapshot, the positions computed
// for it and the current view parameters.
type Frame struct {
	Snapshot  *graph.Snapshot
	Positions map[string]graph.Position
	Zoom      float64
	PanX      float64
	PanY      float64
	Selected  []string
}

// Renderer draws frames onto some output surface. Implementations include
// the terminal canvas in the CLI and the headless renderer below. Draw is
// called from the coordinator's update path and must not retain the frame.
type Renderer interface {
	// Init prepares the surface for the given layout bounds.
	Init(bounds graph.Bounds) error

	// Draw renders a complete frame.
	Draw(frame Frame) error

	// Destroy releases the surface. Draw is never called after Destroy.
	Destroy()
}

// MetricsReporter is an optional Renderer extension for surfaces that can
// report how far their current frame has progressed, in [0, 1]. The
// coordinator folds the value into each performance sampling window it
// delivers.
type MetricsReporter interface {
	RenderProgress() float64
}

// =============================================================================
// Headless Renderer
// =============================================================================

// HeadlessRenderer keeps the most recent frame in memory without drawing
// anything. It backs server-side layout endpoints and tests.
type HeadlessRenderer struct {
	mu     sync.Mutex
	bounds graph.Bounds
	last   *Frame
	frames int
}

// NewHeadlessRenderer returns a renderer that records frames in memory.
func NewHeadlessRenderer() *HeadlessRenderer {
	return &HeadlessRenderer{}
}

func (r *HeadlessRenderer) Init(bounds graph.Bounds) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bounds = bounds
	return nil
}

func (r *HeadlessRenderer) Draw(frame Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := frame
	r.last = &f
	r.frames++
	return nil
}

func (r *HeadlessRenderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = nil
}

// LastFrame returns the most recently drawn frame, or nil before any draw.
func (r *HeadlessRenderer) LastFrame() *Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// FrameCount returns the number of frames drawn so far.
func (r *HeadlessRenderer) FrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// RenderProgress reports 1 once a frame has been drawn. Draws complete
// synchronously, so there is no intermediate progress to report.
func (r *HeadlessRenderer) RenderProgress() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return 0
	}
	return 1
}
