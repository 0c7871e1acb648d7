package viz

import (
	"sync"
	"time"
)

// =============================================================================
// Performance Sampling
// =============================================================================

// Metrics is one sampling window of rendering performance.
type Metrics struct {
	// FPS is frames per second over the last completed window.
	FPS float64

	// AvgFrameTime is the mean time spent producing a frame in the last
	// completed window.
	AvgFrameTime time.Duration

	// Errors counts failed operations in the last completed window.
	Errors int

	// Frames is the total frame count since construction.
	Frames int

	// Nodes and Edges describe the most recently applied snapshot.
	Nodes int
	Edges int

	// RenderProgress is how far the surface has progressed through its
	// current frame, in [0, 1]. Only populated when the renderer reports
	// progress; see MetricsReporter.
	RenderProgress float64
}

// sampler aggregates frame timings and errors into fixed windows. Windows
// close on Start's ticker (or an explicit sample call), resetting the
// per-window counters; lifetime totals survive across windows.
type sampler struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	stop     chan struct{}

	windowStart time.Time
	windowN     int
	windowTotal time.Duration
	windowErrs  int

	total int
	nodes int
	edges int
	last  Metrics
}

func newSampler(interval time.Duration) *sampler {
	return &sampler{interval: interval, now: time.Now}
}

// Record adds one frame timing to the open window.
func (s *sampler) Record(frameTime time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.windowStart.IsZero() {
		s.windowStart = s.now()
	}
	s.windowN++
	s.windowTotal += frameTime
	s.total++
}

// RecordError adds one failed operation to the open window.
func (s *sampler) RecordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.windowStart.IsZero() {
		s.windowStart = s.now()
	}
	s.windowErrs++
}

// SetGraphSize records the node and edge counts of the applied snapshot.
func (s *sampler) SetGraphSize(nodes, edges int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = nodes
	s.edges = edges
}

// sample closes the open window: it computes the window metrics, resets the
// per-window counters and returns the result.
func (s *sampler) sample() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.windowStart.IsZero() {
		s.windowStart = now
		return s.snapshotLocked()
	}
	elapsed := now.Sub(s.windowStart)
	if elapsed <= 0 {
		return s.snapshotLocked()
	}

	s.last.FPS = float64(s.windowN) / elapsed.Seconds()
	s.last.AvgFrameTime = 0
	if s.windowN > 0 {
		s.last.AvgFrameTime = s.windowTotal / time.Duration(s.windowN)
	}
	s.last.Errors = s.windowErrs

	s.windowStart = now
	s.windowN = 0
	s.windowTotal = 0
	s.windowErrs = 0
	return s.snapshotLocked()
}

// Metrics returns the last completed window plus the current lifetime
// totals.
func (s *sampler) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *sampler) snapshotLocked() Metrics {
	m := s.last
	m.Frames = s.total
	m.Nodes = s.nodes
	m.Edges = s.edges
	return m
}

// Start begins fixed-interval sampling, delivering each closed window to
// onSample. A second Start is a no-op until Stop.
func (s *sampler) Start(onSample func(Metrics)) {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.stop = stop
	interval := s.interval
	s.mu.Unlock()

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				m := s.sample()
				if onSample != nil {
					onSample(m)
				}
			}
		}
	}()
}

// Stop ends sampling. Idempotent.
func (s *sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}
