package viz

import (
	"sync"

	"github.com/artatlas/artgraph/pkg/graph"
)

// frameGate serializes snapshot application with latest-wins coalescing.
// The first caller to acquire becomes the worker; snapshots submitted while
// the worker runs replace each other so only the newest survives.
type frameGate struct {
	mu      sync.Mutex
	busy    bool
	pending *graph.Snapshot
}

// acquire reports whether the caller should apply the snapshot itself. When
// another caller is already applying, the snapshot is parked as the pending
// one and false is returned.
func (g *frameGate) acquire(snap *graph.Snapshot) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		g.pending = snap
		return false
	}
	g.busy = true
	return true
}

// next pops the pending snapshot for the worker to apply. When nothing is
// pending the gate is released and ok is false.
func (g *frameGate) next() (snap *graph.Snapshot, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		snap = g.pending
		g.pending = nil
		return snap, true
	}
	g.busy = false
	return nil, false
}

// reset drops any pending snapshot and releases the gate.
func (g *frameGate) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = nil
	g.busy = false
}
