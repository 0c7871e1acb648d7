package interact

import (
	"math"
	"time"
)

// touchState is the live record for one pointer contact, keyed by its
// ContactID in the manager's touch map.
type touchState struct {
	startX, startY float64
	x, y           float64
	started        time.Time

	// nodeID is the node under the initial contact, "" for empty space.
	nodeID string

	// panning latches once the contact has travelled past the pan start
	// distance; further moves report deltas instead of tap candidates.
	panning bool

	// consumed marks contacts that already produced a gesture (long press
	// or pinch) and must not produce a tap on release.
	consumed bool
}

func (t *touchState) travel() float64 {
	return math.Hypot(t.x-t.startX, t.y-t.startY)
}

// pendingTap defers the select for a first tap until the double-tap window
// closes, so a second tap can upgrade the pair to an expand without a
// select ever firing.
type pendingTap struct {
	nodeID string
	toggle bool
	at     time.Time
}

// span returns the distance between two contacts of a pinch pair.
func span(a, b *touchState) float64 {
	return math.Hypot(a.x-b.x, a.y-b.y)
}
