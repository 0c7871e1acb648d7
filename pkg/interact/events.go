package interact

import "time"

// =============================================================================
// Pointer Input
// =============================================================================

// PointerKind is the phase of a raw pointer contact.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerCancel
	PointerWheel
)

// PointerEvent is a raw input sample from the host surface. Contacts are
// keyed by ContactID so simultaneous touches can be tracked independently.
type PointerEvent struct {
	ContactID int
	Kind      PointerKind
	X, Y      float64

	// WheelDelta is the scroll amount for PointerWheel events. Positive
	// values zoom in.
	WheelDelta float64

	// Toggle marks an additive selection modifier (e.g. a held key or a
	// platform multi-select affordance).
	Toggle bool

	// Time is the sample timestamp. Zero means "now".
	Time time.Time
}

// =============================================================================
// Semantic Output
// =============================================================================

// GestureKind names a recognized gesture.
type GestureKind string

const (
	GestureSelect    GestureKind = "select"
	GestureDeselect  GestureKind = "deselect"
	GestureExpand    GestureKind = "expand"
	GestureContext   GestureKind = "context"
	GesturePan       GestureKind = "pan"
	GestureZoom      GestureKind = "zoom"
	GestureClearAll  GestureKind = "clear_all"
)

// Handlers receives semantic events produced by Flush. Nil callbacks are
// skipped. Callbacks run on the goroutine that calls Flush.
type Handlers struct {
	// OnSelect fires when a node enters the selection.
	OnSelect func(nodeID string)
	// OnDeselect fires when a node leaves the selection.
	OnDeselect func(nodeID string)
	// OnExpand fires on a double tap on a node.
	OnExpand func(nodeID string)
	// OnContext fires on a long press, with the node under the press or ""
	// for empty space.
	OnContext func(nodeID string, x, y float64)
	// OnPan fires for each pan delta once the start distance is exceeded.
	OnPan func(dx, dy float64)
	// OnZoom fires with the new clamped scale and the gesture focal point.
	OnZoom func(scale, focusX, focusY float64)
}

func (h Handlers) emitSelect(id string) {
	if h.OnSelect != nil {
		h.OnSelect(id)
	}
}

func (h Handlers) emitDeselect(id string) {
	if h.OnDeselect != nil {
		h.OnDeselect(id)
	}
}

func (h Handlers) emitExpand(id string) {
	if h.OnExpand != nil {
		h.OnExpand(id)
	}
}

func (h Handlers) emitContext(id string, x, y float64) {
	if h.OnContext != nil {
		h.OnContext(id, x, y)
	}
}

func (h Handlers) emitPan(dx, dy float64) {
	if h.OnPan != nil {
		h.OnPan(dx, dy)
	}
}

func (h Handlers) emitZoom(scale, fx, fy float64) {
	if h.OnZoom != nil {
		h.OnZoom(scale, fx, fy)
	}
}
