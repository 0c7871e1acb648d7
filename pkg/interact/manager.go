package interact

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/artatlas/artgraph/pkg/observability"
)

// =============================================================================
// Gesture Manager
// =============================================================================

// HitTester resolves a layout-space point to the node under it. It returns
// false when the point lands on empty space.
type HitTester func(x, y float64) (nodeID string, ok bool)

// Manager turns raw pointer events into semantic gestures. Events are
// enqueued from any goroutine and drained once per frame by Flush, which
// runs recognition and invokes the configured Handlers.
type Manager struct {
	cfg      Config
	logger   *log.Logger
	handlers Handlers
	hit      HitTester
	now      func() time.Time

	mu        sync.Mutex
	queue     []PointerEvent
	touches   map[int]*touchState
	sel       *selection
	pending   *pendingTap
	zoom      float64
	pinchA    int
	pinchB    int
	pinchSpan float64
	pinchZoom float64
	pinching  bool
	destroyed bool
}

// NewManager builds a gesture manager. The hit tester may be nil, in which
// case every contact reads as empty space.
func NewManager(cfg Config, handlers Handlers, hit HitTester, logger *log.Logger) (*Manager, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	if hit == nil {
		hit = func(x, y float64) (string, bool) { return "", false }
	}
	return &Manager{
		cfg:      cfg,
		logger:   logger,
		handlers: handlers,
		hit:      hit,
		now:      time.Now,
		touches:  make(map[int]*touchState),
		sel:      newSelection(cfg.MultiSelect),
		zoom:     1.0,
	}, nil
}

// Enqueue adds a raw pointer event to the frame queue. Events received
// after Destroy are dropped.
func (m *Manager) Enqueue(ev PointerEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = m.now()
	}
	m.queue = append(m.queue, ev)
}

// Flush drains the queued events through gesture recognition, expires the
// double-tap window and checks held contacts for long presses. Handlers run
// on the calling goroutine after recognition completes, so they may safely
// call back into the Manager.
func (m *Manager) Flush() {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}
	events := m.queue
	m.queue = nil

	var emits []func()
	emit := func(f func()) { emits = append(emits, f) }

	for i := range events {
		m.dispatch(events[i], emit)
	}
	m.expirePending(m.now(), emit)
	m.checkLongPress(m.now(), emit)
	m.mu.Unlock()

	for _, f := range emits {
		f()
	}
}

// dispatch routes one raw event. Called with the lock held.
func (m *Manager) dispatch(ev PointerEvent, emit func(func())) {
	switch ev.Kind {
	case PointerDown:
		m.onDown(ev)
	case PointerMove:
		m.onMove(ev, emit)
	case PointerUp:
		m.onUp(ev, emit)
	case PointerCancel:
		m.onCancel(ev.ContactID)
	case PointerWheel:
		m.onWheel(ev, emit)
	}
}

func (m *Manager) onDown(ev PointerEvent) {
	id, _ := m.hit(ev.X, ev.Y)
	t := &touchState{
		startX: ev.X, startY: ev.Y,
		x: ev.X, y: ev.Y,
		started: ev.Time,
		nodeID:  id,
	}
	m.touches[ev.ContactID] = t

	if !m.pinching && len(m.touches) == 2 {
		ids := make([]int, 0, 2)
		for cid := range m.touches {
			ids = append(ids, cid)
		}
		a, b := m.touches[ids[0]], m.touches[ids[1]]
		m.pinching = true
		m.pinchA, m.pinchB = ids[0], ids[1]
		m.pinchSpan = span(a, b)
		m.pinchZoom = m.zoom
		a.consumed = true
		b.consumed = true
	}
}

func (m *Manager) onMove(ev PointerEvent, emit func(func())) {
	t, ok := m.touches[ev.ContactID]
	if !ok {
		return
	}
	prevX, prevY := t.x, t.y
	t.x, t.y = ev.X, ev.Y

	if m.pinching && (ev.ContactID == m.pinchA || ev.ContactID == m.pinchB) {
		m.updatePinch(emit)
		return
	}
	if t.consumed {
		return
	}
	if !t.panning && t.travel() >= m.cfg.PanStartDistance {
		t.panning = true
		observability.Interaction().OnGesture(string(GesturePan))
		m.logger.Debug("pan started", "contact", ev.ContactID)
		// The accumulated travel before the threshold is reported as the
		// first delta so content does not jump.
		dx, dy := t.x-t.startX, t.y-t.startY
		emit(func() { m.handlers.emitPan(dx, dy) })
		return
	}
	if t.panning {
		dx, dy := t.x-prevX, t.y-prevY
		emit(func() { m.handlers.emitPan(dx, dy) })
	}
}

func (m *Manager) updatePinch(emit func(func())) {
	a, okA := m.touches[m.pinchA]
	b, okB := m.touches[m.pinchB]
	if !okA || !okB || m.pinchSpan == 0 {
		return
	}
	ratio := span(a, b) / m.pinchSpan
	if ratio > 1-m.cfg.PinchThreshold && ratio < 1+m.cfg.PinchThreshold {
		return
	}
	scale := m.cfg.clampZoom(m.pinchZoom * ratio)
	if scale == m.zoom {
		return
	}
	m.zoom = scale
	fx, fy := (a.x+b.x)/2, (a.y+b.y)/2
	observability.Interaction().OnGesture(string(GestureZoom))
	emit(func() { m.handlers.emitZoom(scale, fx, fy) })
}

func (m *Manager) onUp(ev PointerEvent, emit func(func())) {
	t, ok := m.touches[ev.ContactID]
	if !ok {
		return
	}
	delete(m.touches, ev.ContactID)
	if m.pinching && (ev.ContactID == m.pinchA || ev.ContactID == m.pinchB) {
		m.pinching = false
	}
	if t.consumed || t.panning {
		return
	}
	m.onTap(t, ev, emit)
}

func (m *Manager) onTap(t *touchState, ev PointerEvent, emit func(func())) {
	if t.nodeID == "" {
		m.commitPending(emit)
		for _, id := range m.sel.Clear() {
			deselected := id
			emit(func() { m.handlers.emitDeselect(deselected) })
		}
		observability.Interaction().OnGesture(string(GestureClearAll))
		return
	}

	if m.pending != nil && m.pending.nodeID == t.nodeID &&
		ev.Time.Sub(m.pending.at) <= m.cfg.DoubleTapWindow {
		// Second tap inside the window upgrades the pair to an expand; the
		// deferred select for the first tap never fires.
		id := t.nodeID
		m.pending = nil
		observability.Interaction().OnGesture(string(GestureExpand))
		m.logger.Debug("expand", "node", id)
		emit(func() { m.handlers.emitExpand(id) })
		return
	}

	m.commitPending(emit)
	m.pending = &pendingTap{nodeID: t.nodeID, toggle: ev.Toggle, at: ev.Time}
}

func (m *Manager) onCancel(contactID int) {
	delete(m.touches, contactID)
	if m.pinching && (contactID == m.pinchA || contactID == m.pinchB) {
		m.pinching = false
	}
}

func (m *Manager) onWheel(ev PointerEvent, emit func(func())) {
	scale := m.cfg.clampZoom(m.zoom * (1 + 0.1*ev.WheelDelta))
	if scale == m.zoom {
		return
	}
	m.zoom = scale
	fx, fy := ev.X, ev.Y
	observability.Interaction().OnGesture(string(GestureZoom))
	emit(func() { m.handlers.emitZoom(scale, fx, fy) })
}

// commitPending applies a deferred first tap to the selection.
func (m *Manager) commitPending(emit func(func())) {
	if m.pending == nil {
		return
	}
	p := m.pending
	m.pending = nil
	selected, deselected := m.sel.Tap(p.nodeID, p.toggle)
	for _, id := range deselected {
		id := id
		observability.Interaction().OnGesture(string(GestureDeselect))
		emit(func() { m.handlers.emitDeselect(id) })
	}
	for _, id := range selected {
		id := id
		observability.Interaction().OnGesture(string(GestureSelect))
		m.logger.Debug("select", "node", id)
		emit(func() { m.handlers.emitSelect(id) })
	}
}

// expirePending commits the deferred tap once the double-tap window has
// closed without a second tap.
func (m *Manager) expirePending(now time.Time, emit func(func())) {
	if m.pending == nil || now.Sub(m.pending.at) <= m.cfg.DoubleTapWindow {
		return
	}
	m.commitPending(emit)
}

// checkLongPress fires a context gesture for contacts held in place past
// the hold duration.
func (m *Manager) checkLongPress(now time.Time, emit func(func())) {
	for cid, t := range m.touches {
		if t.consumed || t.panning {
			continue
		}
		if now.Sub(t.started) < m.cfg.LongPressHold {
			continue
		}
		t.consumed = true
		id, x, y := t.nodeID, t.x, t.y
		observability.Interaction().OnGesture(string(GestureContext))
		m.logger.Debug("context", "contact", cid, "node", id)
		emit(func() { m.handlers.emitContext(id, x, y) })
	}
}

// =============================================================================
// State Accessors
// =============================================================================

// Selection returns the selected node ids in selection order.
func (m *Manager) Selection() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sel.IDs()
}

// SelectionMode reports the current selection mode.
func (m *Manager) SelectionMode() SelectionMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sel.Mode()
}

// Zoom returns the current zoom scale.
func (m *Manager) Zoom() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.zoom
}

// Prune drops selection entries and the pending tap for nodes that are no
// longer present. No deselect events fire for pruned nodes.
func (m *Manager) Prune(validIDs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	valid := make(map[string]bool, len(validIDs))
	for _, id := range validIDs {
		valid[id] = true
	}
	m.sel.Prune(valid)
	if m.pending != nil && !valid[m.pending.nodeID] {
		m.pending = nil
	}
}

// Destroy tears the manager down. Further Enqueue and Flush calls are
// no-ops and no events fire after Destroy returns. Destroy is idempotent.
func (m *Manager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.queue = nil
	m.touches = map[int]*touchState{}
	m.pending = nil
	m.sel = newSelection(m.cfg.MultiSelect)
	m.pinching = false
}

// Destroyed reports whether the manager has been torn down.
func (m *Manager) Destroyed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destroyed
}
