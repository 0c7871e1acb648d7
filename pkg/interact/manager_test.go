package interact

import (
	"testing"
	"time"

	"github.com/artatlas/artgraph/pkg/errors"
)

// recorder collects semantic events for assertions.
type recorder struct {
	selects   []string
	deselects []string
	expands   []string
	contexts  []string
	pans      [][2]float64
	zooms     []float64
}

func (r *recorder) handlers() Handlers {
	return Handlers{
		OnSelect:   func(id string) { r.selects = append(r.selects, id) },
		OnDeselect: func(id string) { r.deselects = append(r.deselects, id) },
		OnExpand:   func(id string) { r.expands = append(r.expands, id) },
		OnContext:  func(id string, x, y float64) { r.contexts = append(r.contexts, id) },
		OnPan:      func(dx, dy float64) { r.pans = append(r.pans, [2]float64{dx, dy}) },
		OnZoom:     func(s, fx, fy float64) { r.zooms = append(r.zooms, s) },
	}
}

// fakeClock drives the manager's notion of now.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// gridHit maps x=10 to node "a", x=20 to node "b"; everything else is
// empty space.
func gridHit(x, y float64) (string, bool) {
	switch x {
	case 10:
		return "a", true
	case 20:
		return "b", true
	}
	return "", false
}

func newTestManager(t *testing.T, cfg Config, rec *recorder) (*Manager, *fakeClock) {
	t.Helper()
	m, err := NewManager(cfg, rec.handlers(), gridHit, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	clk := &fakeClock{t: time.Unix(1000, 0)}
	m.now = clk.now
	return m, clk
}

func tap(m *Manager, clk *fakeClock, contact int, x, y float64, toggle bool) {
	m.Enqueue(PointerEvent{ContactID: contact, Kind: PointerDown, X: x, Y: y, Toggle: toggle, Time: clk.t})
	m.Enqueue(PointerEvent{ContactID: contact, Kind: PointerUp, X: x, Y: y, Toggle: toggle, Time: clk.t})
}

func TestSingleTapSelectsAfterWindow(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestManager(t, DefaultConfig(), rec)

	tap(m, clk, 1, 10, 10, false)
	m.Flush()
	if len(rec.selects) != 0 {
		t.Fatalf("select fired before the double-tap window closed: %v", rec.selects)
	}

	clk.advance(400 * time.Millisecond)
	m.Flush()
	if len(rec.selects) != 1 || rec.selects[0] != "a" {
		t.Fatalf("selects = %v, want [a]", rec.selects)
	}
	if got := m.Selection(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("Selection() = %v, want [a]", got)
	}
}

func TestDoubleTapExpandsWithoutSelect(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestManager(t, DefaultConfig(), rec)

	tap(m, clk, 1, 10, 10, false)
	clk.advance(100 * time.Millisecond)
	tap(m, clk, 2, 10, 10, false)
	m.Flush()
	clk.advance(time.Second)
	m.Flush()

	if len(rec.expands) != 1 || rec.expands[0] != "a" {
		t.Fatalf("expands = %v, want [a]", rec.expands)
	}
	if len(rec.selects) != 0 {
		t.Fatalf("selects = %v, want none", rec.selects)
	}
}

func TestSlowSecondTapIsTwoTaps(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestManager(t, DefaultConfig(), rec)

	tap(m, clk, 1, 10, 10, false)
	m.Flush()
	clk.advance(500 * time.Millisecond)
	tap(m, clk, 2, 10, 10, false)
	m.Flush()
	clk.advance(500 * time.Millisecond)
	m.Flush()

	if len(rec.expands) != 0 {
		t.Fatalf("expands = %v, want none", rec.expands)
	}
	// First tap selects; a plain re-tap keeps the node selected.
	if len(rec.selects) != 1 || len(rec.deselects) != 0 {
		t.Fatalf("selects = %v deselects = %v, want one select and no deselect", rec.selects, rec.deselects)
	}
	if got := m.Selection(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("Selection() = %v, want [a]", got)
	}
}

func TestToggleTapDeselectsExactlyOnce(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestManager(t, DefaultConfig(), rec)

	tap(m, clk, 1, 10, 10, false)
	clk.advance(time.Second)
	m.Flush()
	tap(m, clk, 2, 10, 10, true)
	clk.advance(time.Second)
	m.Flush()

	if len(rec.deselects) != 1 || rec.deselects[0] != "a" {
		t.Fatalf("deselects = %v, want exactly [a]", rec.deselects)
	}
	if len(rec.selects) != 1 {
		t.Fatalf("selects = %v, want just the initial select", rec.selects)
	}
	if m.SelectionMode() != SelectionEmpty {
		t.Fatalf("mode = %v, want SelectionEmpty", m.SelectionMode())
	}
}

func TestSingleModeReplacesSelection(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestManager(t, DefaultConfig(), rec)

	tap(m, clk, 1, 10, 10, true)
	clk.advance(time.Second)
	m.Flush()
	tap(m, clk, 2, 20, 10, true)
	clk.advance(time.Second)
	m.Flush()

	// Multi-select is disabled, so the toggle modifier degrades to a
	// replacing select.
	if got := m.Selection(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("Selection() = %v, want [b]", got)
	}
	if len(rec.deselects) != 1 || rec.deselects[0] != "a" {
		t.Fatalf("deselects = %v, want [a]", rec.deselects)
	}
}

func TestMultiSelectAdditive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiSelect = true
	rec := &recorder{}
	m, clk := newTestManager(t, cfg, rec)

	tap(m, clk, 1, 10, 10, true)
	clk.advance(time.Second)
	m.Flush()
	tap(m, clk, 2, 20, 10, true)
	clk.advance(time.Second)
	m.Flush()

	if got := m.Selection(); len(got) != 2 {
		t.Fatalf("Selection() = %v, want two nodes", got)
	}
	if m.SelectionMode() != SelectionMulti {
		t.Fatalf("mode = %v, want SelectionMulti", m.SelectionMode())
	}
	if len(rec.deselects) != 0 {
		t.Fatalf("deselects = %v, want none", rec.deselects)
	}
}

func TestMultiSelectPlainTapAdds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiSelect = true
	rec := &recorder{}
	m, clk := newTestManager(t, cfg, rec)

	tap(m, clk, 1, 10, 10, false)
	clk.advance(time.Second)
	m.Flush()
	tap(m, clk, 2, 20, 10, false)
	clk.advance(time.Second)
	m.Flush()

	// No modifier needed: multi mode makes every tap additive.
	if got := m.Selection(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Selection() = %v, want [a b]", got)
	}
	if len(rec.deselects) != 0 {
		t.Fatalf("deselects = %v, want none", rec.deselects)
	}
}

func TestPlainRetapKeepsNodeSelected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiSelect = true
	rec := &recorder{}
	m, clk := newTestManager(t, cfg, rec)

	tap(m, clk, 1, 10, 10, false)
	clk.advance(time.Second)
	m.Flush()
	tap(m, clk, 2, 10, 10, false)
	clk.advance(time.Second)
	m.Flush()

	// Deselect on re-tap belongs to the toggle modifier only.
	if got := m.Selection(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("Selection() = %v, want [a]", got)
	}
	if len(rec.deselects) != 0 {
		t.Fatalf("deselects = %v, want none", rec.deselects)
	}
}

func TestEmptySpaceTapClearsSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiSelect = true
	rec := &recorder{}
	m, clk := newTestManager(t, cfg, rec)

	tap(m, clk, 1, 10, 10, true)
	clk.advance(time.Second)
	m.Flush()
	tap(m, clk, 2, 20, 10, true)
	clk.advance(time.Second)
	m.Flush()

	tap(m, clk, 3, 99, 99, false)
	m.Flush()

	if got := m.Selection(); len(got) != 0 {
		t.Fatalf("Selection() = %v, want empty", got)
	}
	if len(rec.deselects) != 2 {
		t.Fatalf("deselects = %v, want both nodes", rec.deselects)
	}
}

func TestPanStartThreshold(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestManager(t, DefaultConfig(), rec)

	m.Enqueue(PointerEvent{ContactID: 1, Kind: PointerDown, X: 0, Y: 0, Time: clk.t})
	m.Enqueue(PointerEvent{ContactID: 1, Kind: PointerMove, X: 5, Y: 0, Time: clk.t})
	m.Flush()
	if len(rec.pans) != 0 {
		t.Fatalf("pan fired below the start distance: %v", rec.pans)
	}

	m.Enqueue(PointerEvent{ContactID: 1, Kind: PointerMove, X: 15, Y: 0, Time: clk.t})
	m.Enqueue(PointerEvent{ContactID: 1, Kind: PointerMove, X: 20, Y: 0, Time: clk.t})
	m.Enqueue(PointerEvent{ContactID: 1, Kind: PointerUp, X: 20, Y: 0, Time: clk.t})
	m.Flush()

	if len(rec.pans) != 2 {
		t.Fatalf("pans = %v, want the opening delta plus one move", rec.pans)
	}
	if rec.pans[0] != [2]float64{15, 0} || rec.pans[1] != [2]float64{5, 0} {
		t.Fatalf("pan deltas = %v", rec.pans)
	}
	// A drag never resolves as a tap.
	clk.advance(time.Second)
	m.Flush()
	if len(rec.selects) != 0 {
		t.Fatalf("selects = %v, want none after a pan", rec.selects)
	}
}

func TestPinchZoomClampsToBounds(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestManager(t, DefaultConfig(), rec)

	m.Enqueue(PointerEvent{ContactID: 1, Kind: PointerDown, X: 0, Y: 0, Time: clk.t})
	m.Enqueue(PointerEvent{ContactID: 2, Kind: PointerDown, X: 10, Y: 0, Time: clk.t})
	m.Enqueue(PointerEvent{ContactID: 2, Kind: PointerMove, X: 100, Y: 0, Time: clk.t})
	m.Flush()

	if m.Zoom() != DefaultMaxZoom {
		t.Fatalf("Zoom() = %f, want clamp to %f", m.Zoom(), DefaultMaxZoom)
	}
	if len(rec.zooms) == 0 || rec.zooms[len(rec.zooms)-1] != DefaultMaxZoom {
		t.Fatalf("zooms = %v, want final %f", rec.zooms, DefaultMaxZoom)
	}
}

func TestPinchInClampsToMinZoom(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestManager(t, DefaultConfig(), rec)

	m.Enqueue(PointerEvent{ContactID: 1, Kind: PointerDown, X: 0, Y: 0, Time: clk.t})
	m.Enqueue(PointerEvent{ContactID: 2, Kind: PointerDown, X: 100, Y: 0, Time: clk.t})
	m.Enqueue(PointerEvent{ContactID: 2, Kind: PointerMove, X: 5, Y: 0, Time: clk.t})
	m.Flush()

	if m.Zoom() != DefaultMinZoom {
		t.Fatalf("Zoom() = %f, want clamp to %f", m.Zoom(), DefaultMinZoom)
	}
}

func TestPinchBelowThresholdIsIgnored(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestManager(t, DefaultConfig(), rec)

	m.Enqueue(PointerEvent{ContactID: 1, Kind: PointerDown, X: 0, Y: 0, Time: clk.t})
	m.Enqueue(PointerEvent{ContactID: 2, Kind: PointerDown, X: 100, Y: 0, Time: clk.t})
	m.Enqueue(PointerEvent{ContactID: 2, Kind: PointerMove, X: 105, Y: 0, Time: clk.t})
	m.Flush()

	if len(rec.zooms) != 0 {
		t.Fatalf("zooms = %v, want none below the pinch threshold", rec.zooms)
	}
	if m.Zoom() != 1.0 {
		t.Fatalf("Zoom() = %f, want unchanged 1.0", m.Zoom())
	}
}

func TestWheelZoom(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestManager(t, DefaultConfig(), rec)

	m.Enqueue(PointerEvent{ContactID: 0, Kind: PointerWheel, X: 50, Y: 50, WheelDelta: 2, Time: clk.t})
	m.Flush()

	if len(rec.zooms) != 1 || rec.zooms[0] <= 1.0 {
		t.Fatalf("zooms = %v, want one zoom-in", rec.zooms)
	}
}

func TestLongPressFiresContext(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestManager(t, DefaultConfig(), rec)

	m.Enqueue(PointerEvent{ContactID: 1, Kind: PointerDown, X: 10, Y: 10, Time: clk.t})
	m.Flush()
	if len(rec.contexts) != 0 {
		t.Fatalf("context fired before the hold duration: %v", rec.contexts)
	}

	clk.advance(600 * time.Millisecond)
	m.Flush()
	if len(rec.contexts) != 1 || rec.contexts[0] != "a" {
		t.Fatalf("contexts = %v, want [a]", rec.contexts)
	}

	// Releasing after a long press does not produce a tap.
	m.Enqueue(PointerEvent{ContactID: 1, Kind: PointerUp, X: 10, Y: 10, Time: clk.t})
	m.Flush()
	clk.advance(time.Second)
	m.Flush()
	if len(rec.selects) != 0 {
		t.Fatalf("selects = %v, want none after a long press", rec.selects)
	}
}

func TestPruneDropsMissingSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MultiSelect = true
	rec := &recorder{}
	m, clk := newTestManager(t, cfg, rec)

	tap(m, clk, 1, 10, 10, true)
	clk.advance(time.Second)
	m.Flush()
	tap(m, clk, 2, 20, 10, true)
	clk.advance(time.Second)
	m.Flush()

	m.Prune([]string{"b"})

	if got := m.Selection(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("Selection() = %v, want [b]", got)
	}
	// Pruned nodes vanish silently.
	if len(rec.deselects) != 0 {
		t.Fatalf("deselects = %v, want none from Prune", rec.deselects)
	}
}

func TestDestroyIsIdempotentAndSilencesEvents(t *testing.T) {
	rec := &recorder{}
	m, clk := newTestManager(t, DefaultConfig(), rec)

	tap(m, clk, 1, 10, 10, false)
	m.Destroy()
	m.Destroy()
	clk.advance(time.Second)
	m.Flush()
	tap(m, clk, 2, 10, 10, false)
	m.Flush()

	if len(rec.selects)+len(rec.expands)+len(rec.contexts) != 0 {
		t.Fatalf("events fired after Destroy: %+v", rec)
	}
	if !m.Destroyed() {
		t.Fatal("Destroyed() = false after Destroy")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero fields filled", func(c *Config) { *c = Config{} }, false},
		{"negative double tap window", func(c *Config) { c.DoubleTapWindow = -time.Second }, true},
		{"negative long press hold", func(c *Config) { c.LongPressHold = -time.Second }, true},
		{"negative pan distance", func(c *Config) { c.PanStartDistance = -1 }, true},
		{"pinch threshold too large", func(c *Config) { c.PinchThreshold = 1.5 }, true},
		{"inverted zoom bounds", func(c *Config) { c.MinZoom = 2; c.MaxZoom = 1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.ValidateAndSetDefaults()
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidGestureConf) {
					t.Fatalf("err = %v, want gesture config error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
