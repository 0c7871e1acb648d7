package cli

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/artatlas/artgraph/pkg/graph"
	"github.com/artatlas/artgraph/pkg/interact"
	"github.com/artatlas/artgraph/pkg/layout"
	"github.com/artatlas/artgraph/pkg/source"
	"github.com/artatlas/artgraph/pkg/viz"
)

const viewFrameInterval = 50 * time.Millisecond

func (c *CLI) viewCommand() *cobra.Command {
	var (
		width  float64
		height float64
	)

	cmd := &cobra.Command{
		Use:   "view <snapshot>",
		Short: "Explore a graph snapshot interactively",
		Long: `Open a graph snapshot (a local JSON file or an http(s) URL) in an
interactive terminal viewer.

The layout runs once when the viewer starts. Click a node to select it,
double-click to expand, scroll to zoom, drag empty space to pan. Press q
to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], graph.Bounds{Width: width, Height: height})
		},
	}

	cmd.Flags().Float64Var(&width, "width", 800, "layout width in layout units")
	cmd.Flags().Float64Var(&height, "height", 600, "layout height in layout units")

	return cmd
}

func (c *CLI) runView(ctx context.Context, path string, bounds graph.Bounds) error {
	snap, err := source.Resolve(path).Fetch(ctx)
	if err != nil {
		return err
	}

	engine, err := layout.NewEngine(c.Config.Layout, c.Logger)
	if err != nil {
		return err
	}

	canvas := newCanvasRenderer(80, 24)
	status := &viewStatus{}

	var coord *viz.Coordinator
	hit := func(x, y float64) (string, bool) {
		return nearestNode(snap, engine, x, y, bounds)
	}
	handlers := interact.Handlers{
		OnSelect:   func(id string) { status.set("selected " + id) },
		OnDeselect: func(id string) { status.set("deselected " + id) },
		OnExpand:   func(id string) { status.set("expand " + id) },
		OnContext:  func(id string, x, y float64) { status.set("context " + id) },
		OnPan:      func(dx, dy float64) { coord.SetPan(dx, dy) },
		OnZoom:     func(scale, focusX, focusY float64) { coord.SetZoom(scale) },
	}
	gestures, err := interact.NewManager(c.Config.Gesture, handlers, hit, c.Logger)
	if err != nil {
		return err
	}

	coord, err = viz.NewCoordinator(c.Config.Viz, engine, canvas, gestures,
		func(err error) { status.set("error: " + err.Error()) }, c.Logger)
	if err != nil {
		return err
	}
	defer coord.Destroy()

	if err := coord.Initialize(ctx, bounds); err != nil {
		return err
	}

	m := viewModel{
		coord:  coord,
		canvas: canvas,
		snap:   snap,
		status: status,
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// nearestNode resolves a layout-space point to the closest node whose touch
// target covers it. Prominent nodes get a larger target.
func nearestNode(snap *graph.Snapshot, engine *layout.Engine, x, y float64, bounds graph.Bounds) (string, bool) {
	base := bounds.Width / 40
	if h := bounds.Height / 30; h > base {
		base = h
	}

	bestID := ""
	bestDist := 0.0
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		pos, ok := engine.GetNodePosition(n.ID)
		if !ok {
			continue
		}
		radius := base
		if n.Type.Weight() == graph.WeightPrimary {
			radius *= 1.5
		}
		dx, dy := pos.X-x, pos.Y-y
		dist := dx*dx + dy*dy
		if dist > radius*radius {
			continue
		}
		if bestID == "" || dist < bestDist {
			bestID = n.ID
			bestDist = dist
		}
	}
	return bestID, bestID != ""
}

// =============================================================================
// Bubbletea Model
// =============================================================================

// viewStatus carries gesture feedback from handler callbacks to the render
// loop.
type viewStatus struct {
	mu   sync.Mutex
	line string
}

func (s *viewStatus) set(line string) {
	s.mu.Lock()
	s.line = line
	s.mu.Unlock()
}

func (s *viewStatus) get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line
}

type viewTickMsg time.Time

type layoutDoneMsg struct{ err error }

type viewModel struct {
	coord  *viz.Coordinator
	canvas *canvasRenderer
	snap   *graph.Snapshot
	status *viewStatus

	laidOut bool
	err     error
}

func (m viewModel) Init() tea.Cmd {
	layoutCmd := func() tea.Msg {
		return layoutDoneMsg{err: m.coord.UpdateGraph(context.Background(), m.snap)}
	}
	return tea.Batch(layoutCmd, viewTick())
}

func viewTick() tea.Cmd {
	return tea.Tick(viewFrameInterval, func(t time.Time) tea.Msg {
		return viewTickMsg(t)
	})
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		rows := msg.Height - 2
		if rows < 4 {
			rows = 4
		}
		m.canvas.Resize(msg.Width, rows)

	case tea.MouseMsg:
		if ev, ok := m.pointerEvent(msg); ok {
			m.coord.Pointer(ev)
		}

	case layoutDoneMsg:
		m.laidOut = true
		m.err = msg.err
		if msg.err != nil {
			return m, tea.Quit
		}

	case viewTickMsg:
		m.coord.FlushGestures()
		if m.laidOut {
			if err := m.coord.Redraw(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, viewTick()
	}
	return m, nil
}

// pointerEvent translates a terminal mouse message into layout space.
func (m viewModel) pointerEvent(msg tea.MouseMsg) (interact.PointerEvent, bool) {
	x, y := m.canvas.CellToLayout(msg.X, msg.Y)
	ev := interact.PointerEvent{ContactID: 0, X: x, Y: y}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		ev.Kind = interact.PointerWheel
		ev.WheelDelta = 1
		return ev, true
	case tea.MouseButtonWheelDown:
		ev.Kind = interact.PointerWheel
		ev.WheelDelta = -1
		return ev, true
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return ev, false
		}
		ev.Kind = interact.PointerDown
	case tea.MouseActionMotion:
		ev.Kind = interact.PointerMove
	case tea.MouseActionRelease:
		ev.Kind = interact.PointerUp
	default:
		return ev, false
	}
	return ev, true
}

func (m viewModel) View() string {
	if m.err != nil {
		return StyleWarning.Render("layout failed: " + m.err.Error())
	}
	out := m.canvas.Render()
	if line := m.status.get(); line != "" {
		out += "\n" + StyleDim.Render(line)
	}
	return out
}
