package cli

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/artatlas/artgraph/pkg/graph"
	"github.com/artatlas/artgraph/pkg/viz"
)

// Node glyph styles by weight class.
var (
	stylePrimaryNode   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	styleSecondaryNode = lipgloss.NewStyle().Foreground(colorBlue)
	styleTertiaryNode  = lipgloss.NewStyle().Foreground(colorGray)
	styleSelectedNode  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true).Underline(true)
	styleEdgeDot       = lipgloss.NewStyle().Foreground(colorDim)
)

func nodeStyle(class graph.WeightClass) lipgloss.Style {
	switch class {
	case graph.WeightPrimary:
		return stylePrimaryNode
	case graph.WeightSecondary:
		return styleSecondaryNode
	default:
		return styleTertiaryNode
	}
}

// canvasRenderer draws frames onto a terminal cell grid. It implements
// viz.Renderer; View composes the rendered grid with a status line.
type canvasRenderer struct {
	mu     sync.Mutex
	bounds graph.Bounds
	cols   int
	rows   int
	frame  *viz.Frame
}

func newCanvasRenderer(cols, rows int) *canvasRenderer {
	return &canvasRenderer{cols: cols, rows: rows}
}

func (r *canvasRenderer) Init(bounds graph.Bounds) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bounds = bounds
	return nil
}

func (r *canvasRenderer) Draw(frame viz.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := frame
	r.frame = &f
	return nil
}

func (r *canvasRenderer) Destroy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frame = nil
}

// RenderProgress reports 1 once a frame is held. Draw swaps the whole frame
// in one step, so there is no partial state in between.
func (r *canvasRenderer) RenderProgress() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frame == nil {
		return 0
	}
	return 1
}

// Resize updates the cell grid dimensions.
func (r *canvasRenderer) Resize(cols, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cols = cols
	r.rows = rows
}

// CellToLayout converts a terminal cell to layout coordinates.
func (r *canvasRenderer) CellToLayout(col, row int) (x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cols == 0 || r.rows == 0 {
		return 0, 0
	}
	return float64(col) / float64(r.cols) * r.bounds.Width,
		float64(row) / float64(r.rows) * r.bounds.Height
}

// Render composes the current frame into a styled string grid. Selection,
// zoom and pan come from the frame drawn by the coordinator.
func (r *canvasRenderer) Render() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frame == nil || r.cols == 0 || r.rows == 0 {
		return StyleDim.Render("waiting for layout...")
	}

	type cell struct {
		ch    string
		style lipgloss.Style
	}
	grid := make([][]cell, r.rows)
	for i := range grid {
		grid[i] = make([]cell, r.cols)
	}

	selected := make(map[string]bool, len(r.frame.Selected))
	for _, id := range r.frame.Selected {
		selected[id] = true
	}

	plot := func(x, y float64, ch string, style lipgloss.Style) {
		col := int(x / r.bounds.Width * float64(r.cols))
		row := int(y / r.bounds.Height * float64(r.rows))
		if col < 0 || col >= r.cols || row < 0 || row >= r.rows {
			return
		}
		grid[row][col] = cell{ch: ch, style: style}
	}

	// Edges first so node glyphs draw over them.
	for i := range r.frame.Snapshot.Relationships {
		rel := &r.frame.Snapshot.Relationships[i]
		a, okA := r.frame.Positions[rel.SourceID]
		b, okB := r.frame.Positions[rel.TargetID]
		if !okA || !okB {
			continue
		}
		const steps = 16
		for s := 1; s < steps; s++ {
			t := float64(s) / steps
			plot(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t, "·", styleEdgeDot)
		}
	}

	for i := range r.frame.Snapshot.Nodes {
		n := &r.frame.Snapshot.Nodes[i]
		pos, ok := r.frame.Positions[n.ID]
		if !ok {
			continue
		}
		style := nodeStyle(n.Type.Weight())
		glyph := "●"
		if selected[n.ID] {
			style = styleSelectedNode
			glyph = "◉"
		}
		plot(pos.X, pos.Y, glyph, style)

		// Label to the right of the glyph when it fits.
		col := int(pos.X/r.bounds.Width*float64(r.cols)) + 1
		row := int(pos.Y / r.bounds.Height * float64(r.rows))
		label := n.DisplayLabel()
		for j, ch := range label {
			if row < 0 || row >= r.rows || col+j < 0 || col+j >= r.cols {
				break
			}
			if grid[row][col+j].ch != "" {
				break
			}
			grid[row][col+j] = cell{ch: string(ch), style: StyleDim}
		}
	}

	var b strings.Builder
	for _, line := range grid {
		for _, c := range line {
			if c.ch == "" {
				b.WriteString(" ")
				continue
			}
			b.WriteString(c.style.Render(c.ch))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s", StyleDim.Render(fmt.Sprintf(
		"zoom %.1fx · %d nodes · %d selected",
		r.frame.Zoom, len(r.frame.Snapshot.Nodes), len(r.frame.Selected))))
	return b.String()
}

// Ensure canvasRenderer implements viz.Renderer.
var (
	_ viz.Renderer        = (*canvasRenderer)(nil)
	_ viz.MetricsReporter = (*canvasRenderer)(nil)
)
