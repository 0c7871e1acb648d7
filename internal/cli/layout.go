package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/artatlas/artgraph/pkg/graph"
	"github.com/artatlas/artgraph/pkg/layout"
	"github.com/artatlas/artgraph/pkg/source"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		width  float64
		height float64
	)

	cmd := &cobra.Command{
		Use:   "layout [snapshot]",
		Short: "Compute a force-directed layout for a graph snapshot",
		Long: `Compute a force-directed layout for a graph snapshot.

The snapshot argument is a local JSON file or an http(s) URL. The layout
command loads the snapshot and runs the force simulation
until it stabilizes, then writes the node positions as JSON. The output can
be fed to 'render --layout' to pin the exported diagram to these positions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, graph.Bounds{Width: width, Height: height})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().Float64Var(&width, "width", 800, "viewport width in layout units")
	cmd.Flags().Float64Var(&height, "height", 600, "viewport height in layout units")

	return cmd
}

// layoutFile is the JSON shape written by the layout command.
type layoutFile struct {
	Positions map[string]graph.Position `json:"positions"`
	Bounds    graph.Bounds              `json:"bounds"`
	Ticks     int                       `json:"ticks"`
	Partial   bool                      `json:"partial"`
}

// runLayout loads the snapshot, runs the simulation and writes positions.
func (c *CLI) runLayout(ctx context.Context, input, output string, bounds graph.Bounds) error {
	snap, err := source.Resolve(input).Fetch(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	engine, err := layout.NewEngine(c.Config.Layout, c.Logger)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, err := engine.UpdateLayout(ctx, snap, bounds)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	outputPath := output
	if outputPath == "" {
		outputPath = defaultOutputPath(input, "layout.json")
	}

	data, err := json.MarshalIndent(layoutFile{
		Positions: res.Positions,
		Bounds:    bounds,
		Ticks:     res.Ticks,
		Partial:   res.Partial,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	if res.Partial {
		printWarning("Layout stopped before stabilizing (%d ticks)", res.Ticks)
	} else {
		printSuccess("Layout stabilized in %d ticks (%s)", res.Ticks, res.Elapsed.Round(time.Millisecond))
	}
	printFile(outputPath)
	printStats(len(snap.Nodes), len(snap.Relationships), false)
	printNewline()
	printNextStep("Render", fmt.Sprintf("artgraph render %s --layout %s", input, outputPath))

	return nil
}
