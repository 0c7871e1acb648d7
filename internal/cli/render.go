package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artatlas/artgraph/pkg/export"
	"github.com/artatlas/artgraph/pkg/graph"
	"github.com/artatlas/artgraph/pkg/pipeline"
	"github.com/artatlas/artgraph/pkg/source"
)

// renderCommand creates the render command for exporting snapshots.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		format     string
		layoutPath string
		detailed   bool
		noCache    bool
		width      float64
		height     float64
	)

	cmd := &cobra.Command{
		Use:   "render [snapshot]",
		Short: "Export a graph snapshot as Graphviz DOT or SVG",
		Long: `Export a graph snapshot as Graphviz DOT or SVG.

The snapshot argument is a local JSON file or an http(s) URL. Without
--layout the force simulation runs first (cached by snapshot content, use
--no-cache to force a rerun) and the computed positions are pinned. With
--layout the positions from a previous 'artgraph layout' run are pinned
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if layoutPath != "" {
				return c.runRenderPinned(cmd.Context(), args[0], output, format, layoutPath, detailed)
			}
			return c.runRender(cmd.Context(), args[0], output, format, detailed, noCache,
				graph.Bounds{Width: width, Height: height})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg (default), dot")
	cmd.Flags().StringVar(&layoutPath, "layout", "", "layout.json file with positions to pin")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include type and property info in labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "recompute the layout even if cached")
	cmd.Flags().Float64Var(&width, "width", 800, "viewport width in layout units")
	cmd.Flags().Float64Var(&height, "height", 600, "viewport height in layout units")

	return cmd
}

// runRender computes (or reuses) the layout and exports in one pass.
func (c *CLI) runRender(ctx context.Context, input, output, format string, detailed, noCache bool, bounds graph.Bounds) error {
	if format != "svg" && format != "dot" {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot)", format)
	}

	runner, err := pipeline.NewRunner(c.newCache(noCache), nil, c.Config.Layout, c.Logger)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	res, err := runner.Execute(ctx, source.Resolve(input), pipeline.Options{
		Bounds:   bounds,
		Formats:  []string{format},
		Detailed: detailed,
		Refresh:  noCache,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	outputPath := output
	if outputPath == "" {
		outputPath = defaultOutputPath(input, format)
	}
	if err := os.WriteFile(outputPath, res.Artifacts[format], 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	if res.Partial {
		printWarning("Layout stopped before stabilizing")
	}
	printSuccess("Render complete")
	printFile(outputPath)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.LayoutHit)

	return nil
}

// runRenderPinned exports with positions from a layout file instead of
// running the simulation.
func (c *CLI) runRenderPinned(ctx context.Context, input, output, format, layoutPath string, detailed bool) error {
	if format != "svg" && format != "dot" {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot)", format)
	}

	snap, err := source.Resolve(input).Fetch(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}
	positions, err := readLayoutPositions(layoutPath)
	if err != nil {
		return err
	}

	dot := export.ToDOT(snap, positions, export.Options{
		Detailed: detailed,
		Pinned:   true,
	})

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		spinner := newSpinnerWithContext(ctx, "Rendering SVG...")
		spinner.Start()
		data, err = export.RenderSVG(dot)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render svg: %w", err)
		}
		spinner.Stop()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = defaultOutputPath(input, format)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Render complete")
	printFile(outputPath)
	printStats(len(snap.Nodes), len(snap.Relationships), false)

	return nil
}

// defaultOutputPath derives the output file from the input argument. URL
// inputs write to the working directory.
func defaultOutputPath(input, format string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "graph"
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return base + "." + format
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

// readLayoutPositions loads positions from a layout.json produced by the
// layout command.
func readLayoutPositions(path string) (map[string]graph.Position, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load layout %s: %w", path, err)
	}
	var lf layoutFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", path, err)
	}
	return lf.Positions, nil
}
