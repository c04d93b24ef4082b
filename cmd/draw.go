package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/output"
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw a freeform path across the canvas",
	Long: `Simulate drawing a freeform pointer path across the canvas, waiting for
the bridge to be ready first. Points are normalized device coordinates.

With --miss a single pointer event that hits no object is dispatched
instead, which typically clears hover and selection state.

Examples:
  scenetest draw --points "-0.5,0 0,0.5 0.5,0"
  scenetest draw --miss`,
	RunE: runDraw,
}

func init() {
	rootCmd.AddCommand(drawCmd)
	drawCmd.Flags().String("points", "", "Space-separated path points as x,y pairs")
	drawCmd.Flags().Bool("miss", false, "Dispatch a pointer event that hits nothing")
	registerWaitFlags(drawCmd)
}

func runDraw(cmd *cobra.Command, args []string) error {
	f := fixtureFor(waitOptsFromFlags(cmd))
	ctx := cmd.Context()

	if miss, _ := cmd.Flags().GetBool("miss"); miss {
		if err := f.PointerMiss(ctx); err != nil {
			return err
		}
		return output.Print(map[string]any{
			"ok":     true,
			"action": "pointerMiss",
			"target": f.Target(),
		})
	}

	raw, _ := cmd.Flags().GetString("points")
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("--points is required (or use --miss)")
	}

	var points []bridge.PathPoint
	for _, pair := range strings.Fields(raw) {
		var p bridge.PathPoint
		if _, err := fmt.Sscanf(pair, "%g,%g", &p.X, &p.Y); err != nil {
			return fmt.Errorf("invalid point %q (use x,y)", pair)
		}
		points = append(points, p)
	}
	if len(points) < 2 {
		return fmt.Errorf("a path needs at least two points")
	}

	if err := f.DrawPath(ctx, points); err != nil {
		return err
	}

	return output.Print(map[string]any{
		"ok":     true,
		"action": "drawPath",
		"points": len(points),
		"target": f.Target(),
	})
}
