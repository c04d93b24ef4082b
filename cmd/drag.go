package cmd

import (
	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/output"
)

var dragCmd = &cobra.Command{
	Use:   "drag <id>",
	Short: "Drag a scene object between two pointer positions",
	Long: `Simulate a pointer drag anchored on an object, auto-waiting for it to
exist first. Coordinates are normalized device coordinates in [-1, 1].

Examples:
  scenetest drag slider-handle --from-x -0.5 --to-x 0.5
  scenetest drag card-3 --from-x 0 --from-y 0 --to-x 0.8 --to-y -0.2 --steps 20`,
	Args: cobra.ExactArgs(1),
	RunE: runDrag,
}

func init() {
	rootCmd.AddCommand(dragCmd)
	dragCmd.Flags().Float64("from-x", 0, "Drag start X")
	dragCmd.Flags().Float64("from-y", 0, "Drag start Y")
	dragCmd.Flags().Float64("to-x", 0, "Drag end X")
	dragCmd.Flags().Float64("to-y", 0, "Drag end Y")
	dragCmd.Flags().Int("steps", 0, "Intermediate pointer-move steps")
	registerWaitFlags(dragCmd)
}

func runDrag(cmd *cobra.Command, args []string) error {
	f := fixtureFor(waitOptsFromFlags(cmd))

	fromX, _ := cmd.Flags().GetFloat64("from-x")
	fromY, _ := cmd.Flags().GetFloat64("from-y")
	toX, _ := cmd.Flags().GetFloat64("to-x")
	toY, _ := cmd.Flags().GetFloat64("to-y")
	steps, _ := cmd.Flags().GetInt("steps")

	if err := f.Drag(cmd.Context(), args[0], bridge.DragOptions{
		FromX: fromX,
		FromY: fromY,
		ToX:   toX,
		ToY:   toY,
		Steps: steps,
	}); err != nil {
		return err
	}

	return output.Print(map[string]any{
		"ok":     true,
		"action": "drag",
		"object": args[0],
		"target": f.Target(),
	})
}
