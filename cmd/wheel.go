package cmd

import (
	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/output"
)

var wheelCmd = &cobra.Command{
	Use:   "wheel <id>",
	Short: "Send a wheel event over a scene object",
	Long: `Simulate a mouse wheel event over an object, auto-waiting for it to
exist first. Positive delta-y scrolls away from the viewer.

Examples:
  scenetest wheel viewport --delta-y 120
  scenetest wheel timeline --delta-x -40 --delta-y 0`,
	Args: cobra.ExactArgs(1),
	RunE: runWheel,
}

func init() {
	rootCmd.AddCommand(wheelCmd)
	wheelCmd.Flags().Float64("delta-x", 0, "Wheel delta X")
	wheelCmd.Flags().Float64("delta-y", 120, "Wheel delta Y")
	registerWaitFlags(wheelCmd)
}

func runWheel(cmd *cobra.Command, args []string) error {
	f := fixtureFor(waitOptsFromFlags(cmd))

	deltaX, _ := cmd.Flags().GetFloat64("delta-x")
	deltaY, _ := cmd.Flags().GetFloat64("delta-y")

	if err := f.Wheel(cmd.Context(), args[0], bridge.WheelOptions{
		DeltaX: deltaX,
		DeltaY: deltaY,
	}); err != nil {
		return err
	}

	return output.Print(map[string]any{
		"ok":     true,
		"action": "wheel",
		"object": args[0],
		"target": f.Target(),
	})
}
