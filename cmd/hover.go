package cmd

import (
	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/output"
)

var hoverCmd = &cobra.Command{
	Use:   "hover <id>",
	Short: "Hover the pointer over a scene object",
	Long: `Move the simulated pointer onto an object, auto-waiting for it to exist
first. With --off the pointer leaves the object instead.

Examples:
  scenetest hover tooltip-trigger
  scenetest hover tooltip-trigger --off`,
	Args: cobra.ExactArgs(1),
	RunE: runHover,
}

func init() {
	rootCmd.AddCommand(hoverCmd)
	hoverCmd.Flags().Float64("x", 0, "Normalized pointer X in [-1, 1]")
	hoverCmd.Flags().Float64("y", 0, "Normalized pointer Y in [-1, 1]")
	hoverCmd.Flags().Bool("off", false, "Unhover: move the pointer off the object")
	registerWaitFlags(hoverCmd)
}

func runHover(cmd *cobra.Command, args []string) error {
	f := fixtureFor(waitOptsFromFlags(cmd))

	action := "hover"
	var err error
	if off, _ := cmd.Flags().GetBool("off"); off {
		action = "unhover"
		err = f.Unhover(cmd.Context(), args[0])
	} else {
		opts := bridge.PointerOptions{Auto: true}
		if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
			opts.Auto = false
			opts.X, _ = cmd.Flags().GetFloat64("x")
			opts.Y, _ = cmd.Flags().GetFloat64("y")
		}
		err = f.Hover(cmd.Context(), args[0], opts)
	}
	if err != nil {
		return err
	}

	return output.Print(map[string]any{
		"ok":     true,
		"action": action,
		"object": args[0],
		"target": f.Target(),
	})
}
