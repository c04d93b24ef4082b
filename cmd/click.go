package cmd

import (
	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/output"
)

var clickCmd = &cobra.Command{
	Use:   "click <id>",
	Short: "Click a scene object",
	Long: `Simulate a pointer click on an object, auto-waiting for it to exist
first. Without explicit coordinates the pointer is projected onto the
object's center.

Examples:
  scenetest click start-button
  scenetest click menu-item --double
  scenetest click canvas-item --x 0.25 --y -0.5
  scenetest click context-target --context`,
	Args: cobra.ExactArgs(1),
	RunE: runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	clickCmd.Flags().Float64("x", 0, "Normalized pointer X in [-1, 1]")
	clickCmd.Flags().Float64("y", 0, "Normalized pointer Y in [-1, 1]")
	clickCmd.Flags().Bool("double", false, "Double-click")
	clickCmd.Flags().Bool("context", false, "Right-click (context menu)")
	registerWaitFlags(clickCmd)
}

func runClick(cmd *cobra.Command, args []string) error {
	f := fixtureFor(waitOptsFromFlags(cmd))

	opts := bridge.PointerOptions{Auto: true}
	if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
		opts.Auto = false
		opts.X, _ = cmd.Flags().GetFloat64("x")
		opts.Y, _ = cmd.Flags().GetFloat64("y")
	}

	double, _ := cmd.Flags().GetBool("double")
	contextMenu, _ := cmd.Flags().GetBool("context")

	action := "click"
	var err error
	ctx := cmd.Context()
	switch {
	case double:
		action = "doubleClick"
		err = f.DoubleClick(ctx, args[0], opts)
	case contextMenu:
		action = "contextMenu"
		err = f.ContextMenu(ctx, args[0], opts)
	default:
		err = f.Click(ctx, args[0], opts)
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
