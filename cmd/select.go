package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/output"
)

var selectCmd = &cobra.Command{
	Use:   "select [id]",
	Short: "Select a scene object or clear the selection",
	Long: `Mark an object as selected in the application, auto-waiting for it to
exist first. With --clear the current selection is cleared instead.

Examples:
  scenetest select card-3
  scenetest select --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSelect,
}

func init() {
	rootCmd.AddCommand(selectCmd)
	selectCmd.Flags().Bool("clear", false, "Clear the current selection")
	registerWaitFlags(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	f := fixtureFor(waitOptsFromFlags(cmd))
	ctx := cmd.Context()

	if clear, _ := cmd.Flags().GetBool("clear"); clear {
		if err := f.ClearSelection(ctx); err != nil {
			return err
		}
		return output.Print(map[string]any{
			"ok":     true,
			"action": "clearSelection",
			"target": f.Target(),
		})
	}

	if len(args) != 1 {
		return fmt.Errorf("specify an object id or --clear")
	}

	if err := f.Select(ctx, args[0]); err != nil {
		return err
	}

	return output.Print(map[string]any{
		"ok":     true,
		"action": "select",
		"object": args[0],
		"target": f.Target(),
	})
}
