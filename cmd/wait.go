package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/output"
	"github.com/glassbox3d/scenetest/internal/wait"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for a scene condition",
	Long: `Poll the scene until a condition holds or the timeout fires.

Conditions:
  --ready            scene has a stable nonzero object count
  --for <id>         object with testId or uuid exists
  --gone <id>        object no longer exists
  --new              a new object appeared (filter with --type / --name-contains)
  --idle             rendered scene state settles across consecutive frames

Examples:
  scenetest wait --ready
  scenetest wait --for enemy-boss --timeout 10
  scenetest wait --gone loading-spinner
  scenetest wait --new --type Line
  scenetest wait --idle --idle-frames 20`,
	RunE: runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().Bool("ready", false, "Wait for the scene to be ready")
	waitCmd.Flags().String("for", "", "Wait for object with this testId or uuid")
	waitCmd.Flags().String("gone", "", "Wait for object to disappear")
	waitCmd.Flags().Bool("new", false, "Wait for a new object to appear")
	waitCmd.Flags().Bool("idle", false, "Wait for the scene to stop changing")
	waitCmd.Flags().String("type", "", "New-object type filter")
	waitCmd.Flags().String("name-contains", "", "New-object name substring filter")
	waitCmd.Flags().Int("stable-checks", 0, "Consecutive stable polls for --ready (default: 3)")
	waitCmd.Flags().Int("idle-frames", 0, "Consecutive identical frames for --idle (default: 10)")
	registerWaitFlags(waitCmd)
}

func runWait(cmd *cobra.Command, args []string) error {
	engine := engineFor()

	opts := waitOptsFromFlags(cmd)
	if n, err := cmd.Flags().GetInt("stable-checks"); err == nil && n > 0 {
		opts.StableChecks = n
	}
	if n, err := cmd.Flags().GetInt("idle-frames"); err == nil && n > 0 {
		opts.IdleFrames = n
	}

	ready, _ := cmd.Flags().GetBool("ready")
	forID, _ := cmd.Flags().GetString("for")
	goneID, _ := cmd.Flags().GetString("gone")
	newObj, _ := cmd.Flags().GetBool("new")
	idle, _ := cmd.Flags().GetBool("idle")

	ctx := cmd.Context()

	var condition string
	var outcome wait.Outcome
	switch {
	case ready:
		condition = "scene-ready"
		outcome = engine.ForSceneReady(ctx, opts)
	case forID != "":
		condition = "object-exists"
		outcome = engine.ForObject(ctx, forID, opts)
	case goneID != "":
		condition = "object-gone"
		outcome = engine.ForObjectGone(ctx, goneID, opts)
	case newObj:
		condition = "new-object"
		objectType, _ := cmd.Flags().GetString("type")
		nameContains, _ := cmd.Flags().GetString("name-contains")
		outcome = engine.ForNewObject(ctx, wait.NewObjectFilter{
			Type:         objectType,
			NameContains: nameContains,
		}, opts)
	case idle:
		condition = "scene-idle"
		outcome = engine.ForIdle(ctx, opts)
	default:
		return fmt.Errorf("specify a condition: --ready, --for, --gone, --new, or --idle")
	}

	result := output.WaitResult{
		Target:    targetName(),
		Condition: condition,
		State:     outcome.State.String(),
		ElapsedMS: outcome.Elapsed.Milliseconds(),
		Polls:     outcome.Polls,
		Count:     outcome.Count,
		NewUUIDs:  outcome.NewUUIDs,
	}
	if err := outcome.Err(); err != nil {
		// Print the result, then return an error for non-zero exit code
		_ = output.Print(result)
		return err
	}
	return output.Print(result)
}
