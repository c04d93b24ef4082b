package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/output"
	"github.com/glassbox3d/scenetest/internal/scene"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture or diff a structural scene snapshot",
	Long: `Capture a structural snapshot of the scene graph. With --save the
snapshot is persisted for later diffing; with --diff the current scene is
compared against the last saved snapshot, reporting added, removed, and
changed objects keyed by uuid.

Examples:
  scenetest snapshot
  scenetest snapshot --save
  scenetest snapshot --diff
  scenetest snapshot --diff --before /tmp/scenetest-snapshot-default-1700000000.json`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().Bool("save", false, "Persist the snapshot for later diffing")
	snapshotCmd.Flags().Bool("diff", false, "Diff against the last saved snapshot")
	snapshotCmd.Flags().String("before", "", "Snapshot file to diff against instead of the latest saved one")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	session := sessionFor()

	snap, err := session.Snapshot()
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("no snapshot available; is the application attached?")
	}

	diff, _ := cmd.Flags().GetBool("diff")
	if diff {
		beforePath, _ := cmd.Flags().GetString("before")
		if beforePath == "" {
			beforePath = scene.LatestSnapshot(session.Target())
		}
		if beforePath == "" {
			return fmt.Errorf("no previous snapshot to diff against; run `scenetest snapshot --save` first")
		}
		before, err := scene.LoadSnapshot(beforePath)
		if err != nil {
			return err
		}
		return output.Print(output.DiffResult{
			Target: session.Target(),
			Before: beforePath,
			Diff:   scene.Diff(before, snap),
		})
	}

	result := output.SnapshotResult{Target: session.Target(), Snapshot: snap}
	if save, _ := cmd.Flags().GetBool("save"); save {
		path, err := scene.SaveSnapshot(session.Target(), snap)
		if err != nil {
			return err
		}
		result.Path = path
	}
	return output.Print(result)
}
