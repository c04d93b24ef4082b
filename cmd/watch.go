package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/scene"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the scene and stream structural diffs as JSONL",
	Long: `Continuously snapshot the scene graph and emit changes (added, removed,
changed objects) as JSONL to stdout.

Each line is a JSON object representing one change event. No output is
emitted while the scene is stable, which is far more token-efficient than
repeated snapshots.

Output is always JSONL regardless of the --format flag.

Use Ctrl+C or --duration to stop watching.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Int("interval", 500, "Polling interval in milliseconds")
	watchCmd.Flags().Int("duration", 0, "Max seconds to watch (0 = until Ctrl+C)")
	watchCmd.Flags().Bool("ignore-transforms", false, "Ignore position/rotation/scale changes")
}

func runWatch(cmd *cobra.Command, args []string) error {
	session := sessionFor()

	intervalMs, _ := cmd.Flags().GetInt("interval")
	durationSec, _ := cmd.Flags().GetInt("duration")
	ignoreTransforms, _ := cmd.Flags().GetBool("ignore-transforms")

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)

	interval := time.Duration(intervalMs) * time.Millisecond
	var deadline time.Time
	if durationSec > 0 {
		deadline = time.Now().Add(time.Duration(durationSec) * time.Second)
	}
	start := time.Now()

	// Initial snapshot to establish the baseline
	prev, err := session.Snapshot()
	if err != nil {
		return fmt.Errorf("initial snapshot failed: %w", err)
	}
	if prev == nil {
		return fmt.Errorf("no snapshot available; is the application attached?")
	}

	enc.Encode(map[string]interface{}{
		"type":  "snapshot",
		"ts":    time.Now().Unix(),
		"count": prev.NodeCount(),
	})

	eventCount := 0
	ctx := cmd.Context()

	for {
		if durationSec > 0 && time.Now().After(deadline) {
			break
		}
		if ctx.Err() != nil {
			break
		}

		time.Sleep(interval)

		curr, err := session.Snapshot()
		if err != nil || curr == nil {
			msg := "snapshot unavailable"
			if err != nil {
				msg = err.Error()
			}
			enc.Encode(map[string]interface{}{
				"type":  "error",
				"ts":    time.Now().Unix(),
				"error": msg,
			})
			continue
		}

		diff := scene.Diff(prev, curr)
		for _, node := range diff.Added {
			enc.Encode(map[string]interface{}{
				"type": "added", "ts": time.Now().Unix(),
				"uuid": node.UUID, "objectType": node.Type, "name": node.Name, "testId": node.TestID,
			})
			eventCount++
		}
		for _, node := range diff.Removed {
			enc.Encode(map[string]interface{}{
				"type": "removed", "ts": time.Now().Unix(),
				"uuid": node.UUID, "objectType": node.Type, "name": node.Name, "testId": node.TestID,
			})
			eventCount++
		}
		for uuid, changes := range diff.Changed {
			if ignoreTransforms {
				changes = dropTransformChanges(changes)
				if len(changes) == 0 {
					continue
				}
			}
			enc.Encode(map[string]interface{}{
				"type": "changed", "ts": time.Now().Unix(),
				"uuid": uuid, "changes": changes,
			})
			eventCount++
		}

		prev = curr
	}

	elapsed := time.Since(start)
	enc.Encode(map[string]interface{}{
		"type":    "done",
		"ts":      time.Now().Unix(),
		"elapsed": fmt.Sprintf("%.1fs", elapsed.Seconds()),
		"events":  eventCount,
	})
	return nil
}

func dropTransformChanges(changes []scene.PropertyChange) []scene.PropertyChange {
	var kept []scene.PropertyChange
	for _, c := range changes {
		switch c.Property {
		case "position", "rotation", "scale":
		default:
			kept = append(kept, c)
		}
	}
	return kept
}
