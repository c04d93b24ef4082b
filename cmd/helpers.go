package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/query"
	"github.com/glassbox3d/scenetest/internal/scene"
	"github.com/glassbox3d/scenetest/internal/wait"
)

// notFoundErr builds a lookup failure with fuzzy suggestions appended.
func notFoundErr(session *query.Session, id string) error {
	msg := fmt.Sprintf("object %q not found", id)
	if hint := scene.FormatSuggestions(session.Suggest(id)); hint != "" {
		msg += "; " + hint
	}
	return fmt.Errorf("%s", msg)
}

// splitKeyValue parses a key=value argument.
func splitKeyValue(s string) (key, value string, ok bool) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// parseVec3 parses "x,y,z" into a Vec3.
func parseVec3(s string) (scene.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return scene.Vec3{}, fmt.Errorf("expected x,y,z but got %q", s)
	}
	var v scene.Vec3
	for i, p := range parts {
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%g", &v[i]); err != nil {
			return scene.Vec3{}, fmt.Errorf("invalid component %q in %q", p, s)
		}
	}
	return v, nil
}

// registerWaitFlags adds the shared polling flags to a command.
func registerWaitFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("timeout", 0, "Max seconds to wait (default: 5)")
	cmd.Flags().Int("interval", 0, "Polling interval in milliseconds (default: 100)")
}

// waitOptsFromFlags layers flag values over the config-level defaults.
func waitOptsFromFlags(cmd *cobra.Command) wait.Options {
	opts := configWaitOptions()
	if secs, err := cmd.Flags().GetFloat64("timeout"); err == nil && secs > 0 {
		opts.Timeout = time.Duration(secs * float64(time.Second))
	}
	if ms, err := cmd.Flags().GetInt("interval"); err == nil && ms > 0 {
		opts.Interval = time.Duration(ms) * time.Millisecond
	}
	return opts
}
