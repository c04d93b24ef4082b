package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/match"
	"github.com/glassbox3d/scenetest/internal/output"
	"github.com/glassbox3d/scenetest/internal/scene"
)

var assertCmd = &cobra.Command{
	Use:   "assert <matcher> [id]",
	Short: "Assert scene state with retry",
	Long: `Assert object or scene state, retrying until the assertion holds or the
timeout fires. Numeric comparisons pass when every component differs by no
more than the tolerance.

Matchers:
  exists, visible, hidden          object presence and visibility
  position, rotation, scale        local transform (--expected x,y,z)
  world-position                   world-space position (--expected x,y,z)
  opacity                          material opacity (--value)
  color                            material color (--color '#ff8800')
  bounds                           world bounds (--min x,y,z --max x,y,z)
  camera-far                       active camera far plane (--value)
  count                            total object count (--value)
  count-by-type                    count of one type (--type, --value)
  triangle-count                   summed mesh triangles (--value)
  all-exist, all-visible           every id in --ids / --pattern
  none-exist                       no id in --ids / --pattern

Examples:
  scenetest assert exists player-model
  scenetest assert position player-model --expected 0,1.5,0
  scenetest assert visible hud --not
  scenetest assert color cube-1 --color "#ff8800"
  scenetest assert all-exist --pattern "wall-*"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAssert,
}

func init() {
	rootCmd.AddCommand(assertCmd)
	assertCmd.Flags().String("expected", "", "Expected vector as x,y,z")
	assertCmd.Flags().Float64("value", 0, "Expected scalar value")
	assertCmd.Flags().String("color", "", "Expected material color hex")
	assertCmd.Flags().String("type", "", "Object type for count-by-type")
	assertCmd.Flags().String("min", "", "Expected bounds minimum as x,y,z")
	assertCmd.Flags().String("max", "", "Expected bounds maximum as x,y,z")
	assertCmd.Flags().StringSlice("ids", nil, "Identifier list for batch matchers")
	assertCmd.Flags().String("pattern", "", "Glob pattern for batch matchers")
	assertCmd.Flags().Float64("tolerance", -1, "Numeric tolerance override")
	assertCmd.Flags().Bool("not", false, "Negate the assertion")
	registerWaitFlags(assertCmd)
}

// configTolerance maps a matcher to its configured tolerance family.
// Matchers that compare exactly get nil, leaving Options untouched.
func configTolerance(matcher string) *float64 {
	if cfg == nil {
		return nil
	}
	switch matcher {
	case "position", "rotation", "scale", "world-position", "opacity":
		return match.Tol(cfg.Assert.Tolerance)
	case "bounds":
		return match.Tol(cfg.Assert.BoundsTolerance)
	case "camera-far":
		return match.Tol(cfg.Assert.FarTolerance)
	}
	return nil
}

func runAssert(cmd *cobra.Command, args []string) error {
	eval := evaluatorFor()

	waitOpts := waitOptsFromFlags(cmd)
	not, _ := cmd.Flags().GetBool("not")
	opts := match.Options{
		Timeout:  waitOpts.Timeout,
		Interval: waitOpts.Interval,
		Not:      not,
	}
	matcherName := args[0]
	if tol, err := cmd.Flags().GetFloat64("tolerance"); err == nil && tol >= 0 {
		opts.Tolerance = match.Tol(tol)
	} else {
		opts.Tolerance = configTolerance(matcherName)
	}

	var id string
	if len(args) == 2 {
		id = args[1]
	}

	value, _ := cmd.Flags().GetFloat64("value")
	ids, _ := cmd.Flags().GetStringSlice("ids")
	pattern, _ := cmd.Flags().GetString("pattern")

	expectedVec := func() (scene.Vec3, error) {
		raw, _ := cmd.Flags().GetString("expected")
		if raw == "" {
			return scene.Vec3{}, fmt.Errorf("matcher %q requires --expected x,y,z", matcherName)
		}
		return parseVec3(raw)
	}

	ctx := cmd.Context()

	var result match.Result
	switch matcherName {
	case "exists":
		result = eval.Exists(ctx, id, opts)
	case "visible":
		result = eval.Visible(ctx, id, true, opts)
	case "hidden":
		result = eval.Visible(ctx, id, false, opts)
	case "position":
		v, err := expectedVec()
		if err != nil {
			return err
		}
		result = eval.Position(ctx, id, v, opts)
	case "rotation":
		v, err := expectedVec()
		if err != nil {
			return err
		}
		result = eval.Rotation(ctx, id, v, opts)
	case "scale":
		v, err := expectedVec()
		if err != nil {
			return err
		}
		result = eval.Scale(ctx, id, v, opts)
	case "world-position":
		v, err := expectedVec()
		if err != nil {
			return err
		}
		result = eval.WorldPosition(ctx, id, v, opts)
	case "opacity":
		result = eval.Opacity(ctx, id, value, opts)
	case "color":
		color, _ := cmd.Flags().GetString("color")
		if color == "" {
			return fmt.Errorf("matcher %q requires --color", matcherName)
		}
		result = eval.MaterialColor(ctx, id, color, opts)
	case "bounds":
		minRaw, _ := cmd.Flags().GetString("min")
		maxRaw, _ := cmd.Flags().GetString("max")
		minVec, err := parseVec3(minRaw)
		if err != nil {
			return fmt.Errorf("--min: %w", err)
		}
		maxVec, err := parseVec3(maxRaw)
		if err != nil {
			return fmt.Errorf("--max: %w", err)
		}
		result = eval.Bounds(ctx, id, scene.Bounds3{Min: minVec, Max: maxVec}, opts)
	case "camera-far":
		result = eval.CameraFar(ctx, value, opts)
	case "count":
		result = eval.ObjectCount(ctx, int(value), opts)
	case "count-by-type":
		objectType, _ := cmd.Flags().GetString("type")
		if objectType == "" {
			return fmt.Errorf("matcher %q requires --type", matcherName)
		}
		result = eval.CountByType(ctx, objectType, int(value), opts)
	case "triangle-count":
		result = eval.TriangleCount(ctx, int(value), opts)
	case "all-exist":
		result = eval.AllExist(ctx, ids, pattern, opts)
	case "all-visible":
		result = eval.AllVisible(ctx, ids, pattern, opts)
	case "none-exist":
		result = eval.NoneExist(ctx, ids, pattern, opts)
	default:
		return fmt.Errorf("unknown matcher %q", matcherName)
	}

	out := output.AssertResult{
		Target:   targetName(),
		Matcher:  result.Name,
		Object:   id,
		Pass:     result.Pass,
		Negated:  result.Negated,
		NotFound: result.NotFound,
		Message:  result.Message(),
	}
	if !result.OK() {
		// Print the result, then return an error for non-zero exit code
		_ = output.Print(out)
		return fmt.Errorf("assertion failed: %s", result.Message())
	}
	return output.Print(out)
}
