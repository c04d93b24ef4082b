package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/output"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [id]",
	Short: "Deep-inspect one scene object or the active camera",
	Long: `Inspect one object in depth: world matrix, world-space bounds, material
detail, and user data. Geometry position/index buffers are opt-in because
serializing them is expensive for large meshes.

With --camera the active camera's state is reported instead of an object.

Examples:
  scenetest inspect player-model
  scenetest inspect terrain --geometry
  scenetest inspect --camera`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("geometry", false, "Include geometry position/index buffers")
	inspectCmd.Flags().Bool("camera", false, "Report the active camera instead of an object")
}

func runInspect(cmd *cobra.Command, args []string) error {
	session := sessionFor()

	if camera, _ := cmd.Flags().GetBool("camera"); camera {
		state, err := session.CameraState()
		if err != nil {
			return err
		}
		if state == nil {
			return fmt.Errorf("no active camera reported by target %q", session.Target())
		}
		return output.Print(output.CameraResult{
			Target: session.Target(),
			TS:     time.Now().Unix(),
			Camera: state,
		})
	}

	if len(args) == 0 {
		return fmt.Errorf("specify an object id or --camera")
	}
	includeGeometry, _ := cmd.Flags().GetBool("geometry")

	insp, err := session.Inspect(args[0], bridge.InspectOptions{
		IncludeGeometryData: includeGeometry,
	})
	if err != nil {
		return err
	}
	if insp == nil {
		return notFoundErr(session, args[0])
	}

	return output.Print(output.InspectResult{
		Target: session.Target(),
		TS:     time.Now().Unix(),
		Object: insp,
	})
}
