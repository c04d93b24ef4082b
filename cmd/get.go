package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/output"
	"github.com/glassbox3d/scenetest/internal/scene"
)

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Query scene objects",
	Long: `Query scene objects by testId, uuid, name, type, or glob pattern.
Returns flat object metadata: transform, visibility, geometry and material
types, and hierarchy links.

Examples:
  scenetest get player-model
  scenetest get --name Cube
  scenetest get --type Mesh
  scenetest get "wall-*"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().String("name", "", "Exact object name")
	getCmd.Flags().String("type", "", "Object type (e.g. Mesh, Group, PointLight)")
	getCmd.Flags().String("user-data", "", "userData filter as key=value")
}

func runGet(cmd *cobra.Command, args []string) error {
	session := sessionFor()

	name, _ := cmd.Flags().GetString("name")
	objectType, _ := cmd.Flags().GetString("type")
	userData, _ := cmd.Flags().GetString("user-data")

	var objects []*scene.ObjectMetadata

	switch {
	case len(args) == 1 && scene.IsGlob(args[0]):
		matches, err := session.ResolvePattern(args[0])
		if err != nil {
			return err
		}
		for _, m := range matches {
			obj, err := session.GetObject(m.UUID)
			if err != nil {
				return err
			}
			if obj != nil {
				objects = append(objects, obj)
			}
		}
	case len(args) == 1:
		obj, err := session.GetObject(args[0])
		if err != nil {
			return err
		}
		if obj == nil {
			return notFoundErr(session, args[0])
		}
		objects = append(objects, obj)
	case name != "":
		found, err := session.Bridge().GetByName(name)
		if err != nil {
			return err
		}
		for i := range found {
			objects = append(objects, &found[i])
		}
	case objectType != "":
		found, err := session.Bridge().GetByType(objectType)
		if err != nil {
			return err
		}
		for i := range found {
			objects = append(objects, &found[i])
		}
	case userData != "":
		key, value, ok := splitKeyValue(userData)
		if !ok {
			return fmt.Errorf("invalid --user-data %q (use key=value)", userData)
		}
		found, err := session.Bridge().GetByUserData(key, value)
		if err != nil {
			return err
		}
		for i := range found {
			objects = append(objects, &found[i])
		}
	default:
		return fmt.Errorf("specify an id/pattern argument or one of --name, --type, --user-data")
	}

	return output.Print(output.ObjectResult{
		Target:  session.Target(),
		TS:      time.Now().Unix(),
		Objects: objects,
	})
}
