package cmd

import (
	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report bridge readiness and renderer diagnostics",
	Long: `Report whether the target bridge is attached and ready, plus renderer
diagnostics: object counts by category, canvas size, and renderer info.

Examples:
  scenetest status
  scenetest status --target editor`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	session := sessionFor()

	ready, lastError, err := session.Bridge().Ready()
	result := output.StatusResult{
		Target: session.Target(),
		Ready:  ready,
		Detail: lastError,
	}
	if err != nil {
		result.Detail = err.Error()
	} else {
		result.Diagnostics = session.Diagnostics()
	}
	return output.Print(result)
}
