// Package bridgehttp implements the HTTP relay between a running 3D
// application and the test harness. The application's integration script
// pushes scene state and polls for brokered interaction commands; the
// harness side reads the mirrored state and dispatches commands through
// the broker.
package bridgehttp

import (
	"time"

	"github.com/glassbox3d/scenetest/internal/scene"
)

// StatePayload is the full state one application push carries. The relay
// stores the latest payload per target verbatim; queries never reach back
// into the application.
type StatePayload struct {
	Ready       bool                               `json:"ready"`
	LastError   string                             `json:"lastError,omitempty"`
	Objects     []scene.ObjectMetadata             `json:"objects"`
	Snapshot    *scene.SceneSnapshot               `json:"snapshot,omitempty"`
	Inspections map[string]*scene.ObjectInspection `json:"inspections,omitempty"`
	Camera      *scene.CameraState                 `json:"camera,omitempty"`
	Diagnostics *scene.BridgeDiagnostics           `json:"diagnostics,omitempty"`
}

// Command is one brokered interaction the application must execute.
type Command struct {
	ID       string         `json:"id"`
	Action   string         `json:"action"`
	ObjectID string         `json:"objectId,omitempty"`
	Args     map[string]any `json:"args,omitempty"`
}

// CommandAck is the application's execution acknowledgement for one command.
type CommandAck struct {
	CommandID string    `json:"commandId"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
	AckedAt   time.Time `json:"ackedAt,omitempty"`
}

// InteractRequest is the harness-side request to dispatch one interaction.
type InteractRequest struct {
	Action   string         `json:"action"`
	ObjectID string         `json:"objectId,omitempty"`
	Args     map[string]any `json:"args,omitempty"`
}

// InteractResponse reports the brokered round trip's outcome.
type InteractResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Interaction action names carried over the wire.
const (
	ActionClick          = "click"
	ActionDoubleClick    = "doubleClick"
	ActionContextMenu    = "contextMenu"
	ActionHover          = "hover"
	ActionUnhover        = "unhover"
	ActionDrag           = "drag"
	ActionWheel          = "wheel"
	ActionPointerMiss    = "pointerMiss"
	ActionDrawPath       = "drawPath"
	ActionSelect         = "select"
	ActionClearSelection = "clearSelection"
)
