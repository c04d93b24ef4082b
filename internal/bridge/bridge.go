// Package bridge defines the contract the core assumes a live application
// exposes: object lookup, counts, snapshots, inspection, and low-level
// interaction primitives. The core is a client of this surface and treats
// every implementation as a black box.
package bridge

import "github.com/glassbox3d/scenetest/internal/scene"

// InspectOptions controls how much detail an inspection computes.
// Geometry buffers are opt-in because serializing them is expensive.
type InspectOptions struct {
	IncludeGeometryData bool `json:"includeGeometryData,omitempty"`
}

// PointerOptions positions a simulated pointer event. Coordinates are
// normalized device coordinates in [-1, 1]; when Auto is true the bridge
// projects the target object's center instead.
type PointerOptions struct {
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Auto   bool    `json:"auto,omitempty"`
	Button int     `json:"button,omitempty"`
}

// DragOptions describes a pointer drag between two normalized positions.
type DragOptions struct {
	FromX float64 `json:"fromX"`
	FromY float64 `json:"fromY"`
	ToX   float64 `json:"toX"`
	ToY   float64 `json:"toY"`
	Steps int     `json:"steps,omitempty"`
}

// WheelOptions describes a simulated wheel event.
type WheelOptions struct {
	DeltaX float64 `json:"deltaX,omitempty"`
	DeltaY float64 `json:"deltaY"`
}

// PathPoint is one normalized point of a drawn path.
type PathPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bridge is the scene bridge contract. Lookup methods return nil (or
// empty) rather than an error when the target does not exist; an error
// means the bridge itself could not be reached or evaluated.
type Bridge interface {
	// Ready reports whether the bridge finished attaching, along with the
	// last setup error if any. ready=false with a non-empty error is an
	// unrecoverable fail-fast state.
	Ready() (ready bool, lastError string, err error)

	GetByTestID(id string) (*scene.ObjectMetadata, error)
	GetByUUID(uuid string) (*scene.ObjectMetadata, error)
	GetByName(name string) ([]scene.ObjectMetadata, error)
	GetByType(objectType string) ([]scene.ObjectMetadata, error)
	GetByUserData(key, value string) ([]scene.ObjectMetadata, error)

	GetCount() (int, error)
	GetCountByType(objectType string) (int, error)

	// GetObjects resolves a batch of ids in one round trip. Every
	// requested id is present in the result, mapped to nil on miss.
	GetObjects(ids []string) (map[string]*scene.ObjectMetadata, error)

	Snapshot() (*scene.SceneSnapshot, error)
	Inspect(id string, opts InspectOptions) (*scene.ObjectInspection, error)
	FuzzyFind(query string, limit int) ([]scene.FuzzyMatch, error)
	GetDiagnostics() (*scene.BridgeDiagnostics, error)
	GetCameraState() (*scene.CameraState, error)

	Click(id string, opts PointerOptions) error
	DoubleClick(id string, opts PointerOptions) error
	ContextMenu(id string, opts PointerOptions) error
	Hover(id string, opts PointerOptions) error
	Unhover(id string) error
	Drag(id string, opts DragOptions) error
	Wheel(id string, opts WheelOptions) error
	PointerMiss() error
	DrawPath(points []PathPoint) error

	Select(id string) error
	ClearSelection() error
}
