package scene

// Vec3 is a local-space transform component: x, y, z.
type Vec3 [3]float64

// ObjectMetadata is a flat, serializable description of one scene-graph
// node at a point in time. It is recomputed per query and never cached
// across polls, so the staleness window is one poll interval.
type ObjectMetadata struct {
	UUID          string   `yaml:"uuid"                    json:"uuid"`
	TestID        string   `yaml:"testId,omitempty"        json:"testId,omitempty"`
	Name          string   `yaml:"name,omitempty"          json:"name,omitempty"`
	Type          string   `yaml:"type"                    json:"type"`
	Visible       bool     `yaml:"visible"                 json:"visible"`
	GeometryType  string   `yaml:"geometryType,omitempty"  json:"geometryType,omitempty"`
	MaterialType  string   `yaml:"materialType,omitempty"  json:"materialType,omitempty"`
	VertexCount   int      `yaml:"vertexCount,omitempty"   json:"vertexCount,omitempty"`
	TriangleCount int      `yaml:"triangleCount,omitempty" json:"triangleCount,omitempty"`
	InstanceCount int      `yaml:"instanceCount,omitempty" json:"instanceCount,omitempty"`
	Position      Vec3     `yaml:"position"                json:"position"`
	Rotation      Vec3     `yaml:"rotation"                json:"rotation"`
	Scale         Vec3     `yaml:"scale"                   json:"scale"`
	ParentUUID    string   `yaml:"parentUuid,omitempty"    json:"parentUuid,omitempty"`
	ChildrenUUIDs []string `yaml:"childrenUuids,omitempty" json:"childrenUuids,omitempty"`
}

// Label returns the effective human-friendly identifier: testId if
// present, else name, else uuid.
func (m ObjectMetadata) Label() string {
	if m.TestID != "" {
		return m.TestID
	}
	if m.Name != "" {
		return m.Name
	}
	return m.UUID
}

// GeometryDetail is the optional geometry section of an inspection.
// Position and index buffers are only populated when explicitly requested
// because serializing them is expensive for large meshes.
type GeometryDetail struct {
	VertexCount int       `yaml:"vertexCount"          json:"vertexCount"`
	IndexCount  int       `yaml:"indexCount,omitempty" json:"indexCount,omitempty"`
	Positions   []float64 `yaml:"positions,omitempty"  json:"positions,omitempty"`
	Indices     []int     `yaml:"indices,omitempty"    json:"indices,omitempty"`
}

// MaterialDetail is the optional material section of an inspection.
// Color is a normalized lowercase hex string like "#ff8800".
type MaterialDetail struct {
	Type        string  `yaml:"type"                json:"type"`
	Color       string  `yaml:"color,omitempty"     json:"color,omitempty"`
	Map         string  `yaml:"map,omitempty"       json:"map,omitempty"`
	Transparent bool    `yaml:"transparent"         json:"transparent"`
	Opacity     float64 `yaml:"opacity"             json:"opacity"`
}

// Bounds3 is an axis-aligned box in world space.
type Bounds3 struct {
	Min Vec3 `yaml:"min" json:"min"`
	Max Vec3 `yaml:"max" json:"max"`
}

// ObjectInspection is the heavier, opt-in record built from metadata plus
// world transform, bounds, and optional geometry/material detail.
// WorldMatrix, when present, is column-major with at least 16 entries;
// translation occupies indices 12, 13, 14.
type ObjectInspection struct {
	ObjectMetadata `yaml:",inline" json:",inline"`

	WorldMatrix []float64       `yaml:"worldMatrix,omitempty" json:"worldMatrix,omitempty"`
	Bounds      *Bounds3        `yaml:"bounds,omitempty"      json:"bounds,omitempty"`
	Geometry    *GeometryDetail `yaml:"geometry,omitempty"    json:"geometry,omitempty"`
	Material    *MaterialDetail `yaml:"material,omitempty"    json:"material,omitempty"`
	UserData    map[string]any  `yaml:"userData,omitempty"    json:"userData,omitempty"`
}

// WorldPosition extracts the translation component from the world matrix.
// Returns false if the matrix is absent or too short.
func (in *ObjectInspection) WorldPosition() (Vec3, bool) {
	if in == nil || len(in.WorldMatrix) < 15 {
		return Vec3{}, false
	}
	return Vec3{in.WorldMatrix[12], in.WorldMatrix[13], in.WorldMatrix[14]}, true
}

// CameraState describes the active camera at query time.
type CameraState struct {
	Position Vec3    `yaml:"position"      json:"position"`
	Rotation Vec3    `yaml:"rotation"      json:"rotation"`
	FOV      float64 `yaml:"fov,omitempty" json:"fov,omitempty"`
	Near     float64 `yaml:"near"          json:"near"`
	Far      float64 `yaml:"far"           json:"far"`
	Zoom     float64 `yaml:"zoom"          json:"zoom"`
}

// BridgeDiagnostics is a one-shot status record used purely for failure
// messages and the status verb, never for control flow.
type BridgeDiagnostics struct {
	Version      string `yaml:"version"             json:"version"`
	Ready        bool   `yaml:"ready"               json:"ready"`
	LastError    string `yaml:"lastError,omitempty" json:"lastError,omitempty"`
	ObjectCount  int    `yaml:"objectCount"         json:"objectCount"`
	MeshCount    int    `yaml:"meshCount"           json:"meshCount"`
	GroupCount   int    `yaml:"groupCount"          json:"groupCount"`
	LightCount   int    `yaml:"lightCount"          json:"lightCount"`
	CameraCount  int    `yaml:"cameraCount"         json:"cameraCount"`
	CanvasWidth  int    `yaml:"canvasWidth"         json:"canvasWidth"`
	CanvasHeight int    `yaml:"canvasHeight"        json:"canvasHeight"`
	Renderer     string `yaml:"renderer,omitempty"  json:"renderer,omitempty"`
	DOMNodeCount int    `yaml:"domNodeCount"        json:"domNodeCount"`
	DOMNodeCap   int    `yaml:"domNodeCap"          json:"domNodeCap"`
	PendingQueue int    `yaml:"pendingQueue"        json:"pendingQueue"`
}

// FuzzyMatch is one approximate-match hint from the bridge.
type FuzzyMatch struct {
	TestID string `yaml:"testId,omitempty" json:"testId,omitempty"`
	Name   string `yaml:"name,omitempty"   json:"name,omitempty"`
	UUID   string `yaml:"uuid"             json:"uuid"`
}

// Label returns the best human-readable identifier for a fuzzy match.
func (f FuzzyMatch) Label() string {
	if f.TestID != "" {
		return f.TestID
	}
	if f.Name != "" {
		return f.Name
	}
	return f.UUID
}
