package bridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glassbox3d/scenetest/internal/scene"
)

// FakeObject is one scriptable node in a FakeBridge scene.
type FakeObject struct {
	UUID          string
	TestID        string
	Name          string
	Type          string
	Visible       bool
	Position      scene.Vec3
	Rotation      scene.Vec3
	Scale         scene.Vec3
	GeometryType  string
	MaterialType  string
	VertexCount   int
	TriangleCount int
	Material      *scene.MaterialDetail
	UserData      map[string]any

	parent   *FakeObject
	children []*FakeObject
}

// InteractionRecord captures one interaction dispatched to the fake.
type InteractionRecord struct {
	Action string
	Target string
}

// FakeBridge is an in-memory Bridge used by tests and `serve --demo`.
// It behaves like an attached, ready bridge by default; tests flip
// readiness and mutate the scene between polls through the mutators or
// the BeforePoll hook.
type FakeBridge struct {
	mu        sync.Mutex
	ready     bool
	lastError string
	version   string
	renderer  string
	canvasW   int
	canvasH   int
	roots     []*FakeObject
	byUUID    map[string]*FakeObject
	selection string
	polls     int

	// BeforePoll, when set, runs at the start of every bridge call with
	// the 1-based call number. It is invoked outside the lock so it may
	// use the public mutators.
	BeforePoll func(poll int)

	// Interactions records every dispatched interaction in order.
	Interactions []InteractionRecord
}

// NewFakeBridge returns an empty, ready fake scene.
func NewFakeBridge() *FakeBridge {
	return &FakeBridge{
		ready:    true,
		version:  "fake-1.0",
		renderer: "FakeRenderer (test)",
		canvasW:  800,
		canvasH:  600,
		byUUID:   make(map[string]*FakeObject),
	}
}

func (b *FakeBridge) poll() {
	b.mu.Lock()
	b.polls++
	n := b.polls
	hook := b.BeforePoll
	b.mu.Unlock()
	if hook != nil {
		hook(n)
	}
}

// SetReady flips bridge readiness; a non-empty lastError with ready=false
// simulates a failed bridge setup.
func (b *FakeBridge) SetReady(ready bool, lastError string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ready = ready
	b.lastError = lastError
}

// Add inserts an object under the parent uuid ("" for root) and returns
// its generated uuid.
func (b *FakeBridge) Add(parentUUID string, obj FakeObject) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if obj.UUID == "" {
		obj.UUID = uuid.NewString()
	}
	if obj.Scale == (scene.Vec3{}) {
		obj.Scale = scene.Vec3{1, 1, 1}
	}
	node := obj
	if parentUUID != "" {
		if parent := b.byUUID[parentUUID]; parent != nil {
			node.parent = parent
			parent.children = append(parent.children, &node)
		} else {
			b.roots = append(b.roots, &node)
		}
	} else {
		b.roots = append(b.roots, &node)
	}
	b.byUUID[node.UUID] = &node
	return node.UUID
}

// Remove deletes the object and its subtree.
func (b *FakeBridge) Remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	obj := b.lookupLocked(id)
	if obj == nil {
		return
	}
	b.dropLocked(obj)
	if obj.parent != nil {
		obj.parent.children = removeChild(obj.parent.children, obj)
	} else {
		b.roots = removeChild(b.roots, obj)
	}
}

func (b *FakeBridge) dropLocked(obj *FakeObject) {
	delete(b.byUUID, obj.UUID)
	for _, c := range obj.children {
		b.dropLocked(c)
	}
}

func removeChild(list []*FakeObject, target *FakeObject) []*FakeObject {
	out := list[:0]
	for _, o := range list {
		if o != target {
			out = append(out, o)
		}
	}
	return out
}

// Mutate runs fn against the object with the given uuid or testId.
func (b *FakeBridge) Mutate(id string, fn func(*FakeObject)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if obj := b.lookupLocked(id); obj != nil {
		fn(obj)
	}
}

func (b *FakeBridge) lookupLocked(id string) *FakeObject {
	for _, obj := range b.byUUID {
		if obj.TestID != "" && obj.TestID == id {
			return obj
		}
	}
	return b.byUUID[id]
}

func (b *FakeBridge) metadataLocked(obj *FakeObject) *scene.ObjectMetadata {
	meta := &scene.ObjectMetadata{
		UUID:          obj.UUID,
		TestID:        obj.TestID,
		Name:          obj.Name,
		Type:          obj.Type,
		Visible:       obj.Visible,
		GeometryType:  obj.GeometryType,
		MaterialType:  obj.MaterialType,
		VertexCount:   obj.VertexCount,
		TriangleCount: obj.TriangleCount,
		Position:      obj.Position,
		Rotation:      obj.Rotation,
		Scale:         obj.Scale,
	}
	if obj.parent != nil {
		meta.ParentUUID = obj.parent.UUID
	}
	for _, c := range obj.children {
		meta.ChildrenUUIDs = append(meta.ChildrenUUIDs, c.UUID)
	}
	return meta
}

// Ready implements Bridge.
func (b *FakeBridge) Ready() (bool, string, error) {
	b.poll()
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready, b.lastError, nil
}

// GetByTestID implements Bridge.
func (b *FakeBridge) GetByTestID(id string) (*scene.ObjectMetadata, error) {
	b.poll()
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, obj := range b.byUUID {
		if obj.TestID == id && id != "" {
			return b.metadataLocked(obj), nil
		}
	}
	return nil, nil
}

// GetByUUID implements Bridge.
func (b *FakeBridge) GetByUUID(id string) (*scene.ObjectMetadata, error) {
	b.poll()
	b.mu.Lock()
	defer b.mu.Unlock()
	if obj := b.byUUID[id]; obj != nil {
		return b.metadataLocked(obj), nil
	}
	return nil, nil
}

// GetByName implements Bridge.
func (b *FakeBridge) GetByName(name string) ([]scene.ObjectMetadata, error) {
	b.poll()
	return b.collect(func(o *FakeObject) bool { return o.Name == name }), nil
}

// GetByType implements Bridge.
func (b *FakeBridge) GetByType(objectType string) ([]scene.ObjectMetadata, error) {
	b.poll()
	return b.collect(func(o *FakeObject) bool { return o.Type == objectType }), nil
}

// GetByUserData implements Bridge.
func (b *FakeBridge) GetByUserData(key, value string) ([]scene.ObjectMetadata, error) {
	b.poll()
	return b.collect(func(o *FakeObject) bool {
		v, ok := o.UserData[key]
		if !ok {
			return false
		}
		return value == "" || fmt.Sprintf("%v", v) == value
	}), nil
}

func (b *FakeBridge) collect(match func(*FakeObject) bool) []scene.ObjectMetadata {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []scene.ObjectMetadata
	b.walkLocked(func(o *FakeObject) {
		if match(o) {
			out = append(out, *b.metadataLocked(o))
		}
	})
	return out
}

func (b *FakeBridge) walkLocked(visit func(*FakeObject)) {
	var rec func(*FakeObject)
	rec = func(o *FakeObject) {
		visit(o)
		for _, c := range o.children {
			rec(c)
		}
	}
	for _, r := range b.roots {
		rec(r)
	}
}

// GetCount implements Bridge.
func (b *FakeBridge) GetCount() (int, error) {
	b.poll()
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byUUID), nil
}

// GetCountByType implements Bridge.
func (b *FakeBridge) GetCountByType(objectType string) (int, error) {
	b.poll()
	b.mu.Lock()
	defer b.mu.Unlock()
	count := 0
	b.walkLocked(func(o *FakeObject) {
		if o.Type == objectType {
			count++
		}
	})
	return count, nil
}

// GetObjects implements Bridge.
func (b *FakeBridge) GetObjects(ids []string) (map[string]*scene.ObjectMetadata, error) {
	b.poll()
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]*scene.ObjectMetadata, len(ids))
	for _, id := range ids {
		if obj := b.lookupLocked(id); obj != nil {
			out[id] = b.metadataLocked(obj)
		} else {
			out[id] = nil
		}
	}
	return out, nil
}

// Snapshot implements Bridge.
func (b *FakeBridge) Snapshot() (*scene.SceneSnapshot, error) {
	b.poll()
	b.mu.Lock()
	defer b.mu.Unlock()

	root := &scene.SnapshotNode{UUID: "scene-root", Name: "Scene", Type: "Scene", Visible: true, Scale: scene.Vec3{1, 1, 1}}
	var rec func(o *FakeObject) scene.SnapshotNode
	rec = func(o *FakeObject) scene.SnapshotNode {
		n := scene.SnapshotNode{
			UUID:     o.UUID,
			TestID:   o.TestID,
			Name:     o.Name,
			Type:     o.Type,
			Visible:  o.Visible,
			Position: o.Position,
			Rotation: o.Rotation,
			Scale:    o.Scale,
		}
		for _, c := range o.children {
			n.Children = append(n.Children, rec(c))
		}
		return n
	}
	for _, r := range b.roots {
		root.Children = append(root.Children, rec(r))
	}

	return &scene.SceneSnapshot{
		Timestamp:   time.Now().UnixMilli(),
		ObjectCount: len(b.byUUID),
		Tree:        root,
	}, nil
}

// Inspect implements Bridge. The world matrix is an identity matrix with
// translation composed from ancestor positions, which is sufficient for
// exercising clients; bounds default to a unit box scaled by the node.
func (b *FakeBridge) Inspect(id string, opts InspectOptions) (*scene.ObjectInspection, error) {
	b.poll()
	b.mu.Lock()
	defer b.mu.Unlock()

	obj := b.lookupLocked(id)
	if obj == nil {
		return nil, nil
	}

	world := obj.Position
	for p := obj.parent; p != nil; p = p.parent {
		world[0] += p.Position[0]
		world[1] += p.Position[1]
		world[2] += p.Position[2]
	}

	inspection := &scene.ObjectInspection{
		ObjectMetadata: *b.metadataLocked(obj),
		WorldMatrix: []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			world[0], world[1], world[2], 1,
		},
		Bounds: &scene.Bounds3{
			Min: scene.Vec3{world[0] - obj.Scale[0]/2, world[1] - obj.Scale[1]/2, world[2] - obj.Scale[2]/2},
			Max: scene.Vec3{world[0] + obj.Scale[0]/2, world[1] + obj.Scale[1]/2, world[2] + obj.Scale[2]/2},
		},
		Material: obj.Material,
		UserData: obj.UserData,
	}
	if obj.VertexCount > 0 || obj.TriangleCount > 0 {
		inspection.Geometry = &scene.GeometryDetail{VertexCount: obj.VertexCount, IndexCount: obj.TriangleCount * 3}
		if opts.IncludeGeometryData {
			inspection.Geometry.Positions = make([]float64, obj.VertexCount*3)
			inspection.Geometry.Indices = make([]int, obj.TriangleCount*3)
		}
	}
	return inspection, nil
}

// FuzzyFind implements Bridge.
func (b *FakeBridge) FuzzyFind(query string, limit int) ([]scene.FuzzyMatch, error) {
	b.poll()
	b.mu.Lock()
	var candidates []scene.FuzzyMatch
	b.walkLocked(func(o *FakeObject) {
		candidates = append(candidates, scene.FuzzyMatch{TestID: o.TestID, Name: o.Name, UUID: o.UUID})
	})
	b.mu.Unlock()
	return scene.RankSuggestions(query, candidates, limit), nil
}

// GetDiagnostics implements Bridge.
func (b *FakeBridge) GetDiagnostics() (*scene.BridgeDiagnostics, error) {
	b.poll()
	b.mu.Lock()
	defer b.mu.Unlock()
	diag := &scene.BridgeDiagnostics{
		Version:      b.version,
		Ready:        b.ready,
		LastError:    b.lastError,
		ObjectCount:  len(b.byUUID),
		CanvasWidth:  b.canvasW,
		CanvasHeight: b.canvasH,
		Renderer:     b.renderer,
		DOMNodeCap:   200,
	}
	b.walkLocked(func(o *FakeObject) {
		switch o.Type {
		case "Mesh":
			diag.MeshCount++
		case "Group":
			diag.GroupCount++
		case "Light":
			diag.LightCount++
		case "Camera":
			diag.CameraCount++
		}
	})
	return diag, nil
}

// GetCameraState implements Bridge.
func (b *FakeBridge) GetCameraState() (*scene.CameraState, error) {
	b.poll()
	return &scene.CameraState{
		Position: scene.Vec3{0, 5, 10},
		FOV:      75,
		Near:     0.1,
		Far:      1000,
		Zoom:     1,
	}, nil
}

func (b *FakeBridge) record(action, target string) error {
	b.poll()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Interactions = append(b.Interactions, InteractionRecord{Action: action, Target: target})
	return nil
}

// Click implements Bridge.
func (b *FakeBridge) Click(id string, opts PointerOptions) error { return b.record("click", id) }

// DoubleClick implements Bridge.
func (b *FakeBridge) DoubleClick(id string, opts PointerOptions) error {
	return b.record("doubleClick", id)
}

// ContextMenu implements Bridge.
func (b *FakeBridge) ContextMenu(id string, opts PointerOptions) error {
	return b.record("contextMenu", id)
}

// Hover implements Bridge.
func (b *FakeBridge) Hover(id string, opts PointerOptions) error { return b.record("hover", id) }

// Unhover implements Bridge.
func (b *FakeBridge) Unhover(id string) error { return b.record("unhover", id) }

// Drag implements Bridge.
func (b *FakeBridge) Drag(id string, opts DragOptions) error { return b.record("drag", id) }

// Wheel implements Bridge.
func (b *FakeBridge) Wheel(id string, opts WheelOptions) error { return b.record("wheel", id) }

// PointerMiss implements Bridge.
func (b *FakeBridge) PointerMiss() error { return b.record("pointerMiss", "") }

// DrawPath implements Bridge.
func (b *FakeBridge) DrawPath(points []PathPoint) error { return b.record("drawPath", "") }

// Select implements Bridge.
func (b *FakeBridge) Select(id string) error {
	if err := b.record("select", id); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = id
	return nil
}

// ClearSelection implements Bridge.
func (b *FakeBridge) ClearSelection() error {
	if err := b.record("clearSelection", ""); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = ""
	return nil
}

// Selection returns the currently selected id (test helper).
func (b *FakeBridge) Selection() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selection
}

var _ Bridge = (*FakeBridge)(nil)
