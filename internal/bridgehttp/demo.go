package bridgehttp

import (
	"log/slog"
	"time"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/scene"
)

// DemoFeeder drives the relay from an in-process fake scene so the CLI can
// be exercised without a real application attached. It pushes state on a
// fixed cadence, animates one object so idle waits have signal, and acks
// every brokered command.
type DemoFeeder struct {
	target string
	mirror *Mirror
	broker *Broker
	fake   *bridge.FakeBridge
	stop   chan struct{}
	done   chan struct{}
}

// StartDemo populates a small scene and begins feeding the mirror.
func StartDemo(target string, mirror *Mirror, broker *Broker) *DemoFeeder {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{
		TestID: "demo-cube", Name: "Cube", Type: "Mesh", Visible: true,
		GeometryType: "BoxGeometry", MaterialType: "MeshStandardMaterial",
		VertexCount: 24, TriangleCount: 12,
		Position: scene.Vec3{0, 1, 0}, Scale: scene.Vec3{1, 1, 1},
		Material: &scene.MaterialDetail{Type: "MeshStandardMaterial", Color: "#ff8800", Opacity: 1},
	})
	fake.Add("", bridge.FakeObject{
		TestID: "demo-floor", Name: "Floor", Type: "Mesh", Visible: true,
		GeometryType: "PlaneGeometry", MaterialType: "MeshBasicMaterial",
		VertexCount: 4, TriangleCount: 2,
		Scale:    scene.Vec3{10, 10, 1},
		Material: &scene.MaterialDetail{Type: "MeshBasicMaterial", Color: "#333333", Opacity: 1},
	})
	groupUUID := fake.Add("", bridge.FakeObject{
		Name: "props", Type: "Group", Visible: true, Scale: scene.Vec3{1, 1, 1},
	})
	fake.Add(groupUUID, bridge.FakeObject{
		TestID: "demo-lamp", Name: "Lamp", Type: "PointLight", Visible: true,
		Position: scene.Vec3{2, 3, 2}, Scale: scene.Vec3{1, 1, 1},
	})

	d := &DemoFeeder{
		target: target,
		mirror: mirror,
		broker: broker,
		fake:   fake,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Stop halts the feeder and waits for its goroutine to exit.
func (d *DemoFeeder) Stop() {
	close(d.stop)
	<-d.done
}

func (d *DemoFeeder) run() {
	defer close(d.done)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	angle := 0.0
	for {
		select {
		case <-d.stop:
			d.mirror.Remove(d.target)
			return
		case <-ticker.C:
			angle += 0.05
			d.spin(angle)
			d.applyCommands()
			d.push()
		}
	}
}

func (d *DemoFeeder) spin(angle float64) {
	snap, err := d.fake.Snapshot()
	if err != nil || snap == nil {
		return
	}
	snap.Walk(func(n *scene.SnapshotNode) bool {
		if n.TestID == "demo-cube" {
			d.fake.Mutate(n.UUID, func(o *bridge.FakeObject) {
				o.Rotation[1] = angle
			})
			return false
		}
		return true
	})
}

func (d *DemoFeeder) applyCommands() {
	for _, cmd := range d.broker.Poll(d.target) {
		if err := d.dispatch(cmd); err != nil {
			d.broker.Ack(d.target, CommandAck{CommandID: cmd.ID, Error: err.Error()})
			continue
		}
		d.broker.Ack(d.target, CommandAck{CommandID: cmd.ID, Success: true})
	}
}

func (d *DemoFeeder) dispatch(cmd Command) error {
	switch cmd.Action {
	case ActionClick:
		return d.fake.Click(cmd.ObjectID, bridge.PointerOptions{})
	case ActionDoubleClick:
		return d.fake.DoubleClick(cmd.ObjectID, bridge.PointerOptions{})
	case ActionContextMenu:
		return d.fake.ContextMenu(cmd.ObjectID, bridge.PointerOptions{})
	case ActionHover:
		return d.fake.Hover(cmd.ObjectID, bridge.PointerOptions{})
	case ActionUnhover:
		return d.fake.Unhover(cmd.ObjectID)
	case ActionDrag:
		return d.fake.Drag(cmd.ObjectID, bridge.DragOptions{})
	case ActionWheel:
		return d.fake.Wheel(cmd.ObjectID, bridge.WheelOptions{})
	case ActionPointerMiss:
		return d.fake.PointerMiss()
	case ActionDrawPath:
		return d.fake.DrawPath(nil)
	case ActionSelect:
		return d.fake.Select(cmd.ObjectID)
	case ActionClearSelection:
		return d.fake.ClearSelection()
	default:
		slog.Warn("demo feeder ignoring unknown action", "action", cmd.Action)
		return nil
	}
}

func (d *DemoFeeder) push() {
	snap, err := d.fake.Snapshot()
	if err != nil {
		return
	}

	payload := StatePayload{Ready: true, Snapshot: snap}
	payload.Inspections = make(map[string]*scene.ObjectInspection)
	if snap != nil {
		snap.Walk(func(n *scene.SnapshotNode) bool {
			meta, err := d.fake.GetByUUID(n.UUID)
			if err == nil && meta != nil {
				payload.Objects = append(payload.Objects, *meta)
			}
			if insp, err := d.fake.Inspect(n.UUID, bridge.InspectOptions{}); err == nil && insp != nil {
				payload.Inspections[n.UUID] = insp
			}
			return true
		})
	}
	if diag, err := d.fake.GetDiagnostics(); err == nil {
		payload.Diagnostics = diag
	}
	if cam, err := d.fake.GetCameraState(); err == nil {
		payload.Camera = cam
	}

	d.mirror.Upsert(d.target, payload, time.Now().UTC())
}
