package fixture

import (
	"context"

	"github.com/glassbox3d/scenetest/internal/bridge"
)

// Every simulated user action waits for its precondition before touching
// the bridge: object-exists for object-targeted actions, bridge-ready for
// scene-wide ones. When the wait fails the action never executes and the
// wait's descriptive error propagates unchanged.

func (f *Fixture) awaitObject(ctx context.Context, id string) error {
	outcome := f.waits.ForObject(ctx, id, f.waitOpts)
	return outcome.Err()
}

func (f *Fixture) awaitBridge(ctx context.Context) error {
	outcome := f.waits.ForBridgeReady(ctx, f.waitOpts)
	return outcome.Err()
}

// Click simulates a click on the object.
func (f *Fixture) Click(ctx context.Context, id string, opts bridge.PointerOptions) error {
	if err := f.awaitObject(ctx, id); err != nil {
		return err
	}
	return f.bridge.Click(id, opts)
}

// DoubleClick simulates a double click on the object.
func (f *Fixture) DoubleClick(ctx context.Context, id string, opts bridge.PointerOptions) error {
	if err := f.awaitObject(ctx, id); err != nil {
		return err
	}
	return f.bridge.DoubleClick(id, opts)
}

// ContextMenu simulates a right-click on the object.
func (f *Fixture) ContextMenu(ctx context.Context, id string, opts bridge.PointerOptions) error {
	if err := f.awaitObject(ctx, id); err != nil {
		return err
	}
	return f.bridge.ContextMenu(id, opts)
}

// Hover moves the simulated pointer onto the object.
func (f *Fixture) Hover(ctx context.Context, id string, opts bridge.PointerOptions) error {
	if err := f.awaitObject(ctx, id); err != nil {
		return err
	}
	return f.bridge.Hover(id, opts)
}

// Unhover moves the simulated pointer off the object.
func (f *Fixture) Unhover(ctx context.Context, id string) error {
	if err := f.awaitObject(ctx, id); err != nil {
		return err
	}
	return f.bridge.Unhover(id)
}

// Drag simulates a pointer drag anchored on the object.
func (f *Fixture) Drag(ctx context.Context, id string, opts bridge.DragOptions) error {
	if err := f.awaitObject(ctx, id); err != nil {
		return err
	}
	return f.bridge.Drag(id, opts)
}

// Wheel simulates a wheel event over the object.
func (f *Fixture) Wheel(ctx context.Context, id string, opts bridge.WheelOptions) error {
	if err := f.awaitObject(ctx, id); err != nil {
		return err
	}
	return f.bridge.Wheel(id, opts)
}

// PointerMiss simulates a pointer event that hits no object.
func (f *Fixture) PointerMiss(ctx context.Context) error {
	if err := f.awaitBridge(ctx); err != nil {
		return err
	}
	return f.bridge.PointerMiss()
}

// DrawPath simulates drawing a freeform path across the canvas.
func (f *Fixture) DrawPath(ctx context.Context, points []bridge.PathPoint) error {
	if err := f.awaitBridge(ctx); err != nil {
		return err
	}
	return f.bridge.DrawPath(points)
}

// Select marks the object as selected in the application.
func (f *Fixture) Select(ctx context.Context, id string) error {
	if err := f.awaitObject(ctx, id); err != nil {
		return err
	}
	return f.bridge.Select(id)
}

// ClearSelection clears the application's selection.
func (f *Fixture) ClearSelection(ctx context.Context) error {
	if err := f.awaitBridge(ctx); err != nil {
		return err
	}
	return f.bridge.ClearSelection()
}
