package wait

import (
	"context"
	"fmt"
	"strings"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/scene"
)

// sceneReady succeeds once the object count is identical and positive
// across stableChecks consecutive polls.
type sceneReady struct {
	stableChecks int
	lastCount    int
	streak       int
}

func (c *sceneReady) name() string { return "scene ready (stable object count)" }

func (c *sceneReady) check(b bridge.Bridge) (bool, error) {
	count, err := b.GetCount()
	if err != nil {
		return false, err
	}
	if count > 0 && count == c.lastCount {
		c.streak++
	} else {
		c.streak = 1
	}
	c.lastCount = count
	return count > 0 && c.streak >= c.stableChecks, nil
}

func (c *sceneReady) lastObserved() string {
	return fmt.Sprintf("object count %d, stable for %d consecutive polls", c.lastCount, c.streak)
}

func (c *sceneReady) payload(o *Outcome) { o.Count = c.lastCount }

// ForSceneReady waits until the scene has settled to a stable, non-empty
// object count.
func (e *Engine) ForSceneReady(ctx context.Context, opts Options) Outcome {
	opts = opts.withDefaults()
	return e.run(ctx, &sceneReady{stableChecks: opts.StableChecks}, opts, "")
}

// bridgeReady succeeds on the first poll where the bridge reports
// ready=true; the shared skeleton already gates check on readiness.
type bridgeReady struct{}

func (bridgeReady) name() string { return "bridge to attach and become ready" }
func (bridgeReady) check(bridge.Bridge) (bool, error) { return true, nil }
func (bridgeReady) lastObserved() string { return "bridge not ready" }

// ForBridgeReady waits until the bridge has attached and reports ready.
func (e *Engine) ForBridgeReady(ctx context.Context, opts Options) Outcome {
	return e.run(ctx, bridgeReady{}, opts, "")
}

// objectExists succeeds once a testId-or-uuid lookup resolves.
type objectExists struct {
	id string
}

func (c *objectExists) name() string { return fmt.Sprintf("object %q to exist", c.id) }

func (c *objectExists) check(b bridge.Bridge) (bool, error) {
	meta, err := b.GetByTestID(c.id)
	if err != nil {
		return false, err
	}
	if meta == nil {
		meta, err = b.GetByUUID(c.id)
		if err != nil {
			return false, err
		}
	}
	return meta != nil, nil
}

func (c *objectExists) lastObserved() string { return "object absent" }

// ForObject waits until the object resolves by testId, then by uuid.
func (e *Engine) ForObject(ctx context.Context, id string, opts Options) Outcome {
	return e.run(ctx, &objectExists{id: id}, opts, id)
}

// objectGone is the inverse of objectExists.
type objectGone struct {
	exists objectExists
}

func (c *objectGone) name() string { return fmt.Sprintf("object %q to be removed", c.exists.id) }

func (c *objectGone) check(b bridge.Bridge) (bool, error) {
	present, err := c.exists.check(b)
	if err != nil {
		return false, err
	}
	return !present, nil
}

func (c *objectGone) lastObserved() string { return "object still present" }

// ForObjectGone waits until the object no longer resolves.
func (e *Engine) ForObjectGone(ctx context.Context, id string, opts Options) Outcome {
	return e.run(ctx, &objectGone{exists: objectExists{id: id}}, opts, id)
}

// NewObjectFilter narrows new-object detection. Zero values match any
// new node.
type NewObjectFilter struct {
	Type         string
	NameContains string
}

func (f NewObjectFilter) String() string {
	var parts []string
	if f.Type != "" {
		parts = append(parts, "type="+f.Type)
	}
	if f.NameContains != "" {
		parts = append(parts, fmt.Sprintf("name~%q", f.NameContains))
	}
	if len(parts) == 0 {
		return "any"
	}
	return strings.Join(parts, " ")
}

// newObject succeeds on the first poll whose snapshot contains at least
// one node outside the baseline uuid set matching the filter. Matches are
// reported in pre-order tree-walk order.
type newObject struct {
	baseline map[string]bool
	filter   NewObjectFilter
	seen     int
	matches  []string
}

func (c *newObject) name() string {
	return fmt.Sprintf("new object (%s) beyond %d baseline uuids", c.filter, len(c.baseline))
}

func (c *newObject) check(b bridge.Bridge) (bool, error) {
	snapshot, err := b.Snapshot()
	if err != nil {
		return false, err
	}
	c.matches = c.matches[:0]
	c.seen = 0
	snapshot.Walk(func(n *scene.SnapshotNode) bool {
		c.seen++
		if c.baseline[n.UUID] {
			return true
		}
		if c.filter.Type != "" && n.Type != c.filter.Type {
			return true
		}
		if c.filter.NameContains != "" && !strings.Contains(n.Name, c.filter.NameContains) {
			return true
		}
		c.matches = append(c.matches, n.UUID)
		return true
	})
	return len(c.matches) > 0, nil
}

func (c *newObject) lastObserved() string {
	return fmt.Sprintf("%d nodes in tree, none new and matching", c.seen)
}

func (c *newObject) payload(o *Outcome) {
	o.Count = len(c.matches)
	o.NewUUIDs = append([]string(nil), c.matches...)
}

// ForNewObject captures a baseline of every uuid currently in the tree,
// then waits for a node outside that baseline matching the filter. The
// baseline is captured before polling starts; if the bridge is absent or
// unreadable at call time the baseline is empty, so any node counts as
// new.
func (e *Engine) ForNewObject(ctx context.Context, filter NewObjectFilter, opts Options) Outcome {
	baseline := map[string]bool{}
	if e.bridge != nil {
		if snapshot, err := e.bridge.Snapshot(); err == nil {
			baseline = snapshot.UUIDSet()
		}
	}
	return e.run(ctx, &newObject{baseline: baseline, filter: filter}, opts, "")
}

// idle succeeds once the serialized snapshot is byte-identical and
// non-empty across idleFrames consecutive frame callbacks. Any change
// resets the counter to zero.
type idle struct {
	idleFrames int
	last       string
	streak     int
}

func (c *idle) name() string { return fmt.Sprintf("scene idle for %d consecutive frames", c.idleFrames) }

func (c *idle) check(b bridge.Bridge) (bool, error) {
	snapshot, err := b.Snapshot()
	if err != nil {
		return false, err
	}
	serialized := snapshot.Serialize()
	if serialized != "" && serialized == c.last {
		c.streak++
	} else {
		c.streak = 0
	}
	c.last = serialized
	return c.streak >= c.idleFrames, nil
}

func (c *idle) lastObserved() string {
	return fmt.Sprintf("%d consecutive identical frames", c.streak)
}

// ForIdle waits until the scene stops changing between frames.
func (e *Engine) ForIdle(ctx context.Context, opts Options) Outcome {
	opts = opts.withDefaults()
	return e.run(ctx, &idle{idleFrames: opts.IdleFrames}, opts, "")
}
