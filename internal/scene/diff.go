package scene

import "fmt"

// PropertyChange records one differing field on a node present in both
// snapshots.
type PropertyChange struct {
	Property string `yaml:"property" json:"property"`
	Old      string `yaml:"old"      json:"old"`
	New      string `yaml:"new"      json:"new"`
}

// SceneDiff is the result of comparing two snapshots. Nodes are matched
// strictly by uuid, never by tree position, so reparenting does not
// produce spurious added/removed entries.
type SceneDiff struct {
	Added   []SnapshotNode              `yaml:"added,omitempty"   json:"added,omitempty"`
	Removed []SnapshotNode              `yaml:"removed,omitempty" json:"removed,omitempty"`
	Changed map[string][]PropertyChange `yaml:"changed,omitempty" json:"changed,omitempty"`
}

// Empty reports whether the diff contains no changes at all.
func (d SceneDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff compares two snapshots structurally. Added nodes are present only
// in after, removed only in before, and nodes present in both contribute
// one change entry per differing field. Comparison here is exact;
// tolerance is an assertion-layer concern.
func Diff(before, after *SceneSnapshot) SceneDiff {
	beforeIndex := before.Index()
	afterIndex := after.Index()

	var diff SceneDiff

	// Preserve pre-order for added nodes so output is deterministic.
	after.Walk(func(n *SnapshotNode) bool {
		prev, existed := beforeIndex[n.UUID]
		if !existed {
			added := *n
			added.Children = nil
			diff.Added = append(diff.Added, added)
			return true
		}
		if changes := diffNodeProperties(prev, n); len(changes) > 0 {
			if diff.Changed == nil {
				diff.Changed = make(map[string][]PropertyChange)
			}
			diff.Changed[n.UUID] = changes
		}
		return true
	})

	before.Walk(func(n *SnapshotNode) bool {
		if _, exists := afterIndex[n.UUID]; !exists {
			removed := *n
			removed.Children = nil
			diff.Removed = append(diff.Removed, removed)
		}
		return true
	})

	return diff
}

// diffNodeProperties compares the identity and transform fields of two
// nodes matched by uuid.
func diffNodeProperties(prev, curr *SnapshotNode) []PropertyChange {
	var changes []PropertyChange

	appendChange := func(property, old, new string) {
		changes = append(changes, PropertyChange{Property: property, Old: old, New: new})
	}

	if prev.Name != curr.Name {
		appendChange("name", prev.Name, curr.Name)
	}
	if prev.Type != curr.Type {
		appendChange("type", prev.Type, curr.Type)
	}
	if prev.TestID != curr.TestID {
		appendChange("testId", prev.TestID, curr.TestID)
	}
	if prev.Visible != curr.Visible {
		appendChange("visible", fmt.Sprintf("%t", prev.Visible), fmt.Sprintf("%t", curr.Visible))
	}
	if prev.Position != curr.Position {
		appendChange("position", formatVec(prev.Position), formatVec(curr.Position))
	}
	if prev.Rotation != curr.Rotation {
		appendChange("rotation", formatVec(prev.Rotation), formatVec(curr.Rotation))
	}
	if prev.Scale != curr.Scale {
		appendChange("scale", formatVec(prev.Scale), formatVec(curr.Scale))
	}

	return changes
}

func formatVec(v Vec3) string {
	return fmt.Sprintf("[%g, %g, %g]", v[0], v[1], v[2])
}
