package scene

import "testing"

func snapshotOf(tree SnapshotNode) *SceneSnapshot {
	s := &SceneSnapshot{Timestamp: 1000, Tree: &tree}
	s.ObjectCount = s.NodeCount()
	return s
}

func TestDiff_NoChanges(t *testing.T) {
	before := snapshotOf(SnapshotNode{
		UUID: "root", Type: "Scene", Visible: true, Scale: Vec3{1, 1, 1},
		Children: []SnapshotNode{
			{UUID: "a", Name: "cube", Type: "Mesh", Visible: true, Scale: Vec3{1, 1, 1}},
		},
	})
	after := snapshotOf(*before.Tree)

	diff := Diff(before, after)
	if !diff.Empty() {
		t.Errorf("expected empty diff, got %+v", diff)
	}
}

func TestDiff_Added(t *testing.T) {
	before := snapshotOf(SnapshotNode{
		UUID: "root", Type: "Scene", Visible: true,
		Children: []SnapshotNode{
			{UUID: "a", Name: "cube", Type: "Mesh", Visible: true},
		},
	})
	after := snapshotOf(SnapshotNode{
		UUID: "root", Type: "Scene", Visible: true,
		Children: []SnapshotNode{
			{UUID: "a", Name: "cube", Type: "Mesh", Visible: true},
			{UUID: "b", Name: "sphere", Type: "Mesh", Visible: true},
		},
	})

	diff := Diff(before, after)
	if len(diff.Added) != 1 {
		t.Fatalf("expected 1 added node, got %d", len(diff.Added))
	}
	if diff.Added[0].UUID != "b" {
		t.Errorf("expected uuid b, got %s", diff.Added[0].UUID)
	}
	if len(diff.Removed) != 0 || len(diff.Changed) != 0 {
		t.Errorf("expected no removals or changes, got %+v", diff)
	}
}

func TestDiff_AddedSubtreeReportsEachNode(t *testing.T) {
	before := snapshotOf(SnapshotNode{UUID: "root", Type: "Scene", Visible: true})
	after := snapshotOf(SnapshotNode{
		UUID: "root", Type: "Scene", Visible: true,
		Children: []SnapshotNode{
			{
				UUID: "group", Name: "props", Type: "Group", Visible: true,
				Children: []SnapshotNode{
					{UUID: "lamp", Name: "lamp", Type: "PointLight", Visible: true},
				},
			},
		},
	})

	diff := Diff(before, after)
	if len(diff.Added) != 2 {
		t.Fatalf("expected 2 added nodes (group + child), got %d", len(diff.Added))
	}
	// Pre-order: parent before child.
	if diff.Added[0].UUID != "group" || diff.Added[1].UUID != "lamp" {
		t.Errorf("expected pre-order [group lamp], got [%s %s]", diff.Added[0].UUID, diff.Added[1].UUID)
	}
	if len(diff.Added[0].Children) != 0 {
		t.Errorf("added entries must be flattened, got %d children", len(diff.Added[0].Children))
	}
}

func TestDiff_Removed(t *testing.T) {
	before := snapshotOf(SnapshotNode{
		UUID: "root", Type: "Scene", Visible: true,
		Children: []SnapshotNode{
			{UUID: "a", Name: "cube", Type: "Mesh", Visible: true},
			{UUID: "b", Name: "sphere", Type: "Mesh", Visible: true},
		},
	})
	after := snapshotOf(SnapshotNode{
		UUID: "root", Type: "Scene", Visible: true,
		Children: []SnapshotNode{
			{UUID: "a", Name: "cube", Type: "Mesh", Visible: true},
		},
	})

	diff := Diff(before, after)
	if len(diff.Removed) != 1 {
		t.Fatalf("expected 1 removed node, got %d", len(diff.Removed))
	}
	if diff.Removed[0].UUID != "b" {
		t.Errorf("expected uuid b, got %s", diff.Removed[0].UUID)
	}
}

func TestDiff_ChangedTransform(t *testing.T) {
	before := snapshotOf(SnapshotNode{
		UUID: "root", Type: "Scene", Visible: true,
		Children: []SnapshotNode{
			{UUID: "a", Name: "cube", Type: "Mesh", Visible: true, Position: Vec3{0, 0, 0}},
		},
	})
	after := snapshotOf(SnapshotNode{
		UUID: "root", Type: "Scene", Visible: true,
		Children: []SnapshotNode{
			{UUID: "a", Name: "cube", Type: "Mesh", Visible: false, Position: Vec3{1, 2, 3}},
		},
	})

	diff := Diff(before, after)
	changes := diff.Changed["a"]
	if len(changes) != 2 {
		t.Fatalf("expected 2 property changes, got %d: %+v", len(changes), changes)
	}
	byProp := map[string]PropertyChange{}
	for _, c := range changes {
		byProp[c.Property] = c
	}
	if byProp["visible"].Old != "true" || byProp["visible"].New != "false" {
		t.Errorf("unexpected visible change %+v", byProp["visible"])
	}
	if byProp["position"].New != "[1, 2, 3]" {
		t.Errorf("expected position [1, 2, 3], got %s", byProp["position"].New)
	}
}

func TestDiff_ReparentingIsNotAddRemove(t *testing.T) {
	before := snapshotOf(SnapshotNode{
		UUID: "root", Type: "Scene", Visible: true,
		Children: []SnapshotNode{
			{
				UUID: "group", Name: "props", Type: "Group", Visible: true,
				Children: []SnapshotNode{
					{UUID: "a", Name: "cube", Type: "Mesh", Visible: true},
				},
			},
		},
	})
	// The cube moves from the group to the scene root. Matched by uuid,
	// the move must not surface as an add plus a remove.
	after := snapshotOf(SnapshotNode{
		UUID: "root", Type: "Scene", Visible: true,
		Children: []SnapshotNode{
			{UUID: "group", Name: "props", Type: "Group", Visible: true},
			{UUID: "a", Name: "cube", Type: "Mesh", Visible: true},
		},
	})

	diff := Diff(before, after)
	if len(diff.Added) != 0 || len(diff.Removed) != 0 {
		t.Errorf("expected reparenting to produce no added/removed, got %+v", diff)
	}
}

func TestDiff_RenameAndRetype(t *testing.T) {
	before := snapshotOf(SnapshotNode{UUID: "a", Name: "old", Type: "Mesh", TestID: "before", Visible: true})
	after := snapshotOf(SnapshotNode{UUID: "a", Name: "new", Type: "Line", TestID: "after", Visible: true})

	diff := Diff(before, after)
	changes := diff.Changed["a"]
	if len(changes) != 3 {
		t.Fatalf("expected name, type and testId changes, got %+v", changes)
	}
	if changes[0].Property != "name" || changes[1].Property != "type" || changes[2].Property != "testId" {
		t.Errorf("unexpected change order %+v", changes)
	}
}
