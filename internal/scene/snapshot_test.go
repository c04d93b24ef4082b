package scene

import "testing"

func treeFixture() *SceneSnapshot {
	return snapshotOf(SnapshotNode{
		UUID: "root", Type: "Scene", Visible: true, Scale: Vec3{1, 1, 1},
		Children: []SnapshotNode{
			{
				UUID: "g", Name: "props", Type: "Group", Visible: true, Scale: Vec3{1, 1, 1},
				Children: []SnapshotNode{
					{UUID: "c1", TestID: "cube", Name: "cube", Type: "Mesh", Visible: true, Scale: Vec3{1, 1, 1}},
				},
			},
			{UUID: "f", Name: "floor", Type: "Mesh", Visible: true, Scale: Vec3{1, 1, 1}},
		},
	})
}

func TestWalk_PreOrder(t *testing.T) {
	var order []string
	treeFixture().Walk(func(n *SnapshotNode) bool {
		order = append(order, n.UUID)
		return true
	})
	want := []string{"root", "g", "c1", "f"}
	if len(order) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestWalk_StopsOnFalse(t *testing.T) {
	visited := 0
	treeFixture().Walk(func(n *SnapshotNode) bool {
		visited++
		return n.UUID != "g"
	})
	if visited != 2 {
		t.Errorf("expected walk to stop after g, visited %d", visited)
	}
}

func TestWalk_NilSnapshotIsSafe(t *testing.T) {
	var s *SceneSnapshot
	s.Walk(func(*SnapshotNode) bool {
		t.Fatal("visit must not run for a nil snapshot")
		return false
	})
}

func TestIndex_CoversAllNodes(t *testing.T) {
	index := treeFixture().Index()
	if len(index) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(index))
	}
	if index["c1"] == nil || index["c1"].TestID != "cube" {
		t.Errorf("expected c1 indexed with its testId, got %+v", index["c1"])
	}
}

func TestUUIDSet(t *testing.T) {
	set := treeFixture().UUIDSet()
	for _, id := range []string{"root", "g", "c1", "f"} {
		if !set[id] {
			t.Errorf("expected %s in set", id)
		}
	}
	if set["missing"] {
		t.Error("unexpected uuid in set")
	}
}

func TestSerialize_DeterministicAndTimestampFree(t *testing.T) {
	a := treeFixture()
	b := treeFixture()
	b.Timestamp = a.Timestamp + 5000

	if a.Serialize() != b.Serialize() {
		t.Error("expected identical trees to serialize identically regardless of timestamp")
	}
}

func TestSerialize_SensitiveToTransform(t *testing.T) {
	a := treeFixture()
	b := treeFixture()
	b.Tree.Children[0].Children[0].Position = Vec3{0, 0.001, 0}

	if a.Serialize() == b.Serialize() {
		t.Error("expected a moved node to change the serialization")
	}
}

func TestSerialize_EmptySnapshot(t *testing.T) {
	if (&SceneSnapshot{}).Serialize() != "" {
		t.Error("expected empty serialization for a snapshot without a tree")
	}
}

func TestMarshalSnapshot_RoundTrip(t *testing.T) {
	original := treeFixture()
	data, err := MarshalSnapshot(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	decoded, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Serialize() != original.Serialize() {
		t.Error("expected round trip to preserve the tree")
	}
	if decoded.Timestamp != original.Timestamp {
		t.Errorf("expected timestamp %d, got %d", original.Timestamp, decoded.Timestamp)
	}
}

func TestUnmarshalSnapshot_RejectsMissingTree(t *testing.T) {
	if _, err := UnmarshalSnapshot([]byte(`{"ts": 1, "objectCount": 0}`)); err == nil {
		t.Error("expected an error for a payload without a tree")
	}
	if _, err := UnmarshalSnapshot([]byte(`not json`)); err == nil {
		t.Error("expected an error for invalid json")
	}
}

func TestNodeCount(t *testing.T) {
	if n := treeFixture().NodeCount(); n != 4 {
		t.Errorf("expected 4 nodes, got %d", n)
	}
}
