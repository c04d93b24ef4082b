package query

import (
	"testing"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/scene"
)

func TestGetObject_TestIDBeforeUUID(t *testing.T) {
	fake := bridge.NewFakeBridge()
	uuid := fake.Add("", bridge.FakeObject{TestID: "player", Name: "player", Type: "Mesh", Visible: true})

	s := New("app", fake)
	byTestID, err := s.GetObject("player")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byTestID == nil || byTestID.UUID != uuid {
		t.Fatalf("expected resolution by testId, got %+v", byTestID)
	}

	byUUID, err := s.GetObject(uuid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byUUID == nil || byUUID.TestID != "player" {
		t.Errorf("expected fallback resolution by uuid, got %+v", byUUID)
	}
}

func TestGetObject_MissReturnsNilNil(t *testing.T) {
	s := New("app", bridge.NewFakeBridge())
	meta, err := s.GetObject("absent")
	if err != nil {
		t.Fatalf("a miss must not be an error, got %v", err)
	}
	if meta != nil {
		t.Errorf("expected nil metadata, got %+v", meta)
	}
}

func TestGetObject_NilBridge(t *testing.T) {
	s := New("app", nil)
	meta, err := s.GetObject("anything")
	if err != nil || meta != nil {
		t.Errorf("expected nil, nil for an absent bridge, got %+v, %v", meta, err)
	}
}

func TestGetObjects_EveryKeyPresent(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{TestID: "a", Name: "a", Type: "Mesh", Visible: true})

	s := New("app", fake)
	out, err := s.GetObjects([]string{"a", "missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(out))
	}
	if out["a"] == nil {
		t.Error("expected a to resolve")
	}
	if meta, ok := out["missing"]; !ok || meta != nil {
		t.Errorf("expected missing mapped to nil, got %+v present=%t", meta, ok)
	}
}

func TestGetObjects_NilBridgeMapsAllNil(t *testing.T) {
	s := New("app", nil)
	out, err := s.GetObjects([]string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range []string{"a", "b"} {
		if meta, ok := out[id]; !ok || meta != nil {
			t.Errorf("expected %s mapped to nil, got %+v", id, meta)
		}
	}
}

func TestWorldPosition_FromWorldMatrix(t *testing.T) {
	fake := bridge.NewFakeBridge()
	group := fake.Add("", bridge.FakeObject{Name: "group", Type: "Group", Visible: true, Position: scene.Vec3{10, 0, 0}})
	fake.Add(group, bridge.FakeObject{TestID: "child", Name: "child", Type: "Mesh", Visible: true, Position: scene.Vec3{1, 2, 3}})

	s := New("app", fake)
	pos, err := s.WorldPosition("child")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos == nil {
		t.Fatal("expected a world position")
	}
	if (*pos)[0] != 11 || (*pos)[1] != 2 || (*pos)[2] != 3 {
		t.Errorf("expected world position [11 2 3], got %v", *pos)
	}
}

func TestWorldPosition_MissingObject(t *testing.T) {
	s := New("app", bridge.NewFakeBridge())
	pos, err := s.WorldPosition("nope")
	if err != nil || pos != nil {
		t.Errorf("expected nil, nil on miss, got %v, %v", pos, err)
	}
}

func TestResolvePattern_OverLiveSnapshot(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{TestID: "wall-1", Name: "wall-1", Type: "Mesh", Visible: true})
	fake.Add("", bridge.FakeObject{TestID: "wall-2", Name: "wall-2", Type: "Mesh", Visible: true})
	fake.Add("", bridge.FakeObject{TestID: "floor", Name: "floor", Type: "Mesh", Visible: true})

	s := New("app", fake)
	matches, err := s.ResolvePattern("wall-*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(matches))
	}
}

func TestResolveIDs_ExplicitListWins(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{TestID: "wall-1", Name: "wall-1", Type: "Mesh", Visible: true})

	s := New("app", fake)
	ids, err := s.ResolveIDs([]string{"a", "b"}, "wall-*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" {
		t.Errorf("expected the explicit list untouched, got %v", ids)
	}
}

func TestResolveIDs_PatternFallback(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{TestID: "wall-1", Name: "wall-1", Type: "Mesh", Visible: true})

	s := New("app", fake)
	ids, err := s.ResolveIDs(nil, "wall-*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != "wall-1" {
		t.Errorf("expected [wall-1], got %v", ids)
	}
}

func TestSuggest_NeverFails(t *testing.T) {
	if matches := New("app", nil).Suggest("ghost"); matches != nil {
		t.Errorf("expected nil suggestions without a bridge, got %v", matches)
	}

	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{TestID: "ghost-1", Name: "ghost-1", Type: "Mesh", Visible: true})
	if matches := New("app", fake).Suggest("ghost"); len(matches) != 1 {
		t.Errorf("expected 1 suggestion, got %v", matches)
	}
}

func TestDiagnostics_NilBridge(t *testing.T) {
	if diag := New("app", nil).Diagnostics(); diag != nil {
		t.Errorf("expected nil diagnostics, got %+v", diag)
	}
}
