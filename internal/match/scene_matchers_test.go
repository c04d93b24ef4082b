package match

import (
	"context"
	"strings"
	"testing"

	"github.com/glassbox3d/scenetest/internal/bridge"
)

func newCountFixture() *bridge.FakeBridge {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{TestID: "wall-north", Name: "wall-north", Type: "Mesh", Visible: true, TriangleCount: 12})
	fake.Add("", bridge.FakeObject{TestID: "wall-south", Name: "wall-south", Type: "Mesh", Visible: false, TriangleCount: 48})
	fake.Add("", bridge.FakeObject{TestID: "sun", Name: "sun", Type: "DirectionalLight", Visible: true})
	return fake
}

func TestObjectCount_Pass(t *testing.T) {
	fake := newCountFixture()

	result := evaluatorOver(fake).ObjectCount(context.Background(), 3, shortOpts())
	if !result.OK() {
		t.Fatalf("expected pass, got %s", result.Message())
	}
	if result.Name != "objectCount" {
		t.Errorf("expected matcher name objectCount, got %s", result.Name)
	}
}

func TestObjectCount_MissingBridgeSentinel(t *testing.T) {
	result := evaluatorOver(nil).ObjectCount(context.Background(), 3, shortOpts())
	if result.OK() {
		t.Fatal("expected failure against a missing bridge")
	}
	if actual, ok := result.Actual.(int); !ok || actual != MissingBridgeAggregate {
		t.Errorf("expected sentinel %d, got %v", MissingBridgeAggregate, result.Actual)
	}
	if !strings.Contains(result.Message(), "-1") {
		t.Errorf("expected sentinel in message, got %q", result.Message())
	}
}

func TestCountByType_MissingBridgeSentinel(t *testing.T) {
	result := evaluatorOver(nil).CountByType(context.Background(), "Mesh", 2, shortOpts())
	if result.OK() {
		t.Fatal("expected failure against a missing bridge")
	}
	if actual, ok := result.Actual.(int); !ok || actual != MissingBridgeAggregate {
		t.Errorf("expected sentinel %d, got %v", MissingBridgeAggregate, result.Actual)
	}
}

func TestTriangleCount_MissingBridgeSentinel(t *testing.T) {
	result := evaluatorOver(nil).TriangleCount(context.Background(), 12, shortOpts())
	if result.OK() {
		t.Fatal("expected failure against a missing bridge")
	}
	if actual, ok := result.Actual.(int); !ok || actual != MissingBridgeAggregate {
		t.Errorf("expected sentinel %d, got %v", MissingBridgeAggregate, result.Actual)
	}
}

func TestTriangleCount_SumsMeshes(t *testing.T) {
	fake := newCountFixture()

	result := evaluatorOver(fake).TriangleCount(context.Background(), 60, shortOpts())
	if !result.OK() {
		t.Fatalf("expected 12+48 triangles to pass, got %s", result.Message())
	}
}

func TestCountByType_Mismatch(t *testing.T) {
	fake := newCountFixture()

	result := evaluatorOver(fake).CountByType(context.Background(), "Mesh", 5, shortOpts())
	if result.OK() {
		t.Fatal("expected mismatch on wrong count")
	}
	if actual, ok := result.Actual.(int); !ok || actual != 2 {
		t.Errorf("expected actual count 2, got %v", result.Actual)
	}
}

func TestAllExist_PatternPass(t *testing.T) {
	fake := newCountFixture()

	result := evaluatorOver(fake).AllExist(context.Background(), nil, "wall-*", shortOpts())
	if !result.OK() {
		t.Fatalf("expected pass, got %s", result.Message())
	}
	if result.Name != "allExist" {
		t.Errorf("expected matcher name allExist, got %s", result.Name)
	}
}

func TestAllExist_EmptyResolvedListFails(t *testing.T) {
	fake := newCountFixture()

	result := evaluatorOver(fake).AllExist(context.Background(), nil, "ghost-*", shortOpts())
	if result.OK() {
		t.Fatal("expected an empty resolved list to fail")
	}
	if !strings.Contains(result.Message(), "empty id list") {
		t.Errorf("expected empty-list detail in message, got %q", result.Message())
	}
}

func TestAllExist_ReportsMissingIDs(t *testing.T) {
	fake := newCountFixture()

	result := evaluatorOver(fake).AllExist(context.Background(), []string{"wall-north", "ghost"}, "", shortOpts())
	if result.OK() {
		t.Fatal("expected failure when one id is missing")
	}
	if !strings.Contains(result.Message(), "1/2 exist") {
		t.Errorf("expected partial count in message, got %q", result.Message())
	}
	if !strings.Contains(result.Message(), "ghost") {
		t.Errorf("expected missing id in message, got %q", result.Message())
	}
}

func TestAllVisible_EmptyResolvedListFails(t *testing.T) {
	fake := newCountFixture()

	result := evaluatorOver(fake).AllVisible(context.Background(), nil, "ghost-*", shortOpts())
	if result.OK() {
		t.Fatal("expected an empty resolved list to fail")
	}
	if !strings.Contains(result.Message(), "empty id list") {
		t.Errorf("expected empty-list detail in message, got %q", result.Message())
	}
}

func TestAllVisible_ReportsHiddenIDs(t *testing.T) {
	fake := newCountFixture()

	result := evaluatorOver(fake).AllVisible(context.Background(), nil, "wall-*", shortOpts())
	if result.OK() {
		t.Fatal("expected failure while wall-south is hidden")
	}
	if !strings.Contains(result.Message(), "1/2 visible") {
		t.Errorf("expected partial count in message, got %q", result.Message())
	}
	if !strings.Contains(result.Message(), "wall-south") {
		t.Errorf("expected hidden id in message, got %q", result.Message())
	}
}

func TestNoneExist_EmptyResolvedListPasses(t *testing.T) {
	fake := newCountFixture()

	result := evaluatorOver(fake).NoneExist(context.Background(), nil, "ghost-*", shortOpts())
	if !result.OK() {
		t.Fatalf("expected trivial pass on an empty resolved list, got %s", result.Message())
	}
}

func TestNoneExist_FailsWhilePresent(t *testing.T) {
	fake := newCountFixture()

	result := evaluatorOver(fake).NoneExist(context.Background(), []string{"wall-north"}, "", shortOpts())
	if result.OK() {
		t.Fatal("expected failure while wall-north exists")
	}
	if !strings.Contains(result.Message(), "wall-north") {
		t.Errorf("expected present id in message, got %q", result.Message())
	}
}
