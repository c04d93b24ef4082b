package wait

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glassbox3d/scenetest/internal/bridge"
)

// fakeClock advances its reading by the requested duration on every
// Sleep, so poll loops run instantly while the deadline math stays real.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testEngine(b bridge.Bridge) *Engine {
	return NewEngine("app", b, newFakeClock())
}

func TestForSceneReady_StableCount(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{Name: "floor", Type: "Mesh", Visible: true})
	fake.Add("", bridge.FakeObject{Name: "cube", Type: "Mesh", Visible: true})

	outcome := testEngine(fake).ForSceneReady(context.Background(), Options{StableChecks: 3})
	if !outcome.OK() {
		t.Fatalf("expected success, got %s: %v", outcome.State, outcome.Err())
	}
	if outcome.Count != 2 {
		t.Errorf("expected stable count 2, got %d", outcome.Count)
	}
	if outcome.Polls != 3 {
		t.Errorf("expected 3 polls for 3 stable checks, got %d", outcome.Polls)
	}
}

func TestForSceneReady_StreakResetsWhileLoading(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{Name: "floor", Type: "Mesh", Visible: true})

	// Each loop iteration calls Ready then GetCount, so every second
	// bridge call is one poll of the count. Keep adding objects for the
	// first few polls; the streak must restart each time the count moves.
	added := 0
	fake.BeforePoll = func(poll int) {
		if poll%2 == 1 && added < 3 {
			added++
			fake.Add("", bridge.FakeObject{Name: "prop", Type: "Mesh", Visible: true})
		}
	}

	outcome := testEngine(fake).ForSceneReady(context.Background(), Options{StableChecks: 3})
	if !outcome.OK() {
		t.Fatalf("expected success once count settled, got %s: %v", outcome.State, outcome.Err())
	}
	if outcome.Count != 4 {
		t.Errorf("expected final count 4, got %d", outcome.Count)
	}
	if outcome.Polls < 5 {
		t.Errorf("expected streak resets to cost extra polls, got %d", outcome.Polls)
	}
}

func TestForSceneReady_EmptySceneTimesOut(t *testing.T) {
	fake := bridge.NewFakeBridge()

	outcome := testEngine(fake).ForSceneReady(context.Background(), Options{Timeout: time.Second})
	if outcome.State != TimedOut {
		t.Fatalf("expected timeout on empty scene, got %s", outcome.State)
	}
	var timeoutErr *TimeoutError
	if !errors.As(outcome.Err(), &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %T", outcome.Err())
	}
	if !strings.Contains(timeoutErr.Error(), "object count 0") {
		t.Errorf("expected last observed count in message, got %q", timeoutErr.Error())
	}
}

func TestForBridgeReady_FailsFastOnInitError(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.SetReady(false, "WebGL context creation failed")

	outcome := testEngine(fake).ForBridgeReady(context.Background(), Options{})
	if outcome.State != FailedFast {
		t.Fatalf("expected fail-fast, got %s", outcome.State)
	}
	if outcome.Polls != 1 {
		t.Errorf("expected a single poll before failing fast, got %d", outcome.Polls)
	}
	var initErr *BridgeInitError
	if !errors.As(outcome.Err(), &initErr) {
		t.Fatalf("expected BridgeInitError, got %T", outcome.Err())
	}
	if initErr.Reason != "WebGL context creation failed" {
		t.Errorf("unexpected reason %q", initErr.Reason)
	}
}

func TestForBridgeReady_WaitsOutNotReady(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.SetReady(false, "")
	fake.BeforePoll = func(poll int) {
		if poll == 4 {
			fake.SetReady(true, "")
		}
	}

	outcome := testEngine(fake).ForBridgeReady(context.Background(), Options{})
	if !outcome.OK() {
		t.Fatalf("expected success once ready, got %s: %v", outcome.State, outcome.Err())
	}
	if outcome.Polls < 4 {
		t.Errorf("expected at least 4 polls, got %d", outcome.Polls)
	}
}

func TestForBridgeReady_MissingBridge(t *testing.T) {
	outcome := testEngine(nil).ForBridgeReady(context.Background(), Options{Timeout: 2 * time.Second})
	if outcome.State != TimedOut {
		t.Fatalf("expected timeout with no bridge, got %s", outcome.State)
	}
	var missing *BridgeMissingError
	if !errors.As(outcome.Err(), &missing) {
		t.Fatalf("expected BridgeMissingError, got %T", outcome.Err())
	}
	if missing.Target != "app" {
		t.Errorf("expected target app, got %q", missing.Target)
	}
	if !strings.Contains(missing.Error(), "never attached") {
		t.Errorf("unexpected message %q", missing.Error())
	}
}

// flakyBridge fails Ready with a transport error for the first few calls.
type flakyBridge struct {
	*bridge.FakeBridge
	failures int
	calls    int
}

func (b *flakyBridge) Ready() (bool, string, error) {
	b.calls++
	if b.calls <= b.failures {
		return false, "", errors.New("connection refused")
	}
	return b.FakeBridge.Ready()
}

func TestRun_TransportErrorKeepsPolling(t *testing.T) {
	fake := bridge.NewFakeBridge()
	flaky := &flakyBridge{FakeBridge: fake, failures: 3}

	outcome := testEngine(flaky).ForBridgeReady(context.Background(), Options{})
	if !outcome.OK() {
		t.Fatalf("expected success after transient errors, got %s: %v", outcome.State, outcome.Err())
	}
	if outcome.Polls != 4 {
		t.Errorf("expected 4 polls (3 failures then success), got %d", outcome.Polls)
	}
}

func TestForObject_AppearsLate(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{Name: "floor", Type: "Mesh", Visible: true})
	var once sync.Once
	fake.BeforePoll = func(poll int) {
		if poll >= 6 {
			once.Do(func() {
				fake.Add("", bridge.FakeObject{TestID: "player", Name: "player", Type: "Mesh", Visible: true})
			})
		}
	}

	outcome := testEngine(fake).ForObject(context.Background(), "player", Options{})
	if !outcome.OK() {
		t.Fatalf("expected object to resolve, got %s: %v", outcome.State, outcome.Err())
	}
	if outcome.Polls < 2 {
		t.Errorf("expected more than one poll, got %d", outcome.Polls)
	}
}

func TestForObject_ResolvesByUUID(t *testing.T) {
	fake := bridge.NewFakeBridge()
	id := fake.Add("", bridge.FakeObject{Name: "anonymous", Type: "Mesh", Visible: true})

	outcome := testEngine(fake).ForObject(context.Background(), id, Options{})
	if !outcome.OK() {
		t.Fatalf("expected uuid fallback to resolve, got %s: %v", outcome.State, outcome.Err())
	}
}

func TestForObject_NotFoundWithSuggestions(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{TestID: "ghost-1", Name: "ghost-1", Type: "Mesh", Visible: true})
	fake.Add("", bridge.FakeObject{TestID: "ghostly", Name: "ghostly", Type: "Mesh", Visible: true})

	outcome := testEngine(fake).ForObject(context.Background(), "ghost", Options{Timeout: time.Second})
	if outcome.State != TimedOut {
		t.Fatalf("expected timeout, got %s", outcome.State)
	}
	var notFound *NotFoundError
	if !errors.As(outcome.Err(), &notFound) {
		t.Fatalf("expected NotFoundError, got %T", outcome.Err())
	}
	if notFound.ID != "ghost" {
		t.Errorf("expected id ghost, got %q", notFound.ID)
	}
	if len(notFound.Suggestions) == 0 {
		t.Fatal("expected fuzzy suggestions for near-miss ids")
	}
	if notFound.Suggestions[0].TestID != "ghost-1" {
		t.Errorf("expected ghost-1 ranked first, got %q", notFound.Suggestions[0].TestID)
	}
	if !strings.Contains(notFound.Error(), "did you mean") {
		t.Errorf("expected suggestion hint in message, got %q", notFound.Error())
	}
}

func TestForObjectGone_SucceedsAfterRemoval(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{TestID: "spinner", Name: "spinner", Type: "Mesh", Visible: true})
	var once sync.Once
	fake.BeforePoll = func(poll int) {
		if poll >= 5 {
			once.Do(func() { fake.Remove("spinner") })
		}
	}

	outcome := testEngine(fake).ForObjectGone(context.Background(), "spinner", Options{})
	if !outcome.OK() {
		t.Fatalf("expected success after removal, got %s: %v", outcome.State, outcome.Err())
	}
}

func TestForObjectGone_TimeoutIsNotNotFound(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{TestID: "spinner", Name: "spinner", Type: "Mesh", Visible: true})

	outcome := testEngine(fake).ForObjectGone(context.Background(), "spinner", Options{Timeout: time.Second})
	if outcome.State != TimedOut {
		t.Fatalf("expected timeout while object persists, got %s", outcome.State)
	}
	var timeoutErr *TimeoutError
	if !errors.As(outcome.Err(), &timeoutErr) {
		t.Fatalf("expected TimeoutError for gone waits, got %T", outcome.Err())
	}
	if !strings.Contains(timeoutErr.Error(), "still present") {
		t.Errorf("expected last observed state in message, got %q", timeoutErr.Error())
	}
}

func TestForNewObject_BaselineExcluded(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{Name: "floor", Type: "Mesh", Visible: true})
	fake.Add("", bridge.FakeObject{Name: "wall", Type: "Mesh", Visible: true})

	var lineUUID string
	var once sync.Once
	fake.BeforePoll = func(poll int) {
		if poll >= 4 {
			once.Do(func() {
				lineUUID = fake.Add("", bridge.FakeObject{Name: "stroke", Type: "Line", Visible: true})
				fake.Add("", bridge.FakeObject{Name: "helper", Type: "Group", Visible: true})
			})
		}
	}

	outcome := testEngine(fake).ForNewObject(context.Background(), NewObjectFilter{Type: "Line"}, Options{})
	if !outcome.OK() {
		t.Fatalf("expected new Line to be detected, got %s: %v", outcome.State, outcome.Err())
	}
	if outcome.Count != 1 {
		t.Fatalf("expected exactly 1 match, got %d", outcome.Count)
	}
	if lineUUID == "" || outcome.NewUUIDs[0] != lineUUID {
		t.Errorf("expected new uuid %q, got %v", lineUUID, outcome.NewUUIDs)
	}
}

func TestForNewObject_NameContainsFilter(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{Name: "floor", Type: "Mesh", Visible: true})
	var once sync.Once
	fake.BeforePoll = func(poll int) {
		if poll >= 3 {
			once.Do(func() {
				fake.Add("", bridge.FakeObject{Name: "spawned-enemy", Type: "Mesh", Visible: true})
			})
		}
	}

	outcome := testEngine(fake).ForNewObject(context.Background(), NewObjectFilter{NameContains: "enemy"}, Options{})
	if !outcome.OK() {
		t.Fatalf("expected name filter match, got %s: %v", outcome.State, outcome.Err())
	}
	if len(outcome.NewUUIDs) != 1 {
		t.Errorf("expected 1 new uuid, got %d", len(outcome.NewUUIDs))
	}
}

func TestForNewObject_ExistingObjectsNeverMatch(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{Name: "floor", Type: "Line", Visible: true})

	outcome := testEngine(fake).ForNewObject(context.Background(), NewObjectFilter{Type: "Line"}, Options{Timeout: time.Second})
	if outcome.State != TimedOut {
		t.Fatalf("expected timeout when only baseline objects match the filter, got %s", outcome.State)
	}
}

func TestForIdle_SettlesAfterMotion(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{TestID: "cube", Name: "cube", Type: "Mesh", Visible: true})

	// Nudge the cube for the first two snapshots, then hold still. Each
	// loop iteration is a Ready call plus a Snapshot call.
	fake.BeforePoll = func(poll int) {
		if poll <= 4 {
			fake.Mutate("cube", func(o *bridge.FakeObject) { o.Position[0] += 0.5 })
		}
	}

	outcome := testEngine(fake).ForIdle(context.Background(), Options{IdleFrames: 3})
	if !outcome.OK() {
		t.Fatalf("expected idle once motion stopped, got %s: %v", outcome.State, outcome.Err())
	}
	if outcome.Polls < 4 {
		t.Errorf("expected motion to delay idle, got %d polls", outcome.Polls)
	}
}

func TestForIdle_ContinuousMotionTimesOut(t *testing.T) {
	fake := bridge.NewFakeBridge()
	fake.Add("", bridge.FakeObject{TestID: "cube", Name: "cube", Type: "Mesh", Visible: true})
	fake.BeforePoll = func(poll int) {
		fake.Mutate("cube", func(o *bridge.FakeObject) { o.Rotation[1] += 0.1 })
	}

	outcome := testEngine(fake).ForIdle(context.Background(), Options{Timeout: time.Second, IdleFrames: 3})
	if outcome.State != TimedOut {
		t.Fatalf("expected a spinning scene to never go idle, got %s", outcome.State)
	}
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}.withDefaults()
	if opts.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %s, got %s", DefaultTimeout, opts.Timeout)
	}
	if opts.Interval != DefaultInterval {
		t.Errorf("expected interval %s, got %s", DefaultInterval, opts.Interval)
	}
	if opts.StableChecks != DefaultStableChecks {
		t.Errorf("expected %d stable checks, got %d", DefaultStableChecks, opts.StableChecks)
	}
	if opts.IdleFrames != DefaultIdleFrames {
		t.Errorf("expected %d idle frames, got %d", DefaultIdleFrames, opts.IdleFrames)
	}
}

func TestState_String(t *testing.T) {
	if Succeeded.String() != "succeeded" || TimedOut.String() != "timedOut" || FailedFast.String() != "failedFast" {
		t.Errorf("unexpected state names: %s %s %s", Succeeded, TimedOut, FailedFast)
	}
}
