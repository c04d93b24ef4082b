// Package wait implements the auto-wait engine: bounded polling against a
// scene bridge until a readiness condition holds, with fail-fast on bridge
// setup errors and rich diagnostics on timeout. Each wait is a state
// machine POLLING → {SUCCEEDED, FAILED_FAST, TIMED_OUT}; polls within one
// wait are strictly sequential and never overlap.
package wait

import (
	"context"
	"time"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/scene"
)

// Defaults shared by every wait and assertion poll loop.
const (
	DefaultTimeout      = 5 * time.Second
	DefaultInterval     = 100 * time.Millisecond
	DefaultStableChecks = 3
	DefaultIdleFrames   = 10
)

// Options bounds one wait operation. Zero values take the defaults.
type Options struct {
	Timeout      time.Duration
	Interval     time.Duration
	StableChecks int
	IdleFrames   int
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.StableChecks <= 0 {
		o.StableChecks = DefaultStableChecks
	}
	if o.IdleFrames <= 0 {
		o.IdleFrames = DefaultIdleFrames
	}
	return o
}

// State is the terminal state of a wait operation.
type State int

const (
	Succeeded State = iota
	TimedOut
	FailedFast
)

func (s State) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case TimedOut:
		return "timedOut"
	case FailedFast:
		return "failedFast"
	default:
		return "unknown"
	}
}

// Outcome is the uniform result of a wait. Failure messages are built
// lazily by Err, so a successful wait never pays for message formatting.
type Outcome struct {
	State   State
	Elapsed time.Duration
	Polls   int

	// Count and NewUUIDs carry condition-specific payloads: the stable
	// object count for scene-ready, matches for new-object.
	Count    int
	NewUUIDs []string

	failure error
}

// OK reports whether the wait succeeded.
func (o Outcome) OK() bool { return o.State == Succeeded }

// Err returns nil on success and the typed failure otherwise.
func (o Outcome) Err() error {
	if o.State == Succeeded {
		return nil
	}
	return o.failure
}

// Engine runs wait operations against one bridge instance. The handle may
// be nil, which behaves as a bridge that never attaches.
type Engine struct {
	target string
	bridge bridge.Bridge
	clock  bridge.Clock
}

// NewEngine returns an engine for the named bridge instance.
func NewEngine(target string, b bridge.Bridge, clock bridge.Clock) *Engine {
	if clock == nil {
		clock = bridge.RealClock()
	}
	return &Engine{target: target, bridge: b, clock: clock}
}

// condition is one readiness check sharing the polling skeleton. check is
// only invoked once the bridge reports ready=true.
type condition interface {
	name() string
	check(b bridge.Bridge) (done bool, err error)
	lastObserved() string
}

// payloadCondition lets a condition attach its result to the outcome.
type payloadCondition interface {
	payload(o *Outcome)
}

// run is the shared POLLING loop. suggestFor, when non-empty, requests
// fuzzy suggestions for that identifier in the timeout diagnostics.
func (e *Engine) run(ctx context.Context, cond condition, opts Options, suggestFor string) Outcome {
	opts = opts.withDefaults()
	start := e.clock.Now()
	deadline := start.Add(opts.Timeout)

	outcome := Outcome{}
	sawBridge := false

	finish := func(state State) Outcome {
		outcome.State = state
		outcome.Elapsed = e.clock.Now().Sub(start)
		if state == Succeeded {
			if p, ok := cond.(payloadCondition); ok {
				p.payload(&outcome)
			}
		}
		return outcome
	}

	for {
		outcome.Polls++

		if e.bridge != nil {
			ready, lastError, err := e.bridge.Ready()
			switch {
			case err != nil:
				// Transport failure: the bridge is unreachable this poll.
				// Indistinguishable from not-yet-attached, so keep polling.
			case !ready && lastError != "":
				// A crashed bridge setup will never become ready.
				outcome.failure = &BridgeInitError{Target: e.target, Reason: lastError}
				return finish(FailedFast)
			case ready:
				sawBridge = true
				done, err := cond.check(e.bridge)
				if err == nil && done {
					return finish(Succeeded)
				}
				// A query error mid-poll is transient; the deadline bounds it.
			}
		}

		if !e.clock.Now().Before(deadline) || ctx.Err() != nil {
			outcome.failure = e.timeoutFailure(cond, sawBridge, e.clock.Now().Sub(start), outcome.Polls, suggestFor)
			return finish(TimedOut)
		}
		e.clock.Sleep(ctx, opts.Interval)
	}
}

// timeoutFailure performs the one final diagnostic query. Diagnostic
// helpers must never mask the primary failure, so their errors are
// swallowed and simply leave the corresponding field empty.
func (e *Engine) timeoutFailure(cond condition, sawBridge bool, elapsed time.Duration, polls int, suggestFor string) error {
	if !sawBridge {
		return &BridgeMissingError{Target: e.target, Elapsed: elapsed, Polls: polls}
	}

	var diag *scene.BridgeDiagnostics
	if d, err := e.bridge.GetDiagnostics(); err == nil {
		diag = d
	}
	var suggestions []scene.FuzzyMatch
	if suggestFor != "" {
		if s, err := e.bridge.FuzzyFind(suggestFor, scene.MaxSuggestions); err == nil {
			suggestions = s
		}
	}

	if suggestFor != "" {
		if _, isGone := cond.(*objectGone); !isGone {
			return &NotFoundError{
				Target:      e.target,
				ID:          suggestFor,
				Elapsed:     elapsed,
				Polls:       polls,
				Suggestions: suggestions,
				Diagnostics: diag,
			}
		}
	}
	return &TimeoutError{
		Target:       e.target,
		Condition:    cond.name(),
		Elapsed:      elapsed,
		Polls:        polls,
		LastObserved: cond.lastObserved(),
		Suggestions:  suggestions,
		Diagnostics:  diag,
	}
}
