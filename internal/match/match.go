// Package match implements the retrying assertion protocol: every matcher
// repeatedly evaluates a predicate against live bridge state until its
// truth value equals the expected polarity or the deadline passes.
// Matchers return structured results and never throw; message rendering
// is deferred so passing assertions pay nothing for formatting.
package match

import (
	"context"
	"fmt"
	"time"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/query"
	"github.com/glassbox3d/scenetest/internal/scene"
	"github.com/glassbox3d/scenetest/internal/wait"
)

// Default tolerances per matcher family.
const (
	DefaultTolerance       = 0.01 // position, rotation, scale, opacity
	DefaultBoundsTolerance = 0.1
	DefaultFarTolerance    = 1.0
)

// Options bounds one assertion. Tolerance nil takes the matcher's own
// default; Not flips the expected polarity.
type Options struct {
	Timeout   time.Duration
	Interval  time.Duration
	Tolerance *float64
	Not       bool
}

// Tol is a convenience for setting Options.Tolerance inline.
func Tol(v float64) *float64 { return &v }

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = wait.DefaultTimeout
	}
	if o.Interval <= 0 {
		o.Interval = wait.DefaultInterval
	}
	return o
}

func (o Options) tolerance(matcherDefault float64) float64 {
	if o.Tolerance != nil {
		return *o.Tolerance
	}
	return matcherDefault
}

// Result is the structured outcome of one assertion. Pass is the raw
// predicate truth at the final observation (before negation); OK applies
// the polarity. Message is built lazily.
type Result struct {
	Pass     bool
	Negated  bool
	NotFound bool
	Name     string
	Expected any
	Actual   any

	message func() string
}

// OK reports whether the assertion, as invoked, succeeded.
func (r Result) OK() bool { return r.Pass != r.Negated }

// Message renders the diagnostic message. Only call it on failure (or on
// a negated pass, where the NOT message is the interesting one).
func (r Result) Message() string {
	if r.message == nil {
		return ""
	}
	return r.message()
}

// observation is one poll's view of the predicate.
type observation struct {
	found  bool
	pass   bool
	actual any
	detail string
}

// matcher is one assertion definition. Matchers with a target id set
// requiresTarget so that an unresolved target produces the distinct
// not-found failure rather than a generic mismatch.
type matcher struct {
	name           string
	targetID       string
	expected       any
	requiresTarget bool
	probe          func(s *query.Session) (observation, error)
}

// Evaluator runs matchers against one session.
type Evaluator struct {
	session *query.Session
	clock   bridge.Clock
}

// NewEvaluator returns an evaluator over the session. A nil clock uses
// the wall clock.
func NewEvaluator(session *query.Session, clock bridge.Clock) *Evaluator {
	if clock == nil {
		clock = bridge.RealClock()
	}
	return &Evaluator{session: session, clock: clock}
}

// evaluate is the shared poll loop: POLLING → {PASSED, FAILED(not-found),
// FAILED(mismatch)}. The deadline is computed once from a monotonic
// clock and never extended.
func (e *Evaluator) evaluate(ctx context.Context, m matcher, opts Options) Result {
	opts = opts.withDefaults()
	start := e.clock.Now()
	deadline := start.Add(opts.Timeout)

	var last observation
	observed := false
	everFound := false
	polls := 0

	for {
		polls++

		// Fail-fast: a bridge that reported a setup error will never
		// produce a passing observation, so don't wait out the timeout.
		if b := e.session.Bridge(); b != nil {
			if ready, lastError, err := b.Ready(); err == nil && !ready && lastError != "" {
				return e.failFastResult(m, opts, lastError)
			}
		}

		obs, err := m.probe(e.session)
		if err == nil {
			last = obs
			observed = true
			if obs.found {
				everFound = true
			}
			// Stop as soon as the predicate's truth equals the expected
			// polarity. A missing target never satisfies a negated value
			// matcher; absence is a distinct failure, not a pass.
			if obs.pass != opts.Not && (obs.found || !m.requiresTarget) {
				return e.settledResult(m, opts, obs)
			}
		}

		if !e.clock.Now().Before(deadline) || ctx.Err() != nil {
			break
		}
		e.clock.Sleep(ctx, opts.Interval)
	}

	elapsed := e.clock.Now().Sub(start)
	if m.requiresTarget && !everFound {
		return e.notFoundResult(m, opts, elapsed, polls)
	}
	return e.mismatchResult(m, opts, last, observed, elapsed)
}

func (e *Evaluator) settledResult(m matcher, opts Options, obs observation) Result {
	return Result{
		Pass:     obs.pass,
		Negated:  opts.Not,
		Name:     m.name,
		Expected: m.expected,
		Actual:   obs.actual,
		message: func() string {
			// Rendered for negated-and-passing, mirroring the positive
			// failure wording with NOT.
			if opts.Not {
				return fmt.Sprintf("expected %s NOT %v, but it does (actual: %v)", m.subject(), m.expected, obs.actual)
			}
			return fmt.Sprintf("expected %s %v, got %v", m.subject(), m.expected, obs.actual)
		},
	}
}

func (e *Evaluator) mismatchResult(m matcher, opts Options, last observation, observed bool, elapsed time.Duration) Result {
	return Result{
		Pass:     observed && last.pass,
		Negated:  opts.Not,
		Name:     m.name,
		Expected: m.expected,
		Actual:   last.actual,
		message: func() string {
			verb := ""
			if opts.Not {
				verb = "NOT "
			}
			msg := fmt.Sprintf("expected %s %s%v after %s", m.subject(), verb, m.expected, elapsed.Round(time.Millisecond))
			if observed {
				msg += fmt.Sprintf(", got %v", last.actual)
				if last.detail != "" {
					msg += " (" + last.detail + ")"
				}
			} else {
				msg += ", but the bridge could not be queried"
			}
			return msg
		},
	}
}

// notFoundResult builds the distinct not-found failure including elapsed
// wait, a diagnostics summary, and fuzzy suggestions. Raw Pass is false,
// so a negated assertion on a missing target also reads as failed via
// NotFound.
func (e *Evaluator) notFoundResult(m matcher, opts Options, elapsed time.Duration, polls int) Result {
	return Result{
		Pass:     opts.Not, // OK()==false either way: not-found is never a pass
		Negated:  opts.Not,
		NotFound: true,
		Name:     m.name,
		Expected: m.expected,
		Actual:   nil,
		message: func() string {
			err := &wait.NotFoundError{
				Target:      e.session.Target(),
				ID:          m.targetID,
				Elapsed:     elapsed,
				Polls:       polls,
				Suggestions: e.session.Suggest(m.targetID),
				Diagnostics: e.session.Diagnostics(),
			}
			return err.Error()
		},
	}
}

func (e *Evaluator) failFastResult(m matcher, opts Options, reason string) Result {
	return Result{
		Pass:     opts.Not,
		Negated:  opts.Not,
		Name:     m.name,
		Expected: m.expected,
		message: func() string {
			err := &wait.BridgeInitError{Target: e.session.Target(), Reason: reason}
			return err.Error()
		},
	}
}

func (m matcher) subject() string {
	if m.targetID == "" {
		return "scene"
	}
	return fmt.Sprintf("object %q", m.targetID)
}

// tolerantEqual reports whether every component of actual is within
// tolerance of expected, and describes the worst delta for diagnostics.
func tolerantEqual(expected, actual []float64, tolerance float64) (bool, string) {
	if len(expected) != len(actual) {
		return false, fmt.Sprintf("component count %d != %d", len(actual), len(expected))
	}
	pass := true
	worst := 0.0
	for i := range expected {
		d := actual[i] - expected[i]
		if d < 0 {
			d = -d
		}
		if d > tolerance {
			pass = false
		}
		if d > worst {
			worst = d
		}
	}
	return pass, fmt.Sprintf("max delta %g, tolerance %g", worst, tolerance)
}

func vecSlice(v scene.Vec3) []float64 { return []float64{v[0], v[1], v[2]} }
