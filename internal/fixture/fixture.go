// Package fixture is the facade test code talks to: one fixture per
// bridge instance, bundling the auto-wait engine, query session, and
// matcher evaluator, and enforcing the wait-then-dispatch discipline for
// every simulated user action.
package fixture

import (
	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/match"
	"github.com/glassbox3d/scenetest/internal/query"
	"github.com/glassbox3d/scenetest/internal/wait"
)

// Fixture drives one named bridge instance. Separate fixtures never
// share poll state.
type Fixture struct {
	target   string
	bridge   bridge.Bridge
	session  *query.Session
	waits    *wait.Engine
	eval     *match.Evaluator
	waitOpts wait.Options
}

// Option customizes a fixture at construction time.
type Option func(*config)

type config struct {
	clock    bridge.Clock
	waitOpts wait.Options
}

// WithClock substitutes the delay primitive, used by tests to run poll
// loops against a synthetic clock.
func WithClock(c bridge.Clock) Option {
	return func(cfg *config) { cfg.clock = c }
}

// WithWaitOptions sets the default timeout/interval bounds for every
// auto-wait issued by this fixture.
func WithWaitOptions(opts wait.Options) Option {
	return func(cfg *config) { cfg.waitOpts = opts }
}

// New returns a fixture over an explicit bridge handle, which may be nil
// (an absent bridge: queries resolve empty, waits report BridgeMissing).
func New(target string, b bridge.Bridge, opts ...Option) *Fixture {
	cfg := config{clock: bridge.RealClock()}
	for _, opt := range opts {
		opt(&cfg)
	}
	session := query.New(target, b)
	return &Fixture{
		target:   target,
		bridge:   b,
		session:  session,
		waits:    wait.NewEngine(target, b, cfg.clock),
		eval:     match.NewEvaluator(session, cfg.clock),
		waitOpts: cfg.waitOpts,
	}
}

// FromRegistry resolves the bridge under key and wraps it. A missing key
// behaves identically to a fully absent bridge.
func FromRegistry(reg *bridge.Registry, key string, opts ...Option) *Fixture {
	if key == "" {
		key = bridge.DefaultKey
	}
	return New(key, reg.Get(key), opts...)
}

// Target returns the bridge instance key.
func (f *Fixture) Target() string { return f.target }

// Query returns the typed accessor session.
func (f *Fixture) Query() *query.Session { return f.session }

// Wait returns the auto-wait engine.
func (f *Fixture) Wait() *wait.Engine { return f.waits }

// Expect returns the matcher evaluator.
func (f *Fixture) Expect() *match.Evaluator { return f.eval }
