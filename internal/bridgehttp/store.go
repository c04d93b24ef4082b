package bridgehttp

import (
	"sort"
	"sync"
	"time"
)

const defaultStaleAfter = 10 * time.Second

// Mirror tracks the latest pushed state per target. A state older than the
// staleness window is treated as absent so a crashed application reads as
// detached rather than frozen.
type Mirror struct {
	mu         sync.RWMutex
	staleAfter time.Duration
	byTarget   map[string]storedState
}

type storedState struct {
	payload   StatePayload
	updatedAt time.Time
}

// NewMirror creates a Mirror with the given staleness window.
func NewMirror(staleAfter time.Duration) *Mirror {
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	return &Mirror{
		staleAfter: staleAfter,
		byTarget:   make(map[string]storedState),
	}
}

// Upsert replaces the stored state for a target.
func (m *Mirror) Upsert(target string, payload StatePayload, now time.Time) {
	if target == "" {
		return
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byTarget[target] = storedState{payload: payload, updatedAt: now.UTC()}
}

// Fresh returns the latest state for a target if it is within the staleness
// window. The string return is a machine-readable reason on failure.
func (m *Mirror) Fresh(target string, now time.Time) (StatePayload, bool, string) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.byTarget[target]
	if !ok {
		return StatePayload{}, false, "target_not_attached"
	}
	if now.Sub(stored.updatedAt) > m.staleAfter {
		return StatePayload{}, false, "state_stale"
	}
	return stored.payload, true, ""
}

// Remove detaches a target.
func (m *Mirror) Remove(target string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byTarget, target)
}

// Targets returns attached target names in sorted order, stale ones included.
func (m *Mirror) Targets() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.byTarget))
	for name := range m.byTarget {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StaleAfter reports the configured staleness window.
func (m *Mirror) StaleAfter() time.Duration {
	return m.staleAfter
}
