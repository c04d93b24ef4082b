// Package query translates scene bridge primitives into the typed data
// model records. Every accessor tolerates an absent or not-yet-ready
// bridge by returning nil/empty rather than an error; only interactions
// (which auto-wait first) treat absence as a failure.
package query

import (
	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/scene"
)

// Session reads one named bridge instance. The handle may be nil.
type Session struct {
	target string
	bridge bridge.Bridge
}

// New returns a session over the given bridge handle.
func New(target string, b bridge.Bridge) *Session {
	return &Session{target: target, bridge: b}
}

// Target returns the bridge instance key this session reads.
func (s *Session) Target() string { return s.target }

// Bridge returns the underlying handle, which may be nil.
func (s *Session) Bridge() bridge.Bridge { return s.bridge }

// GetObject resolves an id by testId first, then by uuid. Returns nil on
// miss or when the bridge is absent. Side-effect-free and idempotent.
func (s *Session) GetObject(id string) (*scene.ObjectMetadata, error) {
	if s.bridge == nil {
		return nil, nil
	}
	meta, err := s.bridge.GetByTestID(id)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		return meta, nil
	}
	return s.bridge.GetByUUID(id)
}

// GetObjects resolves a batch of ids in one round trip. Every requested
// id is present in the result, mapped to nil on miss, including when the
// bridge is absent entirely.
func (s *Session) GetObjects(ids []string) (map[string]*scene.ObjectMetadata, error) {
	if s.bridge == nil {
		out := make(map[string]*scene.ObjectMetadata, len(ids))
		for _, id := range ids {
			out[id] = nil
		}
		return out, nil
	}
	out, err := s.bridge.GetObjects(ids)
	if err != nil {
		return nil, err
	}
	// Preserve every requested key even if the bridge dropped misses.
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			out[id] = nil
		}
	}
	return out, nil
}

// Inspect returns the heavy inspection record, nil when the object is
// missing. Geometry buffers are only computed when opts request them.
func (s *Session) Inspect(id string, opts bridge.InspectOptions) (*scene.ObjectInspection, error) {
	if s.bridge == nil {
		return nil, nil
	}
	return s.bridge.Inspect(id, opts)
}

// WorldPosition extracts the translation from the inspected world matrix.
// Returns nil when the object is missing or the matrix is absent or has
// fewer than 15 entries.
func (s *Session) WorldPosition(id string) (*scene.Vec3, error) {
	inspection, err := s.Inspect(id, bridge.InspectOptions{})
	if err != nil {
		return nil, err
	}
	if inspection == nil {
		return nil, nil
	}
	pos, ok := inspection.WorldPosition()
	if !ok {
		return nil, nil
	}
	return &pos, nil
}

// Snapshot captures the current scene tree; nil when the bridge is absent.
func (s *Session) Snapshot() (*scene.SceneSnapshot, error) {
	if s.bridge == nil {
		return nil, nil
	}
	return s.bridge.Snapshot()
}

// ResolvePattern matches a glob against every node's effective identifier
// (testId, else name) and its uuid, in pre-order. An absent bridge
// resolves to an empty list.
func (s *Session) ResolvePattern(pattern string) ([]scene.PatternMatch, error) {
	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, nil
	}
	return scene.ResolvePattern(snapshot, pattern)
}

// ResolveIDs turns an explicit id list or a glob pattern into a concrete
// id list. Explicit ids win when both are given.
func (s *Session) ResolveIDs(ids []string, pattern string) ([]string, error) {
	if len(ids) > 0 {
		return ids, nil
	}
	matches, err := s.ResolvePattern(pattern)
	if err != nil {
		return nil, err
	}
	resolved := make([]string, len(matches))
	for i, m := range matches {
		resolved[i] = m.Label
	}
	return resolved, nil
}

// Suggest returns up to scene.MaxSuggestions fuzzy matches for a failed
// identifier. It never fails: any error from the bridge yields an empty
// hint list so diagnostics cannot mask a primary failure.
func (s *Session) Suggest(id string) []scene.FuzzyMatch {
	if s.bridge == nil {
		return nil
	}
	matches, err := s.bridge.FuzzyFind(id, scene.MaxSuggestions)
	if err != nil {
		return nil
	}
	return matches
}

// Diagnostics fetches the bridge status record, nil when unavailable.
func (s *Session) Diagnostics() *scene.BridgeDiagnostics {
	if s.bridge == nil {
		return nil
	}
	diag, err := s.bridge.GetDiagnostics()
	if err != nil {
		return nil
	}
	return diag
}

// CameraState returns the active camera, nil when the bridge is absent.
func (s *Session) CameraState() (*scene.CameraState, error) {
	if s.bridge == nil {
		return nil, nil
	}
	return s.bridge.GetCameraState()
}
