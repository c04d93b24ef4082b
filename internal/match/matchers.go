package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/query"
	"github.com/glassbox3d/scenetest/internal/scene"
)

// Exists asserts that the object resolves by testId or uuid. Absence is
// the predicate being false, so Exists composes naturally with Not.
func (e *Evaluator) Exists(ctx context.Context, id string, opts Options) Result {
	return e.evaluate(ctx, matcher{
		name:     "exists",
		targetID: id,
		expected: "to exist",
		probe: func(s *query.Session) (observation, error) {
			meta, err := s.GetObject(id)
			if err != nil {
				return observation{}, err
			}
			return observation{found: true, pass: meta != nil, actual: meta != nil}, nil
		},
	}, opts)
}

// Visible asserts the object's visibility flag.
func (e *Evaluator) Visible(ctx context.Context, id string, expected bool, opts Options) Result {
	return e.evaluate(ctx, matcher{
		name:           "visible",
		targetID:       id,
		expected:       fmt.Sprintf("visible=%t", expected),
		requiresTarget: true,
		probe: func(s *query.Session) (observation, error) {
			meta, err := s.GetObject(id)
			if err != nil || meta == nil {
				return observation{}, err
			}
			return observation{found: true, pass: meta.Visible == expected, actual: meta.Visible}, nil
		},
	}, opts)
}

// vecMatcher builds a tolerance-compared 3-tuple matcher over metadata.
func (e *Evaluator) vecMatcher(ctx context.Context, name, id string, expected scene.Vec3, pick func(*scene.ObjectMetadata) scene.Vec3, opts Options) Result {
	tolerance := opts.tolerance(DefaultTolerance)
	return e.evaluate(ctx, matcher{
		name:           name,
		targetID:       id,
		expected:       expected,
		requiresTarget: true,
		probe: func(s *query.Session) (observation, error) {
			meta, err := s.GetObject(id)
			if err != nil || meta == nil {
				return observation{}, err
			}
			actual := pick(meta)
			pass, detail := tolerantEqual(vecSlice(expected), vecSlice(actual), tolerance)
			return observation{found: true, pass: pass, actual: actual, detail: detail}, nil
		},
	}, opts)
}

// Position asserts local position within tolerance (default 0.01), every
// component independently.
func (e *Evaluator) Position(ctx context.Context, id string, expected scene.Vec3, opts Options) Result {
	return e.vecMatcher(ctx, "position", id, expected, func(m *scene.ObjectMetadata) scene.Vec3 { return m.Position }, opts)
}

// Rotation asserts local rotation within tolerance (default 0.01).
func (e *Evaluator) Rotation(ctx context.Context, id string, expected scene.Vec3, opts Options) Result {
	return e.vecMatcher(ctx, "rotation", id, expected, func(m *scene.ObjectMetadata) scene.Vec3 { return m.Rotation }, opts)
}

// Scale asserts local scale within tolerance (default 0.01).
func (e *Evaluator) Scale(ctx context.Context, id string, expected scene.Vec3, opts Options) Result {
	return e.vecMatcher(ctx, "scale", id, expected, func(m *scene.ObjectMetadata) scene.Vec3 { return m.Scale }, opts)
}

// WorldPosition asserts the translation extracted from the inspected
// world matrix, within tolerance (default 0.01).
func (e *Evaluator) WorldPosition(ctx context.Context, id string, expected scene.Vec3, opts Options) Result {
	tolerance := opts.tolerance(DefaultTolerance)
	return e.evaluate(ctx, matcher{
		name:           "worldPosition",
		targetID:       id,
		expected:       expected,
		requiresTarget: true,
		probe: func(s *query.Session) (observation, error) {
			pos, err := s.WorldPosition(id)
			if err != nil || pos == nil {
				return observation{}, err
			}
			pass, detail := tolerantEqual(vecSlice(expected), vecSlice(*pos), tolerance)
			return observation{found: true, pass: pass, actual: *pos, detail: detail}, nil
		},
	}, opts)
}

// Opacity asserts material opacity within tolerance (default 0.01).
func (e *Evaluator) Opacity(ctx context.Context, id string, expected float64, opts Options) Result {
	tolerance := opts.tolerance(DefaultTolerance)
	return e.evaluate(ctx, matcher{
		name:           "opacity",
		targetID:       id,
		expected:       expected,
		requiresTarget: true,
		probe: func(s *query.Session) (observation, error) {
			inspection, err := s.Inspect(id, bridge.InspectOptions{})
			if err != nil || inspection == nil {
				return observation{}, err
			}
			if inspection.Material == nil {
				return observation{found: true, pass: false, actual: nil, detail: "no material"}, nil
			}
			actual := inspection.Material.Opacity
			pass, detail := tolerantEqual([]float64{expected}, []float64{actual}, tolerance)
			return observation{found: true, pass: pass, actual: actual, detail: detail}, nil
		},
	}, opts)
}

// MaterialColor asserts the material color, compared as normalized
// lowercase hex.
func (e *Evaluator) MaterialColor(ctx context.Context, id string, expected string, opts Options) Result {
	expectedHex := strings.ToLower(expected)
	return e.evaluate(ctx, matcher{
		name:           "materialColor",
		targetID:       id,
		expected:       expectedHex,
		requiresTarget: true,
		probe: func(s *query.Session) (observation, error) {
			inspection, err := s.Inspect(id, bridge.InspectOptions{})
			if err != nil || inspection == nil {
				return observation{}, err
			}
			if inspection.Material == nil {
				return observation{found: true, pass: false, actual: nil, detail: "no material"}, nil
			}
			actual := strings.ToLower(inspection.Material.Color)
			return observation{found: true, pass: actual == expectedHex, actual: actual}, nil
		},
	}, opts)
}

// Bounds asserts the world-space bounding box within tolerance (default
// 0.1), every min/max component independently.
func (e *Evaluator) Bounds(ctx context.Context, id string, expected scene.Bounds3, opts Options) Result {
	tolerance := opts.tolerance(DefaultBoundsTolerance)
	return e.evaluate(ctx, matcher{
		name:           "bounds",
		targetID:       id,
		expected:       expected,
		requiresTarget: true,
		probe: func(s *query.Session) (observation, error) {
			inspection, err := s.Inspect(id, bridge.InspectOptions{})
			if err != nil || inspection == nil {
				return observation{}, err
			}
			if inspection.Bounds == nil {
				return observation{found: true, pass: false, actual: nil, detail: "no bounds"}, nil
			}
			actual := *inspection.Bounds
			pass, detail := tolerantEqual(
				append(vecSlice(expected.Min), vecSlice(expected.Max)...),
				append(vecSlice(actual.Min), vecSlice(actual.Max)...),
				tolerance)
			return observation{found: true, pass: pass, actual: actual, detail: detail}, nil
		},
	}, opts)
}

// CameraFar asserts the camera far plane within tolerance (default 1).
func (e *Evaluator) CameraFar(ctx context.Context, expected float64, opts Options) Result {
	tolerance := opts.tolerance(DefaultFarTolerance)
	return e.evaluate(ctx, matcher{
		name:     "cameraFar",
		expected: expected,
		probe: func(s *query.Session) (observation, error) {
			cam, err := s.CameraState()
			if err != nil || cam == nil {
				return observation{}, err
			}
			pass, detail := tolerantEqual([]float64{expected}, []float64{cam.Far}, tolerance)
			return observation{found: true, pass: pass, actual: cam.Far, detail: detail}, nil
		},
	}, opts)
}
