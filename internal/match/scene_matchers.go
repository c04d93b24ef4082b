package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/glassbox3d/scenetest/internal/query"
)

// MissingBridgeAggregate is the sentinel every scene-level aggregate
// reports when the bridge is absent, so a mismatch against a dead bridge
// is visibly different from an empty scene.
const MissingBridgeAggregate = -1

// ObjectCount asserts the total number of objects in the scene.
func (e *Evaluator) ObjectCount(ctx context.Context, expected int, opts Options) Result {
	return e.evaluate(ctx, matcher{
		name:     "objectCount",
		expected: expected,
		probe: func(s *query.Session) (observation, error) {
			actual := MissingBridgeAggregate
			if b := s.Bridge(); b != nil {
				count, err := b.GetCount()
				if err != nil {
					return observation{}, err
				}
				actual = count
			}
			return observation{found: true, pass: actual == expected, actual: actual}, nil
		},
	}, opts)
}

// CountByType asserts the number of objects of one node kind.
func (e *Evaluator) CountByType(ctx context.Context, objectType string, expected int, opts Options) Result {
	return e.evaluate(ctx, matcher{
		name:     "countByType",
		expected: fmt.Sprintf("%d of type %q", expected, objectType),
		probe: func(s *query.Session) (observation, error) {
			actual := MissingBridgeAggregate
			if b := s.Bridge(); b != nil {
				count, err := b.GetCountByType(objectType)
				if err != nil {
					return observation{}, err
				}
				actual = count
			}
			return observation{found: true, pass: actual == expected, actual: actual}, nil
		},
	}, opts)
}

// TriangleCount asserts the total triangle count summed over every mesh
// in the tree.
func (e *Evaluator) TriangleCount(ctx context.Context, expected int, opts Options) Result {
	return e.evaluate(ctx, matcher{
		name:     "triangleCount",
		expected: expected,
		probe: func(s *query.Session) (observation, error) {
			actual := MissingBridgeAggregate
			if b := s.Bridge(); b != nil {
				meshes, err := b.GetByType("Mesh")
				if err != nil {
					return observation{}, err
				}
				actual = 0
				for _, m := range meshes {
					actual += m.TriangleCount
				}
			}
			return observation{found: true, pass: actual == expected, actual: actual}, nil
		},
	}, opts)
}

// batchProbe resolves the id list (explicit or glob) fresh on every poll
// and evaluates per-object existence/visibility.
func describeIDs(ids []string, pattern string) string {
	if pattern != "" {
		return fmt.Sprintf("pattern %q", pattern)
	}
	return "[" + strings.Join(ids, ", ") + "]"
}

// AllExist asserts every id in the list (or matched by the glob pattern)
// resolves. An empty resolved list fails: vacuous truth is rejected.
func (e *Evaluator) AllExist(ctx context.Context, ids []string, pattern string, opts Options) Result {
	return e.evaluate(ctx, matcher{
		name:     "allExist",
		expected: "all of " + describeIDs(ids, pattern) + " to exist",
		probe: func(s *query.Session) (observation, error) {
			resolved, err := s.ResolveIDs(ids, pattern)
			if err != nil {
				return observation{}, err
			}
			if len(resolved) == 0 {
				return observation{found: true, pass: false, actual: "no objects resolved", detail: "empty id list never satisfies an all-assertion"}, nil
			}
			objects, err := s.GetObjects(resolved)
			if err != nil {
				return observation{}, err
			}
			var missing []string
			for _, id := range resolved {
				if objects[id] == nil {
					missing = append(missing, id)
				}
			}
			return observation{
				found:  true,
				pass:   len(missing) == 0,
				actual: fmt.Sprintf("%d/%d exist", len(resolved)-len(missing), len(resolved)),
				detail: detailMissing(missing),
			}, nil
		},
	}, opts)
}

// AllVisible asserts every id in the list or pattern resolves and is
// visible. An empty resolved list fails.
func (e *Evaluator) AllVisible(ctx context.Context, ids []string, pattern string, opts Options) Result {
	return e.evaluate(ctx, matcher{
		name:     "allVisible",
		expected: "all of " + describeIDs(ids, pattern) + " to be visible",
		probe: func(s *query.Session) (observation, error) {
			resolved, err := s.ResolveIDs(ids, pattern)
			if err != nil {
				return observation{}, err
			}
			if len(resolved) == 0 {
				return observation{found: true, pass: false, actual: "no objects resolved", detail: "empty id list never satisfies an all-assertion"}, nil
			}
			objects, err := s.GetObjects(resolved)
			if err != nil {
				return observation{}, err
			}
			var failing []string
			for _, id := range resolved {
				if objects[id] == nil || !objects[id].Visible {
					failing = append(failing, id)
				}
			}
			return observation{
				found:  true,
				pass:   len(failing) == 0,
				actual: fmt.Sprintf("%d/%d visible", len(resolved)-len(failing), len(resolved)),
				detail: detailMissing(failing),
			}, nil
		},
	}, opts)
}

// NoneExist asserts no id in the list or pattern resolves. An empty
// resolved list is trivially satisfied.
func (e *Evaluator) NoneExist(ctx context.Context, ids []string, pattern string, opts Options) Result {
	return e.evaluate(ctx, matcher{
		name:     "noneExist",
		expected: "none of " + describeIDs(ids, pattern) + " to exist",
		probe: func(s *query.Session) (observation, error) {
			resolved, err := s.ResolveIDs(ids, pattern)
			if err != nil {
				return observation{}, err
			}
			if len(resolved) == 0 {
				return observation{found: true, pass: true, actual: "no objects resolved"}, nil
			}
			objects, err := s.GetObjects(resolved)
			if err != nil {
				return observation{}, err
			}
			var present []string
			for _, id := range resolved {
				if objects[id] != nil {
					present = append(present, id)
				}
			}
			return observation{
				found:  true,
				pass:   len(present) == 0,
				actual: fmt.Sprintf("%d/%d present", len(present), len(resolved)),
				detail: detailMissing(present),
			}, nil
		},
	}, opts)
}

func detailMissing(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return strings.Join(ids, ", ")
}
