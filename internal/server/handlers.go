package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/fixture"
	"github.com/glassbox3d/scenetest/internal/match"
	"github.com/glassbox3d/scenetest/internal/output"
	"github.com/glassbox3d/scenetest/internal/query"
	"github.com/glassbox3d/scenetest/internal/scene"
	"github.com/glassbox3d/scenetest/internal/wait"
)

// toText serializes v to YAML for an MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (s *Server) session(params map[string]interface{}) (*query.Session, string) {
	target := s.target(params)
	return query.New(target, s.resolve(target)), target
}

func (s *Server) handleGet(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	session, target := s.session(params)

	id := StringParam(params, "id", "")
	name := StringParam(params, "name", "")
	objectType := StringParam(params, "type", "")
	pattern := StringParam(params, "pattern", "")

	var objects []*scene.ObjectMetadata
	switch {
	case id != "":
		obj, err := session.GetObject(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if obj == nil {
			hint := scene.FormatSuggestions(session.Suggest(id))
			msg := fmt.Sprintf("object %q not found", id)
			if hint != "" {
				msg += "; " + hint
			}
			return mcp.NewToolResultError(msg), nil
		}
		objects = append(objects, obj)
	case name != "":
		found, err := session.Bridge().GetByName(name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for i := range found {
			objects = append(objects, &found[i])
		}
	case objectType != "":
		found, err := session.Bridge().GetByType(objectType)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for i := range found {
			objects = append(objects, &found[i])
		}
	case pattern != "":
		matches, err := session.ResolvePattern(pattern)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for _, m := range matches {
			obj, err := session.GetObject(m.UUID)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if obj != nil {
				objects = append(objects, obj)
			}
		}
	default:
		return mcp.NewToolResultError("one of id, name, type, or pattern is required"), nil
	}

	result := output.ObjectResult{
		Target:  target,
		TS:      time.Now().Unix(),
		Objects: objects,
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleInspect(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	session, target := s.session(params)

	if BoolParam(params, "camera", false) {
		state, err := session.CameraState()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if state == nil {
			return mcp.NewToolResultError(fmt.Sprintf("no active camera reported by target %q", target)), nil
		}
		result := output.CameraResult{
			Target: target,
			TS:     time.Now().Unix(),
			Camera: state,
		}
		return mcp.NewToolResultText(toText(result)), nil
	}

	id := StringParam(params, "id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	insp, err := session.Inspect(id, bridge.InspectOptions{
		IncludeGeometryData: BoolParam(params, "geometry", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if insp == nil {
		hint := scene.FormatSuggestions(session.Suggest(id))
		msg := fmt.Sprintf("object %q not found", id)
		if hint != "" {
			msg += "; " + hint
		}
		return mcp.NewToolResultError(msg), nil
	}

	result := output.InspectResult{
		Target: target,
		TS:     time.Now().Unix(),
		Object: insp,
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleWait(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	target := s.target(params)
	engine := wait.NewEngine(target, s.resolve(target), nil)

	timeout, interval := waitOptions(params)
	opts := wait.Options{
		Timeout:      timeout,
		Interval:     interval,
		StableChecks: IntParam(params, "stable-checks", 0),
		IdleFrames:   IntParam(params, "idle-frames", 0),
	}

	condition := StringParam(params, "for", "")
	id := StringParam(params, "id", "")

	var outcome wait.Outcome
	switch condition {
	case "ready":
		outcome = engine.ForSceneReady(ctx, opts)
	case "object":
		if id == "" {
			return mcp.NewToolResultError("id is required for 'object'"), nil
		}
		outcome = engine.ForObject(ctx, id, opts)
	case "gone":
		if id == "" {
			return mcp.NewToolResultError("id is required for 'gone'"), nil
		}
		outcome = engine.ForObjectGone(ctx, id, opts)
	case "new":
		outcome = engine.ForNewObject(ctx, wait.NewObjectFilter{
			Type:         StringParam(params, "type", ""),
			NameContains: StringParam(params, "name-contains", ""),
		}, opts)
	case "idle":
		outcome = engine.ForIdle(ctx, opts)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown condition %q (use ready, object, gone, new, idle)", condition)), nil
	}

	result := output.WaitResult{
		Target:    target,
		Condition: condition,
		State:     outcome.State.String(),
		ElapsedMS: outcome.Elapsed.Milliseconds(),
		Polls:     outcome.Polls,
		Count:     outcome.Count,
		NewUUIDs:  outcome.NewUUIDs,
	}
	if err := outcome.Err(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleAssert(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	session, target := s.session(params)
	eval := match.NewEvaluator(session, bridge.RealClock())

	timeout, interval := waitOptions(params)
	opts := match.Options{
		Timeout:  timeout,
		Interval: interval,
		Not:      BoolParam(params, "not", false),
	}
	if v, ok := params["tolerance"]; ok {
		if t, ok := v.(float64); ok {
			opts.Tolerance = match.Tol(t)
		}
	}

	matcherName := StringParam(params, "matcher", "")
	id := StringParam(params, "id", "")
	ids := StringsParam(params, "ids")
	pattern := StringParam(params, "pattern", "")
	expected := FloatsParam(params, "expected")
	value := FloatParam(params, "value", 0)

	vec3 := func() (scene.Vec3, bool) {
		if len(expected) != 3 {
			return scene.Vec3{}, false
		}
		return scene.Vec3{expected[0], expected[1], expected[2]}, true
	}

	var result match.Result
	switch matcherName {
	case "exists":
		result = eval.Exists(ctx, id, opts)
	case "visible":
		result = eval.Visible(ctx, id, true, opts)
	case "hidden":
		result = eval.Visible(ctx, id, false, opts)
	case "position", "rotation", "scale", "world-position":
		v, ok := vec3()
		if !ok {
			return mcp.NewToolResultError("expected must be [x, y, z]"), nil
		}
		switch matcherName {
		case "position":
			result = eval.Position(ctx, id, v, opts)
		case "rotation":
			result = eval.Rotation(ctx, id, v, opts)
		case "scale":
			result = eval.Scale(ctx, id, v, opts)
		default:
			result = eval.WorldPosition(ctx, id, v, opts)
		}
	case "opacity":
		result = eval.Opacity(ctx, id, value, opts)
	case "color":
		result = eval.MaterialColor(ctx, id, StringParam(params, "color", ""), opts)
	case "bounds":
		if len(expected) != 6 {
			return mcp.NewToolResultError("expected must be [minX, minY, minZ, maxX, maxY, maxZ]"), nil
		}
		result = eval.Bounds(ctx, id, scene.Bounds3{
			Min: scene.Vec3{expected[0], expected[1], expected[2]},
			Max: scene.Vec3{expected[3], expected[4], expected[5]},
		}, opts)
	case "camera-far":
		result = eval.CameraFar(ctx, value, opts)
	case "count":
		result = eval.ObjectCount(ctx, int(value), opts)
	case "count-by-type":
		result = eval.CountByType(ctx, StringParam(params, "type", ""), int(value), opts)
	case "triangle-count":
		result = eval.TriangleCount(ctx, int(value), opts)
	case "all-exist":
		result = eval.AllExist(ctx, ids, pattern, opts)
	case "all-visible":
		result = eval.AllVisible(ctx, ids, pattern, opts)
	case "none-exist":
		result = eval.NoneExist(ctx, ids, pattern, opts)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown matcher %q", matcherName)), nil
	}

	out := output.AssertResult{
		Target:   target,
		Matcher:  result.Name,
		Object:   id,
		Pass:     result.Pass,
		Negated:  result.Negated,
		NotFound: result.NotFound,
		Message:  result.Message(),
	}
	if !result.OK() {
		return mcp.NewToolResultError(toText(out)), nil
	}
	return mcp.NewToolResultText(toText(out)), nil
}

func (s *Server) handleSnapshot(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	session, target := s.session(params)

	snap, err := session.Snapshot()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if snap == nil {
		return mcp.NewToolResultError("no snapshot available; is the application attached?"), nil
	}

	if BoolParam(params, "diff", false) {
		beforePath := scene.LatestSnapshot(target)
		if beforePath == "" {
			return mcp.NewToolResultError("no previous snapshot to diff against; run with save first"), nil
		}
		before, err := scene.LoadSnapshot(beforePath)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result := output.DiffResult{
			Target: target,
			Before: beforePath,
			Diff:   scene.Diff(before, snap),
		}
		return mcp.NewToolResultText(toText(result)), nil
	}

	result := output.SnapshotResult{Target: target, Snapshot: snap}
	if BoolParam(params, "save", false) {
		path, err := scene.SaveSnapshot(target, snap)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result.Path = path
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleInteract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	target := s.target(params)

	timeout, interval := waitOptions(params)
	f := fixture.New(target, s.resolve(target), fixture.WithWaitOptions(wait.Options{
		Timeout:  timeout,
		Interval: interval,
	}))

	action := StringParam(params, "action", "")
	id := StringParam(params, "id", "")
	pointer := bridge.PointerOptions{
		X:    FloatParam(params, "x", 0),
		Y:    FloatParam(params, "y", 0),
		Auto: !hasParam(params, "x") && !hasParam(params, "y"),
	}

	var err error
	switch action {
	case "click":
		err = f.Click(ctx, id, pointer)
	case "doubleClick":
		err = f.DoubleClick(ctx, id, pointer)
	case "contextMenu":
		err = f.ContextMenu(ctx, id, pointer)
	case "hover":
		err = f.Hover(ctx, id, pointer)
	case "unhover":
		err = f.Unhover(ctx, id)
	case "drag":
		err = f.Drag(ctx, id, bridge.DragOptions{
			FromX: FloatParam(params, "from-x", 0),
			FromY: FloatParam(params, "from-y", 0),
			ToX:   FloatParam(params, "to-x", 0),
			ToY:   FloatParam(params, "to-y", 0),
		})
	case "wheel":
		err = f.Wheel(ctx, id, bridge.WheelOptions{
			DeltaY: FloatParam(params, "delta-y", 0),
		})
	case "pointerMiss":
		err = f.PointerMiss(ctx)
	case "drawPath":
		err = f.DrawPath(ctx, pathPoints(params))
	case "select":
		err = f.Select(ctx, id)
	case "clearSelection":
		err = f.ClearSelection(ctx)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown action %q", action)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(toText(map[string]any{
		"ok":     true,
		"action": action,
		"object": id,
		"target": target,
	})), nil
}

func (s *Server) handleStatus(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	session, target := s.session(params)

	ready, lastError, err := session.Bridge().Ready()
	result := output.StatusResult{
		Target: target,
		Ready:  ready,
		Detail: lastError,
	}
	if err != nil {
		result.Detail = err.Error()
	} else {
		result.Diagnostics = session.Diagnostics()
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func hasParam(params map[string]interface{}, key string) bool {
	_, ok := params[key]
	return ok
}

func pathPoints(params map[string]interface{}) []bridge.PathPoint {
	raw, ok := params["points"].([]interface{})
	if !ok {
		return nil
	}
	points := make([]bridge.PathPoint, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		points = append(points, bridge.PathPoint{
			X: FloatParam(m, "x", 0),
			Y: FloatParam(m, "y", 0),
		})
	}
	return points
}
