package bridgehttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/scene"
)

// RemoteBridge reads the relay's mirrored state and dispatches
// interactions through its broker. Lookup methods fetch the current
// mirror on every call, so staleness is bounded by the application's
// push cadence plus one round trip.
type RemoteBridge struct {
	baseURL string
	target  string
	client  *http.Client
}

var _ bridge.Bridge = (*RemoteBridge)(nil)

// NewRemoteBridge creates a bridge talking to the relay at baseURL for the
// named target.
func NewRemoteBridge(baseURL, target string) *RemoteBridge {
	return &RemoteBridge{
		baseURL: baseURL,
		target:  target,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *RemoteBridge) fetchState() (*StatePayload, error) {
	url := fmt.Sprintf("%s/api/targets/%s/scene", r.baseURL, r.target)
	resp, err := r.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch scene state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
		if body.Error == "" {
			body.Error = resp.Status
		}
		return nil, fmt.Errorf("target %q: %s", r.target, body.Error)
	}

	var payload StatePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode scene state: %w", err)
	}
	return &payload, nil
}

func (r *RemoteBridge) interact(req InteractRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode interact request: %w", err)
	}
	url := fmt.Sprintf("%s/api/targets/%s/interact", r.baseURL, r.target)
	resp, err := r.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", req.Action, err)
	}
	defer resp.Body.Close()

	var result InteractResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode interact response: %w", err)
	}
	if !result.Success {
		if result.Error == "" {
			result.Error = resp.Status
		}
		return fmt.Errorf("%s failed: %s", req.Action, result.Error)
	}
	return nil
}

func (r *RemoteBridge) Ready() (bool, string, error) {
	payload, err := r.fetchState()
	if err != nil {
		return false, "", err
	}
	return payload.Ready, payload.LastError, nil
}

func (r *RemoteBridge) GetByTestID(id string) (*scene.ObjectMetadata, error) {
	payload, err := r.fetchState()
	if err != nil {
		return nil, err
	}
	for i := range payload.Objects {
		if payload.Objects[i].TestID == id {
			obj := payload.Objects[i]
			return &obj, nil
		}
	}
	return nil, nil
}

func (r *RemoteBridge) GetByUUID(uuid string) (*scene.ObjectMetadata, error) {
	payload, err := r.fetchState()
	if err != nil {
		return nil, err
	}
	for i := range payload.Objects {
		if payload.Objects[i].UUID == uuid {
			obj := payload.Objects[i]
			return &obj, nil
		}
	}
	return nil, nil
}

func (r *RemoteBridge) GetByName(name string) ([]scene.ObjectMetadata, error) {
	payload, err := r.fetchState()
	if err != nil {
		return nil, err
	}
	var out []scene.ObjectMetadata
	for _, obj := range payload.Objects {
		if obj.Name == name {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (r *RemoteBridge) GetByType(objectType string) ([]scene.ObjectMetadata, error) {
	payload, err := r.fetchState()
	if err != nil {
		return nil, err
	}
	var out []scene.ObjectMetadata
	for _, obj := range payload.Objects {
		if obj.Type == objectType {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (r *RemoteBridge) GetByUserData(key, value string) ([]scene.ObjectMetadata, error) {
	payload, err := r.fetchState()
	if err != nil {
		return nil, err
	}
	var out []scene.ObjectMetadata
	for _, obj := range payload.Objects {
		insp, ok := payload.Inspections[obj.UUID]
		if !ok || insp.UserData == nil {
			continue
		}
		if v, ok := insp.UserData[key]; ok && fmt.Sprint(v) == value {
			out = append(out, obj)
		}
	}
	return out, nil
}

func (r *RemoteBridge) GetCount() (int, error) {
	payload, err := r.fetchState()
	if err != nil {
		return 0, err
	}
	return len(payload.Objects), nil
}

func (r *RemoteBridge) GetCountByType(objectType string) (int, error) {
	payload, err := r.fetchState()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, obj := range payload.Objects {
		if obj.Type == objectType {
			count++
		}
	}
	return count, nil
}

func (r *RemoteBridge) GetObjects(ids []string) (map[string]*scene.ObjectMetadata, error) {
	payload, err := r.fetchState()
	if err != nil {
		return nil, err
	}

	byTestID := make(map[string]*scene.ObjectMetadata, len(payload.Objects))
	byUUID := make(map[string]*scene.ObjectMetadata, len(payload.Objects))
	for i := range payload.Objects {
		obj := &payload.Objects[i]
		if obj.TestID != "" {
			byTestID[obj.TestID] = obj
		}
		byUUID[obj.UUID] = obj
	}

	result := make(map[string]*scene.ObjectMetadata, len(ids))
	for _, id := range ids {
		if obj, ok := byTestID[id]; ok {
			copied := *obj
			result[id] = &copied
			continue
		}
		if obj, ok := byUUID[id]; ok {
			copied := *obj
			result[id] = &copied
			continue
		}
		result[id] = nil
	}
	return result, nil
}

func (r *RemoteBridge) Snapshot() (*scene.SceneSnapshot, error) {
	payload, err := r.fetchState()
	if err != nil {
		return nil, err
	}
	return payload.Snapshot, nil
}

func (r *RemoteBridge) Inspect(id string, opts bridge.InspectOptions) (*scene.ObjectInspection, error) {
	payload, err := r.fetchState()
	if err != nil {
		return nil, err
	}

	uuid := id
	for i := range payload.Objects {
		if payload.Objects[i].TestID == id {
			uuid = payload.Objects[i].UUID
			break
		}
	}

	insp, ok := payload.Inspections[uuid]
	if !ok || insp == nil {
		return nil, nil
	}

	copied := *insp
	if !opts.IncludeGeometryData && copied.Geometry != nil {
		geom := *copied.Geometry
		geom.Positions = nil
		geom.Indices = nil
		copied.Geometry = &geom
	}
	return &copied, nil
}

func (r *RemoteBridge) FuzzyFind(query string, limit int) ([]scene.FuzzyMatch, error) {
	payload, err := r.fetchState()
	if err != nil {
		return nil, err
	}
	candidates := make([]scene.FuzzyMatch, 0, len(payload.Objects))
	for _, obj := range payload.Objects {
		candidates = append(candidates, scene.FuzzyMatch{
			TestID: obj.TestID,
			Name:   obj.Name,
			UUID:   obj.UUID,
		})
	}
	return scene.RankSuggestions(query, candidates, limit), nil
}

func (r *RemoteBridge) GetDiagnostics() (*scene.BridgeDiagnostics, error) {
	payload, err := r.fetchState()
	if err != nil {
		return nil, err
	}
	return payload.Diagnostics, nil
}

func (r *RemoteBridge) GetCameraState() (*scene.CameraState, error) {
	payload, err := r.fetchState()
	if err != nil {
		return nil, err
	}
	return payload.Camera, nil
}

func pointerArgs(opts bridge.PointerOptions) map[string]any {
	return map[string]any{
		"x":      opts.X,
		"y":      opts.Y,
		"auto":   opts.Auto,
		"button": opts.Button,
	}
}

func (r *RemoteBridge) Click(id string, opts bridge.PointerOptions) error {
	return r.interact(InteractRequest{Action: ActionClick, ObjectID: id, Args: pointerArgs(opts)})
}

func (r *RemoteBridge) DoubleClick(id string, opts bridge.PointerOptions) error {
	return r.interact(InteractRequest{Action: ActionDoubleClick, ObjectID: id, Args: pointerArgs(opts)})
}

func (r *RemoteBridge) ContextMenu(id string, opts bridge.PointerOptions) error {
	return r.interact(InteractRequest{Action: ActionContextMenu, ObjectID: id, Args: pointerArgs(opts)})
}

func (r *RemoteBridge) Hover(id string, opts bridge.PointerOptions) error {
	return r.interact(InteractRequest{Action: ActionHover, ObjectID: id, Args: pointerArgs(opts)})
}

func (r *RemoteBridge) Unhover(id string) error {
	return r.interact(InteractRequest{Action: ActionUnhover, ObjectID: id})
}

func (r *RemoteBridge) Drag(id string, opts bridge.DragOptions) error {
	return r.interact(InteractRequest{
		Action:   ActionDrag,
		ObjectID: id,
		Args: map[string]any{
			"fromX": opts.FromX,
			"fromY": opts.FromY,
			"toX":   opts.ToX,
			"toY":   opts.ToY,
			"steps": opts.Steps,
		},
	})
}

func (r *RemoteBridge) Wheel(id string, opts bridge.WheelOptions) error {
	return r.interact(InteractRequest{
		Action:   ActionWheel,
		ObjectID: id,
		Args: map[string]any{
			"deltaX": opts.DeltaX,
			"deltaY": opts.DeltaY,
		},
	})
}

func (r *RemoteBridge) PointerMiss() error {
	return r.interact(InteractRequest{Action: ActionPointerMiss})
}

func (r *RemoteBridge) DrawPath(points []bridge.PathPoint) error {
	encoded := make([]map[string]any, len(points))
	for i, p := range points {
		encoded[i] = map[string]any{"x": p.X, "y": p.Y}
	}
	return r.interact(InteractRequest{
		Action: ActionDrawPath,
		Args:   map[string]any{"points": encoded},
	})
}

func (r *RemoteBridge) Select(id string) error {
	return r.interact(InteractRequest{Action: ActionSelect, ObjectID: id})
}

func (r *RemoteBridge) ClearSelection() error {
	return r.interact(InteractRequest{Action: ActionClearSelection})
}
