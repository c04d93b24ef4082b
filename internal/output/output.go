package output

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/glassbox3d/scenetest/internal/scene"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ObjectResult is the top-level output of the `get` command.
type ObjectResult struct {
	Target  string                  `yaml:"target,omitempty" json:"target,omitempty"`
	TS      int64                   `yaml:"ts"               json:"ts"`
	Objects []*scene.ObjectMetadata `yaml:"objects"          json:"objects"`
}

// InspectResult is the top-level output of the `inspect` command.
type InspectResult struct {
	Target string                  `yaml:"target,omitempty" json:"target,omitempty"`
	TS     int64                   `yaml:"ts"               json:"ts"`
	Object *scene.ObjectInspection `yaml:"object"           json:"object"`
}

// CameraResult is the top-level output of `inspect --camera`.
type CameraResult struct {
	Target string             `yaml:"target,omitempty" json:"target,omitempty"`
	TS     int64              `yaml:"ts"               json:"ts"`
	Camera *scene.CameraState `yaml:"camera"           json:"camera"`
}

// WaitResult is the top-level output of the `wait` command.
type WaitResult struct {
	Target    string   `yaml:"target,omitempty"   json:"target,omitempty"`
	Condition string   `yaml:"condition"          json:"condition"`
	State     string   `yaml:"state"              json:"state"`
	ElapsedMS int64    `yaml:"elapsedMs"          json:"elapsedMs"`
	Polls     int      `yaml:"polls"              json:"polls"`
	Count     int      `yaml:"count,omitempty"    json:"count,omitempty"`
	NewUUIDs  []string `yaml:"newUuids,omitempty" json:"newUuids,omitempty"`
}

// AssertResult is the top-level output of the `assert` command.
type AssertResult struct {
	Target   string `yaml:"target,omitempty"   json:"target,omitempty"`
	Matcher  string `yaml:"matcher"            json:"matcher"`
	Object   string `yaml:"object,omitempty"   json:"object,omitempty"`
	Pass     bool   `yaml:"pass"               json:"pass"`
	Negated  bool   `yaml:"negated,omitempty"  json:"negated,omitempty"`
	NotFound bool   `yaml:"notFound,omitempty" json:"notFound,omitempty"`
	Message  string `yaml:"message,omitempty"  json:"message,omitempty"`
}

// SnapshotResult is the top-level output of the `snapshot` command.
type SnapshotResult struct {
	Target   string               `yaml:"target,omitempty" json:"target,omitempty"`
	Path     string               `yaml:"path,omitempty"   json:"path,omitempty"`
	Snapshot *scene.SceneSnapshot `yaml:"snapshot"         json:"snapshot"`
}

// DiffResult is the top-level output of `snapshot --diff`.
type DiffResult struct {
	Target string          `yaml:"target,omitempty" json:"target,omitempty"`
	Before string          `yaml:"before,omitempty" json:"before,omitempty"`
	Diff   scene.SceneDiff `yaml:"diff"             json:"diff"`
}

// StatusResult is the top-level output of the `status` command.
type StatusResult struct {
	Target      string                   `yaml:"target"                json:"target"`
	Ready       bool                     `yaml:"ready"                 json:"ready"`
	Detail      string                   `yaml:"detail,omitempty"      json:"detail,omitempty"`
	Diagnostics *scene.BridgeDiagnostics `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return PrintJSON(v, PrettyOutput)
	case FormatYAML:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to stdout as JSON.
// If pretty is true, uses indentation; otherwise single-line.
func PrintJSON(v interface{}, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
