package wait

import (
	"fmt"
	"strings"
	"time"

	"github.com/glassbox3d/scenetest/internal/scene"
)

// BridgeMissingError means the scene bridge never attached within the
// timeout. The message includes the integration point the SDK expects so
// the failure is actionable without extra logging.
type BridgeMissingError struct {
	Target  string
	Elapsed time.Duration
	Polls   int
}

func (e *BridgeMissingError) Error() string {
	return fmt.Sprintf(
		"scene bridge %q never attached (waited %s, %d polls): "+
			"make sure the application registers its bridge with the scenetest relay on startup",
		e.Target, e.Elapsed.Round(time.Millisecond), e.Polls)
}

// BridgeInitError means the bridge attached but reported an internal
// setup error. It is surfaced immediately and never waited out.
type BridgeInitError struct {
	Target string
	Reason string
}

func (e *BridgeInitError) Error() string {
	return fmt.Sprintf("scene bridge %q failed to initialize: %s", e.Target, e.Reason)
}

// NotFoundError means a target id never resolved during the poll window.
type NotFoundError struct {
	Target      string
	ID          string
	Elapsed     time.Duration
	Polls       int
	Suggestions []scene.FuzzyMatch
	Diagnostics *scene.BridgeDiagnostics
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "object %q not found on bridge %q after %s (%d polls)",
		e.ID, e.Target, e.Elapsed.Round(time.Millisecond), e.Polls)
	if hint := scene.FormatSuggestions(e.Suggestions); hint != "" {
		fmt.Fprintf(&b, "; %s", hint)
	}
	appendDiagnostics(&b, e.Diagnostics)
	return b.String()
}

// TimeoutError means a wait condition never held within the deadline.
type TimeoutError struct {
	Target       string
	Condition    string
	Elapsed      time.Duration
	Polls        int
	LastObserved string
	Suggestions  []scene.FuzzyMatch
	Diagnostics  *scene.BridgeDiagnostics
}

func (e *TimeoutError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "timed out waiting for %s on bridge %q after %s (%d polls)",
		e.Condition, e.Target, e.Elapsed.Round(time.Millisecond), e.Polls)
	if e.LastObserved != "" {
		fmt.Fprintf(&b, "; last observed: %s", e.LastObserved)
	}
	if hint := scene.FormatSuggestions(e.Suggestions); hint != "" {
		fmt.Fprintf(&b, "; %s", hint)
	}
	appendDiagnostics(&b, e.Diagnostics)
	return b.String()
}

func appendDiagnostics(b *strings.Builder, d *scene.BridgeDiagnostics) {
	if d == nil {
		return
	}
	fmt.Fprintf(b, " [bridge: ready=%t objects=%d", d.Ready, d.ObjectCount)
	if d.LastError != "" {
		fmt.Fprintf(b, " lastError=%q", d.LastError)
	}
	if d.Renderer != "" {
		fmt.Fprintf(b, " renderer=%q", d.Renderer)
	}
	b.WriteByte(']')
}
