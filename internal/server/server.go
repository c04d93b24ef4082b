// Package server exposes the harness over the Model Context Protocol so
// agent tooling can query, wait on, and assert against a live scene.
package server

import (
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/bridgehttp"
	"github.com/glassbox3d/scenetest/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport     string
	Port          int
	RelayURL      string
	DefaultTarget string
}

// Server wraps the MCP server with a bridge resolver.
type Server struct {
	cfg     Config
	resolve func(target string) bridge.Bridge
	mcp     *mcpserver.MCPServer
}

// New creates and configures an MCP server with all scene tools. A nil
// resolver connects through the relay at cfg.RelayURL.
func New(cfg Config, resolver func(target string) bridge.Bridge) *Server {
	if resolver == nil {
		resolver = func(target string) bridge.Bridge {
			return bridgehttp.NewRemoteBridge(cfg.RelayURL, target)
		}
	}
	s := &Server{
		cfg:     cfg,
		resolve: resolver,
	}
	s.mcp = mcpserver.NewMCPServer(
		"scenetest",
		version.Version,
	)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve() error {
	switch s.cfg.Transport {
	case "stdio", "":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", s.cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Transport)
	}
}

func (s *Server) target(params map[string]interface{}) string {
	if t := StringParam(params, "target", ""); t != "" {
		return t
	}
	if s.cfg.DefaultTarget != "" {
		return s.cfg.DefaultTarget
	}
	return bridge.DefaultKey
}

func (s *Server) registerTools() {
	// get
	s.mcp.AddTool(
		mcp.NewTool("scene_get",
			mcp.WithDescription("Query scene objects by testId, uuid, name, type, or glob pattern. Returns flat object metadata: transform, visibility, geometry and material types, hierarchy."),
			mcp.WithString("target", mcp.Description("Bridge instance name (default: from config)")),
			mcp.WithString("id", mcp.Description("Object testId or uuid")),
			mcp.WithString("name", mcp.Description("Exact object name")),
			mcp.WithString("type", mcp.Description("Object type (e.g. 'Mesh', 'Group')")),
			mcp.WithString("pattern", mcp.Description("Glob pattern over identifiers (e.g. 'wall-*')")),
		),
		s.handleGet,
	)

	// inspect
	s.mcp.AddTool(
		mcp.NewTool("scene_inspect",
			mcp.WithDescription("Deep-inspect one object: world matrix, bounds, material detail, user data. Geometry buffers are opt-in. Pass camera=true for the active camera instead."),
			mcp.WithString("target", mcp.Description("Bridge instance name")),
			mcp.WithString("id", mcp.Description("Object testId or uuid")),
			mcp.WithBoolean("geometry", mcp.Description("Include geometry position/index buffers")),
			mcp.WithBoolean("camera", mcp.Description("Report the active camera instead of an object")),
		),
		s.handleInspect,
	)

	// wait
	s.mcp.AddTool(
		mcp.NewTool("scene_wait",
			mcp.WithDescription("Wait for a scene condition: ready (stable object count), object (appears), gone (disappears), new (object matching a filter appears), idle (render output settles)"),
			mcp.WithString("target", mcp.Description("Bridge instance name")),
			mcp.WithString("for", mcp.Description("Condition: ready, object, gone, new, idle"), mcp.Required()),
			mcp.WithString("id", mcp.Description("Object testId or uuid (for object/gone)")),
			mcp.WithString("type", mcp.Description("New-object type filter")),
			mcp.WithString("name-contains", mcp.Description("New-object name substring filter")),
			mcp.WithNumber("timeout", mcp.Description("Max seconds to wait (default: 5)")),
			mcp.WithNumber("interval", mcp.Description("Polling interval in ms (default: 100)")),
			mcp.WithNumber("stable-checks", mcp.Description("Consecutive stable polls for ready (default: 3)")),
			mcp.WithNumber("idle-frames", mcp.Description("Consecutive identical frames for idle (default: 10)")),
		),
		s.handleWait,
	)

	// assert
	s.mcp.AddTool(
		mcp.NewTool("scene_assert",
			mcp.WithDescription("Assert scene state with retry until the assertion holds or times out. Numeric comparisons use per-component tolerance."),
			mcp.WithString("target", mcp.Description("Bridge instance name")),
			mcp.WithString("matcher", mcp.Description("Matcher: exists, visible, hidden, position, rotation, scale, world-position, opacity, color, bounds, camera-far, count, count-by-type, triangle-count, all-exist, all-visible, none-exist"), mcp.Required()),
			mcp.WithString("id", mcp.Description("Object testId or uuid")),
			mcp.WithArray("ids", mcp.Description("Identifier list for batch matchers")),
			mcp.WithString("pattern", mcp.Description("Glob pattern for batch matchers")),
			mcp.WithArray("expected", mcp.Description("Expected numeric components (vec3, or min+max for bounds)")),
			mcp.WithNumber("value", mcp.Description("Expected scalar (opacity, camera-far, counts)")),
			mcp.WithString("color", mcp.Description("Expected material color hex")),
			mcp.WithString("type", mcp.Description("Object type for count-by-type")),
			mcp.WithNumber("tolerance", mcp.Description("Numeric tolerance override")),
			mcp.WithBoolean("not", mcp.Description("Negate the assertion")),
			mcp.WithNumber("timeout", mcp.Description("Retry for N seconds (default: 5)")),
			mcp.WithNumber("interval", mcp.Description("Retry interval in ms (default: 100)")),
		),
		s.handleAssert,
	)

	// snapshot
	s.mcp.AddTool(
		mcp.NewTool("scene_snapshot",
			mcp.WithDescription("Capture a structural snapshot of the scene graph, optionally diffing against the previous saved snapshot"),
			mcp.WithString("target", mcp.Description("Bridge instance name")),
			mcp.WithBoolean("save", mcp.Description("Persist the snapshot for later diffing")),
			mcp.WithBoolean("diff", mcp.Description("Diff against the last saved snapshot")),
		),
		s.handleSnapshot,
	)

	// interact
	s.mcp.AddTool(
		mcp.NewTool("scene_interact",
			mcp.WithDescription("Dispatch a simulated user interaction, auto-waiting for the target object first. Actions: click, doubleClick, contextMenu, hover, unhover, drag, wheel, pointerMiss, drawPath, select, clearSelection"),
			mcp.WithString("target", mcp.Description("Bridge instance name")),
			mcp.WithString("action", mcp.Description("Interaction action"), mcp.Required()),
			mcp.WithString("id", mcp.Description("Object testId or uuid (for object-targeted actions)")),
			mcp.WithNumber("x", mcp.Description("Normalized pointer X in [-1, 1]")),
			mcp.WithNumber("y", mcp.Description("Normalized pointer Y in [-1, 1]")),
			mcp.WithNumber("from-x", mcp.Description("Drag start X")),
			mcp.WithNumber("from-y", mcp.Description("Drag start Y")),
			mcp.WithNumber("to-x", mcp.Description("Drag end X")),
			mcp.WithNumber("to-y", mcp.Description("Drag end Y")),
			mcp.WithNumber("delta-y", mcp.Description("Wheel delta Y")),
			mcp.WithArray("points", mcp.Description("Path points [{x,y},...] for drawPath")),
			mcp.WithNumber("timeout", mcp.Description("Auto-wait timeout in seconds")),
		),
		s.handleInteract,
	)

	// status
	s.mcp.AddTool(
		mcp.NewTool("scene_status",
			mcp.WithDescription("Report bridge readiness and renderer diagnostics for a target"),
			mcp.WithString("target", mcp.Description("Bridge instance name")),
		),
		s.handleStatus,
	)
}

// waitOptions builds wait options from tool params.
func waitOptions(params map[string]interface{}) (timeout, interval time.Duration) {
	if secs := FloatParam(params, "timeout", 0); secs > 0 {
		timeout = time.Duration(secs * float64(time.Second))
	}
	if ms := FloatParam(params, "interval", 0); ms > 0 {
		interval = time.Duration(ms * float64(time.Millisecond))
	}
	return timeout, interval
}
