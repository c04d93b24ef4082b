package bridgehttp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/glassbox3d/scenetest/internal/config"
	"github.com/glassbox3d/scenetest/internal/version"
)

// Server is the relay daemon. Applications attach by pushing state and
// polling commands; the harness queries the mirror and dispatches
// interactions through the broker.
type Server struct {
	cfg    *config.Config
	mirror *Mirror
	broker *Broker
	echo   *echo.Echo
}

// NewServer creates a relay server with a fresh mirror and broker.
func NewServer(cfg *config.Config) *Server {
	return &Server{
		cfg:    cfg,
		mirror: NewMirror(defaultStaleAfter),
		broker: NewBroker(defaultCommandTimeout),
		echo:   echo.New(),
	}
}

// Mirror exposes the state mirror, used by the demo feeder and tests.
func (s *Server) Mirror() *Mirror {
	return s.mirror
}

// Broker exposes the command broker, used by the demo feeder and tests.
func (s *Server) Broker() *Broker {
	return s.broker
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.setupEcho()
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	slog.Info("relay server listening", "address", addr)
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupEcho() {
	s.echo.HideBanner = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	registerRoutes(s.echo, s)
}

func registerRoutes(e *echo.Echo, s *Server) {
	e.GET("/", s.handleInfo)

	// Application side.
	e.POST("/api/targets/:target/state", s.handlePushState)
	e.GET("/api/targets/:target/commands", s.handlePollCommands)
	e.POST("/api/targets/:target/ack", s.handleAck)
	e.DELETE("/api/targets/:target", s.handleDetach)

	// Harness side.
	e.GET("/api/targets", s.handleListTargets)
	e.GET("/api/targets/:target/scene", s.handleGetScene)
	e.POST("/api/targets/:target/interact", s.handleInteract)
}

func (s *Server) handleInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"type":    "scenetest-relay",
		"version": version.Version,
		"endpoints": map[string]string{
			"state":    "/api/targets/:target/state",
			"commands": "/api/targets/:target/commands",
			"scene":    "/api/targets/:target/scene",
			"interact": "/api/targets/:target/interact",
		},
	})
}

func (s *Server) handlePushState(c echo.Context) error {
	target := c.Param("target")
	var payload StatePayload
	if err := c.Bind(&payload); err != nil {
		slog.Warn("rejecting malformed state push", "target", target, "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed state payload"})
	}
	s.mirror.Upsert(target, payload, time.Now().UTC())
	slog.Debug("state pushed", "target", target, "objects", len(payload.Objects))
	return c.NoContent(http.StatusAccepted)
}

func (s *Server) handlePollCommands(c echo.Context) error {
	target := c.Param("target")
	cmds := s.broker.Poll(target)
	if cmds == nil {
		cmds = []Command{}
	}
	return c.JSON(http.StatusOK, cmds)
}

func (s *Server) handleAck(c echo.Context) error {
	target := c.Param("target")
	var ack CommandAck
	if err := c.Bind(&ack); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed ack"})
	}
	if !s.broker.Ack(target, ack) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no pending command for ack"})
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) handleDetach(c echo.Context) error {
	target := c.Param("target")
	s.mirror.Remove(target)
	slog.Info("target detached", "target", target)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListTargets(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"targets": s.mirror.Targets()})
}

func (s *Server) handleGetScene(c echo.Context) error {
	target := c.Param("target")
	payload, ok, reason := s.mirror.Fresh(target, time.Now().UTC())
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": reason})
	}
	return c.JSON(http.StatusOK, payload)
}

func (s *Server) handleInteract(c echo.Context) error {
	target := c.Param("target")
	var req InteractRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, InteractResponse{Error: "malformed interact request"})
	}

	if _, ok, reason := s.mirror.Fresh(target, time.Now().UTC()); !ok {
		return c.JSON(http.StatusNotFound, InteractResponse{Error: reason})
	}

	ack, err := s.broker.DispatchAndWait(target, req, 0)
	if err != nil {
		slog.Warn("interaction dispatch failed", "target", target, "action", req.Action, "error", err)
		return c.JSON(http.StatusGatewayTimeout, InteractResponse{Error: err.Error()})
	}
	if !ack.Success {
		return c.JSON(http.StatusOK, InteractResponse{Error: ack.Error})
	}
	return c.JSON(http.StatusOK, InteractResponse{Success: true})
}
