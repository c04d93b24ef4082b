package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/bridgehttp"
	"github.com/glassbox3d/scenetest/internal/config"
	"github.com/glassbox3d/scenetest/internal/logger"
	"github.com/glassbox3d/scenetest/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay server applications attach to",
	Long: `Start the HTTP relay server. The application under test pushes scene
state and polls interaction commands; scenetest commands and test code
read the mirrored state and dispatch interactions through it.

With --mcp a Model Context Protocol server is started instead, exposing
scene query/wait/assert/interact tools to AI agents over stdio or
streamable HTTP.

With --demo an in-process synthetic scene attaches itself, so every
command can be exercised without a real application.

The config file is watched and reloaded on change.

Examples:
  scenetest serve
  scenetest serve --port 7341 --demo
  scenetest serve --mcp
  scenetest serve --mcp --transport streamable-http --mcp-port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Relay port (default: from config)")
	serveCmd.Flags().Bool("demo", false, "Feed a synthetic demo scene into the relay")
	serveCmd.Flags().Bool("mcp", false, "Start an MCP server instead of the relay")
	serveCmd.Flags().String("transport", "stdio", "MCP transport: stdio, streamable-http")
	serveCmd.Flags().Int("mcp-port", 8080, "HTTP port for the streamable-http MCP transport")
}

func runServe(cmd *cobra.Command, args []string) error {
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}

	if mcpMode, _ := cmd.Flags().GetBool("mcp"); mcpMode {
		transport, _ := cmd.Flags().GetString("transport")
		mcpPort, _ := cmd.Flags().GetInt("mcp-port")
		srv := server.New(server.Config{
			Transport:     transport,
			Port:          mcpPort,
			RelayURL:      relayURL(),
			DefaultTarget: targetName(),
		}, nil)
		return srv.Serve()
	}

	srv := bridgehttp.NewServer(cfg)

	if demo, _ := cmd.Flags().GetBool("demo"); demo {
		feeder := bridgehttp.StartDemo(targetName(), srv.Mirror(), srv.Broker())
		defer feeder.Stop()
		slog.Info("demo scene attached", "target", targetName())
	}

	if path, _ := rootCmd.PersistentFlags().GetString("config"); path != "" {
		watcher, err := config.Watch(path, func(updated *config.Config) {
			cfg = updated
			if err := logger.Init(
				logger.LevelFromString(updated.Logging.Level),
				logger.Format(updated.Logging.Format),
				updated.Logging.Path,
			); err != nil {
				slog.Warn("failed to reinitialize logging", "error", err)
			}
			slog.Info("configuration reloaded", "path", path)
		}, func(err error) {
			slog.Warn("config reload failed", "error", err)
		})
		if err != nil {
			slog.Warn("config watch unavailable", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	return srv.Start()
}
