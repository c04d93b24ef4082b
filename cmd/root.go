package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glassbox3d/scenetest/internal/bridge"
	"github.com/glassbox3d/scenetest/internal/bridgehttp"
	"github.com/glassbox3d/scenetest/internal/config"
	"github.com/glassbox3d/scenetest/internal/fixture"
	"github.com/glassbox3d/scenetest/internal/logger"
	"github.com/glassbox3d/scenetest/internal/match"
	"github.com/glassbox3d/scenetest/internal/output"
	"github.com/glassbox3d/scenetest/internal/query"
	"github.com/glassbox3d/scenetest/internal/version"
	"github.com/glassbox3d/scenetest/internal/wait"
)

var rootCmd = &cobra.Command{
	Use:   "scenetest",
	Short: "Query, wait on, and assert against a live 3D scene graph",
	Long:  "A CLI for end-to-end testing GPU-rendered 3D applications: query the scene graph, auto-wait on render conditions, diff snapshots, assert object state, and dispatch simulated interactions.",
}

// cfg is the loaded configuration, available to all commands after the
// persistent pre-run.
var cfg *config.Config

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("target", "", "Bridge instance name (default: from config)")
	rootCmd.PersistentFlags().String("relay", "", "Relay server URL (default: from config)")
	rootCmd.PersistentFlags().String("config", "", "Path to scenetest.yaml")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		path, _ := rootCmd.PersistentFlags().GetString("config")
		if path == "" {
			path = config.ResolveConfigPath()
		}
		loaded, err := config.LoadOrDefault(path)
		if err != nil {
			return err
		}
		cfg = loaded

		if err := logger.Init(
			logger.LevelFromString(cfg.Logging.Level),
			logger.Format(cfg.Logging.Format),
			cfg.Logging.Path,
		); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}

		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml", "":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if pretty, err := rootCmd.PersistentFlags().GetBool("pretty"); err == nil && pretty {
			output.PrettyOutput = true
		}
		return nil
	}
}

// targetName resolves the bridge instance for this invocation: the
// --target flag, then config, then the default key.
func targetName() string {
	if t, _ := rootCmd.PersistentFlags().GetString("target"); t != "" {
		return t
	}
	if cfg != nil && cfg.Target != "" {
		return cfg.Target
	}
	return bridge.DefaultKey
}

// relayURL resolves the relay base URL from the --relay flag or config.
func relayURL() string {
	if u, _ := rootCmd.PersistentFlags().GetString("relay"); u != "" {
		return u
	}
	return fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
}

func bridgeFor() bridge.Bridge {
	return bridgehttp.NewRemoteBridge(relayURL(), targetName())
}

func sessionFor() *query.Session {
	return query.New(targetName(), bridgeFor())
}

func engineFor() *wait.Engine {
	return wait.NewEngine(targetName(), bridgeFor(), nil)
}

func evaluatorFor() *match.Evaluator {
	return match.NewEvaluator(sessionFor(), nil)
}

func fixtureFor(opts wait.Options) *fixture.Fixture {
	return fixture.New(targetName(), bridgeFor(), fixture.WithWaitOptions(opts))
}

// configWaitOptions returns the config-level wait defaults; flag values
// layer on top in the individual commands.
func configWaitOptions() wait.Options {
	return wait.Options{
		Timeout:      cfg.Wait.Timeout,
		Interval:     cfg.Wait.Interval,
		StableChecks: cfg.Wait.StableChecks,
		IdleFrames:   cfg.Wait.IdleFrames,
	}
}
