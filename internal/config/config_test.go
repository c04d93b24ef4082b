package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenetest.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	if cfg.Target != "default" {
		t.Errorf("expected target default, got %q", cfg.Target)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 7341 {
		t.Errorf("unexpected server defaults %+v", cfg.Server)
	}
	if cfg.Wait.Timeout != 5*time.Second || cfg.Wait.Interval != 100*time.Millisecond {
		t.Errorf("unexpected wait defaults %+v", cfg.Wait)
	}
	if cfg.Wait.StableChecks != 3 || cfg.Wait.IdleFrames != 10 {
		t.Errorf("unexpected stability defaults %+v", cfg.Wait)
	}
	if cfg.Assert.Tolerance != 0.01 || cfg.Assert.BoundsTolerance != 0.1 || cfg.Assert.FarTolerance != 1.0 {
		t.Errorf("unexpected tolerance defaults %+v", cfg.Assert)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate, got %v", err)
	}
}

func TestLoadConfig_OverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
target: editor
server:
  port: 9000
wait:
  timeout: 12s
logging:
  level: debug
  format: json
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Target != "editor" {
		t.Errorf("expected target editor, got %q", cfg.Target)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected unset host to keep its default, got %q", cfg.Server.Host)
	}
	if cfg.Wait.Timeout != 12*time.Second {
		t.Errorf("expected 12s timeout, got %s", cfg.Wait.Timeout)
	}
	if cfg.Wait.Interval != 100*time.Millisecond {
		t.Errorf("expected unset interval to keep its default, got %s", cfg.Wait.Interval)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "target: [unclosed")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad port", "server:\n  port: 70000\n"},
		{"zero timeout", "wait:\n  timeout: 0s\n"},
		{"bad level", "logging:\n  level: verbose\n"},
		{"bad format", "logging:\n  format: xml\n"},
		{"negative tolerance", "assert:\n  tolerance: -0.5\n"},
	}
	for _, tc := range cases {
		path := writeConfig(t, tc.content)
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}

func TestLoadOrDefault_NoPath(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7341 {
		t.Errorf("expected defaults, got port %d", cfg.Server.Port)
	}
}

func TestLoadOrDefault_MissingPathFallsBack(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Target != "default" {
		t.Errorf("expected defaults, got %q", cfg.Target)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCENETEST_TARGET", "staging")
	t.Setenv("SCENETEST_HOST", "0.0.0.0")
	t.Setenv("SCENETEST_PORT", "8080")
	t.Setenv("SCENETEST_TIMEOUT", "30s")
	t.Setenv("SCENETEST_LOG_LEVEL", "warn")

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Target != "staging" {
		t.Errorf("expected env target, got %q", cfg.Target)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("expected env server overrides, got %+v", cfg.Server)
	}
	if cfg.Wait.Timeout != 30*time.Second {
		t.Errorf("expected env timeout, got %s", cfg.Wait.Timeout)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected env log level, got %q", cfg.Logging.Level)
	}
}

func TestEnvOverrides_InvalidPortIgnored(t *testing.T) {
	t.Setenv("SCENETEST_PORT", "not-a-port")
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7341 {
		t.Errorf("expected the default port to survive a bad override, got %d", cfg.Server.Port)
	}
}

func TestNormalize(t *testing.T) {
	cfg := NewConfig()
	cfg.Target = "  spaced  "
	cfg.Logging.Level = " INFO "
	cfg.Logging.Format = ""
	cfg.Normalize()
	if cfg.Target != "spaced" {
		t.Errorf("expected trimmed target, got %q", cfg.Target)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected lowercased level, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected text fallback, got %q", cfg.Logging.Format)
	}

	cfg.Target = "   "
	cfg.Normalize()
	if cfg.Target != "default" {
		t.Errorf("expected empty target to fall back to default, got %q", cfg.Target)
	}
}

func TestResolveConfigPath_EnvWins(t *testing.T) {
	t.Setenv("SCENETEST_CONFIG", "/etc/scenetest/custom.yaml")
	if path := ResolveConfigPath(); path != "/etc/scenetest/custom.yaml" {
		t.Errorf("expected env path, got %q", path)
	}
}
