package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the scenetest CLI and relay server.
type Config struct {
	Target  string  `yaml:"target"`
	Server  Server  `yaml:"server"`
	Wait    Wait    `yaml:"wait"`
	Assert  Assert  `yaml:"assert"`
	Logging Logging `yaml:"logging"`
}

// Server configures the relay daemon the application under test attaches to.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Wait configures auto-wait polling defaults.
type Wait struct {
	Timeout      time.Duration `yaml:"timeout"`
	Interval     time.Duration `yaml:"interval"`
	StableChecks int           `yaml:"stableChecks"`
	IdleFrames   int           `yaml:"idleFrames"`
}

// UnmarshalYAML accepts durations in time.ParseDuration form ("5s",
// "100ms") and leaves omitted fields at their prior values.
func (w *Wait) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Timeout      *string `yaml:"timeout"`
		Interval     *string `yaml:"interval"`
		StableChecks *int    `yaml:"stableChecks"`
		IdleFrames   *int    `yaml:"idleFrames"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Timeout != nil {
		d, err := time.ParseDuration(*raw.Timeout)
		if err != nil {
			return fmt.Errorf("wait.timeout: %w", err)
		}
		w.Timeout = d
	}
	if raw.Interval != nil {
		d, err := time.ParseDuration(*raw.Interval)
		if err != nil {
			return fmt.Errorf("wait.interval: %w", err)
		}
		w.Interval = d
	}
	if raw.StableChecks != nil {
		w.StableChecks = *raw.StableChecks
	}
	if raw.IdleFrames != nil {
		w.IdleFrames = *raw.IdleFrames
	}
	return nil
}

// Assert configures matcher tolerance defaults.
type Assert struct {
	Tolerance       float64 `yaml:"tolerance"`
	BoundsTolerance float64 `yaml:"boundsTolerance"`
	FarTolerance    float64 `yaml:"farTolerance"`
}

// Logging configures structured log output.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Target: "default",
		Server: Server{
			Host: "localhost",
			Port: 7341,
		},
		Wait: Wait{
			Timeout:      5 * time.Second,
			Interval:     100 * time.Millisecond,
			StableChecks: 3,
			IdleFrames:   10,
		},
		Assert: Assert{
			Tolerance:       0.01,
			BoundsTolerance: 0.1,
			FarTolerance:    1.0,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads the configuration from a YAML file, applying defaults
// for any field the file omits and environment overrides on top.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads the config at path if it exists, otherwise returns
// defaults with environment overrides applied.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}
	cfg := NewConfig()
	applyEnvOverrides(cfg)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if target := os.Getenv("SCENETEST_TARGET"); target != "" {
		cfg.Target = target
	}

	if host := os.Getenv("SCENETEST_HOST"); host != "" {
		cfg.Server.Host = host
	}

	if portStr := os.Getenv("SCENETEST_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Server.Port = port
		} else {
			log.Printf("warning: ignoring invalid SCENETEST_PORT value %q: %v", portStr, err)
		}
	}

	if timeoutStr := os.Getenv("SCENETEST_TIMEOUT"); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil {
			cfg.Wait.Timeout = d
		} else {
			log.Printf("warning: ignoring invalid SCENETEST_TIMEOUT value %q: %v", timeoutStr, err)
		}
	}

	if logLevel := os.Getenv("SCENETEST_LOG_LEVEL"); logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if logPath := os.Getenv("SCENETEST_LOG_PATH"); logPath != "" {
		cfg.Logging.Path = logPath
	}
}

// Normalize canonicalizes config values so downstream validation and runtime
// logic operate on stable representations.
func (c *Config) Normalize() {
	c.Target = strings.TrimSpace(c.Target)
	if c.Target == "" {
		c.Target = "default"
	}
	c.Server.Host = strings.TrimSpace(c.Server.Host)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Path = strings.TrimSpace(c.Logging.Path)
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid port number")
	}

	if c.Server.Host == "" {
		return errors.New("host cannot be empty")
	}

	if c.Wait.Timeout <= 0 {
		return errors.New("wait timeout must be positive")
	}

	if c.Wait.Interval <= 0 {
		return errors.New("wait interval must be positive")
	}

	if c.Wait.StableChecks < 1 {
		return errors.New("stableChecks must be at least 1")
	}

	if c.Wait.IdleFrames < 1 {
		return errors.New("idleFrames must be at least 1")
	}

	if c.Assert.Tolerance < 0 || c.Assert.BoundsTolerance < 0 || c.Assert.FarTolerance < 0 {
		return errors.New("tolerances cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format %q", c.Logging.Format)
	}

	return nil
}

// ResolveConfigPath returns the path that should be used for configuration,
// or "" when no config file is present anywhere.
func ResolveConfigPath() string {
	if path := strings.TrimSpace(os.Getenv("SCENETEST_CONFIG")); path != "" {
		return path
	}

	if _, err := os.Stat("scenetest.yaml"); err == nil {
		return "scenetest.yaml"
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}

	candidate := filepath.Join(home, ".scenetest", "scenetest.yaml")
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}
