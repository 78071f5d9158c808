// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/cellarium/sim"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration: the simulation parameter record plus the
// settings of the surrounding host layers.
type Config struct {
	Sim       sim.Params      `yaml:"simulation"`
	Runner    RunnerConfig    `yaml:"runner"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RunnerConfig holds background runner settings.
type RunnerConfig struct {
	// StartPaused makes the runner wait for an explicit unpause command.
	StartPaused bool `yaml:"start_paused"`
	// TargetTPS caps the tick rate; 0 runs unthrottled.
	TargetTPS int `yaml:"target_tps"`
}

// ServerConfig holds websocket host settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// BroadcastMillis is the snapshot broadcast cadence.
	BroadcastMillis int `yaml:"broadcast_millis"`
}

// TelemetryConfig holds stats collection settings.
type TelemetryConfig struct {
	// WindowTicks is how many ticks one stats window spans.
	WindowTicks int `yaml:"window_ticks"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into the same struct - only fields present in the
		// file overwrite the defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	// A bot must never be able to face its own cell, which requires at
	// least two cells along each axis.
	if c.Sim.Width < 2 || c.Sim.Height < 2 {
		return fmt.Errorf("config: field must be at least 2x2, got %dx%d", c.Sim.Width, c.Sim.Height)
	}
	if c.Sim.MutationPercent < 0 || c.Sim.MutationPercent > 100 {
		return fmt.Errorf("config: mutation_percent %.1f outside [0, 100]", c.Sim.MutationPercent)
	}
	if c.Telemetry.WindowTicks < 1 {
		return fmt.Errorf("config: telemetry window_ticks must be positive, got %d", c.Telemetry.WindowTicks)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
