// Package config provides Viper-based configuration loading for the simulation host.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimulationConfig holds the frame loop settings.
type SimulationConfig struct {
	// TickInterval is the simulated time advanced per frame.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// Duration is the total simulated time to run; zero runs until interrupted.
	Duration time.Duration `mapstructure:"duration"`
	// RealTime paces frames against the wall clock instead of running flat out.
	RealTime bool `mapstructure:"real_time"`
	// Seed fixes the wander randomness; zero draws from crypto/rand.
	Seed uint64 `mapstructure:"seed"`
	// StatusInterval is the simulated time between status log lines; zero disables them.
	StatusInterval time.Duration `mapstructure:"status_interval"`
}

// ContentConfig locates creature templates and the level scenario.
type ContentConfig struct {
	CreaturesDir string `mapstructure:"creatures_dir"`
	ScenarioPath string `mapstructure:"scenario_path"`
	// Watch hot-reloads creature templates when their files change.
	Watch bool `mapstructure:"watch"`
}

// ScriptingConfig holds Lua sandbox settings.
type ScriptingConfig struct {
	// InstructionLimit caps opcodes per script call; 0 uses the sandbox default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Content    ContentConfig    `mapstructure:"content"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.tick_interval must be > 0, got %s", s.TickInterval))
	}
	if s.Duration < 0 {
		errs = append(errs, "simulation.duration must not be negative")
	}
	if s.StatusInterval < 0 {
		errs = append(errs, "simulation.status_interval must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.CreaturesDir == "" {
		return errors.New("content.creatures_dir must not be empty")
	}
	if c.ScenarioPath == "" {
		return errors.New("content.scenario_path must not be empty")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with HOSTILE_ prefix
	v.SetEnvPrefix("HOSTILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("simulation.tick_interval", "20ms")
	v.SetDefault("simulation.duration", "60s")
	v.SetDefault("simulation.real_time", false)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.status_interval", "5s")

	v.SetDefault("content.creatures_dir", "content/creatures")
	v.SetDefault("content.scenario_path", "content/scenarios/arena.yaml")
	v.SetDefault("content.watch", false)

	v.SetDefault("scripting.instruction_limit", 0)
}
