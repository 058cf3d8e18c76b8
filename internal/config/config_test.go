package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Simulation: SimulationConfig{
			TickInterval:   20 * time.Millisecond,
			Duration:       time.Minute,
			StatusInterval: 5 * time.Second,
		},
		Content: ContentConfig{
			CreaturesDir: "content/creatures",
			ScenarioPath: "content/scenarios/arena.yaml",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
simulation:
  tick_interval: 50ms
  duration: 10s
  seed: 42
content:
  creatures_dir: /tmp/creatures
  scenario_path: /tmp/arena.yaml
  watch: true
scripting:
  instruction_limit: 5000
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 50*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, 10*time.Second, cfg.Simulation.Duration)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.Equal(t, 5*time.Second, cfg.Simulation.StatusInterval, "default applies")
	assert.True(t, cfg.Content.Watch)
	assert.Equal(t, 5000, cfg.Scripting.InstructionLimit)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0644))
	t.Setenv("HOSTILE_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := LoadFromViper(Defaults())
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, cfg.Simulation.TickInterval)
	assert.Equal(t, "content/creatures", cfg.Content.CreaturesDir)
}

func TestValidateLoggingLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateContentPaths(t *testing.T) {
	cfg := validConfig()
	cfg.Content.CreaturesDir = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Content.ScenarioPath = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateCollectsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "loud"
	cfg.Simulation.TickInterval = 0
	cfg.Scripting.InstructionLimit = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "simulation.tick_interval")
	assert.Contains(t, err.Error(), "scripting.instruction_limit")
}

// Property-based tests

func TestPropertyPositiveTickIntervalAccepted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ms := rapid.IntRange(1, 10_000).Draw(t, "ms")
		cfg := validConfig()
		cfg.Simulation.TickInterval = time.Duration(ms) * time.Millisecond
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid tick interval %dms rejected: %v", ms, err)
		}
	})
}

func TestPropertyNonPositiveTickIntervalRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ms := rapid.IntRange(-10_000, 0).Draw(t, "ms")
		cfg := validConfig()
		cfg.Simulation.TickInterval = time.Duration(ms) * time.Millisecond
		if err := cfg.Validate(); err == nil {
			t.Fatalf("tick interval %dms accepted", ms)
		}
	})
}

func TestPropertyNegativeInstructionLimitRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(-1_000_000, -1).Draw(t, "limit")
		cfg := validConfig()
		cfg.Scripting.InstructionLimit = limit
		if err := cfg.Validate(); err == nil {
			t.Fatalf("instruction limit %d accepted", limit)
		}
	})
}
