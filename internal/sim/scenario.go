package sim

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/hostile/internal/game/geom"
	"github.com/cory-johannsen/hostile/internal/game/hazard"
	"github.com/cory-johannsen/hostile/internal/game/npc"
	"github.com/cory-johannsen/hostile/internal/game/player"
)

// Player actions a scenario can schedule.
const (
	ActionMove         = "move"
	ActionStrike       = "strike"
	ActionCast         = "cast"
	ActionStopCast     = "stop_cast"
	ActionBlock        = "block"
	ActionUnblock      = "unblock"
	ActionInvincible   = "invincible"
	ActionHeal         = "heal"
	ActionRestoreMagic = "restore_magic"
)

var validActions = map[string]bool{
	ActionMove: true, ActionStrike: true, ActionCast: true, ActionStopCast: true,
	ActionBlock: true, ActionUnblock: true, ActionInvincible: true,
	ActionHeal: true, ActionRestoreMagic: true,
}

// Area is a walkable rectangle on the ground plane.
type Area struct {
	MinX float64 `yaml:"min_x"`
	MinZ float64 `yaml:"min_z"`
	MaxX float64 `yaml:"max_x"`
	MaxZ float64 `yaml:"max_z"`
}

// Action is a scripted player input fired at a simulation time.
type Action struct {
	At     time.Duration `yaml:"at"`
	Do     string        `yaml:"do"`
	To     geom.Vec3     `yaml:"to"`
	Amount float64       `yaml:"amount"`
}

// Scenario is one level: walkable ground, the player, creature spawn points,
// hazards and a timeline of player actions.
type Scenario struct {
	Name             string
	GroundY          float64
	StoppingDistance float64
	AgentRadius      float64
	Areas            []Area
	PlayerPosition   geom.Vec3
	Player           player.Config
	SpawnPoints      []npc.SpawnPoint
	Hazards          []*hazard.Spikes
	Actions          []Action
}

// yamlScenarioFile is the top-level YAML structure for scenario files.
type yamlScenarioFile struct {
	Scenario yamlScenario `yaml:"scenario"`
}

type yamlScenario struct {
	Name             string           `yaml:"name"`
	GroundY          float64          `yaml:"ground_y"`
	StoppingDistance float64          `yaml:"stopping_distance"`
	AgentRadius      float64          `yaml:"agent_radius"`
	Areas            []Area           `yaml:"areas"`
	Player           yamlPlayer       `yaml:"player"`
	SpawnPoints      []yamlSpawnPoint `yaml:"spawn_points"`
	Hazards          []*hazard.Spikes `yaml:"hazards"`
	Actions          []Action         `yaml:"actions"`
}

type yamlPlayer struct {
	Position geom.Vec3 `yaml:"position"`
	// Stats overrides individual fields of player.DefaultConfig.
	Stats yaml.Node `yaml:"stats"`
}

type yamlSpawnPoint struct {
	Name     string      `yaml:"name"`
	Template string      `yaml:"template"`
	Position geom.Vec3   `yaml:"position"`
	Route    []geom.Vec3 `yaml:"route"`
}

// LoadScenarioFromFile reads and validates a scenario YAML file.
//
// Precondition: path must point to a valid YAML scenario file.
// Postcondition: Returns a validated Scenario or a non-nil error.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file %s: %w", path, err)
	}
	return LoadScenarioFromBytes(data)
}

// LoadScenarioFromBytes parses and validates a scenario from YAML bytes.
//
// Postcondition: Returns a validated Scenario or a non-nil error.
func LoadScenarioFromBytes(data []byte) (*Scenario, error) {
	var file yamlScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	sc, err := convertYAMLScenario(file.Scenario)
	if err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}
	return sc, nil
}

func convertYAMLScenario(ys yamlScenario) (*Scenario, error) {
	cfg := player.DefaultConfig()
	if !ys.Player.Stats.IsZero() {
		if err := ys.Player.Stats.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parsing player stats: %w", err)
		}
	}
	points := make([]npc.SpawnPoint, 0, len(ys.SpawnPoints))
	for _, p := range ys.SpawnPoints {
		points = append(points, npc.SpawnPoint{
			Name:       p.Name,
			TemplateID: p.Template,
			Position:   p.Position,
			Route:      p.Route,
		})
	}
	return &Scenario{
		Name:             ys.Name,
		GroundY:          ys.GroundY,
		StoppingDistance: ys.StoppingDistance,
		AgentRadius:      ys.AgentRadius,
		Areas:            ys.Areas,
		PlayerPosition:   ys.Player.Position,
		Player:           cfg,
		SpawnPoints:      points,
		Hazards:          ys.Hazards,
		Actions:          ys.Actions,
	}, nil
}

// Validate checks structural invariants. Template references are checked
// when the World is built.
//
// Postcondition: Returns nil if valid, or the first violation.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario name must not be empty")
	}
	if s.Player.MaxHP <= 0 {
		return fmt.Errorf("player max_hp must be > 0, got %v", s.Player.MaxHP)
	}
	if s.Player.Gauntlet.PulseInterval <= 0 {
		return fmt.Errorf("player gauntlet pulse_interval must be > 0, got %v", s.Player.Gauntlet.PulseInterval)
	}
	if s.AgentRadius < 0 {
		return fmt.Errorf("agent_radius must be >= 0, got %v", s.AgentRadius)
	}
	seen := make(map[string]bool, len(s.SpawnPoints))
	for i, p := range s.SpawnPoints {
		if p.Name == "" {
			return fmt.Errorf("spawn point %d: name must not be empty", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate spawn point %q", p.Name)
		}
		seen[p.Name] = true
		if p.TemplateID == "" {
			return fmt.Errorf("spawn point %q: template must not be empty", p.Name)
		}
	}
	for i, h := range s.Hazards {
		if h == nil || h.Radius <= 0 {
			return fmt.Errorf("hazard %d: radius must be > 0", i)
		}
		if h.Period < 0 || h.Duty < 0 {
			return fmt.Errorf("hazard %q: period and duty must not be negative", h.Name)
		}
	}
	for i, a := range s.Actions {
		if !validActions[a.Do] {
			return fmt.Errorf("action %d: unknown action %q", i, a.Do)
		}
		if a.At < 0 {
			return fmt.Errorf("action %d: at must not be negative", i)
		}
	}
	return nil
}
