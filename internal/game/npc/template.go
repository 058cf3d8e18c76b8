// Package npc provides hostile creature templates and the live agents built from them.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/hostile/internal/game/sensor"
)

// Locomotion kinds.
const (
	LocomotionWander = "wander"
	LocomotionPatrol = "patrol"
)

// Attack kinds.
const (
	AttackMelee     = "melee"
	AttackChanneled = "channeled"
)

// Senses holds the threat sensor ranges.
type Senses struct {
	ChaseRange  float64 `yaml:"chase_range"`
	AttackRange float64 `yaml:"attack_range"`
}

// LocomotionConfig selects and tunes the out-of-combat movement strategy.
type LocomotionConfig struct {
	Kind  string  `yaml:"kind"`
	Speed float64 `yaml:"speed"`
	// Wander settings.
	WanderRadius  float64 `yaml:"wander_radius"`
	MinWanderTime string  `yaml:"min_wander_time"`
	MaxWanderTime string  `yaml:"max_wander_time"`
	// Patrol settings. Routes are per spawn point.
	WaitAtPoint   string  `yaml:"wait_at_point"`
	ReachDistance float64 `yaml:"reach_distance"`
}

// AttackConfig selects and tunes the attack timing variant.
type AttackConfig struct {
	Kind     string  `yaml:"kind"`
	Damage   float64 `yaml:"damage"`
	Cooldown string  `yaml:"cooldown"`
	Delay    string  `yaml:"delay"`
	// Channeled settings.
	Window        string `yaml:"window"`
	PulseInterval string `yaml:"pulse_interval"`
}

// FacingConfig holds rotation rates in slerp factor per second and a fixed yaw offset.
type FacingConfig struct {
	LocomotionRate float64 `yaml:"locomotion_rate"`
	CombatRate     float64 `yaml:"combat_rate"`
	OffsetDegrees  float64 `yaml:"offset_degrees"`
}

// ImmunityConfig describes which incoming damage is rejected. Threshold > 0
// rejects any hit of at least that amount; Script is a Lua chunk defining
// rejects(amount) and takes precedence when set.
type ImmunityConfig struct {
	Threshold float64 `yaml:"threshold"`
	Script    string  `yaml:"script"`
}

// Template defines a reusable creature archetype loaded from YAML.
type Template struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	MaxHP       float64          `yaml:"max_hp"`
	Senses      Senses           `yaml:"senses"`
	ChaseSpeed  float64          `yaml:"chase_speed"`
	Locomotion  LocomotionConfig `yaml:"locomotion"`
	Attack      AttackConfig     `yaml:"attack"`
	Facing      FacingConfig     `yaml:"facing"`
	Immunity    *ImmunityConfig  `yaml:"immunity"`
	// DeathDestroyDelay is how long a corpse lingers before removal.
	DeathDestroyDelay string `yaml:"death_destroy_delay"`
	// RespawnDelay is the duration string (e.g. "30s") after removal before the
	// spawn point is refilled. Empty means the creature does not respawn.
	RespawnDelay string `yaml:"respawn_delay"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff every field is usable by NewAgent; returns an
// error on the first violation otherwise. Every non-empty duration string
// is guaranteed to parse.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.MaxHP <= 0 {
		return fmt.Errorf("npc template %q: max_hp must be > 0", t.ID)
	}
	if err := t.sensor().Validate(); err != nil {
		return fmt.Errorf("npc template %q: %w", t.ID, err)
	}
	if t.ChaseSpeed < 0 || t.Locomotion.Speed < 0 {
		return fmt.Errorf("npc template %q: speeds must be >= 0", t.ID)
	}
	for name, s := range map[string]string{
		"death_destroy_delay":        t.DeathDestroyDelay,
		"respawn_delay":              t.RespawnDelay,
		"locomotion.min_wander_time": t.Locomotion.MinWanderTime,
		"locomotion.max_wander_time": t.Locomotion.MaxWanderTime,
		"locomotion.wait_at_point":   t.Locomotion.WaitAtPoint,
		"attack.cooldown":            t.Attack.Cooldown,
		"attack.delay":               t.Attack.Delay,
		"attack.window":              t.Attack.Window,
		"attack.pulse_interval":      t.Attack.PulseInterval,
	} {
		if s == "" {
			continue
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("npc template %q: %s %q is not a valid duration: %w", t.ID, name, s, err)
		}
		if d < 0 {
			return fmt.Errorf("npc template %q: %s must not be negative", t.ID, name)
		}
	}
	switch t.Locomotion.Kind {
	case LocomotionWander:
		if t.Locomotion.WanderRadius <= 0 {
			return fmt.Errorf("npc template %q: locomotion.wander_radius must be > 0", t.ID)
		}
		if duration(t.Locomotion.MaxWanderTime) < duration(t.Locomotion.MinWanderTime) {
			return fmt.Errorf("npc template %q: locomotion.max_wander_time must be >= min_wander_time", t.ID)
		}
	case LocomotionPatrol:
		if t.Locomotion.ReachDistance <= 0 {
			return fmt.Errorf("npc template %q: locomotion.reach_distance must be > 0", t.ID)
		}
	default:
		return fmt.Errorf("npc template %q: unknown locomotion kind %q", t.ID, t.Locomotion.Kind)
	}
	if t.Attack.Damage < 0 {
		return fmt.Errorf("npc template %q: attack.damage must be >= 0", t.ID)
	}
	switch t.Attack.Kind {
	case AttackMelee:
		if duration(t.Attack.Cooldown) <= 0 {
			return fmt.Errorf("npc template %q: attack.cooldown must be > 0", t.ID)
		}
	case AttackChanneled:
		if duration(t.Attack.Window) <= 0 {
			return fmt.Errorf("npc template %q: attack.window must be > 0", t.ID)
		}
		if duration(t.Attack.PulseInterval) <= 0 {
			return fmt.Errorf("npc template %q: attack.pulse_interval must be > 0", t.ID)
		}
	default:
		return fmt.Errorf("npc template %q: unknown attack kind %q", t.ID, t.Attack.Kind)
	}
	if t.Immunity != nil && t.Immunity.Threshold < 0 {
		return fmt.Errorf("npc template %q: immunity.threshold must be >= 0", t.ID)
	}
	return nil
}

func (t *Template) sensor() sensor.Sensor {
	return sensor.Sensor{AttackRange: t.Senses.AttackRange, ChaseRange: t.Senses.ChaseRange}
}

// DestroyDelay returns the parsed death_destroy_delay; zero when unset.
func (t *Template) DestroyDelay() time.Duration { return duration(t.DeathDestroyDelay) }

// Respawn returns the parsed respawn_delay; zero means no respawn.
func (t *Template) Respawn() time.Duration { return duration(t.RespawnDelay) }

// duration parses a validated duration string; empty and malformed values read as zero.
func duration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// LoadTemplateFromBytes parses a single creature template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplateFile reads and parses one template file.
func LoadTemplateFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	tmpl, err := LoadTemplateFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading creature dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		tmpl, err := LoadTemplateFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
