// Package player models the hunted entity: a damageable with defensive
// states, a magic pool, an area melee strike and a channeled gauntlet.
package player

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hostile/internal/game/combat"
	"github.com/cory-johannsen/hostile/internal/game/damage"
	"github.com/cory-johannsen/hostile/internal/game/geom"
)

// StrikeConfig tunes the melee swing.
type StrikeConfig struct {
	Damage   float64       `yaml:"damage"`
	Range    float64       `yaml:"range"`
	Delay    time.Duration `yaml:"delay"`
	Cooldown time.Duration `yaml:"cooldown"`
}

// GauntletConfig tunes the channeled spell and the invincibility ability.
type GauntletConfig struct {
	PulseDamage        float64       `yaml:"pulse_damage"`
	PulseInterval      time.Duration `yaml:"pulse_interval"`
	Reach              float64       `yaml:"reach"`
	MagicDrainPerSec   float64       `yaml:"magic_drain_per_second"`
	InvincibilityLasts time.Duration `yaml:"invincibility_duration"`
}

// Config holds the player's stats.
type Config struct {
	MaxHP    float64 `yaml:"max_hp"`
	MaxMagic float64 `yaml:"max_magic"`
	// InvulnerabilityWindow ignores hits landing this soon after the last one.
	InvulnerabilityWindow time.Duration `yaml:"invulnerability_window"`
	// BlockReduction is the fraction of damage taken while blocking; 0 blocks everything.
	BlockReduction float64        `yaml:"block_reduction"`
	Strike         StrikeConfig   `yaml:"strike"`
	Gauntlet       GauntletConfig `yaml:"gauntlet"`
}

// DefaultConfig returns the stock player loadout.
func DefaultConfig() Config {
	return Config{
		MaxHP:                 100,
		MaxMagic:              100,
		InvulnerabilityWindow: 500 * time.Millisecond,
		BlockReduction:        0,
		Strike: StrikeConfig{
			Damage:   50,
			Range:    2.5,
			Delay:    300 * time.Millisecond,
			Cooldown: time.Second,
		},
		Gauntlet: GauntletConfig{
			PulseDamage:        2,
			PulseInterval:      100 * time.Millisecond,
			Reach:              6,
			MagicDrainPerSec:   10,
			InvincibilityLasts: 3 * time.Second,
		},
	}
}

// Player is the target the hostile agents hunt.
type Player struct {
	id    string
	cfg   Config
	sched *combat.Scheduler
	log   *zap.Logger

	health          *damage.Health
	magic           float64
	pos             geom.Vec3
	blocking        bool
	invincible      bool
	invincibleUntil time.Duration
	lastHit         time.Duration
	everHit         bool

	lastStrike time.Duration
	struck     bool
	swing      *combat.Task
	channel    *combat.Channel
}

// New returns a Player at pos with full health and magic.
//
// Precondition: sched must be non-nil; cfg.MaxHP > 0; cfg.Gauntlet.PulseInterval > 0.
func New(id string, pos geom.Vec3, cfg Config, sched *combat.Scheduler, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		id:     id,
		cfg:    cfg,
		sched:  sched,
		log:    log.With(zap.String("player", id)),
		health: damage.NewHealth(cfg.MaxHP, nil),
		magic:  cfg.MaxMagic,
		pos:    pos,
	}
}

// TakeDamage implements damage.Damageable. Invincibility wins over the
// invulnerability window, which wins over blocking.
func (p *Player) TakeDamage(amount float64) {
	if !p.health.IsAlive() || amount <= 0 {
		return
	}
	if p.Invincible() {
		p.log.Debug("invincible; no damage taken", zap.Float64("amount", amount))
		return
	}
	now := p.sched.Now()
	if p.everHit && now-p.lastHit < p.cfg.InvulnerabilityWindow {
		return
	}
	if p.blocking {
		amount *= p.cfg.BlockReduction
		if amount <= 0 {
			p.log.Debug("blocked; no damage taken")
			return
		}
		p.log.Debug("blocked; damage reduced", zap.Float64("amount", amount))
	}
	p.lastHit = now
	p.everHit = true
	if p.health.Apply(amount) == damage.Killed {
		p.StopCast()
		p.log.Info("player died")
		return
	}
	p.log.Debug("player hit", zap.Float64("amount", amount), zap.Float64("hp", p.health.CurrentHP()))
}

func (p *Player) IsAlive() bool      { return p.health.IsAlive() }
func (p *Player) CurrentHP() float64 { return p.health.CurrentHP() }
func (p *Player) MaxHP() float64     { return p.health.MaxHP() }

// Heal restores amount HP up to the maximum. No effect once dead.
func (p *Player) Heal(amount float64) { p.health.Heal(amount) }

// ID returns the player's id.
func (p *Player) ID() string { return p.id }

// Position returns the current position.
func (p *Player) Position() geom.Vec3 { return p.pos }

// MoveTo places the player at pos.
func (p *Player) MoveTo(pos geom.Vec3) { p.pos = pos }

// SetBlocking raises or lowers the guard.
func (p *Player) SetBlocking(b bool) { p.blocking = b }

// Blocking reports whether the guard is raised.
func (p *Player) Blocking() bool { return p.blocking }

// SetInvincible toggles permanent invincibility.
func (p *Player) SetInvincible(b bool) { p.invincible = b }

// Invincible reports whether damage is currently ignored outright.
func (p *Player) Invincible() bool {
	return p.invincible || p.sched.Now() < p.invincibleUntil
}

// Magic returns the current magic pool.
func (p *Player) Magic() float64 { return p.magic }

// UseMagic spends amount if the pool holds at least that much.
//
// Postcondition: returns false and leaves the pool unchanged when it is short.
func (p *Player) UseMagic(amount float64) bool {
	if amount < 0 || p.magic < amount {
		return false
	}
	p.magic -= amount
	return true
}

// RestoreMagic refills amount, capped at the maximum.
func (p *Player) RestoreMagic(amount float64) {
	if amount <= 0 {
		return
	}
	p.magic = math.Min(p.magic+amount, p.cfg.MaxMagic)
}
