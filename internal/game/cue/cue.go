// Package cue carries fire-and-forget signals from the behavior engine to the
// animation and VFX layer. No engine state depends on their delivery.
package cue

import "go.uber.org/zap"

// Sink receives discrete presentation signals keyed by agent id.
type Sink interface {
	MovementSpeed(agentID string, speed float64)
	AttackTriggered(agentID string)
	DeathTriggered(agentID string)
	PoseFrozen(agentID string, frozen bool)
	DamageBlocked(agentID string, amount float64)
}

// Nop discards every signal.
type Nop struct{}

func (Nop) MovementSpeed(string, float64) {}
func (Nop) AttackTriggered(string)        {}
func (Nop) DeathTriggered(string)         {}
func (Nop) PoseFrozen(string, bool)       {}
func (Nop) DamageBlocked(string, float64) {}

// Logger writes every signal except MovementSpeed to a zap logger at debug level.
// MovementSpeed fires every tick and would drown the rest.
type Logger struct {
	log *zap.Logger
}

// NewLogger returns a Sink that logs to log.
//
// Precondition: log must be non-nil.
func NewLogger(log *zap.Logger) *Logger {
	return &Logger{log: log.Named("cue")}
}

func (l *Logger) MovementSpeed(string, float64) {}

func (l *Logger) AttackTriggered(agentID string) {
	l.log.Debug("attack triggered", zap.String("agent", agentID))
}

func (l *Logger) DeathTriggered(agentID string) {
	l.log.Info("death triggered", zap.String("agent", agentID))
}

func (l *Logger) PoseFrozen(agentID string, frozen bool) {
	l.log.Debug("pose latch", zap.String("agent", agentID), zap.Bool("frozen", frozen))
}

func (l *Logger) DamageBlocked(agentID string, amount float64) {
	l.log.Debug("damage blocked", zap.String("agent", agentID), zap.Float64("amount", amount))
}

// Fanout forwards every signal to each sink in order.
type Fanout []Sink

func (f Fanout) MovementSpeed(id string, speed float64) {
	for _, s := range f {
		s.MovementSpeed(id, speed)
	}
}

func (f Fanout) AttackTriggered(id string) {
	for _, s := range f {
		s.AttackTriggered(id)
	}
}

func (f Fanout) DeathTriggered(id string) {
	for _, s := range f {
		s.DeathTriggered(id)
	}
}

func (f Fanout) PoseFrozen(id string, frozen bool) {
	for _, s := range f {
		s.PoseFrozen(id, frozen)
	}
}

func (f Fanout) DamageBlocked(id string, amount float64) {
	for _, s := range f {
		s.DamageBlocked(id, amount)
	}
}
