// Package damage defines the contract every combat participant implements and
// the HP pool with optional immunity that backs it.
package damage

// Damageable is implemented by every entity that can receive damage: the
// player and every NPC variant. Attackers depend only on this interface.
type Damageable interface {
	// TakeDamage applies amount. Amounts <= 0 and calls after death are no-ops.
	TakeDamage(amount float64)
	// IsAlive reports whether the entity has HP remaining.
	IsAlive() bool
	// CurrentHP returns the current hit points, in [0, MaxHP()].
	CurrentHP() float64
	// MaxHP returns the maximum hit points.
	MaxHP() float64
}

// Rule decides whether an incoming hit is ignored entirely.
type Rule interface {
	// Rejects reports true when amount must not be applied.
	Rejects(amount float64) bool
}

// RuleFunc adapts a plain predicate into a Rule.
type RuleFunc func(amount float64) bool

// Rejects calls f(amount).
func (f RuleFunc) Rejects(amount float64) bool { return f(amount) }

// Threshold rejects any hit whose amount is >= Min. Heavy hits are treated as
// physical and light hits as magic, so a creature with a Threshold rule can
// only be worn down by low-damage sources.
type Threshold struct {
	Min float64
}

// Rejects reports amount >= t.Min.
func (t Threshold) Rejects(amount float64) bool { return amount >= t.Min }
