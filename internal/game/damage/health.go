package damage

import "fmt"

// Outcome classifies the effect of a single Apply call.
type Outcome int

const (
	// Ignored means the call had no effect (non-positive amount or already dead).
	Ignored Outcome = iota
	// Blocked means the immunity rule rejected the hit.
	Blocked
	// Applied means HP was reduced and the owner is still alive.
	Applied
	// Killed means this hit reduced HP to zero. Returned at most once.
	Killed
)

// String returns a lowercase name for o.
func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Blocked:
		return "blocked"
	case Applied:
		return "applied"
	case Killed:
		return "killed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Health is an HP pool with a monotonic death latch and an optional immunity rule.
//
// Invariant: 0 <= current <= max; dead never reverts to false.
type Health struct {
	max     float64
	current float64
	dead    bool
	rule    Rule
}

// NewHealth returns a full pool of max HP. rule may be nil.
//
// Precondition: max > 0.
// Postcondition: CurrentHP() == MaxHP() == max.
func NewHealth(max float64, rule Rule) *Health {
	return &Health{max: max, current: max, rule: rule}
}

// Apply subtracts amount from the pool and reports what happened.
//
// Postcondition: CurrentHP() is clamped to [0, MaxHP()]; Killed is returned
// exactly once, on the hit that brings HP to zero.
func (h *Health) Apply(amount float64) Outcome {
	if h.dead || amount <= 0 {
		return Ignored
	}
	if h.rule != nil && h.rule.Rejects(amount) {
		return Blocked
	}
	h.current = clamp(h.current-amount, 0, h.max)
	if h.current == 0 {
		h.dead = true
		return Killed
	}
	return Applied
}

// Heal restores amount HP, clamped to MaxHP. No-op when dead or amount <= 0.
func (h *Health) Heal(amount float64) {
	if h.dead || amount <= 0 {
		return
	}
	h.current = clamp(h.current+amount, 0, h.max)
}

// TakeDamage implements Damageable.
func (h *Health) TakeDamage(amount float64) { h.Apply(amount) }

// IsAlive implements Damageable.
func (h *Health) IsAlive() bool { return !h.dead }

// CurrentHP implements Damageable.
func (h *Health) CurrentHP() float64 { return h.current }

// MaxHP implements Damageable.
func (h *Health) MaxHP() float64 { return h.max }

// Fraction returns CurrentHP / MaxHP, or 0 when MaxHP is not positive.
func (h *Health) Fraction() float64 {
	if h.max <= 0 {
		return 0
	}
	return h.current / h.max
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
