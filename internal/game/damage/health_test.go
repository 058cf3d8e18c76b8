package damage_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hostile/internal/game/damage"
)

func TestHealth_SequenceToDeath(t *testing.T) {
	h := damage.NewHealth(50, nil)

	assert.Equal(t, damage.Applied, h.Apply(20))
	assert.Equal(t, 30.0, h.CurrentHP())
	assert.Equal(t, damage.Applied, h.Apply(20))
	assert.Equal(t, 10.0, h.CurrentHP())
	assert.Equal(t, damage.Killed, h.Apply(20))
	assert.Equal(t, 0.0, h.CurrentHP())
	assert.False(t, h.IsAlive())
}

func TestHealth_NonPositiveAmountIgnored(t *testing.T) {
	h := damage.NewHealth(10, nil)
	assert.Equal(t, damage.Ignored, h.Apply(0))
	assert.Equal(t, damage.Ignored, h.Apply(-5))
	assert.Equal(t, 10.0, h.CurrentHP())
}

func TestHealth_ThresholdRule(t *testing.T) {
	h := damage.NewHealth(50, damage.Threshold{Min: 10})

	assert.Equal(t, damage.Blocked, h.Apply(10.0))
	assert.Equal(t, 50.0, h.CurrentHP())

	assert.Equal(t, damage.Applied, h.Apply(9.99))
	assert.InDelta(t, 40.01, h.CurrentHP(), 1e-9)
}

func TestHealth_RuleFunc(t *testing.T) {
	h := damage.NewHealth(10, damage.RuleFunc(func(a float64) bool { return a < 1 }))
	assert.Equal(t, damage.Blocked, h.Apply(0.5))
	assert.Equal(t, damage.Applied, h.Apply(2))
}

func TestHealth_HealClamps(t *testing.T) {
	h := damage.NewHealth(10, nil)
	h.Apply(4)
	h.Heal(100)
	assert.Equal(t, 10.0, h.CurrentHP())
	h.Apply(10)
	h.Heal(5)
	assert.Equal(t, 0.0, h.CurrentHP(), "heal must not revive")
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "killed", damage.Killed.String())
	assert.Equal(t, "outcome(9)", damage.Outcome(9).String())
}

func TestProperty_Health_ClampLaw(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		max := rapid.Float64Range(1, 1000).Draw(rt, "max")
		h := damage.NewHealth(max, nil)
		hits := rapid.SliceOfN(rapid.Float64Range(0.001, 500), 1, 20).Draw(rt, "hits")
		for _, d := range hits {
			if !h.IsAlive() {
				break
			}
			before := h.CurrentHP()
			h.Apply(d)
			want := math.Max(0, math.Min(max, before-d))
			assert.InDelta(rt, want, h.CurrentHP(), 1e-9)
		}
	})
}

func TestProperty_Health_DeathIsTerminal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := damage.NewHealth(rapid.Float64Range(1, 100).Draw(rt, "max"), nil)
		require.Equal(rt, damage.Killed, h.Apply(1e6))
		extra := rapid.SliceOf(rapid.Float64Range(-100, 100)).Draw(rt, "extra")
		for _, d := range extra {
			assert.Equal(rt, damage.Ignored, h.Apply(d))
			h.Heal(d)
		}
		assert.Equal(rt, 0.0, h.CurrentHP())
		assert.False(rt, h.IsAlive())
	})
}
