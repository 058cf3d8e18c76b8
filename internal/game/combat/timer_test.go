package combat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hostile/internal/game/combat"
)

func TestScheduler_Fires(t *testing.T) {
	s := combat.NewScheduler()
	called := 0
	s.After("a", 200*time.Millisecond, func() { called++ })

	s.Advance(100 * time.Millisecond)
	assert.Equal(t, 0, called)
	s.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, called)
	s.Advance(time.Second)
	assert.Equal(t, 1, called, "tasks fire once")
}

func TestScheduler_Cancel_PreventsCallback(t *testing.T) {
	s := combat.NewScheduler()
	called := false
	task := s.After("a", 50*time.Millisecond, func() { called = true })
	task.Cancel()
	task.Cancel()
	s.Advance(time.Second)
	assert.False(t, called)
	assert.True(t, task.Done())
}

func TestScheduler_NowInsideCallbackIsDueTime(t *testing.T) {
	s := combat.NewScheduler()
	var seen time.Duration
	s.After("a", 250*time.Millisecond, func() { seen = s.Now() })
	s.Advance(time.Second)
	assert.Equal(t, 250*time.Millisecond, seen)
	assert.Equal(t, time.Second, s.Now())
}

func TestScheduler_ChainedTasksKeepExactTiming(t *testing.T) {
	s := combat.NewScheduler()
	var second time.Duration
	s.After("a", 500*time.Millisecond, func() {
		s.After("a", 3*time.Second, func() { second = s.Now() })
	})
	for i := 0; i < 50; i++ {
		s.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 3500*time.Millisecond, second)
}

func TestScheduler_CancelOwner(t *testing.T) {
	s := combat.NewScheduler()
	fired := map[string]int{}
	s.After("a", time.Second, func() { fired["a"]++ })
	s.After("a", 2*time.Second, func() { fired["a"]++ })
	s.After("b", time.Second, func() { fired["b"]++ })

	assert.Equal(t, 2, s.Pending("a"))
	assert.Equal(t, 2, s.CancelOwner("a"))
	assert.Equal(t, 0, s.Pending("a"))
	assert.Equal(t, 1, s.Len())

	s.Advance(5 * time.Second)
	assert.Equal(t, 0, fired["a"])
	assert.Equal(t, 1, fired["b"])
}

func TestScheduler_CallbackCancelsSibling(t *testing.T) {
	s := combat.NewScheduler()
	var later *combat.Task
	fired := false
	s.After("a", time.Second, func() { later.Cancel() })
	later = s.After("a", time.Second, func() { fired = true })
	s.Advance(time.Second)
	assert.False(t, fired)
}

func TestProperty_Scheduler_FiresInDueOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := combat.NewScheduler()
		delays := rapid.SliceOfN(rapid.IntRange(0, 5000), 1, 30).Draw(rt, "delays")
		var order []time.Duration
		for _, d := range delays {
			d := time.Duration(d) * time.Millisecond
			s.After("x", d, func() { order = append(order, d) })
		}
		step := time.Duration(rapid.IntRange(1, 700).Draw(rt, "step")) * time.Millisecond
		for s.Len() > 0 {
			s.Advance(step)
		}
		assert.Len(rt, order, len(delays))
		for i := 1; i < len(order); i++ {
			assert.LessOrEqual(rt, order[i-1], order[i])
		}
	})
}
