package sensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hostile/internal/game/geom"
	"github.com/cory-johannsen/hostile/internal/game/sensor"
)

func TestClassify_Bands(t *testing.T) {
	s := sensor.Sensor{AttackRange: 2, ChaseRange: 10}
	self := geom.Vec3{}

	assert.Equal(t, sensor.Attack, s.Classify(self, geom.Vec3{X: 2}, true))
	assert.Equal(t, sensor.Chase, s.Classify(self, geom.Vec3{X: 2.01}, true))
	assert.Equal(t, sensor.Chase, s.Classify(self, geom.Vec3{Z: 10}, true))
	assert.Equal(t, sensor.Wander, s.Classify(self, geom.Vec3{Z: 10.01}, true))
}

func TestClassify_NoTargetAlwaysWanders(t *testing.T) {
	s := sensor.Sensor{AttackRange: 2, ChaseRange: 10}
	assert.Equal(t, sensor.Wander, s.Classify(geom.Vec3{}, geom.Vec3{}, false))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sensor.Sensor{AttackRange: 1.8, ChaseRange: 15}.Validate())
	assert.Error(t, sensor.Sensor{AttackRange: 0, ChaseRange: 15}.Validate())
	assert.Error(t, sensor.Sensor{AttackRange: 8, ChaseRange: 8}.Validate())
}

func TestProperty_Classify_AttackBeatsChase(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		attack := rapid.Float64Range(0.1, 10).Draw(rt, "attack")
		chase := attack + rapid.Float64Range(0.1, 20).Draw(rt, "extra")
		s := sensor.Sensor{AttackRange: attack, ChaseRange: chase}
		d := rapid.Float64Range(0, attack).Draw(rt, "d")
		// Both the chase and attack conditions hold at d <= attack.
		assert.Equal(rt, sensor.Attack, s.Classify(geom.Vec3{}, geom.Vec3{X: d}, true))
	})
}
