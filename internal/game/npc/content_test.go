package npc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/hostile/internal/game/npc"
)

func TestShippedCreatures_Load(t *testing.T) {
	templates, err := npc.LoadTemplates("../../../content/creatures")
	require.NoError(t, err)

	byID := map[string]*npc.Template{}
	for _, tmpl := range templates {
		byID[tmpl.ID] = tmpl
	}
	for _, id := range []string{"beast", "goblin", "spider", "ghost", "cultist", "wraith"} {
		assert.Contains(t, byID, id)
	}

	beast := byID["beast"]
	require.NotNil(t, beast)
	assert.Equal(t, 120.0, beast.MaxHP)
	assert.Equal(t, 3*time.Second, beast.DestroyDelay())

	ghost := byID["ghost"]
	require.NotNil(t, ghost)
	require.NotNil(t, ghost.Immunity)
	assert.Equal(t, 10.0, ghost.Immunity.Threshold)

	goblin := byID["goblin"]
	require.NotNil(t, goblin)
	assert.Equal(t, 180.0, goblin.Facing.OffsetDegrees)
	assert.Equal(t, npc.LocomotionPatrol, goblin.Locomotion.Kind)

	cultist := byID["cultist"]
	require.NotNil(t, cultist)
	assert.Equal(t, npc.AttackChanneled, cultist.Attack.Kind)

	wraith := byID["wraith"]
	require.NotNil(t, wraith)
	require.NotNil(t, wraith.Immunity)
	assert.Contains(t, wraith.Immunity.Script, "function rejects")
}
