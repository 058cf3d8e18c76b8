package npc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/hostile/internal/game/geom"
	"github.com/cory-johannsen/hostile/internal/game/npc"
	"github.com/cory-johannsen/hostile/internal/testutil"
)

func spawnAt(t *testing.T, id, point string, pos geom.Vec3) *npc.Agent {
	t.Helper()
	a, err := npc.NewAgent(meleeTemplate(), npc.Options{
		ID: id, SpawnPoint: point, Position: pos, Nav: testutil.NewFakeNav(pos),
	})
	require.NoError(t, err)
	return a
}

func TestManager_AddGetRemove(t *testing.T) {
	m := npc.NewManager()
	a := spawnAt(t, "a", "den", geom.Zero)
	require.NoError(t, m.Add(a))
	assert.Error(t, m.Add(a), "duplicate id")
	assert.Error(t, m.Add(nil))

	got, ok := m.Get("a")
	assert.True(t, ok)
	assert.Same(t, a, got)
	assert.Len(t, m.AtSpawnPoint("den"), 1)

	require.NoError(t, m.Remove("a"))
	assert.Error(t, m.Remove("a"))
	assert.Empty(t, m.AtSpawnPoint("den"))
	assert.Equal(t, 0, m.Len())
}

func TestManager_WithinSkipsDeadAndFar(t *testing.T) {
	m := npc.NewManager()
	near := spawnAt(t, "a", "", geom.Vec3{X: 1})
	far := spawnAt(t, "b", "", geom.Vec3{X: 10})
	dead := spawnAt(t, "c", "", geom.Vec3{X: 0.5})
	dead.TakeDamage(1000)
	for _, a := range []*npc.Agent{near, far, dead} {
		require.NoError(t, m.Add(a))
	}

	got := m.Within(geom.Zero, 2)
	require.Len(t, got, 1)
	assert.Same(t, near, got[0])
}

func TestManager_AllIsOrdered(t *testing.T) {
	m := npc.NewManager()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, m.Add(spawnAt(t, id, "", geom.Zero)))
	}
	var ids []string
	for _, a := range m.All() {
		ids = append(ids, a.ID())
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestRegistry_PutReplaces(t *testing.T) {
	r := npc.NewRegistry(meleeTemplate())
	tmpl, ok := r.Get("beast")
	require.True(t, ok)
	assert.Equal(t, 120.0, tmpl.MaxHP)

	updated := meleeTemplate()
	updated.MaxHP = 200
	r.Put(updated)
	tmpl, _ = r.Get("beast")
	assert.Equal(t, 200.0, tmpl.MaxHP)

	r.Put(channeledTemplate())
	assert.Equal(t, []string{"beast", "cultist"}, r.IDs())
}
