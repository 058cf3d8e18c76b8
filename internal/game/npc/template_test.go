package npc_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hostile/internal/game/npc"
)

const spiderYAML = `
id: spider
name: Spider
max_hp: 40
senses:
  chase_range: 10
  attack_range: 1.5
chase_speed: 5
locomotion:
  kind: wander
  speed: 3.5
  wander_radius: 15
  min_wander_time: 3s
  max_wander_time: 7s
attack:
  kind: melee
  damage: 15
  cooldown: 2s
  delay: 500ms
death_destroy_delay: 2s
`

func TestLoadTemplateFromBytes_Valid(t *testing.T) {
	tmpl, err := npc.LoadTemplateFromBytes([]byte(spiderYAML))
	require.NoError(t, err)
	assert.Equal(t, "spider", tmpl.ID)
	assert.Equal(t, 40.0, tmpl.MaxHP)
	assert.Equal(t, 1.5, tmpl.Senses.AttackRange)
	assert.Equal(t, npc.AttackMelee, tmpl.Attack.Kind)
	assert.Equal(t, 2*time.Second, tmpl.DestroyDelay())
	assert.Equal(t, time.Duration(0), tmpl.Respawn())
	assert.Nil(t, tmpl.Immunity)
}

func TestLoadTemplateFromBytes_Errors(t *testing.T) {
	cases := map[string]func(*npc.Template){
		"empty id":           func(t *npc.Template) { t.ID = "" },
		"empty name":         func(t *npc.Template) { t.Name = "" },
		"zero hp":            func(t *npc.Template) { t.MaxHP = 0 },
		"ranges inverted":    func(t *npc.Template) { t.Senses.ChaseRange = 1 },
		"bad duration":       func(t *npc.Template) { t.Attack.Cooldown = "soon" },
		"negative duration":  func(t *npc.Template) { t.Attack.Delay = "-1s" },
		"unknown locomotion": func(t *npc.Template) { t.Locomotion.Kind = "fly" },
		"unknown attack":     func(t *npc.Template) { t.Attack.Kind = "bite" },
		"zero cooldown":      func(t *npc.Template) { t.Attack.Cooldown = "" },
		"wander radius":      func(t *npc.Template) { t.Locomotion.WanderRadius = 0 },
		"wander times":       func(t *npc.Template) { t.Locomotion.MinWanderTime = "9s" },
		"patrol reach": func(t *npc.Template) {
			t.Locomotion = npc.LocomotionConfig{Kind: npc.LocomotionPatrol, Speed: 2}
		},
		"channeled window": func(t *npc.Template) {
			t.Attack = npc.AttackConfig{Kind: npc.AttackChanneled, Damage: 5}
		},
		"channeled pulse interval": func(t *npc.Template) {
			t.Attack = npc.AttackConfig{Kind: npc.AttackChanneled, Damage: 5, Window: "3s"}
		},
		"negative threshold": func(t *npc.Template) { t.Immunity = &npc.ImmunityConfig{Threshold: -1} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tmpl := meleeTemplate()
			mutate(tmpl)
			assert.Error(t, tmpl.Validate())
		})
	}
	require.NoError(t, meleeTemplate().Validate())
	require.NoError(t, channeledTemplate().Validate())
}

func TestLoadTemplateFromBytes_MalformedYAML(t *testing.T) {
	_, err := npc.LoadTemplateFromBytes([]byte("id: [unclosed"))
	assert.Error(t, err)
}

func TestLoadTemplates_SkipsNonYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spider.yaml"), []byte(spiderYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# creatures"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	templates, err := npc.LoadTemplates(dir)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "spider", templates[0].ID)
}

func TestLoadTemplates_InvalidFileFailsWholeLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(spiderYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("id: broken\n"), 0644))

	templates, err := npc.LoadTemplates(dir)
	assert.Error(t, err)
	assert.Nil(t, templates)
}

func TestLoadTemplates_MissingDir(t *testing.T) {
	_, err := npc.LoadTemplates(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestProperty_Template_ValidDelaysParse(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		value := rapid.IntRange(1, 3600).Draw(rt, "value")
		unit := rapid.SampledFrom([]string{"ms", "s", "m"}).Draw(rt, "unit")
		delay := fmt.Sprintf("%d%s", value, unit)

		tmpl := meleeTemplate()
		tmpl.RespawnDelay = delay
		if err := tmpl.Validate(); err != nil {
			rt.Fatalf("valid delay %q rejected: %v", delay, err)
		}
		want, _ := time.ParseDuration(delay)
		if tmpl.Respawn() != want {
			rt.Fatalf("Respawn() = %v, want %v", tmpl.Respawn(), want)
		}
	})
}
