// Package sim assembles a level: the shared simulation clock, the navigation
// space, the player, creature agents and hazards, advanced together one frame
// at a time.
package sim

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hostile/internal/game/combat"
	"github.com/cory-johannsen/hostile/internal/game/cue"
	"github.com/cory-johannsen/hostile/internal/game/damage"
	"github.com/cory-johannsen/hostile/internal/game/geom"
	"github.com/cory-johannsen/hostile/internal/game/hazard"
	"github.com/cory-johannsen/hostile/internal/game/nav"
	"github.com/cory-johannsen/hostile/internal/game/npc"
	"github.com/cory-johannsen/hostile/internal/game/player"
	"github.com/cory-johannsen/hostile/internal/game/random"
	"github.com/cory-johannsen/hostile/internal/scripting"
)

// PlayerID is the scheduler owner and log identity of the player.
const PlayerID = "player"

// scenarioOwner keys the scheduled player actions.
const scenarioOwner = "scenario"

const defaultAgentRadius = 0.5

// Options configures a World. Zero values fall back to defaults.
type Options struct {
	// Scripts compiles scripted immunity rules; nil disables them.
	Scripts *scripting.Manager
	Cues    cue.Sink
	Rand    random.Source
	Logger  *zap.Logger
}

// Status is a point-in-time summary of the world.
type Status struct {
	Now             time.Duration
	Frames          int
	Alive           int
	Dead            int
	PlayerHP        float64
	PlayerMagic     float64
	PendingDespawns int
	PendingRespawns int
}

// World owns everything in one level and advances it in lockstep.
//
// World is not safe for concurrent use; Advance is driven by a single Loop.
type World struct {
	scenario  *Scenario
	templates *npc.Registry
	scripts   *scripting.Manager
	cues      cue.Sink
	rand      random.Source
	log       *zap.Logger

	sched     *combat.Scheduler
	space     *nav.Space
	agents    *npc.Manager
	lifecycle *npc.DespawnManager
	movers    map[string]*nav.Mover
	player    *player.Player
	hazards   []*hazard.Spikes
	frames    int
}

// NewWorld builds the level described by sc and spawns one agent per spawn point.
//
// Precondition: sc must be valid; reg must be non-nil.
// Postcondition: Returns a World at time zero, or an error when a spawn point
// names an unknown template or a creature fails to spawn.
func NewWorld(sc *Scenario, reg *npc.Registry, opts Options) (*World, error) {
	if sc == nil || reg == nil {
		return nil, errors.New("sim.NewWorld: scenario and registry must not be nil")
	}
	for _, p := range sc.SpawnPoints {
		if _, ok := reg.Get(p.TemplateID); !ok {
			return nil, fmt.Errorf("sim.NewWorld: spawn point %q references unknown template %q", p.Name, p.TemplateID)
		}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cues := opts.Cues
	if cues == nil {
		cues = cue.Nop{}
	}
	src := opts.Rand
	if src == nil {
		src = random.NewCryptoSource()
	}

	w := &World{
		scenario:  sc,
		templates: reg,
		scripts:   opts.Scripts,
		cues:      cues,
		rand:      src,
		log:       log.With(zap.String("scenario", sc.Name)),
		sched:     combat.NewScheduler(),
		space:     nav.NewSpace(sc.GroundY, sc.StoppingDistance),
		agents:    npc.NewManager(),
		lifecycle: npc.NewDespawnManager(sc.SpawnPoints, reg),
		movers:    make(map[string]*nav.Mover),
		hazards:   sc.Hazards,
	}
	for _, a := range sc.Areas {
		w.space.AddArea(a.MinX, a.MinZ, a.MaxX, a.MaxZ)
	}
	w.player = player.New(PlayerID, sc.PlayerPosition, sc.Player, w.sched, w.log)

	if _, err := w.lifecycle.Populate(w.agents, w.spawn); err != nil {
		return nil, fmt.Errorf("sim.NewWorld: %w", err)
	}
	for _, act := range sc.Actions {
		w.sched.After(scenarioOwner, act.At, func() { w.perform(act) })
	}
	w.log.Info("world ready",
		zap.Int("agents", w.agents.Len()),
		zap.Int("hazards", len(w.hazards)),
		zap.Int("actions", len(sc.Actions)),
	)
	return w, nil
}

// spawn builds an agent for p, gives it a mover and registers it.
func (w *World) spawn(p npc.SpawnPoint) (*npc.Agent, error) {
	tmpl, ok := w.templates.Get(p.TemplateID)
	if !ok {
		return nil, fmt.Errorf("unknown template %q", p.TemplateID)
	}
	rule, err := w.immunityRule(tmpl)
	if err != nil {
		return nil, err
	}
	radius := w.scenario.AgentRadius
	if radius <= 0 {
		radius = defaultAgentRadius
	}
	mover := w.space.Spawn(p.Position, radius)
	a, err := npc.NewAgent(tmpl, npc.Options{
		Position:   p.Position,
		Route:      p.Route,
		SpawnPoint: p.Name,
		Nav:        mover,
		Walkable:   w.space,
		Resolver:   combat.ResolverFunc(w.resolvePlayer),
		Scheduler:  w.sched,
		Cues:       w.cues,
		Rand:       w.rand,
		Rule:       rule,
		OnDeath:    w.onDeath,
		Logger:     w.log,
	})
	if err != nil {
		w.space.Remove(mover)
		return nil, fmt.Errorf("spawning %q: %w", p.Name, err)
	}
	if err := w.agents.Add(a); err != nil {
		w.space.Remove(mover)
		return nil, err
	}
	w.movers[a.ID()] = mover
	return a, nil
}

// immunityRule compiles tmpl's immunity script, or returns nil so the agent
// falls back to the template threshold.
func (w *World) immunityRule(tmpl *npc.Template) (damage.Rule, error) {
	if tmpl.Immunity == nil || tmpl.Immunity.Script == "" {
		return nil, nil
	}
	if w.scripts == nil {
		w.log.Warn("no script manager; scripted immunity ignored", zap.String("template", tmpl.ID))
		return nil, nil
	}
	rule, err := w.scripts.CompileRule("immunity:"+tmpl.ID, tmpl.Immunity.Script)
	if err != nil {
		return nil, fmt.Errorf("compiling immunity for %q: %w", tmpl.ID, err)
	}
	return rule, nil
}

func (w *World) resolvePlayer() (combat.Target, bool) {
	if !w.player.IsAlive() {
		return nil, false
	}
	return w.player, true
}

func (w *World) onDeath(a *npc.Agent) {
	w.lifecycle.ScheduleDespawn(a, w.sched.Now())
}

// Advance moves the world forward by dt.
//
// Order: due timers fire, agents think, the navigation space integrates, the
// gauntlet and hazards apply damage, and finished corpses are cleared.
//
// Precondition: dt >= 0.
func (w *World) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	w.frames++
	w.sched.Advance(dt)

	for _, a := range w.agents.All() {
		a.Tick(dt)
	}
	w.space.Step(dt)

	if w.player.Casting() {
		w.player.TickCast(dt, w.nearestAgent(w.player.Position()))
	}
	if len(w.hazards) > 0 {
		occupants := w.occupants()
		for _, h := range w.hazards {
			if hits := h.Tick(dt, occupants); hits > 0 {
				w.log.Debug("hazard hit", zap.String("hazard", h.Name), zap.Int("hits", hits))
			}
		}
	}

	removed, spawned := w.lifecycle.Tick(w.sched.Now(), w.agents, w.spawn)
	for _, id := range removed {
		if m, ok := w.movers[id]; ok {
			w.space.Remove(m)
			delete(w.movers, id)
		}
		w.log.Debug("agent despawned", zap.String("agent", id))
	}
	for _, a := range spawned {
		w.log.Info("agent respawned", zap.String("agent", a.ID()), zap.String("spawn_point", a.SpawnPoint()))
	}
}

// nearestAgent returns the closest living agent, or nil.
func (w *World) nearestAgent(from geom.Vec3) combat.Target {
	var best *npc.Agent
	bestDist := math.Inf(1)
	for _, a := range w.agents.All() {
		if !a.IsAlive() {
			continue
		}
		if d := geom.Distance(from, a.Position()); d < bestDist {
			best, bestDist = a, d
		}
	}
	if best == nil {
		return nil
	}
	return best
}

func (w *World) occupants() []hazard.Occupant {
	all := w.agents.All()
	out := make([]hazard.Occupant, 0, len(all)+1)
	out = append(out, w.player)
	for _, a := range all {
		out = append(out, a)
	}
	return out
}

// area adapts the agent manager to the player's strike query.
func (w *World) area(center geom.Vec3, radius float64) []damage.Damageable {
	within := w.agents.Within(center, radius)
	out := make([]damage.Damageable, 0, len(within))
	for _, a := range within {
		out = append(out, a)
	}
	return out
}

// perform applies one scripted player action.
func (w *World) perform(act Action) {
	p := w.player
	ok := true
	switch act.Do {
	case ActionMove:
		p.MoveTo(act.To)
	case ActionStrike:
		ok = p.Strike(w.area)
	case ActionCast:
		ok = p.StartCast()
	case ActionStopCast:
		p.StopCast()
	case ActionBlock:
		p.SetBlocking(true)
	case ActionUnblock:
		p.SetBlocking(false)
	case ActionInvincible:
		ok = p.ActivateInvincibility()
	case ActionHeal:
		p.Heal(act.Amount)
	case ActionRestoreMagic:
		p.RestoreMagic(act.Amount)
	}
	w.log.Debug("player action", zap.String("action", act.Do), zap.Bool("accepted", ok))
}

// Strike swings the player's melee attack at every agent in range.
func (w *World) Strike() bool { return w.player.Strike(w.area) }

// Now returns the simulation clock.
func (w *World) Now() time.Duration { return w.sched.Now() }

// Scheduler returns the shared simulation clock.
func (w *World) Scheduler() *combat.Scheduler { return w.sched }

// Player returns the player.
func (w *World) Player() *player.Player { return w.player }

// Agents returns the live agent manager.
func (w *World) Agents() *npc.Manager { return w.agents }

// Space returns the navigation space.
func (w *World) Space() *nav.Space { return w.space }

// Mover returns the navigation handle of agent id.
func (w *World) Mover(id string) (*nav.Mover, bool) {
	m, ok := w.movers[id]
	return m, ok
}

// Status summarizes the world.
func (w *World) Status() Status {
	st := Status{
		Now:         w.sched.Now(),
		Frames:      w.frames,
		PlayerHP:    w.player.CurrentHP(),
		PlayerMagic: w.player.Magic(),
	}
	for _, a := range w.agents.All() {
		if a.IsAlive() {
			st.Alive++
		} else {
			st.Dead++
		}
	}
	st.PendingDespawns, st.PendingRespawns = w.lifecycle.Pending()
	return st
}

// Describe returns one line per agent, sorted by spawn point.
func (w *World) Describe() []string {
	all := w.agents.All()
	sort.Slice(all, func(i, j int) bool { return all[i].SpawnPoint() < all[j].SpawnPoint() })
	out := make([]string, 0, len(all))
	for _, a := range all {
		out = append(out, fmt.Sprintf("%s [%s] %s %s", a.SpawnPoint(), a.Name(), a.State(), a.HealthDescription()))
	}
	return out
}
