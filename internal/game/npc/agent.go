package npc

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/hostile/internal/game/combat"
	"github.com/cory-johannsen/hostile/internal/game/cue"
	"github.com/cory-johannsen/hostile/internal/game/damage"
	"github.com/cory-johannsen/hostile/internal/game/facing"
	"github.com/cory-johannsen/hostile/internal/game/geom"
	"github.com/cory-johannsen/hostile/internal/game/locomotion"
	"github.com/cory-johannsen/hostile/internal/game/nav"
	"github.com/cory-johannsen/hostile/internal/game/random"
	"github.com/cory-johannsen/hostile/internal/game/sensor"
)

// State is the top-level behavior state of an Agent.
type State int

const (
	// Idle is the initial state, and the permanent one for an agent without navigation.
	Idle State = iota
	// Locomoting wanders or patrols.
	Locomoting
	// Chasing pursues the target at chase speed.
	Chasing
	// Attacking holds position and runs the attack behavior.
	Attacking
	// Dead is terminal.
	Dead
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Locomoting:
		return "locomoting"
	case Chasing:
		return "chasing"
	case Attacking:
		return "attacking"
	case Dead:
		return "dead"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Options wires an Agent to the world. Every field is optional.
type Options struct {
	// ID defaults to a fresh uuid.
	ID string
	// Position is the spawn point; the wander anchor.
	Position geom.Vec3
	// Route is the patrol loop for patrol templates.
	Route []geom.Vec3
	// SpawnPoint names the spawn point the agent was created from.
	SpawnPoint string
	Nav        nav.Port
	Walkable   nav.Walkable
	Resolver   combat.Resolver
	// Scheduler is shared across a world; nil gives the agent a private one
	// that it advances itself.
	Scheduler *combat.Scheduler
	Cues      cue.Sink
	Rand      random.Source
	// Rule overrides the template's immunity threshold.
	Rule damage.Rule
	// OnDeath is called once, after the agent has entered Dead.
	OnDeath func(*Agent)
	Logger  *zap.Logger
}

// Agent is one live hostile creature.
type Agent struct {
	id         string
	tmpl       *Template
	spawnPoint string
	spawn      geom.Vec3

	health *damage.Health
	sensor sensor.Sensor
	facing facing.Controller

	loco    locomotion.Behavior
	locoCtx locomotion.Context
	attack  combat.Behavior
	ctx     combat.Context

	nav       nav.Port
	resolver  combat.Resolver
	sched     *combat.Scheduler
	ownsSched bool
	cues      cue.Sink
	onDeath   func(*Agent)
	log       *zap.Logger

	position    geom.Vec3
	orientation geom.Quat
	state       State
	stateSince  time.Duration
}

// NewAgent builds an Agent from tmpl.
//
// Precondition: tmpl must be non-nil.
// Postcondition: Returns an Agent in Idle with CurrentHP == MaxHP, or an error
// when tmpl fails validation.
func NewAgent(tmpl *Template, opts Options) (*Agent, error) {
	if tmpl == nil {
		return nil, errors.New("npc.NewAgent: tmpl must not be nil")
	}
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("npc.NewAgent: %w", err)
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("agent", id), zap.String("template", tmpl.ID))
	cues := opts.Cues
	if cues == nil {
		cues = cue.Nop{}
	}
	src := opts.Rand
	if src == nil {
		src = random.NewCryptoSource()
	}
	sched := opts.Scheduler
	owns := sched == nil
	if owns {
		sched = combat.NewScheduler()
	}
	rule := opts.Rule
	if rule == nil && tmpl.Immunity != nil && tmpl.Immunity.Threshold > 0 {
		rule = damage.Threshold{Min: tmpl.Immunity.Threshold}
	}

	a := &Agent{
		id:          id,
		tmpl:        tmpl,
		spawnPoint:  opts.SpawnPoint,
		spawn:       opts.Position,
		health:      damage.NewHealth(tmpl.MaxHP, rule),
		sensor:      tmpl.sensor(),
		facing:      facing.New(tmpl.Facing.LocomotionRate, tmpl.Facing.CombatRate, tmpl.Facing.OffsetDegrees),
		nav:         opts.Nav,
		resolver:    opts.Resolver,
		sched:       sched,
		ownsSched:   owns,
		cues:        cues,
		onDeath:     opts.OnDeath,
		log:         log,
		position:    opts.Position,
		orientation: geom.Identity,
		state:       Idle,
		stateSince:  sched.Now(),
	}
	a.loco = buildLocomotion(tmpl, opts.Route)
	a.attack = buildAttack(tmpl)
	a.locoCtx = locomotion.Context{
		Nav:      opts.Nav,
		Walkable: opts.Walkable,
		Rand:     src,
		Spawn:    opts.Position,
		Log:      log,
	}
	a.ctx = combat.Context{
		Owner:    id,
		Sched:    sched,
		Cues:     cues,
		Resolve:  a.target,
		Position: func() geom.Vec3 { return a.position },
		Alive:    a.IsAlive,
		Log:      log,
	}
	a.attack.Reset(sched.Now())

	if a.nav == nil {
		log.Warn("no navigation port; agent will stay idle")
	} else {
		a.position = a.nav.Position()
	}
	if a.resolver == nil {
		log.Warn("no target resolver; agent will only wander")
	}
	if tmpl.Locomotion.Kind == LocomotionPatrol && len(opts.Route) == 0 {
		log.Warn("patrol route is empty; agent will hold position")
	}
	return a, nil
}

func buildLocomotion(tmpl *Template, route []geom.Vec3) locomotion.Behavior {
	l := tmpl.Locomotion
	if l.Kind == LocomotionPatrol {
		return locomotion.NewPatrol(route, l.Speed, duration(l.WaitAtPoint), l.ReachDistance)
	}
	return locomotion.NewWander(l.WanderRadius, l.Speed, duration(l.MinWanderTime), duration(l.MaxWanderTime))
}

func buildAttack(tmpl *Template) combat.Behavior {
	at := tmpl.Attack
	if at.Kind == AttackChanneled {
		return combat.NewChanneled(at.Damage, duration(at.Delay), duration(at.Window),
			duration(at.Cooldown), duration(at.PulseInterval), tmpl.Senses.AttackRange)
	}
	return combat.NewMelee(at.Damage, duration(at.Cooldown), duration(at.Delay))
}

// target resolves the current target, or nil.
func (a *Agent) target() combat.Target {
	if a.resolver == nil {
		return nil
	}
	t, ok := a.resolver.Resolve()
	if !ok {
		return nil
	}
	return t
}

// Tick advances the agent by one frame.
//
// Precondition: dt >= 0.
// Postcondition: no effect once the agent is Dead.
func (a *Agent) Tick(dt time.Duration) {
	if a.state == Dead {
		return
	}
	if a.ownsSched {
		a.sched.Advance(dt)
		if a.state == Dead {
			return
		}
	}
	if a.nav == nil {
		return
	}
	a.position = a.nav.Position()
	t := a.target()
	a.attack.Tick(&a.ctx, dt)

	if a.attack.Busy() {
		a.enter(Attacking)
		a.face(t, dt)
		a.emitSpeed()
		return
	}

	var targetPos geom.Vec3
	if t != nil {
		targetPos = t.Position()
	}
	switch a.sensor.Classify(a.position, targetPos, t != nil) {
	case sensor.Attack:
		if a.state != Attacking {
			a.enter(Attacking)
			a.nav.Halt()
		}
		a.attack.Engage(&a.ctx)
	case sensor.Chase:
		if a.state != Chasing {
			a.leaveAttack()
			a.enter(Chasing)
			a.nav.Resume()
			a.nav.SetSpeed(a.tmpl.ChaseSpeed)
		}
		a.nav.SetDestination(targetPos)
	default:
		if a.state != Locomoting {
			a.leaveAttack()
			a.enter(Locomoting)
			a.nav.Resume()
			a.nav.SetSpeed(a.loco.Speed())
			a.loco.Enter(&a.locoCtx)
		}
		a.loco.Tick(&a.locoCtx, dt)
	}
	if a.state == Dead {
		return
	}
	a.face(t, dt)
	a.emitSpeed()
}

func (a *Agent) leaveAttack() {
	if a.state == Attacking {
		a.attack.Interrupt(&a.ctx)
	}
}

func (a *Agent) enter(s State) {
	if a.state == s {
		return
	}
	a.log.Debug("state transition", zap.Stringer("from", a.state), zap.Stringer("to", s))
	a.state = s
	a.stateSince = a.sched.Now()
}

func (a *Agent) face(t combat.Target, dt time.Duration) {
	if a.state == Attacking && t != nil {
		a.orientation = a.facing.TowardTarget(a.orientation, a.position, t.Position(), dt)
		return
	}
	a.orientation = a.facing.TowardVelocity(a.orientation, a.nav.Velocity(), a.nav.Halted(), dt)
}

func (a *Agent) emitSpeed() {
	if a.attack.PoseFrozen() {
		return
	}
	a.cues.MovementSpeed(a.id, a.nav.Velocity().Len())
}

// TakeDamage implements damage.Damageable.
//
// Postcondition: a blocked hit emits DamageBlocked; a lethal hit moves the
// agent to Dead exactly once.
func (a *Agent) TakeDamage(amount float64) {
	switch a.health.Apply(amount) {
	case damage.Blocked:
		a.log.Debug("damage blocked by immunity", zap.Float64("amount", amount))
		a.cues.DamageBlocked(a.id, amount)
	case damage.Killed:
		a.die()
	}
}

func (a *Agent) die() {
	a.enter(Dead)
	a.sched.CancelOwner(a.id)
	a.attack.Cancel(&a.ctx)
	if a.nav != nil {
		a.nav.Halt()
		a.nav.Disable()
	}
	a.cues.DeathTriggered(a.id)
	a.log.Info("agent died")
	if a.onDeath != nil {
		a.onDeath(a)
	}
}

func (a *Agent) IsAlive() bool      { return a.health.IsAlive() }
func (a *Agent) CurrentHP() float64 { return a.health.CurrentHP() }
func (a *Agent) MaxHP() float64     { return a.health.MaxHP() }

// Position returns the position read from navigation on the last tick.
func (a *Agent) Position() geom.Vec3 { return a.position }

// Orientation returns the engine-owned facing.
func (a *Agent) Orientation() geom.Quat { return a.orientation }

// ID returns the agent's unique id.
func (a *Agent) ID() string { return a.id }

// Name returns the template display name.
func (a *Agent) Name() string { return a.tmpl.Name }

// Template returns the template the agent was built from.
func (a *Agent) Template() *Template { return a.tmpl }

// SpawnPoint returns the name of the spawn point the agent came from.
func (a *Agent) SpawnPoint() string { return a.spawnPoint }

// Spawn returns the fixed spawn position.
func (a *Agent) Spawn() geom.Vec3 { return a.spawn }

// State returns the current behavior state.
func (a *Agent) State() State { return a.state }

// StateTime returns how long the agent has been in its current state.
func (a *Agent) StateTime() time.Duration { return a.sched.Now() - a.stateSince }

// Attack returns the attack behavior.
func (a *Agent) Attack() combat.Behavior { return a.attack }

// Locomotion returns the locomotion behavior.
func (a *Agent) Locomotion() locomotion.Behavior { return a.loco }

// HealthDescription returns a visible health state string suitable for status output.
//
// Postcondition: Returns a non-empty string.
func (a *Agent) HealthDescription() string {
	if !a.IsAlive() {
		return "dead"
	}
	pct := a.health.Fraction()
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
