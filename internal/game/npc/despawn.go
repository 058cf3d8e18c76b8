package npc

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cory-johannsen/hostile/internal/game/geom"
)

// SpawnPoint is a named place in the level where one creature of a template lives.
type SpawnPoint struct {
	Name       string
	TemplateID string
	Position   geom.Vec3
	// Route is the patrol loop for patrol templates; ignored otherwise.
	Route []geom.Vec3
}

// SpawnFunc builds and registers an agent for a spawn point.
type SpawnFunc func(SpawnPoint) (*Agent, error)

// lifecycleEntry represents a single pending removal or refill.
type lifecycleEntry struct {
	agentID string
	point   string
	readyAt time.Duration
}

// DespawnManager removes dead agents after their template's death delay and
// refills their spawn point after its respawn delay. Times are simulation
// clock readings.
//
// Invariant: respawns are queued only for templates with a positive respawn delay.
//
// Concurrency: Tick and Populate must not be called concurrently with each
// other or with themselves. ScheduleDespawn may be called from any goroutine.
type DespawnManager struct {
	mu        sync.Mutex
	points    map[string]SpawnPoint
	templates *Registry
	despawns  []lifecycleEntry
	respawns  []lifecycleEntry
}

// NewDespawnManager creates a DespawnManager over points, resolving templates through reg.
//
// Precondition: reg must be non-nil.
// Postcondition: Returns a non-nil DespawnManager.
func NewDespawnManager(points []SpawnPoint, reg *Registry) *DespawnManager {
	m := &DespawnManager{points: make(map[string]SpawnPoint, len(points)), templates: reg}
	for _, p := range points {
		m.points[p.Name] = p
	}
	return m
}

// Populate spawns one agent for every spawn point that has none alive.
//
// Postcondition: returns the agents created and the joined spawn failures;
// a failed point stays empty and does not stop the others.
func (m *DespawnManager) Populate(mgr *Manager, spawn SpawnFunc) ([]*Agent, error) {
	m.mu.Lock()
	points := make([]SpawnPoint, 0, len(m.points))
	for _, p := range m.points {
		points = append(points, p)
	}
	m.mu.Unlock()
	sort.Slice(points, func(i, j int) bool { return points[i].Name < points[j].Name })

	var (
		out  []*Agent
		errs []error
	)
	for _, p := range points {
		if m.occupied(p.Name, mgr) {
			continue
		}
		a, err := spawn(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("spawn point %q: %w", p.Name, err))
			continue
		}
		out = append(out, a)
	}
	return out, errors.Join(errs...)
}

// ScheduleDespawn queues removal of a, due at now plus its template's death delay.
//
// Precondition: a must be non-nil.
func (m *DespawnManager) ScheduleDespawn(a *Agent, now time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.despawns = append(m.despawns, lifecycleEntry{
		agentID: a.ID(),
		point:   a.SpawnPoint(),
		readyAt: now + a.Template().DestroyDelay(),
	})
}

// Tick removes every agent whose despawn is due, queues respawns for their
// spawn points, and refills the points whose respawn is due and that hold no
// living agent.
//
// Postcondition: returns the IDs removed and the agents spawned, in that order.
func (m *DespawnManager) Tick(now time.Duration, mgr *Manager, spawn SpawnFunc) (removed []string, spawned []*Agent) {
	m.mu.Lock()
	var readyDespawns, readyRespawns []lifecycleEntry
	m.despawns, readyDespawns = partition(m.despawns, now)
	m.mu.Unlock()

	for _, e := range readyDespawns {
		if err := mgr.Remove(e.agentID); err != nil {
			continue
		}
		removed = append(removed, e.agentID)
		if delay := m.respawnDelay(e.point); delay > 0 {
			m.mu.Lock()
			m.respawns = append(m.respawns, lifecycleEntry{point: e.point, readyAt: now + delay})
			m.mu.Unlock()
		}
	}

	m.mu.Lock()
	m.respawns, readyRespawns = partition(m.respawns, now)
	m.mu.Unlock()

	for _, e := range readyRespawns {
		m.mu.Lock()
		p, ok := m.points[e.point]
		m.mu.Unlock()
		if !ok || m.occupied(p.Name, mgr) {
			continue
		}
		a, err := spawn(p)
		if err != nil {
			continue
		}
		spawned = append(spawned, a)
	}
	return removed, spawned
}

// Pending returns the number of queued despawns and respawns.
func (m *DespawnManager) Pending() (despawns, respawns int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.despawns), len(m.respawns)
}

// respawnDelay returns the template respawn delay for spawn point name, or 0
// when the point or template is unknown.
func (m *DespawnManager) respawnDelay(name string) time.Duration {
	m.mu.Lock()
	p, ok := m.points[name]
	m.mu.Unlock()
	if !ok {
		return 0
	}
	tmpl, ok := m.templates.Get(p.TemplateID)
	if !ok {
		return 0
	}
	return tmpl.Respawn()
}

func (m *DespawnManager) occupied(name string, mgr *Manager) bool {
	for _, a := range mgr.AtSpawnPoint(name) {
		if a.IsAlive() {
			return true
		}
	}
	return false
}

// partition splits entries into those still pending and those due at now.
func partition(entries []lifecycleEntry, now time.Duration) (future, ready []lifecycleEntry) {
	for _, e := range entries {
		if e.readyAt <= now {
			ready = append(ready, e)
		} else {
			future = append(future, e)
		}
	}
	return future, ready
}
