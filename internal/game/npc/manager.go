package npc

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cory-johannsen/hostile/internal/game/geom"
)

// Manager tracks all live agents by ID and by spawn point.
// All methods are safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	agents map[string]*Agent          // agentID → Agent
	points map[string]map[string]bool // spawn point → set of agentIDs
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		agents: make(map[string]*Agent),
		points: make(map[string]map[string]bool),
	}
}

// Add registers a.
//
// Precondition: a must be non-nil.
// Postcondition: Returns an error if an agent with the same ID is already registered.
func (m *Manager) Add(a *Agent) error {
	if a == nil {
		return fmt.Errorf("npc.Manager.Add: agent must not be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.agents[a.ID()]; ok {
		return fmt.Errorf("npc.Manager.Add: agent %q already registered", a.ID())
	}
	m.agents[a.ID()] = a
	if p := a.SpawnPoint(); p != "" {
		if m.points[p] == nil {
			m.points[p] = make(map[string]bool)
		}
		m.points[p][a.ID()] = true
	}
	return nil
}

// Remove deletes an agent by ID.
//
// Postcondition: Returns an error if the agent is not found.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.agents[id]
	if !ok {
		return fmt.Errorf("npc agent %q not found", id)
	}
	if ps, ok := m.points[a.SpawnPoint()]; ok {
		delete(ps, id)
		if len(ps) == 0 {
			delete(m.points, a.SpawnPoint())
		}
	}
	delete(m.agents, id)
	return nil
}

// Get returns the agent with the given ID.
//
// Postcondition: Returns (a, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Agent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[id]
	return a, ok
}

// Len returns the number of registered agents, dead or alive.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.agents)
}

// All returns a snapshot of every agent ordered by ID.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (m *Manager) All() []*Agent {
	m.mu.RLock()
	out := make([]*Agent, 0, len(m.agents))
	for _, a := range m.agents {
		out = append(out, a)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// AtSpawnPoint returns a snapshot of the agents created from spawn point name.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (m *Manager) AtSpawnPoint(name string) []*Agent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids, ok := m.points[name]
	if !ok {
		return []*Agent{}
	}
	out := make([]*Agent, 0, len(ids))
	for id := range ids {
		if a, ok := m.agents[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Within returns the living agents no farther than radius from center,
// ordered by ID.
func (m *Manager) Within(center geom.Vec3, radius float64) []*Agent {
	var out []*Agent
	for _, a := range m.All() {
		if a.IsAlive() && geom.Distance(center, a.Position()) <= radius {
			out = append(out, a)
		}
	}
	return out
}
