package npc

import (
	"sort"
	"sync"
)

// Registry holds the current creature templates by ID. The content watcher
// replaces entries while the simulation reads them.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewRegistry returns a Registry holding templates.
func NewRegistry(templates ...*Template) *Registry {
	r := &Registry{templates: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		r.templates[t.ID] = t
	}
	return r
}

// Put inserts or replaces tmpl. Agents already spawned keep the template
// they were built from.
func (r *Registry) Put(tmpl *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[tmpl.ID] = tmpl
}

// Get returns the template with id.
func (r *Registry) Get(id string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	return t, ok
}

// IDs returns every template id in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
