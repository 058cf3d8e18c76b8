package scripting

import (
	"fmt"
	"os"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// vm is one loaded script. An LState is single-threaded; mu serializes calls.
type vm struct {
	mu sync.Mutex
	L  *lua.LState
}

// Manager owns one sandboxed LState per script key and exposes hook dispatch.
//
// Manager is safe for concurrent use. Calls into the same script are
// serialized; different scripts run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	limit  int
	logger *zap.Logger
}

// NewManager creates a Manager whose executions are capped at instLimit opcodes.
//
// Precondition: logger must be non-nil; instLimit >= 0 (0 uses DefaultInstructionLimit).
// Postcondition: Returns a non-nil Manager with no scripts loaded.
func NewManager(instLimit int, logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		limit:  instLimit,
		logger: logger,
	}
}

// Load creates a sandboxed VM for key, registers the engine.* modules, and
// executes source. A previous VM under key is closed and replaced.
//
// Precondition: key must be non-empty.
// Postcondition: returns an error on Lua compile or runtime failure; the
// previous VM, if any, stays in place.
func (m *Manager) Load(key, source string) error {
	if key == "" {
		return fmt.Errorf("scripting: key must not be empty")
	}
	L := NewSandboxedState()
	m.RegisterModules(L, key)
	if err := DoBounded(L, m.limit, source); err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading %q: %w", key, err)
	}

	m.mu.Lock()
	if old, ok := m.vms[key]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.vms[key] = &vm{L: L}
	m.mu.Unlock()
	return nil
}

// LoadFile reads path and loads it under key.
func (m *Manager) LoadFile(key, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scripting: reading %q: %w", path, err)
	}
	return m.Load(key, string(data))
}

// CallHook calls the named Lua global function in key's VM with a fresh
// instruction budget. Returns (LNil, nil) if the hook is not defined or no VM
// exists. Lua runtime errors, including an exhausted budget, are logged at
// Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(key, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[key]
	m.mu.RUnlock()
	if !ok {
		m.logger.Info("scripting: no VM for key", zap.String("key", key), zap.String("hook", hook))
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	release := arm(v.L, m.limit)
	defer release()
	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("key", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// HasHook reports whether key's VM defines hook as a function.
func (m *Manager) HasHook(key, hook string) bool {
	m.mu.RLock()
	v, ok := m.vms[key]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.L.GetGlobal(hook).Type() == lua.LTFunction
}

// Keys returns the loaded script keys in sorted order.
func (m *Manager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.vms))
	for k := range m.vms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close releases every VM.
//
// Postcondition: Keys() is empty.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
		delete(m.vms, k)
	}
}
