package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/hostile/internal/game/damage"
)

// RejectsHook is the Lua global an immunity script must define:
// rejects(amount) returning true to block the hit.
const RejectsHook = "rejects"

// LuaRule is a damage.Rule backed by a script's rejects function. A script
// error, or a non-boolean result, lets the hit through.
type LuaRule struct {
	m   *Manager
	key string
}

var _ damage.Rule = (*LuaRule)(nil)

// CompileRule loads source under key and returns a rule calling its rejects function.
//
// Postcondition: returns an error when source fails to load or does not define rejects.
func (m *Manager) CompileRule(key, source string) (*LuaRule, error) {
	if err := m.Load(key, source); err != nil {
		return nil, err
	}
	if !m.HasHook(key, RejectsHook) {
		return nil, fmt.Errorf("scripting: %q does not define function %s(amount)", key, RejectsHook)
	}
	return &LuaRule{m: m, key: key}, nil
}

// Rejects implements damage.Rule.
func (r *LuaRule) Rejects(amount float64) bool {
	ret, err := r.m.CallHook(r.key, RejectsHook, lua.LNumber(amount))
	if err != nil {
		return false
	}
	return ret == lua.LTrue
}

// Key returns the script key the rule calls into.
func (r *LuaRule) Key() string { return r.key }
