package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.* Lua tables into L. Scripts loaded
// under key log through engine.log.debug/info/warn.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, key string) {
	engine := L.NewTable()
	logTable := L.NewTable()
	log := m.logger.With(zap.String("script", key))
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": log.Debug,
		"info":  log.Info,
		"warn":  log.Warn,
	} {
		emit := fn
		L.SetField(logTable, name, L.NewFunction(func(L *lua.LState) int {
			emit(L.CheckString(1))
			return 0
		}))
	}
	L.SetField(engine, "log", logTable)
	L.SetGlobal("engine", engine)
}
