// Package scripting runs creature scripts in sandboxed GopherLua states. It has
// no dependency on game domain packages beyond the damage rule contract its
// predicates satisfy.
package scripting

import (
	"context"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget of one script execution when
// no override is configured.
const DefaultInstructionLimit = 100_000

// safeLibs are the only standard libraries a creature script can reach.
var safeLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// blockedGlobals are base library functions that reach the filesystem, the
// loader or the collector.
var blockedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require"}

// budget is a context that cancels itself once Done has been called more
// than its allowance. GopherLua polls Done once per opcode, so the allowance
// is an exact instruction count. A budget is used by one execution at a time.
type budget struct {
	context.Context
	cancel    context.CancelFunc
	remaining int64
}

func (b *budget) Done() <-chan struct{} {
	b.remaining--
	if b.remaining <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

func newBudget(limit int) *budget {
	ctx, cancel := context.WithCancel(context.Background())
	return &budget{Context: ctx, cancel: cancel, remaining: int64(effectiveLimit(limit))}
}

func effectiveLimit(instLimit int) int {
	if instLimit <= 0 {
		return DefaultInstructionLimit
	}
	return instLimit
}

// arm gives L a fresh budget of limit opcodes for one execution.
// The returned func releases the budget and must be called when the execution ends.
func arm(L *lua.LState, limit int) func() {
	b := newBudget(limit)
	L.SetContext(b)
	return func() {
		b.cancel()
		L.RemoveContext()
	}
}

// NewSandboxedState returns an LState with only the base, table, string and
// math libraries and the loader and collector globals removed. No budget is
// armed; run code through DoBounded or a Manager.
//
// Postcondition: The caller owns the LState and must Close it.
func NewSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range safeLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// DoBounded runs source in L under a budget of instLimit opcodes and
// releases the budget before returning.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
func DoBounded(L *lua.LState, instLimit int, source string) error {
	release := arm(L, instLimit)
	defer release()
	return L.DoString(source)
}
