package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hostile/internal/scripting"
)

func newTestManager(t testing.TB) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(0, zap.New(core))
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func TestManager_Load_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load("wraith", `
		function test_hook(a, b)
			return a + b
		end
	`))
	ret, err := mgr.CallHook("wraith", "test_hook", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load("k", `x = 1`))
	ret, err := mgr.CallHook("k", "nope")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_UnknownKey_LogsInfoReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret, err := mgr.CallHook("no_such_key", "some_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.InfoLevel).Len())
}

func TestManager_CallHook_RuntimeError_WarnLogNoPanic(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.Load("k", `
		function bad_hook()
			error("intentional error")
		end
	`))
	ret, err := mgr.CallHook("k", "bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestManager_CallHook_EachCallGetsAFreshBudget(t *testing.T) {
	core, _ := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(500, zap.New(core))
	defer mgr.Close()
	require.NoError(t, mgr.Load("k", `
		function work()
			local s = 0
			for i = 1, 20 do s = s + i end
			return s
		end
	`))
	for i := 0; i < 50; i++ {
		ret, err := mgr.CallHook("k", "work")
		require.NoError(t, err)
		assert.Equal(t, lua.LNumber(210), ret)
	}
}

func TestManager_CallHook_RunawayScriptIsStopped(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.Load("k", `function spin() while true do end end`))
	ret, err := mgr.CallHook("k", "spin")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestManager_Load_InvalidLua_ReturnsError(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.Error(t, mgr.Load("bad", `this is not valid lua @@@@`))
	assert.Error(t, mgr.Load("", `x = 1`))
	assert.Empty(t, mgr.Keys())
}

func TestManager_Load_RunawayChunkIsStopped(t *testing.T) {
	core, _ := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(200, zap.New(core))
	defer mgr.Close()
	assert.Error(t, mgr.Load("spin", `while true do end`))
	assert.Empty(t, mgr.Keys())

	require.NoError(t, mgr.Load("k", `function work() return 2 + 2 end`))
	ret, err := mgr.CallHook("k", "work")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(4), ret)
}

func TestManager_Load_ReplacesPreviousVM(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load("k", `function v() return 1 end`))
	require.NoError(t, mgr.Load("k", `function v() return 2 end`))
	ret, err := mgr.CallHook("k", "v")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(2), ret)
	assert.Equal(t, []string{"k"}, mgr.Keys())
}

func TestManager_LoadFile(t *testing.T) {
	mgr, _ := newTestManager(t)
	path := filepath.Join(t.TempDir(), "rule.lua")
	require.NoError(t, os.WriteFile(path, []byte(`function v() return 5 end`), 0644))
	require.NoError(t, mgr.LoadFile("k", path))
	ret, _ := mgr.CallHook("k", "v")
	assert.Equal(t, lua.LNumber(5), ret)

	assert.Error(t, mgr.LoadFile("k", filepath.Join(t.TempDir(), "missing.lua")))
}

func TestManager_EngineLog_WritesToLogger(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.Load("k", `function hello() engine.log.info("hi from lua") end`))
	_, err := mgr.CallHook("k", "hello")
	require.NoError(t, err)
	entries := logs.FilterMessage("hi from lua").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "k", entries[0].ContextMap()["script"])
}

func TestNewManager_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() {
		scripting.NewManager(0, nil)
	})
}

func TestManager_Close_ReleasesVMs(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load("k", `function get_x() return 1 end`))
	mgr.Close()
	ret, err := mgr.CallHook("k", "get_x")
	assert.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Empty(t, mgr.Keys())
}

func TestProperty_CallHookMissingKeyNeverPanics(t *testing.T) {
	mgr, _ := newTestManager(t)
	rapid.Check(t, func(rt *rapid.T) {
		key := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "key")
		hook := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "hook")
		count := rapid.IntRange(1, 20).Draw(rt, "count")
		for i := 0; i < count; i++ {
			mgr.CallHook(key, hook) //nolint:errcheck
		}
	})
}

func TestProperty_CallHookConcurrentSameKey_NoRace(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.Load("conc", `
		function concurrent_hook(a, b)
			return a + b
		end
	`))

	const goroutines = 10
	const callsEach = 5
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsEach; j++ {
				ret, err := mgr.CallHook("conc", "concurrent_hook", lua.LNumber(1), lua.LNumber(2))
				assert.NoError(t, err)
				assert.Equal(t, lua.LNumber(3), ret)
			}
		}()
	}
	wg.Wait()
}
