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

	"github.com/cory-johannsen/cardbattle/internal/scripting"
)

func TestManager_Load_CallsHook(t *testing.T) {
	m, _ := newTestManager(t, 0)
	loadScript(t, m, `
		function add(a, b)
			return a + b
		end
	`)
	assert.True(t, m.HasFunction("add"))
	assert.Equal(t, lua.LNumber(7), m.CallHook("add", scripting.Call{}, lua.LNumber(3), lua.LNumber(4)))
}

func TestManager_Load_LexicographicOrder(t *testing.T) {
	m, _ := newTestManager(t, 0)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`order = order .. "b"`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`order = "a"`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not lua`), 0o644))
	require.NoError(t, m.Load(dir))
	loadScript(t, m, `function get_order() return order end`)
	assert.Equal(t, lua.LString("ab"), m.CallHook("get_order", scripting.Call{}))
}

func TestManager_Load_Errors(t *testing.T) {
	m, _ := newTestManager(t, 0)
	assert.Error(t, m.Load(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, m.Load(writeTempLua(t, "bad.lua", `function (`)))
}

func TestManager_CallHook_MissingHook_NoOp(t *testing.T) {
	m, _ := newTestManager(t, 0)
	assert.False(t, m.HasFunction("nonexistent_hook"))
	assert.Equal(t, lua.LNil, m.CallHook("nonexistent_hook", scripting.Call{}))
}

func TestManager_CallHook_RuntimeError_LoggedNotPropagated(t *testing.T) {
	m, logs := newTestManager(t, 0)
	loadScript(t, m, `function boom() error("kaboom") end`)
	assert.Equal(t, lua.LNil, m.CallHook("boom", scripting.Call{}))
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestManager_InstructionBudgetIsPerCall(t *testing.T) {
	m, logs := newTestManager(t, 2000)
	loadScript(t, m, `
		function spin() while true do end end
		function small()
			local n = 0
			for i = 1, 100 do n = n + i end
			return n
		end
	`)
	assert.Equal(t, lua.LNil, m.CallHook("spin", scripting.Call{}))
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())
	for i := 0; i < 50; i++ {
		require.Equal(t, lua.LNumber(5050), m.CallHook("small", scripting.Call{}), "call %d", i)
	}
}

func TestManager_ConcurrentCalls(t *testing.T) {
	m := scripting.NewManager(0, zap.NewNop())
	defer m.Close()
	loadScript(t, m, `
		counter = 0
		function bump() counter = counter + 1 return counter end
		function read() return counter end
	`)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				m.CallHook("bump", scripting.Call{})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, lua.LNumber(200), m.CallHook("read", scripting.Call{}))
}
